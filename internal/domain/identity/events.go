package identity

import "github.com/123shiju/ecommerce-client/internal/domain/shared"

// AggregateType for identity events
const AggregateType = "Session"

// Event types
const (
	EventTypeSessionStarted = "identity.session_started"
	EventTypeSessionEnded   = "identity.session_ended"
)

// SessionStartedEvent is raised after sign-in, sign-up or restore
type SessionStartedEvent struct {
	shared.BaseDomainEvent
	UserID   string `json:"user_id"`
	Restored bool   `json:"restored"`
}

// NewSessionStartedEvent creates a SessionStartedEvent
func NewSessionStartedEvent(userID string, restored bool) *SessionStartedEvent {
	return &SessionStartedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSessionStarted, AggregateType, userID),
		UserID:          userID,
		Restored:        restored,
	}
}

// SessionEndedEvent is raised after sign-out
type SessionEndedEvent struct {
	shared.BaseDomainEvent
	UserID string `json:"user_id"`
}

// NewSessionEndedEvent creates a SessionEndedEvent
func NewSessionEndedEvent(userID string) *SessionEndedEvent {
	return &SessionEndedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSessionEnded, AggregateType, userID),
		UserID:          userID,
	}
}
