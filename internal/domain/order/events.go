package order

import (
	"github.com/123shiju/ecommerce-client/internal/domain/shared"
	"github.com/shopspring/decimal"
)

const (
	// AggregateType for order events
	AggregateType = "Order"

	EventTypeOrderPlaced = "order.placed"
)

// OrderPlacedEvent is raised once the backend returned an order id
type OrderPlacedEvent struct {
	shared.BaseDomainEvent
	OrderID string          `json:"order_id"`
	UserID  string          `json:"user_id"`
	Total   decimal.Decimal `json:"total"`
	Items   int             `json:"items"`
}

// NewOrderPlacedEvent creates an OrderPlacedEvent
func NewOrderPlacedEvent(orderID, userID string, total decimal.Decimal, items int) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPlaced, AggregateType, orderID),
		OrderID:         orderID,
		UserID:          userID,
		Total:           total,
		Items:           items,
	}
}
