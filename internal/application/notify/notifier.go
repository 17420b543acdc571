// Package notify keeps the feed of transient user-facing notifications.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/123shiju/ecommerce-client/internal/domain/shared"
	"github.com/123shiju/ecommerce-client/internal/infrastructure/logger"
	"github.com/123shiju/ecommerce-client/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Level is the severity of a notification
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// DefaultCapacity is the number of notifications kept when none is configured
const DefaultCapacity = 50

// Notification is one toast
type Notification struct {
	ID      string    `json:"id"`
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Notifier is a bounded ring of recent notifications. Every notification
// is also written to the log.
type Notifier struct {
	mu      sync.RWMutex
	buf     []Notification
	next    int
	size    int
	logger  *zap.Logger
	metrics *telemetry.Metrics
	now     func() time.Time
}

// Option configures a Notifier
type Option func(*Notifier)

// WithMetrics counts notifications by level
func WithMetrics(m *telemetry.Metrics) Option {
	return func(n *Notifier) {
		n.metrics = m
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(n *Notifier) {
		n.now = now
	}
}

// New creates a notifier keeping the last capacity notifications
func New(capacity int, zapLogger *zap.Logger, opts ...Option) *Notifier {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if zapLogger == nil {
		zapLogger = zap.NewNop()
	}
	n := &Notifier{
		buf:    make([]Notification, capacity),
		logger: zapLogger.Named("notify"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Success records a success toast
func (n *Notifier) Success(ctx context.Context, message string) {
	n.push(ctx, LevelSuccess, message)
}

// Info records an informational toast
func (n *Notifier) Info(ctx context.Context, message string) {
	n.push(ctx, LevelInfo, message)
}

// Error records an error toast
func (n *Notifier) Error(ctx context.Context, message string) {
	n.push(ctx, LevelError, message)
}

// Failure records err as an error toast using its user-facing message
func (n *Notifier) Failure(ctx context.Context, err error) {
	if err == nil {
		return
	}
	n.push(ctx, LevelError, shared.MessageOf(err))
}

func (n *Notifier) push(ctx context.Context, level Level, message string) {
	item := Notification{
		ID:      uuid.NewString(),
		Level:   level,
		Message: message,
		At:      n.now(),
	}

	n.mu.Lock()
	n.buf[n.next] = item
	n.next = (n.next + 1) % len(n.buf)
	if n.size < len(n.buf) {
		n.size++
	}
	n.mu.Unlock()

	n.metrics.ObserveNotification(string(level))

	log := logger.L(ctx, n.logger)
	if level == LevelError {
		log.Warn("toast", zap.String("level", string(level)), zap.String("message", message))
		return
	}
	log.Info("toast", zap.String("level", string(level)), zap.String("message", message))
}

// Recent returns up to limit notifications, newest first.
// A limit <= 0 returns everything retained.
func (n *Notifier) Recent(limit int) []Notification {
	n.mu.RLock()
	defer n.mu.RUnlock()

	if limit <= 0 || limit > n.size {
		limit = n.size
	}
	out := make([]Notification, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (n.next - i + len(n.buf)) % len(n.buf)
		out = append(out, n.buf[idx])
	}
	return out
}

// Len returns the number of retained notifications
func (n *Notifier) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.size
}
