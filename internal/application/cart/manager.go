// Package cart manages the cart screen: the full cart with its lines,
// quantity steps and removals.
package cart

import (
	"context"
	"errors"
	"sync"

	"github.com/123shiju/ecommerce-client/internal/application/notify"
	"github.com/123shiju/ecommerce-client/internal/application/view"
	"github.com/123shiju/ecommerce-client/internal/domain/cart"
	"github.com/123shiju/ecommerce-client/internal/domain/identity"
	"github.com/123shiju/ecommerce-client/internal/domain/shared"
	"github.com/123shiju/ecommerce-client/internal/infrastructure/logger"
	"github.com/123shiju/ecommerce-client/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Manager holds the detailed cart shown on the cart and checkout screens.
//
// Quantity steps and removals are applied locally before the backend call
// and are not rolled back when that call fails; the next Load reconciles.
type Manager struct {
	sessions  identity.SessionProvider
	gateway   cart.Gateway
	store     shared.LocalStore
	publisher shared.EventPublisher
	notifier  *notify.Notifier
	logger    *zap.Logger

	mu      sync.RWMutex
	cart    cart.Cart
	loaded  bool
	version uint64
}

// NewManager creates a manager holding an empty cart
func NewManager(
	sessions identity.SessionProvider,
	gateway cart.Gateway,
	store shared.LocalStore,
	publisher shared.EventPublisher,
	notifier *notify.Notifier,
	zapLogger *zap.Logger,
) *Manager {
	if publisher == nil {
		publisher = shared.NopPublisher{}
	}
	return &Manager{
		sessions:  sessions,
		gateway:   gateway,
		store:     store,
		publisher: publisher,
		notifier:  notifier,
		logger:    zapLogger.Named("cart"),
		cart:      cart.Empty(),
	}
}

// Cart returns a copy of the current cart
func (m *Manager) Cart() cart.Cart {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cart.Clone()
}

// Loaded reports whether a Load has been applied since the last Clear
func (m *Manager) Loaded() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loaded
}

// Load replaces the local cart with the backend's. The result is applied
// only while scope is alive and no newer load or local edit has happened
// in the meantime; a superseded result is returned but not applied. A
// result fetched for a user who has since signed out or been replaced is
// dropped with context.Canceled.
func (m *Manager) Load(ctx context.Context, scope *view.Scope) (cart.Cart, error) {
	sess, err := m.sessions.Require()
	if err != nil {
		return cart.Cart{}, err
	}

	ctx, cancel := mergeScope(ctx, scope)
	defer cancel()
	ctx, span := telemetry.StartServiceSpan(ctx, "cart", "load", telemetry.AttrUserID, sess.User.ID)
	defer span.End()

	m.mu.Lock()
	m.version++
	version := m.version
	m.mu.Unlock()

	fetched, err := m.gateway.Fetch(ctx, sess.Token.String(), sess.User.ID)
	if !scope.Alive() {
		logger.L(ctx, m.logger).Debug("discarding cart load for closed view")
		return cart.Cart{}, context.Canceled
	}
	if !m.stillSignedIn(sess.User.ID) {
		logger.L(ctx, m.logger).Debug("discarding cart load for previous user")
		return cart.Cart{}, context.Canceled
	}
	if err != nil {
		telemetry.RecordError(span, err)
		logger.L(ctx, m.logger).Warn("failed to load cart", zap.Error(err))
		if !errors.Is(err, context.Canceled) {
			m.notifier.Error(ctx, "Failed to load cart. Please try again.")
		}
		return cart.Cart{}, err
	}
	fetched.Normalize()

	m.mu.Lock()
	if m.version != version {
		m.mu.Unlock()
		logger.L(ctx, m.logger).Debug("discarding superseded cart load")
		return fetched, nil
	}
	m.cart = fetched.Clone()
	m.loaded = true
	m.mu.Unlock()

	m.persist(ctx, fetched)
	return fetched.Clone(), nil
}

// UpdateQuantity steps a line up or down by one. A decrease at quantity one
// is a no-op that makes no backend call.
func (m *Manager) UpdateQuantity(ctx context.Context, productID string, dir cart.Direction) (cart.Cart, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "cart", "update_quantity",
		telemetry.AttrProductID, productID, "direction", string(dir))
	defer span.End()

	sess, err := m.sessions.Require()
	if err != nil {
		m.notifier.Failure(ctx, err)
		return cart.Cart{}, err
	}

	m.mu.Lock()
	changed, err := m.cart.UpdateQuantity(productID, dir)
	if err != nil || !changed {
		current := m.cart.Clone()
		m.mu.Unlock()
		return current, err
	}
	m.version++
	updated := m.cart.Clone()
	m.mu.Unlock()

	m.persist(ctx, updated)

	if err := m.gateway.Update(ctx, sess.Token.String(), sess.User.ID, productID, dir); err != nil {
		telemetry.RecordError(span, err)
		logger.L(ctx, m.logger).Warn("failed to update quantity",
			zap.String("product_id", productID),
			zap.String("direction", string(dir)),
			zap.Error(err),
		)
		m.notifier.Error(ctx, "Could not update quantity. Try again.")
		return updated, err
	}

	m.publish(ctx, cart.NewCartChangedEvent(sess.User.ID, productID, cart.ChangeQuantity))
	return updated, nil
}

// RemoveItem drops a line locally, then confirms with the backend
func (m *Manager) RemoveItem(ctx context.Context, productID string) (cart.Cart, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "cart", "remove_item", telemetry.AttrProductID, productID)
	defer span.End()

	sess, err := m.sessions.Require()
	if err != nil {
		m.notifier.Failure(ctx, err)
		return cart.Cart{}, err
	}

	m.mu.Lock()
	if !m.cart.Remove(productID) {
		m.mu.Unlock()
		return cart.Cart{}, shared.NewNotFoundError("Item is not in the cart")
	}
	m.version++
	updated := m.cart.Clone()
	m.mu.Unlock()

	m.persist(ctx, updated)

	if err := m.gateway.Remove(ctx, sess.Token.String(), sess.User.ID, productID); err != nil {
		telemetry.RecordError(span, err)
		logger.L(ctx, m.logger).Warn("failed to remove cart item", zap.String("product_id", productID), zap.Error(err))
		m.notifier.Error(ctx, "Failed to remove item. Try again.")
		return updated, err
	}

	m.notifier.Success(ctx, "Item removed from cart.")
	m.publish(ctx, cart.NewCartChangedEvent(sess.User.ID, productID, cart.ChangeRemoved))
	return updated, nil
}

// Clear empties the local cart, as after a placed order. The backend
// empties its own copy when it accepts the order.
func (m *Manager) Clear(ctx context.Context) {
	m.mu.Lock()
	m.cart = cart.Empty()
	m.loaded = false
	m.version++
	m.mu.Unlock()

	m.persist(ctx, cart.Empty())
}

// EventTypes implements shared.EventHandler
func (m *Manager) EventTypes() []string {
	return []string{identity.EventTypeSessionEnded}
}

// Handle drops the cart of a user who signed out
func (m *Manager) Handle(ctx context.Context, _ shared.DomainEvent) error {
	m.mu.Lock()
	m.cart = cart.Empty()
	m.loaded = false
	m.version++
	m.mu.Unlock()
	return nil
}

// stillSignedIn reports whether userID is still the session user
func (m *Manager) stillSignedIn(userID string) bool {
	sess, err := m.sessions.Require()
	return err == nil && sess.User.ID == userID
}

func (m *Manager) persist(ctx context.Context, c cart.Cart) {
	if err := m.store.Put(ctx, shared.KeyCartSnapshot, c); err != nil {
		logger.L(ctx, m.logger).Warn("failed to persist cart snapshot", zap.Error(err))
	}
}

func (m *Manager) publish(ctx context.Context, event shared.DomainEvent) {
	if err := m.publisher.Publish(ctx, event); err != nil {
		logger.L(ctx, m.logger).Warn("failed to publish event",
			zap.String("event_type", event.EventType()),
			zap.Error(err),
		)
	}
}

// mergeScope derives a context canceled by either the request or the view
func mergeScope(ctx context.Context, scope *view.Scope) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(scope.Context(), cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

var _ shared.EventHandler = (*Manager)(nil)
