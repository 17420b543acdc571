// Package storefront holds the cart count and wishlist shared by every
// screen, kept in step with the backend by scoped re-fetches.
package storefront

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/123shiju/ecommerce-client/internal/application/notify"
	"github.com/123shiju/ecommerce-client/internal/domain/cart"
	"github.com/123shiju/ecommerce-client/internal/domain/catalog"
	"github.com/123shiju/ecommerce-client/internal/domain/identity"
	"github.com/123shiju/ecommerce-client/internal/domain/order"
	"github.com/123shiju/ecommerce-client/internal/domain/shared"
	"github.com/123shiju/ecommerce-client/internal/infrastructure/logger"
	"github.com/123shiju/ecommerce-client/internal/infrastructure/telemetry"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"
)

// State is a consistent read of the shared storefront state
type State struct {
	CartCount           int                  `json:"cartCount"`
	PendingAdds         []cart.Line          `json:"pendingAdds"`
	Wishlist            []cart.WishlistEntry `json:"wishlist"`
	CartRefreshedAt     time.Time            `json:"cartRefreshedAt,omitzero"`
	WishlistRefreshedAt time.Time            `json:"wishlistRefreshedAt,omitzero"`
}

// WishlistIDs returns the product ids on the wishlist
func (s State) WishlistIDs() []string {
	out := make([]string, 0, len(s.Wishlist))
	for _, e := range s.Wishlist {
		out = append(out, e.ID())
	}
	return out
}

// Synchronizer is the shared cart/wishlist state. Reads are safe from any
// goroutine; all writes go through its methods.
//
// Mutations on the same product are serialized. Every local edit bumps a
// version counter, and a refresh that started before an edit is discarded
// instead of overwriting it.
type Synchronizer struct {
	sessions  identity.SessionProvider
	carts     cart.Gateway
	wishlists cart.WishlistGateway
	store     shared.LocalStore
	publisher shared.EventPublisher
	notifier  *notify.Notifier
	metrics   *telemetry.Metrics
	logger    *zap.Logger
	now       func() time.Time

	mu                  sync.RWMutex
	cartCount           int
	shadow              []cart.Line
	wishlist            cart.Wishlist
	cartVersion         uint64
	wishlistVersion     uint64
	cartRefreshedAt     time.Time
	wishlistRefreshedAt time.Time

	refreshes singleflight.Group

	lockMu sync.Mutex
	locks  map[string]*semaphore.Weighted
}

// Option configures a Synchronizer
type Option func(*Synchronizer)

// WithMetrics publishes cart and wishlist sizes as gauges
func WithMetrics(m *telemetry.Metrics) Option {
	return func(s *Synchronizer) {
		s.metrics = m
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Synchronizer) {
		s.now = now
	}
}

// NewSynchronizer creates an empty synchronizer
func NewSynchronizer(
	sessions identity.SessionProvider,
	carts cart.Gateway,
	wishlists cart.WishlistGateway,
	store shared.LocalStore,
	publisher shared.EventPublisher,
	notifier *notify.Notifier,
	zapLogger *zap.Logger,
	opts ...Option,
) *Synchronizer {
	if publisher == nil {
		publisher = shared.NopPublisher{}
	}
	s := &Synchronizer{
		sessions:  sessions,
		carts:     carts,
		wishlists: wishlists,
		store:     store,
		publisher: publisher,
		notifier:  notifier,
		logger:    zapLogger.Named("storefront"),
		now:       time.Now,
		wishlist:  cart.NewWishlist(),
		locks:     make(map[string]*semaphore.Weighted),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns the current shared state
func (s *Synchronizer) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wl := s.wishlist.Clone()
	shadow := make([]cart.Line, len(s.shadow))
	copy(shadow, s.shadow)
	return State{
		CartCount:           s.cartCount,
		PendingAdds:         shadow,
		Wishlist:            wl.Entries,
		CartRefreshedAt:     s.cartRefreshedAt,
		WishlistRefreshedAt: s.wishlistRefreshedAt,
	}
}

// CartCount is the number of items in the cart
func (s *Synchronizer) CartCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cartCount
}

// Wishlist returns a copy of the cached wishlist
func (s *Synchronizer) Wishlist() cart.Wishlist {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.wishlist.Clone()
}

// Contains reports whether productID is on the cached wishlist
func (s *Synchronizer) Contains(productID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.wishlist.Contains(productID)
}

// Restore seeds the cache from the persisted snapshots at startup. The
// values are stale until the first refresh.
func (s *Synchronizer) Restore(ctx context.Context) {
	var wl cart.Wishlist
	if err := s.store.Get(ctx, shared.KeyWishlistSnapshot, &wl); err == nil {
		wl.Dedupe()
		s.mu.Lock()
		s.wishlist = wl
		s.mu.Unlock()
	} else if !shared.IsNotFound(err) {
		logger.L(ctx, s.logger).Warn("failed to read wishlist snapshot", zap.Error(err))
	}

	var c cart.Cart
	if err := s.store.Get(ctx, shared.KeyCartSnapshot, &c); err == nil {
		c.Normalize()
		s.mu.Lock()
		s.cartCount = c.Count()
		s.mu.Unlock()
	} else if !shared.IsNotFound(err) {
		logger.L(ctx, s.logger).Warn("failed to read cart snapshot", zap.Error(err))
	}
	s.observe()
}

// Refresh re-fetches cart and wishlist concurrently. It is a no-op
// without a session.
func (s *Synchronizer) Refresh(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error { return s.RefreshCart(ctx) })
	g.Go(func() error { return s.RefreshWishlist(ctx) })
	return g.Wait()
}

// RefreshCart recomputes the cart count from the backend cart. On failure
// the previous count stays in place.
func (s *Synchronizer) RefreshCart(ctx context.Context) error {
	sess, err := s.sessions.Require()
	if err != nil {
		return nil
	}

	_, err, _ = s.refreshes.Do("cart:"+sess.User.ID, func() (any, error) {
		// Shared by every joined caller, so one caller's cancellation must
		// not fail the others.
		ctx, span := telemetry.StartServiceSpan(context.WithoutCancel(ctx), "storefront", "refresh_cart", telemetry.AttrUserID, sess.User.ID)
		defer span.End()

		s.mu.RLock()
		version := s.cartVersion
		s.mu.RUnlock()

		fetched, err := s.carts.Fetch(ctx, sess.Token.String(), sess.User.ID)
		if err != nil {
			telemetry.RecordError(span, err)
			logger.L(ctx, s.logger).Warn("failed to fetch cart; keeping cached count", zap.Error(err))
			return nil, err
		}
		if !s.stillSignedIn(sess.User.ID) {
			logger.L(ctx, s.logger).Debug("discarding cart refresh for previous user")
			return nil, nil
		}

		s.mu.Lock()
		if s.cartVersion != version {
			s.mu.Unlock()
			logger.L(ctx, s.logger).Debug("discarding cart refresh superseded by a local edit")
			return nil, nil
		}
		s.cartCount = fetched.Count()
		s.shadow = nil
		s.cartRefreshedAt = s.now()
		s.mu.Unlock()

		s.persist(ctx, shared.KeyCartSnapshot, fetched)
		s.observe()
		return nil, nil
	})
	return err
}

// RefreshWishlist replaces the cached wishlist with the backend's. On
// failure the previous wishlist stays in place.
func (s *Synchronizer) RefreshWishlist(ctx context.Context) error {
	sess, err := s.sessions.Require()
	if err != nil {
		return nil
	}

	_, err, _ = s.refreshes.Do("wishlist:"+sess.User.ID, func() (any, error) {
		// Shared by every joined caller, so one caller's cancellation must
		// not fail the others.
		ctx, span := telemetry.StartServiceSpan(context.WithoutCancel(ctx), "storefront", "refresh_wishlist", telemetry.AttrUserID, sess.User.ID)
		defer span.End()

		s.mu.RLock()
		version := s.wishlistVersion
		s.mu.RUnlock()

		fetched, err := s.wishlists.FetchWishlist(ctx, sess.Token.String(), sess.User.ID)
		if err != nil {
			telemetry.RecordError(span, err)
			logger.L(ctx, s.logger).Warn("failed to fetch wishlist; keeping cached entries", zap.Error(err))
			return nil, err
		}
		fetched.Dedupe()
		if !s.stillSignedIn(sess.User.ID) {
			logger.L(ctx, s.logger).Debug("discarding wishlist refresh for previous user")
			return nil, nil
		}

		s.mu.Lock()
		if s.wishlistVersion != version {
			s.mu.Unlock()
			logger.L(ctx, s.logger).Debug("discarding wishlist refresh superseded by a local edit")
			return nil, nil
		}
		s.wishlist = fetched
		s.wishlistRefreshedAt = s.now()
		s.mu.Unlock()

		s.persist(ctx, shared.KeyWishlistSnapshot, fetched)
		s.observe()
		return nil, nil
	})
	return err
}

// ToggleWishlist adds productID when absent and removes it when present.
// It reports whether the product is on the wishlist afterwards.
func (s *Synchronizer) ToggleWishlist(ctx context.Context, productID string) (bool, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "storefront", "toggle_wishlist", telemetry.AttrProductID, productID)
	defer span.End()

	sess, err := s.sessions.Require()
	if err != nil {
		s.notifier.Error(ctx, "Please log in to add to wishlist")
		return false, err
	}
	if productID == "" {
		return false, shared.NewValidationError("product id is required")
	}

	unlock, err := s.lockProduct(ctx, productID)
	if err != nil {
		return false, err
	}
	defer unlock()

	present := s.Contains(productID)
	if present {
		err = s.wishlists.RemoveFromWishlist(ctx, sess.Token.String(), sess.User.ID, productID)
	} else {
		err = s.wishlists.AddToWishlist(ctx, sess.Token.String(), sess.User.ID, productID)
	}
	if err != nil {
		telemetry.RecordError(span, err)
		logger.L(ctx, s.logger).Warn("failed to update wishlist", zap.String("product_id", productID), zap.Error(err))
		s.notifier.Error(ctx, "Failed to update wishlist")
		return present, err
	}

	s.applyWishlist(ctx, sess.User.ID, productID, !present)
	if present {
		s.notifier.Success(ctx, "Removed from wishlist")
	} else {
		s.notifier.Success(ctx, "Added to wishlist")
	}
	return !present, nil
}

// RemoveFromWishlist removes productID regardless of the cached membership
func (s *Synchronizer) RemoveFromWishlist(ctx context.Context, productID string) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "storefront", "remove_from_wishlist", telemetry.AttrProductID, productID)
	defer span.End()

	sess, err := s.sessions.Require()
	if err != nil {
		s.notifier.Failure(ctx, err)
		return err
	}

	unlock, err := s.lockProduct(ctx, productID)
	if err != nil {
		return err
	}
	defer unlock()

	if err := s.wishlists.RemoveFromWishlist(ctx, sess.Token.String(), sess.User.ID, productID); err != nil {
		telemetry.RecordError(span, err)
		s.notifier.Error(ctx, "Failed to remove from wishlist")
		return err
	}

	s.applyWishlist(ctx, sess.User.ID, productID, false)
	s.notifier.Success(ctx, "Removed from wishlist")
	return nil
}

// AddToCart puts quantity units of product into the cart. The cart count
// is bumped before the backend confirms; a later refresh settles it.
func (s *Synchronizer) AddToCart(ctx context.Context, product catalog.Product, quantity int) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "storefront", "add_to_cart", telemetry.AttrProductID, product.ID)
	defer span.End()

	sess, err := s.sessions.Require()
	if err != nil {
		s.notifier.Error(ctx, "Please log in to add to cart")
		return err
	}
	price, ok := product.DisplayPrice()
	if !ok || !price.IsPositive() {
		err := shared.NewValidationError("Invalid product price")
		s.notifier.Failure(ctx, err)
		return err
	}
	if quantity < 1 {
		quantity = 1
	}

	unlock, err := s.lockProduct(ctx, product.ID)
	if err != nil {
		return err
	}
	defer unlock()

	s.mu.Lock()
	s.shadow = append(s.shadow, cart.Line{
		ProductID: product.ID,
		Name:      product.Title,
		Image:     product.PrimaryImage(),
		Price:     price,
		Quantity:  quantity,
	})
	s.cartCount += quantity
	s.cartVersion++
	s.mu.Unlock()
	s.observe()

	if err := s.carts.Add(ctx, sess.Token.String(), sess.User.ID, product.ID, quantity); err != nil {
		telemetry.RecordError(span, err)
		logger.L(ctx, s.logger).Warn("failed to add to cart", zap.String("product_id", product.ID), zap.Error(err))
		s.notifier.Error(ctx, "Failed to add to cart")
		return err
	}

	s.notifier.Success(ctx, "Added to cart")
	s.publish(ctx, cart.NewCartChangedEvent(sess.User.ID, product.ID, cart.ChangeAdded))
	return nil
}

// Reset drops all cached state, as on sign-out
func (s *Synchronizer) Reset(ctx context.Context) {
	s.mu.Lock()
	s.cartCount = 0
	s.shadow = nil
	s.wishlist = cart.NewWishlist()
	s.cartVersion++
	s.wishlistVersion++
	s.cartRefreshedAt = time.Time{}
	s.wishlistRefreshedAt = time.Time{}
	s.mu.Unlock()

	err := errors.Join(
		s.store.Delete(ctx, shared.KeyWishlistSnapshot),
		s.store.Delete(ctx, shared.KeyCartSnapshot),
	)
	if err != nil {
		logger.L(ctx, s.logger).Warn("failed to clear snapshots", zap.Error(err))
	}
	s.observe()
}

// stillSignedIn reports whether userID is still the session user
func (s *Synchronizer) stillSignedIn(userID string) bool {
	sess, err := s.sessions.Require()
	return err == nil && sess.User.ID == userID
}

// EventTypes implements shared.EventHandler
func (s *Synchronizer) EventTypes() []string {
	return []string{
		cart.EventTypeCartChanged,
		cart.EventTypeWishlistChanged,
		order.EventTypeOrderPlaced,
		identity.EventTypeSessionStarted,
		identity.EventTypeSessionEnded,
	}
}

// Handle re-fetches only the state an event affected
func (s *Synchronizer) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch event.EventType() {
	case cart.EventTypeCartChanged, order.EventTypeOrderPlaced:
		return s.RefreshCart(ctx)
	case cart.EventTypeWishlistChanged:
		return s.RefreshWishlist(ctx)
	case identity.EventTypeSessionStarted:
		return s.Refresh(ctx)
	case identity.EventTypeSessionEnded:
		s.Reset(ctx)
	}
	return nil
}

func (s *Synchronizer) applyWishlist(ctx context.Context, userID, productID string, present bool) {
	s.mu.Lock()
	if present {
		s.wishlist.Add(productID)
	} else {
		s.wishlist.Remove(productID)
	}
	s.wishlistVersion++
	snapshot := s.wishlist.Clone()
	s.mu.Unlock()

	s.persist(ctx, shared.KeyWishlistSnapshot, snapshot)
	s.observe()
	s.publish(ctx, cart.NewWishlistChangedEvent(userID, productID, present))
}

// lockProduct serializes mutations on one product id
func (s *Synchronizer) lockProduct(ctx context.Context, productID string) (func(), error) {
	s.lockMu.Lock()
	sem, ok := s.locks[productID]
	if !ok {
		sem = semaphore.NewWeighted(1)
		s.locks[productID] = sem
	}
	s.lockMu.Unlock()

	if err := sem.Acquire(ctx, 1); err != nil {
		return nil, shared.WrapDomainError(shared.CodeNetwork, "Request cancelled", err)
	}
	return func() { sem.Release(1) }, nil
}

func (s *Synchronizer) persist(ctx context.Context, key string, value any) {
	if err := s.store.Put(ctx, key, value); err != nil {
		logger.L(ctx, s.logger).Warn("failed to persist snapshot", zap.String("key", key), zap.Error(err))
	}
}

func (s *Synchronizer) publish(ctx context.Context, event shared.DomainEvent) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		logger.L(ctx, s.logger).Warn("failed to publish event",
			zap.String("event_type", event.EventType()),
			zap.Error(err),
		)
	}
}

func (s *Synchronizer) observe() {
	if s.metrics == nil {
		return
	}
	s.mu.RLock()
	count, size := s.cartCount, s.wishlist.Len()
	s.mu.RUnlock()
	s.metrics.SetSharedState(count, size)
}

var _ shared.EventHandler = (*Synchronizer)(nil)
