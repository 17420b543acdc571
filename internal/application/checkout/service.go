// Package checkout drives the checkout screen from review to a placed
// order.
package checkout

import (
	"context"
	"fmt"
	"sync"

	"github.com/123shiju/ecommerce-client/internal/application/notify"
	"github.com/123shiju/ecommerce-client/internal/application/view"
	"github.com/123shiju/ecommerce-client/internal/domain/cart"
	"github.com/123shiju/ecommerce-client/internal/domain/identity"
	"github.com/123shiju/ecommerce-client/internal/domain/order"
	"github.com/123shiju/ecommerce-client/internal/domain/shared"
	"github.com/123shiju/ecommerce-client/internal/infrastructure/logger"
	"github.com/123shiju/ecommerce-client/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CartStore is the cart the checkout reviews and empties
type CartStore interface {
	Load(ctx context.Context, scope *view.Scope) (cart.Cart, error)
	Cart() cart.Cart
	Clear(ctx context.Context)
}

// Confirmation is shown once an order is placed
type Confirmation struct {
	OrderID string `json:"orderId"`
	// ContinueShopping returns to the catalog
	ContinueShopping string `json:"continueShopping"`
	// TrackOrders opens order tracking for the current user
	TrackOrders string `json:"trackOrders"`
	// OrderDetails opens the placed order
	OrderDetails string `json:"orderDetails"`
}

func newConfirmation(orderID, userID string) Confirmation {
	return Confirmation{
		OrderID:          orderID,
		ContinueShopping: "/",
		TrackOrders:      fmt.Sprintf("/order/tracking/%s", userID),
		OrderDetails:     fmt.Sprintf("/order/%s", orderID),
	}
}

// View is what the checkout screen renders
type View struct {
	State         order.CheckoutState `json:"state"`
	Cart          cart.Cart           `json:"cart"`
	PaymentMethod order.PaymentMethod `json:"paymentMethod"`
	CanPlace      bool                `json:"canPlace"`
	Confirmation  *Confirmation       `json:"confirmation,omitempty"`
}

// Service is the checkout state machine
//
//	LEFT -> REVIEWING -> SUBMITTING -> PLACED -> LEFT
//	                  <-  (failure)
type Service struct {
	sessions  identity.SessionProvider
	orders    order.Gateway
	carts     CartStore
	publisher shared.EventPublisher
	notifier  *notify.Notifier
	metrics   *telemetry.Metrics
	logger    *zap.Logger
	newKey    func() string

	mu           sync.Mutex
	state        order.CheckoutState
	confirmation *Confirmation
}

// Option configures a Service
type Option func(*Service)

// WithMetrics counts placed orders
func WithMetrics(m *telemetry.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithKeyGenerator replaces the idempotency key source
func WithKeyGenerator(fn func() string) Option {
	return func(s *Service) {
		s.newKey = fn
	}
}

// NewService creates a checkout that is not on screen
func NewService(
	sessions identity.SessionProvider,
	orders order.Gateway,
	carts CartStore,
	publisher shared.EventPublisher,
	notifier *notify.Notifier,
	zapLogger *zap.Logger,
	opts ...Option,
) *Service {
	if publisher == nil {
		publisher = shared.NopPublisher{}
	}
	s := &Service{
		sessions:  sessions,
		orders:    orders,
		carts:     carts,
		publisher: publisher,
		notifier:  notifier,
		logger:    zapLogger.Named("checkout"),
		newKey:    uuid.NewString,
		state:     order.CheckoutLeft,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Begin opens the checkout screen with a freshly loaded cart. When the
// load fails the screen still opens on the last known cart.
func (s *Service) Begin(ctx context.Context, scope *view.Scope) (View, error) {
	if _, err := s.sessions.Require(); err != nil {
		return View{}, err
	}

	s.mu.Lock()
	switch s.state {
	case order.CheckoutSubmitting:
		s.mu.Unlock()
		return View{}, shared.NewDomainError(shared.CodeInvalidState, "An order is being placed")
	case order.CheckoutPlaced:
		s.state = order.CheckoutLeft
		s.confirmation = nil
	}
	if s.state == order.CheckoutLeft {
		s.state, _ = s.state.Transition(order.CheckoutReviewing)
	}
	s.mu.Unlock()

	_, err := s.carts.Load(ctx, scope)
	return s.State(), err
}

// State returns the current checkout view
func (s *Service) State() View {
	s.mu.Lock()
	state, conf := s.state, s.confirmation
	s.mu.Unlock()

	c := s.carts.Cart()
	return View{
		State:         state,
		Cart:          c,
		PaymentMethod: order.CashOnDelivery,
		CanPlace:      state == order.CheckoutReviewing && !c.IsEmpty(),
		Confirmation:  conf,
	}
}

// PlaceOrder submits the reviewed cart. On failure the checkout returns to
// review with the cart untouched.
func (s *Service) PlaceOrder(ctx context.Context) (Confirmation, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "checkout", "place_order")
	defer span.End()

	sess, err := s.sessions.Require()
	if err != nil {
		s.notifier.Failure(ctx, err)
		return Confirmation{}, err
	}

	reviewed := s.carts.Cart()
	if reviewed.IsEmpty() {
		return Confirmation{}, shared.NewValidationError("Your cart is empty")
	}

	s.mu.Lock()
	next, err := s.state.Transition(order.CheckoutSubmitting)
	if err != nil {
		s.mu.Unlock()
		return Confirmation{}, err
	}
	s.state = next
	s.mu.Unlock()

	placement := order.Placement{
		UserID:         sess.User.ID,
		Cart:           reviewed,
		PaymentMethod:  order.CashOnDelivery,
		IdempotencyKey: s.newKey(),
	}
	telemetry.SetAttributes(span, telemetry.AttrUserID, sess.User.ID, "items", reviewed.Count())

	orderID, err := s.orders.Place(ctx, sess.Token.String(), placement)
	if err != nil {
		s.setState(order.CheckoutReviewing, nil)
		telemetry.RecordError(span, err)
		logger.L(ctx, s.logger).Warn("failed to place order",
			zap.String("idempotency_key", placement.IdempotencyKey),
			zap.Error(err),
		)
		s.notifier.Error(ctx, "Failed to place order. Try again.")
		return Confirmation{}, err
	}

	conf := newConfirmation(orderID, sess.User.ID)
	s.setState(order.CheckoutPlaced, &conf)
	s.carts.Clear(ctx)
	s.metrics.ObserveOrderPlaced()
	telemetry.SetAttributes(span, telemetry.AttrOrderID, orderID)

	logger.L(ctx, s.logger).Info("order placed",
		zap.String("order_id", orderID),
		zap.String("total", reviewed.Total.StringFixed(2)),
	)
	s.notifier.Success(ctx, "Order placed successfully!")
	if err := s.publisher.Publish(ctx, order.NewOrderPlacedEvent(orderID, sess.User.ID, reviewed.Total, reviewed.Count())); err != nil {
		logger.L(ctx, s.logger).Warn("failed to publish order placed", zap.Error(err))
	}
	return conf, nil
}

// Leave closes the checkout screen
func (s *Service) Leave() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == order.CheckoutLeft {
		return nil
	}
	next, err := s.state.Transition(order.CheckoutLeft)
	if err != nil {
		return err
	}
	s.state = next
	s.confirmation = nil
	return nil
}

func (s *Service) setState(state order.CheckoutState, conf *Confirmation) {
	s.mu.Lock()
	s.state = state
	s.confirmation = conf
	s.mu.Unlock()
}
