// Package order serves the read-only order history, detail and tracking
// screens.
package order

import (
	"context"

	"github.com/123shiju/ecommerce-client/internal/domain/identity"
	"github.com/123shiju/ecommerce-client/internal/domain/order"
	"github.com/123shiju/ecommerce-client/internal/domain/shared"
	"github.com/123shiju/ecommerce-client/internal/infrastructure/logger"
	"github.com/123shiju/ecommerce-client/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Messages shown in place of missing data
const (
	MessageNoHistory     = "No order history available."
	MessageNoOrders      = "No orders found."
	MessageNoOrder       = "No order found."
	MessageLoadFailed    = "Failed to load orders."
	MessageDetailsFailed = "Failed to load order details."
)

// History is the order history screen
type History struct {
	Orders []order.Order `json:"orders"`
	// Message is set when there is nothing to list
	Message string `json:"message,omitempty"`
}

// TrackedOrder is one order with its tracking bar
type TrackedOrder struct {
	Order    order.Order    `json:"order"`
	Status   order.Status   `json:"status"`
	Label    string         `json:"label"`
	Progress order.Progress `json:"progress"`
}

// Tracking is the order tracking screen
type Tracking struct {
	Orders  []TrackedOrder `json:"orders"`
	Message string         `json:"message,omitempty"`
}

// Service reads orders for the signed-in user
type Service struct {
	sessions identity.SessionProvider
	gateway  order.Gateway
	logger   *zap.Logger
}

// NewService creates an order view service
func NewService(sessions identity.SessionProvider, gateway order.Gateway, zapLogger *zap.Logger) *Service {
	return &Service{
		sessions: sessions,
		gateway:  gateway,
		logger:   zapLogger.Named("order"),
	}
}

// ListOrders returns the user's orders, with the Pending default applied to
// orders that carry no status.
func (s *Service) ListOrders(ctx context.Context) (History, error) {
	orders, err := s.history(ctx, "list_orders")
	if err != nil {
		return History{Orders: []order.Order{}, Message: MessageLoadFailed}, err
	}
	for i := range orders {
		orders[i].Status = orders[i].DisplayStatus()
	}
	h := History{Orders: orders}
	if len(orders) == 0 {
		h.Message = MessageNoHistory
	}
	return h, nil
}

// GetOrder returns one order or a NOT_FOUND error
func (s *Service) GetOrder(ctx context.Context, orderID string) (order.Order, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "get_order", telemetry.AttrOrderID, orderID)
	defer span.End()

	sess, err := s.sessions.Require()
	if err != nil {
		return order.Order{}, err
	}
	if orderID == "" {
		return order.Order{}, shared.NewNotFoundError(MessageNoOrder)
	}

	o, err := s.gateway.Get(ctx, sess.Token.String(), orderID)
	if err != nil {
		telemetry.RecordError(span, err)
		switch {
		case shared.IsNotFound(err):
			return order.Order{}, shared.WrapDomainError(shared.CodeNotFound, MessageNoOrder, err)
		case shared.IsNetworkError(err), shared.IsAuthError(err):
			return order.Order{}, err
		}
		logger.L(ctx, s.logger).Warn("failed to load order", zap.String("order_id", orderID), zap.Error(err))
		return order.Order{}, shared.WrapDomainError(shared.CodeServer, MessageDetailsFailed, err)
	}
	o.Status = o.DisplayStatus()
	return o, nil
}

// Tracking returns every order with the progress bar for its status. The
// bar is derived from the status the backend sent, so an order without one
// gets the fallback bar while its label still reads Pending.
func (s *Service) Tracking(ctx context.Context) (Tracking, error) {
	orders, err := s.history(ctx, "tracking")
	if err != nil {
		return Tracking{Orders: []TrackedOrder{}, Message: MessageLoadFailed}, err
	}

	t := Tracking{Orders: make([]TrackedOrder, 0, len(orders))}
	for _, o := range orders {
		status := o.DisplayStatus()
		t.Orders = append(t.Orders, TrackedOrder{
			Order:    o,
			Status:   status,
			Label:    status.Label(),
			Progress: order.ProgressOf(o.Status),
		})
	}
	if len(t.Orders) == 0 {
		t.Message = MessageNoOrders
	}
	return t, nil
}

func (s *Service) history(ctx context.Context, method string) ([]order.Order, error) {
	sess, err := s.sessions.Require()
	if err != nil {
		return nil, err
	}
	ctx, span := telemetry.StartServiceSpan(ctx, "order", method, telemetry.AttrUserID, sess.User.ID)
	defer span.End()

	orders, err := s.gateway.History(ctx, sess.Token.String(), sess.User.ID)
	if err != nil {
		telemetry.RecordError(span, err)
		logger.L(ctx, s.logger).Warn("failed to load order history", zap.Error(err))
		return nil, err
	}
	if orders == nil {
		orders = []order.Order{}
	}
	return orders, nil
}
