package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/123shiju/ecommerce-client/internal/domain/order"
	"github.com/123shiju/ecommerce-client/internal/domain/shared"
)

var _ order.Gateway = (*Client)(nil)

// Place submits the cart as a new order and returns the order id
func (c *Client) Place(ctx context.Context, token string, p order.Placement) (string, error) {
	if err := requireToken(token); err != nil {
		return "", err
	}
	if p.PaymentMethod == "" {
		p.PaymentMethod = order.CashOnDelivery
	}
	var headers map[string]string
	if p.IdempotencyKey != "" {
		headers = map[string]string{IdempotencyKeyHeader: p.IdempotencyKey}
	}
	var resp struct {
		OrderID string `json:"orderId"`
	}
	err := c.do(ctx, request{
		endpoint: "order.place",
		method:   http.MethodPost,
		path:     "/api/order/placeOrder",
		token:    token,
		body:     p,
		headers:  headers,
		out:      &resp,
	})
	if err != nil {
		return "", err
	}
	if resp.OrderID == "" {
		return "", shared.NewDomainError(shared.CodeServer, "Failed to place order")
	}
	return resp.OrderID, nil
}

// Get returns one order
func (c *Client) Get(ctx context.Context, token, orderID string) (order.Order, error) {
	if err := requireToken(token); err != nil {
		return order.Order{}, err
	}
	var resp struct {
		Order *order.Order `json:"order"`
	}
	err := c.do(ctx, request{
		endpoint:  "order.get",
		method:    http.MethodGet,
		path:      "/api/order/" + seg(orderID),
		token:     token,
		out:       &resp,
		retryable: true,
	})
	if err != nil {
		return order.Order{}, err
	}
	if resp.Order == nil {
		return order.Order{}, shared.NewNotFoundError("Order not found")
	}
	return *resp.Order, nil
}

// History returns the user's orders. The backend answers either
// {"orders": [...]} or a bare array.
func (c *Client) History(ctx context.Context, token, userID string) ([]order.Order, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}
	var raw json.RawMessage
	err := c.do(ctx, request{
		endpoint:  "order.history",
		method:    http.MethodGet,
		path:      "/api/order/history/" + seg(userID),
		token:     token,
		out:       &raw,
		retryable: true,
	})
	if err != nil {
		return nil, err
	}
	return decodeHistory(raw)
}

func decodeHistory(raw json.RawMessage) ([]order.Order, error) {
	orders := []order.Order{}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return orders, nil
	}
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &orders); err != nil {
			return nil, shared.WrapDomainError(shared.CodeServer, "The store sent an unexpected response", err)
		}
		return orders, nil
	}
	var env struct {
		Orders []order.Order `json:"orders"`
	}
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, shared.WrapDomainError(shared.CodeServer, "The store sent an unexpected response", err)
	}
	if env.Orders != nil {
		orders = env.Orders
	}
	return orders, nil
}
