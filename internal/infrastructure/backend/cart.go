package backend

import (
	"context"
	"net/http"

	"github.com/123shiju/ecommerce-client/internal/domain/cart"
)

var (
	_ cart.Gateway         = (*Client)(nil)
	_ cart.WishlistGateway = (*Client)(nil)
)

type cartMutation struct {
	UserID    string         `json:"userId"`
	ProductID string         `json:"productId"`
	Quantity  int            `json:"quantity,omitempty"`
	Action    cart.Direction `json:"action,omitempty"`
}

// Fetch returns the user's cart. A missing cart is an empty cart.
func (c *Client) Fetch(ctx context.Context, token, userID string) (cart.Cart, error) {
	if err := requireToken(token); err != nil {
		return cart.Cart{}, err
	}
	var resp struct {
		Cart *cart.Cart `json:"cart"`
	}
	err := c.do(ctx, request{
		endpoint:  "cart.fetch",
		method:    http.MethodGet,
		path:      "/api/cart/" + seg(userID),
		token:     token,
		out:       &resp,
		retryable: true,
	})
	if err != nil {
		return cart.Cart{}, err
	}
	if resp.Cart == nil {
		return cart.Empty(), nil
	}
	out := *resp.Cart
	out.Normalize()
	return out, nil
}

// Add puts quantity units of a product into the cart
func (c *Client) Add(ctx context.Context, token, userID, productID string, quantity int) error {
	if err := requireToken(token); err != nil {
		return err
	}
	if quantity < 1 {
		quantity = 1
	}
	return c.do(ctx, request{
		endpoint: "cart.add",
		method:   http.MethodPost,
		path:     "/api/cart/add",
		token:    token,
		body:     cartMutation{UserID: userID, ProductID: productID, Quantity: quantity},
	})
}

// Update steps a line quantity by one in the given direction
func (c *Client) Update(ctx context.Context, token, userID, productID string, dir cart.Direction) error {
	if err := requireToken(token); err != nil {
		return err
	}
	return c.do(ctx, request{
		endpoint: "cart.update",
		method:   http.MethodPost,
		path:     "/api/cart/update",
		token:    token,
		body:     cartMutation{UserID: userID, ProductID: productID, Action: dir},
	})
}

// Remove deletes a line from the cart
func (c *Client) Remove(ctx context.Context, token, userID, productID string) error {
	if err := requireToken(token); err != nil {
		return err
	}
	return c.do(ctx, request{
		endpoint: "cart.remove",
		method:   http.MethodPost,
		path:     "/api/cart/remove",
		token:    token,
		body:     cartMutation{UserID: userID, ProductID: productID},
	})
}

// FetchWishlist returns the user's wishlist with duplicate entries removed
func (c *Client) FetchWishlist(ctx context.Context, token, userID string) (cart.Wishlist, error) {
	if err := requireToken(token); err != nil {
		return cart.Wishlist{}, err
	}
	var resp struct {
		Wishlist *cart.Wishlist `json:"wishlist"`
	}
	err := c.do(ctx, request{
		endpoint:  "wishlist.fetch",
		method:    http.MethodGet,
		path:      "/api/wishlist/" + seg(userID),
		token:     token,
		out:       &resp,
		retryable: true,
	})
	if err != nil {
		return cart.Wishlist{}, err
	}
	if resp.Wishlist == nil {
		return cart.NewWishlist(), nil
	}
	out := *resp.Wishlist
	out.Dedupe()
	return out, nil
}

// AddToWishlist saves a product to the wishlist
func (c *Client) AddToWishlist(ctx context.Context, token, userID, productID string) error {
	if err := requireToken(token); err != nil {
		return err
	}
	return c.do(ctx, request{
		endpoint: "wishlist.add",
		method:   http.MethodPost,
		path:     "/api/wishlist/add",
		token:    token,
		body:     cartMutation{UserID: userID, ProductID: productID},
	})
}

// RemoveFromWishlist drops a product from the wishlist
func (c *Client) RemoveFromWishlist(ctx context.Context, token, userID, productID string) error {
	if err := requireToken(token); err != nil {
		return err
	}
	return c.do(ctx, request{
		endpoint: "wishlist.remove",
		method:   http.MethodPost,
		path:     "/api/wishlist/remove",
		token:    token,
		body:     cartMutation{UserID: userID, ProductID: productID},
	})
}
