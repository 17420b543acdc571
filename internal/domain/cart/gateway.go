package cart

import "context"

// Gateway is the backend cart surface. Every call carries the bearer token.
type Gateway interface {
	Fetch(ctx context.Context, token, userID string) (Cart, error)
	Add(ctx context.Context, token, userID, productID string, quantity int) error
	Update(ctx context.Context, token, userID, productID string, dir Direction) error
	Remove(ctx context.Context, token, userID, productID string) error
}

// WishlistGateway is the backend wishlist surface
type WishlistGateway interface {
	FetchWishlist(ctx context.Context, token, userID string) (Wishlist, error)
	AddToWishlist(ctx context.Context, token, userID, productID string) error
	RemoveFromWishlist(ctx context.Context, token, userID, productID string) error
}
