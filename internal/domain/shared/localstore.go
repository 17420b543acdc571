package shared

import "context"

// Keys under which client-side state is persisted.
const (
	KeySessionUser      = "session.user"
	KeySessionToken     = "session.token"
	KeyWishlistSnapshot = "snapshot.wishlist"
	KeyCartSnapshot     = "snapshot.cart"
)

// LocalStore is durable client-local storage for serialized records.
// Values are stored as JSON.
type LocalStore interface {
	// Get decodes the record under key into dst.
	// Returns an error matching ErrNotFound if the key is absent.
	Get(ctx context.Context, key string, dst any) error
	// Put replaces the record under key
	Put(ctx context.Context, key string, value any) error
	// Delete removes the record; deleting an absent key is not an error
	Delete(ctx context.Context, key string) error
}
