package cart

import "github.com/123shiju/ecommerce-client/internal/domain/shared"

const (
	// AggregateType for cart events
	AggregateType = "Cart"
	// WishlistAggregateType for wishlist events
	WishlistAggregateType = "Wishlist"

	EventTypeCartChanged     = "cart.changed"
	EventTypeWishlistChanged = "wishlist.changed"
)

// Change kinds carried by CartChangedEvent
const (
	ChangeAdded    = "added"
	ChangeQuantity = "quantity"
	ChangeRemoved  = "removed"
	ChangeCleared  = "cleared"
)

// CartChangedEvent is raised after a cart mutation reached the backend
type CartChangedEvent struct {
	shared.BaseDomainEvent
	UserID    string `json:"user_id"`
	ProductID string `json:"product_id,omitempty"`
	Change    string `json:"change"`
}

// NewCartChangedEvent creates a CartChangedEvent
func NewCartChangedEvent(userID, productID, change string) *CartChangedEvent {
	return &CartChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCartChanged, AggregateType, userID),
		UserID:          userID,
		ProductID:       productID,
		Change:          change,
	}
}

// WishlistChangedEvent is raised after a wishlist mutation
type WishlistChangedEvent struct {
	shared.BaseDomainEvent
	UserID    string `json:"user_id"`
	ProductID string `json:"product_id"`
	Added     bool   `json:"added"`
}

// NewWishlistChangedEvent creates a WishlistChangedEvent
func NewWishlistChangedEvent(userID, productID string, added bool) *WishlistChangedEvent {
	return &WishlistChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeWishlistChanged, WishlistAggregateType, userID),
		UserID:          userID,
		ProductID:       productID,
		Added:           added,
	}
}
