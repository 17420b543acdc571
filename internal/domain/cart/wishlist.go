package cart

import "github.com/123shiju/ecommerce-client/internal/domain/catalog"

// WishlistEntry is a product saved for later
type WishlistEntry struct {
	ProductID catalog.ProductRef `json:"productId"`
}

// ID returns the product identifier
func (e WishlistEntry) ID() string {
	return e.ProductID.ID
}

// Wishlist holds each product id at most once, in insertion order
type Wishlist struct {
	Entries []WishlistEntry `json:"products"`
}

// NewWishlist builds a wishlist from ids, dropping duplicates and blanks
func NewWishlist(ids ...string) Wishlist {
	w := Wishlist{Entries: make([]WishlistEntry, 0, len(ids))}
	for _, id := range ids {
		w.Add(id)
	}
	return w
}

// Dedupe enforces set semantics on data received from the backend
func (w *Wishlist) Dedupe() {
	seen := make(map[string]struct{}, len(w.Entries))
	out := make([]WishlistEntry, 0, len(w.Entries))
	for _, e := range w.Entries {
		if e.ID() == "" {
			continue
		}
		if _, dup := seen[e.ID()]; dup {
			continue
		}
		seen[e.ID()] = struct{}{}
		out = append(out, e)
	}
	w.Entries = out
}

// Contains reports membership by product id
func (w Wishlist) Contains(productID string) bool {
	for _, e := range w.Entries {
		if e.ID() == productID {
			return true
		}
	}
	return false
}

// Add inserts productID; it reports false if already present
func (w *Wishlist) Add(productID string) bool {
	if productID == "" || w.Contains(productID) {
		return false
	}
	w.Entries = append(w.Entries, WishlistEntry{ProductID: catalog.Ref(productID)})
	return true
}

// Remove deletes productID; it reports false if absent
func (w *Wishlist) Remove(productID string) bool {
	for i, e := range w.Entries {
		if e.ID() == productID {
			w.Entries = append(w.Entries[:i:i], w.Entries[i+1:]...)
			return true
		}
	}
	return false
}

// IDs returns product ids in insertion order
func (w Wishlist) IDs() []string {
	out := make([]string, 0, len(w.Entries))
	for _, e := range w.Entries {
		out = append(out, e.ID())
	}
	return out
}

// Len returns the number of entries
func (w Wishlist) Len() int {
	return len(w.Entries)
}

// Clone returns a copy with its own backing array
func (w Wishlist) Clone() Wishlist {
	out := Wishlist{Entries: make([]WishlistEntry, len(w.Entries))}
	copy(out.Entries, w.Entries)
	return out
}
