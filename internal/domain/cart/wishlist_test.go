package cart

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWishlist_SetSemantics(t *testing.T) {
	w := NewWishlist("a", "b", "a", "")
	assert.Equal(t, []string{"a", "b"}, w.IDs())

	assert.False(t, w.Add("b"))
	assert.True(t, w.Add("c"))
	assert.True(t, w.Contains("c"))

	assert.True(t, w.Remove("a"))
	assert.False(t, w.Remove("a"))
	assert.Equal(t, []string{"b", "c"}, w.IDs())
	assert.Equal(t, 2, w.Len())
}

func TestWishlist_DecodeAndDedupe(t *testing.T) {
	body := `{"products":[{"productId":"p1"},{"productId":{"_id":"p2","title":"Laptop"}},{"productId":"p1"}]}`

	var w Wishlist
	require.NoError(t, json.Unmarshal([]byte(body), &w))
	w.Dedupe()

	assert.Equal(t, []string{"p1", "p2"}, w.IDs())
	assert.True(t, w.Entries[1].ProductID.Populated())
}

func TestWishlist_Clone(t *testing.T) {
	w := NewWishlist("a")
	cp := w.Clone()
	cp.Add("b")
	assert.Equal(t, 1, w.Len())
	assert.Equal(t, 2, cp.Len())
}
