package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductRef_UnmarshalJSON(t *testing.T) {
	t.Run("bare id", func(t *testing.T) {
		var r ProductRef
		require.NoError(t, json.Unmarshal([]byte(`"abc"`), &r))
		assert.Equal(t, "abc", r.ID)
		assert.False(t, r.Populated())
	})

	t.Run("populated document", func(t *testing.T) {
		var r ProductRef
		require.NoError(t, json.Unmarshal([]byte(`{"_id":"abc","title":"Phone","category":"Mobiles"}`), &r))
		assert.Equal(t, "abc", r.ID)
		require.True(t, r.Populated())
		assert.Equal(t, "Phone", r.Product.Title)
	})

	t.Run("null", func(t *testing.T) {
		r := Ref("old")
		require.NoError(t, json.Unmarshal([]byte(`null`), &r))
		assert.Equal(t, "", r.ID)
	})

	t.Run("number is rejected", func(t *testing.T) {
		var r ProductRef
		assert.Error(t, json.Unmarshal([]byte(`12`), &r))
	})
}

func TestProductRef_MarshalJSON(t *testing.T) {
	out, err := json.Marshal(struct {
		P ProductRef `json:"productId"`
	}{P: Ref("abc")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"productId":"abc"}`, string(out))
}
