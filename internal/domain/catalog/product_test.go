package catalog

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVariant_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantQty int
		price   string
		wantErr bool
	}{
		{"numeric fields", `{"ram":"8GB","price":499.5,"quantity":4}`, 4, "499.5", false},
		{"string fields", `{"ram":"8GB","price":"499","quantity":"7"}`, 7, "499", false},
		{"missing quantity", `{"ram":"8GB","price":10}`, 0, "10", false},
		{"null quantity", `{"ram":"8GB","price":10,"quantity":null}`, 0, "10", false},
		{"garbage quantity", `{"ram":"8GB","price":10,"quantity":"many"}`, 0, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v Variant
			err := json.Unmarshal([]byte(tt.input), &v)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantQty, v.Quantity)
			assert.True(t, v.Price.Equal(decimal.RequireFromString(tt.price)))
			assert.Equal(t, "8GB", v.RAM)
		})
	}
}

func TestProduct_DecodeBackendShape(t *testing.T) {
	body := `{"_id":"p1","title":"Laptop","description":"d","category":"Laptops",
		"images":["uploads/a.png","uploads/b.png"],
		"variants":[{"ram":"16GB","price":"1200","quantity":"2"}]}`

	var p Product
	require.NoError(t, json.Unmarshal([]byte(body), &p))
	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, "uploads/a.png", p.PrimaryImage())
	assert.True(t, p.InStock())
}
