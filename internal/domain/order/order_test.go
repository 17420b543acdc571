package order

import (
	"encoding/json"
	"testing"

	"github.com/123shiju/ecommerce-client/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressOf(t *testing.T) {
	tests := []struct {
		status Status
		want   Progress
	}{
		{StatusPending, Progress{Percent: 25, Color: "yellow"}},
		{StatusProcessing, Progress{Percent: 50, Color: "blue"}},
		{StatusShipped, Progress{Percent: 75, Color: "orange"}},
		{StatusDelivered, Progress{Percent: 100, Color: "green"}},
		{StatusCancelled, FallbackProgress},
		{Status("Lost in transit"), FallbackProgress},
		{Status(""), FallbackProgress},
		{Status("shipped"), FallbackProgress},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.Equal(t, tt.want, ProgressOf(tt.status))
			})
		})
	}
}

func TestStatus_Defaults(t *testing.T) {
	assert.Equal(t, StatusPending, Status("").OrDefault())
	assert.Equal(t, StatusShipped, StatusShipped.OrDefault())
	assert.Equal(t, "Pending", Status("").Label())
	assert.True(t, StatusDelivered.IsKnown())
	assert.False(t, Status("Returned").IsKnown())
}

func TestOrder_DecodeWithPopulatedProducts(t *testing.T) {
	body := `{
		"_id":"ORD123","totalAmount":450,"paymentMethod":"Cash on Delivery",
		"placedAt":"2024-05-01T10:00:00Z","updatedAt":"2024-05-02T10:00:00Z",
		"products":[
			{"productId":{"_id":"p1","title":"Phone","category":"Mobiles","variants":[{"ram":"8GB","price":400,"quantity":1}]},"quantity":1,"price":390},
			{"productId":"p2","quantity":2,"price":25}
		]
	}`

	var o Order
	require.NoError(t, json.Unmarshal([]byte(body), &o))

	assert.Equal(t, "ORD123", o.ID)
	assert.Equal(t, StatusPending, o.DisplayStatus())
	assert.Equal(t, CashOnDelivery, o.PaymentMethod)
	require.Len(t, o.Lines, 2)

	populated, bare := o.Lines[0], o.Lines[1]
	assert.Equal(t, "Phone", populated.Title())
	assert.True(t, populated.UnitPrice().Equal(decimal.NewFromInt(400)))
	assert.Equal(t, "Mobiles", populated.Category())

	assert.Equal(t, "p2", bare.Product.ID)
	assert.Equal(t, "Unnamed Product", bare.Title())
	assert.True(t, bare.UnitPrice().Equal(decimal.NewFromInt(25)))
	assert.Equal(t, "N/A", bare.Category())
	assert.Equal(t, "No description available", bare.Description())
	assert.Nil(t, bare.Images())
}

func TestCheckoutState_Transitions(t *testing.T) {
	tests := []struct {
		from, to CheckoutState
		allowed  bool
	}{
		{CheckoutReviewing, CheckoutSubmitting, true},
		{CheckoutSubmitting, CheckoutPlaced, true},
		{CheckoutSubmitting, CheckoutReviewing, true},
		{CheckoutPlaced, CheckoutLeft, true},
		{CheckoutReviewing, CheckoutLeft, true},
		{CheckoutLeft, CheckoutReviewing, true},
		{CheckoutReviewing, CheckoutPlaced, false},
		{CheckoutPlaced, CheckoutSubmitting, false},
		{CheckoutSubmitting, CheckoutSubmitting, false},
	}

	for _, tt := range tests {
		t.Run(tt.from.String()+"->"+tt.to.String(), func(t *testing.T) {
			next, err := tt.from.Transition(tt.to)
			if tt.allowed {
				require.NoError(t, err)
				assert.Equal(t, tt.to, next)
				return
			}
			assert.Equal(t, shared.CodeInvalidState, shared.CodeOf(err))
			assert.Equal(t, tt.from, next)
		})
	}
}
