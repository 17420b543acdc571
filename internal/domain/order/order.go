package order

import (
	"context"
	"time"

	"github.com/123shiju/ecommerce-client/internal/domain/cart"
	"github.com/123shiju/ecommerce-client/internal/domain/catalog"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Status is the fulfilment status reported by the backend.
// The client never writes it.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusProcessing Status = "Processing"
	StatusShipped    Status = "Shipped"
	StatusDelivered  Status = "Delivered"
	StatusCancelled  Status = "Cancelled"
)

// IsKnown checks if the status is one of the recognized values
func (s Status) IsKnown() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// OrDefault returns Pending for an absent status
func (s Status) OrDefault() Status {
	if s == "" {
		return StatusPending
	}
	return s
}

// Label is the display form of the status
func (s Status) Label() string {
	return cases.Title(language.English).String(string(s.OrDefault()))
}

// PaymentMethod is how the order is paid for
type PaymentMethod string

// CashOnDelivery is the only supported payment method
const CashOnDelivery PaymentMethod = "Cash on Delivery"

// Line is one product of a placed order
type Line struct {
	Product  catalog.ProductRef `json:"productId"`
	Quantity int                `json:"quantity"`
	Price    decimal.Decimal    `json:"price"`
}

// Title falls back to a placeholder when the product was not populated
func (l Line) Title() string {
	if l.Product.Product != nil && l.Product.Product.Title != "" {
		return l.Product.Product.Title
	}
	return "Unnamed Product"
}

// UnitPrice prefers the populated product's first variant price,
// falling back to the price recorded on the line.
func (l Line) UnitPrice() decimal.Decimal {
	if l.Product.Product != nil {
		if p, ok := l.Product.Product.DisplayPrice(); ok && !p.IsZero() {
			return p
		}
	}
	return l.Price
}

// Category falls back to "N/A"
func (l Line) Category() string {
	if l.Product.Product != nil && l.Product.Product.Category != "" {
		return l.Product.Product.Category
	}
	return "N/A"
}

// Description falls back to a placeholder
func (l Line) Description() string {
	if l.Product.Product != nil && l.Product.Product.Description != "" {
		return l.Product.Product.Description
	}
	return "No description available"
}

// Images returns the populated product's images, if any
func (l Line) Images() []string {
	if l.Product.Product == nil {
		return nil
	}
	return l.Product.Product.Images
}

// Order is a placed order as reported by the backend
type Order struct {
	ID            string          `json:"_id"`
	UserID        string          `json:"userId,omitempty"`
	Lines         []Line          `json:"products"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	Status        Status          `json:"status"`
	PlacedAt      time.Time       `json:"placedAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// DisplayStatus returns the status with the Pending default applied
func (o Order) DisplayStatus() Status {
	return o.Status.OrDefault()
}

// Placement is the payload submitted to place an order
type Placement struct {
	UserID        string        `json:"userId"`
	Cart          cart.Cart     `json:"cart"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	// IdempotencyKey is sent as a header, never in the body
	IdempotencyKey string `json:"-"`
}

// Gateway is the backend order surface
type Gateway interface {
	Place(ctx context.Context, token string, p Placement) (orderID string, err error)
	Get(ctx context.Context, token, orderID string) (Order, error)
	History(ctx context.Context, token, userID string) ([]Order, error)
}
