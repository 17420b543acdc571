package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Product is a read-only copy of a backend catalog record
type Product struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Images      []string  `json:"images"`
	Variants    []Variant `json:"variants"`
}

// Variant is a purchasable configuration of a product
type Variant struct {
	RAM      string          `json:"ram"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// UnmarshalJSON accepts quantity as either a number or a numeric string,
// since products created through the admin form store form values verbatim.
func (v *Variant) UnmarshalJSON(data []byte) error {
	var raw struct {
		RAM      string          `json:"ram"`
		Price    decimal.Decimal `json:"price"`
		Quantity json.RawMessage `json:"quantity"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v.RAM = raw.RAM
	v.Price = raw.Price
	v.Quantity = 0

	q := strings.Trim(strings.TrimSpace(string(raw.Quantity)), `"`)
	if q == "" || q == "null" {
		return nil
	}
	n, err := strconv.ParseFloat(q, 64)
	if err != nil {
		return fmt.Errorf("variant quantity %q: %w", q, err)
	}
	v.Quantity = int(n)
	return nil
}

// TotalStock is the sum of available quantity across variants
func (p Product) TotalStock() int {
	total := 0
	for _, v := range p.Variants {
		if v.Quantity > 0 {
			total += v.Quantity
		}
	}
	return total
}

// InStock reports whether any variant has available quantity
func (p Product) InStock() bool {
	return p.TotalStock() > 0
}

// DisplayPrice is the price of the first variant.
// ok is false when the product has no variants.
func (p Product) DisplayPrice() (price decimal.Decimal, ok bool) {
	if len(p.Variants) == 0 {
		return decimal.Zero, false
	}
	return p.Variants[0].Price, true
}

// PrimaryImage returns the first image reference, if any
func (p Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// Category is a catalog category tag
type Category struct {
	ID   string `json:"_id"`
	Name string `json:"categoryName"`
}

// Gateway is the backend catalog surface
type Gateway interface {
	ListProducts(ctx context.Context) ([]Product, error)
	GetProduct(ctx context.Context, id string) (Product, error)
	ListCategories(ctx context.Context) ([]Category, error)
	// AddProduct submits an admin product draft with the given bearer token
	AddProduct(ctx context.Context, token string, draft ProductDraft) error
}
