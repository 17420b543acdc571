package catalog

import (
	"fmt"
	"strings"

	"github.com/123shiju/ecommerce-client/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// RequiredImages is the number of images an admin product must carry
const RequiredImages = 3

// Image is an uploaded image file
type Image struct {
	Filename    string
	ContentType string
	Data        []byte
}

// VariantDraft is one variant row of the admin form.
// Fields stay as entered so that missing values can be reported.
type VariantDraft struct {
	RAM      string `json:"ram"`
	Price    string `json:"price"`
	Quantity string `json:"quantity"`
}

// ProductDraft is the admin add-product form
type ProductDraft struct {
	Title       string
	Description string
	Category    string
	Variants    []VariantDraft
	Images      []Image
}

// Validate blocks submission of incomplete drafts
func (d ProductDraft) Validate() error {
	if strings.TrimSpace(d.Title) == "" || strings.TrimSpace(d.Description) == "" || strings.TrimSpace(d.Category) == "" {
		return shared.NewValidationError("Please fill out all required fields.")
	}
	if len(d.Variants) == 0 {
		return shared.NewValidationError("Please add at least one variant.")
	}
	for i, v := range d.Variants {
		if strings.TrimSpace(v.RAM) == "" || strings.TrimSpace(v.Price) == "" || strings.TrimSpace(v.Quantity) == "" {
			return shared.NewValidationError("Please fill out all variant fields.")
		}
		price, err := decimal.NewFromString(strings.TrimSpace(v.Price))
		if err != nil || !price.IsPositive() {
			return shared.NewValidationError(fmt.Sprintf("Variant %d: price must be a positive number.", i+1))
		}
		qty, err := decimal.NewFromString(strings.TrimSpace(v.Quantity))
		if err != nil || qty.IsNegative() || !qty.Equal(qty.Truncate(0)) {
			return shared.NewValidationError(fmt.Sprintf("Variant %d: quantity must be a whole number.", i+1))
		}
	}
	if len(d.Images) != RequiredImages {
		return shared.NewValidationError("Please upload all three images.")
	}
	for _, img := range d.Images {
		if len(img.Data) == 0 {
			return shared.NewValidationError("Please upload all three images.")
		}
	}
	return nil
}
