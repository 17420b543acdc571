package catalog

import (
	"testing"

	"github.com/123shiju/ecommerce-client/internal/domain/shared"
	"github.com/stretchr/testify/assert"
)

func validDraft() ProductDraft {
	img := Image{Filename: "a.png", ContentType: "image/png", Data: []byte{0x89, 0x50}}
	return ProductDraft{
		Title:       "Phone",
		Description: "A phone",
		Category:    "Mobiles",
		Variants:    []VariantDraft{{RAM: "8GB", Price: "299.99", Quantity: "5"}},
		Images:      []Image{img, img, img},
	}
}

func TestProductDraft_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(d *ProductDraft)
		wantMsg string
	}{
		{"valid", func(d *ProductDraft) {}, ""},
		{"missing title", func(d *ProductDraft) { d.Title = " " }, "Please fill out all required fields."},
		{"missing category", func(d *ProductDraft) { d.Category = "" }, "Please fill out all required fields."},
		{"no variants", func(d *ProductDraft) { d.Variants = nil }, "Please add at least one variant."},
		{"variant missing ram", func(d *ProductDraft) { d.Variants[0].RAM = "" }, "Please fill out all variant fields."},
		{"variant zero price", func(d *ProductDraft) { d.Variants[0].Price = "0" }, "Variant 1: price must be a positive number."},
		{"variant fractional quantity", func(d *ProductDraft) { d.Variants[0].Quantity = "1.5" }, "Variant 1: quantity must be a whole number."},
		{"two images", func(d *ProductDraft) { d.Images = d.Images[:2] }, "Please upload all three images."},
		{"empty image", func(d *ProductDraft) { d.Images[1] = Image{} }, "Please upload all three images."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			tt.mutate(&d)
			err := d.Validate()
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, shared.IsValidation(err))
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}
}
