package dto

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"

	"github.com/123shiju/ecommerce-client/internal/domain/cart"
	"github.com/123shiju/ecommerce-client/internal/domain/catalog"
	"github.com/123shiju/ecommerce-client/internal/domain/identity"
	"github.com/123shiju/ecommerce-client/internal/domain/shared/valueobject"
)

// DisplayLocale is the locale prices are formatted for
var DisplayLocale = language.English

// FormatPrice renders an amount in the display currency
func FormatPrice(amount decimal.Decimal) string {
	return valueobject.Of(amount).Format(DisplayLocale)
}

// SignInRequest is the sign-in form
type SignInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SignUpRequest is the sign-up form
type SignUpRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SessionResponse describes the signed-in user
type SessionResponse struct {
	SignedIn bool           `json:"signedIn"`
	User     *identity.User `json:"user,omitempty"`
}

// AddToCartRequest is the "Add to cart" / "Buy now" action
type AddToCartRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"omitempty,min=1"`
}

// ProductResponse is a product card or detail page
type ProductResponse struct {
	catalog.Product
	Price      string `json:"price,omitempty"`
	InStock    bool   `json:"inStock"`
	Stock      int    `json:"stock"`
	InWishlist bool   `json:"inWishlist"`
}

// NewProductResponse decorates p for display
func NewProductResponse(p catalog.Product, inWishlist bool) ProductResponse {
	resp := ProductResponse{
		Product:    p,
		InStock:    p.InStock(),
		Stock:      p.TotalStock(),
		InWishlist: inWishlist,
	}
	if price, ok := p.DisplayPrice(); ok {
		resp.Price = FormatPrice(price)
	}
	return resp
}

// CartLineResponse is one row of the cart table
type CartLineResponse struct {
	cart.Line
	PriceLabel  string `json:"priceLabel"`
	TotalLabel  string `json:"totalLabel"`
	CanDecrease bool   `json:"canDecrease"`
}

// CartResponse is the cart screen
type CartResponse struct {
	Lines      []CartLineResponse `json:"products"`
	Total      decimal.Decimal    `json:"cartTotal"`
	TotalLabel string             `json:"cartTotalLabel"`
	Count      int                `json:"count"`
	Empty      bool               `json:"empty"`
}

// NewCartResponse decorates c for display
func NewCartResponse(c cart.Cart) CartResponse {
	resp := CartResponse{
		Lines:      make([]CartLineResponse, 0, len(c.Lines)),
		Total:      c.Total,
		TotalLabel: FormatPrice(c.Total),
		Count:      c.Count(),
		Empty:      c.IsEmpty(),
	}
	for _, l := range c.Lines {
		resp.Lines = append(resp.Lines, CartLineResponse{
			Line:        l,
			PriceLabel:  FormatPrice(l.Price),
			TotalLabel:  FormatPrice(l.Total),
			CanDecrease: l.Quantity > 1,
		})
	}
	return resp
}

// ToggleWishlistResponse reports membership after a toggle
type ToggleWishlistResponse struct {
	ProductID  string `json:"productId"`
	InWishlist bool   `json:"inWishlist"`
}
