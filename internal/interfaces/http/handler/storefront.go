package handler

import (
	"github.com/gin-gonic/gin"

	catalogapp "github.com/123shiju/ecommerce-client/internal/application/catalog"
	"github.com/123shiju/ecommerce-client/internal/application/storefront"
	"github.com/123shiju/ecommerce-client/internal/interfaces/http/dto"
)

// StorefrontHandler exposes the shared cart count and wishlist that the
// navigation bar and product cards read.
type StorefrontHandler struct {
	BaseHandler
	shared  *storefront.Synchronizer
	catalog *catalogapp.Service
}

// NewStorefrontHandler creates a new StorefrontHandler
func NewStorefrontHandler(shared *storefront.Synchronizer, catalog *catalogapp.Service) *StorefrontHandler {
	return &StorefrontHandler{shared: shared, catalog: catalog}
}

// RegisterRoutes implements router.RouteRegistrar
func (h *StorefrontHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/shared-state", h.State)
	rg.POST("/shared-state/refresh", h.Refresh)

	rg.POST("/wishlist/:productId/toggle", h.ToggleWishlist)
	rg.DELETE("/wishlist/:productId", h.RemoveFromWishlist)

	rg.POST("/cart/items", h.AddToCart)
}

// State returns the cached shared state
func (h *StorefrontHandler) State(c *gin.Context) {
	h.Success(c, h.shared.Snapshot())
}

// Refresh re-fetches cart and wishlist. A failed refresh leaves the cached
// state in place for the next State call.
func (h *StorefrontHandler) Refresh(c *gin.Context) {
	if err := h.shared.Refresh(c.Request.Context()); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, h.shared.Snapshot())
}

// ToggleWishlist flips membership of a product
func (h *StorefrontHandler) ToggleWishlist(c *gin.Context) {
	productID := c.Param("productId")
	added, err := h.shared.ToggleWishlist(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.ToggleWishlistResponse{ProductID: productID, InWishlist: added})
}

// RemoveFromWishlist serves the remove button on the wishlist screen
func (h *StorefrontHandler) RemoveFromWishlist(c *gin.Context) {
	if err := h.shared.RemoveFromWishlist(c.Request.Context(), c.Param("productId")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, h.shared.Snapshot())
}

// AddToCart serves "Add to cart" and "Buy now" on the product page
func (h *StorefrontHandler) AddToCart(c *gin.Context) {
	var req dto.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "productId is required")
		return
	}

	product, err := h.catalog.GetProduct(c.Request.Context(), req.ProductID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if err := h.shared.AddToCart(c.Request.Context(), product, req.Quantity); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, h.shared.Snapshot())
}
