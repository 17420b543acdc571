package handler

import (
	"github.com/gin-gonic/gin"

	cartapp "github.com/123shiju/ecommerce-client/internal/application/cart"
	"github.com/123shiju/ecommerce-client/internal/application/view"
	"github.com/123shiju/ecommerce-client/internal/domain/cart"
	"github.com/123shiju/ecommerce-client/internal/interfaces/http/dto"
)

// CartHandler serves the cart screen
type CartHandler struct {
	BaseHandler
	carts *cartapp.Manager
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(carts *cartapp.Manager) *CartHandler {
	return &CartHandler{carts: carts}
}

// RegisterRoutes implements router.RouteRegistrar
func (h *CartHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/cart")
	g.GET("", h.Get)
	g.POST("/items/:productId/:direction", h.UpdateQuantity)
	g.DELETE("/items/:productId", h.RemoveItem)
}

// Get loads the cart. The request is the view: a client that disconnects
// before the backend answers leaves the local cart alone.
func (h *CartHandler) Get(c *gin.Context) {
	scope := view.NewScope(c.Request.Context())
	defer scope.Close()

	loaded, err := h.carts.Load(c.Request.Context(), scope)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewCartResponse(loaded))
}

// UpdateQuantity handles the + and - buttons
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	dir, err := cart.ParseDirection(c.Param("direction"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	updated, err := h.carts.UpdateQuantity(c.Request.Context(), c.Param("productId"), dir)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewCartResponse(updated))
}

// RemoveItem handles the remove button
func (h *CartHandler) RemoveItem(c *gin.Context) {
	updated, err := h.carts.RemoveItem(c.Request.Context(), c.Param("productId"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewCartResponse(updated))
}
