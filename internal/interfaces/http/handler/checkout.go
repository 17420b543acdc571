package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/123shiju/ecommerce-client/internal/application/checkout"
	"github.com/123shiju/ecommerce-client/internal/application/view"
)

// CheckoutHandler serves the checkout screen and its confirmation
type CheckoutHandler struct {
	BaseHandler
	checkout *checkout.Service
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(svc *checkout.Service) *CheckoutHandler {
	return &CheckoutHandler{checkout: svc}
}

// RegisterRoutes implements router.RouteRegistrar
func (h *CheckoutHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/checkout")
	g.GET("", h.Begin)
	g.POST("/place", h.PlaceOrder)
	g.DELETE("", h.Leave)
}

// Begin opens the checkout screen. A failed cart load still renders the
// last known cart, so the error is only surfaced when nothing is shown.
func (h *CheckoutHandler) Begin(c *gin.Context) {
	scope := view.NewScope(c.Request.Context())
	defer scope.Close()

	v, err := h.checkout.Begin(c.Request.Context(), scope)
	if err != nil && v.State == "" {
		h.HandleError(c, err)
		return
	}
	h.Success(c, v)
}

// PlaceOrder submits the order
func (h *CheckoutHandler) PlaceOrder(c *gin.Context) {
	conf, err := h.checkout.PlaceOrder(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, conf)
}

// Leave closes the checkout screen
func (h *CheckoutHandler) Leave(c *gin.Context) {
	if err := h.checkout.Leave(); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, h.checkout.State())
}
