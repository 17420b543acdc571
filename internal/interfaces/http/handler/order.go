package handler

import (
	"github.com/gin-gonic/gin"

	orderapp "github.com/123shiju/ecommerce-client/internal/application/order"
)

// OrderHandler serves order history, detail and tracking
type OrderHandler struct {
	BaseHandler
	orders *orderapp.Service
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orders *orderapp.Service) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// RegisterRoutes implements router.RouteRegistrar
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/orders")
	g.GET("", h.List)
	g.GET("/tracking", h.Tracking)
	g.GET("/:id", h.Get)
}

// List renders order history
func (h *OrderHandler) List(c *gin.Context) {
	history, err := h.orders.ListOrders(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, history)
}

// Tracking renders the tracking bars
func (h *OrderHandler) Tracking(c *gin.Context) {
	tracking, err := h.orders.Tracking(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tracking)
}

// Get renders a single order
func (h *OrderHandler) Get(c *gin.Context) {
	o, err := h.orders.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, o)
}
