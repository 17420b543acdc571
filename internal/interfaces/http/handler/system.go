package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/123shiju/ecommerce-client/internal/application/notify"
)

// SystemHandler serves liveness and the notification feed
type SystemHandler struct {
	BaseHandler
	notifier  *notify.Notifier
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(notifier *notify.Notifier) *SystemHandler {
	return &SystemHandler{notifier: notifier, startTime: time.Now()}
}

// RegisterRoutes implements router.RouteRegistrar
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/notifications", h.Notifications)
}

// Health reports liveness; it is mounted outside the versioned group
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"uptime": time.Since(h.startTime).Round(time.Second).String(),
	})
}

// Notifications returns recent toasts, newest first. ?limit= caps the list.
func (h *SystemHandler) Notifications(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			h.BadRequest(c, "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	h.Success(c, h.notifier.Recent(limit))
}
