package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metric label values for backend call outcomes
const (
	OutcomeOK          = "ok"
	OutcomeNetwork     = "network_error"
	OutcomeAuth        = "auth_error"
	OutcomeNotFound    = "not_found"
	OutcomeServerError = "server_error"
)

// Metrics is the Prometheus instrumentation for the storefront.
// It uses its own registry so tests can create independent instances.
//
// Thread Safety: Safe for concurrent use by multiple goroutines.
type Metrics struct {
	registry *prometheus.Registry

	backendRequests *prometheus.CounterVec
	backendDuration *prometheus.HistogramVec
	backendRetries  *prometheus.CounterVec
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	cartItems       prometheus.Gauge
	wishlistItems   prometheus.Gauge
	notifications   *prometheus.CounterVec
	ordersPlaced    prometheus.Counter
}

// NewMetrics creates and registers all storefront metrics.
func NewMetrics() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.backendRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_backend_requests_total",
		Help: "Calls made to the store backend by endpoint and outcome.",
	}, []string{"endpoint", "method", "outcome"})

	m.backendDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "storefront_backend_request_duration_seconds",
		Help:    "Latency of calls to the store backend.",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})

	m.backendRetries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_backend_retries_total",
		Help: "Retried backend calls by endpoint.",
	}, []string{"endpoint"})

	m.httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_http_requests_total",
		Help: "View API requests by route and status.",
	}, []string{"route", "method", "status"})

	m.httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "storefront_http_request_duration_seconds",
		Help:    "View API request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	m.cartItems = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "storefront_cart_items",
		Help: "Cart item count as last seen by the synchronizer.",
	})

	m.wishlistItems = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "storefront_wishlist_items",
		Help: "Wishlist size as last seen by the synchronizer.",
	})

	m.notifications = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_notifications_total",
		Help: "Toasts shown to the user by level.",
	}, []string{"level"})

	m.ordersPlaced = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "storefront_orders_placed_total",
		Help: "Orders placed through checkout.",
	})

	m.registry.MustRegister(
		m.backendRequests, m.backendDuration, m.backendRetries,
		m.httpRequests, m.httpDuration,
		m.cartItems, m.wishlistItems, m.notifications, m.ordersPlaced,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the underlying registry (for tests and custom collectors).
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveBackendCall records one backend call. Nil receivers are ignored
// so that callers can run without metrics.
func (m *Metrics) ObserveBackendCall(endpoint, method, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.backendRequests.WithLabelValues(endpoint, method, outcome).Inc()
	m.backendDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// ObserveRetry records a retried backend call.
func (m *Metrics) ObserveRetry(endpoint string) {
	if m == nil {
		return
	}
	m.backendRetries.WithLabelValues(endpoint).Inc()
}

// SetSharedState records the synchronizer's counters.
func (m *Metrics) SetSharedState(cartCount, wishlistSize int) {
	if m == nil {
		return
	}
	m.cartItems.Set(float64(cartCount))
	m.wishlistItems.Set(float64(wishlistSize))
}

// ObserveNotification counts a toast.
func (m *Metrics) ObserveNotification(level string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(level).Inc()
}

// ObserveOrderPlaced counts a successful checkout.
func (m *Metrics) ObserveOrderPlaced() {
	if m == nil {
		return
	}
	m.ordersPlaced.Inc()
}

// GinMiddleware records view API request counts and latency by route.
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}
