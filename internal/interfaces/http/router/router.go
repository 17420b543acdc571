// Package router assembles the gin engine of the view API.
package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/123shiju/ecommerce-client/internal/infrastructure/logger"
	"github.com/123shiju/ecommerce-client/internal/infrastructure/telemetry"
	"github.com/123shiju/ecommerce-client/internal/interfaces/http/middleware"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router manages HTTP route registration
type Router struct {
	engine     *gin.Engine
	apiVersion string
	registrars []RouteRegistrar
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1", "v2")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
		registrars: make([]RouteRegistrar, 0),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a RouteRegistrar to be registered on Setup
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup registers all routes under /api/<version>
func (r *Router) Setup() {
	api := r.engine.Group("/api/" + r.apiVersion)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
}

// EngineOptions selects the middleware chain of the engine
type EngineOptions struct {
	ServiceName string
	Logger      *zap.Logger
	Metrics     *telemetry.Metrics
	Tracing     bool
	CORS        middleware.CORSConfig
	MaxBodySize int64
	// RateLimitRequests per RateLimitWindow per client; zero disables it
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// NewEngine creates a gin engine with the standard middleware chain.
// The rate limiter is returned so the caller can sweep it; it is nil when
// rate limiting is disabled.
func NewEngine(opts EngineOptions) (*gin.Engine, *middleware.RateLimiter) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	engine := gin.New()
	if opts.Tracing {
		engine.Use(otelgin.Middleware(opts.ServiceName))
	}
	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(opts.Logger),
		logger.Recovery(opts.Logger),
		middleware.SecurityHeaders(),
		middleware.CORSWithConfig(opts.CORS),
	)
	if opts.Metrics != nil {
		engine.Use(opts.Metrics.GinMiddleware())
	}

	var limiter *middleware.RateLimiter
	if opts.RateLimitRequests > 0 && opts.RateLimitWindow > 0 {
		limiter = middleware.NewRateLimiter(opts.RateLimitRequests, opts.RateLimitWindow)
		engine.Use(middleware.RateLimit(limiter))
	}
	if opts.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(opts.MaxBodySize))
	}
	return engine, limiter
}
