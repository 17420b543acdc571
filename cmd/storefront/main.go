package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	cartapp "github.com/123shiju/ecommerce-client/internal/application/cart"
	catalogapp "github.com/123shiju/ecommerce-client/internal/application/catalog"
	"github.com/123shiju/ecommerce-client/internal/application/checkout"
	"github.com/123shiju/ecommerce-client/internal/application/notify"
	orderapp "github.com/123shiju/ecommerce-client/internal/application/order"
	sessionapp "github.com/123shiju/ecommerce-client/internal/application/session"
	"github.com/123shiju/ecommerce-client/internal/application/storefront"
	"github.com/123shiju/ecommerce-client/internal/infrastructure/backend"
	"github.com/123shiju/ecommerce-client/internal/infrastructure/cache"
	"github.com/123shiju/ecommerce-client/internal/infrastructure/config"
	"github.com/123shiju/ecommerce-client/internal/infrastructure/event"
	"github.com/123shiju/ecommerce-client/internal/infrastructure/logger"
	"github.com/123shiju/ecommerce-client/internal/infrastructure/storage"
	"github.com/123shiju/ecommerce-client/internal/infrastructure/telemetry"
	"github.com/123shiju/ecommerce-client/internal/interfaces/http/handler"
	"github.com/123shiju/ecommerce-client/internal/interfaces/http/middleware"
	"github.com/123shiju/ecommerce-client/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.NewForEnvironment(cfg.App.Env, cfg.Log.Level, cfg.Log.Format, cfg.Log.Output)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting storefront",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("backend", cfg.Backend.BaseURL),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
		Environment:       cfg.App.Env,
		BackendURL:        cfg.Backend.BaseURL,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	metrics := telemetry.NewMetrics()

	store, closeStore, err := cache.NewLocalStoreFactory(cfg.Storage, cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(cfg.App.Env != "production"),
		cache.WithSQLLogLevel(cfg.Log.Level),
	).CreateStore()
	if err != nil {
		log.Fatal("Failed to open local store", zap.Error(err))
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.Error("Error closing local store", zap.Error(err))
		}
	}()

	client, err := backend.NewClient(backend.Config{
		BaseURL:        cfg.Backend.BaseURL,
		Timeout:        cfg.Backend.Timeout,
		MaxRetries:     cfg.Backend.MaxRetries,
		RetryBaseDelay: cfg.Backend.RetryBaseDelay,
		RateLimitRPS:   cfg.Backend.RateLimitRPS,
		RateLimitBurst: cfg.Backend.RateLimitBurst,
		MaxResponse:    cfg.Backend.MaxResponse,
	}, backend.WithMetrics(metrics), backend.WithLogger(log))
	if err != nil {
		log.Fatal("Invalid backend configuration", zap.Error(err))
	}

	images, err := newImageResolver(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize image resolver", zap.Error(err))
	}

	bus := event.NewInMemoryEventBus(log)
	notifier := notify.New(cfg.Notify.Capacity, log, notify.WithMetrics(metrics))

	sessions := sessionapp.NewService(client, store, bus, notifier, log)
	shared := storefront.NewSynchronizer(sessions, client, client, store, bus, notifier, log,
		storefront.WithMetrics(metrics))
	catalogSvc := catalogapp.NewService(client, sessions, images, notifier, log)
	carts := cartapp.NewManager(sessions, client, store, bus, notifier, log)
	checkoutSvc := checkout.NewService(sessions, client, carts, bus, notifier, log,
		checkout.WithMetrics(metrics))
	orders := orderapp.NewService(sessions, client, log)

	bus.Subscribe(shared)
	bus.Subscribe(carts)
	if err := bus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// A persisted session picks up where the last run left off
	shared.Restore(ctx)
	if restored, err := sessions.Restore(ctx); err != nil {
		log.Warn("Failed to restore session", zap.Error(err))
	} else if restored {
		log.Info("Session restored")
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engineOpts := router.EngineOptions{
		ServiceName: cfg.Telemetry.ServiceName,
		Logger:      log,
		Metrics:     metrics,
		Tracing:     tp.IsEnabled(),
		CORS:        middleware.DefaultCORSConfig(),
		MaxBodySize: cfg.HTTP.MaxBodySize,
	}
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		engineOpts.CORS.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if cfg.HTTP.RateLimitEnabled {
		engineOpts.RateLimitRequests = cfg.HTTP.RateLimitRequests
		engineOpts.RateLimitWindow = cfg.HTTP.RateLimitWindow
	}
	engine, limiter := router.NewEngine(engineOpts)

	systemHandler := handler.NewSystemHandler(notifier)
	router.NewRouter(engine).
		Register(handler.NewSessionHandler(sessions)).
		Register(handler.NewCatalogHandler(catalogSvc, shared)).
		Register(handler.NewStorefrontHandler(shared, catalogSvc)).
		Register(handler.NewCartHandler(carts)).
		Register(handler.NewCheckoutHandler(checkoutSvc)).
		Register(handler.NewOrderHandler(orders)).
		Register(systemHandler).
		Setup()

	engine.GET("/health", systemHandler.Health)
	if cfg.Telemetry.MetricsEnabled {
		engine.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	if limiter != nil {
		go sweepLimiter(ctx, limiter, cfg.HTTP.RateLimitWindow)
	}

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr(),
		Handler:           engine,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Failed to start server", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := bus.Stop(shutdownCtx); err != nil {
		log.Warn("Event bus did not drain", zap.Error(err))
	}
	if err := tp.Shutdown(shutdownCtx); err != nil {
		log.Warn("Tracer provider shutdown failed", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// newImageResolver picks how stored image references become URLs
func newImageResolver(cfg *config.Config, log *zap.Logger) (catalogapp.ImageResolver, error) {
	if cfg.Images.Mode == "s3" {
		return storage.NewS3ImageResolver(&cfg.Images,
			storage.WithLogger(log),
			storage.WithPresignExpiration(cfg.Images.PresignExpiry),
		)
	}
	return storage.NewURLImageResolver(cfg.Images.BaseURL)
}

// sweepLimiter drops idle per-client buckets once per window
func sweepLimiter(ctx context.Context, limiter *middleware.RateLimiter, window time.Duration) {
	ticker := time.NewTicker(window)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			limiter.Sweep()
		}
	}
}
