package cache

import (
	"fmt"

	"github.com/123shiju/ecommerce-client/internal/domain/shared"
	"github.com/123shiju/ecommerce-client/internal/infrastructure/config"
	"github.com/123shiju/ecommerce-client/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

// LocalStoreFactory creates the client-local store selected by configuration
type LocalStoreFactory struct {
	storage               config.StorageConfig
	redis                 config.RedisConfig
	logLevel              string
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// LocalStoreFactoryOption is a functional option for configuring the factory
type LocalStoreFactoryOption func(*LocalStoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) LocalStoreFactoryOption {
	return func(f *LocalStoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis degrades to memory
func WithInMemoryFallback(allow bool) LocalStoreFactoryOption {
	return func(f *LocalStoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// WithSQLLogLevel sets the gorm log level for SQL drivers
func WithSQLLogLevel(level string) LocalStoreFactoryOption {
	return func(f *LocalStoreFactory) {
		f.logLevel = level
	}
}

// NewLocalStoreFactory creates a new factory
func NewLocalStoreFactory(storage config.StorageConfig, redis config.RedisConfig, opts ...LocalStoreFactoryOption) *LocalStoreFactory {
	f := &LocalStoreFactory{
		storage:  storage,
		redis:    redis,
		logLevel: "warn",
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateStore returns the store and a function releasing its resources
func (f *LocalStoreFactory) CreateStore() (shared.LocalStore, func() error, error) {
	noop := func() error { return nil }

	switch f.storage.Driver {
	case "memory":
		f.logger.Info("using in-memory local store; state is lost on restart")
		return NewInMemoryLocalStore(), noop, nil

	case "redis":
		store, err := NewRedisLocalStore(RedisConfig{
			Addr:      f.redis.Addr,
			Password:  f.redis.Password,
			DB:        f.redis.DB,
			KeyPrefix: f.redis.KeyPrefix,
		})
		if err == nil {
			f.logger.Info("using Redis local store", zap.String("addr", f.redis.Addr))
			return store, store.Close, nil
		}
		if !f.allowInMemoryFallback {
			return nil, nil, fmt.Errorf("redis local store unavailable: %w", err)
		}
		f.logger.Warn("Redis unavailable, falling back to in-memory local store", zap.Error(err))
		return NewInMemoryLocalStore(), noop, nil

	case "sqlite", "postgres":
		db, err := persistence.NewDatabase(f.storage, f.logger, f.logLevel)
		if err != nil {
			return nil, nil, err
		}
		if err := db.Migrate(); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		f.logger.Info("using SQL local store", zap.String("driver", f.storage.Driver))
		return persistence.NewGormLocalStore(db.DB), db.Close, nil

	default:
		return nil, nil, fmt.Errorf("unsupported storage driver %q", f.storage.Driver)
	}
}
