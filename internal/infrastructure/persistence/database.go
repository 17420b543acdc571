package persistence

import (
	"fmt"
	"time"

	"github.com/123shiju/ecommerce-client/internal/infrastructure/config"
	"github.com/123shiju/ecommerce-client/internal/infrastructure/logger"
	"github.com/123shiju/ecommerce-client/internal/infrastructure/persistence/models"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Database holds the database connection backing the local store
type Database struct {
	DB *gorm.DB
}

// NewDatabase opens the configured SQL driver and migrates the local store schema
func NewDatabase(cfg config.StorageConfig, zapLogger *zap.Logger, logLevel string) (*Database, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.SQLitePath)
	case "postgres":
		dialector = postgres.Open(cfg.PostgresDSN)
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", cfg.Driver)
	}
	return Open(dialector, zapLogger, logger.MapGormLogLevel(logLevel))
}

// Open connects with an explicit dialector. Tests pass in-memory or mocked connections.
func Open(dialector gorm.Dialector, zapLogger *zap.Logger, level gormlogger.LogLevel) (*Database, error) {
	if zapLogger == nil {
		zapLogger = zap.NewNop()
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 logger.NewGormLogger(zapLogger, level, 200*time.Millisecond),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if db.Dialector.Name() == "sqlite" {
		// one writer keeps :memory: databases on a single connection
		sqlDB.SetMaxOpenConns(1)
	}
	return &Database{DB: db}, nil
}

// Migrate creates or updates the local store table
func (d *Database) Migrate() error {
	if err := d.DB.AutoMigrate(&models.LocalEntryModel{}); err != nil {
		return fmt.Errorf("failed to migrate local store: %w", err)
	}
	return nil
}

// Close closes the database connection
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}

// Ping checks if the database connection is alive
func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Ping()
}
