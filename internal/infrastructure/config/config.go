package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all storefront configuration
type Config struct {
	App       AppConfig
	HTTP      HTTPConfig
	Backend   BackendConfig
	Storage   StorageConfig
	Redis     RedisConfig
	Images    ImagesConfig
	Log       LogConfig
	Telemetry TelemetryConfig
	Notify    NotifyConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
}

// HTTPConfig holds settings for the local view API
type HTTPConfig struct {
	Host              string
	Port              string
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxBodySize       int64
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration
	CORSAllowOrigins  []string
}

// Addr returns host:port for the listener
func (h HTTPConfig) Addr() string {
	return h.Host + ":" + h.Port
}

// BackendConfig holds settings for the remote store API.
// BaseURL is the single place the backend host is configured.
type BackendConfig struct {
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	RetryBaseDelay time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
	MaxResponse    int64
}

// StorageConfig selects the durable client-local store
type StorageConfig struct {
	Driver      string // sqlite, postgres, redis, memory
	SQLitePath  string
	PostgresDSN string
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// ImagesConfig controls how product image references become URLs
type ImagesConfig struct {
	Mode           string // url, s3
	BaseURL        string
	S3Endpoint     string
	S3Region       string
	S3Bucket       string
	S3AccessKey    string
	S3SecretKey    string
	S3UsePathStyle bool
	PresignExpiry  time.Duration
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// TelemetryConfig holds tracing and metrics settings
type TelemetryConfig struct {
	Enabled           bool    // Whether to export traces
	CollectorEndpoint string  // OTEL Collector endpoint (e.g., "localhost:4317")
	SamplingRatio     float64 // 0.0-1.0
	ServiceName       string
	Insecure          bool
	MetricsEnabled    bool // Whether to expose /metrics
}

// NotifyConfig sizes the notification feed
type NotifyConfig struct {
	Capacity int
}

// Load loads configuration from TOML file and environment variables.
// Priority (highest to lowest):
// 1. Environment variables with STOREFRONT_ prefix (e.g., STOREFRONT_BACKEND_BASE_URL)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("STOREFRONT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
		},
		HTTP: HTTPConfig{
			Host:              v.GetString("http.host"),
			Port:              v.GetString("http.port"),
			ReadTimeout:       v.GetDuration("http.read_timeout"),
			WriteTimeout:      v.GetDuration("http.write_timeout"),
			IdleTimeout:       v.GetDuration("http.idle_timeout"),
			MaxBodySize:       v.GetInt64("http.max_body_size"),
			RateLimitEnabled:  v.GetBool("http.rate_limit_enabled"),
			RateLimitRequests: v.GetInt("http.rate_limit_requests"),
			RateLimitWindow:   v.GetDuration("http.rate_limit_window"),
			CORSAllowOrigins:  v.GetStringSlice("http.cors_allow_origins"),
		},
		Backend: BackendConfig{
			BaseURL:        v.GetString("backend.base_url"),
			Timeout:        v.GetDuration("backend.timeout"),
			MaxRetries:     v.GetInt("backend.max_retries"),
			RetryBaseDelay: v.GetDuration("backend.retry_base_delay"),
			RateLimitRPS:   v.GetFloat64("backend.rate_limit_rps"),
			RateLimitBurst: v.GetInt("backend.rate_limit_burst"),
			MaxResponse:    v.GetInt64("backend.max_response_bytes"),
		},
		Storage: StorageConfig{
			Driver:      v.GetString("storage.driver"),
			SQLitePath:  v.GetString("storage.sqlite_path"),
			PostgresDSN: v.GetString("storage.postgres_dsn"),
		},
		Redis: RedisConfig{
			Addr:      v.GetString("redis.addr"),
			Password:  v.GetString("redis.password"),
			DB:        v.GetInt("redis.db"),
			KeyPrefix: v.GetString("redis.key_prefix"),
		},
		Images: ImagesConfig{
			Mode:           v.GetString("images.mode"),
			BaseURL:        v.GetString("images.base_url"),
			S3Endpoint:     v.GetString("images.s3_endpoint"),
			S3Region:       v.GetString("images.s3_region"),
			S3Bucket:       v.GetString("images.s3_bucket"),
			S3AccessKey:    v.GetString("images.s3_access_key"),
			S3SecretKey:    v.GetString("images.s3_secret_key"),
			S3UsePathStyle: v.GetBool("images.s3_use_path_style"),
			PresignExpiry:  v.GetDuration("images.presign_expiry"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			MetricsEnabled:    v.GetBool("telemetry.metrics_enabled"),
		},
		Notify: NotifyConfig{
			Capacity: v.GetInt("notify.capacity"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "storefront"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "127.0.0.1"
	}
	if cfg.HTTP.Port == "" {
		cfg.HTTP.Port = "8081"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 30 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 20 << 20 // three product images
	}
	if cfg.HTTP.RateLimitRequests == 0 {
		cfg.HTTP.RateLimitRequests = 120
	}
	if cfg.HTTP.RateLimitWindow == 0 {
		cfg.HTTP.RateLimitWindow = time.Minute
	}
	if cfg.Backend.BaseURL == "" {
		cfg.Backend.BaseURL = "http://localhost:5000"
	}
	if cfg.Backend.Timeout == 0 {
		cfg.Backend.Timeout = 15 * time.Second
	}
	if cfg.Backend.MaxRetries == 0 {
		cfg.Backend.MaxRetries = 2
	}
	if cfg.Backend.RetryBaseDelay == 0 {
		cfg.Backend.RetryBaseDelay = 200 * time.Millisecond
	}
	if cfg.Backend.RateLimitRPS == 0 {
		cfg.Backend.RateLimitRPS = 20
	}
	if cfg.Backend.RateLimitBurst == 0 {
		cfg.Backend.RateLimitBurst = 10
	}
	if cfg.Backend.MaxResponse == 0 {
		cfg.Backend.MaxResponse = 10 << 20
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = "sqlite"
	}
	if cfg.Storage.SQLitePath == "" {
		cfg.Storage.SQLitePath = "storefront.db"
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = "storefront:"
	}
	if cfg.Images.Mode == "" {
		cfg.Images.Mode = "url"
	}
	if cfg.Images.BaseURL == "" {
		cfg.Images.BaseURL = cfg.Backend.BaseURL
	}
	if cfg.Images.S3Region == "" {
		cfg.Images.S3Region = "us-east-1"
	}
	if cfg.Images.PresignExpiry == 0 {
		cfg.Images.PresignExpiry = 15 * time.Minute
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = cfg.App.Name
	}
	if cfg.Notify.Capacity == 0 {
		cfg.Notify.Capacity = 50
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("backend.base_url must be an absolute URL, got %q", c.Backend.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("backend.base_url scheme must be http or https, got %q", u.Scheme)
	}
	if c.Backend.MaxRetries < 0 {
		return fmt.Errorf("backend.max_retries cannot be negative")
	}
	if c.Backend.RateLimitBurst < 1 {
		return fmt.Errorf("backend.rate_limit_burst must be positive")
	}

	switch c.Storage.Driver {
	case "sqlite", "redis", "memory":
	case "postgres":
		if c.Storage.PostgresDSN == "" {
			return fmt.Errorf("storage.postgres_dsn is required when storage.driver is postgres")
		}
	default:
		return fmt.Errorf("storage.driver must be one of sqlite, postgres, redis, memory; got %q", c.Storage.Driver)
	}

	switch c.Images.Mode {
	case "url":
	case "s3":
		if c.Images.S3Bucket == "" {
			return fmt.Errorf("images.s3_bucket is required when images.mode is s3")
		}
		if c.Images.S3AccessKey == "" || c.Images.S3SecretKey == "" {
			return fmt.Errorf("images.s3_access_key and images.s3_secret_key are required when images.mode is s3")
		}
	default:
		return fmt.Errorf("images.mode must be url or s3; got %q", c.Images.Mode)
	}

	if c.App.Env == "production" && u.Scheme != "https" {
		return fmt.Errorf("backend.base_url must use https in production")
	}

	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}

	return nil
}
