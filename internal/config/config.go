package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Supported store drivers
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds all application configuration
type Config struct {
	Env             string        `envconfig:"APP_ENV" default:"development"`
	Port            int           `envconfig:"APP_PORT" default:"8080"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	Store           StoreConfig
	Redis           RedisConfig
	Limiter         RateLimiterConfig
}

// StoreConfig selects and configures the question store
type StoreConfig struct {
	Driver      string `envconfig:"STORE_DRIVER" default:"postgres"`
	DatabaseURL string `envconfig:"DATABASE_URL"`
	MaxConns    int32  `envconfig:"DB_MAX_CONNS" default:"20"`
}

// RedisConfig configures the optional redis client. An empty address
// disables the category cache and the rate limiter.
type RedisConfig struct {
	Addr        string        `envconfig:"REDIS_ADDR"`
	Password    string        `envconfig:"REDIS_PASSWORD"`
	DB          int           `envconfig:"REDIS_DB" default:"0"`
	CategoryTTL time.Duration `envconfig:"CATEGORY_CACHE_TTL" default:"5m"`
}

// rate limiting configuration
type RateLimiterConfig struct {
	Enabled  bool          `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
	Requests int           `envconfig:"RATE_LIMIT_REQUESTS" default:"120"`
	Window   time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
		"test":        true,
	}
	if !validEnvs[c.Env] {
		return fmt.Errorf("invalid environment: %s (must be one of: development, staging, production, test)", c.Env)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d (must be between 1 and 65535)", c.Port)
	}

	switch c.Store.Driver {
	case DriverPostgres:
		if c.Store.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the %s store", DriverPostgres)
		}
		if c.Store.MaxConns < 1 {
			return fmt.Errorf("DB_MAX_CONNS must be at least 1")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("invalid store driver: %s (must be one of: %s, %s)", c.Store.Driver, DriverPostgres, DriverMemory)
	}

	if c.Redis.CategoryTTL <= 0 {
		return fmt.Errorf("CATEGORY_CACHE_TTL must be positive")
	}
	if c.Limiter.Requests < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1")
	}
	if c.Limiter.Window <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}

	return nil
}

// IsDevelopment reports whether the app runs locally or under test
func (c *Config) IsDevelopment() bool {
	return c.Env == "development" || c.Env == "test"
}

// RedisEnabled reports whether a redis address was configured
func (c *Config) RedisEnabled() bool {
	return c.Redis.Addr != ""
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *Config) String() string {
	return fmt.Sprintf("Config{Env=%s, Port=%d, Store.Driver=%s, Store.MaxConns=%d, Redis.Enabled=%t, "+
		"Redis.CategoryTTL=%s, Limiter.Enabled=%t, Limiter.Requests=%d, Limiter.Window=%s}",
		c.Env, c.Port, c.Store.Driver, c.Store.MaxConns, c.RedisEnabled(),
		c.Redis.CategoryTTL, c.Limiter.Enabled, c.Limiter.Requests, c.Limiter.Window)
}
