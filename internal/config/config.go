// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type HTTPConfig struct {
	Port           int           `yaml:"port"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type DatabaseConfig struct {
	URL      string `yaml:"url"`
	PoolSize int    `yaml:"pool_size"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type AuthConfig struct {
	JWTSecret   string        `yaml:"jwt_secret"`
	TokenTTL    time.Duration `yaml:"token_ttl"`
	AdminAPIKey string        `yaml:"admin_api_key"`
}

type RedemptionConfig struct {
	RateLimit       int           `yaml:"rate_limit"`        // attempts per supplier per window
	RateLimitWindow time.Duration `yaml:"rate_limit_window"` //
	LockTTL         time.Duration `yaml:"lock_ttl"`          // redis pre-lock TTL
}

type WorkerConfig struct {
	OfferExpiryInterval time.Duration `yaml:"offer_expiry_interval"`
	CodeRetireInterval  time.Duration `yaml:"code_retire_interval"`
	InvoiceInterval     time.Duration `yaml:"invoice_interval"`
	InvoicePoolSize     int           `yaml:"invoice_pool_size"`
}

type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Log        LogConfig        `yaml:"log"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Auth       AuthConfig       `yaml:"auth"`
	Redemption RedemptionConfig `yaml:"redemption"`
	Worker     WorkerConfig     `yaml:"worker"`

	Runtime RuntimeConfig `yaml:"-"`
}

// LoadConfig reads and validates the YAML config file.
func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// defaults
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 8080
	}
	if cfg.HTTP.RequestTimeout <= 0 {
		cfg.HTTP.RequestTimeout = 15 * time.Second
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Database.PoolSize <= 0 {
		cfg.Database.PoolSize = 10
	}
	cfg.Redis.TTL = normalizeTTL(cfg.Redis.TTL)
	if cfg.Auth.TokenTTL <= 0 {
		cfg.Auth.TokenTTL = 30 * time.Minute
	}
	if cfg.Redemption.RateLimit <= 0 {
		cfg.Redemption.RateLimit = 30
	}
	if cfg.Redemption.RateLimitWindow <= 0 {
		cfg.Redemption.RateLimitWindow = time.Minute
	}
	if cfg.Redemption.LockTTL <= 0 {
		cfg.Redemption.LockTTL = 10 * time.Second
	}
	if cfg.Worker.OfferExpiryInterval <= 0 {
		cfg.Worker.OfferExpiryInterval = 10 * time.Minute
	}
	if cfg.Worker.CodeRetireInterval <= 0 {
		cfg.Worker.CodeRetireInterval = 15 * time.Minute
	}
	if cfg.Worker.InvoiceInterval <= 0 {
		cfg.Worker.InvoiceInterval = 24 * time.Hour
	}
	if cfg.Worker.InvoicePoolSize <= 0 {
		cfg.Worker.InvoicePoolSize = 4
	}

	// Minimal validation
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required")
	}
	if cfg.Auth.JWTSecret == "" {
		return nil, errors.New("auth.jwt_secret is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func normalizeTTL(d time.Duration) time.Duration {
	if d <= 0 {
		return time.Hour
	}
	return d
}
