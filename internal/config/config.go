package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
)

const (
	CacheRedis  = "redis"
	CacheMemory = "memory"
)

type Config struct {
	APIPort   string `env:"API_SERVICE_PORT" envDefault:":8080"`
	AppDomain string `env:"SERVER_ADDRESS" envDefault:"http://localhost:8080"`

	DBURL        string `env:"DB_URL" envDefault:"file:shortener.db"`
	GormLogLevel string `env:"GORM_LOG_LEVEL" envDefault:"warn"`

	CacheBackend  string `env:"CACHE_BACKEND" envDefault:"redis"`
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	SecretKey                string `env:"SECRET_KEY"`
	AccessTokenExpireMinutes int    `env:"ACCESS_TOKEN_EXPIRE_MINUTES" envDefault:"30"`
	BcryptCost               int    `env:"BCRYPT_COST" envDefault:"10"`

	ClicksExpireSeconds    int `env:"CLICKS_EXPIRE_SECONDS" envDefault:"86400"`
	ShortCodeExpireSeconds int `env:"SHORTCODE_EXPIRE_SECONDS" envDefault:"3600"`

	ReconcileIntervalSeconds int `env:"RECONCILE_INTERVAL_SECONDS" envDefault:"60"`
	ReconcileLockSeconds     int `env:"RECONCILE_LOCK_SECONDS" envDefault:"300"`
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		slog.Warn(".env file not found, relying on env vars", "err", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.SecretKey == "" {
		errs = append(errs, errors.New("SECRET_KEY is required"))
	}
	if c.CacheBackend != CacheRedis && c.CacheBackend != CacheMemory {
		errs = append(errs, fmt.Errorf("CACHE_BACKEND must be %q or %q, got %q", CacheRedis, CacheMemory, c.CacheBackend))
	}
	if c.AccessTokenExpireMinutes <= 0 {
		errs = append(errs, errors.New("ACCESS_TOKEN_EXPIRE_MINUTES must be positive"))
	}
	if c.ShortCodeExpireSeconds <= 0 || c.ClicksExpireSeconds <= 0 {
		errs = append(errs, errors.New("cache TTLs must be positive"))
	}
	// A counter that outlives its redirect entry keeps unsynced clicks
	// reachable from the miss path.
	if c.ClicksExpireSeconds < c.ShortCodeExpireSeconds {
		errs = append(errs, errors.New("CLICKS_EXPIRE_SECONDS must be >= SHORTCODE_EXPIRE_SECONDS"))
	}
	if c.ReconcileIntervalSeconds <= 0 {
		errs = append(errs, errors.New("RECONCILE_INTERVAL_SECONDS must be positive"))
	}
	// A lock without expiry would outlive a crashed run forever.
	if c.ReconcileLockSeconds <= 0 || c.ReconcileLockSeconds <= c.ReconcileIntervalSeconds {
		errs = append(errs, errors.New("RECONCILE_LOCK_SECONDS must be positive and greater than RECONCILE_INTERVAL_SECONDS"))
	}
	return errors.Join(errs...)
}

func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenExpireMinutes) * time.Minute
}

func (c *Config) ClicksTTL() time.Duration {
	return time.Duration(c.ClicksExpireSeconds) * time.Second
}

func (c *Config) ShortCodeTTL() time.Duration {
	return time.Duration(c.ShortCodeExpireSeconds) * time.Second
}

func (c *Config) ReconcileInterval() time.Duration {
	return time.Duration(c.ReconcileIntervalSeconds) * time.Second
}

func (c *Config) ReconcileLockTTL() time.Duration {
	return time.Duration(c.ReconcileLockSeconds) * time.Second
}
