// Package config loads server configuration from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates application configuration values.
type Config struct {
	HTTP      HTTPConfig
	Store     StoreConfig
	Auth      AuthConfig
	Feed      FeedConfig
	Reconcile ReconcileConfig
	Logging   LoggingConfig
}

// HTTPConfig governs HTTP server behaviour.
type HTTPConfig struct {
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	MetricsEnabled  bool
}

// StoreConfig configures the SQLite document store.
type StoreConfig struct {
	Path          string
	TxMaxAttempts int
}

// AuthConfig configures token issuance.
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// FeedConfig selects the change broker. An empty RedisAddr keeps change
// events in process.
type FeedConfig struct {
	RedisAddr string
}

// ReconcileConfig schedules the totals reconciler. An empty Schedule disables it.
type ReconcileConfig struct {
	Schedule string
}

// LoggingConfig controls structured logging settings.
type LoggingConfig struct {
	Level  string
	Format string // text|json
}

const (
	defaultPort            = 8080
	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 0 // live queries stream indefinitely
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultDBPath          = "./data/khatabook.db"
	defaultTxMaxAttempts   = 5
	defaultTokenTTL        = 24 * time.Hour
	defaultSchedule        = "@every 1h"
	defaultLoggingLevel    = "info"
	defaultLoggingFormat   = "text"

	// devJWTSecret is used when JWT_SECRET is unset. Tokens signed with it are
	// only fit for local development.
	devJWTSecret = "khatabook-dev-secret-change-me"
)

// Load reads configuration from environment variables, applying defaults.
// Values from a .env file in the working directory are loaded first and never
// override variables already set in the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Config{
		HTTP: HTTPConfig{
			MetricsEnabled: parseBoolWithDefault("METRICS_ENABLED", true),
		},
		Store: StoreConfig{
			Path: valueOrDefault("DB_PATH", defaultDBPath),
		},
		Auth: AuthConfig{
			JWTSecret: os.Getenv("JWT_SECRET"),
		},
		Feed: FeedConfig{
			RedisAddr: os.Getenv("REDIS_ADDR"),
		},
		Reconcile: ReconcileConfig{
			Schedule: valueOrDefault("RECONCILE_SCHEDULE", defaultSchedule),
		},
		Logging: LoggingConfig{
			Level:  valueOrDefault("LOG_LEVEL", defaultLoggingLevel),
			Format: valueOrDefault("LOG_FORMAT", defaultLoggingFormat),
		},
	}
	if cfg.Reconcile.Schedule == "off" {
		cfg.Reconcile.Schedule = ""
	}
	if cfg.Auth.JWTSecret == "" {
		slog.Warn("JWT_SECRET not set, using development secret")
		cfg.Auth.JWTSecret = devJWTSecret
	}

	var err error
	if cfg.HTTP.Port, err = parsePort("SERVER_PORT", defaultPort); err != nil {
		return Config{}, err
	}
	if cfg.HTTP.ReadTimeout, err = parseDuration("SERVER_READ_TIMEOUT", defaultReadTimeout); err != nil {
		return Config{}, err
	}
	if cfg.HTTP.WriteTimeout, err = parseDuration("SERVER_WRITE_TIMEOUT", defaultWriteTimeout); err != nil {
		return Config{}, err
	}
	if cfg.HTTP.IdleTimeout, err = parseDuration("SERVER_IDLE_TIMEOUT", defaultIdleTimeout); err != nil {
		return Config{}, err
	}
	if cfg.HTTP.ShutdownTimeout, err = parseDuration("SERVER_SHUTDOWN_TIMEOUT", defaultShutdownTimeout); err != nil {
		return Config{}, err
	}
	if cfg.Auth.TokenTTL, err = parseDuration("JWT_TTL", defaultTokenTTL); err != nil {
		return Config{}, err
	}
	if cfg.Store.TxMaxAttempts, err = parsePositiveInt("STORE_TX_MAX_ATTEMPTS", defaultTxMaxAttempts); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func valueOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBoolWithDefault(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		val, err := strconv.ParseBool(v)
		if err != nil {
			return fallback
		}
		return val
	}
	return fallback
}

func parseDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s: %s is negative", key, v)
	}
	return d, nil
}

func parsePositiveInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, v, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %d", key, n)
	}
	return n, nil
}

func parsePort(key string, fallback int) (int, error) {
	if v := os.Getenv(key); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s value %q: %w", key, v, err)
		}
		if port <= 0 || port > 65535 {
			return 0, fmt.Errorf("port %d is out of range", port)
		}
		return port, nil
	}
	return fallback, nil
}
