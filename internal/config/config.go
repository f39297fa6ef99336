package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"number-cruncher/internal/facts"
)

const (
	DefaultCapacity    = 3
	DefaultHTTPTimeout = 10 * time.Second
	DefaultListenAddr  = ":8008"
	// DefaultDatabaseDSN keeps the audit mirror in memory so nothing
	// outlives the process.
	DefaultDatabaseDSN = ":memory:"
)

// Config holds everything the cruncher service reads at startup.
type Config struct {
	Endpoint     string
	Capacity     int
	HTTPTimeout  time.Duration
	ListenAddr   string
	DatabaseDSN  string
	Schedule     string // cron spec; empty disables scheduled crunching
	JWT          JWTConfig
	OperatorHash string // bcrypt hash; empty accepts any password
}

// JWTConfig configures token issuing and validation.
type JWTConfig struct {
	Secret   string
	Issuer   string
	Audience string
	TTL      time.Duration
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Endpoint:    facts.DefaultEndpoint,
		Capacity:    DefaultCapacity,
		HTTPTimeout: DefaultHTTPTimeout,
		ListenAddr:  DefaultListenAddr,
		DatabaseDSN: DefaultDatabaseDSN,
		JWT: JWTConfig{
			Secret:   "development-insecure-secret-change-me",
			Issuer:   "number-cruncher",
			Audience: "number-cruncher-clients",
			TTL:      24 * time.Hour,
		},
	}
}

// Load returns Default overridden by environment variables.
func Load() (Config, error) {
	cfg := Default()
	cfg.Endpoint = getEnv("CRUNCHER_ENDPOINT", cfg.Endpoint)
	cfg.ListenAddr = getEnv("CRUNCHER_LISTEN_ADDR", cfg.ListenAddr)
	cfg.DatabaseDSN = getEnv("CRUNCHER_DB_DSN", cfg.DatabaseDSN)
	cfg.Schedule = getEnv("CRUNCHER_SCHEDULE", cfg.Schedule)
	cfg.OperatorHash = getEnv("CRUNCHER_OPERATOR_PASSWORD_HASH", cfg.OperatorHash)
	cfg.JWT.Secret = getEnv("JWT_SECRET", cfg.JWT.Secret)
	cfg.JWT.Issuer = getEnv("JWT_ISSUER", cfg.JWT.Issuer)
	cfg.JWT.Audience = getEnv("JWT_AUDIENCE", cfg.JWT.Audience)

	if v := os.Getenv("CRUNCHER_CAPACITY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("CRUNCHER_CAPACITY: %w", err)
		}
		cfg.Capacity = n
	}
	if v := os.Getenv("CRUNCHER_HTTP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("CRUNCHER_HTTP_TIMEOUT: %w", err)
		}
		cfg.HTTPTimeout = d
	}

	return cfg, cfg.Validate()
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Capacity < 1 {
		return errors.New("capacity must be at least 1")
	}
	if c.Endpoint == "" {
		return errors.New("endpoint is required")
	}
	if c.HTTPTimeout < 0 {
		return errors.New("http timeout must not be negative")
	}
	if c.JWT.Secret == "" {
		return errors.New("jwt secret is required")
	}
	return nil
}

// Facts returns the requester configuration.
func (c Config) Facts() facts.Config {
	return facts.Config{Endpoint: c.Endpoint, Timeout: c.HTTPTimeout}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
