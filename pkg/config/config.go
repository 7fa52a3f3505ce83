// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all runtime configuration for the ledger service.
type Config struct {
	// AppEnv selects development conveniences (pretty logs, gin debug mode).
	AppEnv string `env:"APP_ENV" envDefault:"development"`

	// Port the HTTP server listens on.
	Port string `env:"APP_PORT" envDefault:"8080"`

	// LogLevel: debug, info, warn, error.
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// DatabaseURL is the PostgreSQL DSN.
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrateOnStart runs embedded schema migrations during boot.
	MigrateOnStart bool `env:"MIGRATE_ON_START" envDefault:"true"`

	// Pool sizing.
	DBMaxConns int32 `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns int32 `env:"DB_MIN_CONNS" envDefault:"5"`

	// HTTP timeouts.
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
	IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// Load parses configuration from the process environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// IsDevelopment reports whether the service runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}
