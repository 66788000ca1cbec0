// Package config loads the server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/mesa-rpg/api/internal/database"
	"github.com/mesa-rpg/api/internal/redis"
)

// Config is the complete server configuration.
type Config struct {
	Port           string          `env:"PORT" envDefault:"3000"`
	RequestTimeout time.Duration   `env:"REQUEST_TIMEOUT" envDefault:"15s"`
	Database       database.Config `envPrefix:"DB_"`
	Redis          redis.Config    `envPrefix:"REDIS_"`
}

// Load reads an optional .env file from the working directory and then
// parses the environment. Variables already set win over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return Parse()
}

// Parse reads the configuration from environment variables only.
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case database.DriverPostgres, database.DriverSQLite:
	default:
		return fmt.Errorf("DB_DRIVER must be %q or %q, got %q", database.DriverPostgres, database.DriverSQLite, c.Database.Driver)
	}
	if c.Database.TxRetries < 0 {
		return fmt.Errorf("DB_TX_RETRIES must not be negative")
	}
	return nil
}
