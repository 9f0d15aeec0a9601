package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	EnvDev   = "dev"
	EnvProd  = "prod"
	EnvLocal = "local"
)

// Store backends.
const (
	BackendREST     = "rest"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// Config is read from the environment once at startup.
type Config struct {
	Env      string `env:"RISKBOARD_ENV" env-default:"prod" env-description:"Runtime environment: local, dev or prod"`
	LogLevel string `env:"RISKBOARD_LOG_LEVEL" env-default:"info" env-description:"Minimum log level (trace, debug, info, warn, error)"`
	LogFile  string `env:"RISKBOARD_LOG_FILE" env-description:"Write logs to this file instead of stderr; the TUI logs nowhere else"`
	Backend  string `env:"RISKBOARD_BACKEND" env-default:"rest" env-description:"Task store backend: rest, postgres or sqlite"`

	Store    StoreConfig
	Postgres PostgresConfig
	SQLite   SQLiteConfig
}

// StoreConfig addresses the hosted REST API.
type StoreConfig struct {
	URL     string        `env:"RISKBOARD_STORE_URL" env-description:"Base URL of the hosted store (rest backend)"`
	Key     string        `env:"RISKBOARD_STORE_KEY" env-description:"Access key sent as apikey and bearer token (rest backend)"`
	Table   string        `env:"RISKBOARD_STORE_TABLE" env-default:"tasks" env-description:"Name of the task table"`
	Timeout time.Duration `env:"RISKBOARD_STORE_TIMEOUT" env-default:"15s" env-description:"Per-request timeout for store calls"`
}

type PostgresConfig struct {
	URL string `env:"RISKBOARD_DATABASE_URL" env-description:"Postgres connection URL (postgres backend)"`
}

type SQLiteConfig struct {
	Path string `env:"RISKBOARD_DB" env-default:"~/.riskboard/riskboard.db" env-description:"SQLite database path (sqlite backend)"`
}

// Validate checks that the selected backend has everything it needs.
func (c *Config) Validate() error {
	var errs []error

	switch c.Env {
	case EnvDev, EnvProd, EnvLocal:
	default:
		errs = append(errs, fmt.Errorf("unknown RISKBOARD_ENV %q (want local, dev or prod)", c.Env))
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		errs = append(errs, fmt.Errorf("invalid RISKBOARD_LOG_LEVEL %q", c.LogLevel))
	}
	if strings.TrimSpace(c.Store.Table) == "" {
		errs = append(errs, errors.New("RISKBOARD_STORE_TABLE must not be empty"))
	}
	if c.Store.Timeout < 0 {
		errs = append(errs, errors.New("RISKBOARD_STORE_TIMEOUT must not be negative"))
	}

	switch c.Backend {
	case BackendREST:
		if c.Store.URL == "" || c.Store.Key == "" {
			errs = append(errs, errors.New("RISKBOARD_STORE_URL and RISKBOARD_STORE_KEY are required for the rest backend"))
		}
	case BackendPostgres:
		if c.Postgres.URL == "" {
			errs = append(errs, errors.New("RISKBOARD_DATABASE_URL is required for the postgres backend"))
		}
	case BackendSQLite:
		if c.SQLite.Path == "" {
			errs = append(errs, errors.New("RISKBOARD_DB must not be empty for the sqlite backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown RISKBOARD_BACKEND %q (want rest, postgres or sqlite)", c.Backend))
	}

	return errors.Join(errs...)
}

// expandHome replaces a leading "~" with the user's home directory.
func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
