package config

import (
	"fmt"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

type Reader interface {
	Read() (*Config, error)
}

type EnvReader struct{}

func NewEnvReader() EnvReader {
	return EnvReader{}
}

// Read loads the configuration from the environment and validates it.
func (EnvReader) Read() (*Config, error) {
	cfg := new(Config)
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}
	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))
	if cfg.Backend == "" {
		cfg.Backend = BackendREST
	}
	cfg.Env = strings.ToLower(strings.TrimSpace(cfg.Env))

	path, err := expandHome(cfg.SQLite.Path)
	if err != nil {
		return nil, err
	}
	cfg.SQLite.Path = path

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Describe lists every supported environment variable with its default.
func Describe() (string, error) {
	return cleanenv.GetDescription(new(Config), nil)
}
