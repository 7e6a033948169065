// Package config loads the field lab server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the server settings. Flags in cmd/server default to these values.
type Config struct {
	Addr            string        `env:"RENSA_ADDR"             envDefault:":8080"`
	LogLevel        string        `env:"RENSA_LOG_LEVEL"        envDefault:"info"`
	BatchWorkers    int           `env:"RENSA_BATCH_WORKERS"    envDefault:"4"`
	MaxBodyBytes    int64         `env:"RENSA_MAX_BODY_BYTES"   envDefault:"1048576"`
	MaxFields       int           `env:"RENSA_MAX_FIELDS"       envDefault:"1024"`
	ShutdownTimeout time.Duration `env:"RENSA_SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: empty listen address", ErrInvalidConfig)
	}
	if c.BatchWorkers < 1 {
		return fmt.Errorf("%w: batch workers must be positive, got %d", ErrInvalidConfig, c.BatchWorkers)
	}
	if c.MaxBodyBytes < 1 {
		return fmt.Errorf("%w: max body bytes must be positive, got %d", ErrInvalidConfig, c.MaxBodyBytes)
	}
	if c.MaxFields < 1 {
		return fmt.Errorf("%w: max fields must be positive, got %d", ErrInvalidConfig, c.MaxFields)
	}
	if _, ok := parseLevel(c.LogLevel); !ok {
		return fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, c.LogLevel)
	}
	return nil
}

// SlogLevel maps LogLevel to a slog level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	lvl, _ := parseLevel(c.LogLevel)
	return lvl
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "", "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}
