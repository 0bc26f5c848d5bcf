// Package config loads gridwatch settings from YAML.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/odvcencio/furry-grid/grid"
	"github.com/odvcencio/furry-grid/runtime"
)

// validate is shared by every Config. validator.Validate caches struct
// metadata and is safe for concurrent use.
var validate = validator.New(validator.WithRequiredStructEnabled())

// Config holds the harness settings.
type Config struct {
	// Rows and Columns size the grid.
	Rows    int `yaml:"rows" validate:"min=1,max=1000"`
	Columns int `yaml:"columns" validate:"min=1,max=1000"`

	// Seed fixes the random source. Zero draws a fresh seed.
	Seed uint64 `yaml:"seed"`

	// TickRate drives queue flushes under the tick policies.
	TickRate time.Duration `yaml:"tick_rate" validate:"gte=0"`

	// AutoRandomize posts RandomizeAll at this interval. Zero disables it.
	AutoRandomize time.Duration `yaml:"auto_randomize" validate:"gte=0"`

	FlushPolicy string `yaml:"flush_policy" validate:"oneof=message_and_tick message tick manual"`
	LogLevel    string `yaml:"log_level" validate:"oneof=debug info warn error"`

	// MetricsAddr serves Prometheus metrics when set, for example ":9090".
	MetricsAddr string `yaml:"metrics_addr" validate:"omitempty,hostname_port"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Rows:        grid.DefaultRows,
		Columns:     grid.DefaultColumns,
		TickRate:    50 * time.Millisecond,
		FlushPolicy: "message_and_tick",
		LogLevel:    "info",
	}
}

// Load reads path over the defaults. An empty path or a missing file
// yields the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c Config) Validate() error {
	c.FlushPolicy = strings.ToLower(c.FlushPolicy)
	c.LogLevel = strings.ToLower(c.LogLevel)
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// SlogLevel maps LogLevel to a slog level. Unknown names map to Info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Policy returns the runtime queue flush policy.
func (c Config) Policy() runtime.QueueFlushPolicy {
	policy, err := runtime.ParseFlushPolicy(c.FlushPolicy)
	if err != nil {
		return runtime.FlushOnMessageAndTick
	}
	return policy
}
