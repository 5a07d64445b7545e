// Package config loads qcore's YAML configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the contents of a qcore config file.
type Config struct {
	// Database is the SQLite file path. ":memory:" is allowed.
	Database string `yaml:"database"`

	// BusyTimeoutMS is the SQLite lock wait in milliseconds. Zero, set or
	// not, means the default of 5000; the store never runs without a wait.
	BusyTimeoutMS int `yaml:"busy_timeout_ms"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// LogFormat is text or json.
	LogFormat string `yaml:"log_format"`

	// MaxSortRows bounds how many rows a Sort may buffer. Zero means no
	// bound.
	MaxSortRows int `yaml:"max_sort_rows"`

	// MaxResultRows stops a query that returns more rows. Zero means no
	// limit.
	MaxResultRows int `yaml:"max_result_rows"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Database:      "./qcore.db",
		BusyTimeoutMS: 5000,
		LogLevel:      "info",
		LogFormat:     "text",
		MaxSortRows:   100000,
	}
}

// Load reads path and fills unset fields from Default. Unknown keys are
// rejected so typos surface instead of being ignored.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML config bytes over Default, so keys the file leaves
// out keep their default. Empty input yields Default.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	def := Default()
	if c.Database == "" {
		c.Database = def.Database
	}
	if c.BusyTimeoutMS == 0 {
		c.BusyTimeoutMS = def.BusyTimeoutMS
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = def.LogFormat
	}
}

// Level returns LogLevel as a slog level. Unknown values map to info.
func (c Config) Level() slog.Level {
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

// Validate reports every invalid field, joined into one error.
func (c Config) Validate() error {
	var errs []error
	if c.BusyTimeoutMS < 0 {
		errs = append(errs, fmt.Errorf("busy_timeout_ms must not be negative, got %d", c.BusyTimeoutMS))
	}
	if c.MaxSortRows < 0 {
		errs = append(errs, fmt.Errorf("max_sort_rows must not be negative, got %d", c.MaxSortRows))
	}
	if c.MaxResultRows < 0 {
		errs = append(errs, fmt.Errorf("max_result_rows must not be negative, got %d", c.MaxResultRows))
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log_level must be debug, info, warn or error, got %q", c.LogLevel))
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log_format must be text or json, got %q", c.LogFormat))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
