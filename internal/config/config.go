// Package config loads lsys settings from defaults, an optional YAML file,
// and LSYS_ environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/lsys/internal/logging"
)

// Config holds every tunable setting.
type Config struct {
	Log    LogConfig    `koanf:"log"`
	Store  StoreConfig  `koanf:"store"`
	Derive DeriveConfig `koanf:"derive"`
	Render RenderConfig `koanf:"render"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `koanf:"level"`  // debug, info, warn, error
	Format string `koanf:"format"` // text or json
}

// StoreConfig locates the derivation log.
// An empty path disables persistence unless a command asks for it.
type StoreConfig struct {
	Path string `koanf:"path"`
}

// DeriveConfig bounds derivations.
type DeriveConfig struct {
	MaxGenerations int `koanf:"max_generations"`
	MaxSymbols     int `koanf:"max_symbols"`
}

// RenderConfig sets SVG output.
type RenderConfig struct {
	Width      int     `koanf:"width"`
	Height     int     `koanf:"height"`
	LineWidth  float64 `koanf:"line_width"`
	ScaleDecay float64 `koanf:"scale_decay"` // Per-generation length multiplier
}

// defaults is the lowest configuration layer. Keys use koanf's dotted
// paths so a file or environment variable can override each one, including
// setting a derive limit to 0 (no limit).
var defaults = map[string]any{
	"log.level":              "info",
	"log.format":             "text",
	"derive.max_generations": 12,
	"derive.max_symbols":     1_000_000,
	"render.width":           1000,
	"render.height":          1000,
	"render.line_width":      5.0,
	"render.scale_decay":     0.75,
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	cfg, err := unmarshal(newKoanf())
	if err != nil {
		panic(fmt.Sprintf("config: bad defaults: %v", err))
	}
	return cfg
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("log.format: must be text or json, got %q", c.Log.Format))
	}
	if c.Derive.MaxGenerations < 0 {
		errs = append(errs, fmt.Errorf("derive.max_generations: must not be negative, got %d", c.Derive.MaxGenerations))
	}
	if c.Derive.MaxSymbols < 0 {
		errs = append(errs, fmt.Errorf("derive.max_symbols: must not be negative, got %d", c.Derive.MaxSymbols))
	}
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		errs = append(errs, fmt.Errorf("render: width and height must be positive, got %dx%d", c.Render.Width, c.Render.Height))
	}
	if c.Render.LineWidth <= 0 {
		errs = append(errs, fmt.Errorf("render.line_width: must be positive, got %g", c.Render.LineWidth))
	}
	if c.Render.ScaleDecay <= 0 || c.Render.ScaleDecay > 1 {
		errs = append(errs, fmt.Errorf("render.scale_decay: must be in (0, 1], got %g", c.Render.ScaleDecay))
	}

	return errors.Join(errs...)
}

// SlogLevel returns the parsed log level, falling back to info.
func (c *Config) SlogLevel() slog.Level {
	level, err := logging.ParseLevel(c.Log.Level)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}
