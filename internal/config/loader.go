package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix         = "LSYS_"
	maxConfigFileSize = 1024 * 1024 // 1MB
)

// Load reads configuration with this precedence (highest first):
//  1. Environment variables (LSYS_DERIVE_MAX_GENERATIONS, LSYS_LOG_LEVEL, ...)
//  2. The YAML file at path, when path is non-empty
//  3. Defaults
//
// Defaults are a koanf layer, not a post-pass over zero values, so an
// explicit derive.max_generations: 0 reaches the session as "no limit".
//
// A non-empty path that does not exist is an error.
//
// # Environment Variable Mapping
//
// The prefix is stripped and the first underscore separates section from
// field, so field names keep their underscores:
//
//	LSYS_DERIVE_MAX_GENERATIONS -> derive.max_generations
//	LSYS_RENDER_SCALE_DECAY     -> render.scale_decay
func Load(path string) (*Config, error) {
	k := newKoanf()

	if path != "" {
		content, err := readConfigFile(path)
		if err != nil {
			return nil, err
		}
		// rawbytes avoids re-opening the file after the size check
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg, err := unmarshal(k)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// newKoanf returns a koanf instance holding only the defaults layer.
func newKoanf() *koanf.Koanf {
	k := koanf.New(".")
	for key, v := range defaults {
		// Set only fails on an empty key.
		_ = k.Set(key, v)
	}
	return k
}

func unmarshal(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// envKey maps LSYS_SECTION_FIELD_NAME to section.field_name.
func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	section, field, ok := strings.Cut(lower, "_")
	if !ok {
		return lower
	}
	return section + "." + field
}

func readConfigFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("config path %s is a directory", path)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file %s exceeds %d bytes", path, maxConfigFileSize)
	}

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return content, nil
}
