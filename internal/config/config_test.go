package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lsys.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 12, cfg.Derive.MaxGenerations)
	assert.Equal(t, 1_000_000, cfg.Derive.MaxSymbols)
	assert.Equal(t, 0.75, cfg.Render.ScaleDecay)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
log:
  level: debug
  format: json
store:
  path: /tmp/lsys.db
derive:
  max_generations: 20
render:
  width: 640
  scale_decay: 0.5
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "/tmp/lsys.db", cfg.Store.Path)
	assert.Equal(t, 20, cfg.Derive.MaxGenerations)
	assert.Equal(t, 1_000_000, cfg.Derive.MaxSymbols, "unset fields keep defaults")
	assert.Equal(t, 640, cfg.Render.Width)
	assert.Equal(t, 1000, cfg.Render.Height)
	assert.Equal(t, 0.5, cfg.Render.ScaleDecay)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "derive:\n  max_generations: 20\n")
	t.Setenv("LSYS_DERIVE_MAX_GENERATIONS", "7")
	t.Setenv("LSYS_STORE_PATH", "env.db")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Derive.MaxGenerations)
	assert.Equal(t, "env.db", cfg.Store.Path)
}

func TestLoad_ZeroLimitsDisableQuota(t *testing.T) {
	path := writeConfig(t, "derive:\n  max_generations: 0\n")
	t.Setenv("LSYS_DERIVE_MAX_SYMBOLS", "0")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.Derive.MaxGenerations)
	assert.Equal(t, 0, cfg.Derive.MaxSymbols)
	assert.Equal(t, 1000, cfg.Render.Width, "other defaults survive")
}

func TestValidate_RenderSize(t *testing.T) {
	cfg := Default()
	cfg.Render.Width = 0
	assert.ErrorContains(t, cfg.Validate(), "width and height must be positive")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "open config file")
}

func TestLoad_TooLarge(t *testing.T) {
	path := writeConfig(t, "# "+strings.Repeat("x", maxConfigFileSize))
	_, err := Load(path)
	assert.ErrorContains(t, err, "exceeds")
}

func TestLoad_Invalid(t *testing.T) {
	path := writeConfig(t, "log:\n  format: xml\nderive:\n  max_symbols: -1\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.format")
	assert.Contains(t, err.Error(), "derive.max_symbols")
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "derive.max_generations", envKey("LSYS_DERIVE_MAX_GENERATIONS"))
	assert.Equal(t, "render.scale_decay", envKey("LSYS_RENDER_SCALE_DECAY"))
	assert.Equal(t, "log.level", envKey("LSYS_LOG_LEVEL"))
	assert.Equal(t, "verbose", envKey("LSYS_VERBOSE"))
}

func TestValidate_ScaleDecay(t *testing.T) {
	cfg := Default()
	cfg.Render.ScaleDecay = 1.5
	assert.ErrorContains(t, cfg.Validate(), "render.scale_decay")

	cfg.Render.ScaleDecay = 0
	assert.ErrorContains(t, cfg.Validate(), "render.scale_decay")

	cfg.Render.ScaleDecay = 1
	assert.NoError(t, cfg.Validate())
}
