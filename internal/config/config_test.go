package config

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Empty(t, cfg.GameDir)
	assert.True(t, cfg.Cache.Enabled)
	assert.NotEmpty(t, cfg.Cache.Path)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("NANDSCAN_GAME_DIR", "/tmp/dls")
	t.Setenv("NANDSCAN_CACHE_ENABLED", "false")
	t.Setenv("NANDSCAN_LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "/tmp/dls", cfg.GameDir)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestResolveGameDir(t *testing.T) {
	cfg := Default()

	// Platform default when nothing is set.
	assert.Equal(t, DefaultGameDir(), cfg.ResolveGameDir(""))

	// Configured value beats the default.
	cfg.GameDir = "/configured"
	assert.Equal(t, "/configured", cfg.ResolveGameDir(""))

	// Explicit override beats everything.
	assert.Equal(t, "/override", cfg.ResolveGameDir("/override"))
}

func TestDefaultGameDir(t *testing.T) {
	dir := DefaultGameDir()
	assert.True(t, strings.HasSuffix(dir, filepath.Join("SebastianLague", "Digital-Logic-Sim")))
}

func TestExpandPath(t *testing.T) {
	assert.Equal(t, "", expandPath(""))
	assert.Equal(t, "/abs/path", expandPath("/abs/path"))
	assert.False(t, strings.HasPrefix(expandPath("~/saves"), "~"))
}
