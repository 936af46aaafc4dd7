package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWritesDefaultConfigWhenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg, resolved, err := Load(nil, path)
	require.NoError(t, err)

	assert.Equal(t, path, resolved)
	assert.Equal(t, Default(), cfg)

	_, err = os.Stat(path)
	assert.NoError(t, err, "expected default config written to disk")
}

func TestLoadAppliesFileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	contents := []byte("addr: \":9090\"\nlog_level: debug\nread_header_timeout: 7s\n")
	require.NoError(t, os.WriteFile(path, contents, 0o600))

	cfg, _, err := Load(nil, path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 7*time.Second, cfg.ReadHeaderTimeout)
	// Untouched keys keep their defaults.
	assert.Equal(t, Default().DatabasePath, cfg.DatabasePath)
	assert.Equal(t, Default().HistorySeedLimit, cfg.HistorySeedLimit)
}

func TestUpdateFromSkipsZeroValues(t *testing.T) {
	cfg := Default()

	cfg.UpdateFrom(Config{Addr: ":7070", HistorySeedLimit: 25})

	assert.Equal(t, ":7070", cfg.Addr)
	assert.Equal(t, 25, cfg.HistorySeedLimit)
	assert.Equal(t, Default().LogLevel, cfg.LogLevel)
	assert.Equal(t, Default().AllowedOrigins, cfg.AllowedOrigins)
}
