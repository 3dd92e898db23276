package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dataviz/internal/errors"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"PORT", "GIN_MODE", "LOG_LEVEL", "MAX_UPLOAD_MB", "SESSION_TTL", "SESSION_MAX", "FILTER_WORKERS", "PREVIEW_ROWS"} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.GinMode)
	assert.Equal(t, 50, cfg.Server.MaxUploadMB)
	assert.Equal(t, int64(50<<20), cfg.Server.MaxUploadBytes())
	assert.Equal(t, time.Hour, cfg.Session.TTL)
	assert.Equal(t, 64, cfg.Session.MaxSessions)
	assert.Equal(t, 1, cfg.Pipeline.FilterWorkers)
	assert.Equal(t, 20, cfg.Pipeline.PreviewRows)
	assert.Equal(t, "INFO", cfg.LogLevel)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("GIN_MODE", "release")
	t.Setenv("SESSION_TTL", "15m")
	t.Setenv("FILTER_WORKERS", "4")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.GinMode)
	assert.Equal(t, 15*time.Minute, cfg.Session.TTL)
	assert.Equal(t, 4, cfg.Pipeline.FilterWorkers)
	assert.Equal(t, "DEBUG", cfg.LogLevel)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("GIN_MODE", "chaos")
	t.Setenv("FILTER_WORKERS", "0")

	_, err := Load()
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
	assert.Contains(t, err.Error(), "GinMode")
	assert.Contains(t, err.Error(), "FilterWorkers")
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	os.Unsetenv("PREVIEW_ROWS")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PREVIEW_ROWS=5\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("PREVIEW_ROWS") })

	require.NoError(t, LoadDotEnv(path, filepath.Join(t.TempDir(), "missing.env")))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Pipeline.PreviewRows)
}
