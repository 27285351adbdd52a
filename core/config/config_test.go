package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "sqlserver", cfg.Source.Driver)
	assert.Equal(t, "sqlserver", cfg.Destination.Driver)
	assert.Equal(t, 30, cfg.Destination.TimeoutSeconds)
	assert.False(t, cfg.Sync.DryRun)
	assert.False(t, cfg.Sync.ContinueOnError)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "epos-sync:run", cfg.Lock.Key)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("SOURCE_DRIVER", "mysql")
	t.Setenv("SOURCE_PORT", "3307")
	t.Setenv("DESTINATION_DSN", "sqlserver://web:secret@db:1433?database=nop")
	t.Setenv("SYNC_CONTINUE_ON_ERROR", "true")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "mysql", cfg.Source.Driver)
	assert.Equal(t, 3307, cfg.Source.Port)
	assert.Equal(t, "sqlserver://web:secret@db:1433?database=nop", cfg.Destination.DSN)
	assert.True(t, cfg.Sync.ContinueOnError)
}

func TestLoadConfig_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	content := "LOG_LEVEL=debug\nSYNC_DRY_RUN=true\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600))
	t.Cleanup(func() {
		_ = os.Unsetenv("LOG_LEVEL")
		_ = os.Unsetenv("SYNC_DRY_RUN")
	})

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Sync.DryRun)
}

func TestScrubEnv(t *testing.T) {
	t.Setenv("SOURCE_DSN", "sqlserver://epos")
	t.Setenv("DESTINATION_PASSWORD", "hunter2")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	ScrubEnv()

	_, ok := os.LookupEnv("SOURCE_DSN")
	assert.False(t, ok)
	_, ok = os.LookupEnv("DESTINATION_PASSWORD")
	assert.False(t, ok)
	assert.Equal(t, "warn", os.Getenv("LOG_LEVEL"), "non-secret keys are left alone")

	// The loaded config keeps the values
	assert.Equal(t, "sqlserver://epos", cfg.Source.DSN)
	assert.Equal(t, "hunter2", cfg.Destination.Password)
}
