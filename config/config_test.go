package config_test

import (
	"testing"

	"github.com/on-the-ground/impure_go/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.Config{
		LogLevel:        "info",
		AsyncBufferSize: 16,
		AsyncNumWorkers: 4,
		JournalWindow:   64,
		CacheSize:       1024,
	}, cfg)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("IMPURE_GO_LOG_LEVEL", "debug")
	t.Setenv("IMPURE_GO_ASYNC_NUM_WORKERS", "2")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 2, cfg.AsyncNumWorkers)
}

func TestParseEnv_Error(t *testing.T) {
	t.Setenv("IMPURE_GO_CACHE_SIZE", "not-an-int")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")
}
