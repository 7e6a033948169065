package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.Addr)
	require.Equal(t, 4, cfg.BatchWorkers)
	require.Equal(t, int64(1<<20), cfg.MaxBodyBytes)
	require.Equal(t, 1024, cfg.MaxFields)
	require.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	require.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("RENSA_ADDR", "127.0.0.1:9999")
	t.Setenv("RENSA_LOG_LEVEL", "debug")
	t.Setenv("RENSA_BATCH_WORKERS", "16")
	t.Setenv("RENSA_SHUTDOWN_TIMEOUT", "250ms")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:9999", cfg.Addr)
	require.Equal(t, 16, cfg.BatchWorkers)
	require.Equal(t, 250*time.Millisecond, cfg.ShutdownTimeout)
	require.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Run("unparsable", func(t *testing.T) {
		t.Setenv("RENSA_BATCH_WORKERS", "many")
		_, err := Load()
		require.Error(t, err)
		require.Contains(t, err.Error(), "parse env")
	})
	t.Run("zero workers", func(t *testing.T) {
		t.Setenv("RENSA_BATCH_WORKERS", "0")
		_, err := Load()
		require.ErrorIs(t, err, ErrInvalidConfig)
	})
	t.Run("log level", func(t *testing.T) {
		t.Setenv("RENSA_LOG_LEVEL", "loud")
		_, err := Load()
		require.ErrorIs(t, err, ErrInvalidConfig)
	})
}
