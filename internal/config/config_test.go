package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:9000", cfg.HTTPAddr)
	require.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	require.False(t, cfg.DropAllTables)
	require.Equal(t, 12, cfg.BcryptCost)
	require.Equal(t, "postgres", cfg.Database.Driver)
	require.Equal(t, 5, cfg.Database.MaxConns)
	require.Equal(t, 168*time.Hour, cfg.Log.MaxAge)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":8080")
	t.Setenv("DROP_ALL_TABLES", "true")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/ads")
	t.Setenv("DATABASE_DRIVER", "pgx")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.HTTPAddr)
	require.True(t, cfg.DropAllTables)
	require.Equal(t, "postgres://u:p@db:5432/ads", cfg.Database.DSN)
	require.Equal(t, "pgx", cfg.Database.Driver)
	require.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadRejectsBadBool(t *testing.T) {
	t.Setenv("DROP_ALL_TABLES", "Off-ish")
	_, err := Load()
	require.Error(t, err)
}
