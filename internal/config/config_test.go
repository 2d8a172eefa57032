package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()
	require.Equal(t, ":8000", cfg.Addr)
	require.Equal(t, time.Duration(0), cfg.DefaultTTL)
	require.Equal(t, time.Second, cfg.ReaperMaxInterval)
	require.Equal(t, "admin", cfg.AdminUser)
	require.False(t, cfg.AuthRequired())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("MICROKV_ADDR", ":9999")
	t.Setenv("MICROKV_DEFAULT_TTL_SECONDS", "300")
	t.Setenv("MICROKV_REAPER_MAX_INTERVAL", "250ms")
	t.Setenv("MICROKV_AUTH_SECRET", "s3cret")

	cfg := Load()
	require.Equal(t, ":9999", cfg.Addr)
	require.Equal(t, 300*time.Second, cfg.DefaultTTL)
	require.Equal(t, 250*time.Millisecond, cfg.ReaperMaxInterval)
	require.True(t, cfg.AuthRequired())
}

func TestLoad_IgnoresMalformedValues(t *testing.T) {
	t.Setenv("MICROKV_DEFAULT_TTL_SECONDS", "soon")
	t.Setenv("MICROKV_REAPER_MAX_INTERVAL", "-5s")

	cfg := Load()
	require.Equal(t, time.Duration(0), cfg.DefaultTTL)
	require.Equal(t, time.Second, cfg.ReaperMaxInterval)
}
