package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds process configuration, sourced from environment variables.
type Config struct {
	// Addr is the listen address for the HTTP server.
	Addr string

	// DefaultTTL is applied when a write carries no ttl parameter.
	// Zero means entries without a ttl never expire.
	DefaultTTL time.Duration

	// ReaperMaxInterval bounds how long the reaper sleeps between sweeps.
	ReaperMaxInterval time.Duration

	// AuthSecret enables bearer-token auth on mutating requests when non-empty.
	AuthSecret string

	// AdminUser and AdminPasswordHash (bcrypt) are the credentials accepted by
	// the token endpoint.
	AdminUser         string
	AdminPasswordHash string
}

// Load reads configuration from the environment, falling back to defaults.
func Load() Config {
	return Config{
		Addr:              getEnv("MICROKV_ADDR", ":8000"),
		DefaultTTL:        time.Duration(getEnvInt("MICROKV_DEFAULT_TTL_SECONDS", 0)) * time.Second,
		ReaperMaxInterval: getEnvDuration("MICROKV_REAPER_MAX_INTERVAL", time.Second),
		AuthSecret:        os.Getenv("MICROKV_AUTH_SECRET"),
		AdminUser:         getEnv("MICROKV_ADMIN_USER", "admin"),
		AdminPasswordHash: os.Getenv("MICROKV_ADMIN_PASSWORD_HASH"),
	}
}

// AuthRequired reports whether mutating requests must carry a bearer token.
func (c Config) AuthRequired() bool {
	return c.AuthSecret != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
