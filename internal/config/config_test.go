package config

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func baseEnv() map[string]string {
	return map[string]string{
		"DATABASE_URL":     "postgres://localhost:5432/loja",
		"REDIS_URL":        "redis://localhost:6379/0",
		"ADMIN_JWT_SECRET": "test-secret",
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadForTests(baseEnv())
	require.NoError(t, err)

	require.Equal(t, "development", cfg.AppEnv)
	require.Equal(t, ":8080", cfg.HTTPAddr())
	require.Equal(t, 12*time.Hour, cfg.AdminTokenTTL)
	require.Equal(t, 24*time.Hour, cfg.CartSessionTTL)
	require.Equal(t, 5*time.Minute, cfg.CatalogCacheTTL)
	require.Equal(t, "https://wa.me/", cfg.OrderLinkBase)
	require.Equal(t, "loja_session", cfg.SessionCookieName)
	require.Equal(t, int64(10), cfg.LoginRatePerMinute)
	require.Equal(t, http.SameSiteLaxMode, cfg.CookieSameSite)
}

func TestLoadOverrides(t *testing.T) {
	env := baseEnv()
	env["PORT"] = "9090"
	env["ADMIN_TOKEN_TTL"] = "30m"
	env["CART_SESSION_TTL"] = "2h"
	env["CORS_ALLOWED_ORIGINS"] = "https://loja.example.com, https://admin.example.com"
	env["COOKIE_SAMESITE"] = "strict"
	env["COOKIE_SECURE"] = "true"
	env["LOGIN_RATE_PER_MINUTE"] = "3"

	cfg, err := LoadForTests(env)
	require.NoError(t, err)

	require.Equal(t, ":9090", cfg.HTTPAddr())
	require.Equal(t, 30*time.Minute, cfg.AdminTokenTTL)
	require.Equal(t, 2*time.Hour, cfg.CartSessionTTL)
	require.Equal(t, []string{"https://loja.example.com", "https://admin.example.com"}, cfg.CORSAllowedOrigins)
	require.Equal(t, http.SameSiteStrictMode, cfg.CookieSameSite)
	require.True(t, cfg.CookieSecure)
	require.Equal(t, int64(3), cfg.LoginRatePerMinute)
}

func TestLoadRequiresSecrets(t *testing.T) {
	env := baseEnv()
	env["ADMIN_JWT_SECRET"] = ""
	_, err := LoadForTests(env)
	require.Error(t, err)

	env = baseEnv()
	env["DATABASE_URL"] = ""
	_, err = LoadForTests(env)
	require.Error(t, err)
}

func TestBadDurationFallsBack(t *testing.T) {
	env := baseEnv()
	env["CART_SESSION_TTL"] = "not-a-duration"
	cfg, err := LoadForTests(env)
	require.NoError(t, err)
	require.Equal(t, 24*time.Hour, cfg.CartSessionTTL)
}
