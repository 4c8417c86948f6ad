package config

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseConfig(t *testing.T) AppConfig {
	t.Helper()
	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()
	return cfg
}

func TestAppConfig_Defaults(t *testing.T) {
	cfg := parseConfig(t)

	assert.Equal(t, AuthModeLocal, cfg.Auth.Mode)
	assert.Equal(t, 8*time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, "session_id", cfg.Auth.SessionCookie)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.Equal(t, "localhost", cfg.Postgres.Host)
	assert.Equal(t, 5432, cfg.Postgres.Port)
	assert.Equal(t, "identity", cfg.Postgres.Name)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.True(t, cfg.HTTP.SecureCookies)
	assert.Equal(t, "info", cfg.Observability.LogLevel)
	assert.False(t, cfg.Observability.Metrics.IsEnabled())
}

func TestAppConfig_EnvOverrides(t *testing.T) {
	t.Setenv("AUTH_MODE", "oidc")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("REDIS_URI", "redis://cache.internal:6380")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("OIDC_CLIENT_ID", "identity-api")

	cfg := parseConfig(t)

	assert.Equal(t, AuthModeOIDC, cfg.Auth.Mode)
	assert.Equal(t, 30*time.Minute, cfg.Auth.SessionTTL)
	assert.Equal(t, "db.internal", cfg.Postgres.Host)
	assert.Equal(t, 5433, cfg.Postgres.Port)
	assert.Equal(t, "redis://cache.internal:6380", cfg.Redis.URI)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, "debug", cfg.Observability.LogLevel)
	assert.Equal(t, "identity-api", cfg.Auth.OIDC.ClientID)
}

func TestAppConfig_InvalidAuthModeRejected(t *testing.T) {
	t.Setenv("AUTH_MODE", "saml")

	var cfg AppConfig
	err := env.Parse(&cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid AuthMode")
}

func TestAppConfig_SanitizeGuardrails(t *testing.T) {
	cfg := AppConfig{}
	cfg.Auth.SessionTTL = -time.Hour
	cfg.Observability.LogLevel = "verbose"
	cfg.Observability.Metrics.Enabled = true
	cfg.Sanitize()

	assert.Equal(t, 8*time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, "session_id", cfg.Auth.SessionCookie)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "info", cfg.Observability.LogLevel)
	// Metrics without an address stay disabled.
	assert.False(t, cfg.Observability.Metrics.IsEnabled())
}

func TestAppConfig_DevModeDetection(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	cfg := parseConfig(t)
	assert.True(t, cfg.IsDev)

	t.Setenv("APP_ENV", "production")
	cfg = parseConfig(t)
	assert.False(t, cfg.IsDev)

	t.Setenv("DEV", "true")
	cfg = parseConfig(t)
	assert.True(t, cfg.IsDev)
}
