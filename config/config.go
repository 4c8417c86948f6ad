package config

import (
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config files for
// the available environment variables:
//   - auth.go: authentication, sessions, and SSO
//   - database.go: Postgres and Redis
//   - http.go: HTTP server
//   - observability.go: logging and metrics
type AppConfig struct {
	// IsDev controls development-mode behavior (devseed, relaxed bcrypt cost).
	IsDev bool `env:"DEV" envDefault:"false"`

	Auth AuthConfig

	Postgres DBConfig    `envPrefix:"DB_"`
	Redis    RedisConfig `envPrefix:"REDIS_"`

	HTTP HTTPConfig

	Observability ObservabilityConfig
}

// Sanitize applies guardrails to configuration values loaded from env. Call
// after env parsing.
func (c *AppConfig) Sanitize() {
	c.Auth.Sanitize()
	c.HTTP.Sanitize()
	c.Observability.Sanitize()
	c.detectDevMode()
}

// detectDevMode also honors APP_ENV=development as a fallback for local
// tooling that sets only the conventional variable.
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		appEnv := strings.ToLower(os.Getenv("APP_ENV"))
		c.IsDev = appEnv == "development" || appEnv == "dev"
	}
}
