package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode selects how logins are performed.
type AuthMode string

const (
	// AuthModeLocal authenticates credential pairs against the identity tables.
	AuthModeLocal AuthMode = "local"
	// AuthModeOIDC additionally enables administrator SSO via OIDC.
	AuthModeOIDC AuthMode = "oidc"
	// AuthModeMock enables a config-driven dev SSO provider (development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "local", "oidc", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: local, oidc, mock)", v)
	}
}

// OIDCConfig contains the administrator SSO configuration (used when
// Mode=oidc).
type OIDCConfig struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	RedirectURL  string `env:"REDIRECT_URL"  envDefault:"http://localhost:8080/auth/sso/callback"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email"`
	DiscoveryURL string `env:"DISCOVERY_URL"`
}

// DevAuthConfig controls the mock SSO identity (used when Mode=mock).
type DevAuthConfig struct {
	Email     string `env:"EMAIL"      envDefault:"dev-admin@example.com"`
	FirstName string `env:"FIRST_NAME" envDefault:"Dev"`
	LastName  string `env:"LAST_NAME"  envDefault:"Admin"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which login paths are available.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"local"`

	// SessionTTL bounds how long an issued session lives.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"8h"`

	// SessionCookie is the name of the session cookie.
	SessionCookie string `env:"SESSION_COOKIE" envDefault:"session_id"`

	// BcryptCost is the bcrypt work factor for newly hashed secrets.
	BcryptCost int `env:"BCRYPT_COST" envDefault:"12"`

	OIDC    OIDCConfig    `envPrefix:"OIDC_"`
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	if a.SessionTTL <= 0 {
		a.SessionTTL = 8 * time.Hour
	}
	if a.SessionCookie == "" {
		a.SessionCookie = "session_id"
	}
	if a.BcryptCost < 0 {
		a.BcryptCost = 0
	}
}
