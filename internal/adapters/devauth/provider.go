package devauth

// Package devauth provides a config-driven AuthProvider for local
// development. It short-circuits the SSO flow by redirecting straight back to
// the callback with locally generated state and nonce.

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	domainauth "github.com/campuskit/identity-api/internal/domain/auth"
	"github.com/campuskit/identity-api/internal/ports"
)

// Config controls the dev auth provider behavior. Email must match an
// administrator record for the callback to succeed.
type Config struct {
	Email     string
	FirstName string
	LastName  string
	TokenTTL  time.Duration // default 8h when zero
}

// Provider implements ports.AuthProvider for local development. Exchange
// ignores the code and returns the configured identity.
type Provider struct {
	identity domainauth.Identity
	tokenTTL time.Duration
}

var _ ports.AuthProvider = (*Provider)(nil)

// NewProvider constructs a dev auth provider from Config.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.Email == "" {
		return nil, errors.New("dev auth: Email is required")
	}
	ttl := cfg.TokenTTL
	if ttl == 0 {
		ttl = 8 * time.Hour
	}
	return &Provider{
		identity: domainauth.Identity{
			Subject:   "dev:" + cfg.Email,
			FirstName: cfg.FirstName,
			LastName:  cfg.LastName,
			Email:     cfg.Email,
			ExpiresAt: time.Now().Add(ttl),
		},
		tokenTTL: ttl,
	}, nil
}

// Begin returns a local callback URL with fresh state and nonce.
func (p *Provider) Begin(_ context.Context, _ ports.BeginInput) (string, string, string, error) {
	state, err := randomToken(24)
	if err != nil {
		return "", "", "", fmt.Errorf("generate state: %w", err)
	}
	nonce, err := randomToken(24)
	if err != nil {
		return "", "", "", fmt.Errorf("generate nonce: %w", err)
	}
	// The standard handler expects GET /auth/sso/callback?code=...&state=...
	authURL := "/auth/sso/callback?code=dev&state=" + state
	return authURL, state, nonce, nil
}

// Exchange ignores the code (state/nonce validation is the handler's job) and
// returns the configured identity, refreshing its expiry when close.
func (p *Provider) Exchange(_ context.Context, _ ports.ExchangeInput) (domainauth.Identity, error) {
	if time.Until(p.identity.ExpiresAt) < 5*time.Minute {
		p.identity.ExpiresAt = time.Now().Add(p.tokenTTL)
	}
	return p.identity, nil
}

func randomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
