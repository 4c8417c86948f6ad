package httpx

import (
	"context"

	domainauth "github.com/campuskit/identity-api/internal/domain/auth"
	"github.com/campuskit/identity-api/internal/domain/principal"
)

// Unexported context key types to avoid collisions across packages.
// Centralized here so all handlers/middleware use the same keys.
type sessionKey struct{}
type principalKey struct{}

// SetSessionInContext returns a child context carrying the given session.
func SetSessionInContext(ctx context.Context, sess *domainauth.Session) context.Context {
	if sess == nil {
		return ctx
	}
	return context.WithValue(ctx, sessionKey{}, sess)
}

// SessionFromContext returns the session from context and whether one is present.
func SessionFromContext(ctx context.Context) (*domainauth.Session, bool) {
	if sess, ok := ctx.Value(sessionKey{}).(*domainauth.Session); ok && sess != nil {
		return sess, true
	}
	return nil, false
}

// SetPrincipalInContext returns a child context carrying the resolved principal.
func SetPrincipalInContext(ctx context.Context, p *principal.Principal) context.Context {
	if p == nil {
		return ctx
	}
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the resolved principal for the request, or the
// anonymous sentinel when the request is unauthenticated.
func PrincipalFromContext(ctx context.Context) *principal.Principal {
	if p, ok := ctx.Value(principalKey{}).(*principal.Principal); ok && p != nil {
		return p
	}
	return principal.Anonymous()
}
