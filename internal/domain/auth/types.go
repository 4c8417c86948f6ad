package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import (
	"time"

	"github.com/campuskit/identity-api/internal/domain/principal"
)

// Identity represents an authenticated principal returned by an external IdP
// (the optional administrator SSO path). Adapters map provider-specific
// claims into this shape.
type Identity struct {
	Subject   string // stable provider-side identifier (e.g. sub)
	FirstName string
	LastName  string
	Email     string
	ExpiresAt time.Time // absolute expiry from IdP token
}

// Session is the server-side record persisted for an authenticated principal.
// ID is an opaque session identifier. PrincipalKind is the kind tag written
// at login; it is what lets ResolveByID pick the right table when the same
// numeric id exists in several tables. Sessions created before kind tagging
// existed have an empty PrincipalKind and resolve through the legacy fallback
// order.
type Session struct {
	ID            string    `json:"id"`
	PrincipalID   int64     `json:"principal_id"`
	PrincipalKind string    `json:"principal_kind"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Email         string    `json:"email"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// KindTag returns the session's kind tag as a parsed Kind. Absent or
// unrecognized tags report false. Session satisfies ports.SessionContext
// through this method.
func (s Session) KindTag() (principal.Kind, bool) {
	return principal.ParseKind(s.PrincipalKind)
}

// Expired reports whether the session is past its expiry at the given time.
func (s Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
