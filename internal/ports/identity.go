package ports

// Package ports defines interfaces (hexagonal ports) for identity resolution.
// Implementations live in internal/data and internal/adapters; orchestration
// in internal/service.

import (
	"context"
	"errors"

	"github.com/campuskit/identity-api/internal/domain/principal"
)

// ErrNotFound is returned by identity stores when no record matches a lookup.
// It is the only store error the resolver handles locally; anything else is a
// store failure and propagates to the caller.
var ErrNotFound = errors.New("identity: not found")

// IdentityStore looks up principals in one kind's table. Implementations
// return ErrNotFound for a clean miss and wrap infrastructure errors
// otherwise. FindByPhone on the admin store always misses; administrators
// have no phone.
type IdentityStore interface {
	Kind() principal.Kind
	FindByID(ctx context.Context, id int64) (*principal.Principal, error)
	FindByEmail(ctx context.Context, email string) (*principal.Principal, error)
	FindByPhone(ctx context.Context, phone string) (*principal.Principal, error)
}

// SecretVerifier checks a candidate secret against a stored hash. It is the
// opaque secret-verification capability each identity record exposes.
type SecretVerifier interface {
	Verify(hash, candidate string) bool
}

// GroupStore answers the flattened group-to-permission-string queries for
// kinds that participate in the group/permission system (staff and students).
type GroupStore interface {
	// PermissionStringsOf returns the union, over every group the principal
	// belongs to, of that group's "namespace.action" permission strings.
	PermissionStringsOf(ctx context.Context, kind principal.Kind, principalID int64) ([]string, error)

	// AllPermissionStrings returns every permission string known to the
	// system. Used by the default policy to grant administrators everything.
	AllPermissionStrings(ctx context.Context) ([]string, error)
}

// SessionContext is the read side of the session kind tag. The login flow
// writes the tag; ResolveByID only ever reads it through this interface.
type SessionContext interface {
	KindTag() (principal.Kind, bool)
}
