package ports

import (
	"context"

	"github.com/campuskit/identity-api/internal/domain/principal"
)

// DefaultPermissionPolicy supplies permission behavior for kinds outside the
// group/permission system (admins and parents). The resolver treats it as an
// opaque collaborator.
type DefaultPermissionPolicy interface {
	Permissions(ctx context.Context, p *principal.Principal) (map[string]struct{}, error)
	Has(ctx context.Context, p *principal.Principal, perm string) (bool, error)
}
