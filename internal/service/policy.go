package service

import (
	"context"

	"github.com/campuskit/identity-api/internal/domain/principal"
	"github.com/campuskit/identity-api/internal/ports"
)

// StandardPolicy is the default permission behavior for kinds outside the
// group/permission system. Active administrators implicitly hold every
// permission string the system knows; parents hold none.
type StandardPolicy struct {
	Groups ports.GroupStore
}

var _ ports.DefaultPermissionPolicy = StandardPolicy{}

func (sp StandardPolicy) Permissions(ctx context.Context, p *principal.Principal) (map[string]struct{}, error) {
	if p == nil || !p.Active || p.Kind != principal.KindAdmin {
		return map[string]struct{}{}, nil
	}
	strs, err := sp.Groups.AllPermissionStrings(ctx)
	if err != nil {
		return nil, err
	}
	perms := make(map[string]struct{}, len(strs))
	for _, s := range strs {
		perms[s] = struct{}{}
	}
	return perms, nil
}

func (sp StandardPolicy) Has(ctx context.Context, p *principal.Principal, _ string) (bool, error) {
	if p == nil || !p.Active {
		return false, nil
	}
	// Administrators pass every non-object-scoped check without a lookup.
	return p.Kind == principal.KindAdmin, nil
}
