package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/campuskit/identity-api/internal/domain/principal"
	"github.com/campuskit/identity-api/internal/observability/statsd"
	"github.com/campuskit/identity-api/internal/ports"
)

// ResolverOptions groups dependencies for Resolver.
type ResolverOptions struct {
	Stores  map[principal.Kind]ports.IdentityStore
	Groups  ports.GroupStore
	Secrets ports.SecretVerifier
	Default ports.DefaultPermissionPolicy
	Metrics statsd.Sink // optional
	Logger  *slog.Logger
}

// Resolver disambiguates the shared primary-key space of the four identity
// tables. Authenticate probes tables in a fixed precedence order; ResolveByID
// re-hydrates a principal from a numeric id using the session kind tag; the
// permission methods compute group-derived permission strings with a
// per-principal cache.
type Resolver struct {
	stores  map[principal.Kind]ports.IdentityStore
	groups  ports.GroupStore
	secrets ports.SecretVerifier
	deflt   ports.DefaultPermissionPolicy
	metrics statsd.Sink
	logger  *slog.Logger
}

// NewResolver constructs a Resolver, requiring a store for every kind.
func NewResolver(opts ResolverOptions) (*Resolver, error) {
	if opts.Groups == nil {
		return nil, errors.New("group store is required")
	}
	if opts.Secrets == nil {
		return nil, errors.New("secret verifier is required")
	}
	for _, k := range []principal.Kind{principal.KindAdmin, principal.KindStaff, principal.KindParent, principal.KindStudent} {
		if opts.Stores[k] == nil {
			return nil, fmt.Errorf("identity store for kind %q is required", k)
		}
	}
	deflt := opts.Default
	if deflt == nil {
		deflt = StandardPolicy{Groups: opts.Groups}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		stores:  opts.Stores,
		groups:  opts.Groups,
		secrets: opts.Secrets,
		deflt:   deflt,
		metrics: opts.Metrics,
		logger:  logger,
	}, nil
}

// Authenticate runs the fixed probe sequence against the identifier and
// secret. A nil principal with a nil error means no credential matched; store
// failures propagate. A probe whose record fails secret verification is a
// dead end for that probe only; the search continues. The first verified
// match wins and ends the search.
//
// Authenticate never touches session state; the login flow records the kind
// tag after a success.
func (r *Resolver) Authenticate(ctx context.Context, identifier, secret string) (*principal.Principal, error) {
	if identifier == "" || secret == "" {
		// Short-circuit before any store access.
		return nil, nil
	}

	for _, probe := range principal.AuthProbeOrder {
		p, err := r.probe(ctx, probe, identifier)
		if err != nil {
			if errors.Is(err, ports.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("probe %s/%s: %w", probe.Kind, probe.Field, err)
		}

		if r.secrets.Verify(p.SecretHash, secret) {
			r.count("auth.probe", map[string]string{
				"kind": string(probe.Kind), "field": string(probe.Field), "outcome": "hit",
			})
			return p, nil
		}
		// Found but wrong secret: do not short-circuit the search.
		r.count("auth.probe", map[string]string{
			"kind": string(probe.Kind), "field": string(probe.Field), "outcome": "secret_mismatch",
		})
	}

	r.count("auth.probe", map[string]string{"outcome": "exhausted"})
	return nil, nil
}

func (r *Resolver) probe(ctx context.Context, probe principal.AuthProbe, identifier string) (*principal.Principal, error) {
	store := r.stores[probe.Kind]
	switch probe.Field {
	case principal.FieldEmail:
		return store.FindByEmail(ctx, identifier)
	case principal.FieldPhone:
		return store.FindByPhone(ctx, identifier)
	default:
		return nil, fmt.Errorf("unknown probe field %q", probe.Field)
	}
}

// ResolveByID re-hydrates a principal from a persisted session id value. A
// nil principal with a nil error means the id resolves to nothing.
//
// When the session context carries a recognized kind tag, only that kind's
// table is consulted and a miss is authoritative: falling through to other
// tables could resolve the same numeric id to a different principal, which is
// exactly the identity confusion the tag exists to prevent. Without a usable
// tag the kinds are searched in the legacy fallback order.
func (r *Resolver) ResolveByID(ctx context.Context, rawID string, sctx ports.SessionContext) (*principal.Principal, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(rawID), 10, 64)
	if err != nil {
		// Non-parseable input is a normal no-match outcome, with no store access.
		return nil, nil
	}
	return r.ResolveByNumericID(ctx, id, sctx)
}

// ResolveByNumericID is ResolveByID for callers that already hold an integer
// id (the session layer stores one).
func (r *Resolver) ResolveByNumericID(ctx context.Context, id int64, sctx ports.SessionContext) (*principal.Principal, error) {
	if sctx != nil {
		if kind, ok := sctx.KindTag(); ok {
			p, err := r.stores[kind].FindByID(ctx, id)
			if err != nil {
				if errors.Is(err, ports.ErrNotFound) {
					// The tag is authoritative; no fallback to other kinds.
					r.count("resolve.by_id", map[string]string{"mode": "tagged", "outcome": "miss"})
					return nil, nil
				}
				return nil, fmt.Errorf("resolve %s by id: %w", kind, err)
			}
			r.count("resolve.by_id", map[string]string{"mode": "tagged", "outcome": "hit"})
			return p, nil
		}
	}

	for _, kind := range principal.FallbackResolveOrder {
		p, err := r.stores[kind].FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, ports.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("resolve %s by id: %w", kind, err)
		}
		r.count("resolve.by_id", map[string]string{"mode": "fallback", "outcome": "hit"})
		return p, nil
	}

	r.count("resolve.by_id", map[string]string{"mode": "fallback", "outcome": "miss"})
	return nil, nil
}

// GroupPermissions returns the permission strings the principal holds through
// group membership. Inactive principals, the anonymous sentinel, and
// object-scoped checks (obj != nil) get an empty set. For staff and students
// the result is computed once and cached on the principal instance; other
// kinds delegate to the default policy.
func (r *Resolver) GroupPermissions(ctx context.Context, p *principal.Principal, obj any) (map[string]struct{}, error) {
	if denied(p, obj) {
		return map[string]struct{}{}, nil
	}

	if !p.UsesGroupPermissions() {
		return r.deflt.Permissions(ctx, p)
	}

	if cached, ok := p.CachedPermissions(); ok {
		return cached, nil
	}

	strs, err := r.groups.PermissionStringsOf(ctx, p.Kind, p.ID)
	if err != nil {
		return nil, fmt.Errorf("group permissions for %s %d: %w", p.Kind, p.ID, err)
	}
	perms := make(map[string]struct{}, len(strs))
	for _, s := range strs {
		perms[s] = struct{}{}
	}
	p.SetCachedPermissions(perms)
	return perms, nil
}

// AllPermissions returns every permission string the principal holds. For
// staff and students this is identical to GroupPermissions; there is no
// separate per-principal permission concept for those kinds.
func (r *Resolver) AllPermissions(ctx context.Context, p *principal.Principal, obj any) (map[string]struct{}, error) {
	if denied(p, obj) {
		return map[string]struct{}{}, nil
	}
	if !p.UsesGroupPermissions() {
		return r.deflt.Permissions(ctx, p)
	}
	return r.GroupPermissions(ctx, p, obj)
}

// HasPermission reports whether the principal holds the given permission
// string. Object-scoped checks always deny.
func (r *Resolver) HasPermission(ctx context.Context, p *principal.Principal, perm string, obj any) (bool, error) {
	if p == nil || !p.Active {
		return false, nil
	}
	if !p.UsesGroupPermissions() {
		if obj != nil {
			return false, nil
		}
		return r.deflt.Has(ctx, p, perm)
	}
	perms, err := r.AllPermissions(ctx, p, obj)
	if err != nil {
		return false, err
	}
	_, ok := perms[perm]
	return ok, nil
}

func denied(p *principal.Principal, obj any) bool {
	return p == nil || !p.Active || p.IsAnonymous() || obj != nil
}

func (r *Resolver) count(name string, tags map[string]string) {
	if r.metrics == nil {
		return
	}
	r.metrics.Count(name, 1, tags)
}
