package principal

// Principal is the resolved identity value, a tagged union over Kind.
// Numeric ids are unique only within a kind; the (Kind, ID) pair is the real
// identity. SecretHash is the opaque secret-verification capability; the
// actual comparison lives behind ports.SecretVerifier.
type Principal struct {
	Kind       Kind
	ID         int64
	FirstName  string
	LastName   string
	Email      string
	Phone      string // always empty for admins; the administrators table has no phone column
	Active     bool
	SecretHash string

	anonymous bool

	// permCache memoizes group-derived permission strings for the lifetime of
	// this instance. Nil until first computed; never persisted or shared
	// across requests.
	permCache map[string]struct{}
}

// Anonymous returns the absence-of-principal sentinel. It is inactive and is
// denied every permission.
func Anonymous() *Principal {
	return &Principal{anonymous: true}
}

// IsAnonymous reports whether this is the absence-of-principal sentinel.
func (p *Principal) IsAnonymous() bool {
	return p == nil || p.anonymous
}

// FullName returns the display name, or the email when no name is set.
func (p *Principal) FullName() string {
	switch {
	case p == nil:
		return ""
	case p.FirstName == "" && p.LastName == "":
		return p.Email
	case p.LastName == "":
		return p.FirstName
	case p.FirstName == "":
		return p.LastName
	default:
		return p.FirstName + " " + p.LastName
	}
}

// UsesGroupPermissions reports whether this principal's kind participates in
// the group/permission system. Only staff and students do; admins and parents
// go through the default permission policy.
func (p *Principal) UsesGroupPermissions() bool {
	if p == nil {
		return false
	}
	return p.Kind == KindStaff || p.Kind == KindStudent
}

// CachedPermissions returns the memoized permission set and whether it has
// been computed for this instance.
func (p *Principal) CachedPermissions() (map[string]struct{}, bool) {
	if p == nil || p.permCache == nil {
		return nil, false
	}
	return p.permCache, true
}

// SetCachedPermissions stores the computed permission set on this instance.
// The first computed set wins; later calls are ignored so a cached set is
// never silently replaced mid-request.
func (p *Principal) SetCachedPermissions(perms map[string]struct{}) {
	if p == nil || p.permCache != nil {
		return
	}
	if perms == nil {
		perms = map[string]struct{}{}
	}
	p.permCache = perms
}
