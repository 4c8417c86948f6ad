package principal

// Package principal contains domain-level types for identity resolution.
// It is pure and free of framework/adapter concerns.

// Kind identifies which of the four disjoint identity tables a principal
// belongs to. The string form doubles as the kind tag recorded in the
// session at login, so these values are part of the session wire format.
type Kind string

const (
	KindAdmin   Kind = "admin"
	KindStaff   Kind = "staff"
	KindParent  Kind = "parent"
	KindStudent Kind = "student"
)

// ParseKind maps a session tag back to a Kind. Unrecognized tags (including
// tags from sessions created before kind tagging existed) report false; the
// caller is expected to fall back to FallbackResolveOrder.
func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindAdmin, KindStaff, KindParent, KindStudent:
		return Kind(s), true
	default:
		return "", false
	}
}

// ProbeField names the identifier column a credential probe matches against.
type ProbeField string

const (
	FieldEmail ProbeField = "email"
	FieldPhone ProbeField = "phone"
)

// AuthProbe is a single (kind, field) lookup-then-verify step in the
// credential search.
type AuthProbe struct {
	Kind  Kind
	Field ProbeField
}

// AuthProbeOrder is the fixed credential search order. Administrators are
// checked first and by email only (the administrators table has no phone
// column); staff precede parents precede students. Identifier values that
// collide across tables must keep resolving to the same kind, so this order
// is load-bearing and must not be reordered.
var AuthProbeOrder = []AuthProbe{
	{Kind: KindAdmin, Field: FieldEmail},
	{Kind: KindStaff, Field: FieldPhone},
	{Kind: KindStaff, Field: FieldEmail},
	{Kind: KindParent, Field: FieldPhone},
	{Kind: KindStudent, Field: FieldPhone},
	{Kind: KindStudent, Field: FieldEmail},
}

// FallbackResolveOrder is the lookup order for re-hydrating a principal by id
// when the session carries no recognized kind tag (legacy sessions). Students
// first, as the most common kind. This deliberately differs from
// AuthProbeOrder; pre-tagging sessions depend on it.
var FallbackResolveOrder = []Kind{KindStudent, KindParent, KindStaff, KindAdmin}
