package principal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseKind(t *testing.T) {
	for _, valid := range []string{"admin", "staff", "parent", "student"} {
		kind, ok := ParseKind(valid)
		assert.True(t, ok, valid)
		assert.Equal(t, Kind(valid), kind)
	}

	for _, invalid := range []string{"", "Admin", "teacher", "admins"} {
		_, ok := ParseKind(invalid)
		assert.False(t, ok, invalid)
	}
}

func TestAuthProbeOrder(t *testing.T) {
	// The credential search order is part of observed behavior: identifiers
	// colliding across tables must keep resolving to the same kind.
	want := []AuthProbe{
		{Kind: KindAdmin, Field: FieldEmail},
		{Kind: KindStaff, Field: FieldPhone},
		{Kind: KindStaff, Field: FieldEmail},
		{Kind: KindParent, Field: FieldPhone},
		{Kind: KindStudent, Field: FieldPhone},
		{Kind: KindStudent, Field: FieldEmail},
	}
	assert.Equal(t, want, AuthProbeOrder)
}

func TestFallbackResolveOrder(t *testing.T) {
	assert.Equal(t, []Kind{KindStudent, KindParent, KindStaff, KindAdmin}, FallbackResolveOrder)
}
