package principal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnonymous(t *testing.T) {
	anon := Anonymous()
	assert.True(t, anon.IsAnonymous())
	assert.False(t, anon.Active)

	var nilP *Principal
	assert.True(t, nilP.IsAnonymous())

	real := &Principal{Kind: KindStaff, ID: 1, Active: true}
	assert.False(t, real.IsAnonymous())
}

func TestFullName(t *testing.T) {
	tests := []struct {
		name string
		p    Principal
		want string
	}{
		{"both names", Principal{FirstName: "Ada", LastName: "Stone"}, "Ada Stone"},
		{"first only", Principal{FirstName: "Ada"}, "Ada"},
		{"last only", Principal{LastName: "Stone"}, "Stone"},
		{"neither falls back to email", Principal{Email: "a@example.com"}, "a@example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.p.FullName())
		})
	}
}

func TestUsesGroupPermissions(t *testing.T) {
	assert.True(t, (&Principal{Kind: KindStaff}).UsesGroupPermissions())
	assert.True(t, (&Principal{Kind: KindStudent}).UsesGroupPermissions())
	assert.False(t, (&Principal{Kind: KindAdmin}).UsesGroupPermissions())
	assert.False(t, (&Principal{Kind: KindParent}).UsesGroupPermissions())
}

func TestCachedPermissions_FirstSetWins(t *testing.T) {
	p := &Principal{Kind: KindStaff, ID: 1, Active: true}

	_, ok := p.CachedPermissions()
	assert.False(t, ok)

	first := map[string]struct{}{"courses.view_course": {}}
	p.SetCachedPermissions(first)

	cached, ok := p.CachedPermissions()
	assert.True(t, ok)
	assert.Equal(t, first, cached)

	// A second set must not replace the computed result.
	p.SetCachedPermissions(map[string]struct{}{"other.permission": {}})
	cached, _ = p.CachedPermissions()
	assert.Equal(t, first, cached)
}

func TestCachedPermissions_NilBecomesEmptySet(t *testing.T) {
	p := &Principal{Kind: KindStudent, ID: 2, Active: true}
	p.SetCachedPermissions(nil)

	cached, ok := p.CachedPermissions()
	assert.True(t, ok)
	assert.Empty(t, cached)
}
