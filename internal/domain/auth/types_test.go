package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/campuskit/identity-api/internal/domain/principal"
)

func TestSession_KindTag(t *testing.T) {
	kind, ok := Session{PrincipalKind: "staff"}.KindTag()
	assert.True(t, ok)
	assert.Equal(t, principal.KindStaff, kind)

	// Pre-tagging sessions carry no kind.
	_, ok = Session{}.KindTag()
	assert.False(t, ok)

	_, ok = Session{PrincipalKind: "superuser"}.KindTag()
	assert.False(t, ok)
}

func TestSession_Expired(t *testing.T) {
	now := time.Now()
	live := Session{ExpiresAt: now.Add(time.Minute)}
	stale := Session{ExpiresAt: now.Add(-time.Minute)}

	assert.False(t, live.Expired(now))
	assert.True(t, stale.Expired(now))
}
