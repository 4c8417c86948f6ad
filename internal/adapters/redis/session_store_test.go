package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/campuskit/identity-api/internal/domain/auth"
	"github.com/campuskit/identity-api/internal/ports"
)

// Validation paths run before any Redis traffic, so a nil client is safe.

func TestSave_RejectsEmptyID(t *testing.T) {
	store := NewSessionStore(nil)
	err := store.Save(context.Background(), domainauth.Session{
		ExpiresAt: time.Now().Add(time.Hour),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ID")
}

func TestSave_RejectsExpiredSession(t *testing.T) {
	store := NewSessionStore(nil)
	err := store.Save(context.Background(), domainauth.Session{
		ID:        "s1",
		ExpiresAt: time.Now().Add(-time.Minute),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expired")
}

func TestGet_EmptyIDIsNotFound(t *testing.T) {
	store := NewSessionStore(nil)
	_, err := store.Get(context.Background(), "")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestDelete_EmptyIDIsNoop(t *testing.T) {
	store := NewSessionStore(nil)
	assert.NoError(t, store.Delete(context.Background(), ""))
}
