package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/campuskit/identity-api/internal/domain/auth"
	"github.com/campuskit/identity-api/internal/domain/principal"
	"github.com/campuskit/identity-api/internal/ports"
	"github.com/campuskit/identity-api/internal/testutil"
)

// memorySessionStore is an in-memory ports.SessionStore with optional
// per-method overrides for error injection.
type memorySessionStore struct {
	sessions   map[string]domainauth.Session
	saveFunc   func(context.Context, domainauth.Session) error
	deleteFunc func(context.Context, string) error

	saveCalls   int
	deleteCalls int
}

func newMemorySessionStore() *memorySessionStore {
	return &memorySessionStore{sessions: make(map[string]domainauth.Session)}
}

func (s *memorySessionStore) Save(ctx context.Context, sess domainauth.Session) error {
	s.saveCalls++
	if s.saveFunc != nil {
		return s.saveFunc(ctx, sess)
	}
	s.sessions[sess.ID] = sess
	return nil
}

func (s *memorySessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	sess, ok := s.sessions[id]
	if !ok {
		return domainauth.Session{}, ports.ErrNotFound
	}
	return sess, nil
}

func (s *memorySessionStore) Delete(ctx context.Context, id string) error {
	s.deleteCalls++
	if s.deleteFunc != nil {
		return s.deleteFunc(ctx, id)
	}
	delete(s.sessions, id)
	return nil
}

// fakeSSO is a deterministic ports.AuthProvider.
type fakeSSO struct {
	identity domainauth.Identity
	err      error
}

func (f *fakeSSO) Begin(_ context.Context, _ ports.BeginInput) (string, string, string, error) {
	return "https://idp.example.com/authorize?state=s1", "s1", "n1", f.err
}

func (f *fakeSSO) Exchange(_ context.Context, _ ports.ExchangeInput) (domainauth.Identity, error) {
	return f.identity, f.err
}

func newAuthFixture(t *testing.T, overrides stores, sso ports.AuthProvider) (*AuthService, *memorySessionStore) {
	t.Helper()
	sessions := newMemorySessionStore()
	resolver := newTestResolver(t, overrides, nil)
	svc, err := NewAuthService(AuthServiceOptions{
		Resolver: resolver,
		Sessions: sessions,
		SSO:      sso,
	})
	require.NoError(t, err)
	return svc, sessions
}

func TestLogin_WritesKindTagIntoSession(t *testing.T) {
	student := testutil.Student(11, "stu@example.com", "+15550002222")
	student.SecretHash = "pw"

	svc, sessions := newAuthFixture(t, stores{
		principal.KindStudent: newFakeStore(principal.KindStudent, student),
	}, nil)

	result, err := svc.Login(context.Background(), "stu@example.com", "pw")
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, "student", result.Session.PrincipalKind)
	assert.Equal(t, int64(11), result.Session.PrincipalID)
	assert.NotEmpty(t, result.Session.ID)
	assert.True(t, result.Session.ExpiresAt.After(time.Now()))

	// The session round-trips its tag as a kind.
	kind, ok := result.Session.KindTag()
	assert.True(t, ok)
	assert.Equal(t, principal.KindStudent, kind)

	stored, err := sessions.Get(context.Background(), result.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, "student", stored.PrincipalKind)
}

func TestLogin_FailuresAreUniform(t *testing.T) {
	staff := testutil.Staff(1, "staff@example.com", "")
	staff.SecretHash = "right"
	inactive := testutil.NewPrincipal().
		WithKind(principal.KindParent).WithID(2).WithEmail("off@example.com").
		WithSecretHash("pw").Inactive().Build()

	svc, sessions := newAuthFixture(t, stores{
		principal.KindStaff:  newFakeStore(principal.KindStaff, staff),
		principal.KindParent: newFakeStore(principal.KindParent, inactive),
	}, nil)

	for name, tc := range map[string]struct{ identifier, secret string }{
		"unknown identifier": {"nobody@example.com", "pw"},
		"wrong secret":       {"staff@example.com", "wrong"},
		"empty identifier":   {"", "pw"},
		"empty secret":       {"staff@example.com", ""},
		"inactive principal": {"off@example.com", "pw"},
	} {
		_, err := svc.Login(context.Background(), tc.identifier, tc.secret)
		assert.ErrorIs(t, err, ErrInvalidCredentials, name)
	}
	assert.Zero(t, sessions.saveCalls)
}

func TestGetSession_ExpiredIsDeleted(t *testing.T) {
	svc, sessions := newAuthFixture(t, stores{}, nil)

	sessions.sessions["old"] = domainauth.Session{
		ID:            "old",
		PrincipalID:   1,
		PrincipalKind: "staff",
		ExpiresAt:     time.Now().Add(-time.Minute),
	}

	_, err := svc.GetSession(context.Background(), "old")
	require.Error(t, err)
	assert.Equal(t, 1, sessions.deleteCalls)
	assert.NotContains(t, sessions.sessions, "old")
}

func TestCurrentPrincipal_UsesSessionTag(t *testing.T) {
	parent := testutil.Parent(6, "p@example.com", "")
	student := testutil.Student(6, "s@example.com", "")
	studentStore := newFakeStore(principal.KindStudent, student)

	svc, _ := newAuthFixture(t, stores{
		principal.KindParent:  newFakeStore(principal.KindParent, parent),
		principal.KindStudent: studentStore,
	}, nil)

	sess := &domainauth.Session{ID: "x", PrincipalID: 6, PrincipalKind: "parent", ExpiresAt: time.Now().Add(time.Hour)}
	p, err := svc.CurrentPrincipal(context.Background(), sess)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, principal.KindParent, p.Kind)
	// The colliding student id must never be consulted.
	assert.Zero(t, studentStore.totalCalls())
}

func TestCurrentPrincipal_DeletedRecordYieldsNil(t *testing.T) {
	svc, _ := newAuthFixture(t, stores{}, nil)

	sess := &domainauth.Session{ID: "x", PrincipalID: 99, PrincipalKind: "staff", ExpiresAt: time.Now().Add(time.Hour)}
	p, err := svc.CurrentPrincipal(context.Background(), sess)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestLogout(t *testing.T) {
	svc, sessions := newAuthFixture(t, stores{}, nil)
	sessions.sessions["gone"] = domainauth.Session{ID: "gone", ExpiresAt: time.Now().Add(time.Hour)}

	require.NoError(t, svc.Logout(context.Background(), "gone"))
	assert.NotContains(t, sessions.sessions, "gone")

	// Logging out without a session id is a no-op.
	require.NoError(t, svc.Logout(context.Background(), ""))
}

func TestSSO_DisabledWithoutProvider(t *testing.T) {
	svc, _ := newAuthFixture(t, stores{}, nil)
	assert.False(t, svc.SSOEnabled())

	_, err := svc.BeginSSO(context.Background(), "/")
	require.Error(t, err)
}

func TestCompleteSSO_MapsIdentityToAdministrator(t *testing.T) {
	admin := testutil.Admin(1, "dir@example.com")
	sso := &fakeSSO{identity: domainauth.Identity{
		Subject:   "idp|1",
		Email:     "dir@example.com",
		FirstName: "Dana",
		LastName:  "Reyes",
		ExpiresAt: time.Now().Add(time.Hour),
	}}

	svc, _ := newAuthFixture(t, stores{
		principal.KindAdmin: newFakeStore(principal.KindAdmin, admin),
	}, sso)
	assert.True(t, svc.SSOEnabled())

	result, err := svc.CompleteSSO(context.Background(), CompleteSSOInput{Code: "c", State: "s", Nonce: "n"})
	require.NoError(t, err)
	assert.Equal(t, "admin", result.Session.PrincipalKind)
	assert.Equal(t, int64(1), result.Session.PrincipalID)
}

func TestCompleteSSO_UnknownOrInactiveAdminRejected(t *testing.T) {
	inactive := testutil.NewPrincipal().
		WithKind(principal.KindAdmin).WithID(2).WithEmail("retired@example.com").
		Inactive().Build()

	for name, email := range map[string]string{
		"unknown email":  "stranger@example.com",
		"inactive admin": "retired@example.com",
	} {
		sso := &fakeSSO{identity: domainauth.Identity{Subject: "idp|2", Email: email}}
		svc, _ := newAuthFixture(t, stores{
			principal.KindAdmin: newFakeStore(principal.KindAdmin, inactive),
		}, sso)

		_, err := svc.CompleteSSO(context.Background(), CompleteSSOInput{Code: "c", State: "s", Nonce: "n"})
		assert.ErrorIs(t, err, ErrInvalidCredentials, name)
	}
}

func TestLogin_SaveFailurePropagates(t *testing.T) {
	staff := testutil.Staff(1, "staff@example.com", "")
	staff.SecretHash = "pw"

	sessions := newMemorySessionStore()
	sessions.saveFunc = func(context.Context, domainauth.Session) error {
		return errors.New("redis down")
	}
	resolver := newTestResolver(t, stores{
		principal.KindStaff: newFakeStore(principal.KindStaff, staff),
	}, nil)
	svc, err := NewAuthService(AuthServiceOptions{Resolver: resolver, Sessions: sessions})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "staff@example.com", "pw")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}
