package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/campuskit/identity-api/internal/domain/auth"
	"github.com/campuskit/identity-api/internal/service"
	"github.com/campuskit/identity-api/internal/testutil"
)

func TestLogin_Success(t *testing.T) {
	sess := domainauth.Session{
		ID:            "sess-42",
		PrincipalID:   7,
		PrincipalKind: "parent",
		Email:         "p@example.com",
		ExpiresAt:     time.Now().Add(time.Hour),
	}
	svc := &fakeAuthService{
		loginFunc: func(_ context.Context, identifier, secret string) (*service.LoginResult, error) {
			assert.Equal(t, "p@example.com", identifier)
			assert.Equal(t, "pw", secret)
			return &service.LoginResult{Session: sess, Principal: testutil.Parent(7, "p@example.com", "")}, nil
		},
	}
	h := &AuthHandlers{Svc: svc, SecureCookies: true}

	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"identifier":" p@example.com ","secret":"pw"}`))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body sessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "parent", body.PrincipalKind)
	assert.Equal(t, int64(7), body.PrincipalID)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "session_id", cookies[0].Name)
	assert.Equal(t, "sess-42", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)
}

func TestLogin_InvalidCredentialsAreUniform(t *testing.T) {
	svc := &fakeAuthService{
		loginFunc: func(_ context.Context, _, _ string) (*service.LoginResult, error) {
			return nil, service.ErrInvalidCredentials
		},
	}
	h := &AuthHandlers{Svc: svc}

	for _, payload := range []string{
		`{"identifier":"nobody@example.com","secret":"pw"}`,
		`{"identifier":"known@example.com","secret":"wrong"}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(payload))
		rec := httptest.NewRecorder()
		h.Login(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid_credentials")
		assert.Empty(t, rec.Result().Cookies())
	}
}

func TestLogin_RejectsMalformedJSON(t *testing.T) {
	h := &AuthHandlers{Svc: &fakeAuthService{
		loginFunc: func(_ context.Context, _, _ string) (*service.LoginResult, error) {
			t.Fatal("login must not be called")
			return nil, nil
		},
	}}

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"identifier":`))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_json")
}

func TestLogout_ClearsCookie(t *testing.T) {
	var deleted string
	svc := &fakeAuthService{
		logoutFunc: func(_ context.Context, id string) error {
			deleted = id
			return nil
		},
	}
	h := &AuthHandlers{Svc: svc}

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "sess-9"})
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sess-9", deleted)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "session_id", cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestStatus(t *testing.T) {
	svc := &fakeAuthService{
		getSessionFunc: func(_ context.Context, id string) (*domainauth.Session, error) {
			if id == "live" {
				return liveSession("student", 4), nil
			}
			return nil, service.ErrInvalidCredentials
		},
	}
	h := &AuthHandlers{Svc: svc}

	// No cookie.
	rec := httptest.NewRecorder()
	h.Status(rec, httptest.NewRequest(http.MethodGet, "/auth/status", nil))
	assert.Contains(t, rec.Body.String(), `"authenticated":false`)

	// Live session.
	req := httptest.NewRequest(http.MethodGet, "/auth/status", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "live"})
	rec = httptest.NewRecorder()
	h.Status(rec, req)
	assert.Contains(t, rec.Body.String(), `"authenticated":true`)

	// Dead session clears the cookie.
	req = httptest.NewRequest(http.MethodGet, "/auth/status", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "dead"})
	rec = httptest.NewRecorder()
	h.Status(rec, req)
	assert.Contains(t, rec.Body.String(), `"authenticated":false`)
	require.NotEmpty(t, rec.Result().Cookies())
	assert.Negative(t, rec.Result().Cookies()[0].MaxAge)
}

func TestMe(t *testing.T) {
	h := &AuthHandlers{Svc: &fakeAuthService{}}

	// Unauthenticated context falls back to the anonymous principal.
	rec := httptest.NewRecorder()
	h.Me(rec, httptest.NewRequest(http.MethodGet, "/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	staff := testutil.Staff(3, "s@example.com", "")
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req = req.WithContext(SetPrincipalInContext(req.Context(), staff))
	rec = httptest.NewRecorder()
	h.Me(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"kind":"staff"`)
	assert.Contains(t, rec.Body.String(), `"id":3`)
}

func TestSafeRedirectPath(t *testing.T) {
	tests := map[string]string{
		"":                          "/",
		"/dashboard":                "/dashboard",
		"/a/b?c=d":                  "/a/b?c=d",
		"https://evil.example.com/": "/",
		"//evil.example.com/":       "/",
		"relative/path":             "/",
	}
	for in, want := range tests {
		assert.Equal(t, want, safeRedirectPath(in), in)
	}
}

func TestSSOCallback_StateMismatchRejected(t *testing.T) {
	h := &AuthHandlers{Svc: &fakeAuthService{
		completeSSOFunc: func(_ context.Context, _ service.CompleteSSOInput) (*service.LoginResult, error) {
			t.Fatal("exchange must not be called")
			return nil, nil
		},
	}}

	req := httptest.NewRequest(http.MethodGet, "/auth/sso/callback?code=c&state=tampered", nil)
	req.AddCookie(&http.Cookie{Name: "sso_state", Value: "original"})
	rec := httptest.NewRecorder()
	h.SSOCallback(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_state")
}

func TestSSOCallback_Success(t *testing.T) {
	sess := domainauth.Session{
		ID:            "sso-sess",
		PrincipalID:   1,
		PrincipalKind: "admin",
		ExpiresAt:     time.Now().Add(time.Hour),
	}
	h := &AuthHandlers{Svc: &fakeAuthService{
		completeSSOFunc: func(_ context.Context, input service.CompleteSSOInput) (*service.LoginResult, error) {
			assert.Equal(t, "c", input.Code)
			assert.Equal(t, "s", input.State)
			assert.Equal(t, "n", input.Nonce)
			return &service.LoginResult{Session: sess, Principal: testutil.Admin(1, "a@example.com")}, nil
		},
	}}

	req := httptest.NewRequest(http.MethodGet, "/auth/sso/callback?code=c&state=s", nil)
	req.AddCookie(&http.Cookie{Name: "sso_state", Value: "s"})
	req.AddCookie(&http.Cookie{Name: "sso_nonce", Value: "n"})
	req.AddCookie(&http.Cookie{Name: "sso_redirect", Value: "/admin"})
	rec := httptest.NewRecorder()
	h.SSOCallback(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/admin", rec.Header().Get("Location"))

	var sessionCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "session_id" {
			sessionCookie = c
		}
	}
	require.NotNil(t, sessionCookie)
	assert.Equal(t, "sso-sess", sessionCookie.Value)
}
