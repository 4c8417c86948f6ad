package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	domainauth "github.com/campuskit/identity-api/internal/domain/auth"
	"github.com/campuskit/identity-api/internal/service"
)

// AuthHandlers provides HTTP handlers for authentication operations.
type AuthHandlers struct {
	Svc           AuthServiceInterface
	CookieName    string
	CookieDomain  string
	SecureCookies bool
	Logger        *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func (h *AuthHandlers) cookieName() string {
	if h.CookieName == "" {
		return "session_id"
	}
	return h.CookieName
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Secret     string `json:"secret"`
}

type sessionResponse struct {
	PrincipalID   int64     `json:"principal_id"`
	PrincipalKind string    `json:"principal_kind"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Email         string    `json:"email"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// Login handles password login.
// POST /auth/login with {"identifier": ..., "secret": ...}.
//
// Every authentication failure renders the same generic response so the
// endpoint cannot be used to enumerate emails or phone numbers.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	result, err := h.Svc.Login(r.Context(), strings.TrimSpace(req.Identifier), req.Secret)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			WriteError(w, ErrorParams{
				Code:    http.StatusUnauthorized,
				ErrCode: "invalid_credentials",
				Err:     service.ErrInvalidCredentials,
			})
			return
		}
		h.logger().ErrorContext(r.Context(), "login failed", "error", err)
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "login_failed",
			Err:     errors.New("login failed"),
		})
		return
	}

	h.setSessionCookie(w, result.Session)
	WriteJSON(w, http.StatusOK, toSessionResponse(result.Session))
}

// Logout invalidates the server-side session and clears the cookie.
// POST /auth/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(h.cookieName()); err == nil {
		if logoutErr := h.Svc.Logout(r.Context(), cookie.Value); logoutErr != nil {
			h.logger().WarnContext(r.Context(), "logout failed", "error", logoutErr)
		}
	}
	h.clearSessionCookie(w)
	WriteJSON(w, http.StatusOK, map[string]string{"status": "signed_out"})
}

// Me returns the resolved principal for the current session.
// GET /auth/me (requires auth).
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	p := PrincipalFromContext(r.Context())
	if p.IsAnonymous() {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"kind":       string(p.Kind),
		"id":         p.ID,
		"first_name": p.FirstName,
		"last_name":  p.LastName,
		"email":      p.Email,
		"active":     p.Active,
	})
}

// Status reports whether the request carries a live session.
// GET /auth/status.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(h.cookieName())
	if err != nil || cookie.Value == "" {
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	sess, err := h.Svc.GetSession(r.Context(), cookie.Value)
	if err != nil || sess == nil {
		h.clearSessionCookie(w)
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"session":       toSessionResponse(*sess),
	})
}

// SSOBegin initiates the administrator SSO flow.
// GET /auth/sso/login?redirect_uri=<optional relative path>.
func (h *AuthHandlers) SSOBegin(w http.ResponseWriter, r *http.Request) {
	redirectURI := safeRedirectPath(r.URL.Query().Get("redirect_uri"))

	result, err := h.Svc.BeginSSO(r.Context(), redirectURI)
	if err != nil {
		h.logger().ErrorContext(r.Context(), "sso begin failed", "error", err)
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "sso_begin_failed",
			Err:     errors.New("sso begin failed"),
		})
		return
	}

	h.setFlowCookie(w, "sso_state", result.State)
	h.setFlowCookie(w, "sso_nonce", result.Nonce)
	h.setFlowCookie(w, "sso_redirect", redirectURI)
	http.Redirect(w, r, result.AuthURL, http.StatusFound)
}

// SSOCallback completes the administrator SSO flow.
// GET /auth/sso/callback?code=<code>&state=<state>.
func (h *AuthHandlers) SSOCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	if code == "" || state == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "missing_params",
			Err:     errors.New("code and state are required"),
		})
		return
	}

	stateCookie, err := r.Cookie("sso_state")
	if err != nil || stateCookie.Value != state {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_state",
			Err:     errors.New("invalid or missing state parameter"),
		})
		return
	}
	nonceCookie, err := r.Cookie("sso_nonce")
	if err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "missing_nonce",
			Err:     errors.New("missing nonce"),
		})
		return
	}

	result, err := h.Svc.CompleteSSO(r.Context(), service.CompleteSSOInput{
		Code:  code,
		State: state,
		Nonce: nonceCookie.Value,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			WriteError(w, ErrorParams{
				Code:    http.StatusUnauthorized,
				ErrCode: "invalid_credentials",
				Err:     service.ErrInvalidCredentials,
			})
			return
		}
		h.logger().ErrorContext(r.Context(), "sso callback failed", "error", err)
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "sso_completion_failed",
			Err:     errors.New("sso completion failed"),
		})
		return
	}

	h.setSessionCookie(w, result.Session)
	h.clearFlowCookie(w, "sso_state")
	h.clearFlowCookie(w, "sso_nonce")

	redirectURI := "/"
	if c, cerr := r.Cookie("sso_redirect"); cerr == nil {
		redirectURI = safeRedirectPath(c.Value)
	}
	h.clearFlowCookie(w, "sso_redirect")
	http.Redirect(w, r, redirectURI, http.StatusFound)
}

func (h *AuthHandlers) setSessionCookie(w http.ResponseWriter, sess domainauth.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName(),
		Value:    sess.ID,
		Path:     "/",
		Domain:   h.CookieDomain,
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandlers) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName(),
		Value:    "",
		Path:     "/",
		Domain:   h.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandlers) setFlowCookie(w http.ResponseWriter, name, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandlers) clearFlowCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func toSessionResponse(sess domainauth.Session) sessionResponse {
	return sessionResponse{
		PrincipalID:   sess.PrincipalID,
		PrincipalKind: sess.PrincipalKind,
		FirstName:     sess.FirstName,
		LastName:      sess.LastName,
		Email:         sess.Email,
		ExpiresAt:     sess.ExpiresAt,
	}
}

// safeRedirectPath allows only relative paths (no scheme or host).
func safeRedirectPath(raw string) string {
	if raw == "" {
		return "/"
	}
	u, err := url.Parse(raw)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(u.Path, "//") {
		return "/"
	}
	return raw
}
