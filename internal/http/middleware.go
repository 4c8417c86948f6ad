package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	domainauth "github.com/campuskit/identity-api/internal/domain/auth"
	"github.com/campuskit/identity-api/internal/domain/principal"
	"github.com/campuskit/identity-api/internal/observability/statsd"
	"github.com/campuskit/identity-api/internal/ports"
	"github.com/campuskit/identity-api/internal/service"
)

// AuthServiceInterface defines the auth operations middleware and handlers need.
type AuthServiceInterface interface {
	Login(ctx context.Context, identifier, secret string) (*service.LoginResult, error)
	GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error)
	CurrentPrincipal(ctx context.Context, sess *domainauth.Session) (*principal.Principal, error)
	Logout(ctx context.Context, sessionID string) error
	SSOEnabled() bool
	BeginSSO(ctx context.Context, redirectURL string) (*service.BeginSSOResult, error)
	CompleteSSO(ctx context.Context, input service.CompleteSSOInput) (*service.LoginResult, error)
}

// PermissionChecker is the subset of the resolver the HTTP layer consumes.
type PermissionChecker interface {
	HasPermission(ctx context.Context, p *principal.Principal, perm string, obj any) (bool, error)
	AllPermissions(ctx context.Context, p *principal.Principal, obj any) (map[string]struct{}, error)
	ResolveByID(ctx context.Context, rawID string, sctx ports.SessionContext) (*principal.Principal, error)
}

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

// Metrics returns a middleware that emits request timing to the metrics sink.
func Metrics(sink statsd.Sink) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if sink == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			sink.Timing("http.request", time.Since(start), map[string]string{"method": r.Method})
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth returns a middleware that requires an authenticated principal.
// The session is re-hydrated into a fresh principal on every request; a
// session whose record no longer exists (or whose kind tag points at a table
// without that id) is rejected.
func RequireAuth(authSvc AuthServiceInterface, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, p := resolveRequest(r, authSvc, cookieName)
			if sess == nil || p == nil || !p.Active {
				WriteError(w, ErrorParams{
					Code:    http.StatusUnauthorized,
					ErrCode: "authentication_required",
					Err:     errors.New("authentication required"),
				})
				return
			}

			ctx := SetSessionInContext(r.Context(), sess)
			ctx = SetPrincipalInContext(ctx, p)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequirePermission returns a middleware that requires the authenticated
// principal to hold the given permission string. Must run inside RequireAuth.
func RequirePermission(perms PermissionChecker, perm string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := PrincipalFromContext(r.Context())
			ok, err := perms.HasPermission(r.Context(), p, perm, nil)
			if err != nil {
				WriteError(w, ErrorParams{
					Code:    http.StatusInternalServerError,
					ErrCode: "permission_check_failed",
					Err:     errors.New("permission check failed"),
				})
				return
			}
			if !ok {
				WriteError(w, ErrorParams{
					Code:    http.StatusForbidden,
					ErrCode: "insufficient_permissions",
					Err:     errors.New("insufficient permissions"),
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// resolveRequest pulls the session cookie and re-hydrates its principal.
// Any failure yields (nil, nil); the middleware turns that into a 401.
func resolveRequest(r *http.Request, authSvc AuthServiceInterface, cookieName string) (*domainauth.Session, *principal.Principal) {
	cookie, err := r.Cookie(cookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}
	sess, err := authSvc.GetSession(r.Context(), cookie.Value)
	if err != nil || sess == nil {
		return nil, nil
	}
	p, err := authSvc.CurrentPrincipal(r.Context(), sess)
	if err != nil || p == nil {
		return nil, nil
	}
	return sess, p
}
