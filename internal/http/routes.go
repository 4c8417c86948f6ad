package httpx

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/campuskit/identity-api/internal/observability/statsd"
)

// RouterServices carries everything the router needs.
type RouterServices struct {
	Auth          AuthServiceInterface
	Perms         PermissionChecker
	DB            *sql.DB
	SessionCookie string
	CookieDomain  string
	SecureCookies bool
	Logger        *slog.Logger
	Metrics       statsd.Sink
}

// NewRouter builds the HTTP handler with all routes and middleware wired.
func NewRouter(svcs RouterServices) http.Handler {
	logger := svcs.Logger
	if logger == nil {
		logger = slog.Default()
	}

	authHandlers := &AuthHandlers{
		Svc:           svcs.Auth,
		CookieName:    svcs.SessionCookie,
		CookieDomain:  svcs.CookieDomain,
		SecureCookies: svcs.SecureCookies,
		Logger:        logger,
	}
	dirHandlers := &DirectoryHandlers{Perms: svcs.Perms, Logger: logger}
	healthHandlers := &HealthHandlers{DB: svcs.DB}

	requireAuth := RequireAuth(svcs.Auth, authHandlers.cookieName())
	requireDirectoryView := RequirePermission(svcs.Perms, "directory.view_principal")

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health/live", healthHandlers.Live)
	mux.HandleFunc("GET /health/ready", healthHandlers.Ready)

	mux.HandleFunc("POST /auth/login", authHandlers.Login)
	mux.HandleFunc("POST /auth/logout", authHandlers.Logout)
	mux.HandleFunc("GET /auth/status", authHandlers.Status)
	mux.Handle("GET /auth/me", requireAuth(http.HandlerFunc(authHandlers.Me)))

	if svcs.Auth.SSOEnabled() {
		mux.HandleFunc("GET /auth/sso/login", authHandlers.SSOBegin)
		mux.HandleFunc("GET /auth/sso/callback", authHandlers.SSOCallback)
	}

	mux.Handle("GET /directory/permissions",
		requireAuth(http.HandlerFunc(dirHandlers.Permissions)))
	mux.Handle("GET /directory/{kind}/{id}",
		requireAuth(requireDirectoryView(http.HandlerFunc(dirHandlers.Lookup))))

	var handler http.Handler = mux
	handler = Metrics(svcs.Metrics)(handler)
	handler = Logging(logger)(handler)
	handler = Recover(logger)(handler)
	return handler
}
