package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/campuskit/identity-api/internal/domain/auth"
	"github.com/campuskit/identity-api/internal/domain/principal"
	"github.com/campuskit/identity-api/internal/ports"
)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Resolver   *Resolver
	Sessions   ports.SessionStore
	SSO        ports.AuthProvider // optional administrator SSO
	SessionTTL time.Duration      // default 8h when zero
}

// AuthService is the login flow around the resolver: it authenticates
// credentials, issues sessions, and records the principal's kind tag into the
// session so later id lookups resolve against the right table.
type AuthService struct {
	resolver   *Resolver
	sessions   ports.SessionStore
	sso        ports.AuthProvider
	sessionTTL time.Duration
}

const defaultSessionTTL = 8 * time.Hour

// ErrInvalidCredentials is the uniform login failure. Missing input, unknown
// identifiers, and wrong secrets are indistinguishable through it so the
// endpoint cannot be used to enumerate identifiers.
var ErrInvalidCredentials = errors.New("invalid credentials")

var errSessionExpired = errors.New("session expired")

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) (*AuthService, error) {
	if opts.Resolver == nil {
		return nil, errors.New("resolver is required")
	}
	if opts.Sessions == nil {
		return nil, errors.New("session store is required")
	}
	ttl := opts.SessionTTL
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &AuthService{
		resolver:   opts.Resolver,
		sessions:   opts.Sessions,
		sso:        opts.SSO,
		sessionTTL: ttl,
	}, nil
}

// LoginResult contains the issued session.
type LoginResult struct {
	Session   domainauth.Session
	Principal *principal.Principal
}

// Login authenticates a credential pair and, on success, persists a session
// tagged with the matched kind. This is the one place the kind tag is
// written.
func (s *AuthService) Login(ctx context.Context, identifier, secret string) (*LoginResult, error) {
	p, err := s.resolver.Authenticate(ctx, identifier, secret)
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if p == nil || !p.Active {
		return nil, ErrInvalidCredentials
	}
	return s.issueSession(ctx, p)
}

func (s *AuthService) issueSession(ctx context.Context, p *principal.Principal) (*LoginResult, error) {
	sess := domainauth.Session{
		ID:            uuid.New().String(),
		PrincipalID:   p.ID,
		PrincipalKind: string(p.Kind),
		FirstName:     p.FirstName,
		LastName:      p.LastName,
		Email:         p.Email,
		ExpiresAt:     time.Now().Add(s.sessionTTL),
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return &LoginResult{Session: sess, Principal: p}, nil
}

// GetSession retrieves a live session by ID, deleting it when expired.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, errors.New("session ID is required")
	}

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if sess.Expired(time.Now()) {
		if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
			return nil, errors.Join(errSessionExpired, fmt.Errorf("delete session: %w", deleteErr))
		}
		return nil, errSessionExpired
	}

	return &sess, nil
}

// CurrentPrincipal re-hydrates the principal behind a session, using the
// session itself as the kind-tag context. A nil principal means the session
// no longer maps to a live record.
func (s *AuthService) CurrentPrincipal(ctx context.Context, sess *domainauth.Session) (*principal.Principal, error) {
	if sess == nil {
		return nil, nil
	}
	p, err := s.resolver.ResolveByNumericID(ctx, sess.PrincipalID, sess)
	if err != nil {
		return nil, fmt.Errorf("resolve session principal: %w", err)
	}
	return p, nil
}

// Logout removes a session.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil // Nothing to log out
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// SSOEnabled reports whether the administrator SSO flow is configured.
func (s *AuthService) SSOEnabled() bool { return s.sso != nil }

// BeginSSOResult contains the redirect target of an initiated SSO flow.
type BeginSSOResult struct {
	AuthURL string
	State   string
	Nonce   string
}

// BeginSSO initiates the administrator SSO flow.
func (s *AuthService) BeginSSO(ctx context.Context, redirectURL string) (*BeginSSOResult, error) {
	if s.sso == nil {
		return nil, errors.New("sso is not configured")
	}
	if redirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}
	authURL, state, nonce, err := s.sso.Begin(ctx, ports.BeginInput{RedirectURL: redirectURL})
	if err != nil {
		return nil, fmt.Errorf("begin sso flow: %w", err)
	}
	return &BeginSSOResult{AuthURL: authURL, State: state, Nonce: nonce}, nil
}

// CompleteSSOInput groups parameters for completing an SSO flow.
type CompleteSSOInput struct {
	Code  string
	State string
	Nonce string
}

// CompleteSSO finishes the SSO exchange and maps the IdP identity onto the
// administrators table by email. Identities without a matching active
// administrator are rejected with the same generic error as a bad password.
func (s *AuthService) CompleteSSO(ctx context.Context, input CompleteSSOInput) (*LoginResult, error) {
	if s.sso == nil {
		return nil, errors.New("sso is not configured")
	}
	if input.Code == "" || input.State == "" || input.Nonce == "" {
		return nil, errors.New("code, state, and nonce are required")
	}

	identity, err := s.sso.Exchange(ctx, ports.ExchangeInput{
		Code:  input.Code,
		State: input.State,
		Nonce: input.Nonce,
	})
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}
	if identity.Email == "" {
		return nil, ErrInvalidCredentials
	}

	admin, err := s.resolver.stores[principal.KindAdmin].FindByEmail(ctx, identity.Email)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup administrator: %w", err)
	}
	if !admin.Active {
		return nil, ErrInvalidCredentials
	}
	return s.issueSession(ctx, admin)
}
