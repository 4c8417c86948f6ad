package bootstrap

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/campuskit/identity-api/config"
	"github.com/campuskit/identity-api/internal/adapters/devauth"
	"github.com/campuskit/identity-api/internal/adapters/oidc"
	redisadapter "github.com/campuskit/identity-api/internal/adapters/redis"
	"github.com/campuskit/identity-api/internal/data"
	"github.com/campuskit/identity-api/internal/data/cryptoutil"
	"github.com/campuskit/identity-api/internal/observability/statsd"
	"github.com/campuskit/identity-api/internal/ports"
	"github.com/campuskit/identity-api/internal/service"
)

// AuthDeps contains dependencies for building the identity services.
type AuthDeps struct {
	Auth        config.AuthConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Metrics     statsd.Sink
	Logger      *slog.Logger
}

// AuthServices bundles the constructed identity services.
type AuthServices struct {
	Resolver *service.Resolver
	Auth     *service.AuthService
	Groups   *data.GroupRepo
	Hasher   cryptoutil.BcryptHasher
}

// BuildAuthServices wires the identity stores, resolver, session store, and
// (when configured) the administrator SSO provider.
func BuildAuthServices(deps AuthDeps) (*AuthServices, error) {
	if deps.DB == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	if deps.RedisClient == nil {
		return nil, fmt.Errorf("redis client is required")
	}

	groups := data.NewGroupRepo(deps.DB)
	hasher := cryptoutil.NewBcryptHasher(deps.Auth.BcryptCost)

	resolver, err := service.NewResolver(service.ResolverOptions{
		Stores:  data.KindStores(deps.DB),
		Groups:  groups,
		Secrets: hasher,
		Metrics: deps.Metrics,
		Logger:  deps.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build resolver: %w", err)
	}

	sso, err := buildSSOProvider(deps.Auth, deps.Logger)
	if err != nil {
		return nil, err
	}

	authSvc, err := service.NewAuthService(service.AuthServiceOptions{
		Resolver:   resolver,
		Sessions:   redisadapter.NewSessionStore(deps.RedisClient),
		SSO:        sso,
		SessionTTL: deps.Auth.SessionTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("build auth service: %w", err)
	}

	return &AuthServices{
		Resolver: resolver,
		Auth:     authSvc,
		Groups:   groups,
		Hasher:   hasher,
	}, nil
}

// buildSSOProvider returns nil when the mode is local: password login only.
//
//nolint:ireturn // provider selection is mode-dependent.
func buildSSOProvider(cfg config.AuthConfig, logger *slog.Logger) (ports.AuthProvider, error) {
	switch cfg.Mode {
	case config.AuthModeLocal:
		return nil, nil

	case config.AuthModeOIDC:
		if cfg.OIDC.DiscoveryURL == "" || cfg.OIDC.ClientID == "" || cfg.OIDC.ClientSecret == "" {
			return nil, fmt.Errorf("auth mode oidc requires OIDC_DISCOVERY_URL, OIDC_CLIENT_ID, and OIDC_CLIENT_SECRET")
		}
		prov, err := oidc.NewProvider(oidc.ProviderConfig{
			ClientID:     cfg.OIDC.ClientID,
			ClientSecret: cfg.OIDC.ClientSecret,
			RedirectURL:  cfg.OIDC.RedirectURL,
			Scope:        cfg.OIDC.Scope,
			DiscoveryURL: cfg.OIDC.DiscoveryURL,
		})
		if err != nil {
			return nil, fmt.Errorf("build oidc provider: %w", err)
		}
		return prov, nil

	case config.AuthModeMock:
		if logger != nil {
			logger.Warn("mock sso provider enabled; do not use in production",
				"email", cfg.DevAuth.Email)
		}
		prov, err := devauth.NewProvider(devauth.Config{
			Email:     cfg.DevAuth.Email,
			FirstName: cfg.DevAuth.FirstName,
			LastName:  cfg.DevAuth.LastName,
		})
		if err != nil {
			return nil, fmt.Errorf("build dev auth provider: %w", err)
		}
		return prov, nil

	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.Mode)
	}
}

// BuildMetrics creates the StatsD sink from observability config. Returns a
// disabled client when metrics are off, so callers never need a nil check.
func BuildMetrics(cfg config.MetricsConfig, logger *slog.Logger) (*statsd.Client, error) {
	client, err := statsd.NewClient(statsd.Config{
		Enabled: cfg.IsEnabled(),
		Address: cfg.StatsdAddress,
		Prefix:  "identity",
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build statsd client: %w", err)
	}
	return client, nil
}
