package bootstrap

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/predictlab/forecast-ui-api/config"
	"github.com/predictlab/forecast-ui-api/internal/adapters/authroles"
	"github.com/predictlab/forecast-ui-api/internal/adapters/devauth"
	"github.com/predictlab/forecast-ui-api/internal/adapters/idp"
	"github.com/predictlab/forecast-ui-api/internal/adapters/oidc"
	redisstore "github.com/predictlab/forecast-ui-api/internal/adapters/redis"
	"github.com/predictlab/forecast-ui-api/internal/data"
	"github.com/predictlab/forecast-ui-api/internal/policy"
	"github.com/predictlab/forecast-ui-api/internal/ports"
	"github.com/predictlab/forecast-ui-api/internal/service"
	"github.com/predictlab/forecast-ui-api/internal/session"
)

// identityStack pairs a provider with its identity event feed. Both concrete
// adapters implement the two ports on the same value.
type identityStack struct {
	Provider ports.IdentityProvider
	Events   ports.IdentityEvents
}

// buildIdentityProvider selects the identity provider adapter by AUTH_MODE.
func buildIdentityProvider(cfg config.AuthConfig, logger *slog.Logger) (identityStack, error) {
	switch cfg.Mode {
	case config.AuthModeMock:
		if logger != nil {
			logger.Warn("using mock identity provider", "user", cfg.Mock.Email)
		}
		p, err := devauth.NewProvider(devauth.Config{
			UserID:      cfg.Mock.UserID,
			Email:       cfg.Mock.Email,
			DisplayName: cfg.Mock.DisplayName,
		})
		if err != nil {
			return identityStack{}, fmt.Errorf("build mock provider: %w", err)
		}
		return identityStack{Provider: p, Events: p}, nil
	case config.AuthModeIdP:
		c, err := idp.NewClient(idp.Config{
			BaseURL: cfg.IdP.BaseURL,
			APIKey:  cfg.IdP.APIKey,
		})
		if err != nil {
			return identityStack{}, fmt.Errorf("build idp client: %w", err)
		}
		return identityStack{Provider: c, Events: c}, nil
	default:
		return identityStack{}, fmt.Errorf("unsupported auth mode: %q", cfg.Mode)
	}
}

// buildFederatedProvider constructs the OIDC provider when federated sign-in
// is configured. A missing client ID disables the flow rather than failing
// startup.
//
//nolint:ireturn // the port keeps the session manager decoupled from the adapter.
func buildFederatedProvider(cfg config.FederatedConfig, logger *slog.Logger) (ports.FederatedProvider, error) {
	if cfg.ClientID == "" {
		if logger != nil {
			logger.Info("federated sign-in disabled", "reason", "no OAuth client ID configured")
		}
		return nil, nil //nolint:nilnil // nil provider means the flow is off.
	}

	p, err := oidc.NewProvider(oidc.ProviderConfig{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Scope:        cfg.Scope,
		DiscoveryURL: cfg.DiscoveryURL,
	})
	if err != nil {
		return nil, fmt.Errorf("build oidc provider: %w", err)
	}
	return p, nil
}

// AuthStackConfig contains dependencies for the authentication stack.
type AuthStackConfig struct {
	Auth        config.AuthConfig
	DB          *sql.DB
	Roles       ports.RoleStore // Optional, overrides the Postgres role store (tests)
	Sessions    ports.SessionStore
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// AuthStack groups the session lifecycle and authorization components.
type AuthStack struct {
	Manager  *session.Manager
	Sessions ports.SessionStore
	Roles    ports.RoleStore
	Resolver *service.RoleResolverService
	Policy   *policy.Engine
}

// BuildAuthStack wires the identity provider, session manager, role resolver,
// and policy engine from configuration.
func BuildAuthStack(cfg AuthStackConfig) (*AuthStack, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	identity, err := buildIdentityProvider(cfg.Auth, logger)
	if err != nil {
		return nil, err
	}

	federated, err := buildFederatedProvider(cfg.Auth.Federated, logger)
	if err != nil {
		return nil, err
	}

	roles := cfg.Roles
	if roles == nil {
		if cfg.DB == nil {
			return nil, errors.New("auth stack requires a role store or database handle")
		}
		roles = data.NewRoleStore(cfg.DB)
	}

	sessions := cfg.Sessions
	if sessions == nil {
		sessions = redisstore.NewSessionStore(cfg.RedisClient)
	}

	resolver := service.NewRoleResolverService(service.RoleResolverOptions{
		Store: roles,
		Config: service.RoleResolverConfig{
			CacheSize: cfg.Auth.RoleCacheSize,
			CacheTTL:  cfg.Auth.RoleCacheTTL,
		},
		Logger: logger,
	})

	manager, err := session.NewManager(session.ManagerOptions{
		Providers: session.Providers{
			Identity:  identity.Provider,
			Events:    identity.Events,
			Federated: federated,
		},
		Stores: session.Stores{Sessions: sessions, Roles: roles},
		Roles: session.RoleOptions{
			Assigner: authroles.AllowlistRoleMapper{AdminEmails: cfg.Auth.AdminEmails},
			Resolver: resolver,
		},
		SessionTTL: cfg.Auth.SessionTTL,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build session manager: %w", err)
	}

	engine, err := policy.NewEngine(policy.EngineOptions{
		Resolver:         resolver,
		ServiceAccountID: cfg.Auth.ServiceAccountID,
		Logger:           logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build policy engine: %w", err)
	}

	return &AuthStack{
		Manager:  manager,
		Sessions: sessions,
		Roles:    roles,
		Resolver: resolver,
		Policy:   engine,
	}, nil
}
