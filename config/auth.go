package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode represents the identity provider mode for the application.
type AuthMode string

const (
	// AuthModeIdP uses the external identity provider's REST API.
	AuthModeIdP AuthMode = "idp"
	// AuthModeMock uses a mock in-process provider (development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "idp", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: idp, mock)", v)
	}
}

// IdPConfig contains the external identity provider's REST API configuration.
type IdPConfig struct {
	// BaseURL is the provider's account API endpoint.
	BaseURL string `env:"BASE_URL"`
	// APIKey authenticates this application to the provider.
	APIKey string `env:"API_KEY"`
}

// FederatedConfig contains OIDC configuration for federated sign-in.
type FederatedConfig struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	RedirectURL  string `env:"REDIRECT_URL"  envDefault:"http://localhost:8080/auth/federated/callback"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email"`
	DiscoveryURL string `env:"DISCOVERY_URL"`
}

// MockAuthConfig controls the mock provider identity.
// Used when AUTH_MODE=mock for development and testing.
type MockAuthConfig struct {
	UserID      string `env:"USER_ID"      envDefault:"dev-user"`
	Email       string `env:"EMAIL"        envDefault:"dev@example.com"`
	DisplayName string `env:"DISPLAY_NAME" envDefault:"Dev User"`
}

// AuthConfig groups all authentication and role-assignment configuration.
type AuthConfig struct {
	// Mode determines which identity provider adapter to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"idp"`

	// IdP configuration (used when Mode=idp).
	IdP IdPConfig `envPrefix:"IDP_"`

	// Federated OIDC configuration for the federated sign-in flow.
	Federated FederatedConfig `envPrefix:"OAUTH_"`

	// Mock configuration (used when Mode=mock).
	Mock MockAuthConfig `envPrefix:"MOCK_AUTH_"`

	// AdminEmails is the allow-list of identities granted the admin role at
	// provisioning time. Everyone else gets the user role. This is
	// configuration data, not application logic.
	AdminEmails []string `env:"ADMIN_EMAILS" envSeparator:";"`

	// ServiceAccountID is the distinguished backend-ingestion identity that
	// the authorization policy grants unconditional access.
	ServiceAccountID string `env:"SERVICE_ACCOUNT_ID" envDefault:"svc-ingest"`

	// SessionTTL is the fixed transport session lifetime. Defaults to 14
	// days; independent of the provider credential's own expiry.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"336h"`

	// RoleCacheTTL bounds how long a resolved role may be served from the
	// in-process cache before a fresh Role Store read.
	RoleCacheTTL time.Duration `env:"ROLE_CACHE_TTL" envDefault:"5m"`

	// RoleCacheSize bounds the number of cached role entries.
	RoleCacheSize int `env:"ROLE_CACHE_SIZE" envDefault:"1024"`
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	if a.SessionTTL <= 0 {
		a.SessionTTL = 14 * 24 * time.Hour
	}
	if a.RoleCacheTTL <= 0 {
		a.RoleCacheTTL = 5 * time.Minute
	}
	if a.RoleCacheSize <= 0 {
		a.RoleCacheSize = 1024
	}

	// Normalize the allow-list so membership checks are case-insensitive.
	cleaned := make([]string, 0, len(a.AdminEmails))
	for _, e := range a.AdminEmails {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			cleaned = append(cleaned, e)
		}
	}
	a.AdminEmails = cleaned
}
