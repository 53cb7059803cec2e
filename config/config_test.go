package config

import (
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseServices(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    map[ServiceMode]bool
		expectError bool
	}{
		{
			name:     "single service - http",
			input:    "http",
			expected: map[ServiceMode]bool{ServiceModeHTTP: true},
		},
		{
			name:     "whitespace tolerated",
			input:    " http , ",
			expected: map[ServiceMode]bool{ServiceModeHTTP: true},
		},
		{
			name:        "empty string",
			input:       "",
			expectError: true,
		},
		{
			name:        "unknown service",
			input:       "http,scheduler",
			expectError: true,
		},
		{
			name:        "only separators",
			input:       ",,",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseServices(tt.input)
			if tt.expectError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestAppConfig_Defaults(t *testing.T) {
	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "/auth/signin", cfg.HTTP.SignInPath)
	assert.Equal(t, "/dashboard", cfg.HTTP.DashboardPath)
	assert.Equal(t, []string{"/dashboard", "/profile", "/admin"}, cfg.HTTP.ProtectedPrefixes)
	assert.Equal(t, AuthModeIdP, cfg.Auth.Mode)
	assert.Equal(t, 14*24*time.Hour, cfg.Auth.SessionTTL)
	assert.True(t, cfg.IsHTTPServerEnabled())
}

func TestAuthMode_UnmarshalText(t *testing.T) {
	var m AuthMode
	require.NoError(t, m.UnmarshalText([]byte("MOCK")))
	assert.Equal(t, AuthModeMock, m)

	require.NoError(t, m.UnmarshalText([]byte("idp")))
	assert.Equal(t, AuthModeIdP, m)

	assert.Error(t, m.UnmarshalText([]byte("saml")))
}

func TestAuthConfig_Sanitize_Allowlist(t *testing.T) {
	a := AuthConfig{AdminEmails: []string{"  Owner@Example.COM ", "", "ops@example.com"}}
	a.Sanitize()
	assert.Equal(t, []string{"owner@example.com", "ops@example.com"}, a.AdminEmails)
	assert.Equal(t, 14*24*time.Hour, a.SessionTTL)
	assert.Equal(t, 5*time.Minute, a.RoleCacheTTL)
	assert.Equal(t, 1024, a.RoleCacheSize)
}

func TestHTTPConfig_Sanitize(t *testing.T) {
	h := HTTPConfig{}
	h.Sanitize()
	assert.Equal(t, "/auth/signin", h.SignInPath)
	assert.NotEmpty(t, h.ProtectedPrefixes)
}
