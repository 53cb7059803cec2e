package config

// HTTPConfig contains HTTP server and route guard configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// BaseURL is the base URL of the application (e.g., "https://app.example.com").
	BaseURL string `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`

	// CookieDomain is the domain for session cookies.
	// Leave empty to use the request domain.
	CookieDomain string `env:"APP_COOKIE_DOMAIN" envDefault:""`

	// ProtectedPrefixes are the path prefixes intercepted by the edge route
	// guard. Paths outside this set bypass the gate entirely.
	ProtectedPrefixes []string `env:"PROTECTED_PREFIXES" envSeparator:";" envDefault:"/dashboard;/profile;/admin"`

	// SignInPath is the unauthenticated entry point the edge guard redirects
	// to when no session cookie is present.
	SignInPath string `env:"SIGNIN_PATH" envDefault:"/auth/signin"`

	// DashboardPath is the role-appropriate fallback for authenticated users
	// denied an admin-only view.
	DashboardPath string `env:"DASHBOARD_PATH" envDefault:"/dashboard"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	if h.SignInPath == "" {
		h.SignInPath = "/auth/signin"
	}
	if h.DashboardPath == "" {
		h.DashboardPath = "/dashboard"
	}
	if len(h.ProtectedPrefixes) == 0 {
		h.ProtectedPrefixes = []string{"/dashboard", "/profile", "/admin"}
	}
}
