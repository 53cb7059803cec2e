package httpx

import (
	"log/slog"
	"net/http"

	"github.com/predictlab/forecast-ui-api/config"
	"github.com/predictlab/forecast-ui-api/internal/guard"
	"github.com/predictlab/forecast-ui-api/internal/policy"
	"github.com/predictlab/forecast-ui-api/internal/ports"
	"github.com/predictlab/forecast-ui-api/internal/service"
	"github.com/predictlab/forecast-ui-api/internal/session"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Manager       *session.Manager
	Sessions      ports.SessionStore
	Roles         ports.RoleStore
	Policy        *policy.Engine
	Predictions   *service.PredictionService
	SourceFiles   *service.SourceFileService
	Subscriptions *service.SubscriptionService
	HTTP          config.HTTPConfig
	Logger        *slog.Logger // Optional
}

// NewRouter creates and configures the HTTP router with the edge guard
// applied outermost.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	authHandlers := &AuthHandlers{
		Manager:      services.Manager,
		Sessions:     services.Sessions,
		CookieDomain: services.HTTP.CookieDomain,
		Logger:       services.Logger,
	}
	predictionHandlers := &PredictionHandlers{Svc: services.Predictions, Policy: services.Policy}
	sourceFileHandlers := &SourceFileHandlers{Svc: services.SourceFiles, Policy: services.Policy}
	subscriptionHandlers := &SubscriptionHandlers{Svc: services.Subscriptions, Policy: services.Policy}
	userHandlers := &UserHandlers{Roles: services.Roles, Policy: services.Policy}

	// Denial redirects honor the configured paths on every guarded route.
	authRequired := RequireVerdict(services.Sessions, guard.Requirement{
		RequireIdentity: true,
		SignInPath:      services.HTTP.SignInPath,
		DashboardPath:   services.HTTP.DashboardPath,
	})

	registerAuthRoutes(mux, authHandlers, authRequired)
	registerPredictionRoutes(mux, predictionHandlers, services.Sessions)
	registerSourceFileRoutes(mux, sourceFileHandlers, services.Sessions)
	registerSubscriptionRoutes(mux, subscriptionHandlers, services.Sessions)
	mux.Handle("GET /api/users/{userID}", authRequired(http.HandlerFunc(userHandlers.Get)))

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	edge := EdgeGuard(EdgeGuardConfig{
		ProtectedPrefixes: services.HTTP.ProtectedPrefixes,
		SignInPath:        services.HTTP.SignInPath,
	})
	return edge(mux)
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers, authed func(http.Handler) http.Handler) {
	mux.HandleFunc("POST /auth/signin", h.SignIn)
	mux.HandleFunc("POST /auth/signup", h.SignUp)
	mux.HandleFunc("GET /auth/federated/start", h.FederatedStart)
	mux.HandleFunc("GET /auth/federated/callback", h.FederatedCallback)
	mux.HandleFunc("POST /auth/logout", h.Logout)
	mux.HandleFunc("GET /auth/status", h.Status)
	mux.HandleFunc("POST /auth/clear-error", h.ClearError)

	// Profile mutations require an established session.
	mux.Handle("POST /auth/profile", authed(http.HandlerFunc(h.UpdateProfile)))
	mux.Handle("POST /auth/email", authed(http.HandlerFunc(h.UpdateEmail)))
	mux.Handle("POST /auth/password", authed(http.HandlerFunc(h.UpdatePassword)))
}

func registerPredictionRoutes(mux *http.ServeMux, h *PredictionHandlers, sessions ports.SessionStore) {
	// Resource-level decisions are made by the policy engine; the
	// middleware only establishes the subject.
	authed := OptionalAuth(sessions)
	mux.Handle("GET /api/predictions", authed(http.HandlerFunc(h.List)))
	mux.Handle("GET /api/predictions/{id}", authed(http.HandlerFunc(h.GetByID)))
	mux.Handle("POST /api/predictions", authed(http.HandlerFunc(h.Create)))
	mux.Handle("PUT /api/predictions/{id}", authed(http.HandlerFunc(h.Update)))
	mux.Handle("DELETE /api/predictions/{id}", authed(http.HandlerFunc(h.Delete)))
	mux.Handle("POST /api/sourcefiles/{id}/predictions", authed(http.HandlerFunc(h.Ingest)))
}

func registerSourceFileRoutes(mux *http.ServeMux, h *SourceFileHandlers, sessions ports.SessionStore) {
	authed := OptionalAuth(sessions)
	mux.Handle("POST /api/sourcefiles", authed(http.HandlerFunc(h.Create)))
	mux.Handle("GET /api/sourcefiles", authed(http.HandlerFunc(h.List)))
	mux.Handle("GET /api/sourcefiles/{id}", authed(http.HandlerFunc(h.GetByID)))
	mux.Handle("PUT /api/sourcefiles/{id}", authed(http.HandlerFunc(h.Update)))
	mux.Handle("DELETE /api/sourcefiles/{id}", authed(http.HandlerFunc(h.Delete)))
}

func registerSubscriptionRoutes(mux *http.ServeMux, h *SubscriptionHandlers, sessions ports.SessionStore) {
	authed := OptionalAuth(sessions)
	mux.Handle("GET /api/subscriptions/{userID}", authed(http.HandlerFunc(h.Get)))
	mux.Handle("PUT /api/subscriptions/{userID}", authed(http.HandlerFunc(h.Set)))
}
