package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	domainauth "github.com/predictlab/forecast-ui-api/internal/domain/auth"
	"github.com/predictlab/forecast-ui-api/internal/guard"
	"github.com/predictlab/forecast-ui-api/internal/ports"
	"github.com/predictlab/forecast-ui-api/internal/session"
)

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

// EdgeGuardConfig configures the coarse cookie-presence gate.
type EdgeGuardConfig struct {
	ProtectedPrefixes []string
	SignInPath        string
}

// EdgeGuard returns a middleware implementing the outermost access layer: on
// protected path prefixes it checks only that a session cookie exists and
// redirects to sign-in otherwise. It never validates the cookie's value; the
// full check happens downstream.
func EdgeGuard(cfg EdgeGuardConfig) func(http.Handler) http.Handler {
	signIn := cfg.SignInPath
	if signIn == "" {
		signIn = guard.SignInPath
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !guard.ProtectedPrefix(r.URL.Path, cfg.ProtectedPrefixes) {
				next.ServeHTTP(w, r)
				return
			}
			if _, err := r.Cookie(domainauth.SessionCookieName); err != nil {
				http.Redirect(w, r, signIn, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth returns a middleware that requires a valid session, evaluated
// through the route guard. The verdict is applied explicitly via ApplyVerdict.
func RequireAuth(sessions ports.SessionStore) func(http.Handler) http.Handler {
	return RequireVerdict(sessions, guard.Requirement{RequireIdentity: true})
}

// RequireRole returns a middleware that requires a specific role.
func RequireRole(sessions ports.SessionStore, role domainauth.Role) func(http.Handler) http.Handler {
	return RequireVerdict(sessions, guard.Requirement{RequireIdentity: true, RequireRole: role})
}

// RequireVerdict returns a middleware enforcing an arbitrary guard
// requirement, including configured denial redirect targets.
func RequireVerdict(sessions ports.SessionStore, req guard.Requirement) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := getSessionFromRequest(r, sessions)
			verdict := guard.Evaluate(stateFromSession(sess), req)
			if !ApplyVerdict(w, r, verdict) {
				return
			}
			ctx := SetSessionInContext(r.Context(), sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth returns a middleware that attaches the session to the request
// context when present, and passes through otherwise.
func OptionalAuth(sessions ports.SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if sess := getSessionFromRequest(r, sessions); sess != nil {
				r = r.WithContext(SetSessionInContext(r.Context(), sess))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ApplyVerdict applies a guard verdict to the response. Returns true when the
// request may proceed. Denials become a redirect for browser navigation and a
// JSON error for API requests; pending becomes a retryable 503 so a resolving
// auth state is never treated as a denial.
func ApplyVerdict(w http.ResponseWriter, r *http.Request, v guard.Verdict) bool {
	switch v.Decision {
	case guard.DecisionGranted:
		return true
	case guard.DecisionPending:
		w.Header().Set("Retry-After", "1")
		WriteError(w, ErrorParams{
			Code:    http.StatusServiceUnavailable,
			ErrCode: "auth_pending",
			Err:     errors.New("authentication state is resolving"),
		})
		return false
	default:
		if isBrowserRequest(r) && v.RedirectTo != "" {
			http.Redirect(w, r, v.RedirectTo, http.StatusSeeOther)
			return false
		}
		if v.Unauthenticated {
			WriteError(w, ErrorParams{
				Code:    http.StatusUnauthorized,
				ErrCode: "authentication_required",
				Err:     errors.New(errMsgAuthRequired),
			})
			return false
		}
		WriteError(w, ErrorParams{
			Code:    http.StatusForbidden,
			ErrCode: "insufficient_permissions",
			Err:     errors.New("insufficient permissions"),
		})
		return false
	}
}

// stateFromSession lifts a transport session into guard input. A session
// looked up from the store is always fully resolved, so loading is false.
func stateFromSession(sess *domainauth.Session) session.State {
	if sess == nil {
		return session.State{}
	}
	return session.State{
		Identity: &domainauth.Identity{
			ID:          sess.UserID,
			Email:       sess.Email,
			DisplayName: sess.DisplayName,
		},
		Role: sess.Role,
	}
}

// getSessionFromRequest retrieves and validates a session from the request.
func getSessionFromRequest(r *http.Request, sessions ports.SessionStore) *domainauth.Session {
	cookie, err := r.Cookie(domainauth.SessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	sess, err := sessions.Get(r.Context(), cookie.Value)
	if err != nil {
		return nil
	}
	return &sess
}

// isBrowserRequest distinguishes navigation requests from API calls. API
// routes and clients preferring JSON get JSON errors.
func isBrowserRequest(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return false
	}
	accept := r.Header.Get("Accept")
	if accept == "" {
		return true
	}
	return strings.Contains(accept, "text/html")
}
