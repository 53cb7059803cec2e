package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	domainauth "github.com/predictlab/forecast-ui-api/internal/domain/auth"
	"github.com/predictlab/forecast-ui-api/internal/session"
)

func identityState(role domainauth.Role) session.State {
	return session.State{
		Identity: &domainauth.Identity{ID: "user-1", Email: "user@example.com"},
		Role:     role,
	}
}

func TestEvaluate_PublicRouteAlwaysGranted(t *testing.T) {
	v := Evaluate(session.State{Loading: true}, Requirement{})
	assert.Equal(t, DecisionGranted, v.Decision)

	v = Evaluate(session.State{}, Requirement{})
	assert.Equal(t, DecisionGranted, v.Decision)
}

func TestEvaluate_PendingWhileLoading(t *testing.T) {
	req := Requirement{RequireIdentity: true, RequireRole: domainauth.RoleAdmin}

	// Loading never produces a denial, regardless of what else is known.
	v := Evaluate(session.State{Loading: true}, req)
	assert.Equal(t, DecisionPending, v.Decision)
	assert.Empty(t, v.RedirectTo)

	state := identityState(domainauth.RoleUser)
	state.Loading = true
	v = Evaluate(state, req)
	assert.Equal(t, DecisionPending, v.Decision)
}

func TestEvaluate_NoIdentityRedirectsToSignIn(t *testing.T) {
	v := Evaluate(session.State{}, Requirement{RequireIdentity: true})
	assert.Equal(t, DecisionDenied, v.Decision)
	assert.Equal(t, SignInPath, v.RedirectTo)
	assert.True(t, v.Unauthenticated)
	assert.False(t, v.Granted())
}

func TestEvaluate_RoleMismatchRedirectsToDashboard(t *testing.T) {
	v := Evaluate(identityState(domainauth.RoleUser), Requirement{RequireRole: domainauth.RoleAdmin})
	assert.Equal(t, DecisionDenied, v.Decision)
	// An authenticated visitor is never bounced back to sign-in.
	assert.Equal(t, DashboardPath, v.RedirectTo)
	assert.False(t, v.Unauthenticated)
}

func TestEvaluate_ConfiguredRedirectTargets(t *testing.T) {
	req := Requirement{
		RequireRole:   domainauth.RoleAdmin,
		SignInPath:    "/login",
		DashboardPath: "/home",
	}

	v := Evaluate(session.State{}, req)
	assert.Equal(t, DecisionDenied, v.Decision)
	assert.Equal(t, "/login", v.RedirectTo)
	assert.True(t, v.Unauthenticated)

	v = Evaluate(identityState(domainauth.RoleUser), req)
	assert.Equal(t, DecisionDenied, v.Decision)
	assert.Equal(t, "/home", v.RedirectTo)
	assert.False(t, v.Unauthenticated)
}

func TestEvaluate_Granted(t *testing.T) {
	v := Evaluate(identityState(domainauth.RoleUser), Requirement{RequireIdentity: true})
	assert.True(t, v.Granted())
	assert.Empty(t, v.RedirectTo)

	v = Evaluate(identityState(domainauth.RoleAdmin), Requirement{RequireRole: domainauth.RoleAdmin})
	assert.True(t, v.Granted())
}

func TestEvaluate_RoleRequirementImpliesIdentity(t *testing.T) {
	v := Evaluate(session.State{}, Requirement{RequireRole: domainauth.RoleAdmin})
	assert.Equal(t, DecisionDenied, v.Decision)
	assert.Equal(t, SignInPath, v.RedirectTo)
}

func TestEvaluate_UnresolvedRoleDeniesAdminRoute(t *testing.T) {
	// Identity known but role not yet resolved and not loading: the admin
	// requirement fails closed toward the dashboard.
	v := Evaluate(identityState(""), Requirement{RequireRole: domainauth.RoleAdmin})
	assert.Equal(t, DecisionDenied, v.Decision)
	assert.Equal(t, DashboardPath, v.RedirectTo)
}

func TestProtectedPrefix(t *testing.T) {
	prefixes := []string{"/dashboard", "/profile", "/admin"}

	assert.True(t, ProtectedPrefix("/dashboard", prefixes))
	assert.True(t, ProtectedPrefix("/dashboard/reports", prefixes))
	assert.True(t, ProtectedPrefix("/admin/users", prefixes))
	assert.False(t, ProtectedPrefix("/dashboards", prefixes))
	assert.False(t, ProtectedPrefix("/", prefixes))
	assert.False(t, ProtectedPrefix("/auth/signin", prefixes))
	assert.False(t, ProtectedPrefix("/pricing", prefixes))
}

func TestProtectedPrefix_TrailingSlashConfig(t *testing.T) {
	assert.True(t, ProtectedPrefix("/dashboard/x", []string{"/dashboard/"}))
	assert.False(t, ProtectedPrefix("/anything", []string{"", "/"}))
}
