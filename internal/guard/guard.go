// Package guard evaluates route access against the session manager's state.
// Evaluation is pure: it computes a verdict with an optional redirect target,
// and the caller applies it. Two layers exist: a coarse edge check that only
// looks at cookie presence, and the full verdict that looks at identity and
// role.
package guard

import (
	"strings"

	domainauth "github.com/predictlab/forecast-ui-api/internal/domain/auth"
	"github.com/predictlab/forecast-ui-api/internal/session"
)

// Decision is the outcome of evaluating a route requirement.
type Decision int

const (
	// DecisionPending means auth state is still resolving. Callers must
	// treat this as "wait", never as a denial.
	DecisionPending Decision = iota
	DecisionGranted
	DecisionDenied
)

func (d Decision) String() string {
	switch d {
	case DecisionPending:
		return "pending"
	case DecisionGranted:
		return "granted"
	case DecisionDenied:
		return "denied"
	default:
		return "unknown"
	}
}

// Default redirect targets. An unauthenticated visitor goes to sign-in; an
// authenticated visitor lacking the required role goes to the dashboard,
// never back to sign-in.
const (
	SignInPath    = "/auth/signin"
	DashboardPath = "/dashboard"
)

// Requirement describes what a route demands. SignInPath and DashboardPath
// override the default denial redirect targets; empty values fall back to
// the package constants.
type Requirement struct {
	RequireIdentity bool
	// RequireRole implies RequireIdentity when set.
	RequireRole domainauth.Role

	SignInPath    string
	DashboardPath string
}

func (r Requirement) signInPath() string {
	if r.SignInPath != "" {
		return r.SignInPath
	}
	return SignInPath
}

func (r Requirement) dashboardPath() string {
	if r.DashboardPath != "" {
		return r.DashboardPath
	}
	return DashboardPath
}

// Verdict is the evaluation result. RedirectTo is only set on denial; the
// caller decides how to apply it (HTTP redirect, JSON error, client
// navigation). Unauthenticated marks a denial caused by a missing identity
// rather than an insufficient role.
type Verdict struct {
	Decision        Decision
	RedirectTo      string
	Unauthenticated bool
}

// Granted reports whether access was granted.
func (v Verdict) Granted() bool { return v.Decision == DecisionGranted }

// Evaluate computes the verdict for a requirement against the current
// session state.
func Evaluate(state session.State, req Requirement) Verdict {
	if !req.RequireIdentity && req.RequireRole == "" {
		return Verdict{Decision: DecisionGranted}
	}
	if state.Loading {
		return Verdict{Decision: DecisionPending}
	}
	if state.Identity == nil {
		return Verdict{Decision: DecisionDenied, RedirectTo: req.signInPath(), Unauthenticated: true}
	}
	if req.RequireRole != "" && state.Role != req.RequireRole {
		return Verdict{Decision: DecisionDenied, RedirectTo: req.dashboardPath()}
	}
	return Verdict{Decision: DecisionGranted}
}

// ProtectedPrefix reports whether path falls under one of the protected
// prefixes. Matching is segment-aware: "/dashboard" covers "/dashboard" and
// "/dashboard/reports" but not "/dashboards".
func ProtectedPrefix(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		prefix = strings.TrimRight(prefix, "/")
		if prefix == "" {
			continue
		}
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}
