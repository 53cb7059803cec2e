// Package policy is the resource authorization engine. Access rules are
// expressed over resource paths ("users/abc", "predictions") and actions,
// enforced by Casbin with role lookups backed by the role resolver. The
// engine fails closed: any evaluation error denies.
package policy

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"strings"

	"github.com/casbin/casbin/v2"
	casbinmodel "github.com/casbin/casbin/v2/model"

	domainauth "github.com/predictlab/forecast-ui-api/internal/domain/auth"
	"github.com/predictlab/forecast-ui-api/internal/ports"
)

//go:embed model.conf
var modelContent string

// Actions a request can perform on a resource.
const (
	ActionRead   = "read"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// Resource path helpers.
func UserObject(userID string) string         { return "users/" + userID }
func SubscriptionObject(userID string) string { return "subscriptions/" + userID }
func PredictionObject(id string) string {
	if id == "" {
		return "predictions"
	}
	return "predictions/" + id
}
func SourceFileObject(id string) string {
	if id == "" {
		return "sourcefiles"
	}
	return "sourcefiles/" + id
}

// defaultPolicies is the static rule set. Rows are (subject rule, object
// pattern, action pattern, attribute expression):
//   - a user owns their user and subscription documents, read and update
//     only, no row grants delete
//   - any authenticated subject reads predictions and source files
//   - only admins mutate predictions and source files
var defaultPolicies = [][]string{
	{`r.sub != "" && isOwner(r.sub, r.obj)`, "users/*", "(read|update)", ""},
	{`r.sub != "" && isOwner(r.sub, r.obj)`, "subscriptions/*", "(read|update)", ""},
	{`r.sub != ""`, "predictions*", "read", ""},
	{`hasRole(r.sub, "admin")`, "predictions*", "(create|update|delete)", ""},
	{`r.sub != ""`, "sourcefiles*", "read", ""},
	{`hasRole(r.sub, "admin")`, "sourcefiles*", "(create|update|delete)", ""},
}

// EngineOptions groups dependencies for Engine.
type EngineOptions struct {
	Resolver ports.RoleResolver
	// ServiceAccountID is the subject granted unconditional access for
	// internal ingestion jobs.
	ServiceAccountID string
	Logger           *slog.Logger // Optional
}

// Engine wraps a Casbin enforcer with the application's rule set.
type Engine struct {
	enforcer         *casbin.SyncedEnforcer
	resolver         ports.RoleResolver
	serviceAccountID string
	logger           *slog.Logger
}

// NewEngine builds the enforcer from the embedded model and the static rule
// set and registers the custom matcher functions.
func NewEngine(opts EngineOptions) (*Engine, error) {
	if opts.Resolver == nil {
		return nil, fmt.Errorf("policy: role resolver is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	m, err := casbinmodel.NewModelFromString(modelContent)
	if err != nil {
		return nil, fmt.Errorf("parse policy model: %w", err)
	}

	enforcer, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("create policy enforcer: %w", err)
	}

	e := &Engine{
		enforcer:         enforcer,
		resolver:         opts.Resolver,
		serviceAccountID: opts.ServiceAccountID,
		logger:           logger.With("component", "policy"),
	}

	enforcer.AddFunction("hasRole", e.hasRoleFunction())
	enforcer.AddFunction("isOwner", isOwnerFunction())
	enforcer.AddFunction("jmesMatch", JmesMatchFunction())

	for _, rule := range defaultPolicies {
		if _, err := enforcer.AddPolicy(rule[0], rule[1], rule[2], rule[3]); err != nil {
			return nil, fmt.Errorf("add policy rule: %w", err)
		}
	}

	return e, nil
}

// Authorize reports whether subject may perform action on the resource path.
func (e *Engine) Authorize(ctx context.Context, subject, object, action string) bool {
	return e.AuthorizeWithAttrs(ctx, subject, object, action, nil)
}

// AuthorizeWithAttrs is Authorize with resource attributes available to
// attribute expressions in the rule set.
func (e *Engine) AuthorizeWithAttrs(ctx context.Context, subject, object, action string, attrs map[string]any) bool {
	if subject != "" && subject == e.serviceAccountID {
		return true
	}
	if attrs == nil {
		attrs = map[string]any{}
	}

	allowed, err := e.enforcer.Enforce(subject, object, action, attrs)
	if err != nil {
		e.logger.WarnContext(ctx, "policy evaluation failed",
			"subject", subject, "object", object, "action", action, "err", err)
		return false
	}
	return allowed
}

// hasRoleFunction resolves the subject's role through the resolver. The
// resolver is cache-backed and already fails closed on store errors.
func (e *Engine) hasRoleFunction() func(args ...any) (any, error) {
	return func(args ...any) (any, error) {
		if len(args) != 2 {
			return false, fmt.Errorf("hasRole requires 2 arguments: subject, role")
		}
		subject, ok := args[0].(string)
		if !ok {
			return false, fmt.Errorf("hasRole: first argument must be string (subject)")
		}
		role, ok := args[1].(string)
		if !ok {
			return false, fmt.Errorf("hasRole: second argument must be string (role)")
		}
		if subject == "" {
			return false, nil
		}
		resolved := e.resolver.Resolve(context.Background(), subject)
		return string(resolved) == role, nil
	}
}

// isOwnerFunction matches subjects against the id segment of an owned
// resource path such as "users/<id>".
func isOwnerFunction() func(args ...any) (any, error) {
	return func(args ...any) (any, error) {
		if len(args) != 2 {
			return false, fmt.Errorf("isOwner requires 2 arguments: subject, object")
		}
		subject, ok := args[0].(string)
		if !ok {
			return false, fmt.Errorf("isOwner: first argument must be string (subject)")
		}
		object, ok := args[1].(string)
		if !ok {
			return false, fmt.Errorf("isOwner: second argument must be string (object)")
		}
		_, id, found := strings.Cut(object, "/")
		return found && id != "" && id == subject, nil
	}
}

// AuthorizeRole is a convenience for handlers that already hold the
// resolved role and only need the admin check.
func AuthorizeRole(role domainauth.Role, required domainauth.Role) bool {
	return required == "" || role == required
}
