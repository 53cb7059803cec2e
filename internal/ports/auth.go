package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters and internal/data; orchestration
// in internal/session.

import (
	"context"

	domainauth "github.com/predictlab/forecast-ui-api/internal/domain/auth"
)

// SignInResult carries the authenticated identity plus the opaque transport
// credential issued by the provider. The credential string is what ends up in
// the __session cookie; nothing in this system ever decodes it.
type SignInResult struct {
	Identity domainauth.Identity
	Token    string
}

// IdentityProvider is the external identity authority. It owns credential
// creation and verification; this system only consumes its opaque tokens.
type IdentityProvider interface {
	// SignIn authenticates an email/password pair.
	SignIn(ctx context.Context, email, password string) (SignInResult, error)

	// SignUp creates a new account and signs it in.
	SignUp(ctx context.Context, email, password string) (SignInResult, error)

	// SignOut revokes the given transport credential.
	SignOut(ctx context.Context, token string) error

	// IssueToken mints a fresh transport credential for an already
	// authenticated identity.
	IssueToken(ctx context.Context, userID string) (string, error)

	// UpdateProfile, UpdateEmail, and UpdatePassword are pass-throughs to the
	// provider's account record.
	UpdateProfile(ctx context.Context, token, displayName string) error
	UpdateEmail(ctx context.Context, token, newEmail string) error
	UpdatePassword(ctx context.Context, token, newPassword string) error
}

// IdentityEvents exposes the provider's identity-change stream. A nil
// identity on the channel means "signed out". Subscribe is called exactly
// once per Manager lifetime; the returned cancel func releases the
// subscription.
type IdentityEvents interface {
	Subscribe(ctx context.Context) (<-chan *domainauth.Identity, func(), error)
}

// BeginInput carries inputs for initiating a federated auth flow.
type BeginInput struct {
	RedirectURL string
}

// ExchangeInput groups parameters for the federated code/token exchange.
type ExchangeInput struct {
	Code  string
	State string
	Nonce string
}

// FederatedProvider initiates and completes a federated (OIDC) sign-in flow.
type FederatedProvider interface {
	// Begin starts the flow and returns the provider auth URL, an opaque
	// state, and a nonce.
	Begin(ctx context.Context, in BeginInput) (authURL, state, nonce string, err error)

	// Exchange completes the flow, verifying state and nonce.
	Exchange(ctx context.Context, in ExchangeInput) (SignInResult, error)
}

// RoleStore reads and writes Role Documents keyed by identity id.
// GetDocument returns a not-found error (internal/errors.IsNotFound) when no
// document exists; it never creates one as a side effect.
type RoleStore interface {
	GetDocument(ctx context.Context, userID string) (*domainauth.RoleDocument, error)
	// CreateDocument provisions the Role Document exactly once; a second call
	// for the same identity is a no-op returning the existing document's role
	// untouched.
	CreateDocument(ctx context.Context, doc domainauth.RoleDocument) error
	// UpdateEmail merges a new email into an existing Role Document without
	// touching its role.
	UpdateEmail(ctx context.Context, userID, email string) error
}

// SessionStore persists and retrieves transport session records keyed by the
// opaque credential string.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, token string) (domainauth.Session, error)
	Delete(ctx context.Context, token string) error
}

// RoleResolver answers "what role does this identity hold" and is shared by
// the Session Manager and the server-side authorization policy so both
// enforce the same rule.
type RoleResolver interface {
	Resolve(ctx context.Context, userID string) domainauth.Role
}
