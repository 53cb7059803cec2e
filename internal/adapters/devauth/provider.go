package devauth

// Package devauth provides a config-driven in-memory identity provider for
// local development. It implements the same ports as the real provider so the
// rest of the system cannot tell the difference.

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	domainauth "github.com/predictlab/forecast-ui-api/internal/domain/auth"
	"github.com/predictlab/forecast-ui-api/internal/ports"
)

// DefaultPassword is the password accepted for the seeded dev account.
const DefaultPassword = "dev"

// Config controls the dev provider's seeded identity.
type Config struct {
	UserID      string
	Email       string
	DisplayName string
}

type account struct {
	id          string
	email       string
	displayName string
	password    string
}

// Provider implements ports.IdentityProvider and ports.IdentityEvents with
// in-memory accounts. Tokens are random and opaque, like the real thing.
type Provider struct {
	mu       sync.Mutex
	accounts map[string]*account // keyed by email
	byID     map[string]*account
	tokens   map[string]string // token -> user id

	events     chan *domainauth.Identity
	subscribed bool
}

// NewProvider constructs a dev provider seeded with the configured account.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.UserID == "" {
		return nil, errors.New("dev auth: UserID is required")
	}
	if cfg.Email == "" {
		return nil, errors.New("dev auth: Email is required")
	}

	seeded := &account{
		id:          cfg.UserID,
		email:       cfg.Email,
		displayName: cfg.DisplayName,
		password:    DefaultPassword,
	}
	p := &Provider{
		accounts: map[string]*account{cfg.Email: seeded},
		byID:     map[string]*account{cfg.UserID: seeded},
		tokens:   make(map[string]string),
		events:   make(chan *domainauth.Identity, 16),
	}
	return p, nil
}

var _ ports.IdentityProvider = (*Provider)(nil)
var _ ports.IdentityEvents = (*Provider)(nil)

func (p *Provider) SignIn(_ context.Context, email, password string) (ports.SignInResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	acct, ok := p.accounts[email]
	if !ok || acct.password != password {
		return ports.SignInResult{}, errors.New("invalid email or password")
	}
	res := p.mintLocked(acct)
	p.emitLocked(&res.Identity)
	return res, nil
}

func (p *Provider) SignUp(_ context.Context, email, password string) (ports.SignInResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if email == "" || password == "" {
		return ports.SignInResult{}, errors.New("email and password are required")
	}
	if _, exists := p.accounts[email]; exists {
		return ports.SignInResult{}, fmt.Errorf("account already exists for %s", email)
	}

	acct := &account{id: uuid.NewString(), email: email, password: password}
	p.accounts[email] = acct
	p.byID[acct.id] = acct

	res := p.mintLocked(acct)
	p.emitLocked(&res.Identity)
	return res, nil
}

func (p *Provider) SignOut(_ context.Context, token string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	delete(p.tokens, token)
	p.emitLocked(nil)
	return nil
}

func (p *Provider) IssueToken(_ context.Context, userID string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	acct, ok := p.byID[userID]
	if !ok {
		return "", fmt.Errorf("unknown user %s", userID)
	}
	token := uuid.NewString()
	p.tokens[token] = acct.id
	return token, nil
}

func (p *Provider) UpdateProfile(_ context.Context, token, displayName string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	acct, err := p.accountForTokenLocked(token)
	if err != nil {
		return err
	}
	acct.displayName = displayName
	return nil
}

func (p *Provider) UpdateEmail(_ context.Context, token, newEmail string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	acct, err := p.accountForTokenLocked(token)
	if err != nil {
		return err
	}
	if _, taken := p.accounts[newEmail]; taken {
		return fmt.Errorf("email %s already in use", newEmail)
	}
	delete(p.accounts, acct.email)
	acct.email = newEmail
	p.accounts[newEmail] = acct
	return nil
}

func (p *Provider) UpdatePassword(_ context.Context, token, newPassword string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	acct, err := p.accountForTokenLocked(token)
	if err != nil {
		return err
	}
	if newPassword == "" {
		return errors.New("password cannot be empty")
	}
	acct.password = newPassword
	return nil
}

// Subscribe hands out the identity-change stream. Only one active
// subscription is allowed; the cancel func releases it.
func (p *Provider) Subscribe(_ context.Context) (<-chan *domainauth.Identity, func(), error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.subscribed {
		return nil, nil, errors.New("identity stream already subscribed")
	}
	p.subscribed = true
	cancel := func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.subscribed = false
	}
	return p.events, cancel, nil
}

// Emit injects an identity transition, for tests and dev tooling.
func (p *Provider) Emit(identity *domainauth.Identity) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.emitLocked(identity)
}

func (p *Provider) mintLocked(acct *account) ports.SignInResult {
	token := uuid.NewString()
	p.tokens[token] = acct.id
	return ports.SignInResult{
		Identity: domainauth.Identity{ID: acct.id, Email: acct.email, DisplayName: acct.displayName},
		Token:    token,
	}
}

func (p *Provider) accountForTokenLocked(token string) (*account, error) {
	id, ok := p.tokens[token]
	if !ok {
		return nil, errors.New("invalid or revoked token")
	}
	acct, ok := p.byID[id]
	if !ok {
		return nil, errors.New("account no longer exists")
	}
	return acct, nil
}

// emitLocked drops events when nobody is listening and the buffer is full;
// dev tooling must never block a sign-in on a slow observer.
func (p *Provider) emitLocked(identity *domainauth.Identity) {
	select {
	case p.events <- identity:
	default:
	}
}
