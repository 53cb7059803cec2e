package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	domainauth "github.com/predictlab/forecast-ui-api/internal/domain/auth"
	apperrors "github.com/predictlab/forecast-ui-api/internal/errors"
	"github.com/predictlab/forecast-ui-api/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.IdentityProvider  = (*MockIdentityProvider)(nil)
	_ ports.FederatedProvider = (*MockFederatedProvider)(nil)
	_ ports.IdentityEvents    = (*IdentityFeed)(nil)
	_ ports.SessionStore      = (*MemorySessionStore)(nil)
	_ ports.RoleStore         = (*MemoryRoleStore)(nil)
)

// MockIdentityProvider simulates the identity provider with deterministic
// tokens. Individual behaviors can be overridden via the Func fields.
type MockIdentityProvider struct {
	SignInFunc  func(ctx context.Context, email, password string) (ports.SignInResult, error)
	SignUpFunc  func(ctx context.Context, email, password string) (ports.SignInResult, error)
	SignOutFunc func(ctx context.Context, token string) error

	DefaultIdentity domainauth.Identity

	mu        sync.Mutex
	callCount int
	SignOuts  []string
}

// NewMockIdentityProvider creates a MockIdentityProvider with sensible defaults.
func NewMockIdentityProvider() *MockIdentityProvider {
	return &MockIdentityProvider{
		DefaultIdentity: domainauth.Identity{
			ID:          "mock-user-1",
			Email:       "mock.user@example.com",
			DisplayName: "Mock User",
		},
	}
}

func (m *MockIdentityProvider) nextToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount++
	return fmt.Sprintf("mock-token-%d", m.callCount)
}

func (m *MockIdentityProvider) SignIn(ctx context.Context, email, password string) (ports.SignInResult, error) {
	if m.SignInFunc != nil {
		return m.SignInFunc(ctx, email, password)
	}
	identity := m.DefaultIdentity
	if email != "" {
		identity.Email = email
	}
	return ports.SignInResult{Identity: identity, Token: m.nextToken()}, nil
}

func (m *MockIdentityProvider) SignUp(ctx context.Context, email, password string) (ports.SignInResult, error) {
	if m.SignUpFunc != nil {
		return m.SignUpFunc(ctx, email, password)
	}
	identity := m.DefaultIdentity
	if email != "" {
		identity.Email = email
	}
	return ports.SignInResult{Identity: identity, Token: m.nextToken()}, nil
}

func (m *MockIdentityProvider) SignOut(ctx context.Context, token string) error {
	if m.SignOutFunc != nil {
		return m.SignOutFunc(ctx, token)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SignOuts = append(m.SignOuts, token)
	return nil
}

func (m *MockIdentityProvider) IssueToken(_ context.Context, userID string) (string, error) {
	if userID == "" {
		return "", errors.New("user id is required")
	}
	return m.nextToken(), nil
}

func (m *MockIdentityProvider) UpdateProfile(context.Context, string, string) error  { return nil }
func (m *MockIdentityProvider) UpdateEmail(context.Context, string, string) error    { return nil }
func (m *MockIdentityProvider) UpdatePassword(context.Context, string, string) error { return nil }

// MockFederatedProvider simulates the federated sign-in flow.
type MockFederatedProvider struct {
	ExchangeFunc func(ctx context.Context, in ports.ExchangeInput) (ports.SignInResult, error)

	AuthURL  string
	Identity domainauth.Identity

	mu        sync.Mutex
	callCount int
}

// NewMockFederatedProvider creates a MockFederatedProvider with sensible defaults.
func NewMockFederatedProvider() *MockFederatedProvider {
	return &MockFederatedProvider{
		AuthURL: "https://mock-idp/auth",
		Identity: domainauth.Identity{
			ID:          "federated-user-1",
			Email:       "federated.user@example.com",
			DisplayName: "Federated User",
		},
	}
}

func (m *MockFederatedProvider) Begin(_ context.Context, in ports.BeginInput) (string, string, string, error) {
	if in.RedirectURL == "" {
		return "", "", "", errors.New("redirect URL is required")
	}
	m.mu.Lock()
	m.callCount++
	n := m.callCount
	m.mu.Unlock()
	return m.AuthURL, fmt.Sprintf("state-%d", n), fmt.Sprintf("nonce-%d", n), nil
}

func (m *MockFederatedProvider) Exchange(ctx context.Context, in ports.ExchangeInput) (ports.SignInResult, error) {
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, in)
	}
	if in.Code == "" {
		return ports.SignInResult{}, errors.New("authorization code is required")
	}
	return ports.SignInResult{Identity: m.Identity, Token: "federated-token-" + in.Code}, nil
}

// IdentityFeed is a scriptable identity-change stream for driving the
// session manager's watcher in tests.
type IdentityFeed struct {
	mu         sync.Mutex
	events     chan *domainauth.Identity
	subscribed bool
	Canceled   bool
}

// NewIdentityFeed creates an IdentityFeed with a buffered event channel.
func NewIdentityFeed() *IdentityFeed {
	return &IdentityFeed{events: make(chan *domainauth.Identity, 16)}
}

func (f *IdentityFeed) Subscribe(context.Context) (<-chan *domainauth.Identity, func(), error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.subscribed {
		return nil, nil, errors.New("identity stream already subscribed")
	}
	f.subscribed = true
	cancel := func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.subscribed = false
		f.Canceled = true
	}
	return f.events, cancel, nil
}

// Emit pushes an identity transition; nil means signed out.
func (f *IdentityFeed) Emit(identity *domainauth.Identity) {
	f.events <- identity
}

// MemorySessionStore is an in-memory ports.SessionStore.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]domainauth.Session

	// FailSave, when set, makes Save return this error.
	FailSave error
}

// NewMemorySessionStore creates an empty MemorySessionStore.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]domainauth.Session)}
}

func (s *MemorySessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if s.FailSave != nil {
		return s.FailSave
	}
	if sess.Token == "" {
		return errors.New("session token cannot be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.Token] = sess
	return nil
}

func (s *MemorySessionStore) Get(_ context.Context, token string) (domainauth.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if !ok || time.Now().After(sess.ExpiresAt) {
		return domainauth.Session{}, apperrors.NotFound("session not found")
	}
	return sess, nil
}

func (s *MemorySessionStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

// Len reports the number of stored sessions.
func (s *MemorySessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// MemoryRoleStore is an in-memory ports.RoleStore with insert-once semantics.
type MemoryRoleStore struct {
	mu   sync.Mutex
	docs map[string]domainauth.RoleDocument

	// FailGet, when set, makes GetDocument return this error.
	FailGet error
	// Creates counts CreateDocument calls, including no-op repeats.
	Creates int
}

// NewMemoryRoleStore creates an empty MemoryRoleStore.
func NewMemoryRoleStore() *MemoryRoleStore {
	return &MemoryRoleStore{docs: make(map[string]domainauth.RoleDocument)}
}

func (s *MemoryRoleStore) GetDocument(_ context.Context, userID string) (*domainauth.RoleDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailGet != nil {
		return nil, s.FailGet
	}
	doc, ok := s.docs[userID]
	if !ok {
		return nil, apperrors.NotFoundf("role document not found for user %s", userID)
	}
	return &doc, nil
}

func (s *MemoryRoleStore) CreateDocument(_ context.Context, doc domainauth.RoleDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Creates++
	if _, exists := s.docs[doc.UserID]; exists {
		return nil
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}
	s.docs[doc.UserID] = doc
	return nil
}

func (s *MemoryRoleStore) UpdateEmail(_ context.Context, userID, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[userID]
	if !ok {
		return apperrors.NotFoundf("role document not found for user %s", userID)
	}
	doc.Email = email
	s.docs[userID] = doc
	return nil
}

// Role returns the stored role for userID, or empty string when absent.
func (s *MemoryRoleStore) Role(userID string) domainauth.Role {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.docs[userID].Role
}
