// Package session owns the observed identity, its resolved role, and the
// transport session record backing the __session cookie. The Manager is the
// single source of truth the route guards read from.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	domainauth "github.com/predictlab/forecast-ui-api/internal/domain/auth"
	"github.com/predictlab/forecast-ui-api/internal/ports"
)

// RoleAssigner decides the initial role for a newly provisioned identity.
type RoleAssigner interface {
	Assign(email string) domainauth.Role
}

// RoleResolver resolves an identity's current role and supports cache
// invalidation after provisioning writes.
type RoleResolver interface {
	Resolve(ctx context.Context, userID string) domainauth.Role
	Invalidate(userID string)
}

// State is the snapshot the guards consume. Role is empty until resolved.
type State struct {
	Identity *domainauth.Identity
	Role     domainauth.Role
	Loading  bool
}

// Providers groups the identity-provider ports the Manager drives.
type Providers struct {
	Identity  ports.IdentityProvider
	Events    ports.IdentityEvents
	Federated ports.FederatedProvider // Optional: nil disables federated sign-in
}

// Stores groups the persistence ports the Manager writes through.
type Stores struct {
	Sessions ports.SessionStore
	Roles    ports.RoleStore
}

// RoleOptions groups role assignment and resolution.
type RoleOptions struct {
	Assigner RoleAssigner
	Resolver RoleResolver
}

// ManagerOptions groups dependencies for Manager.
type ManagerOptions struct {
	Providers  Providers
	Stores     Stores
	Roles      RoleOptions
	SessionTTL time.Duration // Optional, defaults to domainauth.SessionTTL
	Logger     *slog.Logger  // Optional
}

// Manager tracks the current identity and role, mirrors identity transitions
// into the session store, and exposes the mutating auth operations. One
// Manager exists per running instance.
type Manager struct {
	providers  Providers
	stores     Stores
	roles      RoleOptions
	sessionTTL time.Duration
	logger     *slog.Logger
	now        func() time.Time

	mu       sync.RWMutex
	identity *domainauth.Identity
	role     domainauth.Role
	loading  bool
	token    string
	// generation increments on every identity transition; role resolutions
	// carrying a stale generation are discarded.
	generation uint64

	pending   bool
	lastError string

	started bool
	stop    context.CancelFunc
	done    chan struct{}
	cancel  func()
}

// NewManager constructs a Manager. Provider, events, both stores, and both
// role hooks are required.
func NewManager(opts ManagerOptions) (*Manager, error) {
	if opts.Providers.Identity == nil {
		return nil, errors.New("session: identity provider is required")
	}
	if opts.Providers.Events == nil {
		return nil, errors.New("session: identity events source is required")
	}
	if opts.Stores.Sessions == nil {
		return nil, errors.New("session: session store is required")
	}
	if opts.Stores.Roles == nil {
		return nil, errors.New("session: role store is required")
	}
	if opts.Roles.Assigner == nil {
		return nil, errors.New("session: role assigner is required")
	}
	if opts.Roles.Resolver == nil {
		return nil, errors.New("session: role resolver is required")
	}

	ttl := opts.SessionTTL
	if ttl <= 0 {
		ttl = domainauth.SessionTTL
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Manager{
		providers:  opts.Providers,
		stores:     opts.Stores,
		roles:      opts.Roles,
		sessionTTL: ttl,
		logger:     logger.With("component", "session_manager"),
		now:        time.Now,
	}, nil
}

// Start subscribes to the identity-provider event stream and launches the
// watcher goroutine. Calling Start on a started Manager is a no-op.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return nil
	}
	m.started = true
	m.loading = true
	m.mu.Unlock()

	watchCtx, stop := context.WithCancel(context.WithoutCancel(ctx))
	events, cancel, err := m.providers.Events.Subscribe(watchCtx)
	if err != nil {
		stop()
		m.mu.Lock()
		m.started = false
		m.loading = false
		m.mu.Unlock()
		return err
	}

	m.mu.Lock()
	m.stop = stop
	m.cancel = cancel
	m.done = make(chan struct{})
	done := m.done
	m.mu.Unlock()

	go func() {
		defer close(done)
		m.watch(watchCtx, events)
	}()
	return nil
}

// Stop releases the subscription and waits for the watcher to exit.
func (m *Manager) Stop() {
	m.mu.Lock()
	if !m.started {
		m.mu.Unlock()
		return
	}
	m.started = false
	stop := m.stop
	cancel := m.cancel
	done := m.done
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if stop != nil {
		stop()
	}
	if done != nil {
		<-done
	}
}

// watch is the single consumer of identity transitions. Events are handled
// strictly in order; the ordering guarantee role resolution depends on comes
// from this goroutine alone.
func (m *Manager) watch(ctx context.Context, events <-chan *domainauth.Identity) {
	for {
		select {
		case <-ctx.Done():
			return
		case identity, ok := <-events:
			if !ok {
				return
			}
			m.applyTransition(ctx, identity)
		}
	}
}

// applyTransition handles one identity transition. Identity present: make it
// visible, refresh the transport session in the background, resolve role.
// Identity absent: clear the session record and role with no network calls
// beyond the record delete.
func (m *Manager) applyTransition(ctx context.Context, identity *domainauth.Identity) {
	if identity == nil {
		m.mu.Lock()
		m.generation++
		token := m.token
		m.identity = nil
		m.role = ""
		m.token = ""
		m.loading = false
		m.mu.Unlock()

		if token != "" {
			if err := m.stores.Sessions.Delete(ctx, token); err != nil {
				m.logger.WarnContext(ctx, "failed to clear session record", "err", err)
			}
		}
		return
	}

	m.mu.Lock()
	m.generation++
	gen := m.generation
	idCopy := *identity
	m.identity = &idCopy
	m.loading = true
	m.mu.Unlock()

	// Credential mint and session write must not block the identity from
	// becoming visible to guards.
	go m.refreshSession(ctx, idCopy, gen)

	role := m.roles.Resolver.Resolve(ctx, idCopy.ID)

	m.mu.Lock()
	if m.generation == gen {
		m.role = role
		m.loading = false
	}
	m.mu.Unlock()
}

// refreshSession mints a fresh transport credential and writes the session
// record. Failures are logged, never surfaced. A later transition supersedes
// the mint: its record must never outlive the identity that requested it.
func (m *Manager) refreshSession(ctx context.Context, identity domainauth.Identity, gen uint64) {
	token, err := m.providers.Identity.IssueToken(ctx, identity.ID)
	if err != nil {
		m.logger.WarnContext(ctx, "failed to mint transport credential", "user_id", identity.ID, "err", err)
		return
	}

	if !m.generationIs(gen) {
		return
	}

	role := m.roles.Resolver.Resolve(ctx, identity.ID)
	sess := m.buildSession(identity, token, role)
	if saveErr := m.stores.Sessions.Save(ctx, sess); saveErr != nil {
		m.logger.WarnContext(ctx, "failed to write session record", "user_id", identity.ID, "err", saveErr)
		return
	}

	m.mu.Lock()
	if m.generation == gen {
		m.token = token
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()

	// A transition landed while the record was being written. That
	// transition captured an empty token, so the cleanup is ours.
	m.discardSession(ctx, token)
}

func (m *Manager) generationIs(gen uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generation == gen
}

// discardSession removes a record persisted on behalf of a superseded
// identity generation.
func (m *Manager) discardSession(ctx context.Context, token string) {
	if err := m.stores.Sessions.Delete(ctx, token); err != nil {
		m.logger.WarnContext(ctx, "failed to discard superseded session record", "err", err)
	}
}

func (m *Manager) buildSession(identity domainauth.Identity, token string, role domainauth.Role) domainauth.Session {
	return domainauth.Session{
		Token:       token,
		UserID:      identity.ID,
		Email:       identity.Email,
		DisplayName: identity.DisplayName,
		Role:        role,
		ExpiresAt:   m.now().Add(m.sessionTTL),
	}
}

// SignIn authenticates with email/password and adopts the resulting identity.
func (m *Manager) SignIn(ctx context.Context, email, password string) (*domainauth.Session, error) {
	m.beginOp()
	res, err := m.providers.Identity.SignIn(ctx, email, password)
	if err != nil {
		m.failOp(err)
		return nil, err
	}
	return m.adopt(ctx, res, false)
}

// SignUp creates the account, provisions its Role Document, and adopts the
// resulting identity.
func (m *Manager) SignUp(ctx context.Context, email, password string) (*domainauth.Session, error) {
	m.beginOp()
	res, err := m.providers.Identity.SignUp(ctx, email, password)
	if err != nil {
		m.failOp(err)
		return nil, err
	}
	return m.adopt(ctx, res, true)
}

// BeginFederated starts the federated sign-in flow.
func (m *Manager) BeginFederated(ctx context.Context, redirectURL string) (authURL, state, nonce string, err error) {
	if m.providers.Federated == nil {
		return "", "", "", errors.New("federated sign-in is not configured")
	}
	return m.providers.Federated.Begin(ctx, ports.BeginInput{RedirectURL: redirectURL})
}

// CompleteFederated finishes the federated flow. A first federated sign-in
// provisions the Role Document; the insert-once store makes repeats safe.
func (m *Manager) CompleteFederated(ctx context.Context, in ports.ExchangeInput) (*domainauth.Session, error) {
	if m.providers.Federated == nil {
		return nil, errors.New("federated sign-in is not configured")
	}
	m.beginOp()
	res, err := m.providers.Federated.Exchange(ctx, in)
	if err != nil {
		m.failOp(err)
		return nil, err
	}
	return m.adopt(ctx, res, true)
}

// adopt makes a sign-in result the current identity, optionally provisioning
// the Role Document, and resolves the role locally instead of waiting for
// the provider's identity-change event.
func (m *Manager) adopt(ctx context.Context, res ports.SignInResult, provision bool) (*domainauth.Session, error) {
	m.mu.Lock()
	m.generation++
	gen := m.generation
	idCopy := res.Identity
	m.identity = &idCopy
	m.token = res.Token
	m.loading = true
	m.mu.Unlock()

	if provision {
		m.provisionRoleDocument(ctx, res.Identity)
	}

	role := m.roles.Resolver.Resolve(ctx, res.Identity.ID)
	sess := m.buildSession(res.Identity, res.Token, role)
	saved := true
	if err := m.stores.Sessions.Save(ctx, sess); err != nil {
		// The identity stays visible regardless; the edge guard just won't
		// see a cookie-backed record until the next transition rewrites it.
		m.logger.WarnContext(ctx, "failed to write session record", "user_id", res.Identity.ID, "err", err)
		saved = false
	}

	m.mu.Lock()
	current := m.generation == gen
	if current {
		m.role = role
		m.loading = false
	}
	sameIdentity := m.identity != nil && m.identity.ID == res.Identity.ID
	m.pending = false
	m.lastError = ""
	m.mu.Unlock()

	// A sign-out processed during the save captured an empty token; the
	// record written above is orphaned and must not survive it. A transition
	// re-asserting the same identity keeps the record: it backs the cookie
	// this result is about to become.
	if !current && saved && !sameIdentity {
		m.discardSession(ctx, res.Token)
	}

	return &sess, nil
}

// provisionRoleDocument creates the Role Document exactly once. The
// allow-list decides admin; store failures degrade silently, they never
// block the sign-in.
func (m *Manager) provisionRoleDocument(ctx context.Context, identity domainauth.Identity) {
	doc := domainauth.RoleDocument{
		UserID:    identity.ID,
		Email:     identity.Email,
		Role:      m.roles.Assigner.Assign(identity.Email),
		CreatedAt: m.now(),
	}
	if err := m.stores.Roles.CreateDocument(ctx, doc); err != nil {
		m.logger.WarnContext(ctx, "failed to provision role document", "user_id", identity.ID, "err", err)
		return
	}
	m.roles.Resolver.Invalidate(identity.ID)
}

// Logout signs out at the provider. Session record and role clearing happen
// on the subsequent identity-absent transition, nowhere else.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.RLock()
	token := m.token
	m.mu.RUnlock()

	m.beginOp()
	if err := m.providers.Identity.SignOut(ctx, token); err != nil {
		m.failOp(err)
		return err
	}
	m.endOp()
	return nil
}

// UpdateProfile updates the display name at the provider.
func (m *Manager) UpdateProfile(ctx context.Context, displayName string) error {
	m.beginOp()
	token, err := m.currentToken()
	if err != nil {
		m.failOp(err)
		return err
	}
	if err := m.providers.Identity.UpdateProfile(ctx, token, displayName); err != nil {
		m.failOp(err)
		return err
	}
	m.mu.Lock()
	if m.identity != nil {
		id := *m.identity
		id.DisplayName = displayName
		m.identity = &id
	}
	m.mu.Unlock()
	m.endOp()
	return nil
}

// UpdateEmail updates the email at the provider and merges it into the Role
// Document so the policy engine never reads a stale email.
func (m *Manager) UpdateEmail(ctx context.Context, newEmail string) error {
	m.beginOp()
	token, err := m.currentToken()
	if err != nil {
		m.failOp(err)
		return err
	}
	if err := m.providers.Identity.UpdateEmail(ctx, token, newEmail); err != nil {
		m.failOp(err)
		return err
	}

	m.mu.Lock()
	var userID string
	if m.identity != nil {
		id := *m.identity
		id.Email = newEmail
		m.identity = &id
		userID = id.ID
	}
	m.mu.Unlock()

	if userID != "" {
		if mergeErr := m.stores.Roles.UpdateEmail(ctx, userID, newEmail); mergeErr != nil {
			m.logger.WarnContext(ctx, "failed to merge email into role document", "user_id", userID, "err", mergeErr)
		}
	}
	m.endOp()
	return nil
}

// UpdatePassword updates the password at the provider.
func (m *Manager) UpdatePassword(ctx context.Context, newPassword string) error {
	m.beginOp()
	token, err := m.currentToken()
	if err != nil {
		m.failOp(err)
		return err
	}
	if err := m.providers.Identity.UpdatePassword(ctx, token, newPassword); err != nil {
		m.failOp(err)
		return err
	}
	m.endOp()
	return nil
}

func (m *Manager) currentToken() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.token == "" {
		return "", errors.New("no active session")
	}
	return m.token, nil
}

// Snapshot returns the current (identity, role, loading) triple. Safe for
// concurrent callers; guards re-read it on every evaluation.
func (m *Manager) Snapshot() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var identity *domainauth.Identity
	if m.identity != nil {
		id := *m.identity
		identity = &id
	}
	return State{Identity: identity, Role: m.role, Loading: m.loading}
}

// Pending reports whether a mutating operation is in flight.
func (m *Manager) Pending() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pending
}

// LastError returns the last mutating-operation error message.
func (m *Manager) LastError() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastError
}

// ClearError resets the last error.
func (m *Manager) ClearError() {
	m.mu.Lock()
	m.lastError = ""
	m.mu.Unlock()
}

func (m *Manager) beginOp() {
	m.mu.Lock()
	m.pending = true
	m.mu.Unlock()
}

func (m *Manager) endOp() {
	m.mu.Lock()
	m.pending = false
	m.lastError = ""
	m.mu.Unlock()
}

func (m *Manager) failOp(err error) {
	m.mu.Lock()
	m.pending = false
	m.lastError = err.Error()
	m.loading = false
	m.mu.Unlock()
}
