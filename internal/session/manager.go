// Package session owns the client's authentication state: the bearer
// token, the current user, and the status transitions between them.
// There is one Manager per running client, created at startup and wired
// into the API gateway as its token source and 401 hook.
package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/alanbouo/fitlog/internal/api"
	"github.com/alanbouo/fitlog/internal/credstore"
	"github.com/alanbouo/fitlog/internal/models"
)

// Status is the session's authentication state.
type Status int

const (
	// StatusAnonymous means no credential is held. This is the start
	// state and the landing state for logout, failed restore, and the
	// forced clear after a 401.
	StatusAnonymous Status = iota
	// StatusVerifying means a stored credential was found at startup
	// and is being checked against the remote API.
	StatusVerifying
	// StatusAuthenticated means both token and user are set.
	StatusAuthenticated
)

func (s Status) String() string {
	switch s {
	case StatusVerifying:
		return "verifying"
	case StatusAuthenticated:
		return "authenticated"
	default:
		return "anonymous"
	}
}

// Gateway is the slice of the API client the session manager uses.
type Gateway interface {
	Login(ctx context.Context, username, password string) (*api.Credentials, error)
	Signup(ctx context.Context, username, email, password string) (*api.Credentials, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*models.User, error)
}

// Manager holds the token/user pair and drives the status state
// machine. All mutations happen under one mutex, so no reader ever
// observes a torn session (token without user or vice versa). Network
// calls are made outside the lock.
type Manager struct {
	mu     sync.Mutex
	status Status
	token  string
	user   *models.User

	gateway Gateway
	store   credstore.Store
	log     *slog.Logger

	// onExpired is invoked after a forced clear caused by a 401, at
	// most once per authenticated epoch. The caller uses it to route
	// back to the login entry point.
	onExpired func()
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithExpiredHook sets the callback fired when a 401 forces the session
// to clear.
func WithExpiredHook(fn func()) ManagerOption {
	return func(m *Manager) { m.onExpired = fn }
}

// NewManager creates a Manager backed by the given credential store.
// The gateway must be attached with SetGateway before any operation is
// called; the two-step wiring exists because the gateway itself needs
// the manager as its token source.
func NewManager(store credstore.Store, log *slog.Logger, opts ...ManagerOption) *Manager {
	m := &Manager{
		status: StatusAnonymous,
		store:  store,
		log:    log,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SetGateway attaches the API gateway.
func (m *Manager) SetGateway(gw Gateway) {
	m.gateway = gw
}

// Token returns the current bearer credential, or "" when anonymous.
// Implements api.TokenSource.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// Status returns the current session status.
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// User returns a copy of the current user, or nil when anonymous.
func (m *Manager) User() *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

// Restore attempts to resume a previous session from the stored
// credential. It never fails: any problem (missing credential, network
// error, rejected token) leaves the session anonymous with the stored
// credential cleared where appropriate.
func (m *Manager) Restore(ctx context.Context) {
	token, err := m.store.Get()
	if err != nil {
		m.log.Warn("credential store unreadable, starting anonymous", "error", err)
		return
	}
	if token == "" {
		return
	}

	m.mu.Lock()
	m.token = token
	m.status = StatusVerifying
	m.mu.Unlock()

	user, err := m.gateway.CurrentUser(ctx)
	if err != nil {
		m.log.Info("stored credential rejected", "error", err)
		if err := m.store.Remove(); err != nil {
			m.log.Warn("failed to remove stale credential", "error", err)
		}
		m.mu.Lock()
		// A 401 during verification already cleared through the
		// unauthorized hook; this settles the non-401 failure paths.
		if m.status == StatusVerifying {
			m.token = ""
			m.user = nil
			m.status = StatusAnonymous
		}
		m.mu.Unlock()
		return
	}

	m.mu.Lock()
	m.user = user
	m.status = StatusAuthenticated
	m.mu.Unlock()
	m.log.Info("session restored", "username", user.Username)
}

// Login authenticates and, on success, stores the credential and moves
// the session to authenticated. On failure the session is untouched and
// the typed error is returned for display.
func (m *Manager) Login(ctx context.Context, username, password string) error {
	creds, err := m.gateway.Login(ctx, username, password)
	if err != nil {
		return err
	}
	m.adopt(creds)
	m.log.Info("logged in", "username", creds.User.Username)
	return nil
}

// ValidateSignup enforces the client-side signup guards: password
// length and confirmation match. These never reach the network.
func ValidateSignup(password, confirm string) error {
	if len(password) < 6 {
		return &api.ValidationError{Reason: "password must be at least 6 characters"}
	}
	if password != confirm {
		return &api.ValidationError{Reason: "passwords do not match"}
	}
	return nil
}

// Signup registers a new account and adopts its credentials. Callers
// run ValidateSignup first; Signup itself only talks to the server.
func (m *Manager) Signup(ctx context.Context, username, email, password string) error {
	creds, err := m.gateway.Signup(ctx, username, email, password)
	if err != nil {
		return err
	}
	m.adopt(creds)
	m.log.Info("account created", "username", creds.User.Username)
	return nil
}

// adopt installs fresh credentials and persists the token. A persist
// failure is logged but does not block the in-memory session.
func (m *Manager) adopt(creds *api.Credentials) {
	if err := m.store.Set(creds.Token); err != nil {
		m.log.Warn("failed to persist credential", "error", err)
	}
	user := creds.User
	m.mu.Lock()
	m.token = creds.Token
	m.user = &user
	m.status = StatusAuthenticated
	m.mu.Unlock()
}

// Logout tells the server to invalidate the token, then clears the
// local session. The remote call is best-effort: its failure never
// prevents the local clear.
func (m *Manager) Logout(ctx context.Context) {
	if err := m.gateway.Logout(ctx); err != nil {
		m.log.Info("remote logout failed, clearing locally anyway", "error", err)
	}
	m.clear()
	m.log.Info("logged out")
}

// HandleUnauthorized is the gateway's 401 hook. It clears the session
// exactly once per authenticated (or verifying) epoch: concurrent 401s
// from in-flight calls find the session already anonymous and do
// nothing further.
func (m *Manager) HandleUnauthorized() {
	m.mu.Lock()
	if m.status == StatusAnonymous {
		m.mu.Unlock()
		return
	}
	m.token = ""
	m.user = nil
	m.status = StatusAnonymous
	expired := m.onExpired
	m.mu.Unlock()

	if err := m.store.Remove(); err != nil {
		m.log.Warn("failed to remove credential after 401", "error", err)
	}
	m.log.Info("session expired, cleared")
	if expired != nil {
		expired()
	}
}

// clear is the local half of logout.
func (m *Manager) clear() {
	m.mu.Lock()
	m.token = ""
	m.user = nil
	m.status = StatusAnonymous
	m.mu.Unlock()

	if err := m.store.Remove(); err != nil {
		m.log.Warn("failed to remove credential on logout", "error", err)
	}
}
