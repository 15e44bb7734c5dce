// Package session owns the authentication state of the running client: the
// bearer token, the current user identity, and the persisted credential file.
// It is the single source of truth for "who is logged in"; every protected
// command gates on it, and the API gateway pulls the token from it.
package session

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/florishenkelman/gdpr-tool/internal/api"
	"github.com/florishenkelman/gdpr-tool/internal/model"
)

// Status is the authentication state of the session.
type Status string

const (
	// StatusUnauthenticated means no credential is held.
	StatusUnauthenticated Status = "unauthenticated"
	// StatusBootstrapping means a persisted credential was found and the
	// current-user fetch is in flight.
	StatusBootstrapping Status = "bootstrapping"
	// StatusAuthenticated means the credential was accepted and an identity
	// is cached.
	StatusAuthenticated Status = "authenticated"
)

// ErrNoGateway is returned when a network-backed operation runs before a
// gateway has been attached.
var ErrNoGateway = errors.New("session: no gateway attached")

// Gateway is the subset of the API gateway the Manager needs. Satisfied by
// *api.Gateway.
type Gateway interface {
	Do(ctx context.Context, req *api.Request, result any) error
}

// Manager holds the session state. The identity is non-nil exactly when the
// status is Authenticated, and the token is non-empty whenever the status is
// Bootstrapping or Authenticated.
//
// Manager implements api.CredentialSource, so the gateway it is attached to
// reads the token from it and invalidates it on authentication failures.
type Manager struct {
	store CredentialStore

	mu     sync.Mutex
	gw     Gateway
	status Status
	token  string
	user   *model.User
}

// NewManager creates a Manager in the Unauthenticated state. Attach a
// gateway with UseGateway before calling Bootstrap or Login.
func NewManager(store CredentialStore) *Manager {
	return &Manager{store: store, status: StatusUnauthenticated}
}

// UseGateway attaches the gateway used for the login and current-user calls.
func (m *Manager) UseGateway(gw Gateway) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gw = gw
}

// Status returns the current session status.
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// Token returns the current credential, or "" when none is held.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// CurrentIdentity returns the cached identity, or nil when not authenticated.
// It never blocks on the network.
func (m *Manager) CurrentIdentity() *model.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user
}

// ReplaceIdentity overwrites the cached identity without touching the
// credential or status. Used after profile updates (e.g. a new avatar).
// It is a no-op unless the session is authenticated.
func (m *Manager) ReplaceIdentity(u *model.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.status == StatusAuthenticated && u != nil {
		m.user = u
	}
}

// Bootstrap restores the session from the persisted credential. With no
// stored token it settles in Unauthenticated immediately. Otherwise it
// fetches the current user; on success the session is Authenticated, and on
// any failure (network or rejection) the stale credential is discarded and
// the session settles in Unauthenticated. The returned error reports why a
// restore failed; the session state is final either way.
//
// Bootstrap runs once at process start, before any protected command body.
func (m *Manager) Bootstrap(ctx context.Context) error {
	m.mu.Lock()
	if m.gw == nil {
		m.mu.Unlock()
		return ErrNoGateway
	}
	gw := m.gw
	m.mu.Unlock()

	token, err := m.store.Load()
	if err != nil {
		return err
	}
	if token == "" {
		m.setState(StatusUnauthenticated, "", nil)
		return nil
	}

	m.setState(StatusBootstrapping, token, nil)

	var user model.User
	if err := gw.Do(ctx, &api.Request{Method: http.MethodGet, Path: "/auth/me"}, &user); err != nil {
		// The gateway has already invalidated us on an auth failure; a
		// network failure still discards the credential so the next start
		// does not loop on a dead token.
		m.Invalidate()
		return err
	}

	m.setState(StatusAuthenticated, token, &user)
	return nil
}

// Login exchanges credentials for a token and identity. On success the token
// is persisted and the session becomes Authenticated. On failure the session
// state is left untouched and the classified error propagates to the caller.
func (m *Manager) Login(ctx context.Context, creds model.Credentials) (*model.User, error) {
	m.mu.Lock()
	if m.gw == nil {
		m.mu.Unlock()
		return nil, ErrNoGateway
	}
	gw := m.gw
	m.mu.Unlock()

	req := &api.Request{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Body:   creds,
		NoAuth: true,
	}
	var raw loginResponse
	if err := gw.Do(ctx, req, &raw); err != nil {
		return nil, err
	}

	token, user, err := raw.normalize()
	if err != nil {
		return nil, err
	}

	if err := m.store.Save(token); err != nil {
		return nil, err
	}
	m.setState(StatusAuthenticated, token, user)
	return user, nil
}

// Logout discards the persisted credential and resets the session. It is a
// purely local operation with no failure mode and no network call, and it is
// idempotent.
func (m *Manager) Logout() {
	_ = m.store.Clear()
	m.setState(StatusUnauthenticated, "", nil)
}

// Invalidate discards the credential after the server rejected it. Called by
// the gateway exactly once per authentication failure; invalidating an
// already-unauthenticated session is a no-op.
func (m *Manager) Invalidate() {
	m.mu.Lock()
	alreadyOut := m.status == StatusUnauthenticated && m.token == ""
	m.mu.Unlock()
	if alreadyOut {
		return
	}
	_ = m.store.Clear()
	m.setState(StatusUnauthenticated, "", nil)
}

func (m *Manager) setState(status Status, token string, user *model.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = status
	m.token = token
	m.user = user
}
