package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/dmitrijs2005/petadopt/internal/client/auth"
	"github.com/dmitrijs2005/petadopt/internal/client/models"
	"github.com/dmitrijs2005/petadopt/internal/client/repositories/credentials"
	"github.com/dmitrijs2005/petadopt/internal/common"
	"github.com/dmitrijs2005/petadopt/internal/logging"
)

type Phase string

const (
	PhaseUninitialized Phase = "UNINITIALIZED"
	PhaseHydrating     Phase = "HYDRATING"
	PhaseAuthenticated Phase = "AUTHENTICATED"
	PhaseAnonymous     Phase = "ANONYMOUS"
)

// State is a read-only copy of the session.
type State struct {
	Phase      Phase
	Token      string
	User       *models.User
	Loading    bool
	Generation uint64
}

// IsAuthenticated is derived from User and never stored on its own.
func (s State) IsAuthenticated() bool {
	return s.User != nil
}

// TokenDecoder is satisfied by *auth.Decoder.
type TokenDecoder interface {
	Decode(token string) (auth.Claims, error)
	IsExpired(c auth.Claims) bool
}

type Manager struct {
	mu        sync.Mutex
	store     credentials.Repository
	decoder   TokenDecoder
	logger    logging.Logger
	state     State
	observers []func(State)
}

func NewManager(store credentials.Repository, decoder TokenDecoder, logger logging.Logger) *Manager {
	return &Manager{
		store:   store,
		decoder: decoder,
		logger:  logger.With("component", "session"),
		state:   State{Phase: PhaseUninitialized, Loading: true},
	}
}

// Subscribe registers fn to receive the new state after every transition.
// fn runs on the goroutine that caused the transition, outside the lock.
func (m *Manager) Subscribe(fn func(State)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers = append(m.observers, fn)
}

func (m *Manager) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Manager) IsAuthenticated() bool {
	return m.Snapshot().IsAuthenticated()
}

func (m *Manager) Generation() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Generation
}

// Initialize hydrates the session from the token store. It runs once; later
// calls return common.ErrAlreadyInitialized. An undecodable or expired
// credential is cleared. Loading ends false on every path, including when
// the store read fails, in which case that error is returned.
func (m *Manager) Initialize(ctx context.Context) error {
	m.mu.Lock()
	if m.state.Phase != PhaseUninitialized {
		m.mu.Unlock()
		return common.ErrAlreadyInitialized
	}
	m.state.Phase = PhaseHydrating

	err := m.hydrateLocked(ctx)

	m.state.Loading = false
	if m.state.Phase == PhaseHydrating {
		m.state.Phase = PhaseAnonymous
	}
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.logger.Info(ctx, "session initialized", "phase", snap.Phase)
	m.publish(snap)
	return err
}

func (m *Manager) hydrateLocked(ctx context.Context) error {
	cred, err := m.store.Get(ctx)
	if err != nil {
		if errors.Is(err, common.ErrDecode) {
			m.logger.Warn(ctx, "stored credential unreadable, clearing", "error", err)
			return m.teardownLocked(ctx)
		}
		return fmt.Errorf("hydrate session: %w", err)
	}
	if cred == nil {
		return nil
	}

	claims, err := m.decoder.Decode(cred.Token)
	if err != nil {
		m.logger.Warn(ctx, "stored token malformed, clearing", "error", err)
		return m.teardownLocked(ctx)
	}
	if m.decoder.IsExpired(claims) {
		m.logger.Info(ctx, "stored token expired, clearing")
		return m.teardownLocked(ctx)
	}

	m.setLocked(PhaseAuthenticated, cred.Token, &cred.User)
	return nil
}

// Login overwrites the in-memory session and then persists it. The token is
// not validated. A persistence error is returned but the in-memory session
// stays authenticated.
func (m *Manager) Login(ctx context.Context, token string, user models.User) error {
	m.mu.Lock()
	m.setLocked(PhaseAuthenticated, token, &user)
	err := m.store.Set(ctx, token, user)
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.logger.Info(ctx, "logged in", "user_id", user.ID, "role", user.Role)
	m.publish(snap)
	if err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

// Logout returns to ANONYMOUS and clears the token store. Calling it while
// already anonymous changes nothing and notifies no one.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	changed := m.state.Phase == PhaseAuthenticated
	err := m.teardownLocked(ctx)
	snap := m.snapshotLocked()
	m.mu.Unlock()

	if changed {
		m.logger.Info(ctx, "logged out")
		m.publish(snap)
	}
	return err
}

// Revalidate re-checks the expiry of the current token. When it has expired
// (or no longer decodes) the session is torn down and the returned error
// wraps common.ErrSessionExpired.
func (m *Manager) Revalidate(ctx context.Context) error {
	m.mu.Lock()
	if m.state.Phase != PhaseAuthenticated {
		m.mu.Unlock()
		return nil
	}
	claims, err := m.decoder.Decode(m.state.Token)
	if err == nil && !m.decoder.IsExpired(claims) {
		m.mu.Unlock()
		return nil
	}
	clearErr := m.teardownLocked(ctx)
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.logger.Info(ctx, "session expired")
	m.publish(snap)
	return errors.Join(common.ErrSessionExpired, clearErr)
}

// teardownLocked clears memory first so a failing store cannot leave the
// session authenticated.
func (m *Manager) teardownLocked(ctx context.Context) error {
	if m.state.Phase == PhaseAuthenticated || m.state.Phase == PhaseHydrating {
		m.setLocked(PhaseAnonymous, "", nil)
	}
	if err := m.store.Clear(ctx); err != nil {
		return fmt.Errorf("teardown session: %w", err)
	}
	return nil
}

func (m *Manager) setLocked(phase Phase, token string, user *models.User) {
	m.state.Phase = phase
	m.state.Token = token
	m.state.User = user
	m.state.Generation++
}

func (m *Manager) snapshotLocked() State {
	s := m.state
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}

func (m *Manager) publish(s State) {
	m.mu.Lock()
	observers := slices.Clone(m.observers)
	m.mu.Unlock()

	for _, fn := range observers {
		fn(s)
	}
}
