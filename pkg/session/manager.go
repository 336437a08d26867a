package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/qrconnect/appkit/pkg/broadcast"
	"github.com/qrconnect/appkit/pkg/securestore"
	"github.com/qrconnect/appkit/pkg/token"
)

const (
	// DefaultStorageKey is the secure-store entry the bearer token lives
	// under. No other component reads or writes it.
	DefaultStorageKey = "auth_token"

	// DefaultWatchInterval is how often the background watch re-checks the
	// persisted token while authenticated.
	DefaultWatchInterval = time.Minute
)

// Manager owns the session lifecycle. Create exactly one per process with
// New and share it with every consumer.
type Manager struct {
	store    securestore.Store
	key      string
	interval time.Duration
	now      func() time.Time
	log      *slog.Logger

	mu           sync.RWMutex
	state        State
	rawToken     string
	bootstrapped bool

	broadcaster *broadcast.Memory[Event]

	watchMu     sync.Mutex
	watchCancel context.CancelFunc
}

// New creates a Manager in the loading state. The store is required; the
// constructor panics without one so a miswired binary fails at startup.
func New(store securestore.Store, opts ...Option) *Manager {
	if store == nil {
		panic("session: store is required")
	}

	m := &Manager{
		store:       store,
		key:         DefaultStorageKey,
		interval:    DefaultWatchInterval,
		now:         time.Now,
		log:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		state:       State{Loading: true},
		broadcaster: broadcast.NewMemory[Event](8),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns the current session state.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Token returns the bearer token of the live session, empty when
// unauthenticated. The in-memory copy is authoritative, so it works even
// when the token could not be persisted.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rawToken
}

// Subscribe returns a subscriber that receives an Event for every state
// transition. The subscription ends when ctx is cancelled or the subscriber
// is closed.
func (m *Manager) Subscribe(ctx context.Context) broadcast.Subscriber[Event] {
	return m.broadcaster.Subscribe(ctx)
}

// Bootstrap resolves the persisted token into an initial authenticated or
// unauthenticated state and clears the loading flag. It runs once; repeated
// calls return the current state unchanged.
//
// A keystore read failure is logged and treated like an absent token so the
// user can still reach the unauthenticated flow.
func (m *Manager) Bootstrap(ctx context.Context) State {
	m.mu.Lock()
	if m.bootstrapped {
		state := m.state
		m.mu.Unlock()
		return state
	}
	m.bootstrapped = true
	m.mu.Unlock()

	raw, err := m.store.Get(ctx, m.key)
	switch {
	case errors.Is(err, securestore.ErrNotFound):
		m.setState(State{}, ReasonBootstrap)
	case err != nil:
		m.log.Error("session: reading persisted token", slog.Any("error", err))
		m.setState(State{}, ReasonBootstrap)
	default:
		claims, decodeErr := token.Decode(raw)
		if decodeErr != nil || claims.Expired(m.now()) {
			if decodeErr != nil {
				m.log.Warn("session: discarding undecodable token", slog.Any("error", decodeErr))
			}
			m.deleteToken(ctx)
			m.setState(State{}, ReasonBootstrap)
			break
		}
		m.mu.Lock()
		m.rawToken = raw
		m.mu.Unlock()
		m.setState(State{Authenticated: true, Claims: &claims}, ReasonBootstrap)
		m.startWatch()
	}

	return m.State()
}

// Login loads a freshly issued bearer token: persists it, decodes it, and
// transitions to authenticated. An empty or undecodable token is rejected
// without touching state. When persistence fails the in-memory state still
// updates and ErrPersistFailed is returned for the caller to surface.
func (m *Manager) Login(ctx context.Context, raw string) error {
	if raw == "" {
		return ErrEmptyToken
	}
	claims, err := token.Decode(raw)
	if err != nil {
		return err
	}

	var persistErr error
	if err := m.store.Set(ctx, m.key, raw); err != nil {
		m.log.Error("session: persisting token", slog.Any("error", err))
		persistErr = errors.Join(ErrPersistFailed, err)
	}

	m.mu.Lock()
	m.rawToken = raw
	m.mu.Unlock()
	m.setState(State{Authenticated: true, Claims: &claims}, ReasonLogin)
	m.startWatch()
	return persistErr
}

// Logout deletes the persisted token and transitions to unauthenticated.
// It is idempotent and never returns an error; a keystore delete failure is
// logged and the in-memory state is cleared regardless.
func (m *Manager) Logout(ctx context.Context) {
	m.clear(ctx, ReasonLogout)
}

// Close stops the background watch and closes all subscribers.
func (m *Manager) Close() {
	m.stopWatch()
	m.broadcaster.Close()
}

func (m *Manager) clear(ctx context.Context, reason Reason) {
	m.stopWatch()
	m.deleteToken(ctx)
	m.mu.Lock()
	m.rawToken = ""
	m.mu.Unlock()
	m.setState(State{}, reason)
}

func (m *Manager) deleteToken(ctx context.Context) {
	if err := m.store.Delete(ctx, m.key); err != nil {
		m.log.Error("session: deleting persisted token", slog.Any("error", err))
	}
}

// setState swaps the state and publishes the transition. Transitions that
// change nothing are swallowed so consumers see each effective change once.
func (m *Manager) setState(next State, reason Reason) {
	m.mu.Lock()
	if statesEqual(m.state, next) {
		m.mu.Unlock()
		return
	}
	m.state = next
	m.mu.Unlock()

	m.broadcaster.Publish(Event{State: next, Reason: reason})
}

func (m *Manager) startWatch() {
	m.watchMu.Lock()
	defer m.watchMu.Unlock()

	if m.watchCancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.watchCancel = cancel
	go m.watch(ctx)
}

// stopWatch cancels the watch without waiting: the watch goroutine itself
// triggers expiry logouts, so waiting here would deadlock.
func (m *Manager) stopWatch() {
	m.watchMu.Lock()
	defer m.watchMu.Unlock()

	if m.watchCancel != nil {
		m.watchCancel()
		m.watchCancel = nil
	}
}

func (m *Manager) watch(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.checkExpiry(ctx)
		}
	}
}

// checkExpiry re-reads the persisted token and forces a logout when it has
// expired or turned undecodable since the last check.
func (m *Manager) checkExpiry(ctx context.Context) {
	raw, err := m.store.Get(ctx, m.key)
	if err != nil {
		if !errors.Is(err, securestore.ErrNotFound) {
			m.log.Warn("session: expiry check could not read store", slog.Any("error", err))
			return
		}
		// Memory-only session: nothing persisted, check the live token.
		raw = m.Token()
		if raw == "" {
			return
		}
	}

	claims, err := token.Decode(raw)
	if err == nil && !claims.Expired(m.now()) {
		return
	}

	m.log.Info("session: token expired, logging out")
	m.clear(ctx, ReasonExpired)
}
