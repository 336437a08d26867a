package qrview

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/qrconnect/appkit/pkg/apiclient"
	"github.com/qrconnect/appkit/pkg/broadcast"
	"github.com/qrconnect/appkit/pkg/guard"
	"github.com/qrconnect/appkit/pkg/i18n"
	"github.com/qrconnect/appkit/pkg/session"
)

// DefaultPollInterval is how often the screen re-fetches the artifact while
// mounted. Slightly over a minute so the poll never races the per-minute
// session expiry check.
const DefaultPollInterval = 60002 * time.Millisecond

// Client is the slice of the remote API the screen needs.
type Client interface {
	Current(ctx context.Context, bearer string) (*apiclient.Artifact, error)
	Refresh(ctx context.Context, bearer string) (string, error)
}

// State is a snapshot of everything the screen renders.
type State struct {
	Artifact   *apiclient.Artifact
	Loading    bool
	Refreshing bool
	Notice     string
}

// Controller drives the QR screen: initial fetch, slow poll, manual refresh,
// and the session watch that evicts the screen when the session ends.
type Controller struct {
	qr         Client
	sessions   *session.Manager
	guard      *guard.Guard
	translator *i18n.Translator
	lang       string
	poll       time.Duration
	log        *slog.Logger

	mu    sync.RWMutex
	state State

	broadcaster *broadcast.Memory[State]

	runMu  sync.Mutex
	cancel context.CancelFunc
}

// Option configures a Controller.
type Option func(*Controller)

// WithLanguage sets the language notices are resolved in.
func WithLanguage(lang string) Option {
	return func(c *Controller) {
		if lang != "" {
			c.lang = lang
		}
	}
}

// WithPollInterval overrides DefaultPollInterval. Panics on non-positive
// values so a zero interval cannot spin the poll loop.
func WithPollInterval(d time.Duration) Option {
	return func(c *Controller) {
		if d <= 0 {
			panic("qrview: poll interval must be positive")
		}
		c.poll = d
	}
}

// WithLogger attaches a logger.
func WithLogger(log *slog.Logger) Option {
	return func(c *Controller) {
		if log != nil {
			c.log = log
		}
	}
}

// New creates the controller. All four collaborators are required; the
// constructor panics without them.
func New(qr Client, sessions *session.Manager, g *guard.Guard, translator *i18n.Translator, opts ...Option) *Controller {
	if qr == nil {
		panic("qrview: QR client is required")
	}
	if sessions == nil {
		panic("qrview: session manager is required")
	}
	if g == nil {
		panic("qrview: guard is required")
	}
	if translator == nil {
		panic("qrview: translator is required")
	}

	c := &Controller{
		qr:          qr,
		sessions:    sessions,
		guard:       g,
		translator:  translator,
		lang:        i18n.DefaultLanguage,
		poll:        DefaultPollInterval,
		log:         slog.Default(),
		state:       State{Loading: true},
		broadcaster: broadcast.NewMemory[State](8),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current screen state.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Subscribe returns a subscriber that receives a snapshot after every state
// change while the screen is mounted.
func (c *Controller) Subscribe(ctx context.Context) broadcast.Subscriber[State] {
	return c.broadcaster.Subscribe(ctx)
}

// Start mounts the screen: checks access, loads the artifact, then keeps a
// poll loop and the session watch running until ctx is done or Stop is
// called. The access outcome is returned so hosts can skip rendering on
// anything but OutcomeAllow. Starting twice is a no-op.
func (c *Controller) Start(ctx context.Context) guard.Outcome {
	if outcome := c.guard.Check(ctx); outcome != guard.OutcomeAllow {
		return outcome
	}

	c.runMu.Lock()
	if c.cancel != nil {
		c.runMu.Unlock()
		return guard.OutcomeAllow
	}
	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.runMu.Unlock()

	c.fetch(runCtx)
	go c.guard.Watch(runCtx)
	go c.pollLoop(runCtx)
	return guard.OutcomeAllow
}

// Stop unmounts the screen and ends the poll and watch goroutines.
func (c *Controller) Stop() {
	c.runMu.Lock()
	defer c.runMu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// Close stops the controller and closes all subscribers.
func (c *Controller) Close() {
	c.Stop()
	c.broadcaster.Close()
}

// Refresh asks the server to rotate the artifact. Concurrent refreshes are
// collapsed into one.
func (c *Controller) Refresh(ctx context.Context) {
	c.mu.Lock()
	if c.state.Refreshing {
		c.mu.Unlock()
		return
	}
	c.state.Refreshing = true
	snapshot := c.state
	c.mu.Unlock()
	c.broadcaster.Publish(snapshot)

	defer c.setState(func(s *State) { s.Refreshing = false })

	bearer := c.sessions.Token()
	if bearer == "" {
		return
	}

	code, err := c.qr.Refresh(ctx, bearer)
	if err != nil {
		c.log.Warn("qrview: refresh failed", slog.Any("error", err))
		c.setState(func(s *State) {
			s.Notice = c.translator.Td(c.lang, "qr.refresh_failed", "Failed to refresh QR code. Please try again.")
		})
		return
	}

	c.mu.RLock()
	hasArtifact := c.state.Artifact != nil
	c.mu.RUnlock()
	if !hasArtifact {
		// First artifact for this account, fetch the full record.
		c.fetch(ctx)
		return
	}
	c.setState(func(s *State) {
		artifact := *s.Artifact
		artifact.Code = code
		s.Artifact = &artifact
		s.Notice = ""
	})
}

// Logout ends the session. The session watch then redirects the screen.
func (c *Controller) Logout(ctx context.Context) {
	c.sessions.Logout(ctx)
}

func (c *Controller) pollLoop(ctx context.Context) {
	ticker := time.NewTicker(c.poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.fetch(ctx)
		}
	}
}

func (c *Controller) fetch(ctx context.Context) {
	bearer := c.sessions.Token()
	if bearer == "" {
		return
	}

	artifact, err := c.qr.Current(ctx, bearer)
	switch {
	case errors.Is(err, apiclient.ErrArtifactNotFound):
		c.setState(func(s *State) {
			s.Artifact = nil
			s.Loading = false
			s.Notice = c.translator.Td(c.lang, "qr.empty", "No QR code available yet.")
		})
	case err != nil:
		c.log.Warn("qrview: loading artifact failed", slog.Any("error", err))
		c.setState(func(s *State) {
			s.Loading = false
			s.Notice = c.translator.Td(c.lang, "qr.load_failed", "Failed to load QR code. Please try again.")
		})
	default:
		c.setState(func(s *State) {
			s.Artifact = artifact
			s.Loading = false
			s.Notice = ""
		})
	}
}

func (c *Controller) setState(mutate func(*State)) {
	c.mu.Lock()
	mutate(&c.state)
	snapshot := c.state
	c.mu.Unlock()
	c.broadcaster.Publish(snapshot)
}
