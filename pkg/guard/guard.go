package guard

import (
	"context"
	"log/slog"

	"github.com/qrconnect/appkit/pkg/session"
)

// DefaultPublicRoute is where unauthenticated users land.
const DefaultPublicRoute = "/login"

// Outcome is the access decision for a protected route.
type Outcome int

const (
	// OutcomeWait means the session is still loading; render nothing yet.
	OutcomeWait Outcome = iota
	// OutcomeRedirect means the user must be sent to the public route.
	OutcomeRedirect
	// OutcomeAllow means the protected content may render.
	OutcomeAllow
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWait:
		return "wait"
	case OutcomeRedirect:
		return "redirect"
	case OutcomeAllow:
		return "allow"
	default:
		return "unknown"
	}
}

// Evaluate maps the two session flags onto an access decision. Loading wins
// over everything else so a restored session is never bounced mid-bootstrap.
func Evaluate(loading, authenticated bool) Outcome {
	switch {
	case loading:
		return OutcomeWait
	case !authenticated:
		return OutcomeRedirect
	default:
		return OutcomeAllow
	}
}

// Navigator abstracts the host routing layer. Replace swaps the current
// route without growing history, so Back cannot return to protected content.
type Navigator interface {
	Replace(route string)
}

// Guard enforces Evaluate against a live session for one protected surface.
type Guard struct {
	sessions *session.Manager
	nav      Navigator
	route    string
	log      *slog.Logger
}

// Option configures a Guard.
type Option func(*Guard)

// WithPublicRoute overrides DefaultPublicRoute as the redirect target.
func WithPublicRoute(route string) Option {
	return func(g *Guard) {
		if route != "" {
			g.route = route
		}
	}
}

// WithLogger attaches a logger for redirect events.
func WithLogger(log *slog.Logger) Option {
	return func(g *Guard) {
		if log != nil {
			g.log = log
		}
	}
}

// New creates a Guard over the given session manager and navigator. Both are
// required; the constructor panics without them.
func New(sessions *session.Manager, nav Navigator, opts ...Option) *Guard {
	if sessions == nil {
		panic("guard: session manager is required")
	}
	if nav == nil {
		panic("guard: navigator is required")
	}

	g := &Guard{
		sessions: sessions,
		nav:      nav,
		route:    DefaultPublicRoute,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Check evaluates the current session state, performing the redirect when the
// outcome demands one. Callers render protected content only on OutcomeAllow.
func (g *Guard) Check(_ context.Context) Outcome {
	return g.apply(g.sessions.State())
}

// Watch subscribes to session transitions and re-applies the decision on
// every event until ctx is done. It blocks; run it in its own goroutine for
// as long as the protected surface is mounted.
func (g *Guard) Watch(ctx context.Context) {
	sub := g.sessions.Subscribe(ctx)
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sub.C():
			if !ok {
				return
			}
			g.apply(ev.State)
		}
	}
}

func (g *Guard) apply(state session.State) Outcome {
	outcome := Evaluate(state.Loading, state.Authenticated)
	if outcome == OutcomeRedirect {
		g.log.Debug("guard: redirecting to public route", slog.String("route", g.route))
		g.nav.Replace(g.route)
	}
	return outcome
}
