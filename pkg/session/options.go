package session

import (
	"log/slog"
	"time"
)

// Option configures a Manager.
type Option func(*Manager)

// WithStorageKey overrides the secure-store key the token is persisted
// under.
func WithStorageKey(key string) Option {
	return func(m *Manager) {
		if key != "" {
			m.key = key
		}
	}
}

// WithWatchInterval overrides how often the background watch re-checks the
// persisted token's expiry.
func WithWatchInterval(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.interval = d
		}
	}
}

// WithClock overrides the time source used for expiry checks. Intended for
// tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithLogger sets the logger for diagnostics such as keystore failures.
func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}
