package session

import "github.com/qrconnect/appkit/pkg/token"

// State is the externally visible session state. Claims is non-nil exactly
// when Authenticated is true.
type State struct {
	// Loading is true only until Bootstrap has resolved the persisted
	// token, and false for the rest of the process lifetime.
	Loading bool

	// Authenticated is true while a non-expired token is loaded.
	Authenticated bool

	// Claims is the decoded payload of the loaded token.
	Claims *token.Claims
}

// Reason says which operation produced a state transition.
type Reason string

const (
	ReasonBootstrap Reason = "bootstrap"
	ReasonLogin     Reason = "login"
	ReasonLogout    Reason = "logout"
	ReasonExpired   Reason = "expired"
)

// Event is published on every state transition.
type Event struct {
	State  State
	Reason Reason
}

func statesEqual(a, b State) bool {
	if a.Loading != b.Loading || a.Authenticated != b.Authenticated {
		return false
	}
	if (a.Claims == nil) != (b.Claims == nil) {
		return false
	}
	return a.Claims == nil || *a.Claims == *b.Claims
}
