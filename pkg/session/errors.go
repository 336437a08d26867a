package session

import "errors"

var (
	// ErrEmptyToken is returned by Login when the token string is empty
	ErrEmptyToken = errors.New("session: empty token")

	// ErrPersistFailed is returned by Login when the token could not be
	// written to the secure store. In-memory state is still updated; the
	// session will not survive a process restart until a later write
	// succeeds.
	ErrPersistFailed = errors.New("session: failed to persist token")
)
