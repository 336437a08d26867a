// Package session owns the process-wide authentication state of the client.
//
// A single Manager is created at startup and handed to every consumer; it is
// the only writer of the persisted token entry and the only source of truth
// for whether the process currently holds a valid, non-expired bearer token.
//
// The lifecycle is a small state machine: the Manager starts in a loading
// state, Bootstrap resolves it to authenticated or unauthenticated exactly
// once, and Login/Logout flip between the two thereafter. While
// authenticated, a background watch re-reads the persisted token on a fixed
// interval and forces a logout the moment it has expired, so no consumer can
// keep presenting a dead token.
//
// Consumers observe the Manager through Subscribe, which delivers an Event
// for every state transition. Screens and guards react to events; they never
// poll the token store themselves.
//
// # Usage
//
//	manager := session.New(store, session.WithLogger(log))
//	defer manager.Close()
//
//	state := manager.Bootstrap(ctx)
//	if state.Authenticated {
//	    // restore the protected screen
//	}
//
//	sub := manager.Subscribe(ctx)
//	for event := range sub.C() {
//	    // re-evaluate routing on every transition
//	}
//
// # Concurrency
//
// All methods are safe for concurrent use. State transitions are atomic with
// respect to observers; across concurrent calls the last write wins.
package session
