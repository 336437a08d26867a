// Package guard decides whether a protected screen may render and sends the
// user back to the public route when it may not.
//
// The decision itself is the pure Evaluate function over the two session
// flags. Guard binds that decision to a session.Manager and a Navigator so
// the redirect fires both when a protected screen mounts and whenever the
// session later transitions to unauthenticated.
//
// Usage:
//
//	g := guard.New(sessions, navigator, guard.WithPublicRoute("/login"))
//	if g.Check(ctx) != guard.OutcomeAllow {
//		return // redirected or still loading
//	}
//	go g.Watch(ctx) // keep enforcing while the screen is up
package guard
