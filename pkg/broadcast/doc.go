// Package broadcast provides a small in-process publish/subscribe primitive
// used to fan out session state changes to screens and guards.
//
// Sends are non-blocking: a subscriber whose buffer is full misses the
// message and is dropped, so a stalled consumer can never hold up a state
// transition. Subscriptions are scoped to a context and clean themselves up
// when it is cancelled.
package broadcast
