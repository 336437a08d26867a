// Package qrview is the controller behind the protected QR screen.
//
// The controller owns the screen state (current artifact, loading and
// refreshing flags, a user-facing notice) and the background work around it:
// an initial fetch on Start, a slow poll that keeps the artifact current,
// and a session watch that sends the user back to the public route the
// moment the session ends. The session manager's expiry watch is the only
// expiry authority; this package just reacts to its events.
//
// Rendering stays with the host. Subscribe delivers a State snapshot after
// every change; pkg/qrcode turns an artifact payload into PNG bytes.
package qrview
