// Package apiclient implements the remote HTTP API the client consumes:
// account registration, login, password-reset requests, and the QR artifact
// endpoints.
//
// A shared Client wraps a resty client configured with the API base URL,
// JSON defaults, per-request X-Request-ID headers, and response logging.
// AuthClient and QRClient layer the concrete calls on top.
//
// # Error Handling
//
// Non-2xx responses become *RemoteError carrying the HTTP status and the
// server's error/message field when present; callers branch with errors.As
// and supply their own user-facing fallback text. A 2xx auth response
// without a token is ErrNoToken. A 404 from the current-QR endpoint means
// "no artifact yet" and maps to ErrArtifactNotFound rather than a failure.
// Transport-level errors from the current-QR poll are retried with capped
// exponential backoff; mutating calls are never retried.
package apiclient
