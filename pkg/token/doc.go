// Package token decodes bearer token payloads on the client side.
//
// The decode is deliberately unverified: the client only reads the declared
// subject and expiry to drive its own session state, never to authorize
// anything. Every protected call still carries the raw token and the server
// re-validates it there.
//
// # Usage
//
//	import "github.com/qrconnect/appkit/pkg/token"
//
//	claims, err := token.Decode(raw)
//	if err != nil {
//	    // malformed token - treat as not authenticated
//	}
//	if claims.Expired(time.Now()) {
//	    // discard the token
//	}
//
// Returns ErrMalformedToken for tokens that are not three dot-separated
// segments with a JSON payload, and ErrMissingExpiry when the payload has no
// exp claim. Both are sentinel values suitable for errors.Is comparison.
// Expired is a pure function and never fails given decoded claims.
package token
