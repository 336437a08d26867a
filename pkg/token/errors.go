package token

import "errors"

var (
	ErrMalformedToken = errors.New("token: malformed token")
	ErrMissingExpiry  = errors.New("token: missing expiry claim")
)
