package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims holds the decoded payload fields the client reads from a bearer
// token. Nothing here is cryptographically verified.
type Claims struct {
	Subject   string
	ExpiresAt int64 // Unix seconds
	IssuedAt  int64 // Unix seconds, zero when the claim is absent
}

// Expired reports whether the declared expiry is at or before now.
func (c Claims) Expired(now time.Time) bool {
	return c.ExpiresAt <= now.Unix()
}

// ExpiryTime returns the expiry as a time.Time.
func (c Claims) ExpiryTime() time.Time {
	return time.Unix(c.ExpiresAt, 0)
}

var parser = jwt.NewParser()

// Decode extracts the claims from a bearer token without verifying its
// signature. A token without an expiry claim is rejected: the session
// lifecycle has no way to retire it.
func Decode(tokenString string) (Claims, error) {
	var registered jwt.RegisteredClaims
	if _, _, err := parser.ParseUnverified(tokenString, &registered); err != nil {
		return Claims{}, errors.Join(ErrMalformedToken, err)
	}
	if registered.ExpiresAt == nil {
		return Claims{}, ErrMissingExpiry
	}

	claims := Claims{
		Subject:   registered.Subject,
		ExpiresAt: registered.ExpiresAt.Unix(),
	}
	if registered.IssuedAt != nil {
		claims.IssuedAt = registered.IssuedAt.Unix()
	}

	return claims, nil
}
