package securestore

import "errors"

var (
	// ErrNotFound indicates no value is stored under the key
	ErrNotFound = errors.New("securestore: not found")

	// ErrUnavailable indicates the underlying keystore failed
	ErrUnavailable = errors.New("securestore: keystore unavailable")

	// ErrInvalidKey indicates the app key has the wrong length
	ErrInvalidKey = errors.New("securestore: app key must be 32 bytes")
)
