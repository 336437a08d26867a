package securestore

import "context"

// Store is an asynchronous key-value keystore with encryption-at-rest
// semantics. Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the value stored under key, ErrNotFound when absent.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, overwriting any prior value.
	Set(ctx context.Context, key, value string) error

	// Delete removes the value stored under key. Deleting an absent key
	// is not an error.
	Delete(ctx context.Context, key string) error
}
