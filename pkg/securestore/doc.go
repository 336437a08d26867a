// Package securestore provides scoped key-value storage with encryption at
// rest for on-device secrets such as the session bearer token.
//
// Store is the interface the rest of the kit consumes. FileStore is the
// production implementation: one AES-256-GCM encrypted file per key under a
// private data directory, with the encryption key derived from a 32-byte app
// key via HKDF-SHA256. MemoryStore backs tests and ephemeral runs and can
// inject failures to exercise degraded-keystore paths.
//
// # Usage
//
//	store, err := securestore.NewFileStore(dataDir, appKey)
//	if err != nil {
//	    // invalid key or unusable directory
//	}
//	if err := store.Set(ctx, "auth_token", raw); err != nil {
//	    // keystore unavailable
//	}
//
// # Error Handling
//
// Get returns ErrNotFound when no value exists for the key. Any other
// failure (unreadable directory, undecryptable entry) wraps ErrUnavailable so
// callers can degrade gracefully with errors.Is.
package securestore
