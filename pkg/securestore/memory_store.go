package securestore

import (
	"context"
	"sync"
)

// MemoryStore implements Store with an in-memory map. It is intended for
// tests and ephemeral runs; values are lost at process exit.
type MemoryStore struct {
	mu        sync.RWMutex
	values    map[string]string
	readErr   error
	writeErr  error
	deleteErr error
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// Get returns the stored value or ErrNotFound.
func (m *MemoryStore) Get(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.readErr != nil {
		return "", m.readErr
	}
	value, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

// Set stores value under key.
func (m *MemoryStore) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.writeErr != nil {
		return m.writeErr
	}
	m.values[key] = value
	return nil
}

// Delete removes the entry for key.
func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.values, key)
	return nil
}

// Has reports whether a value exists for key, bypassing injected errors.
func (m *MemoryStore) Has(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.values[key]
	return ok
}

// FailReads makes subsequent Get calls return err until called with nil.
func (m *MemoryStore) FailReads(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readErr = err
}

// FailWrites makes subsequent Set calls return err until called with nil.
func (m *MemoryStore) FailWrites(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeErr = err
}

// FailDeletes makes subsequent Delete calls return err until called with nil.
func (m *MemoryStore) FailDeletes(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteErr = err
}
