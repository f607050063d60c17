// internal/infrastructure/storage/memory.go
package storage

import (
	"context"
	"sync"
)

// MemoryAdapter keeps values in process memory. Intended for tests and
// single-instance development runs; nothing survives a restart.
type MemoryAdapter struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemoryAdapter creates an empty in-memory adapter
func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{
		values: make(map[string][]byte),
	}
}

// Load retrieves the value stored under key
func (m *MemoryAdapter) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.values[key]
	if !ok {
		return nil, ErrNotFound
	}

	// Copy so callers cannot mutate the stored value
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Save stores value under key, replacing any previous value
func (m *MemoryAdapter) Save(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make([]byte, len(data))
	copy(stored, data)
	m.values[key] = stored
	return nil
}

// Delete removes key; deleting an absent key is not an error
func (m *MemoryAdapter) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, key)
	return nil
}
