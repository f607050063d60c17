// internal/infrastructure/storage/adapter.go
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a key has no stored value.
var ErrNotFound = errors.New("storage: key not found")

// Adapter is the persistence mechanism behind session-scoped collections.
// Implementations must make Save durable before returning; the collection
// stores persist synchronously on every mutation.
type Adapter interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}
