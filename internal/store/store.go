package store

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("record not found")

	// ErrUpdateConflict is returned when an atomic Update keeps losing
	// its optimistic check against concurrent writers.
	ErrUpdateConflict = errors.New("record update conflict")
)

// RecordStore is the flat key-value namespace that backs every entity.
// Values are opaque JSON documents; callers own the encoding.
type RecordStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error

	// MGet returns the values for the keys that exist, in the order the
	// keys were given. Missing keys are skipped, not errors.
	MGet(ctx context.Context, keys ...string) ([][]byte, error)

	// GetByPrefix returns every value whose key starts with prefix,
	// ordered by key.
	GetByPrefix(ctx context.Context, prefix string) ([][]byte, error)

	// Update atomically applies fn to the current value at key and
	// writes the result back. fn receives nil when the key is absent.
	// Two concurrent Updates on the same key never lose a write.
	Update(ctx context.Context, key string, fn func(current []byte) ([]byte, error)) error

	Close() error
}
