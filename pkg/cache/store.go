// Package cache provides a read-through memo for fetch results with
// pluggable in-memory and Redis backends.
//
// The cache is a pure memo: for a fixed key the stored value is exactly
// what the fetch produced at insertion time. There is no staleness
// policy; entries live until explicit invalidation or a clear.
package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrCacheMiss indicates the requested key was not found.
	ErrCacheMiss = errors.New("cache miss")

	// ErrInvalidEntry indicates a stored entry could not be decoded.
	ErrInvalidEntry = errors.New("invalid cache entry")
)

// Entry is a cached fetch result. Entries are immutable after insertion;
// stores replace or delete whole entries, never mutate them.
type Entry struct {
	// Key is the logical resource identifier.
	Key string `json:"key"`

	// Value is the fetched JSON value.
	Value []byte `json:"value"`

	// InsertedAt is when the entry was stored.
	InsertedAt time.Time `json:"inserted_at"`
}

// Store is a backing key-value store. Implementations must be safe for
// concurrent use.
type Store interface {
	// Get returns the entry for key, or ErrCacheMiss.
	Get(ctx context.Context, key string) (*Entry, error)

	// Set stores an entry, replacing any previous one for its key.
	Set(ctx context.Context, entry *Entry) error

	// Delete removes the entry for key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	// Keys lists all stored keys.
	Keys(ctx context.Context) ([]string, error)

	// Clear removes all entries.
	Clear(ctx context.Context) error
}
