package cache

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

// FetchFunc produces the value for a key on a cache miss. A nil value
// with a nil error means the resource is absent.
type FetchFunc func(ctx context.Context) ([]byte, error)

// Cache is a read-through memo over a Store. Concurrent GetOrFetch calls
// for the same key may each invoke the fetch (at-least-once under races);
// the last writer wins, which is harmless since both fetched the same
// logical value.
type Cache struct {
	store  Store
	logger zerolog.Logger
}

// New creates a cache over the given store.
func New(store Store, logger zerolog.Logger) *Cache {
	if store == nil {
		panic("cache store cannot be nil")
	}
	return &Cache{
		store:  store,
		logger: logger,
	}
}

// GetOrFetch returns the cached value for key, invoking fetch on a miss.
// Only successful, present results are stored: errors and nil values are
// returned to the caller but never cached, so transient failures are
// retried on the next call. A context cancelled during the fetch
// suppresses the store write.
func (c *Cache) GetOrFetch(ctx context.Context, key Key, fetch FetchFunc) ([]byte, error) {
	storeKey := key.String()

	entry, err := c.store.Get(ctx, storeKey)
	if err == nil {
		cacheHits.Inc()
		c.logger.Debug().Str("key", storeKey).Msg("Cache hit")
		return entry.Value, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		// Store trouble degrades to a direct fetch.
		c.logger.Warn().Err(err).Str("key", storeKey).Msg("Cache get error")
	}
	cacheMisses.Inc()

	value, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	if value == nil {
		return nil, nil
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	setErr := c.store.Set(ctx, &Entry{
		Key:        storeKey,
		Value:      value,
		InsertedAt: time.Now(),
	})
	if setErr != nil {
		c.logger.Warn().Err(setErr).Str("key", storeKey).Msg("Cache set error")
	}

	return value, nil
}

// Invalidate removes every entry whose key matches the predicate and
// returns how many were removed.
func (c *Cache) Invalidate(ctx context.Context, match func(key string) bool) (int, error) {
	keys, err := c.store.Keys(ctx)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, key := range keys {
		if !match(key) {
			continue
		}
		if err := c.store.Delete(ctx, key); err != nil {
			return removed, err
		}
		removed++
		cacheInvalidations.Inc()
	}

	if removed > 0 {
		c.logger.Debug().Int("removed", removed).Msg("Cache entries invalidated")
	}
	return removed, nil
}

// Clear empties the cache entirely.
func (c *Cache) Clear(ctx context.Context) error {
	return c.store.Clear(ctx)
}
