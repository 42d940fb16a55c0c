// Package cache provides the cache-aside lookup used by every cached read in
// the system. The cache is never the source of truth: reads populate it on a
// miss, mutations delete keys and never write values back.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss signals that a key is absent or expired. Store implementations
// translate their backend's not-found value into this sentinel.
var ErrCacheMiss = errors.New("cache miss")

// Store is the minimal key-value contract the lookup needs. Values are
// serialized as JSON by the implementation.
type Store interface {
	GetJSON(ctx context.Context, key string, dest any) error
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// GetOrCompute returns the cached value under key if present, otherwise calls
// fetch exactly once, caches the result with the given TTL and returns it.
// A failed fetch is never cached, so "not found" results stay uncached and a
// later call fetches again. Concurrent callers during a miss may each invoke
// fetch; no deduplication is attempted.
func GetOrCompute[T any](ctx context.Context, store Store, key string, ttl time.Duration, fetch func(context.Context) (T, error)) (T, error) {
	var cached T
	err := store.GetJSON(ctx, key, &cached)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		var zero T
		return zero, err
	}

	value, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	if err := store.SetJSON(ctx, key, value, ttl); err != nil {
		var zero T
		return zero, err
	}
	return value, nil
}

// Invalidate removes a key unconditionally. Deleting an absent key is not an
// error. A backend failure propagates: by the time invalidation runs the
// durable mutation has already succeeded, but callers must still learn that a
// stale cached view may survive until the TTL elapses.
func Invalidate(ctx context.Context, store Store, key string) error {
	return store.Delete(ctx, key)
}
