package hive

import (
	"context"
	"time"
)

// Cache is the local memoization store the client reads through and writes
// through. Implementations must be safe for concurrent use; the in-process
// map in the cache package suits a single game-server process, the redis
// package suits fleets that need to observe the same memoized state.
type Cache interface {
	// Set upserts the value under key. A zero expiration means no expiry.
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
	// Get fetches the value for key, reporting whether it was found.
	Get(ctx context.Context, key string) (bool, string, error)
	// Delete removes the given keys, reporting whether all were present.
	Delete(ctx context.Context, keys []string) (bool, error)
	// Ping tests connectivity of the backing store.
	Ping(ctx context.Context) error
	// Clear removes all entries.
	Clear(ctx context.Context) error
}

// ClaimCacheKey returns the cache key under which a claimed transfer payload
// is memoized.
func ClaimCacheKey(token string) string {
	return "claim_" + token
}
