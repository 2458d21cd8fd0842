package hive

import (
	"fmt"
	"strings"
)

// CacheType defines the type of cache to use.
type CacheType int

const (
	// Memory represents the in-process map cache.
	Memory CacheType = iota
	// Redis represents a Redis-backed cache shared across server instances.
	Redis
)

func (t CacheType) String() string {
	switch t {
	case Memory:
		return "memory"
	case Redis:
		return "redis"
	}
	return fmt.Sprintf("CacheType(%d)", int(t))
}

// UnmarshalText parses "memory" or "redis", which is how the HIVE_CACHE
// environment variable and config files name the cache types.
func (t *CacheType) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "", "memory":
		*t = Memory
	case "redis":
		*t = Redis
	default:
		return fmt.Errorf("unknown cache type %q", string(text))
	}
	return nil
}

// CacheFactory defines the function signature for creating a cache client.
type CacheFactory func() Cache

var cacheRegistry = make(map[CacheType]CacheFactory)

// RegisterCache registers a cache factory for a given type. Concrete cache
// packages call this from init, so importing a package makes its type
// available to NewCache.
func RegisterCache(t CacheType, f CacheFactory) {
	cacheRegistry[t] = f
}

// NewCache creates a cache of the given type using the registered factory.
// It returns nil if no factory is registered for t.
func NewCache(t CacheType) Cache {
	if f, ok := cacheRegistry[t]; ok {
		return f()
	}
	return nil
}
