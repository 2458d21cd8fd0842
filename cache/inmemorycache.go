// Package cache provides the in-process implementation of hive.Cache. It
// suits a single game-server process; fleets that need a shared view use the
// redis package instead.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/sharedcode/hive"
)

type item struct {
	data       string
	expiration time.Time
}

// InMemoryCache is a mutex-guarded map cache. Entries without an expiration
// live for the process lifetime; the client's working set is one value per
// player key plus one per claimed transfer, small enough that eviction is
// not worth its complexity.
type InMemoryCache struct {
	mu     sync.RWMutex
	lookup map[string]item
	now    func() time.Time
}

// NewInMemoryCache returns an empty in-process cache.
func NewInMemoryCache() hive.Cache {
	return &InMemoryCache{
		lookup: make(map[string]item),
		now:    time.Now,
	}
}

func (c *InMemoryCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	var exp time.Time
	if expiration > 0 {
		exp = c.now().Add(expiration)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.lookup[key] = item{data: value, expiration: exp}
	return nil
}

func (c *InMemoryCache) Get(ctx context.Context, key string) (bool, string, error) {
	c.mu.RLock()
	it, ok := c.lookup[key]
	c.mu.RUnlock()
	if !ok {
		return false, "", nil
	}

	if !it.expiration.IsZero() && c.now().After(it.expiration) {
		c.mu.Lock()
		delete(c.lookup, key)
		c.mu.Unlock()
		return false, "", nil
	}

	return true, it.data, nil
}

func (c *InMemoryCache) Delete(ctx context.Context, keys []string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	all := true
	for _, k := range keys {
		if _, ok := c.lookup[k]; !ok {
			all = false
			continue
		}
		delete(c.lookup, k)
	}
	return all, nil
}

func (c *InMemoryCache) Ping(ctx context.Context) error {
	return nil
}

func (c *InMemoryCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lookup = make(map[string]item)
	return nil
}

func init() {
	hive.RegisterCache(hive.Memory, NewInMemoryCache)
}
