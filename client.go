package hive

import (
	"context"
	"fmt"
	"net/http"
)

// Client synchronizes a game server's durable state with a remote hive
// service. It offers fire-and-forget key/value writes, cache-backed reads,
// and a two-phase transfer handoff for moving a player's payload between
// servers. No public method blocks on network I/O; outcomes land in the
// cache (or in a Future) and callers poll from their own tick.
type Client struct {
	cfg       Config
	cache     Cache
	transport Transport
	dispatch  Dispatcher
	limiter   *LogLimiter
	policy    *retryPolicy
	marshaler Marshaler

	ctx    context.Context
	cancel context.CancelFunc

	ownsDispatch bool
}

// ClientDeps lets callers substitute the pieces a Client is wired with. Zero
// fields are filled with production defaults resolved from the Config.
type ClientDeps struct {
	Transport  Transport
	Cache      Cache
	Dispatcher Dispatcher
}

// NewClient builds a Client from cfg using production wiring: the registered
// cache for cfg.CacheType and the registered transport.
func NewClient(cfg Config) (*Client, error) {
	return NewClientWith(cfg, ClientDeps{})
}

// NewClientWith builds a Client with explicit dependencies. Tests inject
// fakes here; applications embedding their own transport or cache can too.
func NewClientWith(cfg Config, deps ClientDeps) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("hive config: %w", err)
	}
	cfg = cfg.normalized()

	c := &Client{
		cfg:       cfg,
		cache:     deps.Cache,
		transport: deps.Transport,
		dispatch:  deps.Dispatcher,
		limiter:   NewLogLimiter(cfg.LogCooldown),
		policy:    newRetryPolicy(cfg.RetryEnabled),
		marshaler: DefaultMarshaler,
	}
	if c.cache == nil {
		c.cache = NewCache(cfg.CacheType)
		if c.cache == nil {
			return nil, fmt.Errorf("no cache registered for type %v, import github.com/sharedcode/hive/cache or github.com/sharedcode/hive/redis", cfg.CacheType)
		}
	}
	if c.transport == nil {
		c.transport = newTransport(cfg)
		if c.transport == nil {
			return nil, fmt.Errorf("no transport registered, import github.com/sharedcode/hive/rest")
		}
	}
	if c.dispatch == nil {
		c.dispatch = newLoopDispatcher(defaultQueueSize)
		c.ownsDispatch = true
	}
	c.ctx, c.cancel = context.WithCancel(context.Background())
	return c, nil
}

// Config returns the configuration the client was built with.
func (c *Client) Config() Config {
	return c.cfg
}

// Close stops the dispatch loop. Requests already on the wire complete but
// their outcomes are dropped; scheduled retries never fire.
func (c *Client) Close() {
	c.cancel()
	if c.ownsDispatch {
		if d, ok := c.dispatch.(*loopDispatcher); ok {
			d.Stop()
		}
	}
}

// HealthRequest returns the wire request probing the hive health endpoint.
func HealthRequest() Request {
	return Request{Method: http.MethodGet, Path: "/health"}
}

// Ping probes the hive service health endpoint through the transport. Unlike
// the sync APIs it blocks, bounded by ctx, since health checks run at startup
// or from an operator console rather than inside a frame loop.
func (c *Client) Ping(ctx context.Context) error {
	res := make(chan Result, 1)
	c.transport.Send(HealthRequest(), func(r Result) {
		res <- r
	})
	select {
	case r := <-res:
		if err := r.Failure(); err != nil {
			return fmt.Errorf("hive health: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// cacheGet consults the cache, demoting backend errors to misses so a broken
// shared cache degrades to fetching from the hive instead of failing reads.
func (c *Client) cacheGet(key string) (bool, string) {
	found, value, err := c.cache.Get(c.ctx, key)
	if err != nil {
		c.limiter.LogOnce(LogCacheError, "hive cache read failed", "key", key, "error", err)
		return false, ""
	}
	return found, value
}

// cacheSet memoizes a value, reporting backend write failures through the
// limiter. Entries never expire; the hive service stays the source of truth.
func (c *Client) cacheSet(key, value string) {
	if err := c.cache.Set(c.ctx, key, value, 0); err != nil {
		c.limiter.LogOnce(LogCacheError, "hive cache write failed", "key", key, "error", err)
	}
}
