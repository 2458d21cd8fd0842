package hive

import (
	"context"
	"testing"
	"time"
)

// fakeDispatcher runs posted actions inline and records delayed actions for
// manual firing, so protocol flows are fully deterministic under test.
type fakeDispatcher struct {
	scheduled []scheduledAction
}

type scheduledAction struct {
	delay time.Duration
	fn    func()
}

func (d *fakeDispatcher) Post(fn func()) { fn() }

func (d *fakeDispatcher) PostAfter(delay time.Duration, fn func()) {
	d.scheduled = append(d.scheduled, scheduledAction{delay: delay, fn: fn})
}

// fire runs every currently scheduled action once, in order.
func (d *fakeDispatcher) fire() {
	pending := d.scheduled
	d.scheduled = nil
	for _, a := range pending {
		a.fn()
	}
}

// fakeTransport records requests and lets the test complete them by hand.
type fakeTransport struct {
	requests []Request
	pending  []func(Result)
}

func (tr *fakeTransport) Send(req Request, done func(Result)) {
	tr.requests = append(tr.requests, req)
	tr.pending = append(tr.pending, done)
}

// complete fires the completion callback of request i.
func (tr *fakeTransport) complete(i int, res Result) {
	tr.pending[i](res)
}

func (tr *fakeTransport) last() Request {
	return tr.requests[len(tr.requests)-1]
}

// syncTransport answers every request immediately with a canned result.
type syncTransport struct {
	requests []Request
	result   Result
}

func (tr *syncTransport) Send(req Request, done func(Result)) {
	tr.requests = append(tr.requests, req)
	done(tr.result)
}

// mapCache is an in-memory Cache fake that counts writes.
type mapCache struct {
	m        map[string]string
	setCalls int
}

func newMapCache() *mapCache {
	return &mapCache{m: make(map[string]string)}
}

func (c *mapCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	c.setCalls++
	c.m[key] = value
	return nil
}

func (c *mapCache) Get(ctx context.Context, key string) (bool, string, error) {
	v, ok := c.m[key]
	return ok, v, nil
}

func (c *mapCache) Delete(ctx context.Context, keys []string) (bool, error) {
	all := true
	for _, k := range keys {
		if _, ok := c.m[k]; !ok {
			all = false
			continue
		}
		delete(c.m, k)
	}
	return all, nil
}

func (c *mapCache) Ping(ctx context.Context) error { return nil }

func (c *mapCache) Clear(ctx context.Context) error {
	c.m = make(map[string]string)
	return nil
}

// errorCache fails every operation, for exercising degradation when the
// backing cache is down.
type errorCache struct {
	err error
}

func (c errorCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	return c.err
}

func (c errorCache) Get(ctx context.Context, key string) (bool, string, error) {
	return false, "", c.err
}

func (c errorCache) Delete(ctx context.Context, keys []string) (bool, error) {
	return false, c.err
}

func (c errorCache) Ping(ctx context.Context) error  { return c.err }
func (c errorCache) Clear(ctx context.Context) error { return c.err }

// testConfig returns a usable client config with writes enabled.
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.BaseURL = "http://hive.test"
	cfg.APIKey = "test-key"
	cfg.WritesEnabled = true
	return cfg
}

// newTestClient wires a Client with the in-file fakes.
func newTestClient(t *testing.T, cfg Config) (*Client, *fakeTransport, *fakeDispatcher, *mapCache) {
	t.Helper()
	tr := &fakeTransport{}
	d := &fakeDispatcher{}
	mc := newMapCache()
	c, err := NewClientWith(cfg, ClientDeps{Transport: tr, Cache: mc, Dispatcher: d})
	if err != nil {
		t.Fatalf("NewClientWith failed: %v", err)
	}
	return c, tr, d, mc
}

// loggedCategories returns the categories the client's limiter has emitted.
func loggedCategories(c *Client) map[string]time.Time {
	c.limiter.mu.Lock()
	defer c.limiter.mu.Unlock()
	out := make(map[string]time.Time, len(c.limiter.last))
	for k, v := range c.limiter.last {
		out[k] = v
	}
	return out
}
