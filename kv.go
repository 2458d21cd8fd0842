package hive

import (
	"net/http"
	"net/url"
)

// saveOp carries one pending SaveKV exchange through dispatch and retries.
type saveOp struct {
	key     string
	value   string
	attempt int
}

// loadOp carries one pending LoadKV fetch.
type loadOp struct {
	key     string
	attempt int
}

// SaveStateRequest returns the wire request persisting value under key. The
// value is trusted opaque JSON text and is embedded in the body as-is.
func SaveStateRequest(key, value string) Request {
	return Request{
		Method: http.MethodPut,
		Path:   "/v1/state/" + url.PathEscape(key),
		Body:   []byte(`{"v":` + value + `}`),
	}
}

// LoadStateRequest returns the wire request fetching the value under key.
func LoadStateRequest(key string) Request {
	return Request{
		Method: http.MethodGet,
		Path:   "/v1/state/" + url.PathEscape(key),
	}
}

// SaveKV persists a pre-serialized JSON value under key. It returns
// immediately: true means the write was accepted for asynchronous delivery
// (trivially so when writes are disabled), false means it was rejected
// outright for exceeding the payload limit. Delivery failures are retried
// with jitter and surface only through the rate-limited log; the cache is
// updated once the hive acknowledges the write.
func (c *Client) SaveKV(key, value string) bool {
	if !c.cfg.WritesEnabled {
		return true
	}
	if len(value) > c.cfg.PayloadLimit {
		c.limiter.LogOnce(LogPayloadSize, "hive payload size exceeds limit",
			"key", key, "size", len(value), "limit", c.cfg.PayloadLimit)
		return false
	}
	op := saveOp{key: key, value: value, attempt: 1}
	c.dispatch.Post(func() { c.sendSave(op) })
	return true
}

func (c *Client) sendSave(op saveOp) {
	c.transport.Send(SaveStateRequest(op.key, op.value), func(res Result) {
		c.dispatch.Post(func() { c.saveDone(op, res) })
	})
}

func (c *Client) saveDone(op saveOp, res Result) {
	if res.OK() {
		c.cacheSet(op.key, op.value)
		return
	}
	if c.policy.enabled {
		next := op
		next.attempt++
		c.dispatch.PostAfter(c.policy.NextDelay(), func() { c.sendSave(next) })
	}
	c.limiter.LogOnce(LogSaveError, "hive save failed",
		"key", op.key, "attempt", op.attempt, "error", res.Failure())
}

// LoadKV returns the locally cached value for key. On a miss it returns ""
// immediately and schedules a fetch from the hive; once the fetch lands the
// next LoadKV call answers from the cache. Callers poll. A 404 from the hive
// is a definitive miss: nothing is cached, nothing retried, nothing logged,
// so polling an absent key stays quiet.
func (c *Client) LoadKV(key string) string {
	if found, value := c.cacheGet(key); found {
		return value
	}
	op := loadOp{key: key, attempt: 1}
	c.dispatch.Post(func() { c.sendLoad(op) })
	return ""
}

func (c *Client) sendLoad(op loadOp) {
	c.transport.Send(LoadStateRequest(op.key), func(res Result) {
		c.dispatch.Post(func() { c.loadDone(op, res) })
	})
}

func (c *Client) loadDone(op loadOp, res Result) {
	if res.OK() {
		c.cacheSet(op.key, string(res.Body))
		return
	}
	if res.Status == http.StatusNotFound {
		// Key absent upstream. A business outcome, not a failure.
		return
	}
	if c.policy.enabled {
		next := op
		next.attempt++
		c.dispatch.PostAfter(c.policy.NextDelay(), func() { c.sendLoad(next) })
	}
	c.limiter.LogOnce(LogLoadError, "hive load failed",
		"key", op.key, "attempt", op.attempt, "error", res.Failure())
}
