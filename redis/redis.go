package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/sharedcode/hive"
)

type client struct {
	conn *Connection
}

// NewClient wraps the singleton connection as a hive.Cache. Call
// OpenConnection first; a client built while the connection is closed
// reports every operation as failed and the hive client degrades to
// fetching straight from the service.
func NewClient() hive.Cache {
	return &client{
		conn: connection,
	}
}

var errNotOpen = fmt.Errorf("redis connection is not open")

// keyNotFound detects whether err signifies key not found by Redis.
func (c client) keyNotFound(err error) bool {
	return err == goredis.Nil
}

// Ping tests connectivity for redis (PONG should be returned).
func (c client) Ping(ctx context.Context) error {
	if c.conn == nil || c.conn.Client == nil {
		return errNotOpen
	}
	return c.conn.Client.Ping(ctx).Err()
}

// Clear flushes the selected DB. Be cautious: it removes every key in it,
// not just the ones this client wrote.
func (c client) Clear(ctx context.Context) error {
	if c.conn == nil || c.conn.Client == nil {
		return errNotOpen
	}
	return c.conn.Client.FlushDB(ctx).Err()
}

// Set executes the redis Set command.
func (c client) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	if c.conn == nil || c.conn.Client == nil {
		return errNotOpen
	}
	if expiration < 0 {
		expiration = 0
	}
	return c.conn.Client.Set(ctx, key, value, expiration).Err()
}

// Get executes the redis Get command, mapping key-not-found to a miss.
func (c client) Get(ctx context.Context, key string) (bool, string, error) {
	if c.conn == nil || c.conn.Client == nil {
		return false, "", errNotOpen
	}
	s, err := c.conn.Client.Get(ctx, key).Result()
	found := err == nil
	if c.keyNotFound(err) {
		err = nil
	}
	return found, s, err
}

// Delete executes the redis Del command.
func (c client) Delete(ctx context.Context, keys []string) (bool, error) {
	if c.conn == nil || c.conn.Client == nil {
		return false, errNotOpen
	}
	n, err := c.conn.Client.Del(ctx, keys...).Result()
	if err != nil {
		return false, err
	}
	return n == int64(len(keys)), nil
}

func init() {
	hive.RegisterCache(hive.Redis, NewClient)
}
