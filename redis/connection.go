// Package redis provides the Redis-backed implementation of hive.Cache. A
// fleet of game-server instances pointed at the same Redis observes the same
// memoized state, so a transfer claimed through one instance is visible to
// all of them. Open the shared connection before building clients:
//
//	redis.OpenConnection(redis.OptionsFromConfig(cfg.Redis))
//	defer redis.CloseConnection()
package redis

import (
	"crypto/tls"
	"sync"

	goredis "github.com/redis/go-redis/v9"

	"github.com/sharedcode/hive"
)

// Options holds the Redis connection settings.
type Options struct {
	// Address is the Redis server (or cluster) host:port.
	Address string
	// Password required when connecting to the Redis server.
	Password string
	// DB to connect to.
	DB int
	// TLSConfig enables TLS when non-nil.
	TLSConfig *tls.Config
}

// DefaultOptions returns settings for a local unauthenticated Redis.
func DefaultOptions() Options {
	return Options{
		Address: "localhost:6379",
	}
}

// OptionsFromConfig maps the hive client's Redis configuration onto
// connection Options.
func OptionsFromConfig(rc hive.RedisConfig) Options {
	return Options{
		Address:  rc.Address,
		Password: rc.Password,
		DB:       rc.DB,
	}
}

// Connection pairs the live go-redis client with the Options it was opened
// with.
type Connection struct {
	Client  *goredis.Client
	Options Options
}

var connection *Connection
var mu sync.Mutex

// IsConnectionInstantiated returns true if the singleton connection is open.
func IsConnectionInstantiated() bool {
	return connection != nil
}

// OpenConnection creates the singleton connection on first call and returns
// it on every call after that.
func OpenConnection(options Options) (*Connection, error) {
	if connection != nil {
		return connection, nil
	}
	mu.Lock()
	defer mu.Unlock()

	if connection != nil {
		return connection, nil
	}

	connection = openConnection(options)
	return connection, nil
}

// CloseConnection closes the singleton connection if open.
func CloseConnection() error {
	if connection == nil {
		return nil
	}
	mu.Lock()
	defer mu.Unlock()
	if connection == nil {
		return nil
	}
	err := closeConnection(connection)
	connection = nil
	return err
}

func openConnection(options Options) *Connection {
	client := goredis.NewClient(&goredis.Options{
		TLSConfig: options.TLSConfig,
		Addr:      options.Address,
		Password:  options.Password,
		DB:        options.DB,
	})

	return &Connection{
		Client:  client,
		Options: options,
	}
}

func closeConnection(c *Connection) error {
	if c == nil || c.Client == nil {
		return nil
	}
	err := c.Client.Close()
	c.Client = nil
	return err
}
