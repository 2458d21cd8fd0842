package hive

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// RedisConfig holds configuration for connecting to a Redis server or cluster
// when the client uses the shared cache.
type RedisConfig struct {
	// Address is the host:port of the Redis server/cluster.
	Address string `json:"address" env:"HIVE_REDIS_ADDRESS" envDefault:"localhost:6379"`
	// Password is the password used to authenticate.
	Password string `json:"password" env:"HIVE_REDIS_PASSWORD"`
	// DB is the database index to select.
	DB int `json:"db" env:"HIVE_REDIS_DB"`
}

// Config holds the client configuration. The zero value is not usable; start
// from DefaultConfig or LoadConfig and set BaseURL and APIKey.
type Config struct {
	// BaseURL is the root of the hive service, e.g. https://hive.example.com.
	BaseURL string `json:"base_url" env:"HIVE_URL"`
	// APIKey is sent as the X-API-Key header on every request.
	APIKey string `json:"api_key" env:"HIVE_KEY"`
	// WritesEnabled gates SaveKV and CreateTransfer. When false, writes
	// succeed trivially without touching the network. Off by default so a
	// misconfigured server cannot flood a production hive.
	WritesEnabled bool `json:"writes_enabled" env:"HIVE_WRITES_ENABLED"`
	// RequestTimeout bounds each HTTP exchange, connection setup included.
	RequestTimeout time.Duration `json:"request_timeout" env:"HIVE_TIMEOUT" envDefault:"800ms"`
	// RetryEnabled schedules a jittered re-dispatch after transient failures.
	RetryEnabled bool `json:"retry_enabled" env:"HIVE_RETRY" envDefault:"true"`
	// LogCooldown is the minimum interval between two emissions of the same
	// log category. Keeps a flapping hive from drowning the server log.
	LogCooldown time.Duration `json:"log_cooldown" env:"HIVE_LOG_INTERVAL" envDefault:"60s"`
	// PayloadLimit is the maximum serialized value size in bytes accepted by
	// SaveKV and CreateTransfer.
	PayloadLimit int `json:"payload_limit" env:"HIVE_BODY_LIMIT" envDefault:"65536"`
	// CacheType selects the cache backing the client (Memory or Redis).
	CacheType CacheType `json:"cache_type" env:"HIVE_CACHE"`
	// Redis is the connection configuration used when CacheType is Redis.
	Redis RedisConfig `json:"redis"`
}

// DefaultConfig returns a Config with the stock limits and timeouts. BaseURL
// and APIKey are left empty.
func DefaultConfig() Config {
	return Config{
		RequestTimeout: 800 * time.Millisecond,
		RetryEnabled:   true,
		LogCooldown:    60 * time.Second,
		PayloadLimit:   65536,
		CacheType:      Memory,
		Redis:          RedisConfig{Address: "localhost:6379"},
	}
}

// LoadConfig builds a Config from HIVE_* environment variables, applying the
// stock defaults for anything unset.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// Validate reports the first problem that would keep a Client from operating.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base URL scheme must be http or https, got %q", u.Scheme)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive")
	}
	if c.PayloadLimit <= 0 {
		return fmt.Errorf("payload limit must be positive")
	}
	if c.LogCooldown < 0 {
		return fmt.Errorf("log cooldown cannot be negative")
	}
	return nil
}

// normalized returns a copy with the base URL stripped of trailing slashes so
// path joins are uniform.
func (c Config) normalized() Config {
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	return c
}
