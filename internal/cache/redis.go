// Package cache provides the optional Redis connection and the login and
// signup rate limiters built on it.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyNamespace prefixes every key so the database can be shared.
const keyNamespace = "inkpost:"

// Cache is a Redis connection shared by the API process.
type Cache struct {
	client *redis.Client
}

// New connects to redisURL (redis:// or rediss://) and verifies the
// connection with a ping.
func New(ctx context.Context, redisURL string) (*Cache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	// Short timeouts: the limiter sits on the login path.
	opt.DialTimeout = 2 * time.Second
	opt.ReadTimeout = 500 * time.Millisecond
	opt.WriteTimeout = 500 * time.Millisecond
	opt.PoolSize = 10
	opt.MinIdleConns = 1
	opt.ConnMaxIdleTime = 5 * time.Minute

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}
	return &Cache{client: client}, nil
}

// Ping reports whether Redis is reachable. Used by /readyz.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the connection pool.
func (c *Cache) Close() error {
	return c.client.Close()
}

// Client exposes the underlying client for tests and maintenance scripts.
func (c *Cache) Client() *redis.Client {
	return c.client
}

// key namespaces parts into a single Redis key.
func key(parts ...string) string {
	k := keyNamespace
	for i, p := range parts {
		if i > 0 {
			k += ":"
		}
		k += p
	}
	return k
}
