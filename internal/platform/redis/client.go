// Package redis dials the optional aggregation result cache.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"refugeflow/internal/platform/config"
)

// Client wraps the go-redis client behind the cache decorator's surface.
type Client struct {
	*redis.Client
}

// New dials Redis per cfg and verifies the connection. An empty URL means no
// cache is configured; New then returns nil and callers run uncached.
func New(cfg config.RedisConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{Client: client}, nil
}

// Close releases the underlying connection pool.
func (c *Client) Close() error {
	return c.Client.Close()
}
