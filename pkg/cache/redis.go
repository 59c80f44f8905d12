package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig configures [NewRedisCache].
type RedisConfig struct {
	Addr     string `koanf:"addr" yaml:"addr" validate:"required,hostname_port"`
	Password string `koanf:"password" yaml:"password,omitempty"`
	DB       int    `koanf:"db" yaml:"db" validate:"gte=0"`
	Prefix   string `koanf:"prefix" yaml:"prefix,omitempty"`
}

// RedisCache is a [Cache] backed by Redis. Expiry is delegated to Redis.
type RedisCache struct {
	client redis.UniversalClient
	prefix string
	owned  bool
}

// NewRedisCache connects to Redis and verifies the connection, retrying a
// failed ping a few times.
func NewRedisCache(ctx context.Context, cfg RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	err := RetryWithBackoff(ctx, 3, 200*time.Millisecond, func() error {
		return Retryable(client.Ping(ctx).Err())
	})
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: redis %s: %w", ErrUnavailable, cfg.Addr, err)
	}
	return &RedisCache{client: client, prefix: cfg.Prefix, owned: true}, nil
}

// NewRedisCacheFromClient wraps an existing client. Close leaves the client
// open.
func NewRedisCacheFromClient(client redis.UniversalClient, prefix string) *RedisCache {
	return &RedisCache{client: client, prefix: prefix}
}

// Get implements [Cache].
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set implements [Cache].
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return c.client.Set(ctx, c.prefix+key, data, ttl).Err()
}

// Delete implements [Cache].
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.prefix+key).Err()
}

// Client returns the underlying client so other stores can share it.
func (c *RedisCache) Client() redis.UniversalClient { return c.client }

// Close implements [Cache].
func (c *RedisCache) Close() error {
	if !c.owned {
		return nil
	}
	return c.client.Close()
}

var _ Cache = (*RedisCache)(nil)
