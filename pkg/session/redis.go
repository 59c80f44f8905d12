package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces session keys.
const DefaultRedisPrefix = "curnav:session:"

// RedisStore keeps sessions in Redis and lets Redis expire them.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisStore wraps client. An empty prefix selects [DefaultRedisPrefix].
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (r *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	data, err := r.client.Get(ctx, r.prefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("redis get session: %w", err)
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}
	if sess.IsExpired() {
		return nil, notFound(id)
	}
	return &sess, nil
}

func (r *RedisStore) Set(ctx context.Context, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	var ttl time.Duration
	if !sess.ExpiresAt.IsZero() {
		if ttl = time.Until(sess.ExpiresAt); ttl <= 0 {
			return r.Delete(ctx, sess.ID)
		}
	}
	return r.client.Set(ctx, r.prefix+sess.ID, data, ttl).Err()
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, r.prefix+id).Err()
}

// Cleanup is a no-op: keys carry their own TTL.
func (r *RedisStore) Cleanup(ctx context.Context) error { return nil }

// Close leaves the shared client open.
func (r *RedisStore) Close() error { return nil }

var _ Store = (*RedisStore)(nil)
