package storage

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisClient is the subset of the go-redis client the backend uses.
// *redis.Client, *redis.ClusterClient and redis.UniversalClient satisfy it.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisBackend stores values as Redis strings.
type RedisBackend struct {
	client RedisClient
	prefix string
	ttl    time.Duration
}

// RedisOption configures a RedisBackend.
type RedisOption func(*RedisBackend)

// WithRedisPrefix sets the key prefix.
// Default: "navshell:".
func WithRedisPrefix(prefix string) RedisOption {
	return func(r *RedisBackend) {
		r.prefix = prefix
	}
}

// WithRedisTTL expires keys ttl after their last write. Zero keeps keys forever.
func WithRedisTTL(ttl time.Duration) RedisOption {
	return func(r *RedisBackend) {
		r.ttl = ttl
	}
}

// NewRedisBackend creates a backend over client. The client is not closed by
// the backend; it may be shared.
func NewRedisBackend(client RedisClient, opts ...RedisOption) *RedisBackend {
	r := &RedisBackend{
		client: client,
		prefix: "navshell:",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Prefix returns the key prefix.
func (r *RedisBackend) Prefix() string {
	return r.prefix
}

// Get implements Backend.
func (r *RedisBackend) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.Get(ctx, r.prefix+key).Result()
	if stderrors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

// Set implements Backend.
func (r *RedisBackend) Set(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, r.prefix+key, value, r.ttl).Err()
}

// Remove implements Backend.
func (r *RedisBackend) Remove(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.prefix+key).Err()
}
