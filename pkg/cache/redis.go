package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	zwerrors "github.com/zwavetools/zwconf/pkg/errors"
)

// connectTimeout bounds the initial reachability check.
const connectTimeout = 3 * time.Second

// RedisCache stores entries in a Redis instance so scan reports can be
// shared between machines working on the same configuration tree (for
// example CI runners validating a pull request against the corpus).
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to the Redis instance at addr ("host:port")
// and verifies it is reachable before returning.
func NewRedisCache(addr string) (Cache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, zwerrors.Wrap(zwerrors.ErrCodeCacheBackend, err, "connecting to redis at %s", addr)
	}

	return &RedisCache{client: client}, nil
}

// Get retrieves a value from Redis.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, zwerrors.Wrap(zwerrors.ErrCodeCacheBackend, err, "redis get %s", key)
	}
	return data, true, nil
}

// Set stores a value in Redis. Expiration is handled server-side; a
// zero ttl stores the entry without expiration.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return zwerrors.Wrap(zwerrors.ErrCodeCacheBackend, err, "redis set %s", key)
	}
	return nil
}

// Delete removes a value from Redis.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return zwerrors.Wrap(zwerrors.ErrCodeCacheBackend, err, "redis del %s", key)
	}
	return nil
}

// Close releases the client connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Ensure RedisCache implements Cache.
var _ Cache = (*RedisCache)(nil)
