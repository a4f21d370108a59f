package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cardpath/cardpath/pkg/errors"
)

// RedisCache stores entries in Redis. Useful when several cardpath
// processes (e.g. API replicas) should share scan and stat snapshots.
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache connects to the Redis instance at addr. The prefix
// namespaces cardpath keys within a shared database; pass "" for the
// default "cardpath:".
func NewRedisCache(ctx context.Context, addr, prefix string) (*RedisCache, error) {
	if addr == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "redis address must not be empty")
	}
	if prefix == "" {
		prefix = "cardpath:"
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connecting to redis")
	}
	return &RedisCache{client: client, prefix: prefix}, nil
}

// Get implements [Cache].
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, c.prefix+Hash([]byte(key))).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, errors.Wrap(errors.ErrCodeStore, err, "reading cache entry")
	}
	return data, true, nil
}

// Set implements [Cache]. Redis treats a zero ttl as no expiration.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.prefix+Hash([]byte(key)), data, ttl).Err(); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "writing cache entry")
	}
	return nil
}

// Delete implements [Cache].
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.prefix+Hash([]byte(key))).Err(); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "deleting cache entry")
	}
	return nil
}

// Close implements [Cache].
func (c *RedisCache) Close() error { return c.client.Close() }
