package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/amishk599/joblens/internal/model"
)

var _ model.ResultCache = (*RedisCache)(nil)

// DefaultPrefix namespaces every key joblens writes to Redis.
const DefaultPrefix = "joblens:"

// scanBatch is the COUNT hint used when clearing the namespace.
const scanBatch = 200

// RedisCache is a ResultCache backed by Redis. Entries expire through Redis
// TTLs, so no sweep is needed.
type RedisCache struct {
	rdb        *redis.Client
	prefix     string
	defaultTTL time.Duration
}

// NewRedisCache wraps an existing client. An empty prefix selects DefaultPrefix.
func NewRedisCache(rdb *redis.Client, prefix string, defaultTTL time.Duration) *RedisCache {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	return &RedisCache{rdb: rdb, prefix: prefix, defaultTTL: defaultTTL}
}

// NewRedisClient parses redisURL and verifies connectivity.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// Get returns the cached result for key.
func (c *RedisCache) Get(ctx context.Context, key string) (model.SearchResult, bool, error) {
	data, err := c.rdb.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.SearchResult{}, false, nil
	}
	if err != nil {
		return model.SearchResult{}, false, fmt.Errorf("redis get %s: %w", key, err)
	}

	var result model.SearchResult
	if err := json.Unmarshal(data, &result); err != nil {
		return model.SearchResult{}, false, fmt.Errorf("decode cached result %s: %w", key, err)
	}
	return result, true, nil
}

// Set stores result under key with a Redis TTL.
func (c *RedisCache) Set(ctx context.Context, key string, result model.SearchResult, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode result %s: %w", key, err)
	}
	if err := c.rdb.Set(ctx, c.prefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Clear deletes every key under the cache prefix.
func (c *RedisCache) Clear(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := c.rdb.Scan(ctx, cursor, c.prefix+"*", scanBatch).Result()
		if err != nil {
			return fmt.Errorf("redis scan: %w", err)
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("redis del: %w", err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}
