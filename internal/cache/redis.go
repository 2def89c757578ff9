package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig holds connection parameters for the Redis client
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	// Namespace prefixes every key so instances backed by different draft
	// stores never share entries
	Namespace string
	TTL       time.Duration
}

// RedisAdviceCache implements AdviceCache with JSON string values and a TTL
type RedisAdviceCache struct {
	rdb       *redis.Client
	namespace string
	ttl       time.Duration
}

// NewRedisAdviceCache connects and pings Redis
func NewRedisAdviceCache(ctx context.Context, cfg RedisConfig) (*RedisAdviceCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}

	return &RedisAdviceCache{rdb: rdb, namespace: cfg.Namespace, ttl: cfg.TTL}, nil
}

func (c *RedisAdviceCache) key(k string) string {
	if c.namespace == "" {
		return k
	}
	return c.namespace + ":" + k
}

// Get returns false without an error when the key does not exist
func (c *RedisAdviceCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	data, err := c.rdb.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis: get advice %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("redis: unmarshal advice %s: %w", key, err)
	}
	return true, nil
}

func (c *RedisAdviceCache) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("redis: marshal advice %s: %w", key, err)
	}
	if err := c.rdb.Set(ctx, c.key(key), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis: set advice %s: %w", key, err)
	}
	return nil
}

// Ping checks the Redis connection
func (c *RedisAdviceCache) Ping(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis: ping: %w", err)
	}
	return nil
}

func (c *RedisAdviceCache) Close() error {
	return c.rdb.Close()
}

var _ AdviceCache = (*RedisAdviceCache)(nil)
