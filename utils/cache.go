package utils

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultCacheTTL = time.Hour

// Cache stores rendered response payloads by key.
type Cache interface {
	GetBytes(ctx context.Context, key string) ([]byte, bool)
	SetJSON(ctx context.Context, key string, v interface{})
	InvalidateByPrefix(ctx context.Context, prefix string)
}

// NewCache returns a Redis-backed cache, or a no-op cache for a nil client.
func NewCache(rc *redis.Client, ttl time.Duration) Cache {
	if rc == nil {
		return NopCache{}
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &RedisCache{rc: rc, ttl: ttl}
}

// NopCache never hits.
type NopCache struct{}

func (NopCache) GetBytes(context.Context, string) ([]byte, bool) { return nil, false }

func (NopCache) SetJSON(context.Context, string, interface{}) {}

func (NopCache) InvalidateByPrefix(context.Context, string) {}

// RedisCache keeps payloads in Redis with a fixed TTL.
type RedisCache struct {
	rc  *redis.Client
	ttl time.Duration
}

func (c *RedisCache) GetBytes(ctx context.Context, key string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	b, err := c.rc.Get(ctx, key).Bytes()
	if err != nil {
		Sugar.Debugf("cache get miss key=%s err=%v", key, err)
		return nil, false
	}
	return b, true
}

func (c *RedisCache) SetJSON(ctx context.Context, key string, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := c.rc.Set(ctx, key, b, c.ttl).Err(); err != nil {
		Sugar.Warnf("cache set failed key=%s err=%v", key, err)
	}
}

// InvalidateByPrefix deletes keys that match the given prefix using SCAN.
func (c *RedisCache) InvalidateByPrefix(ctx context.Context, prefix string) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	var cursor uint64
	for i := 0; i < 10; i++ { // bounded rounds
		keys, cur, err := c.rc.Scan(ctx, cursor, prefix+"*", 1000).Result()
		if err != nil {
			Sugar.Warnf("cache invalidate failed prefix=%s err=%v", prefix, err)
			return
		}
		cursor = cur
		if len(keys) > 0 {
			pipe := c.rc.Pipeline()
			for _, k := range keys {
				pipe.Del(ctx, k)
			}
			_, _ = pipe.Exec(ctx)
		}
		if cursor == 0 {
			return
		}
	}
}
