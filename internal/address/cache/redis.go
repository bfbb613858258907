package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"clientreg/internal/address/metrics"
	"clientreg/internal/client/models"
	"clientreg/pkg/platform/sentinel"
)

// RedisCache stores addresses in Redis; expiry is enforced by Redis itself.
type RedisCache struct {
	client  redis.Cmdable
	metrics *metrics.Metrics
}

// NewRedisCache constructs a Redis-backed address cache.
func NewRedisCache(client redis.Cmdable, m *metrics.Metrics) *RedisCache {
	return &RedisCache{client: client, metrics: m}
}

func (c *RedisCache) Get(ctx context.Context, cep string) (*models.Address, error) {
	data, err := c.client.Get(ctx, cacheKey(cep)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			c.metrics.RecordCacheMiss()
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get address cache: %w", err)
	}

	var addr models.Address
	if err := json.Unmarshal(data, &addr); err != nil {
		return nil, fmt.Errorf("decode cached address: %w", err)
	}
	c.metrics.RecordCacheHit()
	return &addr, nil
}

func (c *RedisCache) Set(ctx context.Context, cep string, addr *models.Address, ttl time.Duration) error {
	if addr == nil {
		return fmt.Errorf("address is required")
	}
	data, err := json.Marshal(addr)
	if err != nil {
		return fmt.Errorf("encode address: %w", err)
	}
	if err := c.client.Set(ctx, cacheKey(cep), data, ttl).Err(); err != nil {
		return fmt.Errorf("set address cache: %w", err)
	}
	return nil
}
