package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"clientreg/internal/address/metrics"
	"clientreg/internal/client/models"
	"clientreg/pkg/platform/sentinel"
)

// MemoryCache is the in-process cache used when Redis is not configured.
// Reads never extend an entry's lifetime, matching Redis SET EX semantics.
type MemoryCache struct {
	items   *ttlcache.Cache[string, models.Address]
	metrics *metrics.Metrics
}

// NewMemoryCache starts an in-memory cache. Call Close to stop its
// expiration loop.
func NewMemoryCache(m *metrics.Metrics) *MemoryCache {
	items := ttlcache.New[string, models.Address](
		ttlcache.WithDisableTouchOnHit[string, models.Address](),
	)
	go items.Start()
	return &MemoryCache{items: items, metrics: m}
}

func (c *MemoryCache) Get(_ context.Context, cep string) (*models.Address, error) {
	item := c.items.Get(cacheKey(cep))
	if item == nil || item.IsExpired() {
		c.metrics.RecordCacheMiss()
		return nil, sentinel.ErrNotFound
	}
	c.metrics.RecordCacheHit()
	addr := item.Value()
	return &addr, nil
}

func (c *MemoryCache) Set(_ context.Context, cep string, addr *models.Address, ttl time.Duration) error {
	if addr == nil {
		return fmt.Errorf("address is required")
	}
	c.items.Set(cacheKey(cep), *addr, ttl)
	return nil
}

// Close stops the background expiration loop.
func (c *MemoryCache) Close() {
	c.items.Stop()
}
