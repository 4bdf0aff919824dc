package testutil

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/BruksfildServices01/supplier-directory/internal/cache"
)

// MemoryCache implementa cache.Cache e cache.Denylist sem Redis.
type MemoryCache struct {
	mu      sync.Mutex
	items   map[string][]byte
	revoked map[string]struct{}
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		items:   map[string][]byte{},
		revoked: map[string]struct{}{},
	}
}

func (c *MemoryCache) GetJSON(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	raw, ok := c.items[key]
	c.mu.Unlock()

	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (c *MemoryCache) SetJSON(_ context.Context, key string, v any, _ time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.items[key] = raw
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.items, k)
	}
	return nil
}

func (c *MemoryCache) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[key]
	return ok
}

func (c *MemoryCache) Revoke(_ context.Context, jti string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.revoked[jti] = struct{}{}
	return nil
}

func (c *MemoryCache) IsRevoked(_ context.Context, jti string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.revoked[jti]
	return ok, nil
}

var (
	_ cache.Cache    = (*MemoryCache)(nil)
	_ cache.Denylist = (*MemoryCache)(nil)
)
