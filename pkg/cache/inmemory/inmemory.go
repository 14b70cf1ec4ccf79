// Package inmemory provides a map-backed cache.
package inmemory

import (
	"context"
	"sync"

	"github.com/papercomputeco/manifest/pkg/cache"
)

// Cache implements cache.Cache using an in-memory map.
type Cache struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewCache creates a new empty in-memory cache.
func NewCache() *Cache {
	return &Cache{
		entries: make(map[string][]byte),
	}
}

func (c *Cache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	v, ok := c.entries[key]
	if !ok {
		return nil, cache.ErrNotFound{Key: key}
	}
	return append([]byte(nil), v...), nil
}

func (c *Cache) Set(_ context.Context, key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = append([]byte(nil), value...)
	return nil
}

func (c *Cache) Close() error {
	return nil
}
