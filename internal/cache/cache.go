// Package cache keeps fetched collections in memory until a mutation
// publishes a change for their key.
package cache

import (
	"context"
	"fmt"
	"sync"
)

type Cache struct {
	bus *Bus

	mu      sync.Mutex
	queries map[Key]any
}

func New() *Cache {
	return &Cache{
		bus:     NewBus(),
		queries: make(map[Key]any),
	}
}

func (c *Cache) Bus() *Bus {
	return c.bus
}

// Publish marks every holder of key stale.
func (c *Cache) Publish(key Key) {
	c.bus.Publish(key)
}

// PublishEntity marks every holder of entity stale, whatever its scope.
func (c *Cache) PublishEntity(entity string) {
	c.bus.PublishEntity(entity)
}

// For returns the holder registered for key, creating it with fetch on first
// use. Later calls for the same key keep the first fetch. Holders live as
// long as the cache.
func For[T any](c *Cache, key Key, fetch func(ctx context.Context) (T, error)) *Query[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.queries[key]; ok {
		q, ok := existing.(*Query[T])
		if !ok {
			panic(fmt.Sprintf("cache: key %v already holds %T", key, existing))
		}

		return q
	}

	q := newQuery(key, fetch)
	c.bus.Subscribe(key, q.Invalidate)
	c.queries[key] = q

	return q
}
