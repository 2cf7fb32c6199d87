package mocks

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// InMemoryCache is a thread-safe map-backed cache for end-to-end tests. It
// reports misses the way the real client does, with redis.Nil.
type InMemoryCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func NewInMemoryCache() *InMemoryCache {
	return &InMemoryCache{items: make(map[string][]byte)}
}

func (c *InMemoryCache) Get(ctx context.Context, key string, dest any) error {
	c.mu.Lock()
	data, ok := c.items[key]
	c.mu.Unlock()

	if !ok {
		return redis.Nil
	}
	return json.Unmarshal(data, dest)
}

func (c *InMemoryCache) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.items[key] = data
	c.mu.Unlock()
	return nil
}

func (c *InMemoryCache) Close() error {
	return nil
}

// Len reports how many keys have been stored.
func (c *InMemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
