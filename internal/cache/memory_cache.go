package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryCache реализует CacheRepo в памяти процесса с TTL.
// Используется по умолчанию, когда Redis не сконфигурирован.
type MemoryCache struct {
	mu         sync.RWMutex
	items      map[string]memoryItem
	defaultTTL time.Duration
	metricsCounters
}

type memoryItem struct {
	value     []byte
	expiresAt time.Time
}

// NewMemoryCache создаёт in-memory кеш с указанным TTL по умолчанию.
func NewMemoryCache(defaultTTL time.Duration) *MemoryCache {
	if defaultTTL <= 0 {
		defaultTTL = 30 * time.Second
	}
	return &MemoryCache{
		items:      make(map[string]memoryItem),
		defaultTTL: defaultTTL,
	}
}

// Get получает значение по ключу; истёкшие записи считаются промахом.
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	item, ok := c.items[key]
	c.mu.RUnlock()

	if !ok || time.Now().After(item.expiresAt) {
		c.miss()
		return nil, ErrCacheMiss
	}

	c.hit()
	value := make([]byte, len(item.value))
	copy(value, item.value)
	return value, nil
}

// Set сохраняет значение с TTL.
func (c *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	stored := make([]byte, len(value))
	copy(stored, value)

	c.mu.Lock()
	c.items[key] = memoryItem{value: stored, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()

	c.set()
	return nil
}

// Delete удаляет ключ.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
	return nil
}

// Close очищает кеш.
func (c *MemoryCache) Close() error {
	c.mu.Lock()
	c.items = make(map[string]memoryItem)
	c.mu.Unlock()
	return nil
}

// GetMetrics возвращает счётчики кеша.
func (c *MemoryCache) GetMetrics() *CacheMetrics {
	return c.snapshot()
}
