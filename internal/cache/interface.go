package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

// ErrCacheMiss возвращается, когда ключ отсутствует в кеше.
var ErrCacheMiss = errors.New("cache miss")

// CacheRepo определяет интерфейс кеша отрендеренных кадров.
// Конвейер рендеринга кеширует собранные кадры по ключу
// границы+слой+качество+ревизия мира; любая мутация мира меняет ревизию
// и тем самым естественно инвалидирует кадр.
//
// Использование:
//
//	repo := NewMemoryCache(30 * time.Second)
//	frame, err := repo.Get(ctx, key)
//	err = repo.Set(ctx, key, frame, 0)
type CacheRepo interface {
	// Get получает значение по ключу.
	// Возвращает ErrCacheMiss, если ключ не найден.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set сохраняет значение с указанным TTL. TTL = 0 — TTL по умолчанию.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete удаляет ключ из кеша.
	Delete(ctx context.Context, key string) error

	// Close закрывает соединение с кешем.
	Close() error

	// GetMetrics возвращает счётчики попаданий/промахов.
	GetMetrics() *CacheMetrics
}

// CacheMetrics содержит счётчики кеша.
type CacheMetrics struct {
	Hits   uint64
	Misses uint64
	Sets   uint64
}

// metricsCounters атомарные счётчики, встраиваются в реализации.
type metricsCounters struct {
	hits   uint64
	misses uint64
	sets   uint64
}

func (m *metricsCounters) hit()  { atomic.AddUint64(&m.hits, 1) }
func (m *metricsCounters) miss() { atomic.AddUint64(&m.misses, 1) }
func (m *metricsCounters) set()  { atomic.AddUint64(&m.sets, 1) }
func (m *metricsCounters) snapshot() *CacheMetrics {
	return &CacheMetrics{
		Hits:   atomic.LoadUint64(&m.hits),
		Misses: atomic.LoadUint64(&m.misses),
		Sets:   atomic.LoadUint64(&m.sets),
	}
}
