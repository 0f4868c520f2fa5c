package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/annel0/teletext-world/internal/logging"
)

// RedisConfig конфигурация Redis-кеша.
type RedisConfig struct {
	Addr       string        // host:port
	Password   string        // Пустая строка — без аутентификации
	DB         int           // Номер базы
	DefaultTTL time.Duration // TTL по умолчанию для Set с ttl=0
	KeyPrefix  string        // Префикс всех ключей (например, "frame:")
}

// RedisCache реализует CacheRepo поверх Redis. Используется, когда кадры
// одного мира рендерят несколько процессов и кеш должен быть общим.
type RedisCache struct {
	client      *redis.Client
	config      RedisConfig
	invalidator *NatsInvalidator // Опциональный pub/sub инвалидатор
	metricsCounters
}

// NewRedisCache подключается к Redis и проверяет соединение.
// invalidator может быть nil.
func NewRedisCache(config RedisConfig, invalidator *NatsInvalidator) (*RedisCache, error) {
	if config.DefaultTTL == 0 {
		config.DefaultTTL = 30 * time.Second
	}

	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping %s: %w", config.Addr, err)
	}

	rc := &RedisCache{
		client:      client,
		config:      config,
		invalidator: invalidator,
	}

	if invalidator != nil {
		// Удалённые инвалидации применяем локально без повторной рассылки,
		// иначе узлы зациклят друг друга.
		if err := invalidator.Listen(func(key string) {
			if err := rc.deleteLocal(context.Background(), key); err != nil {
				logging.Warn("RedisCache: инвалидация ключа %s не удалась: %v", key, err)
			}
		}); err != nil {
			return nil, fmt.Errorf("invalidator listen: %w", err)
		}
	}

	logging.Info("RedisCache: подключено к %s (db=%d)", config.Addr, config.DB)
	return rc, nil
}

func (rc *RedisCache) key(k string) string {
	return rc.config.KeyPrefix + k
}

// Get получает значение по ключу.
func (rc *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := rc.client.Get(ctx, rc.key(key)).Bytes()
	if err == redis.Nil {
		rc.miss()
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	rc.hit()
	return value, nil
}

// Set сохраняет значение с TTL.
func (rc *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = rc.config.DefaultTTL
	}
	if err := rc.client.Set(ctx, rc.key(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	rc.set()
	return nil
}

// Delete удаляет ключ и рассылает инвалидацию другим узлам.
func (rc *RedisCache) Delete(ctx context.Context, key string) error {
	if err := rc.deleteLocal(ctx, key); err != nil {
		return err
	}
	if rc.invalidator != nil {
		rc.invalidator.Broadcast(key)
	}
	return nil
}

// deleteLocal удаляет ключ без оповещения остальных узлов.
func (rc *RedisCache) deleteLocal(ctx context.Context, key string) error {
	if err := rc.client.Del(ctx, rc.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

// Close закрывает соединение.
func (rc *RedisCache) Close() error {
	if rc.invalidator != nil {
		rc.invalidator.Close()
	}
	return rc.client.Close()
}

// GetMetrics возвращает счётчики кеша.
func (rc *RedisCache) GetMetrics() *CacheMetrics {
	return rc.snapshot()
}
