package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config корневая структура конфигурации приложения.
type Config struct {
	World    WorldConfig    `yaml:"world"`
	Viewport ViewportConfig `yaml:"viewport"`
	Render   RenderConfig   `yaml:"render"`
	Storage  StorageConfig  `yaml:"storage"`
	Cache    CacheConfig    `yaml:"cache"`
	EventBus EventBusConfig `yaml:"eventbus"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// WorldConfig параметры мира.
type WorldConfig struct {
	Name          string `yaml:"name"`           // Имя мира (ключ снимков)
	Seed          int64  `yaml:"seed"`           // Сид фонового рельефа
	LocationsPath string `yaml:"locations_path"` // YAML-файл авторских локаций
}

// ViewportConfig стартовые параметры окна просмотра.
type ViewportConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	Layer  int `yaml:"layer"`
}

// RenderConfig параметры рендеринга.
type RenderConfig struct {
	// Quality: teletext | ascii-block | shade | ascii
	Quality string `yaml:"quality"`
}

// StorageConfig параметры хранилища снимков.
type StorageConfig struct {
	// Backend: memory | badger
	Backend  string `yaml:"backend"`
	DataPath string `yaml:"data_path"`
}

// CacheConfig параметры кеша кадров.
type CacheConfig struct {
	// Backend: memory | redis
	Backend    string `yaml:"backend"`
	RedisAddr  string `yaml:"redis_addr"`
	RedisDB    int    `yaml:"redis_db"`
	TTLSeconds int    `yaml:"ttl_seconds"`
	// NatsURL для распределённой инвалидации; пусто — инвалидация выключена
	NatsURL string `yaml:"nats_url"`
}

// EventBusConfig параметры шины событий.
type EventBusConfig struct {
	// Backend: memory | jetstream
	Backend   string `yaml:"backend"`
	URL       string `yaml:"url"`
	Stream    string `yaml:"stream"`
	Retention int    `yaml:"retention_hours"`
	Buffer    int    `yaml:"buffer"`
}

// MetricsConfig параметры Prometheus-эндпоинта.
type MetricsConfig struct {
	Port int `yaml:"port"`
}

// GetMetricsPort возвращает порт метрик с поддержкой fallback значений.
func (m *MetricsConfig) GetMetricsPort() int {
	return getPortWithEnvFallback(m.Port, "WORLD_METRICS_PORT", 2112)
}

// getPortWithEnvFallback возвращает порт с приоритетом: config -> env -> default.
func getPortWithEnvFallback(configPort int, envVar string, defaultPort int) int {
	if configPort > 0 {
		return configPort
	}

	if envVal := os.Getenv(envVar); envVal != "" {
		if port, err := strconv.Atoi(envVal); err == nil && port > 0 {
			return port
		}
	}

	return defaultPort
}

// Load читает YAML файл конфигурации.
// Если path == "", пытается прочитать из ENV WORLD_CONFIG или возвращает
// конфигурацию по умолчанию.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("WORLD_CONFIG")
	}
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("чтение конфигурации %q: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("разбор конфигурации %q: %w", path, err)
	}
	return cfg, nil
}

// Default возвращает конфигурацию по умолчанию: всё в памяти, без внешних
// сервисов.
func Default() *Config {
	return &Config{
		World: WorldConfig{
			Name: "default",
			Seed: 12345,
		},
		Viewport: ViewportConfig{
			Width:  40,
			Height: 20,
			Layer:  300,
		},
		Render: RenderConfig{
			Quality: "teletext",
		},
		Storage: StorageConfig{
			Backend:  "memory",
			DataPath: "data",
		},
		Cache: CacheConfig{
			Backend:    "memory",
			TTLSeconds: 30,
		},
		EventBus: EventBusConfig{
			Backend: "memory",
			Buffer:  1024,
		},
		Metrics: MetricsConfig{},
	}
}
