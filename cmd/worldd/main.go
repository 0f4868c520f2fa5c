package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/annel0/teletext-world/internal/cache"
	"github.com/annel0/teletext-world/internal/config"
	"github.com/annel0/teletext-world/internal/eventbus"
	"github.com/annel0/teletext-world/internal/grid"
	"github.com/annel0/teletext-world/internal/loader"
	"github.com/annel0/teletext-world/internal/logging"
	"github.com/annel0/teletext-world/internal/observability"
	"github.com/annel0/teletext-world/internal/render"
	"github.com/annel0/teletext-world/internal/storage"
	"github.com/annel0/teletext-world/internal/teletext"
	"github.com/annel0/teletext-world/internal/viewport"
	"github.com/annel0/teletext-world/internal/world"
)

func main() {
	configPath := flag.String("config", "", "путь к YAML-конфигурации")
	enableTelemetry := flag.Bool("telemetry", false, "включить OpenTelemetry трассировку")
	verbose := flag.Bool("verbose", false, "уровень DEBUG для всех компонентных логгеров")
	flag.Parse()

	// Инициализируем систему логирования
	if err := logging.InitDefaultLogger("worldd"); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseDefaultLogger()

	logging.Info("🌍 Запуск Teletext World...")

	// === КОНФИГУРАЦИЯ ===
	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.Error("❌ Ошибка загрузки конфигурации: %v", err)
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}

	ctx := context.Background()

	// === ТЕЛЕМЕТРИЯ (опционально) ===
	if *enableTelemetry {
		shutdown, err := observability.InitTelemetry(ctx, "teletext-world")
		if err != nil {
			logging.Warn("OpenTelemetry не инициализирован: %v", err)
		} else {
			defer shutdown(context.Background())
		}
	}

	// === ШИНА СОБЫТИЙ ===
	var bus eventbus.EventBus
	switch cfg.EventBus.Backend {
	case "jetstream":
		jsBus, err := eventbus.NewJetStreamBus(cfg.EventBus.URL, cfg.EventBus.Stream,
			time.Duration(cfg.EventBus.Retention)*time.Hour)
		if err != nil {
			logging.Error("❌ Ошибка подключения к NATS JetStream: %v", err)
			log.Fatalf("❌ Ошибка подключения к NATS JetStream: %v", err)
		}
		defer jsBus.Close()
		bus = jsBus
	default:
		bus = eventbus.NewMemoryBus(cfg.EventBus.Buffer)
	}
	eventbus.Init(bus)

	if err := eventbus.StartLoggingListener(bus); err != nil {
		logging.Warn("LoggingListener не запущен: %v", err)
	}

	// === МЕТРИКИ ===
	exporter := eventbus.NewMetricsExporter(bus)
	exporter.StartHTTP(fmt.Sprintf(":%d", cfg.Metrics.GetMetricsPort()))
	defer exporter.Stop()

	// === ХРАНИЛИЩЕ СНИМКОВ ===
	var snapshots storage.SnapshotRepo
	switch cfg.Storage.Backend {
	case "badger":
		repo, err := storage.NewBadgerSnapshotRepo(cfg.Storage.DataPath)
		if err != nil {
			logging.Error("❌ Ошибка открытия хранилища снимков: %v", err)
			log.Fatalf("❌ Ошибка открытия хранилища снимков: %v", err)
		}
		snapshots = repo
	default:
		snapshots = storage.NewMemorySnapshotRepo()
	}
	defer snapshots.Close()

	// === КЕШ КАДРОВ ===
	var frames cache.CacheRepo
	switch cfg.Cache.Backend {
	case "redis":
		var invalidator *cache.NatsInvalidator
		if cfg.Cache.NatsURL != "" {
			invalidator, err = cache.NewNatsInvalidator(cfg.Cache.NatsURL, cfg.World.Name)
			if err != nil {
				logging.Warn("NATS-инвалидатор кеша не подключён: %v", err)
			}
		}
		redisCache, err := cache.NewRedisCache(cache.RedisConfig{
			Addr:       cfg.Cache.RedisAddr,
			DB:         cfg.Cache.RedisDB,
			DefaultTTL: time.Duration(cfg.Cache.TTLSeconds) * time.Second,
			KeyPrefix:  cfg.World.Name + ":",
		}, invalidator)
		if err != nil {
			logging.Error("❌ Ошибка подключения к Redis: %v", err)
			log.Fatalf("❌ Ошибка подключения к Redis: %v", err)
		}
		frames = redisCache
	default:
		frames = cache.NewMemoryCache(time.Duration(cfg.Cache.TTLSeconds) * time.Second)
	}
	defer frames.Close()

	// === МИР ===
	w := world.NewSparseWorld()

	// Восстанавливаем последний снимок, если он есть
	if restored, err := w.LoadSnapshot(ctx, snapshots, cfg.World.Name); err != nil {
		logging.Warn("Снимок мира не восстановлен: %v", err)
	} else if restored {
		logging.Info("Мир %q восстановлен из снимка (%d занятых клеток)", cfg.World.Name, w.Len())
	}

	// Загружаем авторские локации
	if cfg.World.LocationsPath != "" {
		ldr := loader.NewLoader(w)
		report, err := ldr.LoadFile(ctx, cfg.World.LocationsPath)
		if err != nil {
			logging.Error("Файл локаций не загружен: %v", err)
		} else {
			logging.Info("📦 Локации: %d, плиток размещено %d, отклонено %d",
				report.Blocks, report.Placed, report.Failed)
		}
	}

	// === ОКНО ПРОСМОТРА И РЕНДЕРИНГ ===
	vm := viewport.NewManager(viewport.Size{Width: cfg.Viewport.Width, Height: cfg.Viewport.Height})
	if err := vm.SetLayer(cfg.Viewport.Layer); err != nil {
		logging.Warn("Слой %d отклонён, остаёмся на %d: %v", cfg.Viewport.Layer, vm.Layer(), err)
	}

	quality, err := teletext.ParseQuality(cfg.Render.Quality)
	if err != nil {
		logging.Warn("%v, используем teletext", err)
	}

	terrain := render.NewTerrainGenerator(cfg.World.Seed)
	pipeline := render.NewRenderPipeline(quality, terrain, frames)

	// К этому моменту компонентные логгеры уже зарегистрированы
	if *verbose {
		lm := logging.GetLoggerManager()
		for _, component := range lm.ListComponents() {
			if err := lm.SetLogLevel(component, logging.DEBUG, logging.DEBUG); err != nil {
				logging.Warn("Уровень логирования %q не изменён: %v", component, err)
			}
		}
		logging.Info("🔍 Подробное логирование включено: %v", lm.ListComponents())
	}

	frame, err := pipeline.RenderFrame(ctx, w, vm)
	if err != nil {
		logging.Error("❌ Ошибка рендеринга кадра: %v", err)
	} else {
		fmt.Println(frame)
	}

	// Демонстрация поиска пути по загруженному миру
	pf := world.NewPathfinder(w)
	start := grid.FormatCanonical(vm.Layer(), grid.Cell{Col: vm.Bounds().MinCol, Row: vm.Bounds().MinRow})
	goal := grid.FormatCanonical(vm.Layer(), grid.Cell{Col: vm.Bounds().MaxCol, Row: vm.Bounds().MaxRow})
	if result, err := pf.FindPath(start, goal); err == nil && result.Found {
		logging.Info("🧭 Путь %s -> %s: %d клеток", start, goal, len(result.Path))
	}

	// Сохраняем снимок мира
	if err := w.SaveSnapshot(ctx, snapshots, cfg.World.Name); err != nil {
		logging.Error("Снимок мира не сохранён: %v", err)
	} else {
		logging.Info("💾 Снимок мира %q сохранён (%d занятых клеток)", cfg.World.Name, w.Len())
	}

	logging.Info("✅ Teletext World запущен. Нажмите Ctrl+C для завершения.")

	// Ожидание сигнала завершения
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logging.Info("🛑 Завершение работы...")
	if err := logging.GetLoggerManager().CloseAll(); err != nil {
		log.Printf("Компонентные логгеры закрыты с ошибкой: %v", err)
	}
}
