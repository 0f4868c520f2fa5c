package world

import "github.com/prometheus/client_golang/prometheus"

// Prometheus-метрики мира и поиска путей. Регистрируются в глобальном
// регистре; HTTP-эндпоинт поднимает экспортер шины событий.
var (
	placementsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "world",
		Name:      "placements_total",
		Help:      "Общее число успешных размещений плиток.",
	})
	collisionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "world",
		Name:      "collisions_total",
		Help:      "Число размещений, отклонённых из-за коллизии.",
	})
	clearsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "world",
		Name:      "clears_total",
		Help:      "Число очисток клеток.",
	})
	pathSearchesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "world",
		Name:      "path_searches_total",
		Help:      "Общее число запросов поиска пути.",
	})
	pathFoundTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "world",
		Name:      "path_found_total",
		Help:      "Число успешно найденных путей.",
	})
	pathCellsExpanded = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "world",
		Name:      "path_cells_expanded_total",
		Help:      "Число клеток, извлечённых из очереди BFS.",
	})
)

func init() {
	prometheus.MustRegister(
		placementsTotal,
		collisionsTotal,
		clearsTotal,
		pathSearchesTotal,
		pathFoundTotal,
		pathCellsExpanded,
	)
}
