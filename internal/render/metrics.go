package render

import "github.com/prometheus/client_golang/prometheus"

// Prometheus-метрики конвейера рендеринга.
var (
	framesRenderedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "render",
		Name:      "frames_rendered_total",
		Help:      "Число собранных холстов видимой области.",
	})
	frameCacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "render",
		Name:      "frame_cache_hits_total",
		Help:      "Число кадров, отданных из кеша.",
	})
	frameCacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "render",
		Name:      "frame_cache_misses_total",
		Help:      "Число кадров, собранных заново из-за промаха кеша.",
	})
)

func init() {
	prometheus.MustRegister(framesRenderedTotal, frameCacheHits, frameCacheMisses)
}
