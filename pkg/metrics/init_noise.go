package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initNoiseMetrics() {
	r.NoiseCacheHitRate = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "karstgen_noise_cache_hit_rate",
			Help: "Noise sample cache hit rate of the last run",
		},
	)

	r.NoiseCacheSize = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "karstgen_noise_cache_entries",
			Help: "Noise sample cache entries after the last run",
		},
	)

	r.NoiseCacheEvictions = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "karstgen_noise_cache_evictions",
			Help: "Noise sample cache eviction sweeps during the last run",
		},
	)
}
