package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initFieldMetrics() {
	r.PointsSampled = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "karstgen_field_points_sampled",
			Help: "Open points produced by the last field sampling stage",
		},
	)

	r.OpenPointRatio = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "karstgen_field_open_point_ratio",
			Help: "Fraction of sampled coordinates that came out open",
		},
	)

	r.FormationsTotal = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "karstgen_formations_total",
			Help: "Formations extracted in the last run, by type",
		},
		[]string{"type"},
	)

	r.NetworksTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "karstgen_networks_total",
			Help: "Cave networks built in the last run",
		},
	)

	r.FlowPathsTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "karstgen_flow_paths_total",
			Help: "Water flow paths traced in the last run",
		},
	)

	r.NetworkScores = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "karstgen_network_score",
			Help: "Mean network quality score of the last run, by dimension",
		},
		[]string{"dimension"},
	)
}
