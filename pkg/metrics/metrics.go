package metrics

import (
	"time"
)

// RecordStage records one pipeline stage completion.
func (r *Registry) RecordStage(stage string, duration time.Duration) {
	r.StageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordStageWarning counts a degraded-result warning for a stage.
func (r *Registry) RecordStageWarning(stage string) {
	r.StageWarningsTotal.WithLabelValues(stage).Inc()
}

// RecordRun records a completed generation run.
func (r *Registry) RecordRun(success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "failure"
	}
	r.RunsTotal.WithLabelValues(status).Inc()
	r.RunDuration.Observe(duration.Seconds())
}

// UpdateFieldMetrics publishes field sampling results.
func (r *Registry) UpdateFieldMetrics(openPoints, totalSamples int) {
	r.PointsSampled.Set(float64(openPoints))
	if totalSamples > 0 {
		r.OpenPointRatio.Set(float64(openPoints) / float64(totalSamples))
	}
}

// UpdateFormationMetrics publishes extraction counts by type label.
func (r *Registry) UpdateFormationMetrics(byType map[string]int) {
	r.FormationsTotal.Reset()
	for typ, n := range byType {
		r.FormationsTotal.WithLabelValues(typ).Set(float64(n))
	}
}

// UpdateNetworkMetrics publishes network and flow results.
func (r *Registry) UpdateNetworkMetrics(networks, flowPaths int, scores map[string]float64) {
	r.NetworksTotal.Set(float64(networks))
	r.FlowPathsTotal.Set(float64(flowPaths))
	for dimension, score := range scores {
		r.NetworkScores.WithLabelValues(dimension).Set(score)
	}
}

// UpdateNoiseCacheMetrics publishes sample cache statistics.
func (r *Registry) UpdateNoiseCacheMetrics(hitRate float64, entries int, evictions uint64) {
	r.NoiseCacheHitRate.Set(hitRate)
	r.NoiseCacheSize.Set(float64(entries))
	r.NoiseCacheEvictions.Set(float64(evictions))
}
