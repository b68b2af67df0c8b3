package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the generator
type Registry struct {
	// Pipeline Metrics
	StageDuration      *prometheus.HistogramVec
	StageWarningsTotal *prometheus.CounterVec
	RunsTotal          *prometheus.CounterVec
	RunDuration        prometheus.Histogram

	// Field Metrics
	PointsSampled   prometheus.Gauge
	OpenPointRatio  prometheus.Gauge
	FormationsTotal *prometheus.GaugeVec
	NetworksTotal   prometheus.Gauge
	FlowPathsTotal  prometheus.Gauge
	NetworkScores   *prometheus.GaugeVec

	// Noise Metrics
	NoiseCacheHitRate   prometheus.Gauge
	NoiseCacheSize      prometheus.Gauge
	NoiseCacheEvictions prometheus.Gauge

	registry *prometheus.Registry
	mu       sync.RWMutex
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	r.initPipelineMetrics()
	r.initFieldMetrics()
	r.initNoiseMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
