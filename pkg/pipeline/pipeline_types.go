package pipeline

import (
	"time"

	"github.com/aryawin/karstgen/pkg/config"
	"github.com/aryawin/karstgen/pkg/formation"
	"github.com/aryawin/karstgen/pkg/geology"
	"github.com/aryawin/karstgen/pkg/logging"
	"github.com/aryawin/karstgen/pkg/metrics"
	"github.com/aryawin/karstgen/pkg/network"
	"github.com/aryawin/karstgen/pkg/noise"
)

// Stage names, in execution order.
const (
	StageFieldSampling      = "field_sampling"
	StageFormationExtract   = "formation_extraction"
	StageStructuralAnalysis = "structural_analysis"
	StageNetworkBuilding    = "network_building"
	StageFlowAnalysis       = "flow_analysis"
	StageAggregate          = "aggregate"
)

// ProgressFunc receives checkpoint updates during a run. Callbacks
// are invoked synchronously from the run goroutine and must return
// quickly.
type ProgressFunc func(fraction float64, stage string, detail string)

// Result is the outcome of one generation run. A degraded run keeps
// Success true and explains itself through Warnings; only a hard
// input error fails a run outright.
type Result struct {
	RunID      string                      `json:"runId"`
	Success    bool                        `json:"success"`
	Points     []geology.CavePoint         `json:"-"`
	Formations []*formation.Formation      `json:"formations"`
	Structural *formation.StructuralReport `json:"structural,omitempty"`
	Networks   []*network.CaveNetwork      `json:"networks"`
	FlowPaths  []network.FlowPath          `json:"flowPaths"`
	Warnings   []string                    `json:"warnings,omitempty"`
	Elapsed    time.Duration               `json:"elapsed"`
	Quality    float64                     `json:"quality"`
}

// Pipeline orchestrates the generation stages for one configuration.
// A pipeline is reusable; each Run is independent.
type Pipeline struct {
	cfg      *config.GenerationConfig
	engine   *noise.Engine
	logger   logging.Logger
	registry *metrics.Registry
	progress ProgressFunc
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger directs run logging to the given logger.
func WithLogger(logger logging.Logger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

// WithMetrics publishes run statistics to the given registry.
func WithMetrics(registry *metrics.Registry) Option {
	return func(p *Pipeline) { p.registry = registry }
}

// WithProgress installs a checkpoint progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(p *Pipeline) { p.progress = fn }
}
