package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aryawin/karstgen/pkg/config"
	"github.com/aryawin/karstgen/pkg/formation"
	"github.com/aryawin/karstgen/pkg/geology"
	"github.com/aryawin/karstgen/pkg/logging"
	"github.com/aryawin/karstgen/pkg/network"
	"github.com/aryawin/karstgen/pkg/noise"
)

// New validates the configuration and assembles a pipeline. A nil or
// invalid configuration is the only hard failure mode of the package;
// everything downstream degrades instead of erroring.
func New(cfg *config.GenerationConfig, opts ...Option) (*Pipeline, error) {
	if cfg == nil {
		return nil, genErr("New", "", ErrNilConfig)
	}
	if !cfg.Region.Valid() {
		return nil, genErr("New", "", ErrEmptyRegion)
	}
	if err := cfg.Validate(); err != nil {
		return nil, genErr("New", "", fmt.Errorf("%w: %v", ErrInvalidConfig, err))
	}

	p := &Pipeline{
		cfg:    cfg,
		engine: noise.NewEngine(cfg.Seed, noise.WithCache(noise.CacheConfig{MaxSize: cfg.CacheSize})),
		logger: logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Run executes every stage in order and returns the assembled result.
// Stage budget exhaustion and empty intermediate products degrade the
// result with warnings; only context cancellation aborts, and even
// then the partial result accompanies the error.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	started := time.Now()
	result := &Result{
		RunID:   uuid.New().String(),
		Success: true,
	}
	log := p.logger.With(logging.RunID(result.RunID), logging.Seed(p.cfg.Seed))
	log.Info("generation run starting",
		logging.Any("region", p.cfg.Region),
		logging.Float64("step", p.cfg.Step))

	defer func() {
		result.Elapsed = time.Since(started)
		if p.registry != nil {
			p.registry.RecordRun(result.Success, result.Elapsed)
		}
	}()

	// Field sampling.
	if err := p.checkpoint(ctx, result, 0.0, StageFieldSampling, "sampling density field"); err != nil {
		return result, err
	}
	p.runSampling(ctx, log, result)

	// Formation extraction.
	if err := p.checkpoint(ctx, result, 0.5, StageFormationExtract, "clustering formations"); err != nil {
		return result, err
	}
	grid := p.runExtraction(ctx, log, result)

	// Structural analysis.
	if p.cfg.Structural {
		if err := p.checkpoint(ctx, result, 0.6, StageStructuralAnalysis, "checking stability"); err != nil {
			return result, err
		}
		p.runStructural(ctx, log, result, grid)
	}

	// Network building.
	if err := p.checkpoint(ctx, result, 0.75, StageNetworkBuilding, "linking formations"); err != nil {
		return result, err
	}
	p.runNetworks(ctx, log, result, grid)

	// Flow analysis.
	if err := p.checkpoint(ctx, result, 0.85, StageFlowAnalysis, "tracing water flow"); err != nil {
		return result, err
	}
	p.runFlow(ctx, log, result)

	// Aggregation.
	if err := p.checkpoint(ctx, result, 0.95, StageAggregate, "aggregating quality"); err != nil {
		return result, err
	}
	p.aggregate(log, result)

	p.report(1.0, StageAggregate, "done")
	log.Info("generation run finished",
		logging.Points(len(result.Points)),
		logging.Formations(len(result.Formations)),
		logging.Networks(len(result.Networks)),
		logging.Float64("quality", result.Quality),
		logging.Duration("elapsed", time.Since(started)))
	return result, nil
}

// checkpoint reports progress and honors cancellation between stages.
func (p *Pipeline) checkpoint(ctx context.Context, result *Result, fraction float64, stage, detail string) error {
	select {
	case <-ctx.Done():
		result.Success = false
		return genErr("Run", stage, fmt.Errorf("%w: %v", ErrCancelled, ctx.Err()))
	default:
	}
	p.report(fraction, stage, detail)
	return nil
}

func (p *Pipeline) report(fraction float64, stage, detail string) {
	if p.progress != nil {
		p.progress(fraction, stage, detail)
	}
}

func (p *Pipeline) warn(result *Result, stage, msg string) {
	result.Warnings = append(result.Warnings, fmt.Sprintf("%s: %s", stage, msg))
	if p.registry != nil {
		p.registry.RecordStageWarning(stage)
	}
}

// stageCtx applies the per-stage budget when one is configured.
func (p *Pipeline) stageCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.cfg.StageBudget > 0 {
		return context.WithTimeout(ctx, p.cfg.StageBudget)
	}
	return context.WithCancel(ctx)
}

func (p *Pipeline) runSampling(ctx context.Context, log logging.Logger, result *Result) {
	timer := logging.StartStage(log, StageFieldSampling)
	sctx, cancel := p.stageCtx(ctx)
	defer cancel()

	synth := geology.NewSynthesizer(p.engine, p.cfg.Synthesis)
	layers := geology.DefaultLayers()

	sample := synth.SampleRegion(sctx, p.cfg.Region, p.cfg.Step, layers, func(done, total int) {
		// Sampling owns the first 40% of the progress bar.
		p.report(0.4*float64(done)/float64(total), StageFieldSampling, "sampling density field")
	})
	result.Points = sample.Points

	if sample.Truncated {
		p.warn(result, StageFieldSampling, "stage budget exhausted, field truncated")
		timer.EndWarn("budget exhausted", logging.Points(len(result.Points)))
	} else {
		timer.End(logging.Points(len(result.Points)))
	}

	if p.cfg.MaxPoints > 0 && len(result.Points) > p.cfg.MaxPoints {
		result.Points = result.Points[:p.cfg.MaxPoints]
		p.warn(result, StageFieldSampling, fmt.Sprintf("point cap %d reached", p.cfg.MaxPoints))
	}

	if p.registry != nil {
		p.registry.RecordStage(StageFieldSampling, timer.Elapsed())
		p.registry.UpdateFieldMetrics(len(result.Points), regionSamples(p.cfg.Region, p.cfg.Step))
		if cache := p.engine.Cache(); cache != nil {
			_, _, evictions := cache.Stats()
			p.registry.UpdateNoiseCacheMetrics(cache.HitRate(), cache.Size(), evictions)
		}
	}
}

func (p *Pipeline) runExtraction(ctx context.Context, log logging.Logger, result *Result) *geology.PointGrid {
	timer := logging.StartStage(log, StageFormationExtract)
	sctx, cancel := p.stageCtx(ctx)
	defer cancel()

	extractor := formation.NewExtractor(p.cfg.Extract)
	var truncated bool
	result.Formations, truncated = extractor.Extract(sctx, result.Points)
	grid := geology.NewPointGrid(result.Points, 15)

	switch {
	case truncated:
		p.warn(result, StageFormationExtract, "stage budget exhausted, formations truncated")
		timer.EndWarn("budget exhausted", logging.Formations(len(result.Formations)))
	case len(result.Formations) == 0:
		p.warn(result, StageFormationExtract, "no formations found in region")
		timer.EndWarn("empty result")
	default:
		timer.End(logging.Formations(len(result.Formations)))
	}

	if p.registry != nil {
		p.registry.RecordStage(StageFormationExtract, timer.Elapsed())
		byType := make(map[string]int)
		for _, f := range result.Formations {
			byType[f.Type.String()]++
		}
		p.registry.UpdateFormationMetrics(byType)
	}
	return grid
}

func (p *Pipeline) runStructural(ctx context.Context, log logging.Logger, result *Result, grid *geology.PointGrid) {
	timer := logging.StartStage(log, StageStructuralAnalysis)
	sctx, cancel := p.stageCtx(ctx)
	defer cancel()

	report := formation.NewAnalyzer().Analyze(sctx, result.Formations, grid)
	result.Structural = &report
	for _, w := range report.Warnings {
		p.warn(result, StageStructuralAnalysis, w)
	}

	if report.Truncated {
		p.warn(result, StageStructuralAnalysis, "stage budget exhausted, analysis truncated")
		timer.EndWarn("budget exhausted", logging.Count(len(report.Analyses)))
	} else {
		timer.End(logging.Count(len(report.Analyses)))
	}
	if p.registry != nil {
		p.registry.RecordStage(StageStructuralAnalysis, timer.Elapsed())
	}
}

func (p *Pipeline) runNetworks(ctx context.Context, log logging.Logger, result *Result, grid *geology.PointGrid) {
	timer := logging.StartStage(log, StageNetworkBuilding)
	sctx, cancel := p.stageCtx(ctx)
	defer cancel()

	var truncated bool
	result.Networks, truncated = network.NewBuilder().Build(sctx, result.Formations, grid)
	if truncated {
		p.warn(result, StageNetworkBuilding, "stage budget exhausted, linking truncated")
	}
	if len(result.Networks) == 0 && len(result.Formations) > 0 {
		p.warn(result, StageNetworkBuilding, "formations produced no networks")
	}

	if truncated {
		timer.EndWarn("budget exhausted", logging.Networks(len(result.Networks)))
	} else {
		timer.End(logging.Networks(len(result.Networks)))
	}
	if p.registry != nil {
		p.registry.RecordStage(StageNetworkBuilding, timer.Elapsed())
	}
}

func (p *Pipeline) runFlow(ctx context.Context, log logging.Logger, result *Result) {
	timer := logging.StartStage(log, StageFlowAnalysis)
	sctx, cancel := p.stageCtx(ctx)
	defer cancel()

	analyzer := network.NewFlowAnalyzer()
	truncated := false
	for _, net := range result.Networks {
		paths, cut := analyzer.Analyze(sctx, net)
		result.FlowPaths = append(result.FlowPaths, paths...)
		if cut {
			truncated = true
			break
		}
	}

	if truncated {
		p.warn(result, StageFlowAnalysis, "stage budget exhausted, flow tracing truncated")
		timer.EndWarn("budget exhausted", logging.Count(len(result.FlowPaths)))
	} else {
		timer.End(logging.Count(len(result.FlowPaths)))
	}
	if p.registry != nil {
		p.registry.RecordStage(StageFlowAnalysis, timer.Elapsed())
	}
}

// aggregate derives the overall quality: the mean of every network's
// four scores, zero when nothing was built.
func (p *Pipeline) aggregate(log logging.Logger, result *Result) {
	if len(result.Networks) == 0 {
		result.Quality = 0
	} else {
		var sum float64
		for _, net := range result.Networks {
			sum += (net.AccessibilityScore + net.ConnectivityScore + net.ExplorationScore + net.SafetyScore) / 4
		}
		result.Quality = sum / float64(len(result.Networks))
	}

	if p.registry != nil {
		scores := map[string]float64{}
		if n := len(result.Networks); n > 0 {
			var acc, conn, expl, safe float64
			for _, net := range result.Networks {
				acc += net.AccessibilityScore
				conn += net.ConnectivityScore
				expl += net.ExplorationScore
				safe += net.SafetyScore
			}
			scores["accessibility"] = acc / float64(n)
			scores["connectivity"] = conn / float64(n)
			scores["exploration"] = expl / float64(n)
			scores["safety"] = safe / float64(n)
		}
		p.registry.UpdateNetworkMetrics(len(result.Networks), len(result.FlowPaths), scores)
	}
}

// regionSamples counts the grid coordinates a full sweep visits.
func regionSamples(region geology.Region, step float64) int {
	if step <= 0 {
		step = 2
	}
	nx := int((region.Max.X-region.Min.X)/step) + 1
	ny := int((region.Max.Y-region.Min.Y)/step) + 1
	nz := int((region.Max.Z-region.Min.Z)/step) + 1
	return nx * ny * nz
}
