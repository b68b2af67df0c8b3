package geology

import (
	"context"
	"math"

	"github.com/aryawin/karstgen/pkg/noise"
)

// Fixed blend weights for the five density layers. Primary carries
// the bulk of the shape; chamber noise carves voids; the rest texture.
const (
	weightPrimary = 0.5
	weightChamber = 0.3
	weightStrata  = 0.15
	weightShaft   = 0.05
	weightDetail  = 0.05
	surfaceDepth  = 10.0  // depths shallower than this are damped
	extremeDepth  = 400.0 // depths beyond this decay exponentially
)

// SynthesisParams are the validated knobs of the density field. The
// synthesizer assumes range checking already happened upstream.
type SynthesisParams struct {
	CaveScale           float64 `yaml:"caveScale" validate:"gt=0"`
	VerticalSquash      float64 `yaml:"verticalSquash" validate:"gt=0,lte=1"`
	ChamberScale        float64 `yaml:"chamberScale" validate:"gt=0"`
	StratificationScale float64 `yaml:"stratificationScale" validate:"gt=0"`
	ShaftScale          float64 `yaml:"shaftScale" validate:"gt=0"`
	DetailScale         float64 `yaml:"detailScale" validate:"gt=0"`
	Stratification      bool    `yaml:"stratification"`
	ShaftNoise          bool    `yaml:"shaftNoise"`
	Threshold           float64 `yaml:"threshold" validate:"gte=0,lt=1"`
	OptimalDepth        float64 `yaml:"optimalDepth" validate:"gt=0"`
	DepthSpread         float64 `yaml:"depthSpread" validate:"gt=0"`
}

// DefaultSynthesisParams returns the baseline field configuration.
func DefaultSynthesisParams() SynthesisParams {
	return SynthesisParams{
		CaveScale:           0.02,
		VerticalSquash:      0.4,
		ChamberScale:        0.015,
		StratificationScale: 0.005,
		ShaftScale:          0.05,
		DetailScale:         0.1,
		Stratification:      true,
		ShaftNoise:          true,
		Threshold:           0.12,
		OptimalDepth:        60,
		DepthSpread:         45,
	}
}

// Synthesizer maps coordinates and geological layers to CavePoints.
// It is a pure function of its engine seed and parameters: sampling
// the same coordinate twice always yields the same point.
type Synthesizer struct {
	engine  *noise.Engine
	params  SynthesisParams
	chamber noise.CellularParams
}

// NewSynthesizer creates a density field synthesizer on top of a
// noise engine.
func NewSynthesizer(engine *noise.Engine, params SynthesisParams) *Synthesizer {
	return &Synthesizer{
		engine:  engine,
		params:  params,
		chamber: noise.CellularParams{Mode: noise.CellF1, Jitter: 1.0},
	}
}

// PointAt computes the CavePoint for one coordinate inside a layer.
func (s *Synthesizer) PointAt(pos Vec3, layer GeologicalLayer) CavePoint {
	raw := s.rawDensity(pos)

	// Geological modifier: soft porous rock dissolves, hard tight
	// rock resists.
	raw *= (1 - layer.Hardness) * layer.Porosity

	depth := -pos.Y
	raw *= s.depthProbability(depth)

	var density float64
	if raw > s.params.Threshold {
		density = math.Min(1, (raw-s.params.Threshold)*2)
	}

	return CavePoint{
		Position:    pos,
		Density:     density,
		Material:    materialFor(density),
		Stability:   stabilityFor(density, layer),
		WaterFlow:   waterFlowFor(density, layer),
		Temperature: 12 + depth*0.025,
		Humidity:    humidityFor(density, layer),
		GasContent:  gasContentFor(density, layer),
	}
}

// rawDensity blends the five noise layers into one scalar.
func (s *Synthesizer) rawDensity(pos Vec3) float64 {
	p := s.params

	// Vertical compression of the primary layer favors horizontal
	// caves over round blobs.
	primary := s.engine.Simplex3D(
		pos.X*p.CaveScale,
		pos.Y*p.CaveScale*p.VerticalSquash,
		pos.Z*p.CaveScale,
	)

	// Inverted Worley F1: high near feature centers, carving
	// chamber-like voids.
	cell, _ := s.engine.Cellular(
		pos.X*p.ChamberScale,
		pos.Y*p.ChamberScale,
		pos.Z*p.ChamberScale,
		s.chamber,
	)
	chamber := -cell

	var strata float64
	if p.Stratification {
		// Low-frequency horizontal banding: mostly a function of Y
		// with gentle lateral drift.
		strata = s.engine.Simplex2D(pos.Y*p.StratificationScale*6, (pos.X+pos.Z)*p.StratificationScale)
	}

	var shaft float64
	if p.ShaftNoise {
		// Vertical columns: squash X/Z so the field is near-constant
		// along Y.
		shaft = s.engine.Simplex3D(pos.X*p.ShaftScale, pos.Y*p.ShaftScale*0.05, pos.Z*p.ShaftScale)
	}

	detail := s.engine.Simplex3D(pos.X*p.DetailScale, pos.Y*p.DetailScale, pos.Z*p.DetailScale)

	return weightPrimary*primary +
		weightChamber*chamber +
		weightStrata*strata +
		weightShaft*shaft +
		weightDetail*detail
}

// depthProbability biases caves toward the configured optimal depth:
// a Gaussian bell, additionally suppressed right under the surface
// and at extreme depth.
func (s *Synthesizer) depthProbability(depth float64) float64 {
	if depth <= 0 {
		return 0
	}

	spread := s.params.DepthSpread
	d := depth - s.params.OptimalDepth
	prob := math.Exp(-(d * d) / (2 * spread * spread))

	if depth < surfaceDepth {
		prob *= depth / surfaceDepth
	}
	if depth > extremeDepth {
		prob *= math.Exp(-(depth - extremeDepth) / 100)
	}
	return prob
}

func materialFor(density float64) Material {
	switch {
	case density == 0:
		return MaterialSolidRock
	case density < 0.5:
		return MaterialLooseRock
	default:
		return MaterialAir
	}
}

// Derived point attributes are deterministic functions of density and
// the layer; no independent randomness.

func stabilityFor(density float64, layer GeologicalLayer) float64 {
	return clamp01((1-density)*0.4 + layer.Hardness*0.5 + (1-layer.JointDensity)*0.1)
}

func waterFlowFor(density float64, layer GeologicalLayer) float64 {
	return clamp01(density * (1 - layer.Hardness) * layer.Solubility * 2)
}

func humidityFor(density float64, layer GeologicalLayer) float64 {
	return clamp01(0.4 + waterFlowFor(density, layer)*0.5 + layer.Porosity*0.1)
}

func gasContentFor(density float64, layer GeologicalLayer) float64 {
	return clamp01(density * layer.JointDensity * (1 - layer.Porosity) * 2)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// RegionSample is the outcome of sampling a region: the open points
// plus how much of the region was covered before any early return.
type RegionSample struct {
	Points    []CavePoint
	Truncated bool
}

// SampleRegion walks the region at the given step and returns every
// point with density > 0. The context is checked once per Y row so a
// caller-supplied deadline or cancellation early-returns the partial
// result with Truncated set; that is degraded success, not an error.
// onRow, when non-nil, is invoked after each completed row.
func (s *Synthesizer) SampleRegion(ctx context.Context, region Region, step float64, layers LayerStack, onRow func(done, total int)) RegionSample {
	if step <= 0 {
		step = 2
	}

	out := RegionSample{Points: make([]CavePoint, 0, 1024)}
	totalRows := int((region.Max.Y-region.Min.Y)/step) + 1
	row := 0

	for y := region.Min.Y; y <= region.Max.Y; y += step {
		select {
		case <-ctx.Done():
			out.Truncated = true
			return out
		default:
		}

		layer := layers.LayerAt(-y)
		for x := region.Min.X; x <= region.Max.X; x += step {
			for z := region.Min.Z; z <= region.Max.Z; z += step {
				pt := s.PointAt(Vec3{X: x, Y: y, Z: z}, layer)
				if pt.Density > 0 {
					out.Points = append(out.Points, pt)
				}
			}
		}

		row++
		if onRow != nil {
			onRow(row, totalRows)
		}
	}
	return out
}
