package formation

import (
	"context"
	"fmt"
	"math"

	"github.com/aryawin/karstgen/pkg/geology"
)

// Structural heuristics. Advisory only: the analyzer produces
// warnings and proposed supports, never a hard failure, and the whole
// stage may be skipped.
const (
	solidDensity    = 0.1 // points below this count as solid rock
	spanSafetyLimit = 0.5
	thickSafeLimit  = 0.5
	collapseLimit   = 0.3
	pillarSpacing   = 6.0 // one proposed pillar per this much radius
	pillarRingScale = 0.6 // pillars sit at this fraction of the radius
)

// StructuralAnalysis is the derived, read-only safety record of one
// formation.
type StructuralAnalysis struct {
	FormationID      int            `json:"formationId"`
	SafetyFactor     float64        `json:"safetyFactor"`
	SpanSafety       float64        `json:"spanSafety"`
	ThicknessSafety  float64        `json:"thicknessSafety"`
	CeilingThickness float64        `json:"ceilingThickness"`
	CriticalPoints   []geology.Vec3 `json:"criticalPoints"`
	SupportPoints    []geology.Vec3 `json:"supportPoints"`
	StressPoints     []geology.Vec3 `json:"stressPoints"`
}

// StructuralReport aggregates the per-formation analyses. Truncated
// marks a report whose context expired mid-run; the aggregates then
// cover only the formations analyzed before expiry.
type StructuralReport struct {
	Analyses         []StructuralAnalysis `json:"analyses"`
	SafetyFactor     float64              `json:"safetyFactor"`
	CeilingThickness float64              `json:"ceilingThickness"`
	Warnings         []string             `json:"warnings"`
	Truncated        bool                 `json:"truncated,omitempty"`
}

// Analyzer estimates collapse risk, ceiling thickness, and safety.
type Analyzer struct{}

// NewAnalyzer creates a structural analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze runs the structural heuristics over every formation. It
// mutates formation stability and may retype collapse-prone chambers;
// everything else it reports is advisory. The context is checked once
// per formation so a deadline early-returns a truncated report.
func (a *Analyzer) Analyze(ctx context.Context, formations []*Formation, grid *geology.PointGrid) StructuralReport {
	report := StructuralReport{
		Analyses: make([]StructuralAnalysis, 0, len(formations)),
		Warnings: make([]string, 0),
	}
	if len(formations) == 0 {
		return report
	}

	var safetySum, thicknessSum float64
	for _, f := range formations {
		if ctx.Err() != nil {
			report.Truncated = true
			break
		}
		analysis := a.AnalyzeFormation(f, grid)
		report.Analyses = append(report.Analyses, analysis)
		safetySum += analysis.SafetyFactor
		thicknessSum += analysis.CeilingThickness

		if analysis.SafetyFactor < collapseLimit && (f.Type == TypeChamber || f.Type == TypeSubChamber) {
			f.Type = TypeCollapseChamber
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("formation %d reclassified as collapse chamber (safety %.2f)", f.ID, analysis.SafetyFactor))
		}
		if len(analysis.CriticalPoints) > 0 {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("formation %d has %d critical points", f.ID, len(analysis.CriticalPoints)))
		}
	}

	if n := len(report.Analyses); n > 0 {
		report.SafetyFactor = safetySum / float64(n)
		report.CeilingThickness = thicknessSum / float64(n)
	}
	return report
}

// AnalyzeFormation computes the safety record of a single formation.
func (a *Analyzer) AnalyzeFormation(f *Formation, grid *geology.PointGrid) StructuralAnalysis {
	analysis := StructuralAnalysis{
		FormationID:    f.ID,
		CriticalPoints: make([]geology.Vec3, 0),
		SupportPoints:  make([]geology.Vec3, 0),
		StressPoints:   make([]geology.Vec3, 0),
	}

	analysis.CeilingThickness = a.ceilingThickness(f, grid)

	// Wide spans are the dominant collapse risk; 8 units of radius is
	// the self-supporting limit for the rock model used here.
	analysis.SpanSafety = math.Min(1, 8/f.Radius)
	chamberLike := f.Type == TypeChamber || f.Type == TypeSubChamber || f.Type == TypeCollapseChamber
	if analysis.SpanSafety < spanSafetyLimit && chamberLike {
		analysis.CriticalPoints = append(analysis.CriticalPoints, f.Center)
		analysis.SupportPoints = pillarRing(f.Center, f.Radius)
	}

	// Thin ceilings relative to span stress the perimeter; those
	// perimeter points are critical, not merely stressed.
	analysis.ThicknessSafety = math.Min(1, analysis.CeilingThickness/(0.3*f.Radius))
	if analysis.ThicknessSafety < thickSafeLimit {
		analysis.StressPoints = perimeterPoints(f.Center, f.Radius)
		analysis.CriticalPoints = append(analysis.CriticalPoints, analysis.StressPoints...)
	}

	analysis.SafetyFactor = (analysis.ThicknessSafety + analysis.SpanSafety + f.Stability) / 3
	return analysis
}

// ceilingThickness finds the minimum vertical gap between the
// formation center and the nearest solid point above it, floored at
// one unit, with a depth-based fallback when no solid point is found.
func (a *Analyzer) ceilingThickness(f *Formation, grid *geology.PointGrid) float64 {
	searchRadius := f.Radius + f.Height + 10

	best := math.MaxFloat64
	for _, idx := range grid.Within(f.Center, searchRadius) {
		pt := grid.Point(idx)
		if pt.Density >= solidDensity {
			continue
		}
		if pt.Position.Y <= f.Center.Y {
			continue
		}
		gap := pt.Position.Y - f.Center.Y
		if gap < best {
			best = gap
		}
	}

	if best == math.MaxFloat64 {
		// No solid point sampled above: assume the overburden down to
		// this depth is intact.
		depth := -f.Center.Y
		return math.Max(1, depth*0.25)
	}
	return math.Max(1, best)
}

// pillarRing proposes support pillars arranged on a ring at 60% of
// the radius, one per 6 units of radius.
func pillarRing(center geology.Vec3, radius float64) []geology.Vec3 {
	count := int(radius / pillarSpacing)
	if count < 1 {
		count = 1
	}

	ring := radius * pillarRingScale
	out := make([]geology.Vec3, 0, count)
	for i := 0; i < count; i++ {
		angle := 2 * math.Pi * float64(i) / float64(count)
		out = append(out, geology.Vec3{
			X: center.X + ring*math.Cos(angle),
			Y: center.Y,
			Z: center.Z + ring*math.Sin(angle),
		})
	}
	return out
}

// perimeterPoints marks evenly spaced points on the formation edge,
// one per unit of radius.
func perimeterPoints(center geology.Vec3, radius float64) []geology.Vec3 {
	count := int(radius)
	if count < 1 {
		count = 1
	}

	out := make([]geology.Vec3, 0, count)
	for i := 0; i < count; i++ {
		angle := 2 * math.Pi * float64(i) / float64(count)
		out = append(out, geology.Vec3{
			X: center.X + radius*math.Cos(angle),
			Y: center.Y,
			Z: center.Z + radius*math.Sin(angle),
		})
	}
	return out
}
