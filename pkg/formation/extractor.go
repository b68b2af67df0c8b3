package formation

import (
	"context"
	"math"
	"sort"

	"github.com/aryawin/karstgen/pkg/geology"
)

// Extractor clusters dense CavePoints into typed formations. The
// claimed set is owned by one extractor run, so point claims are
// exclusive by construction; formations never share members.
type Extractor struct {
	params ExtractParams
}

// NewExtractor creates a formation extractor.
func NewExtractor(params ExtractParams) *Extractor {
	return &Extractor{params: params}
}

// Extract clusters the given points into formations and links nearby
// pairs whose connecting path stays open. An empty point set yields
// an empty list; downstream stages tolerate that. The context is
// checked once per cluster seed so a deadline or cancellation
// early-returns the formations claimed so far with truncated set;
// that is degraded success, not an error.
func (e *Extractor) Extract(ctx context.Context, points []geology.CavePoint) (formations []*Formation, truncated bool) {
	// Only dense points participate.
	dense := make([]geology.CavePoint, 0, len(points))
	for _, p := range points {
		if p.Density > minPointDensity {
			dense = append(dense, p)
		}
	}
	if len(dense) == 0 {
		return nil, false
	}

	// Greedy claim in descending density order: the densest unclaimed
	// point seeds the next cluster.
	order := make([]int, len(dense))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return dense[order[a]].Density > dense[order[b]].Density
	})

	grid := geology.NewPointGrid(dense, clusterRadius)
	claimed := make([]bool, len(dense))
	formations = make([]*Formation, 0)

	for _, seed := range order {
		select {
		case <-ctx.Done():
			return formations, true
		default:
		}
		if claimed[seed] {
			continue
		}

		members := make([]int, 0, 16)
		for _, idx := range grid.Within(dense[seed].Position, clusterRadius) {
			if !claimed[idx] {
				members = append(members, idx)
			}
		}

		// A seed whose only neighbor is itself is rejected. It stays
		// unclaimed so a later, larger cluster can absorb it.
		if len(members) < minClusterSize {
			continue
		}

		memberPoints := make([]geology.CavePoint, len(members))
		for i, idx := range members {
			memberPoints[i] = dense[idx]
			claimed[idx] = true
		}

		f := e.buildFormation(len(formations), memberPoints)
		formations = append(formations, f)
	}

	truncated = e.connectFormations(ctx, formations, grid)
	return formations, truncated
}

// buildFormation derives geometry, classification, and features from
// a claimed member set.
func (e *Extractor) buildFormation(id int, members []geology.CavePoint) *Formation {
	var centroid geology.Vec3
	for _, p := range members {
		centroid = centroid.Add(p.Position)
	}
	centroid = centroid.Scale(1 / float64(len(members)))

	minP := members[0].Position
	maxP := members[0].Position
	var stabilitySum float64
	for _, p := range members {
		minP.X = math.Min(minP.X, p.Position.X)
		minP.Y = math.Min(minP.Y, p.Position.Y)
		minP.Z = math.Min(minP.Z, p.Position.Z)
		maxP.X = math.Max(maxP.X, p.Position.X)
		maxP.Y = math.Max(maxP.Y, p.Position.Y)
		maxP.Z = math.Max(maxP.Z, p.Position.Z)
		stabilitySum += p.Stability
	}

	width := maxP.X - minP.X
	height := maxP.Y - minP.Y
	depthDim := maxP.Z - minP.Z
	radius := math.Max(width, depthDim) / 2
	if radius <= 0 {
		radius = 0.5
	}

	f := &Formation{
		ID:          id,
		Center:      centroid,
		Radius:      radius,
		Height:      height,
		Orientation: longestAxis(width, height, depthDim),
		Stability:   stabilitySum / float64(len(members)),
		Connections: make([]int, 0, 2),
		Points:      members,
	}
	f.Type = e.classify(f, width, depthDim)
	f.Features = classifyFeatures(members)
	return f
}

// classify assigns the formation type in strict priority order.
func (e *Extractor) classify(f *Formation, width, depthDim float64) FormationType {
	horizontal := math.Max(width, depthDim)
	narrow := math.Min(width, depthDim)

	switch {
	case f.Height > horizontal*2 && f.Height > 6:
		// Tall and narrow.
		return TypeVerticalShaft
	case narrow < 3 && horizontal > 10:
		// Narrow and long.
		return TypeSqueezePassage
	case f.Radius >= e.params.MinChamberSize && f.AvgDensity() > 0.6:
		// Wide and dense.
		return TypeChamber
	case f.AvgDensity() > 0.6:
		// Dense but too narrow for a full chamber.
		return TypeSubChamber
	default:
		return TypeTunnel
	}
}

// classifyFeatures tags formations by member content.
func classifyFeatures(members []geology.CavePoint) []string {
	water, gas := 0, 0
	for _, p := range members {
		if p.WaterFlow > 0.3 {
			water++
		}
		if p.GasContent > 0.7 {
			gas++
		}
	}

	n := float64(len(members))
	features := make([]string, 0, 2)
	if float64(water)/n > 0.3 {
		features = append(features, FeatureUndergroundStream)
	}
	if float64(gas)/n > 0.5 {
		features = append(features, FeatureGasPocket)
	}
	return features
}

// longestAxis returns a unit vector along the dominant extent.
func longestAxis(width, height, depthDim float64) geology.Vec3 {
	switch {
	case height >= width && height >= depthDim:
		return geology.Vec3{Y: 1}
	case width >= depthDim:
		return geology.Vec3{X: 1}
	default:
		return geology.Vec3{Z: 1}
	}
}

// connectFormations links formation pairs that are close enough and
// whose straight-line path stays inside cave material. Path sampling
// dominates the cost, so the context is checked once per anchor
// formation; links made before expiry are kept.
func (e *Extractor) connectFormations(ctx context.Context, formations []*Formation, grid *geology.PointGrid) bool {
	for i := 0; i < len(formations); i++ {
		select {
		case <-ctx.Done():
			return true
		default:
		}
		for j := i + 1; j < len(formations); j++ {
			a, b := formations[i], formations[j]
			reach := a.Radius + b.Radius + linkSlack
			if a.Center.Dist(b.Center) > reach {
				continue
			}
			if !pathIsOpen(grid, a.Center, b.Center) {
				continue
			}
			a.Connections = append(a.Connections, b.ID)
			b.Connections = append(b.Connections, a.ID)
		}
	}
	return false
}

// pathIsOpen samples the segment every 2 units and requires every
// sample to sit in cave material.
func pathIsOpen(grid *geology.PointGrid, from, to geology.Vec3) bool {
	dist := from.Dist(to)
	steps := int(dist/pathSampleStep) + 1

	for s := 0; s <= steps; s++ {
		t := float64(s) / float64(steps)
		sample := from.Lerp(to, t)
		if grid.InterpolateDensity(sample, 5) < minPointDensity {
			return false
		}
	}
	return true
}
