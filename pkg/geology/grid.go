package geology

import (
	"math"
	"sort"
)

// PointGrid is a spatial hash over CavePoints for neighborhood
// queries. Cells are cubes of the given size; queries only touch the
// cells overlapping the search radius.
type PointGrid struct {
	cellSize float64
	cells    map[gridCell][]int
	points   []CavePoint
}

type gridCell struct {
	x, y, z int
}

// NewPointGrid indexes the given points. The points slice is
// referenced, not copied.
func NewPointGrid(points []CavePoint, cellSize float64) *PointGrid {
	if cellSize <= 0 {
		cellSize = 15
	}
	g := &PointGrid{
		cellSize: cellSize,
		cells:    make(map[gridCell][]int),
		points:   points,
	}
	for i, pt := range points {
		c := g.cellFor(pt.Position)
		g.cells[c] = append(g.cells[c], i)
	}
	return g
}

func (g *PointGrid) cellFor(pos Vec3) gridCell {
	return gridCell{
		x: int(math.Floor(pos.X / g.cellSize)),
		y: int(math.Floor(pos.Y / g.cellSize)),
		z: int(math.Floor(pos.Z / g.cellSize)),
	}
}

// Within returns the indices of all points within radius of pos.
func (g *PointGrid) Within(pos Vec3, radius float64) []int {
	span := int(math.Ceil(radius/g.cellSize)) + 1
	center := g.cellFor(pos)

	var out []int
	for dx := -span; dx <= span; dx++ {
		for dy := -span; dy <= span; dy++ {
			for dz := -span; dz <= span; dz++ {
				cell := gridCell{center.x + dx, center.y + dy, center.z + dz}
				for _, idx := range g.cells[cell] {
					if g.points[idx].Position.Dist(pos) <= radius {
						out = append(out, idx)
					}
				}
			}
		}
	}
	return out
}

// NearestK returns up to k point indices nearest to pos, limited to
// the given search radius, closest first.
func (g *PointGrid) NearestK(pos Vec3, k int, radius float64) []int {
	candidates := g.Within(pos, radius)
	sort.Slice(candidates, func(a, b int) bool {
		return g.points[candidates[a]].Position.Dist(pos) < g.points[candidates[b]].Position.Dist(pos)
	})
	if len(candidates) > k {
		candidates = candidates[:k]
	}
	return candidates
}

// InterpolateDensity estimates the density at an arbitrary position
// by inverse-distance weighting the 3 nearest points. Positions with
// no point within maxDist are solid rock (density 0).
func (g *PointGrid) InterpolateDensity(pos Vec3, maxDist float64) float64 {
	nearest := g.NearestK(pos, 3, maxDist)
	if len(nearest) == 0 {
		return 0
	}

	var weighted, totalWeight float64
	for _, idx := range nearest {
		d := g.points[idx].Position.Dist(pos)
		if d < 1e-9 {
			return g.points[idx].Density
		}
		w := 1 / d
		weighted += g.points[idx].Density * w
		totalWeight += w
	}
	return weighted / totalWeight
}

// Point returns the indexed point.
func (g *PointGrid) Point(idx int) CavePoint {
	return g.points[idx]
}

// Len returns the number of indexed points.
func (g *PointGrid) Len() int {
	return len(g.points)
}
