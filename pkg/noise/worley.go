package noise

import "math"

// Worley/cellular noise derived from distances to per-cell feature
// points. One feature point per unit cell; the jitter parameter
// controls how far the point strays from the cell center. Output is
// normalized to [-1, 1].

// maxCellDist is the normalization bound for cellular distances. With
// jitter capped at 2 the nearest feature over a 27-cell search stays
// within a cell diagonal of the sample.
const maxCellDist = 1.7320508075688772 // sqrt(3)

// Cellular returns 3D Worley noise at the given coordinates.
// Returns an error for out-of-range jitter or an unknown mode.
func (e *Engine) Cellular(x, y, z float64, p CellularParams) (float64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}

	v := e.cached(tagCellular+uint8(p.Mode), x, y, z, p.Jitter, func() float64 {
		return e.cellular(x, y, z, p)
	})
	return v, nil
}

func (e *Engine) cellular(x, y, z float64, p CellularParams) float64 {
	cx := fastFloor(x)
	cy := fastFloor(y)
	cz := fastFloor(z)

	f1 := math.MaxFloat64
	f2 := math.MaxFloat64

	// Search the 27-cell neighborhood for the two nearest feature points.
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for dz := -1; dz <= 1; dz++ {
				fx, fy, fz := e.featurePoint(cx+dx, cy+dy, cz+dz, p.Jitter)
				ddx := fx - x
				ddy := fy - y
				ddz := fz - z
				d := math.Sqrt(ddx*ddx + ddy*ddy + ddz*ddz)

				if d < f1 {
					f2 = f1
					f1 = d
				} else if d < f2 {
					f2 = d
				}
			}
		}
	}

	var raw float64
	switch p.Mode {
	case CellF1:
		raw = f1
	case CellF2:
		raw = f2
	case CellF2MinusF1:
		raw = f2 - f1
	}

	// Normalize distance to [-1, 1].
	n := raw / maxCellDist
	if n > 1 {
		n = 1
	}
	return n*2 - 1
}

// featurePoint returns the deterministic feature point of a cell. The
// offset is derived by hashing (seed, cell coords), never from a
// shared sequential random stream, so any cell can be evaluated
// independently in any order.
func (e *Engine) featurePoint(cx, cy, cz int, jitter float64) (float64, float64, float64) {
	h := cellHash(e.seed, cx, cy, cz)
	jx := hashUnit(h)
	jy := hashUnit(h >> 21)
	jz := hashUnit(h >> 42)

	// jitter 1 keeps the point inside its own cell; up to 2 lets it
	// stray into neighbors, producing more irregular cells.
	return float64(cx) + 0.5 + (jx-0.5)*jitter,
		float64(cy) + 0.5 + (jy-0.5)*jitter,
		float64(cz) + 0.5 + (jz-0.5)*jitter
}

// cellHash mixes the seed and cell coordinates with splitmix64.
func cellHash(seed int64, cx, cy, cz int) uint64 {
	h := uint64(seed)
	h ^= uint64(int64(cx)) * 0x9E3779B97F4A7C15
	h ^= uint64(int64(cy)) * 0xBF58476D1CE4E5B9
	h ^= uint64(int64(cz)) * 0x94D049BB133111EB
	h ^= h >> 30
	h *= 0xBF58476D1CE4E5B9
	h ^= h >> 27
	h *= 0x94D049BB133111EB
	h ^= h >> 31
	return h
}

// hashUnit maps hash bits to [0, 1).
func hashUnit(h uint64) float64 {
	return float64(h&0x1FFFFF) / float64(0x200000)
}
