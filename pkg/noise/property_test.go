package noise

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestNoiseInvariants uses property-based testing to verify engine invariants.
// These properties should ALWAYS hold for any seed and coordinate.
func TestNoiseInvariants(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping property-based test in short mode")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	coord := gen.Float64Range(-1000, 1000)

	// Property 1: output is always bounded to [-1, 1]
	properties.Property("simplex output stays in [-1,1]", prop.ForAll(
		func(seed int64, x, y, z float64) bool {
			e := NewEngine(seed)
			v := e.Simplex3D(x, y, z)
			return v >= -1 && v <= 1
		},
		gen.Int64(),
		coord, coord, coord,
	))

	// Property 2: same seed and coordinate always yields the same value
	properties.Property("simplex is a pure function of (seed, coordinate)", prop.ForAll(
		func(seed int64, x, y, z float64) bool {
			a := NewEngine(seed).Simplex3D(x, y, z)
			b := NewEngine(seed).Simplex3D(x, y, z)
			return a == b
		},
		gen.Int64(),
		coord, coord, coord,
	))

	// Property 3: the cache never changes returned values
	properties.Property("cache is transparent", prop.ForAll(
		func(seed int64, x, y, z float64) bool {
			plain := NewEngine(seed).Simplex3D(x, y, z)
			withCache := NewEngine(seed, WithCache(DefaultCacheConfig()))
			first := withCache.Simplex3D(x, y, z)
			second := withCache.Simplex3D(x, y, z)
			return plain == first && first == second
		},
		gen.Int64(),
		coord, coord, coord,
	))

	// Property 4: cellular distances are bounded for any valid jitter
	properties.Property("cellular output stays in [-1,1]", prop.ForAll(
		func(seed int64, x, y, z, jitter float64) bool {
			e := NewEngine(seed)
			for _, mode := range []CellMode{CellF1, CellF2, CellF2MinusF1} {
				v, err := e.Cellular(x, y, z, CellularParams{Mode: mode, Jitter: jitter})
				if err != nil || v < -1 || v > 1 {
					return false
				}
			}
			return true
		},
		gen.Int64(),
		coord, coord, coord,
		gen.Float64Range(0, 2),
	))

	// Property 5: fBm normalization keeps any octave count bounded
	properties.Property("fBm output stays in [-1,1]", prop.ForAll(
		func(seed int64, x, y, z float64, octaves int) bool {
			e := NewEngine(seed)
			p := DefaultFractalParams()
			p.Octaves = octaves
			v, err := e.FBM(x, y, z, p)
			return err == nil && v >= -1 && v <= 1
		},
		gen.Int64(),
		coord, coord, coord,
		gen.IntRange(1, 8),
	))

	properties.TestingRun(t)
}
