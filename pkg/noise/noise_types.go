package noise

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	ErrBadJitter    = errors.New("jitter out of range [0,2]")
	ErrBadCellMode  = errors.New("unknown cellular mode")
	ErrBadOctaves   = errors.New("octave count must be at least 1")
	ErrBadPrecision = errors.New("cache precision must be positive")
)

// CellMode selects which cellular distance statistic is returned.
type CellMode uint8

const (
	// CellF1 returns the distance to the nearest feature point
	CellF1 CellMode = iota
	// CellF2 returns the distance to the second-nearest feature point
	CellF2
	// CellF2MinusF1 returns the difference between the two
	CellF2MinusF1
)

// String returns the string representation of a cell mode
func (m CellMode) String() string {
	switch m {
	case CellF1:
		return "f1"
	case CellF2:
		return "f2"
	case CellF2MinusF1:
		return "f2-f1"
	default:
		return "unknown"
	}
}

// CellularParams configures Worley/cellular noise sampling.
type CellularParams struct {
	Mode   CellMode `validate:"lte=2"`
	Jitter float64  `validate:"gte=0,lte=2"`
}

// Validate checks the parameter ranges. Invalid parameters are
// precondition violations, never silently clamped.
func (p CellularParams) Validate() error {
	if p.Jitter < 0 || p.Jitter > 2 {
		return fmt.Errorf("%w: %v", ErrBadJitter, p.Jitter)
	}
	if p.Mode > CellF2MinusF1 {
		return fmt.Errorf("%w: %d", ErrBadCellMode, p.Mode)
	}
	return nil
}

// FractalParams configures fBm and its derived variants.
type FractalParams struct {
	Octaves     int     `validate:"gte=1,lte=16"`
	Frequency   float64 `validate:"gt=0"`
	Amplitude   float64
	Persistence float64 `validate:"gt=0,lte=1"`
	Lacunarity  float64 `validate:"gte=1"`
}

// DefaultFractalParams returns the baseline fBm configuration.
func DefaultFractalParams() FractalParams {
	return FractalParams{
		Octaves:     4,
		Frequency:   1.0,
		Amplitude:   1.0,
		Persistence: 0.5,
		Lacunarity:  2.0,
	}
}

// Validate checks the parameter ranges.
func (p FractalParams) Validate() error {
	if p.Octaves < 1 {
		return fmt.Errorf("%w: %d", ErrBadOctaves, p.Octaves)
	}
	return nil
}

// WarpParams configures two-pass domain warping.
type WarpParams struct {
	// Strength scales the displacement applied by each warp pass
	Strength float64
	// Source is sampled at the displaced coordinate
	Source FractalParams
	// Displacement drives the two offset passes
	Displacement FractalParams
}

// family tags used in cache keys
const (
	tagSimplex2 uint8 = iota
	tagSimplex3
	tagSimplex4
	tagCellular
)
