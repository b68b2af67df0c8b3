package config

import (
	"time"

	"github.com/aryawin/karstgen/pkg/formation"
	"github.com/aryawin/karstgen/pkg/geology"
)

// GenerationConfig aggregates every knob of a generation run. The
// zero value is not usable; start from DefaultConfig or a preset file
// and validate before handing it to the pipeline.
type GenerationConfig struct {
	// Seed drives every noise source; runs with equal seed and
	// parameters produce identical output
	Seed int64 `yaml:"seed"`

	// Region is the world-space box to sample
	Region geology.Region `yaml:"region"`

	// Step is the sample spacing in world units
	Step float64 `yaml:"step" validate:"gt=0"`

	Synthesis geology.SynthesisParams `yaml:"synthesis"`
	Extract   formation.ExtractParams `yaml:"extract"`

	// Structural toggles the structural analysis stage
	Structural bool `yaml:"structural"`

	// CacheSize is the noise sample cache cleanup threshold
	CacheSize int `yaml:"cacheSize" validate:"gte=0"`

	// StageBudget bounds each pipeline stage; exhaustion degrades the
	// result instead of aborting
	StageBudget time.Duration `yaml:"stageBudget" validate:"gte=0"`

	// MaxPoints truncates field sampling once reached (0 = unlimited)
	MaxPoints int `yaml:"maxPoints" validate:"gte=0"`
}

// DefaultConfig returns the baseline preset: a 100x50x100 region
// centred on the origin at 2-unit spacing.
func DefaultConfig() *GenerationConfig {
	return &GenerationConfig{
		Seed: 1,
		Region: geology.Region{
			Min: geology.Vec3{X: -50, Y: -50, Z: -50},
			Max: geology.Vec3{X: 50, Y: 0, Z: 50},
		},
		Step:        2,
		Synthesis:   geology.DefaultSynthesisParams(),
		Extract:     formation.DefaultExtractParams(),
		Structural:  true,
		CacheSize:   65536,
		StageBudget: 30 * time.Second,
		MaxPoints:   2_000_000,
	}
}
