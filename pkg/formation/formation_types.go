package formation

import (
	"github.com/aryawin/karstgen/pkg/geology"
)

// FormationType classifies an extracted cave feature.
type FormationType uint8

const (
	// TypeTunnel is the default elongated passage
	TypeTunnel FormationType = iota
	// TypeChamber is a wide, dense open room
	TypeChamber
	// TypeVerticalShaft is a tall, narrow drop
	TypeVerticalShaft
	// TypeSqueezePassage is a narrow, long crawl
	TypeSqueezePassage
	// TypeSubChamber is a smaller side room
	TypeSubChamber
	// TypeCollapseChamber is a chamber retyped by structural analysis
	// as collapse-prone
	TypeCollapseChamber
)

// String returns the string representation of a formation type
func (t FormationType) String() string {
	switch t {
	case TypeTunnel:
		return "tunnel"
	case TypeChamber:
		return "chamber"
	case TypeVerticalShaft:
		return "vertical_shaft"
	case TypeSqueezePassage:
		return "squeeze_passage"
	case TypeSubChamber:
		return "sub_chamber"
	case TypeCollapseChamber:
		return "collapse_chamber"
	default:
		return "unknown"
	}
}

// Feature tags attached to formations.
const (
	FeatureUndergroundStream = "underground_stream"
	FeatureGasPocket         = "gas_pocket"
)

// Formation is a classified cluster of CavePoints. A point belongs to
// at most one formation; the structural stage may mutate Stability,
// Type, and Features after extraction.
type Formation struct {
	ID          int                 `json:"id"`
	Type        FormationType       `json:"type"`
	Center      geology.Vec3        `json:"center"`
	Radius      float64             `json:"radius"`
	Height      float64             `json:"height"`
	Orientation geology.Vec3        `json:"orientation"`
	Stability   float64             `json:"stability"`
	Connections []int               `json:"connections"`
	Features    []string            `json:"features"`
	Points      []geology.CavePoint `json:"-"`
}

// HasFeature checks if the formation carries a feature tag
func (f *Formation) HasFeature(tag string) bool {
	for _, t := range f.Features {
		if t == tag {
			return true
		}
	}
	return false
}

// AvgDensity returns the mean member density.
func (f *Formation) AvgDensity() float64 {
	if len(f.Points) == 0 {
		return 0
	}
	var sum float64
	for _, p := range f.Points {
		sum += p.Density
	}
	return sum / float64(len(f.Points))
}

// WaterFraction returns the share of members with notable water flow.
func (f *Formation) WaterFraction() float64 {
	if len(f.Points) == 0 {
		return 0
	}
	n := 0
	for _, p := range f.Points {
		if p.WaterFlow > 0.3 {
			n++
		}
	}
	return float64(n) / float64(len(f.Points))
}

// ExtractParams are the validated extraction knobs.
type ExtractParams struct {
	// MinChamberSize is the smallest radius classified as a chamber
	MinChamberSize float64 `yaml:"minChamberSize" validate:"gt=0"`
}

// DefaultExtractParams returns the baseline extraction configuration.
func DefaultExtractParams() ExtractParams {
	return ExtractParams{MinChamberSize: 6}
}

// Extraction constants. Tuned together: loosening one without the
// others produces fragmented or merged clusters.
const (
	minPointDensity = 0.3 // points below this are not cave material
	clusterRadius   = 15.0
	minClusterSize  = 5
	linkSlack       = 10.0 // extra reach when linking formation pairs
	pathSampleStep  = 2.0
)
