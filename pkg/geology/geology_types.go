package geology

import (
	"math"
)

// Vec3 is a point or direction in cave space. Y is up; depth below
// the surface is -Y.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v scaled by s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Length returns the Euclidean norm of v.
func (v Vec3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Dist returns the Euclidean distance between v and o.
func (v Vec3) Dist(o Vec3) float64 {
	return v.Sub(o).Length()
}

// Lerp returns the point a fraction t of the way from v to o.
func (v Vec3) Lerp(o Vec3, t float64) Vec3 {
	return Vec3{
		v.X + (o.X-v.X)*t,
		v.Y + (o.Y-v.Y)*t,
		v.Z + (o.Z-v.Z)*t,
	}
}

// Region is an axis-aligned 3D sampling volume.
type Region struct {
	Min Vec3 `json:"min"`
	Max Vec3 `json:"max"`
}

// Valid reports whether the region has positive extent on every axis.
func (r Region) Valid() bool {
	return r.Max.X > r.Min.X && r.Max.Y > r.Min.Y && r.Max.Z > r.Min.Z
}

// Material classifies what occupies a sampled point.
type Material uint8

const (
	// MaterialSolidRock is intact rock; density 0
	MaterialSolidRock Material = iota
	// MaterialLooseRock is fractured, partially open rock
	MaterialLooseRock
	// MaterialAir is open cave space
	MaterialAir
)

// String returns the string representation of a material
func (m Material) String() string {
	switch m {
	case MaterialSolidRock:
		return "solid_rock"
	case MaterialLooseRock:
		return "loose_rock"
	case MaterialAir:
		return "air"
	default:
		return "unknown"
	}
}

// GeologicalLayer describes one depth band of rock. Layers are
// read-only after construction.
type GeologicalLayer struct {
	Depth        float64 `json:"depth"`
	Hardness     float64 `json:"hardness"`
	Porosity     float64 `json:"porosity"`
	Solubility   float64 `json:"solubility"`
	JointDensity float64 `json:"jointDensity"`
	Composition  string  `json:"composition"`
}

// CavePoint is one sample of the density field. It is an immutable
// value: density 1 is fully open space, 0 is solid rock.
type CavePoint struct {
	Position    Vec3     `json:"position"`
	Density     float64  `json:"density"`
	Material    Material `json:"material"`
	Stability   float64  `json:"stability"`
	WaterFlow   float64  `json:"waterFlow"`
	Temperature float64  `json:"temperature"`
	Humidity    float64  `json:"humidity"`
	GasContent  float64  `json:"gasContent"`
}

// LayerStack is an ordered set of geological layers by depth band.
type LayerStack []GeologicalLayer

// DefaultLayers returns a plausible karst stratigraphy: soft soluble
// limestone bands over progressively harder basement rock.
func DefaultLayers() LayerStack {
	return LayerStack{
		{Depth: 0, Hardness: 0.35, Porosity: 0.55, Solubility: 0.2, JointDensity: 0.6, Composition: "topsoil"},
		{Depth: 15, Hardness: 0.45, Porosity: 0.6, Solubility: 0.75, JointDensity: 0.5, Composition: "limestone"},
		{Depth: 80, Hardness: 0.55, Porosity: 0.5, Solubility: 0.65, JointDensity: 0.45, Composition: "dolomite"},
		{Depth: 160, Hardness: 0.7, Porosity: 0.3, Solubility: 0.3, JointDensity: 0.35, Composition: "sandstone"},
		{Depth: 280, Hardness: 0.85, Porosity: 0.15, Solubility: 0.05, JointDensity: 0.25, Composition: "granite"},
	}
}

// LayerAt returns the layer covering the given depth (depth grows
// downward; negative depths map to the surface layer).
func (ls LayerStack) LayerAt(depth float64) GeologicalLayer {
	if len(ls) == 0 {
		return GeologicalLayer{Hardness: 0.5, Porosity: 0.5, Composition: "unknown"}
	}
	best := ls[0]
	for _, layer := range ls {
		if layer.Depth <= depth {
			best = layer
		}
	}
	return best
}
