package noise

import "math"

// FBM layers octaves of 3D simplex noise at rising frequency and
// falling amplitude, normalized by the total amplitude.
// Output is in the range [-1, 1].
func (e *Engine) FBM(x, y, z float64, p FractalParams) (float64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}

	var total, maxVal float64
	frequency := p.Frequency
	amplitude := p.Amplitude
	if amplitude == 0 {
		amplitude = 1.0
	}

	for i := 0; i < p.Octaves; i++ {
		total += e.Simplex3D(x*frequency, y*frequency, z*frequency) * amplitude
		maxVal += amplitude
		amplitude *= p.Persistence
		frequency *= p.Lacunarity
	}
	return total / maxVal, nil
}

// Warp displaces the sampling coordinate with two fBm-driven offset
// passes before sampling the source fBm. Output is in [-1, 1].
func (e *Engine) Warp(x, y, z float64, p WarpParams) (float64, error) {
	if err := p.Displacement.Validate(); err != nil {
		return 0, err
	}
	if err := p.Source.Validate(); err != nil {
		return 0, err
	}

	// First pass: offset each axis with decorrelated fBm samples.
	qx, _ := e.FBM(x, y, z, p.Displacement)
	qy, _ := e.FBM(x+5.2, y+1.3, z+9.2, p.Displacement)
	qz, _ := e.FBM(x+8.3, y+2.8, z+4.7, p.Displacement)

	wx := x + p.Strength*qx
	wy := y + p.Strength*qy
	wz := z + p.Strength*qz

	// Second pass warps the already-warped coordinate.
	rx, _ := e.FBM(wx+1.7, wy+9.2, wz+3.1, p.Displacement)
	ry, _ := e.FBM(wx+8.3, wy+2.8, wz+6.9, p.Displacement)
	rz, _ := e.FBM(wx+4.1, wy+5.5, wz+1.2, p.Displacement)

	return e.FBM(
		wx+p.Strength*rx,
		wy+p.Strength*ry,
		wz+p.Strength*rz,
		p.Source,
	)
}

// Ridge returns ridged noise: 1 - |simplex|. Output is in [0, 1],
// with sharp creases along the zero crossings of the base noise.
func (e *Engine) Ridge(x, y, z float64) float64 {
	return 1 - math.Abs(e.Simplex3D(x, y, z))
}

// Turbulence sums the absolute value of each octave, giving a
// billowing positive field in [0, 1].
func (e *Engine) Turbulence(x, y, z float64, p FractalParams) (float64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}

	var total, maxVal float64
	frequency := p.Frequency
	amplitude := p.Amplitude
	if amplitude == 0 {
		amplitude = 1.0
	}

	for i := 0; i < p.Octaves; i++ {
		total += math.Abs(e.Simplex3D(x*frequency, y*frequency, z*frequency)) * amplitude
		maxVal += amplitude
		amplitude *= p.Persistence
		frequency *= p.Lacunarity
	}
	return total / maxVal, nil
}

// Billow returns the absolute value of fBm. Output is in [0, 1].
func (e *Engine) Billow(x, y, z float64, p FractalParams) (float64, error) {
	v, err := e.FBM(x, y, z, p)
	if err != nil {
		return 0, err
	}
	return math.Abs(v), nil
}
