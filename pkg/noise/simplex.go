package noise

// Simplex noise implementation based on the original algorithm by Ken Perlin.
// Produces values in the range [-1, 1].

// grad3 are gradient vectors for 2D and 3D simplex noise.
var grad3 = [12][3]float64{
	{1, 1, 0},
	{-1, 1, 0},
	{1, -1, 0},
	{-1, -1, 0},
	{1, 0, 1},
	{-1, 0, 1},
	{1, 0, -1},
	{-1, 0, -1},
	{0, 1, 1},
	{0, -1, 1},
	{0, 1, -1},
	{0, -1, -1},
}

// grad4 are gradient vectors for 4D simplex noise.
var grad4 = [32][4]float64{
	{0, 1, 1, 1}, {0, 1, 1, -1}, {0, 1, -1, 1}, {0, 1, -1, -1},
	{0, -1, 1, 1}, {0, -1, 1, -1}, {0, -1, -1, 1}, {0, -1, -1, -1},
	{1, 0, 1, 1}, {1, 0, 1, -1}, {1, 0, -1, 1}, {1, 0, -1, -1},
	{-1, 0, 1, 1}, {-1, 0, 1, -1}, {-1, 0, -1, 1}, {-1, 0, -1, -1},
	{1, 1, 0, 1}, {1, 1, 0, -1}, {1, -1, 0, 1}, {1, -1, 0, -1},
	{-1, 1, 0, 1}, {-1, 1, 0, -1}, {-1, -1, 0, 1}, {-1, -1, 0, -1},
	{1, 1, 1, 0}, {1, 1, -1, 0}, {1, -1, 1, 0}, {1, -1, -1, 0},
	{-1, 1, 1, 0}, {-1, 1, -1, 0}, {-1, -1, 1, 0}, {-1, -1, -1, 0},
}

func dot2(g [3]float64, x, y float64) float64 {
	return g[0]*x + g[1]*y
}

func dot3(g [3]float64, x, y, z float64) float64 {
	return g[0]*x + g[1]*y + g[2]*z
}

func dot4(g [4]float64, x, y, z, w float64) float64 {
	return g[0]*x + g[1]*y + g[2]*z + g[3]*w
}

// Simplex2D returns 2D simplex noise for the given coordinates.
// Output is in the range [-1, 1].
func (e *Engine) Simplex2D(x, y float64) float64 {
	return e.cached(tagSimplex2, x, y, 0, 0, func() float64 {
		return e.simplex2(x, y)
	})
}

func (e *Engine) simplex2(x, y float64) float64 {
	const (
		f2 = 0.36602540378443864676 // (sqrt(3) - 1) / 2
		g2 = 0.21132486540518711775 // (3 - sqrt(3)) / 6
	)

	// Skew input space to determine simplex cell.
	s := (x + y) * f2
	i := fastFloor(x + s)
	j := fastFloor(y + s)

	t := float64(i+j) * g2
	x0 := x - (float64(i) - t)
	y0 := y - (float64(j) - t)

	// Determine which simplex we are in.
	var i1, j1 int
	if x0 > y0 {
		i1 = 1
	} else {
		j1 = 1
	}

	x1 := x0 - float64(i1) + g2
	y1 := y0 - float64(j1) + g2
	x2 := x0 - 1.0 + 2.0*g2
	y2 := y0 - 1.0 + 2.0*g2

	ii := i & 255
	jj := j & 255
	gi0 := e.perm[ii+e.perm[jj]] % 12
	gi1 := e.perm[ii+i1+e.perm[jj+j1]] % 12
	gi2 := e.perm[ii+1+e.perm[jj+1]] % 12

	var n0, n1, n2 float64

	t0 := 0.5 - x0*x0 - y0*y0
	if t0 >= 0 {
		t0 *= t0
		n0 = t0 * t0 * dot2(grad3[gi0], x0, y0)
	}

	t1 := 0.5 - x1*x1 - y1*y1
	if t1 >= 0 {
		t1 *= t1
		n1 = t1 * t1 * dot2(grad3[gi1], x1, y1)
	}

	t2 := 0.5 - x2*x2 - y2*y2
	if t2 >= 0 {
		t2 *= t2
		n2 = t2 * t2 * dot2(grad3[gi2], x2, y2)
	}

	return clampUnit(70.0 * (n0 + n1 + n2))
}

// Simplex3D returns 3D simplex noise for the given coordinates.
// Output is in the range [-1, 1].
func (e *Engine) Simplex3D(x, y, z float64) float64 {
	return e.cached(tagSimplex3, x, y, z, 0, func() float64 {
		return e.simplex3(x, y, z)
	})
}

func (e *Engine) simplex3(x, y, z float64) float64 {
	const (
		f3 = 1.0 / 3.0
		g3 = 1.0 / 6.0
	)

	s := (x + y + z) * f3
	i := fastFloor(x + s)
	j := fastFloor(y + s)
	k := fastFloor(z + s)

	t := float64(i+j+k) * g3
	x0 := x - (float64(i) - t)
	y0 := y - (float64(j) - t)
	z0 := z - (float64(k) - t)

	var i1, j1, k1, i2, j2, k2 int
	if x0 >= y0 {
		if y0 >= z0 {
			i1, j1, k1 = 1, 0, 0
			i2, j2, k2 = 1, 1, 0
		} else if x0 >= z0 {
			i1, j1, k1 = 1, 0, 0
			i2, j2, k2 = 1, 0, 1
		} else {
			i1, j1, k1 = 0, 0, 1
			i2, j2, k2 = 1, 0, 1
		}
	} else {
		if y0 < z0 {
			i1, j1, k1 = 0, 0, 1
			i2, j2, k2 = 0, 1, 1
		} else if x0 < z0 {
			i1, j1, k1 = 0, 1, 0
			i2, j2, k2 = 0, 1, 1
		} else {
			i1, j1, k1 = 0, 1, 0
			i2, j2, k2 = 1, 1, 0
		}
	}

	x1 := x0 - float64(i1) + g3
	y1 := y0 - float64(j1) + g3
	z1 := z0 - float64(k1) + g3
	x2 := x0 - float64(i2) + 2.0*g3
	y2 := y0 - float64(j2) + 2.0*g3
	z2 := z0 - float64(k2) + 2.0*g3
	x3 := x0 - 1.0 + 3.0*g3
	y3 := y0 - 1.0 + 3.0*g3
	z3 := z0 - 1.0 + 3.0*g3

	ii := i & 255
	jj := j & 255
	kk := k & 255
	gi0 := e.perm[ii+e.perm[jj+e.perm[kk]]] % 12
	gi1 := e.perm[ii+i1+e.perm[jj+j1+e.perm[kk+k1]]] % 12
	gi2 := e.perm[ii+i2+e.perm[jj+j2+e.perm[kk+k2]]] % 12
	gi3 := e.perm[ii+1+e.perm[jj+1+e.perm[kk+1]]] % 12

	var n0, n1, n2, n3 float64

	t0 := 0.6 - x0*x0 - y0*y0 - z0*z0
	if t0 >= 0 {
		t0 *= t0
		n0 = t0 * t0 * dot3(grad3[gi0], x0, y0, z0)
	}

	t1 := 0.6 - x1*x1 - y1*y1 - z1*z1
	if t1 >= 0 {
		t1 *= t1
		n1 = t1 * t1 * dot3(grad3[gi1], x1, y1, z1)
	}

	t2 := 0.6 - x2*x2 - y2*y2 - z2*z2
	if t2 >= 0 {
		t2 *= t2
		n2 = t2 * t2 * dot3(grad3[gi2], x2, y2, z2)
	}

	t3 := 0.6 - x3*x3 - y3*y3 - z3*z3
	if t3 >= 0 {
		t3 *= t3
		n3 = t3 * t3 * dot3(grad3[gi3], x3, y3, z3)
	}

	return clampUnit(32.0 * (n0 + n1 + n2 + n3))
}

// Simplex4D returns 4D simplex noise for the given coordinates.
// Output is in the range [-1, 1].
func (e *Engine) Simplex4D(x, y, z, w float64) float64 {
	return e.cached(tagSimplex4, x, y, z, w, func() float64 {
		return e.simplex4(x, y, z, w)
	})
}

func (e *Engine) simplex4(x, y, z, w float64) float64 {
	const (
		f4 = 0.30901699437494742410 // (sqrt(5) - 1) / 4
		g4 = 0.13819660112501051518 // (5 - sqrt(5)) / 20
	)

	s := (x + y + z + w) * f4
	i := fastFloor(x + s)
	j := fastFloor(y + s)
	k := fastFloor(z + s)
	l := fastFloor(w + s)

	t := float64(i+j+k+l) * g4
	x0 := x - (float64(i) - t)
	y0 := y - (float64(j) - t)
	z0 := z - (float64(k) - t)
	w0 := w - (float64(l) - t)

	// Rank the coordinates to find the simplex traversal order.
	rankX, rankY, rankZ, rankW := 0, 0, 0, 0
	if x0 > y0 {
		rankX++
	} else {
		rankY++
	}
	if x0 > z0 {
		rankX++
	} else {
		rankZ++
	}
	if x0 > w0 {
		rankX++
	} else {
		rankW++
	}
	if y0 > z0 {
		rankY++
	} else {
		rankZ++
	}
	if y0 > w0 {
		rankY++
	} else {
		rankW++
	}
	if z0 > w0 {
		rankZ++
	} else {
		rankW++
	}

	rankStep := func(rank, threshold int) int {
		if rank >= threshold {
			return 1
		}
		return 0
	}

	i1, j1, k1, l1 := rankStep(rankX, 3), rankStep(rankY, 3), rankStep(rankZ, 3), rankStep(rankW, 3)
	i2, j2, k2, l2 := rankStep(rankX, 2), rankStep(rankY, 2), rankStep(rankZ, 2), rankStep(rankW, 2)
	i3, j3, k3, l3 := rankStep(rankX, 1), rankStep(rankY, 1), rankStep(rankZ, 1), rankStep(rankW, 1)

	x1 := x0 - float64(i1) + g4
	y1 := y0 - float64(j1) + g4
	z1 := z0 - float64(k1) + g4
	w1 := w0 - float64(l1) + g4
	x2 := x0 - float64(i2) + 2.0*g4
	y2 := y0 - float64(j2) + 2.0*g4
	z2 := z0 - float64(k2) + 2.0*g4
	w2 := w0 - float64(l2) + 2.0*g4
	x3 := x0 - float64(i3) + 3.0*g4
	y3 := y0 - float64(j3) + 3.0*g4
	z3 := z0 - float64(k3) + 3.0*g4
	w3 := w0 - float64(l3) + 3.0*g4
	x4 := x0 - 1.0 + 4.0*g4
	y4 := y0 - 1.0 + 4.0*g4
	z4 := z0 - 1.0 + 4.0*g4
	w4 := w0 - 1.0 + 4.0*g4

	ii := i & 255
	jj := j & 255
	kk := k & 255
	ll := l & 255
	gi0 := e.perm[ii+e.perm[jj+e.perm[kk+e.perm[ll]]]] % 32
	gi1 := e.perm[ii+i1+e.perm[jj+j1+e.perm[kk+k1+e.perm[ll+l1]]]] % 32
	gi2 := e.perm[ii+i2+e.perm[jj+j2+e.perm[kk+k2+e.perm[ll+l2]]]] % 32
	gi3 := e.perm[ii+i3+e.perm[jj+j3+e.perm[kk+k3+e.perm[ll+l3]]]] % 32
	gi4 := e.perm[ii+1+e.perm[jj+1+e.perm[kk+1+e.perm[ll+1]]]] % 32

	var n0, n1, n2, n3, n4 float64

	t0 := 0.6 - x0*x0 - y0*y0 - z0*z0 - w0*w0
	if t0 >= 0 {
		t0 *= t0
		n0 = t0 * t0 * dot4(grad4[gi0], x0, y0, z0, w0)
	}

	t1 := 0.6 - x1*x1 - y1*y1 - z1*z1 - w1*w1
	if t1 >= 0 {
		t1 *= t1
		n1 = t1 * t1 * dot4(grad4[gi1], x1, y1, z1, w1)
	}

	t2 := 0.6 - x2*x2 - y2*y2 - z2*z2 - w2*w2
	if t2 >= 0 {
		t2 *= t2
		n2 = t2 * t2 * dot4(grad4[gi2], x2, y2, z2, w2)
	}

	t3 := 0.6 - x3*x3 - y3*y3 - z3*z3 - w3*w3
	if t3 >= 0 {
		t3 *= t3
		n3 = t3 * t3 * dot4(grad4[gi3], x3, y3, z3, w3)
	}

	t4 := 0.6 - x4*x4 - y4*y4 - z4*z4 - w4*w4
	if t4 >= 0 {
		t4 *= t4
		n4 = t4 * t4 * dot4(grad4[gi4], x4, y4, z4, w4)
	}

	return clampUnit(27.0 * (n0 + n1 + n2 + n3 + n4))
}
