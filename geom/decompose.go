package geom

import "math"

// Decompose expresses p as a non-negative weight vector over the six
// vertices. Points outside the octahedron are first clamped to the nearest
// point on its boundary, so the function is total: it never fails and the
// result always sums to 1.
//
// Cell membership is half-open: the cells are tested in fixed index order
// (the four White-apex cells followed by the four Black-apex cells, equator
// pair (j, j+1) within each group) and the lowest-index cell whose
// barycentric coordinates are all >= -tolerance wins. A point on a shared
// cell boundary is therefore claimed by exactly one cell.
func (o *Octahedron) Decompose(p Point) Weights {
	if i, bc, ok := o.locate(p); ok {
		return o.foldCell(i, bc)
	}

	// Outside the solid: the nearest boundary point lies on one of the 8
	// faces, and its face barycentric coordinates are the weights directly
	// (the center does not participate on the boundary).
	i, bc := o.nearestFace(p)
	c := &o.cells[i]

	var w Weights
	w[c.apex] = bc[0]
	w[c.eqA] = bc[1]
	w[c.eqB] = bc[2]
	return w.normalized(o.tol)
}

// Clamp returns p unchanged when it is inside the octahedron, and the
// nearest point on the boundary otherwise. Clamping is idempotent.
func (o *Octahedron) Clamp(p Point) Point {
	if _, _, ok := o.locate(p); ok {
		return p
	}
	i, bc := o.nearestFace(p)
	c := &o.cells[i]
	return o.verts[c.apex].Scale(bc[0]).
		Add(o.verts[c.eqA].Scale(bc[1])).
		Add(o.verts[c.eqB].Scale(bc[2]))
}

// Contains reports whether p lies inside the octahedron (or on its
// boundary, within tolerance).
func (o *Octahedron) Contains(p Point) bool {
	_, _, ok := o.locate(p)
	return ok
}

// locate finds the lowest-index cell containing p. bc holds the barycentric
// coordinates of the apex and the two equatorial corners; the center
// coordinate is 1 minus their sum.
func (o *Octahedron) locate(p Point) (int, [3]float64, bool) {
	d := p.Sub(o.center)
	for i := range o.cells {
		m := &o.cells[i].inv
		var bc [3]float64
		bc[0] = m[0][0]*d.X + m[0][1]*d.Y + m[0][2]*d.Z
		bc[1] = m[1][0]*d.X + m[1][1]*d.Y + m[1][2]*d.Z
		bc[2] = m[2][0]*d.X + m[2][1]*d.Y + m[2][2]*d.Z
		if bc[0] >= -o.tol && bc[1] >= -o.tol && bc[2] >= -o.tol &&
			bc[0]+bc[1]+bc[2] <= 1+o.tol {
			return i, bc, true
		}
	}
	return 0, [3]float64{}, false
}

// foldCell turns cell-local coordinates into a full weight vector. The
// center is the midpoint of White and Black, so its coordinate is folded
// 50/50 into the two pole weights.
func (o *Octahedron) foldCell(i int, bc [3]float64) Weights {
	c := &o.cells[i]

	var w Weights
	alphaC := 1 - bc[0] - bc[1] - bc[2]
	w[White] += alphaC * 0.5
	w[Black] += alphaC * 0.5
	w[c.apex] += bc[0]
	w[c.eqA] += bc[1]
	w[c.eqB] += bc[2]
	return w.normalized(o.tol)
}

// nearestFace returns the cell index whose outer face is closest to p,
// together with the barycentric coordinates (apex, eqA, eqB) of the closest
// point on that face. Ties resolve to the lowest cell index.
func (o *Octahedron) nearestFace(p Point) (int, [3]float64) {
	var (
		best     int
		bestBary [3]float64
		bestDist = math.MaxFloat64
	)
	for i := range o.cells {
		c := &o.cells[i]
		bary, dist := closestOnTriangle(p, o.verts[c.apex], o.verts[c.eqA], o.verts[c.eqB])
		if dist < bestDist {
			best, bestBary, bestDist = i, bary, dist
		}
	}
	return best, bestBary
}

// closestOnTriangle finds the point of triangle (a, b, c) closest to p and
// returns its barycentric coordinates over (a, b, c) and the squared
// distance from p. Standard region-based closest-point test.
func closestOnTriangle(p, a, b, c Point) ([3]float64, float64) {
	var (
		ab = b.Sub(a)
		ac = c.Sub(a)
		ap = p.Sub(a)
	)
	d1 := ab.Dot(ap)
	d2 := ac.Dot(ap)
	if d1 <= 0 && d2 <= 0 {
		return bary3(1, 0, 0, p, a, b, c)
	}

	bp := p.Sub(b)
	d3 := ab.Dot(bp)
	d4 := ac.Dot(bp)
	if d3 >= 0 && d4 <= d3 {
		return bary3(0, 1, 0, p, a, b, c)
	}

	if vc := d1*d4 - d3*d2; vc <= 0 && d1 >= 0 && d3 <= 0 {
		v := d1 / (d1 - d3)
		return bary3(1-v, v, 0, p, a, b, c)
	}

	cp := p.Sub(c)
	d5 := ab.Dot(cp)
	d6 := ac.Dot(cp)
	if d6 >= 0 && d5 <= d6 {
		return bary3(0, 0, 1, p, a, b, c)
	}

	if vb := d5*d2 - d1*d6; vb <= 0 && d2 >= 0 && d6 <= 0 {
		w := d2 / (d2 - d6)
		return bary3(1-w, 0, w, p, a, b, c)
	}

	va := d3*d6 - d5*d4
	if va <= 0 && d4-d3 >= 0 && d5-d6 >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return bary3(0, 1-w, w, p, a, b, c)
	}

	vb := d5*d2 - d1*d6
	vc := d1*d4 - d3*d2
	denom := 1 / (va + vb + vc)
	v := vb * denom
	w := vc * denom
	return bary3(1-v-w, v, w, p, a, b, c)
}

func bary3(u, v, w float64, p, a, b, c Point) ([3]float64, float64) {
	q := a.Scale(u).Add(b.Scale(v)).Add(c.Scale(w))
	return [3]float64{u, v, w}, p.DistanceSquared(q)
}

// normalized clamps small negative numerical noise to zero and rescales the
// vector when the sum drifts from 1 beyond tolerance.
func (w Weights) normalized(tol float64) Weights {
	var sum float64
	for i, v := range w {
		if v < 0 {
			w[i] = 0
			v = 0
		}
		sum += v
	}
	if d := sum - 1; (d > tol || d < -tol) && sum > 0 {
		for i := range w {
			w[i] /= sum
		}
	}
	return w
}

// Sum returns the total weight, which is 1 within tolerance.
func (w Weights) Sum() float64 {
	var sum float64
	for _, v := range w {
		sum += v
	}
	return sum
}

// Combine linearly combines the given vertex points by the weights,
// reconstructing the (clamped) query point the weights were computed from.
func (w Weights) Combine(verts [NumVertices]Point) Point {
	var p Point
	for i, v := range w {
		p = p.Add(verts[i].Scale(v))
	}
	return p
}
