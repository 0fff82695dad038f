package dither

import "github.com/BeatGlow/dither/geom"

// Pick maps a noise value u in [0, 1) to a vertex index by
// cumulative-distribution sampling in fixed vertex order: the first vertex
// whose cumulative weight strictly exceeds u wins. For a fixed weight
// vector and uniform u the long-run frequency of each vertex converges to
// its weight.
//
// Pick always returns a valid index: u = 0 selects the first vertex with
// nonzero weight, and if floating-point drift leaves u at or beyond the
// final cumulative sum, the last vertex with nonzero weight is chosen.
func Pick(w geom.Weights, u float64) int {
	var (
		sum  float64
		last int
	)
	for i, v := range w {
		if v <= 0 {
			continue
		}
		sum += v
		last = i
		if u < sum {
			return i
		}
	}
	return last
}
