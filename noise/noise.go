// Package noise provides deterministic per-pixel noise sources for
// stochastic palette selection. Every source maps a pixel coordinate to a
// scalar in [0, 1) with no hidden state, so dithering the same image twice
// produces identical output.
package noise

import "math"

// Source yields one scalar in [0, 1) per pixel coordinate. Implementations
// must be deterministic and safe for concurrent use.
type Source interface {
	At(x, y int) float64
}

// IGN is interleaved gradient noise:
//
//	fract(52.9829189 * fract(0.06711056*x + 0.00583715*y))
type IGN struct{}

func (IGN) At(x, y int) float64 {
	v := 0.06711056*float64(x) + 0.00583715*float64(y)
	v = 52.9829189 * (v - math.Floor(v))
	return v - math.Floor(v)
}

var bayerBase = [2][2]float64{{0, 2}, {3, 1}}

// Bayer is the recursive ordered Bayer pattern. Depth limits the pattern to
// a 2^Depth × 2^Depth matrix; Depth <= 0 recurses until the coordinate bits
// are exhausted, which behaves like an unbounded matrix.
type Bayer struct {
	Depth int
}

func (b Bayer) At(x, y int) float64 {
	var (
		ux, uy = uint(x), uint(y)
		mult   = 0.25
		depth  = b.Depth
		v      float64
	)
	for ux > 0 || uy > 0 {
		if b.Depth > 0 && depth == 0 {
			break
		}
		v += mult * bayerBase[uy&1][ux&1]
		ux >>= 1
		uy >>= 1
		mult *= 0.25
		depth--
	}
	return v
}

// White is coordinate-hashed white noise. Unlike a sequential random
// generator it is a pure function of (Seed, x, y), so it satisfies the
// reproducibility contract of Source.
type White struct {
	Seed uint64
}

func (w White) At(x, y int) float64 {
	z := w.Seed ^ uint64(uint32(x)) ^ uint64(uint32(y))<<32

	// splitmix64 finalizer
	z += 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	z ^= z >> 31

	return float64(z>>11) / (1 << 53)
}
