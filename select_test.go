package dither

import (
	"math/rand"
	"testing"

	"github.com/BeatGlow/dither/geom"
)

func TestPick(t *testing.T) {
	testCases := []struct {
		name string
		w    geom.Weights
		u    float64
		want int
	}{
		{"first interval", geom.Weights{0.5, 0.5}, 0.25, geom.White},
		{"second interval", geom.Weights{0.5, 0.5}, 0.75, geom.Black},
		{"interval boundary is half-open", geom.Weights{0.5, 0.5}, 0.5, geom.Black},
		{"zero picks first nonzero weight", geom.Weights{0, 0, 0.5, 0.5}, 0, geom.Red},
		{"full weight on last vertex", geom.Weights{geom.Blue: 1}, 0.999, geom.Blue},
		{"drift past one picks last nonzero", geom.Weights{0.3, 0.7}, 1.0, geom.Black},
		{"drift with trailing zeros", geom.Weights{0.3, 0.7, 0, 0, 0, 0}, 1.0, geom.Black},
	}
	for _, test := range testCases {
		t.Run(test.name, func(it *testing.T) {
			if v := Pick(test.w, test.u); v != test.want {
				it.Errorf("expected %s, got %s", geom.VertexName(test.want), geom.VertexName(v))
			}
		})
	}
}

func TestPickDeterminism(t *testing.T) {
	w := geom.Weights{0.1, 0.2, 0.3, 0.15, 0.15, 0.1}
	for _, u := range []float64{0, 0.1, 0.3333, 0.5, 0.77, 0.999999} {
		first := Pick(w, u)
		for i := 0; i < 100; i++ {
			if v := Pick(w, u); v != first {
				t.Fatalf("expected stable pick for u=%g, got %d then %d", u, first, v)
			}
		}
	}
}

func TestPickFrequency(t *testing.T) {
	const draws = 10000

	w := geom.Weights{geom.White: 0.3, geom.Black: 0.7}
	rng := rand.New(rand.NewSource(1))

	var counts [geom.NumVertices]int
	for i := 0; i < draws; i++ {
		counts[Pick(w, rng.Float64())]++
	}

	// 0.7 * 10000 = 7000 expected, σ ≈ 46; allow a generous margin.
	if c := counts[geom.Black]; c < 6700 || c > 7300 {
		t.Errorf("expected about 7000 black picks, got %d", c)
	}
	if c := counts[geom.White] + counts[geom.Black]; c != draws {
		t.Errorf("expected only black and white picks, got %d of %d", c, draws)
	}
}

func TestPickStratifiedFrequency(t *testing.T) {
	// With perfectly uniform stratified samples the counts are exact.
	const draws = 10000

	w := geom.Weights{geom.White: 0.3, geom.Black: 0.7}

	var counts [geom.NumVertices]int
	for i := 0; i < draws; i++ {
		counts[Pick(w, (float64(i)+0.5)/draws)]++
	}
	if c := counts[geom.White]; c != 3000 {
		t.Errorf("expected exactly 3000 white picks, got %d", c)
	}
	if c := counts[geom.Black]; c != 7000 {
		t.Errorf("expected exactly 7000 black picks, got %d", c)
	}
}
