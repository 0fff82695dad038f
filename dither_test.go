package dither

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/BeatGlow/dither/geom"
	"github.com/BeatGlow/dither/noise"
	"github.com/BeatGlow/dither/palette"
)

func testUniformImage(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestNewDefaults(t *testing.T) {
	d, err := New(nil)
	if err != nil {
		t.Fatalf("expected default config to be valid, got %v", err)
	}
	if d.Octahedron() == nil {
		t.Error("expected geometry to be built")
	}
}

func TestNewRejectsInvalidPalette(t *testing.T) {
	pal := palette.Spectra6()
	pal.Points[geom.Black] = pal.Points[geom.White] // poles coincide

	if _, err := New(&Config{Palette: pal}); err == nil {
		t.Error("expected a configuration error")
	}
}

func TestDitherMidGray(t *testing.T) {
	d, err := New(&Config{Noise: noise.Bayer{}})
	if err != nil {
		t.Fatal(err)
	}

	// A uniform mid-gray in linear RGB sits at the octahedron center and
	// must dither to a black/white speckle approaching a 50/50 ratio.
	const size = 256
	gray := colorful.LinearRgb(0.5, 0.5, 0.5)
	out := d.Dither(testUniformImage(size, size, color.RGBA{
		R: uint8(gray.R*255 + 0.5),
		G: uint8(gray.G*255 + 0.5),
		B: uint8(gray.B*255 + 0.5),
		A: 0xff,
	}))

	var counts [geom.NumVertices]int
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			counts[out.IndexAt(x, y)]++
		}
	}

	const total = size * size
	for i := geom.Red; i < geom.NumVertices; i++ {
		if counts[i] != 0 {
			t.Errorf("expected no %s pixels, got %d", geom.VertexName(i), counts[i])
		}
	}
	if counts[geom.White]+counts[geom.Black] != total {
		t.Fatalf("expected %d black and white pixels, got %d", total, counts[geom.White]+counts[geom.Black])
	}

	// 8-bit sRGB quantization keeps the gray slightly off-center, so allow
	// a few percent around the even split.
	if c := counts[geom.White]; c < total*45/100 || c > total*55/100 {
		t.Errorf("expected about half white pixels, got %d of %d", c, total)
	}
}

func TestDitherVertexColors(t *testing.T) {
	pal := palette.Spectra6()
	d, err := New(&Config{Palette: pal})
	if err != nil {
		t.Fatal(err)
	}

	// Pure white and pure black land exactly on their vertices and must
	// dither to a constant ink.
	for _, test := range []struct {
		name string
		c    color.Color
		want uint8
	}{
		{"white", color.White, geom.White},
		{"black", color.Black, geom.Black},
	} {
		t.Run(test.name, func(it *testing.T) {
			out := d.Dither(testUniformImage(16, 16, test.c))
			for y := 0; y < 16; y++ {
				for x := 0; x < 16; x++ {
					if v := out.IndexAt(x, y); v != test.want {
						it.Fatalf("pixel (%d,%d) is %s, expected %s",
							x, y, geom.VertexName(int(v)), geom.VertexName(int(test.want)))
					}
				}
			}
		})
	}

	// The other vertices cannot be hit exactly through color quantization;
	// their ink must still dominate overwhelmingly.
	for i := geom.Red; i < geom.NumVertices; i++ {
		t.Run(geom.VertexName(i), func(it *testing.T) {
			p := pal.Points[i]
			src := colorful.LinearRgb(p.X, p.Y, p.Z)

			const size = 16
			out := d.Dither(testUniformImage(size, size, src))

			var hits int
			for y := 0; y < size; y++ {
				for x := 0; x < size; x++ {
					if int(out.IndexAt(x, y)) == i {
						hits++
					}
				}
			}
			if hits < size*size*95/100 {
				it.Errorf("expected %s to dominate, got %d of %d pixels", geom.VertexName(i), hits, size*size)
			}
		})
	}
}

func TestDitherDeterministic(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 4), G: uint8(y * 4), B: uint8(x + y), A: 0xff})
		}
	}

	for _, workers := range []int{1, 4, 16} {
		d, err := New(&Config{Workers: workers})
		if err != nil {
			t.Fatal(err)
		}
		out := d.Dither(img)
		if workers == 1 {
			continue
		}

		single, err := New(&Config{Workers: 1})
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(out.Pix, single.Dither(img).Pix) {
			t.Errorf("expected identical output with %d workers", workers)
		}
	}
}

func TestDitherOffsetBounds(t *testing.T) {
	// Sub-images with a nonzero origin dither the same pixels.
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 8), G: uint8(y * 8), B: 0x80, A: 0xff})
		}
	}

	d, err := New(&Config{Workers: 1})
	if err != nil {
		t.Fatal(err)
	}

	sub := img.SubImage(image.Rect(8, 8, 24, 24)).(*image.RGBA)
	out := d.Dither(sub)
	if v := out.Bounds().Size(); v != image.Pt(16, 16) {
		t.Fatalf("expected 16x16 output, got %s", v)
	}
}

// The built-in palette points are exact vertices of their own octahedron.
func TestSpectra6PointsDecompose(t *testing.T) {
	pal := palette.Spectra6()
	octa, err := pal.Octahedron()
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < geom.NumVertices; i++ {
		w := octa.Decompose(pal.Points[i])
		if w[i] < 0.999 {
			t.Errorf("expected full weight on %s, got %g", geom.VertexName(i), w[i])
		}
	}
}
