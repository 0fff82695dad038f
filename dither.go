// Package dither converts full-color images to the six-color palette of
// Spectra e-paper panels.
//
// Each source color is decomposed into non-negative barycentric weights
// over the palette octahedron (see the geom package), and one palette color
// is chosen per pixel by sampling a deterministic noise field against the
// weights. Every pixel decision is local and stateless, so out-of-gamut
// regions cannot accumulate error the way serial error diffusion does, and
// the per-pixel loop parallelizes freely.
package dither

import (
	"image"
	"runtime"
	"sync"

	"github.com/BeatGlow/dither/geom"
	"github.com/BeatGlow/dither/noise"
	"github.com/BeatGlow/dither/palette"
	"github.com/BeatGlow/dither/pixel"
)

// Config is the dithering configuration.
type Config struct {
	// Palette is the six-color palette. Nil selects palette.Spectra6.
	Palette *palette.Palette

	// Noise is the per-pixel noise source. Nil selects noise.IGN.
	Noise noise.Source

	// Workers is the number of parallel row workers. Values below 1
	// select runtime.GOMAXPROCS(0).
	Workers int
}

// Ditherer converts images to a six-color palette. It is immutable after
// New and safe for concurrent use.
type Ditherer struct {
	pal     *palette.Palette
	octa    *geom.Octahedron
	noise   noise.Source
	workers int
}

// New validates the palette geometry and prepares a Ditherer. All
// configuration errors surface here, before any pixel work; the per-pixel
// phase cannot fail.
func New(config *Config) (*Ditherer, error) {
	if config == nil {
		config = new(Config)
	}

	pal := config.Palette
	if pal == nil {
		pal = palette.Spectra6()
	}
	octa, err := pal.Octahedron()
	if err != nil {
		return nil, err
	}

	src := config.Noise
	if src == nil {
		src = noise.IGN{}
	}
	workers := config.Workers
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}

	return &Ditherer{
		pal:     pal,
		octa:    octa,
		noise:   src,
		workers: workers,
	}, nil
}

// Octahedron returns the validated palette geometry.
func (d *Ditherer) Octahedron() *geom.Octahedron {
	return d.octa
}

// Dither renders src into a new six-color image of the same dimensions.
// Source colors are linearized with palette.Linearize before decomposition.
// Noise is sampled at destination coordinates, so the same Ditherer, image
// and noise source always produce identical output regardless of the
// worker count.
func (d *Ditherer) Dither(src image.Image) *pixel.Image {
	var (
		bounds = src.Bounds()
		out    = pixel.NewImage(bounds.Dx(), bounds.Dy(), d.pal.ColorPalette())
	)
	d.run(bounds.Dy(), func(y int) {
		d.ditherRow(src, out, bounds, y)
	})
	return out
}

// run maps fn over rows 0..rows-1 using the configured worker count. Rows
// are independent and each row writes only its own slice of the output, so
// no synchronization beyond the final wait is needed.
func (d *Ditherer) run(rows int, fn func(y int)) {
	workers := d.workers
	if workers > rows {
		workers = rows
	}
	if workers <= 1 {
		for y := 0; y < rows; y++ {
			fn(y)
		}
		return
	}

	var (
		wg   sync.WaitGroup
		rowc = make(chan int)
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for y := range rowc {
				fn(y)
			}
		}()
	}
	for y := 0; y < rows; y++ {
		rowc <- y
	}
	close(rowc)
	wg.Wait()
}

// ditherRow handles one output row. Horizontally adjacent pixels share a
// packed byte in the output, but a whole row is always written by a single
// worker.
func (d *Ditherer) ditherRow(src image.Image, out *pixel.Image, bounds image.Rectangle, y int) {
	for x := 0; x < bounds.Dx(); x++ {
		p := palette.Linearize(src.At(bounds.Min.X+x, bounds.Min.Y+y))
		w := d.octa.Decompose(p)
		out.SetIndex(x, y, uint8(Pick(w, d.noise.At(x, y))))
	}
}
