// Package palette binds the six display colors of an e-paper panel to their
// coordinates in the working color space and builds the octahedral geometry
// used for decomposition.
package palette

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/BeatGlow/dither/geom"
)

// Palette is a six-color palette in fixed vertex order (White, Black, Red,
// Yellow, Green, Blue). Colors are what the panel displays; Points are
// where those colors live in the working space and define the octahedron.
type Palette struct {
	Colors [geom.NumVertices]color.Color
	Points [geom.NumVertices]geom.Point

	// Tolerance for geometric validation and per-pixel classification.
	// Zero selects geom.DefaultTolerance.
	Tolerance float64
}

// Octahedron validates the palette geometry. It fails with a configuration
// error for palettes that do not form a convex octahedron; no dithering can
// proceed in that case.
func (p *Palette) Octahedron() (*geom.Octahedron, error) {
	return geom.New(p.Points, p.Tolerance)
}

// ColorPalette returns the display colors as a standard color.Palette, in
// vertex order.
func (p *Palette) ColorPalette() color.Palette {
	pal := make(color.Palette, geom.NumVertices)
	for i, c := range p.Colors {
		pal[i] = c
	}
	return pal
}

// Linearize converts any color to a point in linear RGB, the default
// working space. Alpha is ignored; a fully transparent color maps to the
// origin.
func Linearize(c color.Color) geom.Point {
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return geom.Point{}
	}
	r, g, b := cf.LinearRgb()
	return geom.Pt(r, g, b)
}

// Spectra6 is the default palette for six-color Spectra e-paper panels.
//
// The points are an ideal octahedron in linear RGB: poles at black and
// white, and an equator of radius ½ in the plane through mid-gray
// orthogonal to the gray axis, with each equatorial vertex on its hue's
// projection. The display colors are measured panel colors, which are what
// the eye sees when the panel is told to show each ink.
func Spectra6() *Palette {
	const (
		lo = 0.5 - 0.40824829046386302 // equator offset, minor component
		hi = 0.5 + 0.40824829046386302 // equator offset, major component
		md = 0.5 - 0.20412414523193151
		mu = 0.5 + 0.20412414523193151
	)
	return &Palette{
		Colors: [geom.NumVertices]color.Color{
			geom.White:  color.RGBA{R: 0xe8, G: 0xe8, B: 0xe8, A: 0xff},
			geom.Black:  color.RGBA{R: 0x19, G: 0x1e, B: 0x21, A: 0xff},
			geom.Red:    color.RGBA{R: 0xb2, G: 0x13, B: 0x18, A: 0xff},
			geom.Yellow: color.RGBA{R: 0xef, G: 0xde, B: 0x44, A: 0xff},
			geom.Green:  color.RGBA{R: 0x12, G: 0x5f, B: 0x20, A: 0xff},
			geom.Blue:   color.RGBA{R: 0x21, G: 0x57, B: 0xba, A: 0xff},
		},
		Points: [geom.NumVertices]geom.Point{
			geom.White:  geom.Pt(1, 1, 1),
			geom.Black:  geom.Pt(0, 0, 0),
			geom.Red:    geom.Pt(hi, md, md),
			geom.Yellow: geom.Pt(mu, mu, lo),
			geom.Green:  geom.Pt(md, hi, md),
			geom.Blue:   geom.Pt(md, md, hi),
		},
	}
}
