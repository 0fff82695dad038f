package palette

import (
	"errors"
	"fmt"
	"image/color"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/BeatGlow/dither/geom"
)

// Config errors.
var (
	ErrMissingRole = errors.New("palette: missing role")
	ErrUnknownRole = errors.New("palette: unknown role")
)

// Entry describes one palette color in a configuration file.
type Entry struct {
	// Color is the sRGB display color as a hex string, e.g. "#b21318".
	Color string `yaml:"color"`

	// Point optionally pins the color to explicit working-space
	// coordinates. When omitted the point is the linear RGB of Color.
	Point *[3]float64 `yaml:"point,omitempty"`
}

// Config is the on-disk palette description. The six colors are keyed by
// role name: white and black are the poles, red, yellow, green and blue the
// equator in cyclic order.
type Config struct {
	Tolerance float64          `yaml:"tolerance,omitempty"`
	Colors    map[string]Entry `yaml:"colors"`
}

// Load reads and parses a palette configuration file.
func Load(path string) (*Palette, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse builds a Palette from YAML configuration data. The geometry itself
// is not validated here; that happens in Palette.Octahedron.
func Parse(data []byte) (*Palette, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("palette: %w", err)
	}

	known := make(map[string]bool, geom.NumVertices)
	for i := 0; i < geom.NumVertices; i++ {
		known[geom.VertexName(i)] = true
	}
	for role := range config.Colors {
		if !known[role] {
			return nil, fmt.Errorf("%w %q", ErrUnknownRole, role)
		}
	}

	p := &Palette{
		Tolerance: config.Tolerance,
	}
	for i := 0; i < geom.NumVertices; i++ {
		role := geom.VertexName(i)
		entry, ok := config.Colors[role]
		if !ok {
			return nil, fmt.Errorf("%w %q", ErrMissingRole, role)
		}

		cf, err := colorful.Hex(entry.Color)
		if err != nil {
			return nil, fmt.Errorf("palette: role %q: %w", role, err)
		}
		r, g, b := cf.RGB255()
		p.Colors[i] = color.RGBA{R: r, G: g, B: b, A: 0xff}

		if entry.Point != nil {
			p.Points[i] = geom.Pt(entry.Point[0], entry.Point[1], entry.Point[2])
		} else {
			lr, lg, lb := cf.LinearRgb()
			p.Points[i] = geom.Pt(lr, lg, lb)
		}
	}
	return p, nil
}
