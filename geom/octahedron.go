// Package geom models a six-color palette as a regular convex octahedron in
// a 3-dimensional color space and decomposes arbitrary colors into
// barycentric weights over its vertices.
package geom

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Vertex indices, in declaration order. White and Black are the poles, the
// other four form the equator in cyclic order.
const (
	White = iota
	Black
	Red
	Yellow
	Green
	Blue
	NumVertices
)

var vertexNames = [NumVertices]string{"white", "black", "red", "yellow", "green", "blue"}

// VertexName returns the lower-case name of a vertex index.
func VertexName(i int) string {
	if i < 0 || i >= NumVertices {
		return fmt.Sprintf("vertex(%d)", i)
	}
	return vertexNames[i]
}

// DefaultTolerance is the numeric tolerance used for geometric validation
// and per-pixel classification when the caller does not supply one. The
// working space is assumed to have coordinates of order 1.
const DefaultTolerance = 1e-6

// Geometry validation errors.
var (
	ErrPolesCoincide  = errors.New("geom: pole colors coincide")
	ErrEquatorPlane   = errors.New("geom: equator color is not in the plane orthogonal to the pole axis")
	ErrEquatorOrder   = errors.New("geom: equator colors are not in convex cyclic order around the center")
	ErrDegenerateCell = errors.New("geom: near-zero volume tetrahedral cell")
)

// Weights is a barycentric weight vector over the six palette vertices, in
// vertex declaration order. All entries are non-negative and sum to 1.
type Weights [NumVertices]float64

// cell is one of the 8 tetrahedra {center, apex, eqA, eqB}. inv is the
// inverse of the 3×3 matrix whose columns are the edge vectors from the
// center to the other three corners, so that barycentric coordinates are a
// single matrix-vector product per query.
type cell struct {
	apex, eqA, eqB int
	inv            [3][3]float64
}

// Octahedron is the immutable palette geometry: six vertices, the center,
// and the 8 precomputed tetrahedral cells. Construct it once with New and
// share it read-only between any number of goroutines.
type Octahedron struct {
	verts  [NumVertices]Point
	center Point
	axis   Point // unit vector from Black to White
	cells  [8]cell
	tol    float64
}

// New validates the six palette points as a convex octahedron and
// precomputes its tetrahedral cells. tol <= 0 selects DefaultTolerance.
//
// The checks mirror the documented incompatibility of irregular six-color
// palettes with this decomposition: the poles must be separated with the
// center at their midpoint, the equator must lie in the plane through the
// center orthogonal to the pole axis, and the four equator points must wind
// around the center as a convex quadrilateral in their declared order.
func New(verts [NumVertices]Point, tol float64) (*Octahedron, error) {
	if tol <= 0 {
		tol = DefaultTolerance
	}

	o := &Octahedron{
		verts: verts,
		tol:   tol,
	}
	o.center = verts[White].Add(verts[Black]).Scale(0.5)

	axis := verts[White].Sub(verts[Black])
	length := axis.Norm()
	if length <= tol {
		return nil, ErrPolesCoincide
	}
	o.axis = axis.Scale(1 / length)

	if err := o.checkEquator(); err != nil {
		return nil, err
	}
	if err := o.buildCells(); err != nil {
		return nil, err
	}
	return o, nil
}

// equator returns the j'th equatorial vertex index, with wraparound.
func equator(j int) int {
	return Red + j&3
}

func (o *Octahedron) checkEquator() error {
	var offsets [4]Point
	for j := range offsets {
		offsets[j] = o.verts[equator(j)].Sub(o.center)
		if d := offsets[j].Dot(o.axis); math.Abs(d) > o.tol {
			return fmt.Errorf("%w: %s is %g off-plane", ErrEquatorPlane, VertexName(equator(j)), d)
		}
	}

	// Winding: every consecutive pair must sweep the same way around the
	// center, which also places the center strictly inside the quadrilateral.
	for j := range offsets {
		s := offsets[j].Cross(offsets[(j+1)&3]).Dot(o.axis)
		if s <= o.tol {
			return fmt.Errorf("%w: %s to %s", ErrEquatorOrder, VertexName(equator(j)), VertexName(equator(j+1)))
		}
	}

	// Convexity: consecutive edges must turn in a consistent direction.
	for j := range offsets {
		var (
			e1 = offsets[(j+1)&3].Sub(offsets[j])
			e2 = offsets[(j+2)&3].Sub(offsets[(j+1)&3])
		)
		if s := e1.Cross(e2).Dot(o.axis); s <= o.tol {
			return fmt.Errorf("%w: concave at %s", ErrEquatorOrder, VertexName(equator(j+1)))
		}
	}
	return nil
}

func (o *Octahedron) buildCells() error {
	for i := range o.cells {
		c := &o.cells[i]
		if i < 4 {
			c.apex = White
		} else {
			c.apex = Black
		}
		c.eqA = equator(i)
		c.eqB = equator(i + 1)

		var (
			a = o.verts[c.apex].Sub(o.center)
			b = o.verts[c.eqA].Sub(o.center)
			d = o.verts[c.eqB].Sub(o.center)
		)
		basis := mat.NewDense(3, 3, []float64{
			a.X, b.X, d.X,
			a.Y, b.Y, d.Y,
			a.Z, b.Z, d.Z,
		})
		if det := mat.Det(basis); math.Abs(det) <= o.tol {
			return fmt.Errorf("%w: cell %s/%s/%s", ErrDegenerateCell,
				VertexName(c.apex), VertexName(c.eqA), VertexName(c.eqB))
		}

		var inv mat.Dense
		if err := inv.Inverse(basis); err != nil {
			return fmt.Errorf("%w: cell %s/%s/%s: %v", ErrDegenerateCell,
				VertexName(c.apex), VertexName(c.eqA), VertexName(c.eqB), err)
		}
		for row := 0; row < 3; row++ {
			for col := 0; col < 3; col++ {
				c.inv[row][col] = inv.At(row, col)
			}
		}
	}
	return nil
}

// Vertices returns the six palette points in vertex declaration order.
func (o *Octahedron) Vertices() [NumVertices]Point {
	return o.verts
}

// Vertex returns the point of a single vertex.
func (o *Octahedron) Vertex(i int) Point {
	return o.verts[i]
}

// Center is the octahedron center, the midpoint of White and Black.
func (o *Octahedron) Center() Point {
	return o.center
}

// Tolerance is the numeric tolerance the geometry was built with.
func (o *Octahedron) Tolerance() float64 {
	return o.tol
}
