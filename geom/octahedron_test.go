package geom

import (
	"errors"
	"testing"
)

// testVertices is a unit octahedron on the coordinate axes: poles on ±Z and
// the equator on the XY plane in cyclic order.
func testVertices() [NumVertices]Point {
	return [NumVertices]Point{
		White:  Pt(0, 0, 1),
		Black:  Pt(0, 0, -1),
		Red:    Pt(1, 0, 0),
		Yellow: Pt(0, 1, 0),
		Green:  Pt(-1, 0, 0),
		Blue:   Pt(0, -1, 0),
	}
}

func testOctahedron(t *testing.T) *Octahedron {
	t.Helper()
	o, err := New(testVertices(), 0)
	if err != nil {
		t.Fatalf("expected valid octahedron, got %v", err)
	}
	return o
}

func TestNew(t *testing.T) {
	o := testOctahedron(t)

	if v := o.Center(); v != Pt(0, 0, 0) {
		t.Errorf("expected center at origin, got %v", v)
	}
	if v := o.Tolerance(); v != DefaultTolerance {
		t.Errorf("expected default tolerance %g, got %g", DefaultTolerance, v)
	}
	if v := o.Vertex(Red); v != Pt(1, 0, 0) {
		t.Errorf("expected red vertex at (1,0,0), got %v", v)
	}
}

func TestNewRejects(t *testing.T) {
	testCases := []struct {
		name   string
		modify func(*[NumVertices]Point)
		want   error
	}{
		{
			name: "coinciding poles",
			modify: func(v *[NumVertices]Point) {
				v[Black] = v[White]
			},
			want: ErrPolesCoincide,
		},
		{
			name: "equator off plane",
			modify: func(v *[NumVertices]Point) {
				v[Yellow] = Pt(0, 1, 0.25)
			},
			want: ErrEquatorPlane,
		},
		{
			name: "equator out of cyclic order",
			modify: func(v *[NumVertices]Point) {
				v[Yellow], v[Green] = v[Green], v[Yellow]
			},
			want: ErrEquatorOrder,
		},
		{
			name: "center outside equator quadrilateral",
			modify: func(v *[NumVertices]Point) {
				v[Green] = Pt(5, 0.5, 0)
				v[Blue] = Pt(5, -0.5, 0)
			},
			want: ErrEquatorOrder,
		},
		{
			name: "coinciding equator colors",
			modify: func(v *[NumVertices]Point) {
				v[Yellow] = v[Red]
			},
			want: ErrEquatorOrder,
		},
	}
	for _, test := range testCases {
		t.Run(test.name, func(it *testing.T) {
			verts := testVertices()
			test.modify(&verts)

			o, err := New(verts, 0)
			if !errors.Is(err, test.want) {
				it.Errorf("expected %v, got %v", test.want, err)
			}
			if o != nil {
				it.Error("expected no octahedron to be constructed")
			}
		})
	}
}

func TestNewDegenerateCells(t *testing.T) {
	// Scaled down until the cell volumes sink below tolerance while the
	// pole separation and equator winding still pass on their own.
	verts := testVertices()
	for i := range verts {
		verts[i] = verts[i].Scale(5e-3)
	}

	o, err := New(verts, 0)
	if !errors.Is(err, ErrDegenerateCell) {
		t.Errorf("expected %v, got %v", ErrDegenerateCell, err)
	}
	if o != nil {
		t.Error("expected no octahedron to be constructed")
	}
}

func TestVertexName(t *testing.T) {
	if v := VertexName(Yellow); v != "yellow" {
		t.Errorf("expected yellow, got %q", v)
	}
	if v := VertexName(-1); v != "vertex(-1)" {
		t.Errorf("expected vertex(-1), got %q", v)
	}
}
