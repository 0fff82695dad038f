package geom

import "math"

// Point is a location in the 3-dimensional working color space. It doubles
// as a displacement vector between two locations.
type Point struct {
	X, Y, Z float64
}

// Pt is shorthand for Point{x, y, z}.
func Pt(x, y, z float64) Point {
	return Point{X: x, Y: y, Z: z}
}

func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y, Z: p.Z + q.Z}
}

func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y, Z: p.Z - q.Z}
}

func (p Point) Scale(f float64) Point {
	return Point{X: p.X * f, Y: p.Y * f, Z: p.Z * f}
}

func (p Point) Dot(q Point) float64 {
	return p.X*q.X + p.Y*q.Y + p.Z*q.Z
}

func (p Point) Cross(q Point) Point {
	return Point{
		X: p.Y*q.Z - p.Z*q.Y,
		Y: p.Z*q.X - p.X*q.Z,
		Z: p.X*q.Y - p.Y*q.X,
	}
}

func (p Point) Norm() float64 {
	return math.Sqrt(p.Dot(p))
}

func (p Point) NormSquared() float64 {
	return p.Dot(p)
}

// DistanceSquared is the squared Euclidean distance between p and q.
func (p Point) DistanceSquared(q Point) float64 {
	return p.Sub(q).NormSquared()
}
