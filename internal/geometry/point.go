// Package geometry provides the 2D primitives the perception engine is built on:
// points, rays, rectangles, circles and closed polygons, plus the orientation and
// intersection tests that walls and visibility sweeps depend on.
package geometry

import "math"

// Epsilon is the tolerance used when comparing derived floating point values
const Epsilon = 1e-8

// Point represents a 2D point in scene space
type Point struct {
	X, Y float64
}

// Add returns p + o
func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}

// Sub returns p - o
func (p Point) Sub(o Point) Point {
	return Point{X: p.X - o.X, Y: p.Y - o.Y}
}

// Equals reports whether two points coincide within Epsilon
func (p Point) Equals(o Point) bool {
	return math.Abs(p.X-o.X) < Epsilon && math.Abs(p.Y-o.Y) < Epsilon
}

// Distance calculates the Euclidean distance between two points
func Distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// DistanceSquared avoids the square root when only ordering matters
func DistanceSquared(a, b Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return dx*dx + dy*dy
}

// Key returns the sortable vertex key of the point
func (p Point) Key() int64 {
	return VertexKey(p.X, p.Y)
}

// VertexKey packs floored coordinates into a single sortable integer so that
// vertices which land in the same pixel coalesce: floor(x)*2^16 + floor(y).
func VertexKey(x, y float64) int64 {
	return int64(math.Floor(x))*0x10000 + int64(math.Floor(y))
}
