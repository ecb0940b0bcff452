package geometry

import "math"

// Circle is defined by its center and radius
type Circle struct {
	X, Y   float64
	Radius float64
}

// Center returns the circle's center
func (c Circle) Center() Point {
	return Point{X: c.X, Y: c.Y}
}

// Contains reports whether p lies inside or on the circle
func (c Circle) Contains(p Point) bool {
	return DistanceSquared(c.Center(), p) <= c.Radius*c.Radius+Epsilon
}

// Bounds returns the bounding square of the circle
func (c Circle) Bounds() Rect {
	return Rect{X: c.X - c.Radius, Y: c.Y - c.Radius, Width: 2 * c.Radius, Height: 2 * c.Radius}
}

// PointAt returns the point on the circumference at the given angle
func (c Circle) PointAt(angle float64) Point {
	return Point{X: c.X + math.Cos(angle)*c.Radius, Y: c.Y + math.Sin(angle)*c.Radius}
}

// ToPolygon approximates the circle with density segments per half turn
func (c Circle) ToPolygon(density int) *Polygon {
	if density <= 0 {
		density = 12
	}
	n := density * 2
	step := TwoPi / float64(n)
	pts := make([]Point, 0, n)
	for i := 0; i < n; i++ {
		pts = append(pts, c.PointAt(float64(i)*step))
	}
	return NewPolygon(pts...)
}
