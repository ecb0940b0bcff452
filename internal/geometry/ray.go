package geometry

import "math"

// Ray is a directed segment from A to B with cached direction, angle and length
type Ray struct {
	A, B     Point
	Dx, Dy   float64
	Angle    float64
	Distance float64
}

// NewRay creates a ray between two points
func NewRay(a, b Point) Ray {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return Ray{
		A:        a,
		B:        b,
		Dx:       dx,
		Dy:       dy,
		Angle:    math.Atan2(dy, dx),
		Distance: math.Hypot(dx, dy),
	}
}

// RayFromAngle creates a ray leaving origin at the given angle with the given length
func RayFromAngle(origin Point, angle, distance float64) Ray {
	b := Point{
		X: origin.X + math.Cos(angle)*distance,
		Y: origin.Y + math.Sin(angle)*distance,
	}
	r := NewRay(origin, b)
	r.Angle = angle
	r.Distance = distance
	return r
}

// Project returns the point at parametric position t along the ray
func (r Ray) Project(t float64) Point {
	return Point{X: r.A.X + t*r.Dx, Y: r.A.Y + t*r.Dy}
}

// Reverse returns the ray travelling from B to A
func (r Ray) Reverse() Ray {
	return NewRay(r.B, r.A)
}

// Bounds returns the axis-aligned bounding rectangle of the ray
func (r Ray) Bounds() Rect {
	return RectFromPoints(r.A, r.B)
}

// IsZero reports a degenerate ray
func (r Ray) IsZero() bool {
	return r.Distance < Epsilon
}
