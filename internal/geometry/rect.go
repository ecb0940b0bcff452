package geometry

import "math"

// Rect is an axis-aligned rectangle anchored at its top-left corner
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// RectFromPoints returns the smallest rectangle containing every point
func RectFromPoints(points ...Point) Rect {
	if len(points) == 0 {
		return Rect{}
	}
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Left edge
func (r Rect) Left() float64 { return r.X }

// Right edge
func (r Rect) Right() float64 { return r.X + r.Width }

// Top edge
func (r Rect) Top() float64 { return r.Y }

// Bottom edge
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Center returns the midpoint of the rectangle
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// IsEmpty reports a rectangle with no area
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains reports whether the point lies inside the rectangle, edges included
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left() && p.X <= r.Right() && p.Y >= r.Top() && p.Y <= r.Bottom()
}

// Overlaps reports whether two rectangles share any point
func (r Rect) Overlaps(o Rect) bool {
	return r.Left() <= o.Right() && o.Left() <= r.Right() &&
		r.Top() <= o.Bottom() && o.Top() <= r.Bottom()
}

// Intersect returns the overlap of two rectangles, empty if they do not overlap
func (r Rect) Intersect(o Rect) Rect {
	x0 := math.Max(r.Left(), o.Left())
	y0 := math.Max(r.Top(), o.Top())
	x1 := math.Min(r.Right(), o.Right())
	y1 := math.Min(r.Bottom(), o.Bottom())
	if x1 < x0 || y1 < y0 {
		return Rect{X: x0, Y: y0}
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Union returns the smallest rectangle containing both
func (r Rect) Union(o Rect) Rect {
	x0 := math.Min(r.Left(), o.Left())
	y0 := math.Min(r.Top(), o.Top())
	x1 := math.Max(r.Right(), o.Right())
	y1 := math.Max(r.Bottom(), o.Bottom())
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Pad grows the rectangle by d on every side
func (r Rect) Pad(d float64) Rect {
	return Rect{X: r.X - d, Y: r.Y - d, Width: r.Width + 2*d, Height: r.Height + 2*d}
}

// Include grows the rectangle just enough to contain p
func (r Rect) Include(p Point) Rect {
	return r.Union(Rect{X: p.X, Y: p.Y})
}

// Corners returns the four corners in clockwise screen order starting top-left
func (r Rect) Corners() [4]Point {
	return [4]Point{
		{X: r.Left(), Y: r.Top()},
		{X: r.Right(), Y: r.Top()},
		{X: r.Right(), Y: r.Bottom()},
		{X: r.Left(), Y: r.Bottom()},
	}
}

// Edges returns the four boundary segments of the rectangle
func (r Rect) Edges() [4][2]Point {
	c := r.Corners()
	return [4][2]Point{{c[0], c[1]}, {c[1], c[2]}, {c[2], c[3]}, {c[3], c[0]}}
}

// Bounds returns the rectangle itself
func (r Rect) Bounds() Rect { return r }

// ToPolygon converts the rectangle into a closed polygon
func (r Rect) ToPolygon() *Polygon {
	c := r.Corners()
	return NewPolygon(c[:]...)
}

// LineSegmentIntersects reports whether the segment ab touches the rectangle
func (r Rect) LineSegmentIntersects(a, b Point) bool {
	if r.Contains(a) || r.Contains(b) {
		return true
	}
	for _, e := range r.Edges() {
		if LineSegmentIntersects(a, b, e[0], e[1]) {
			return true
		}
	}
	return false
}
