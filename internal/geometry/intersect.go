package geometry

// LineIntersection describes where two lines cross. T0 is the parametric position of
// the point along the first line, T1 along the second.
type LineIntersection struct {
	X, Y   float64
	T0, T1 float64
}

// Point returns the intersection as a point
func (i LineIntersection) Point() Point {
	return Point{X: i.X, Y: i.Y}
}

// Orient2dFast returns a positive value if a, b, c are in counter-clockwise order on
// screen (y pointing down), a negative value if clockwise and zero if collinear.
func Orient2dFast(a, b, c Point) float64 {
	return (a.Y-c.Y)*(b.X-c.X) - (a.X-c.X)*(b.Y-c.Y)
}

// LineSegmentIntersects tests whether segment ab and segment cd share at least one
// point. Fully collinear segments are reported as not intersecting.
func LineSegmentIntersects(a, b, c, d Point) bool {
	xa := Orient2dFast(a, b, c)
	xb := Orient2dFast(a, b, d)
	if xa == 0 && xb == 0 {
		return false
	}
	xab := xa*xb <= 0
	xcd := Orient2dFast(c, d, a)*Orient2dFast(c, d, b) <= 0
	return xab && xcd
}

// LineLineIntersection finds where the infinite line through a,b meets the infinite
// line through c,d. The second return value is false for parallel lines.
func LineLineIntersection(a, b, c, d Point) (LineIntersection, bool) {
	// Shared endpoints are exact and need no arithmetic
	if a.Equals(c) {
		return LineIntersection{X: a.X, Y: a.Y, T0: 0, T1: 0}, true
	}
	if a.Equals(d) {
		return LineIntersection{X: a.X, Y: a.Y, T0: 0, T1: 1}, true
	}
	if b.Equals(c) {
		return LineIntersection{X: b.X, Y: b.Y, T0: 1, T1: 0}, true
	}
	if b.Equals(d) {
		return LineIntersection{X: b.X, Y: b.Y, T0: 1, T1: 1}, true
	}

	denom := (d.Y-c.Y)*(b.X-a.X) - (d.X-c.X)*(b.Y-a.Y)
	if denom == 0 {
		return LineIntersection{}, false
	}

	t0 := ((d.X-c.X)*(a.Y-c.Y) - (d.Y-c.Y)*(a.X-c.X)) / denom
	t1 := ((b.X-a.X)*(a.Y-c.Y) - (b.Y-a.Y)*(a.X-c.X)) / denom

	return LineIntersection{
		X:  a.X + t0*(b.X-a.X),
		Y:  a.Y + t0*(b.Y-a.Y),
		T0: t0,
		T1: t1,
	}, true
}

// LineSegmentIntersection is LineLineIntersection restricted to both segments
func LineSegmentIntersection(a, b, c, d Point) (LineIntersection, bool) {
	i, ok := LineLineIntersection(a, b, c, d)
	if !ok {
		return LineIntersection{}, false
	}
	if i.T0 < -Epsilon || i.T0 > 1+Epsilon || i.T1 < -Epsilon || i.T1 > 1+Epsilon {
		return LineIntersection{}, false
	}
	return i, true
}

// LineCircleIntersection returns the parametric positions t in [0,1] at which the
// segment ab crosses the circle, in ascending order.
func LineCircleIntersection(a, b Point, c Circle) []float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	fx := a.X - c.X
	fy := a.Y - c.Y

	qa := dx*dx + dy*dy
	if qa == 0 {
		return nil
	}
	qb := 2 * (fx*dx + fy*dy)
	qc := fx*fx + fy*fy - c.Radius*c.Radius

	disc := qb*qb - 4*qa*qc
	if disc < 0 {
		return nil
	}

	sq := sqrt(disc)
	t1 := (-qb - sq) / (2 * qa)
	t2 := (-qb + sq) / (2 * qa)

	var out []float64
	if t1 >= 0 && t1 <= 1 {
		out = append(out, t1)
	}
	if t2 >= 0 && t2 <= 1 && disc > 0 {
		out = append(out, t2)
	}
	return out
}
