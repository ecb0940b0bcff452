package geometry

import "math"

// Polygon is a closed polygon stored as a flat list of x,y pairs. The closing edge
// from the last point back to the first is implicit.
type Polygon struct {
	Points []float64
}

// NewPolygon builds a polygon from points
func NewPolygon(points ...Point) *Polygon {
	flat := make([]float64, 0, len(points)*2)
	for _, p := range points {
		flat = append(flat, p.X, p.Y)
	}
	return &Polygon{Points: flat}
}

// Len returns the number of vertices
func (p *Polygon) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Points) / 2
}

// IsEmpty reports a polygon that cannot enclose area
func (p *Polygon) IsEmpty() bool {
	return p.Len() < 3
}

// At returns the i-th vertex
func (p *Polygon) At(i int) Point {
	return Point{X: p.Points[2*i], Y: p.Points[2*i+1]}
}

// Vertices returns the vertices as points
func (p *Polygon) Vertices() []Point {
	out := make([]Point, p.Len())
	for i := range out {
		out[i] = p.At(i)
	}
	return out
}

// AddPoint appends a vertex, dropping it if it duplicates the previous one
func (p *Polygon) AddPoint(pt Point) {
	if n := p.Len(); n > 0 && p.At(n-1).Equals(pt) {
		return
	}
	p.Points = append(p.Points, pt.X, pt.Y)
}

// Contains tests the point with ray casting
func (p *Polygon) Contains(pt Point) bool {
	n := p.Len()
	if n < 3 {
		return false
	}
	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		xi, yi := p.Points[2*i], p.Points[2*i+1]
		xj, yj := p.Points[2*j], p.Points[2*j+1]
		if (yi > pt.Y) != (yj > pt.Y) &&
			pt.X < (xj-xi)*(pt.Y-yi)/(yj-yi)+xi {
			inside = !inside
		}
		j = i
	}
	return inside
}

// Bounds returns the bounding rectangle of all vertices
func (p *Polygon) Bounds() Rect {
	if p.Len() == 0 {
		return Rect{}
	}
	return RectFromPoints(p.Vertices()...)
}

// Area returns the signed shoelace area. Positive means clockwise on screen.
func (p *Polygon) Area() float64 {
	n := p.Len()
	if n < 3 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		a := p.At(i)
		b := p.At((i + 1) % n)
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum / 2
}

// Translate returns a copy of the polygon shifted by d
func (p *Polygon) Translate(d Point) *Polygon {
	out := &Polygon{Points: make([]float64, len(p.Points))}
	for i := 0; i < len(p.Points); i += 2 {
		out.Points[i] = p.Points[i] + d.X
		out.Points[i+1] = p.Points[i+1] + d.Y
	}
	return out
}

// Clone returns a deep copy
func (p *Polygon) Clone() *Polygon {
	if p == nil {
		return nil
	}
	return &Polygon{Points: append([]float64(nil), p.Points...)}
}

// IsConvex reports whether every turn has the same orientation
func (p *Polygon) IsConvex() bool {
	n := p.Len()
	if n < 3 {
		return false
	}
	sign := 0.0
	for i := 0; i < n; i++ {
		o := Orient2dFast(p.At(i), p.At((i+1)%n), p.At((i+2)%n))
		if math.Abs(o) < Epsilon {
			continue
		}
		if sign == 0 {
			sign = o
			continue
		}
		if (o > 0) != (sign > 0) {
			return false
		}
	}
	return true
}

// ClipConvex clips the polygon against a convex clip polygon using Sutherland-Hodgman.
// The subject may be concave; the result is the part of the subject inside clip.
func (p *Polygon) ClipConvex(clip *Polygon) *Polygon {
	if p.IsEmpty() || clip.IsEmpty() {
		return &Polygon{}
	}

	// Orient the clip polygon so that "inside" is a consistent side of each edge
	cv := clip.Vertices()
	if clip.Area() < 0 {
		for i, j := 0, len(cv)-1; i < j; i, j = i+1, j-1 {
			cv[i], cv[j] = cv[j], cv[i]
		}
	}

	output := p.Vertices()
	for i := range cv {
		if len(output) == 0 {
			break
		}
		e0 := cv[i]
		e1 := cv[(i+1)%len(cv)]
		input := output
		output = make([]Point, 0, len(input)+2)

		inside := func(q Point) bool {
			return Orient2dFast(e0, e1, q) <= Epsilon
		}

		prev := input[len(input)-1]
		for _, cur := range input {
			curIn := inside(cur)
			prevIn := inside(prev)
			switch {
			case curIn && prevIn:
				output = append(output, cur)
			case curIn && !prevIn:
				if x, ok := LineLineIntersection(prev, cur, e0, e1); ok {
					output = append(output, x.Point())
				}
				output = append(output, cur)
			case !curIn && prevIn:
				if x, ok := LineLineIntersection(prev, cur, e0, e1); ok {
					output = append(output, x.Point())
				}
			}
			prev = cur
		}
	}

	out := &Polygon{}
	for _, v := range output {
		out.AddPoint(v)
	}
	if n := out.Len(); n > 1 && out.At(0).Equals(out.At(n-1)) {
		out.Points = out.Points[:len(out.Points)-2]
	}
	return out
}
