package geometry

// Shape is anything that can answer point containment and report its bounds
type Shape interface {
	Contains(p Point) bool
	Bounds() Rect
}

// Compile-time interface checks
var (
	_ Shape = Rect{}
	_ Shape = Circle{}
	_ Shape = (*Polygon)(nil)
)
