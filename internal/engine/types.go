package engine

import (
	"math"

	"github.com/KirkDiggler/rpg-perception/internal/errors"
	"github.com/KirkDiggler/rpg-perception/internal/geometry"
	"github.com/KirkDiggler/rpg-perception/internal/walls"
)

// Unbounded is the radius of a polygon limited only by walls and scene bounds
var Unbounded = math.Inf(1)

// DefaultDensity is the number of padding rays per π radians
const DefaultDensity = 12

// PolygonType selects the wall channel a polygon is computed against
type PolygonType string

const (
	TypeSight     PolygonType = "sight"
	TypeLight     PolygonType = "light"
	TypeSound     PolygonType = "sound"
	TypeMove      PolygonType = "move"
	TypeUniversal PolygonType = "universal"
)

// Channel returns the wall channel for the type. Universal has none.
func (t PolygonType) Channel() (walls.Channel, bool) {
	switch t {
	case TypeSight:
		return walls.ChannelSight, true
	case TypeLight:
		return walls.ChannelLight, true
	case TypeSound:
		return walls.ChannelSound, true
	case TypeMove:
		return walls.ChannelMove, true
	}
	return "", false
}

// Valid reports a known polygon type
func (t PolygonType) Valid() bool {
	if t == TypeUniversal {
		return true
	}
	_, ok := t.Channel()
	return ok
}

// PolygonConfig configures a single polygon computation
type PolygonConfig struct {
	Type PolygonType
	// Angle is the emission arc in degrees, (0, 360]. Zero yields an empty polygon.
	Angle float64
	// Rotation in degrees; 0 faces +y
	Rotation float64
	// Radius in scene pixels. Use Unbounded for no limit; zero yields an empty polygon.
	Radius float64
	// Density is the number of padding rays per π radians
	Density int
	// IgnoreWalls computes the polygon against boundaries only
	IgnoreWalls bool
	// BoundaryShapes further bound the sweep
	BoundaryShapes []geometry.Shape
	// Source identifies the requester for logging
	Source string
}

// Validate checks the config and fills defaults
func (c *PolygonConfig) Validate() error {
	if c == nil {
		return errors.InvalidArgument("polygon config is required")
	}

	vb := errors.NewValidationBuilder()
	if c.Type == "" {
		vb.RequiredField("type")
	} else if !c.Type.Valid() {
		vb.InvalidField("type", "unknown polygon type")
	}
	errors.ValidateRange("angle", c.Angle, 0, 360, vb)
	if c.Radius < 0 || math.IsNaN(c.Radius) {
		vb.InvalidField("radius", "must be non-negative")
	}
	if c.Density < 0 {
		vb.InvalidField("density", "must be non-negative")
	}
	if err := vb.Build(); err != nil {
		return err
	}

	if c.Density == 0 {
		c.Density = DefaultDensity
	}
	return nil
}

// HasLimitedRadius reports a finite radius
func (c *PolygonConfig) HasLimitedRadius() bool {
	return !math.IsInf(c.Radius, 1)
}

// HasLimitedAngle reports an arc narrower than a full turn
func (c *PolygonConfig) HasLimitedAngle() bool {
	return c.Angle < 360
}

// CollisionMode selects how many collisions a test reports
type CollisionMode string

const (
	CollisionAny     CollisionMode = "any"
	CollisionClosest CollisionMode = "closest"
	CollisionAll     CollisionMode = "all"
)

// CollisionConfig configures a collision test
type CollisionConfig struct {
	Type PolygonType
	Mode CollisionMode
}

// Validate checks that a restriction type and mode are present
func (c *CollisionConfig) Validate() error {
	if c == nil {
		return errors.InvalidArgument("collision config is required")
	}
	vb := errors.NewValidationBuilder()
	if c.Type == "" {
		vb.RequiredField("type")
	} else if _, ok := c.Type.Channel(); !ok {
		vb.InvalidField("type", "collision tests require a wall restriction type")
	}
	if c.Mode == "" {
		vb.RequiredField("mode")
	} else {
		errors.ValidateEnum("mode", c.Mode, []CollisionMode{CollisionAny, CollisionClosest, CollisionAll}, vb)
	}
	return vb.Build()
}

// Collision is a single blocking intersection along a ray
type Collision struct {
	X, Y        float64
	T           float64
	Distance    float64
	WallID      string
	Restriction walls.Restriction
}

// Point returns the collision location
func (c Collision) Point() geometry.Point {
	return geometry.Point{X: c.X, Y: c.Y}
}

// CollisionResult holds the answer for the requested mode. Hit is always set;
// Closest is set for closest and all; All only for all.
type CollisionResult struct {
	Hit     bool
	Closest *Collision
	All     []Collision
}

// Edge is a segment that took part in a sweep
type Edge struct {
	A, B        geometry.Point
	Restriction walls.Restriction
	WallID      string
}

// Polygon is the output of a sweep
type Polygon struct {
	*geometry.Polygon

	Origin geometry.Point
	Config PolygonConfig
	// Constrained is true when a wall limited the polygon inside its radius
	Constrained bool
	// Rays and Edges are kept for debugging
	Rays  []geometry.Ray
	Edges []Edge

	bounds geometry.Rect
}

// Bounds returns the cached bounding rectangle
func (p *Polygon) Bounds() geometry.Rect {
	return p.bounds
}

// IsEmpty reports a polygon with no area
func (p *Polygon) IsEmpty() bool {
	return p == nil || p.Polygon.IsEmpty()
}

// Contains tests a point against the polygon
func (p *Polygon) Contains(pt geometry.Point) bool {
	if p.IsEmpty() {
		return false
	}
	if !p.bounds.Contains(pt) {
		return false
	}
	return p.Polygon.Contains(pt)
}

func emptyPolygon(origin geometry.Point, cfg PolygonConfig) *Polygon {
	return &Polygon{
		Polygon: &geometry.Polygon{},
		Origin:  origin,
		Config:  cfg,
	}
}

// ApplyConstraint returns the intersection of the polygon with a convex shape. The
// density of the original config is used to approximate circles.
func (p *Polygon) ApplyConstraint(shape geometry.Shape) (*Polygon, error) {
	var clip *geometry.Polygon
	switch sh := shape.(type) {
	case geometry.Rect:
		clip = sh.ToPolygon()
	case geometry.Circle:
		clip = sh.ToPolygon(p.Config.Density)
	case *geometry.Polygon:
		if !sh.IsConvex() {
			return nil, errors.InvalidArgument("constraint polygon must be convex")
		}
		clip = sh
	case *Polygon:
		if !sh.Polygon.IsConvex() {
			return nil, errors.InvalidArgument("constraint polygon must be convex")
		}
		clip = sh.Polygon
	default:
		return nil, errors.InvalidArgumentf("unsupported constraint shape %T", shape)
	}

	if p.IsEmpty() {
		return emptyPolygon(p.Origin, p.Config), nil
	}

	out := p.Polygon.ClipConvex(clip)
	result := &Polygon{
		Polygon:     out,
		Origin:      p.Origin,
		Config:      p.Config,
		Constrained: p.Constrained || math.Abs(math.Abs(out.Area())-math.Abs(p.Polygon.Area())) > geometry.Epsilon,
		Rays:        p.Rays,
		Edges:       p.Edges,
		bounds:      out.Bounds(),
	}
	return result, nil
}
