package engine

import (
	"github.com/KirkDiggler/rpg-perception/internal/errors"
	"github.com/KirkDiggler/rpg-perception/internal/geometry"
	"github.com/KirkDiggler/rpg-perception/internal/walls"
)

// defaultExtent bounds unbounded sweeps when the store has no scene boundary
const defaultExtent = 100000

type engine struct {
	walls   *walls.Store
	bounds  geometry.Rect
	density int
}

// Config configures the polygon engine
type Config struct {
	Walls *walls.Store
	// Bounds is used to enclose unbounded sweeps when the store has no outer boundary
	Bounds geometry.Rect
	// Density replaces DefaultDensity for configs that leave it unset
	Density int
}

// Validate validates the config
func (cfg *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if cfg.Walls == nil {
		vb.RequiredField("Walls")
	}
	if cfg.Density < 0 {
		vb.InvalidField("Density", "must be non-negative")
	}
	return vb.Build()
}

// New creates an engine reading from a wall store
func New(cfg *Config) (Engine, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &engine{walls: cfg.Walls, bounds: cfg.Bounds, density: cfg.Density}, nil
}

// Compute runs an angular sweep from origin
func (e *engine) Compute(origin geometry.Point, cfg *PolygonConfig) (*Polygon, error) {
	if cfg != nil && cfg.Density == 0 && e.density > 0 {
		cfg.Density = e.density
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Radius == 0 || cfg.Angle == 0 {
		return emptyPolygon(origin, *cfg), nil
	}

	s := newSweep(origin, *cfg)
	e.collectEdges(s)
	return s.run(), nil
}

// innerRect returns the rectangle enclosed by the inner boundary walls
func boundaryRect(recs []*walls.Record) (geometry.Rect, bool) {
	if len(recs) == 0 {
		return geometry.Rect{}, false
	}
	pts := make([]geometry.Point, 0, len(recs)*2)
	for _, r := range recs {
		pts = append(pts, r.A, r.B)
	}
	return geometry.RectFromPoints(pts...), true
}

// useInnerBounds reports whether inner boundary walls apply to an origin. Observers
// in the padding buffer are not enclosed by the scene rectangle.
func (e *engine) useInnerBounds(origin geometry.Point) bool {
	r, ok := boundaryRect(e.walls.InnerBounds())
	return ok && r.Contains(origin)
}

// sweepBounds returns the rectangle that encloses every sweep from origin
func (e *engine) sweepBounds(origin geometry.Point, cfg *PolygonConfig) geometry.Rect {
	if cfg.HasLimitedRadius() {
		return geometry.Circle{X: origin.X, Y: origin.Y, Radius: cfg.Radius}.Bounds().Pad(1)
	}
	if r, ok := boundaryRect(e.walls.OuterBounds()); ok {
		return r.Include(origin).Pad(1)
	}
	if !e.bounds.IsEmpty() {
		return e.bounds.Include(origin).Pad(1)
	}
	return geometry.Rect{X: origin.X, Y: origin.Y}.Pad(defaultExtent)
}

// includeWall applies the channel, door and facing filters to a wall
func includeWall(rec *walls.Record, ch walls.Channel, origin geometry.Point, useInner bool) (walls.Restriction, bool) {
	if rec.Boundary && rec.Inner && !useInner {
		return walls.RestrictionNone, false
	}
	if !rec.Blocks(ch, origin) {
		return walls.RestrictionNone, false
	}
	return rec.Effective(ch), true
}

func (e *engine) collectEdges(s *sweep) {
	cfg := &s.cfg
	bounds := e.sweepBounds(s.origin, cfg)

	ch, hasChannel := cfg.Type.Channel()
	if hasChannel && !cfg.IgnoreWalls {
		useInner := e.useInnerBounds(s.origin)
		for _, rec := range e.walls.QueryRect(bounds) {
			restriction, ok := includeWall(rec, ch, s.origin, useInner)
			if !ok {
				continue
			}
			if cfg.HasLimitedRadius() && segmentDistance(s.origin, rec.A, rec.B) > cfg.Radius {
				continue
			}
			s.addWall(rec, restriction)
		}
	}

	for _, edge := range bounds.Edges() {
		s.addSynthetic(edge[0], edge[1])
	}
	for _, shape := range cfg.BoundaryShapes {
		for _, edge := range shapeEdges(shape, cfg.Density) {
			s.addSynthetic(edge[0], edge[1])
		}
	}
}

// shapeEdges converts a boundary shape into closed polygon edges
func shapeEdges(shape geometry.Shape, density int) [][2]geometry.Point {
	var poly *geometry.Polygon
	switch sh := shape.(type) {
	case geometry.Rect:
		poly = sh.ToPolygon()
	case geometry.Circle:
		poly = sh.ToPolygon(density)
	case *geometry.Polygon:
		poly = sh
	case *Polygon:
		poly = sh.Polygon
	default:
		return nil
	}
	n := poly.Len()
	if n < 2 {
		return nil
	}
	out := make([][2]geometry.Point, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, [2]geometry.Point{poly.At(i), poly.At((i + 1) % n)})
	}
	return out
}

// segmentDistance returns the shortest distance from p to segment ab
func segmentDistance(p, a, b geometry.Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return geometry.Distance(p, a)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / l2
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return geometry.Distance(p, geometry.Point{X: a.X + t*dx, Y: a.Y + t*dy})
}
