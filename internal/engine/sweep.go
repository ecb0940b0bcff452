package engine

import (
	"math"
	"sort"

	"github.com/KirkDiggler/rpg-perception/internal/geometry"
	"github.com/KirkDiggler/rpg-perception/internal/walls"
)

const (
	// angles closer than this are treated as one sweep event
	angleEpsilon = 1e-9
	// relative tolerance when deciding whether the closest distance changed
	distanceEpsilon = 1e-6
)

// vertex is a sweep event: an edge endpoint or an intersection between two edges
type vertex struct {
	p      geometry.Point
	key    int64
	rel    float64
	starts []int
	ends   []int
}

// sweepEdge is an edge oriented so that the sweep meets start before end
type sweepEdge struct {
	a, b        geometry.Point
	start, end  *vertex
	restriction walls.Restriction
	rec         *walls.Record
}

type emission struct {
	angle float64
	dist  float64
	edge  int
}

type sweep struct {
	origin geometry.Point
	cfg    PolygonConfig

	// start is the absolute angle of rel 0 and arc the swept extent
	start float64
	arc   float64

	raw      []rawEdge
	vertices map[int64]*vertex
	edges    []*sweepEdge
	active   map[int]struct{}
	out      []emission
}

type rawEdge struct {
	a, b        geometry.Point
	restriction walls.Restriction
	rec         *walls.Record
}

func newSweep(origin geometry.Point, cfg PolygonConfig) *sweep {
	s := &sweep{
		origin:   origin,
		cfg:      cfg,
		arc:      geometry.TwoPi,
		vertices: make(map[int64]*vertex),
		active:   make(map[int]struct{}),
	}
	if cfg.HasLimitedAngle() {
		// rotation 0 faces +y, which is 90 degrees in the atan2 frame
		center := geometry.ToRadians(cfg.Rotation + 90)
		s.arc = geometry.ToRadians(cfg.Angle)
		s.start = geometry.NormalizeRadians(center - s.arc/2)
	}
	return s
}

func (s *sweep) addWall(rec *walls.Record, restriction walls.Restriction) {
	s.raw = append(s.raw, rawEdge{a: rec.A, b: rec.B, restriction: restriction, rec: rec})
}

func (s *sweep) addSynthetic(a, b geometry.Point) {
	if math.Abs(geometry.Orient2dFast(a, b, s.origin)) < geometry.Epsilon {
		return
	}
	s.raw = append(s.raw, rawEdge{a: a, b: b, restriction: walls.RestrictionNormal})
}

// rel maps an absolute angle onto the sweep's [0, arc] range
func (s *sweep) rel(p geometry.Point) float64 {
	r := geometry.NormalizeRadians(geometry.AngleTo(s.origin, p) - s.start)
	if geometry.TwoPi-r < angleEpsilon {
		r = 0
	}
	return r
}

func (s *sweep) vertexAt(p geometry.Point) *vertex {
	key := p.Key()
	if v, ok := s.vertices[key]; ok {
		return v
	}
	v := &vertex{p: p, key: key, rel: s.rel(p)}
	s.vertices[key] = v
	return v
}

// buildEdges snaps raw edges onto shared vertices and orients them
func (s *sweep) buildEdges() {
	for _, r := range s.raw {
		va := s.vertexAt(r.a)
		vb := s.vertexAt(r.b)
		if va == vb {
			continue
		}
		cross := (va.p.X-s.origin.X)*(vb.p.Y-s.origin.Y) - (va.p.Y-s.origin.Y)*(vb.p.X-s.origin.X)
		if math.Abs(cross) < geometry.Epsilon {
			continue
		}
		e := &sweepEdge{a: r.a, b: r.b, restriction: r.restriction, rec: r.rec}
		if cross > 0 {
			e.start, e.end = va, vb
		} else {
			e.start, e.end = vb, va
		}
		idx := len(s.edges)
		s.edges = append(s.edges, e)
		e.start.starts = append(e.start.starts, idx)
		e.end.ends = append(e.end.ends, idx)
	}
}

// addIntersections creates internal vertices where two participating edges cross
func (s *sweep) addIntersections() {
	bySlot := make(map[int]int)
	for i, e := range s.edges {
		if e.rec != nil {
			bySlot[e.rec.Slot] = i
		}
	}

	for i, e := range s.edges {
		if e.rec != nil {
			for slot, x := range e.rec.IntersectsWith {
				if _, ok := bySlot[slot]; ok && slot > e.rec.Slot {
					s.vertexAt(x.Point())
				}
			}
			continue
		}
		// synthetic edges have no bookkeeping and are tested against everything
		for j, o := range s.edges {
			if i == j || (o.rec == nil && j < i) {
				continue
			}
			if e.start == o.start || e.start == o.end || e.end == o.start || e.end == o.end {
				continue
			}
			if x, ok := geometry.LineSegmentIntersection(e.a, e.b, o.a, o.b); ok {
				s.vertexAt(x.Point())
			}
		}
	}
}

// distanceAlong returns the distance from origin to the edge's line along angle
func (s *sweep) distanceAlong(e *sweepEdge, angle float64) float64 {
	ux, uy := math.Cos(angle), math.Sin(angle)
	vx, vy := e.b.X-e.a.X, e.b.Y-e.a.Y
	denom := ux*vy - uy*vx
	if math.Abs(denom) < 1e-12 {
		return math.Inf(1)
	}
	t := ((e.a.X-s.origin.X)*vy - (e.a.Y-s.origin.Y)*vx) / denom
	if t <= 0 {
		return math.Inf(1)
	}
	return t
}

// closest applies the restriction rules to the active edges at an angle. The first
// LIMITED edge along the ray is passed through; the result is the nearer of the
// nearest NORMAL edge and the second LIMITED edge.
func (s *sweep) closest(angle float64) (float64, int) {
	normal, normalEdge := math.Inf(1), -1
	lim1, lim1Edge := math.Inf(1), -1
	lim2, lim2Edge := math.Inf(1), -1

	for idx := range s.active {
		e := s.edges[idx]
		d := s.distanceAlong(e, angle)
		if math.IsInf(d, 1) {
			continue
		}
		switch e.restriction {
		case walls.RestrictionLimited:
			switch {
			case s.nearer(angle, d, idx, lim1, lim1Edge):
				lim2, lim2Edge = lim1, lim1Edge
				lim1, lim1Edge = d, idx
			case s.nearer(angle, d, idx, lim2, lim2Edge):
				lim2, lim2Edge = d, idx
			}
		default:
			if s.nearer(angle, d, idx, normal, normalEdge) {
				normal, normalEdge = d, idx
			}
		}
	}

	if lim2 < normal {
		return lim2, lim2Edge
	}
	return normal, normalEdge
}

// nearer orders candidate edges along a ray. Equidistant edges prefer the one
// whose CCW endpoint has the smaller sweep angle, then the lower edge index.
func (s *sweep) nearer(angle, d float64, idx int, best float64, bestIdx int) bool {
	if d != best || bestIdx < 0 {
		return d < best
	}
	rel := angle - s.start
	a, b := s.ccwAngle(idx, rel), s.ccwAngle(bestIdx, rel)
	if a != b {
		return a < b
	}
	return idx < bestIdx
}

// ccwAngle is the sweep angle at which an edge active at rel ends. Edges that
// wrap past rel 0 end a full turn later once the sweep has re-entered them.
func (s *sweep) ccwAngle(idx int, rel float64) float64 {
	e := s.edges[idx]
	if e.start.rel > e.end.rel && rel >= e.start.rel {
		return e.end.rel + 2*math.Pi
	}
	return e.end.rel
}

func (s *sweep) emit(rel float64) {
	angle := s.start + rel
	d, edge := s.closest(angle)
	if math.IsInf(d, 1) {
		return
	}
	s.out = append(s.out, emission{angle: angle, dist: d, edge: edge})
}

// pad inserts evenly spaced rays between the last emission and rel so radial
// limits have enough samples to curve
func (s *sweep) pad(from, to float64) {
	if !s.cfg.HasLimitedRadius() {
		return
	}
	step := math.Pi / float64(s.cfg.Density)
	gap := to - from
	if gap <= step {
		return
	}
	n := int(math.Ceil(gap/step)) - 1
	inc := gap / float64(n+1)
	for i := 1; i <= n; i++ {
		s.emit(from + inc*float64(i))
	}
}

func differs(a, b float64) bool {
	return math.Abs(a-b) > distanceEpsilon*math.Max(1, math.Max(a, b))
}

func (s *sweep) apply(v *vertex) {
	for _, idx := range v.ends {
		delete(s.active, idx)
	}
	for _, idx := range v.starts {
		s.active[idx] = struct{}{}
	}
}

// groups returns the vertices inside the arc sorted by angle, bucketed where angles
// coincide
func (s *sweep) groups() [][]*vertex {
	sorted := make([]*vertex, 0, len(s.vertices))
	for _, v := range s.vertices {
		sorted = append(sorted, v)
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].rel != sorted[j].rel {
			return sorted[i].rel < sorted[j].rel
		}
		return sorted[i].key < sorted[j].key
	})

	var out [][]*vertex
	for _, v := range sorted {
		if n := len(out); n > 0 && v.rel-out[n-1][0].rel < angleEpsilon {
			out[n-1] = append(out[n-1], v)
			continue
		}
		out = append(out, []*vertex{v})
	}
	return out
}

func (s *sweep) run() *Polygon {
	s.buildEdges()
	s.addIntersections()

	for idx, e := range s.edges {
		if e.start.rel > e.end.rel {
			s.active[idx] = struct{}{}
		}
	}

	limited := s.cfg.HasLimitedAngle()
	groups := s.groups()

	gi := 0
	if len(groups) > 0 && groups[0][0].rel == 0 {
		for _, v := range groups[0] {
			s.apply(v)
		}
		gi = 1
	}
	s.emit(0)
	last := 0.0

	for ; gi < len(groups); gi++ {
		rel := groups[gi][0].rel
		if rel >= s.arc-angleEpsilon {
			break
		}
		s.pad(last, rel)

		before, beforeEdge := s.closest(s.start + rel)
		for _, v := range groups[gi] {
			s.apply(v)
		}
		after, afterEdge := s.closest(s.start + rel)

		if !math.IsInf(before, 1) {
			s.out = append(s.out, emission{angle: s.start + rel, dist: before, edge: beforeEdge})
		}
		if !math.IsInf(after, 1) && (math.IsInf(before, 1) || differs(before, after)) {
			s.out = append(s.out, emission{angle: s.start + rel, dist: after, edge: afterEdge})
		}
		last = rel
	}

	s.pad(last, s.arc)
	end, endEdge := s.closest(s.start + s.arc)
	if !math.IsInf(end, 1) && (limited || len(s.out) == 0 || differs(end, s.out[0].dist)) {
		s.out = append(s.out, emission{angle: s.start + s.arc, dist: end, edge: endEdge})
	}

	return s.finalize(limited)
}

func (s *sweep) finalize(limited bool) *Polygon {
	points := make([]geometry.Point, 0, len(s.out)+1)
	rays := make([]geometry.Ray, 0, len(s.out))
	constrained := false

	if limited {
		points = append(points, s.origin)
	}
	for _, em := range s.out {
		ray := geometry.RayFromAngle(s.origin, em.angle, em.dist)
		rays = append(rays, ray)
		points = append(points, ray.B)

		if em.edge >= 0 {
			e := s.edges[em.edge]
			if e.rec != nil && !e.rec.Boundary && (!s.cfg.HasLimitedRadius() || em.dist < s.cfg.Radius-geometry.Epsilon) {
				constrained = true
			}
		}
	}

	if s.cfg.HasLimitedRadius() {
		points = clampToCircle(points, geometry.Circle{X: s.origin.X, Y: s.origin.Y, Radius: s.cfg.Radius}, s.cfg.Density)
	}

	poly := &geometry.Polygon{Points: make([]float64, 0, len(points)*2)}
	for _, p := range points {
		poly.AddPoint(p)
	}
	if n := poly.Len(); n > 1 && poly.At(0).Equals(poly.At(n-1)) {
		poly.Points = poly.Points[:len(poly.Points)-2]
	}

	edges := make([]Edge, 0, len(s.edges))
	for _, e := range s.edges {
		edge := Edge{A: e.a, B: e.b, Restriction: e.restriction}
		if e.rec != nil {
			edge.WallID = e.rec.ID()
		}
		edges = append(edges, edge)
	}

	return &Polygon{
		Polygon:     poly,
		Origin:      s.origin,
		Config:      s.cfg,
		Constrained: constrained,
		Rays:        rays,
		Edges:       edges,
		bounds:      poly.Bounds(),
	}
}
