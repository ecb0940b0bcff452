package engine

import (
	"math"

	"github.com/KirkDiggler/rpg-perception/internal/geometry"
)

const clampEpsilon = 1e-6

type clampKind int

const (
	clampPoint clampKind = iota
	clampExit
)

type clampItem struct {
	p    geometry.Point
	kind clampKind
}

// clampToCircle limits a star-shaped polygon to a circle around its kernel. Runs of
// boundary outside the circle are replaced with arc samples taken at absolute
// multiples of π/density.
func clampToCircle(points []geometry.Point, c geometry.Circle, density int) []geometry.Point {
	n := len(points)
	if n == 0 {
		return points
	}
	center := c.Center()
	r2 := c.Radius * c.Radius
	inside := func(p geometry.Point) bool {
		return geometry.DistanceSquared(center, p) <= r2*(1+clampEpsilon)
	}
	outside := func(p geometry.Point) bool {
		return !inside(p)
	}

	items := make([]clampItem, 0, n)
	for i := 0; i < n; i++ {
		p := points[i]
		q := points[(i+1)%n]

		var crossings []float64
		for _, t := range geometry.LineCircleIntersection(p, q, c) {
			if t > clampEpsilon && t < 1-clampEpsilon {
				crossings = append(crossings, t)
			}
		}

		if inside(p) {
			kind := clampPoint
			if len(crossings) == 0 && outside(q) {
				kind = clampExit
			}
			items = append(items, clampItem{p: p, kind: kind})
		}

		for _, t := range crossings {
			x := geometry.Point{X: p.X + t*(q.X-p.X), Y: p.Y + t*(q.Y-p.Y)}
			dot := (x.X-center.X)*(q.X-p.X) + (x.Y-center.Y)*(q.Y-p.Y)
			if math.Abs(dot) < clampEpsilon {
				continue
			}
			kind := clampPoint
			if dot > 0 {
				kind = clampExit
			}
			items = append(items, clampItem{p: x, kind: kind})
		}
	}

	if len(items) == 0 {
		return c.ToPolygon(density).Vertices()
	}

	step := math.Pi / float64(density)
	out := make([]geometry.Point, 0, len(items)*2)
	for i, it := range items {
		out = append(out, it.p)
		if it.kind != clampExit {
			continue
		}
		next := items[(i+1)%len(items)]
		from := geometry.AngleTo(center, it.p)
		span := geometry.NormalizeRadians(geometry.AngleTo(center, next.p) - from)
		if len(items) == 1 && span < clampEpsilon {
			span = geometry.TwoPi
		}
		for k := math.Floor(from/step) + 1; k*step < from+span-clampEpsilon; k++ {
			if k*step-from < clampEpsilon {
				continue
			}
			out = append(out, c.PointAt(k*step))
		}
	}
	return out
}
