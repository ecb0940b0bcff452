package engine

import (
	"sort"

	"github.com/KirkDiggler/rpg-perception/internal/geometry"
	"github.com/KirkDiggler/rpg-perception/internal/walls"
)

// TestCollision reports the walls blocking the segment from origin to destination.
// The first LIMITED wall along the ray is passed through.
func (e *engine) TestCollision(origin, destination geometry.Point, cfg *CollisionConfig) (*CollisionResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	result := &CollisionResult{}
	ray := geometry.NewRay(origin, destination)
	if ray.IsZero() {
		return result, nil
	}

	ch, _ := cfg.Type.Channel()
	useInner := e.useInnerBounds(origin)

	var hits []Collision
	for _, rec := range e.walls.QueryRay(ray) {
		restriction, ok := includeWall(rec, ch, origin, useInner)
		if !ok {
			continue
		}
		x, ok := geometry.LineSegmentIntersection(origin, destination, rec.A, rec.B)
		if !ok || x.T0 <= geometry.Epsilon {
			continue
		}
		hits = append(hits, Collision{
			X:           x.X,
			Y:           x.Y,
			T:           x.T0,
			Distance:    x.T0 * ray.Distance,
			WallID:      rec.ID(),
			Restriction: restriction,
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].T != hits[j].T {
			return hits[i].T < hits[j].T
		}
		return hits[i].WallID < hits[j].WallID
	})

	limited := 0
	counted := make([]Collision, 0, len(hits))
	for _, h := range hits {
		if h.Restriction == walls.RestrictionLimited {
			limited++
			if limited < 2 {
				continue
			}
		}
		counted = append(counted, h)
		if cfg.Mode == CollisionAny {
			break
		}
	}

	result.Hit = len(counted) > 0
	if result.Hit && cfg.Mode != CollisionAny {
		closest := counted[0]
		result.Closest = &closest
	}
	if cfg.Mode == CollisionAll {
		result.All = counted
	}
	return result, nil
}
