// Package engine computes visibility polygons by angular sweep and answers ray
// collision queries against the wall store
package engine

//go:generate mockgen -destination=mock/mock_engine.go -package=enginemock github.com/KirkDiggler/rpg-perception/internal/engine Engine

import (
	"github.com/KirkDiggler/rpg-perception/internal/geometry"
)

// Engine computes point-source polygons and collision tests
type Engine interface {
	// Compute produces the polygon visible from origin under cfg
	Compute(origin geometry.Point, cfg *PolygonConfig) (*Polygon, error)

	// TestCollision casts a segment from origin to destination against active walls
	TestCollision(origin, destination geometry.Point, cfg *CollisionConfig) (*CollisionResult, error)
}
