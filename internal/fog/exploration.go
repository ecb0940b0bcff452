package fog

import (
	"fmt"
	"math"

	"github.com/KirkDiggler/rpg-perception/internal/entities"
	"github.com/KirkDiggler/rpg-perception/internal/geometry"
	"github.com/KirkDiggler/rpg-perception/internal/sources"
)

// Exploration tracks the best vision recorded per grid cell for one user
type Exploration struct {
	doc      *entities.FogExploration
	gridSize float64
}

// NewExploration wraps a stored record. A nil record starts empty.
func NewExploration(doc *entities.FogExploration, sceneID, userID string, gridSize float64) *Exploration {
	if doc == nil {
		doc = entities.NewFogExploration(sceneID, userID)
	}
	if doc.Positions == nil {
		doc.Positions = make(map[string]entities.FogPosition)
	}
	if gridSize <= 0 {
		gridSize = entities.DefaultGridSize
	}
	return &Exploration{doc: doc, gridSize: gridSize}
}

// PositionKey returns the key of the grid cell center containing p
func PositionKey(p geometry.Point, gridSize float64) string {
	cx := math.Floor(p.X/gridSize)*gridSize + gridSize/2
	cy := math.Floor(p.Y/gridSize)*gridSize + gridSize/2
	return fmt.Sprintf("%d_%d", int64(math.Round(cx)), int64(math.Round(cy)))
}

// Explore records the source's vision at its grid cell. An entry is replaced
// when none exists, when the new radius is larger, or when the prior entry was
// limited by walls and this one is not. force replaces it regardless. Explore
// returns true exactly when the recorded positions changed.
func (e *Exploration) Explore(src *sources.Source, force bool) bool {
	if src == nil {
		return false
	}
	key := PositionKey(src.Origin(), e.gridSize)
	next := entities.FogPosition{
		Radius: src.Radius(),
		Limit:  src.FOV != nil && src.FOV.Constrained,
	}

	prior, ok := e.doc.Positions[key]
	if ok && prior == next {
		return false
	}
	improves := !ok || prior.Radius < next.Radius || (prior.Limit && !next.Limit)
	if !improves && !force {
		return false
	}
	e.doc.Positions[key] = next
	return true
}

// Positions returns a copy of the recorded positions
func (e *Exploration) Positions() map[string]entities.FogPosition {
	out := make(map[string]entities.FogPosition, len(e.doc.Positions))
	for k, v := range e.doc.Positions {
		out[k] = v
	}
	return out
}

// Document returns a copy of the underlying record
func (e *Exploration) Document() *entities.FogExploration {
	return e.doc.Clone()
}
