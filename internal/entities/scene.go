// Package entities provides the scene, placeable and fog exploration documents
// the perception engine reads and persists.
package entities

import (
	"math"

	"github.com/KirkDiggler/rpg-perception/internal/errors"
	"github.com/KirkDiggler/rpg-perception/internal/geometry"
	"github.com/KirkDiggler/rpg-perception/internal/walls"
)

// DefaultGridSize is the pixel size of one grid square when a scene omits it
const DefaultGridSize = 100

// Scene is the document a perception session is built from
type Scene struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
	// Padding is the buffer around the scene as a fraction of its size
	Padding  float64 `json:"padding" yaml:"padding"`
	GridSize float64 `json:"grid_size" yaml:"grid_size"`

	TokenVision    bool   `json:"token_vision" yaml:"token_vision"`
	FogExploration bool   `json:"fog_exploration" yaml:"fog_exploration"`
	FogOverlay     string `json:"fog_overlay,omitempty" yaml:"fog_overlay,omitempty"`

	Walls      []walls.Wall `json:"walls,omitempty" yaml:"walls,omitempty"`
	Lights     []Light      `json:"lights,omitempty" yaml:"lights,omitempty"`
	Sounds     []Light      `json:"sounds,omitempty" yaml:"sounds,omitempty"`
	Placeables []Placeable  `json:"placeables,omitempty" yaml:"placeables,omitempty"`
}

// Dimensions are the derived rectangles of a scene
type Dimensions struct {
	// Rect is the whole canvas including padding
	Rect geometry.Rect
	// SceneRect is the usable area inside the padding
	SceneRect geometry.Rect
	Size      float64
}

// Validate checks the scene document
func (s *Scene) Validate() error {
	if s == nil {
		return errors.InvalidArgument("scene is required")
	}
	vb := errors.NewValidationBuilder()
	if s.ID == "" {
		vb.RequiredField("id")
	}
	if s.Width <= 0 {
		vb.InvalidField("width", "must be positive")
	}
	if s.Height <= 0 {
		vb.InvalidField("height", "must be positive")
	}
	if s.Padding < 0 || s.Padding > 0.5 {
		vb.InvalidField("padding", "must be within [0, 0.5]")
	}
	if s.GridSize < 0 {
		vb.InvalidField("grid_size", "must be non-negative")
	}
	return vb.Build()
}

// Grid returns the grid size, falling back to the default
func (s *Scene) Grid() float64 {
	if s.GridSize <= 0 {
		return DefaultGridSize
	}
	return s.GridSize
}

// Dimensions computes the padded canvas. Padding is rounded up to whole grid squares.
func (s *Scene) Dimensions() Dimensions {
	size := s.Grid()
	padX := math.Ceil(s.Width*s.Padding/size) * size
	padY := math.Ceil(s.Height*s.Padding/size) * size
	return Dimensions{
		Rect:      geometry.Rect{X: 0, Y: 0, Width: s.Width + 2*padX, Height: s.Height + 2*padY},
		SceneRect: geometry.Rect{X: padX, Y: padY, Width: s.Width, Height: s.Height},
		Size:      size,
	}
}
