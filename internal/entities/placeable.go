package entities

import (
	"github.com/KirkDiggler/rpg-perception/internal/geometry"
	"github.com/KirkDiggler/rpg-perception/internal/sources"
)

// PlaceableKind classifies objects whose visibility is restricted each frame
type PlaceableKind string

const (
	PlaceableToken PlaceableKind = "token"
	PlaceableNote  PlaceableKind = "note"
	PlaceableTile  PlaceableKind = "tile"
)

// Placeable is a token, note or tile on the scene. Tokens may carry a vision
// source and a light source.
type Placeable struct {
	ID        string        `json:"id" yaml:"id"`
	Kind      PlaceableKind `json:"kind" yaml:"kind"`
	X         float64       `json:"x" yaml:"x"`
	Y         float64       `json:"y" yaml:"y"`
	Width     float64       `json:"width,omitempty" yaml:"width,omitempty"`
	Height    float64       `json:"height,omitempty" yaml:"height,omitempty"`
	Elevation float64       `json:"elevation,omitempty" yaml:"elevation,omitempty"`
	Invisible bool          `json:"invisible,omitempty" yaml:"invisible,omitempty"`
	// Hidden placeables are only ever visible to the GM
	Hidden bool `json:"hidden,omitempty" yaml:"hidden,omitempty"`
	// Owners see through the token's vision. An empty list shares it with everyone.
	Owners []string `json:"owners,omitempty" yaml:"owners,omitempty"`

	Vision *sources.Data `json:"vision,omitempty" yaml:"vision,omitempty"`
	Light  *sources.Data `json:"light,omitempty" yaml:"light,omitempty"`

	// Visible and DetectionFilter are written by the visibility restriction step
	Visible         bool   `json:"visible" yaml:"-"`
	DetectionFilter string `json:"detection_filter,omitempty" yaml:"-"`
}

// Center returns the point visibility is tested at
func (p *Placeable) Center() geometry.Point {
	return geometry.Point{X: p.X + p.Width/2, Y: p.Y + p.Height/2}
}

// Tolerance is the test radius around the center, a quarter of the smaller side
func (p *Placeable) Tolerance() float64 {
	side := p.Width
	if p.Height < side {
		side = p.Height
	}
	if side <= 0 {
		return 0
	}
	return side / 4
}

// Light is a standalone light or sound emitter on the scene
type Light struct {
	ID   string       `json:"id" yaml:"id"`
	Data sources.Data `json:"data" yaml:"data"`
}

// OwnedBy reports whether a user sees through the placeable's vision
func (p *Placeable) OwnedBy(userID string) bool {
	if len(p.Owners) == 0 {
		return true
	}
	for _, o := range p.Owners {
		if o == userID {
			return true
		}
	}
	return false
}
