// Package builders provides test data builders for creating test fixtures
package builders

import (
	"github.com/KirkDiggler/rpg-perception/internal/entities"
	"github.com/KirkDiggler/rpg-perception/internal/sources"
	"github.com/KirkDiggler/rpg-perception/internal/walls"
)

// SceneBuilder provides a fluent interface for building test Scene instances
type SceneBuilder struct {
	scene *entities.Scene
}

// NewSceneBuilder creates a 1000x1000 scene with a 100 unit grid and no padding
func NewSceneBuilder() *SceneBuilder {
	return &SceneBuilder{
		scene: &entities.Scene{
			ID:       "scene-test-123",
			Width:    1000,
			Height:   1000,
			GridSize: 100,
		},
	}
}

// WithID sets the scene ID
func (b *SceneBuilder) WithID(id string) *SceneBuilder {
	b.scene.ID = id
	return b
}

// WithSize sets the scene width and height
func (b *SceneBuilder) WithSize(width, height float64) *SceneBuilder {
	b.scene.Width = width
	b.scene.Height = height
	return b
}

// WithGrid sets the grid size
func (b *SceneBuilder) WithGrid(size float64) *SceneBuilder {
	b.scene.GridSize = size
	return b
}

// WithPadding sets the padding fraction
func (b *SceneBuilder) WithPadding(padding float64) *SceneBuilder {
	b.scene.Padding = padding
	return b
}

// WithTokenVision enables token vision
func (b *SceneBuilder) WithTokenVision() *SceneBuilder {
	b.scene.TokenVision = true
	return b
}

// WithFogExploration enables token vision and fog exploration
func (b *SceneBuilder) WithFogExploration() *SceneBuilder {
	b.scene.TokenVision = true
	b.scene.FogExploration = true
	return b
}

// WithWall adds a wall blocking every channel
func (b *SceneBuilder) WithWall(id string, x1, y1, x2, y2 float64) *SceneBuilder {
	b.scene.Walls = append(b.scene.Walls, walls.NormalWall(id, x1, y1, x2, y2))
	return b
}

// WithDoor adds a closed door
func (b *SceneBuilder) WithDoor(id string, x1, y1, x2, y2 float64) *SceneBuilder {
	door := walls.NormalWall(id, x1, y1, x2, y2)
	door.Door = walls.DoorDoor
	b.scene.Walls = append(b.scene.Walls, door)
	return b
}

// WithLight adds a standalone light
func (b *SceneBuilder) WithLight(id string, x, y, dim, bright float64) *SceneBuilder {
	b.scene.Lights = append(b.scene.Lights, entities.Light{
		ID:   id,
		Data: sources.Data{X: x, Y: y, Dim: dim, Bright: bright},
	})
	return b
}

// WithSound adds an ambient sound
func (b *SceneBuilder) WithSound(id string, x, y, radius float64) *SceneBuilder {
	b.scene.Sounds = append(b.scene.Sounds, entities.Light{
		ID:   id,
		Data: sources.Data{X: x, Y: y, Dim: radius},
	})
	return b
}

// WithPlaceable adds a token, note or tile
func (b *SceneBuilder) WithPlaceable(p *entities.Placeable) *SceneBuilder {
	b.scene.Placeables = append(b.scene.Placeables, *p)
	return b
}

// Build returns the built scene
func (b *SceneBuilder) Build() *entities.Scene {
	return b.scene
}

// PlaceableBuilder provides a fluent interface for building test Placeable instances
type PlaceableBuilder struct {
	placeable *entities.Placeable
}

// NewTokenBuilder creates a one-cell token at the origin
func NewTokenBuilder(id string) *PlaceableBuilder {
	return newPlaceableBuilder(id, entities.PlaceableToken, 100, 100)
}

// NewNoteBuilder creates a small note at the origin
func NewNoteBuilder(id string) *PlaceableBuilder {
	return newPlaceableBuilder(id, entities.PlaceableNote, 50, 50)
}

// NewTileBuilder creates a one-cell tile at the origin
func NewTileBuilder(id string) *PlaceableBuilder {
	return newPlaceableBuilder(id, entities.PlaceableTile, 100, 100)
}

func newPlaceableBuilder(id string, kind entities.PlaceableKind, w, h float64) *PlaceableBuilder {
	return &PlaceableBuilder{
		placeable: &entities.Placeable{ID: id, Kind: kind, Width: w, Height: h},
	}
}

// At sets the top-left position
func (b *PlaceableBuilder) At(x, y float64) *PlaceableBuilder {
	b.placeable.X = x
	b.placeable.Y = y
	return b
}

// WithSize sets the width and height
func (b *PlaceableBuilder) WithSize(width, height float64) *PlaceableBuilder {
	b.placeable.Width = width
	b.placeable.Height = height
	return b
}

// OwnedBy sets the owning users
func (b *PlaceableBuilder) OwnedBy(userIDs ...string) *PlaceableBuilder {
	b.placeable.Owners = userIDs
	return b
}

// WithVision gives the placeable sight out to radius
func (b *PlaceableBuilder) WithVision(radius float64, modes ...sources.ModeRef) *PlaceableBuilder {
	b.placeable.Vision = &sources.Data{Dim: radius, DetectionModes: modes}
	return b
}

// WithLight makes the placeable emit light
func (b *PlaceableBuilder) WithLight(dim, bright float64) *PlaceableBuilder {
	b.placeable.Light = &sources.Data{Dim: dim, Bright: bright}
	return b
}

// Hidden hides the placeable from non-GM users
func (b *PlaceableBuilder) Hidden() *PlaceableBuilder {
	b.placeable.Hidden = true
	return b
}

// Invisible marks the placeable invisible to basic sight
func (b *PlaceableBuilder) Invisible() *PlaceableBuilder {
	b.placeable.Invisible = true
	return b
}

// Build returns the built placeable
func (b *PlaceableBuilder) Build() *entities.Placeable {
	return b.placeable
}
