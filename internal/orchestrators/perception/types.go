package perception

import (
	"image"

	"github.com/KirkDiggler/rpg-perception/internal/engine"
	"github.com/KirkDiggler/rpg-perception/internal/entities"
	"github.com/KirkDiggler/rpg-perception/internal/geometry"
	"github.com/KirkDiggler/rpg-perception/internal/scheduler"
	"github.com/KirkDiggler/rpg-perception/internal/sources"
	"github.com/KirkDiggler/rpg-perception/internal/visibility"
	"github.com/KirkDiggler/rpg-perception/internal/walls"
)

// LoadSceneInput opens a perception session for a user on a scene
type LoadSceneInput struct {
	Scene  *entities.Scene
	UserID string
	IsGM   bool
}

// LoadSceneOutput describes the opened session
type LoadSceneOutput struct {
	SessionID  string
	FogEnabled bool
	// Resolution is the fog raster resolution, zero when fog is disabled
	Resolution float64
}

// UnloadSceneInput closes a user's session
type UnloadSceneInput struct {
	SceneID string
	UserID  string
}

// UnloadSceneOutput is empty
type UnloadSceneOutput struct{}

// ApplyWallChangeInput applies a wall document change
type ApplyWallChangeInput struct {
	SceneID string
	Kind    walls.ChangeKind
	Wall    walls.Wall
}

// ApplyWallChangeOutput reports the applied change
type ApplyWallChangeOutput struct {
	// Intersections is the number of walls the changed wall crosses
	Intersections int
}

// SetDoorStateInput opens, closes or locks a door
type SetDoorStateInput struct {
	SceneID string
	WallID  string
	State   walls.DoorState
}

// SetDoorStateOutput returns the updated wall
type SetDoorStateOutput struct {
	Wall walls.Wall
}

// UpsertSourceInput adds or replaces a standalone light or sound
type UpsertSourceInput struct {
	SceneID string
	Kind    sources.Kind
	Source  *entities.Light
}

// UpsertSourceOutput is empty
type UpsertSourceOutput struct{}

// RemoveSourceInput removes a standalone light or sound
type RemoveSourceInput struct {
	SceneID  string
	SourceID string
}

// RemoveSourceOutput is empty
type RemoveSourceOutput struct{}

// UpsertPlaceableInput adds or replaces a token, note or tile
type UpsertPlaceableInput struct {
	SceneID   string
	Placeable *entities.Placeable
}

// UpsertPlaceableOutput is empty
type UpsertPlaceableOutput struct{}

// TickInput drains one frame of a session
type TickInput struct {
	SceneID string
	UserID  string
}

// TickOutput is the state after the frame
type TickOutput struct {
	Flags scheduler.Flags
	// Placeables carry the Visible and DetectionFilter results for the user
	Placeables []*entities.Placeable
	// Doors maps door wall ids to whether their control is visible
	Doors map[string]bool
}

// TestVisibilityInput tests a point for a user
type TestVisibilityInput struct {
	SceneID   string
	UserID    string
	Point     geometry.Point
	Tolerance float64
	Object    *visibility.Target
}

// TestVisibilityOutput is the answer
type TestVisibilityOutput struct {
	Visible         bool
	DetectionFilter string
}

// CanHearInput tests whether a point is within an active sound
type CanHearInput struct {
	SceneID string
	UserID  string
	Point   geometry.Point
}

// CanHearOutput lists the sounds that reach the point
type CanHearOutput struct {
	Audible   bool
	SourceIDs []string
}

// ComputePolygonInput computes a polygon against a scene's walls
type ComputePolygonInput struct {
	SceneID string
	Origin  geometry.Point
	Config  *engine.PolygonConfig
}

// ComputePolygonOutput returns the polygon
type ComputePolygonOutput struct {
	Polygon *engine.Polygon
}

// TestCollisionInput casts a segment against a scene's walls
type TestCollisionInput struct {
	SceneID     string
	Origin      geometry.Point
	Destination geometry.Point
	Config      *engine.CollisionConfig
}

// TestCollisionOutput returns the collision result
type TestCollisionOutput struct {
	Result *engine.CollisionResult
}

// ResetFogInput resets every user's fog on a scene
type ResetFogInput struct {
	SceneID string
	UserID  string
}

// ResetFogOutput is empty
type ResetFogOutput struct{}

// SaveFogInput flushes a user's fog to storage
type SaveFogInput struct {
	SceneID string
	UserID  string
}

// SaveFogOutput is empty
type SaveFogOutput struct{}

// FogImageInput reads a user's committed fog raster. GM rights come from the
// requester's own session on the scene.
type FogImageInput struct {
	SceneID     string
	UserID      string
	RequesterID string
}

// FogImageOutput is the raster and its resolution in pixels per scene unit
type FogImageOutput struct {
	Image      image.Image
	Resolution float64
}
