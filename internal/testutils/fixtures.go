package testutils

import (
	"github.com/KirkDiggler/rpg-perception/internal/entities"
	"github.com/KirkDiggler/rpg-perception/internal/testutils/builders"
)

// Dungeon fixture ids
const (
	DungeonSceneID = "s1"
	DungeonPlayer  = "u1"
	DungeonGM      = "gm"
)

// DungeonScene is a 1000x1000 scene split by a closed door at x=500. The
// player's hero stands in the west room, a goblin in the east room and a hidden
// note in the west room. A dripping sound plays in the north-west corner.
func DungeonScene() *entities.Scene {
	return builders.NewSceneBuilder().
		WithID(DungeonSceneID).
		WithFogExploration().
		WithDoor("door", 500, 0, 500, 1000).
		WithSound("drip", 150, 150, 200).
		WithPlaceable(builders.NewTokenBuilder("hero").
			At(100, 450).
			OwnedBy(DungeonPlayer).
			WithVision(1000).
			Build()).
		WithPlaceable(builders.NewTokenBuilder("goblin").
			At(750, 450).
			OwnedBy(DungeonGM).
			Build()).
		WithPlaceable(builders.NewNoteBuilder("secret").
			At(250, 150).
			Hidden().
			Build()).
		Build()
}

// FogExploration returns an empty stored exploration for a user
func FogExploration(sceneID, userID string) *entities.FogExploration {
	fog := entities.NewFogExploration(sceneID, userID)
	fog.ID = "fog-test-001"
	return fog
}
