// Package fogexploration persists per-user fog of war exploration records
package fogexploration

import (
	"context"

	"github.com/KirkDiggler/rpg-perception/internal/entities"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=fogexplorationmock github.com/KirkDiggler/rpg-perception/internal/repositories/fog_exploration Repository

// GetInput identifies the record of one user on one scene
type GetInput struct {
	SceneID string
	UserID  string
}

// GetOutput contains the stored record
type GetOutput struct {
	Exploration *entities.FogExploration
}

// CreateInput contains a record that does not exist yet
type CreateInput struct {
	Exploration *entities.FogExploration
}

// CreateOutput contains the record as stored, with ID and timestamp assigned
type CreateOutput struct {
	Exploration *entities.FogExploration
}

// UpdateInput contains a record to overwrite. The last writer wins.
type UpdateInput struct {
	Exploration *entities.FogExploration
}

// UpdateOutput contains the record as stored
type UpdateOutput struct {
	Exploration *entities.FogExploration
}

// DeleteBySceneInput identifies the scene to reset
type DeleteBySceneInput struct {
	SceneID string
}

// DeleteBySceneOutput reports how many user records were removed
type DeleteBySceneOutput struct {
	Deleted int
}

// Repository defines storage operations for fog exploration records
type Repository interface {
	// Get returns NotFound when the user has not explored the scene yet
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Create stores a new record; AlreadyExists if one is present
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Update overwrites an existing record; NotFound if none is present
	Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error)

	// DeleteByScene removes every user's record for a scene
	DeleteByScene(ctx context.Context, input DeleteBySceneInput) (*DeleteBySceneOutput, error)
}
