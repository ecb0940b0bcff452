package fogexploration

import (
	"context"
	"sync"

	"github.com/KirkDiggler/rpg-perception/internal/entities"
	"github.com/KirkDiggler/rpg-perception/internal/errors"
	"github.com/KirkDiggler/rpg-perception/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-perception/internal/pkg/idgen"
)

// InMemoryRepository implements Repository using in-memory storage
type InMemoryRepository struct {
	mu    sync.RWMutex
	store map[string]map[string]*entities.FogExploration
	clock clock.Clock
	ids   idgen.Generator
}

// NewInMemory creates a new in-memory repository
func NewInMemory(c clock.Clock) *InMemoryRepository {
	if c == nil {
		c = clock.New()
	}
	return &InMemoryRepository{
		store: make(map[string]map[string]*entities.FogExploration),
		clock: c,
		ids:   idgen.NewDocument(),
	}
}

var _ Repository = (*InMemoryRepository)(nil)

// Get retrieves a copy of the record
func (r *InMemoryRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if err := validateKey(input.SceneID, input.UserID); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	fog, ok := r.store[input.SceneID][input.UserID]
	if !ok {
		return nil, errors.NotFound("fog exploration not found").
			WithScene(input.SceneID, input.UserID)
	}
	return &GetOutput{Exploration: fog.Clone()}, nil
}

// Create stores a new record
func (r *InMemoryRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	if err := validateExploration(input.Exploration); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	scene := r.store[input.Exploration.SceneID]
	if _, ok := scene[input.Exploration.UserID]; ok {
		return nil, errors.AlreadyExists("fog exploration already exists")
	}
	if scene == nil {
		scene = make(map[string]*entities.FogExploration)
		r.store[input.Exploration.SceneID] = scene
	}

	fog := r.stamp(input.Exploration)
	scene[fog.UserID] = fog
	return &CreateOutput{Exploration: fog.Clone()}, nil
}

// Update overwrites an existing record
func (r *InMemoryRepository) Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error) {
	if err := validateExploration(input.Exploration); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	scene := r.store[input.Exploration.SceneID]
	if _, ok := scene[input.Exploration.UserID]; !ok {
		return nil, errors.NotFound("fog exploration not found")
	}

	fog := r.stamp(input.Exploration)
	scene[fog.UserID] = fog
	return &UpdateOutput{Exploration: fog.Clone()}, nil
}

// DeleteByScene removes every record of a scene
func (r *InMemoryRepository) DeleteByScene(ctx context.Context, input DeleteBySceneInput) (*DeleteBySceneOutput, error) {
	if input.SceneID == "" {
		return nil, errors.InvalidArgument(errSceneIDEmpty)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	deleted := len(r.store[input.SceneID])
	delete(r.store, input.SceneID)
	return &DeleteBySceneOutput{Deleted: deleted}, nil
}

func (r *InMemoryRepository) stamp(in *entities.FogExploration) *entities.FogExploration {
	fog := in.Clone()
	if fog.ID == "" {
		fog.ID = r.ids.Generate()
	}
	if fog.Positions == nil {
		fog.Positions = make(map[string]entities.FogPosition)
	}
	fog.Timestamp = r.clock.Now().UnixMilli()
	return fog
}
