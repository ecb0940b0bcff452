package fogexploration

import (
	"context"
	"strings"

	"github.com/KirkDiggler/rpg-perception/internal/clients/objectstore"
	"github.com/KirkDiggler/rpg-perception/internal/entities"
	"github.com/KirkDiggler/rpg-perception/internal/errors"
	"github.com/KirkDiggler/rpg-perception/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-perception/internal/pkg/idgen"
)

const (
	// Object pattern: fog_exploration/{scene_id}/{user_id}.json
	objectPrefix      = "fog_exploration/"
	objectSuffix      = ".json"
	objectContentType = "application/json"
)

// ObjectStoreConfig holds the configuration for the object storage repository
type ObjectStoreConfig struct {
	Client objectstore.Client
	Clock  clock.Clock
	IDGen  idgen.Generator
}

// Validate ensures all required dependencies are provided
func (cfg *ObjectStoreConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("object store client is required")
	}
	return nil
}

type objectStoreRepository struct {
	client objectstore.Client
	codec  *codec
}

// NewObjectStore creates a repository that keeps one JSON object per scene and user
func NewObjectStore(cfg *ObjectStoreConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	c, err := newCodec(cfg.Clock, cfg.IDGen)
	if err != nil {
		return nil, err
	}
	return &objectStoreRepository{client: cfg.Client, codec: c}, nil
}

var _ Repository = (*objectStoreRepository)(nil)

func (r *objectStoreRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if err := validateKey(input.SceneID, input.UserID); err != nil {
		return nil, err
	}

	data, err := r.client.GetObject(ctx, objectKey(input.SceneID, input.UserID))
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NotFound("fog exploration not found").
				WithScene(input.SceneID, input.UserID)
		}
		return nil, errors.Wrap(err, "failed to get fog exploration")
	}

	fog, err := r.codec.decode(data)
	if err != nil {
		return nil, err
	}
	return &GetOutput{Exploration: fog}, nil
}

func (r *objectStoreRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	if err := validateExploration(input.Exploration); err != nil {
		return nil, err
	}

	key := objectKey(input.Exploration.SceneID, input.Exploration.UserID)
	exists, err := r.exists(ctx, key)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.AlreadyExists("fog exploration already exists").
			WithScene(input.Exploration.SceneID, input.Exploration.UserID)
	}

	fog, err := r.put(ctx, key, input.Exploration)
	if err != nil {
		return nil, err
	}
	return &CreateOutput{Exploration: fog}, nil
}

func (r *objectStoreRepository) Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error) {
	if err := validateExploration(input.Exploration); err != nil {
		return nil, err
	}

	key := objectKey(input.Exploration.SceneID, input.Exploration.UserID)
	exists, err := r.exists(ctx, key)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errors.NotFound("fog exploration not found").
			WithScene(input.Exploration.SceneID, input.Exploration.UserID)
	}

	fog, err := r.put(ctx, key, input.Exploration)
	if err != nil {
		return nil, err
	}
	return &UpdateOutput{Exploration: fog}, nil
}

func (r *objectStoreRepository) DeleteByScene(ctx context.Context, input DeleteBySceneInput) (*DeleteBySceneOutput, error) {
	if input.SceneID == "" {
		return nil, errors.InvalidArgument(errSceneIDEmpty)
	}

	objects, err := r.client.ListObjects(ctx, objectPrefix+input.SceneID+"/")
	if err != nil {
		return nil, errors.Wrap(err, "failed to list fog explorations")
	}

	deleted := 0
	for _, obj := range objects {
		if !strings.HasSuffix(obj.Key, objectSuffix) {
			continue
		}
		if err := r.client.DeleteObject(ctx, obj.Key); err != nil {
			return nil, errors.Wrapf(err, "failed to delete %s", obj.Key)
		}
		deleted++
	}
	return &DeleteBySceneOutput{Deleted: deleted}, nil
}

func (r *objectStoreRepository) exists(ctx context.Context, key string) (bool, error) {
	_, err := r.client.GetObject(ctx, key)
	if err == nil {
		return true, nil
	}
	if errors.IsNotFound(err) {
		return false, nil
	}
	return false, errors.Wrap(err, "failed to check fog exploration")
}

func (r *objectStoreRepository) put(ctx context.Context, key string, in *entities.FogExploration) (*entities.FogExploration, error) {
	fog := r.codec.stamp(in)
	data, err := r.codec.encode(fog)
	if err != nil {
		return nil, err
	}
	if err := r.client.PutObject(ctx, key, data, objectContentType); err != nil {
		return nil, errors.Wrap(err, "failed to store fog exploration")
	}
	return fog, nil
}

func objectKey(sceneID, userID string) string {
	return objectPrefix + sceneID + "/" + userID + objectSuffix
}
