package fogexploration

import (
	"context"
	"log/slog"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/rpg-perception/internal/errors"
	"github.com/KirkDiggler/rpg-perception/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-perception/internal/pkg/idgen"
	redisclient "github.com/KirkDiggler/rpg-perception/internal/redis"
)

const (
	// Key pattern: fog_exploration:{scene_id}:{user_id}
	explorationKeyPrefix = "fog_exploration:"
	// Set of user ids with a record on the scene
	sceneIndexPrefix = "fog_exploration_index:"
)

// RedisConfig holds the configuration for the Redis repository
type RedisConfig struct {
	Client redisclient.Client
	Clock  clock.Clock
	IDGen  idgen.Generator
}

// Validate ensures all required dependencies are provided
func (cfg *RedisConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("redis client is required")
	}
	return nil
}

type redisRepository struct {
	client redisclient.Client
	codec  *codec
}

// NewRedis creates a Redis-backed fog exploration repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	c, err := newCodec(cfg.Clock, cfg.IDGen)
	if err != nil {
		return nil, err
	}
	return &redisRepository{client: cfg.Client, codec: c}, nil
}

// Ensure redisRepository implements Repository
var _ Repository = (*redisRepository)(nil)

// Get retrieves the record for a scene and user
func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if err := validateKey(input.SceneID, input.UserID); err != nil {
		return nil, err
	}

	data, err := r.client.Get(ctx, buildKey(input.SceneID, input.UserID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFound("fog exploration not found").
				WithScene(input.SceneID, input.UserID)
		}
		return nil, errors.Wrap(err, "failed to get fog exploration from Redis")
	}

	fog, err := r.codec.decode(data)
	if err != nil {
		return nil, err
	}
	return &GetOutput{Exploration: fog}, nil
}

// Create stores a new record if none exists for the scene and user
func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	if err := validateExploration(input.Exploration); err != nil {
		return nil, err
	}

	fog := r.codec.stamp(input.Exploration)
	data, err := r.codec.encode(fog)
	if err != nil {
		return nil, err
	}

	key := buildKey(fog.SceneID, fog.UserID)
	created, err := r.client.SetNX(ctx, key, data, 0).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to store fog exploration in Redis")
	}
	if !created {
		return nil, errors.AlreadyExists("fog exploration already exists").
			WithScene(fog.SceneID, fog.UserID)
	}

	if err := r.client.SAdd(ctx, sceneIndexPrefix+fog.SceneID, fog.UserID).Err(); err != nil {
		// The record is readable without the index; only DeleteByScene misses it
		slog.Warn("failed to index fog exploration",
			"scene_id", fog.SceneID,
			"user_id", fog.UserID,
			"error", err)
	}

	return &CreateOutput{Exploration: fog}, nil
}

// Update overwrites an existing record
func (r *redisRepository) Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error) {
	if err := validateExploration(input.Exploration); err != nil {
		return nil, err
	}

	fog := r.codec.stamp(input.Exploration)
	data, err := r.codec.encode(fog)
	if err != nil {
		return nil, err
	}

	key := buildKey(fog.SceneID, fog.UserID)
	updated, err := r.client.SetXX(ctx, key, data, 0).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to update fog exploration in Redis")
	}
	if !updated {
		return nil, errors.NotFound("fog exploration not found").
			WithScene(fog.SceneID, fog.UserID)
	}

	return &UpdateOutput{Exploration: fog}, nil
}

// DeleteByScene removes every record of the scene along with its index
func (r *redisRepository) DeleteByScene(ctx context.Context, input DeleteBySceneInput) (*DeleteBySceneOutput, error) {
	if input.SceneID == "" {
		return nil, errors.InvalidArgument(errSceneIDEmpty)
	}

	indexKey := sceneIndexPrefix + input.SceneID
	userIDs, err := r.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to list fog explorations")
	}

	keys := make([]string, 0, len(userIDs))
	for _, userID := range userIDs {
		keys = append(keys, buildKey(input.SceneID, userID))
	}

	pipe := r.client.TxPipeline()
	var del *redis.IntCmd
	if len(keys) > 0 {
		del = pipe.Del(ctx, keys...)
	}
	pipe.Del(ctx, indexKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to delete fog explorations")
	}

	deleted := 0
	if del != nil {
		deleted = int(del.Val())
	}
	return &DeleteBySceneOutput{Deleted: deleted}, nil
}

func buildKey(sceneID, userID string) string {
	return explorationKeyPrefix + sceneID + ":" + userID
}
