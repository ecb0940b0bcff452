package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/KirkDiggler/rpg-perception/internal/clients/objectstore"
	"github.com/KirkDiggler/rpg-perception/internal/clients/socket"
	"github.com/KirkDiggler/rpg-perception/internal/config"
	"github.com/KirkDiggler/rpg-perception/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-perception/internal/redis"
	fogexploration "github.com/KirkDiggler/rpg-perception/internal/repositories/fog_exploration"
)

const (
	readHeaderTimeout = 10 * time.Second
	pingTimeout       = 5 * time.Second
)

// backends are the storage and pub/sub clients selected by the config
type backends struct {
	Repository  fogexploration.Repository
	Broadcaster socket.Broadcaster
	redis       redis.Client
}

// newBackends connects the fog store. A redis fog store also carries scene
// events between instances; every other backend broadcasts in process.
func newBackends(ctx context.Context, cfg *config.Config) (*backends, error) {
	b := &backends{Broadcaster: socket.NewLocal()}

	switch cfg.Fog.Backend {
	case config.FogBackendRedis:
		client, err := redis.NewFromConfig(&cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to create redis client: %w", err)
		}
		b.redis = client

		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			b.Close()
			return nil, fmt.Errorf("failed to reach redis at %s: %w", cfg.Redis.Endpoints, err)
		}

		repo, err := fogexploration.NewRedis(&fogexploration.RedisConfig{Client: client})
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("failed to create fog repository: %w", err)
		}
		b.Repository = repo

		broadcaster, err := socket.NewRedis(&socket.RedisConfig{Client: client})
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("failed to create redis broadcaster: %w", err)
		}
		b.Broadcaster = broadcaster

	case config.FogBackendMinio:
		client, err := objectstore.NewMinio(&cfg.Minio)
		if err != nil {
			return nil, fmt.Errorf("failed to create minio client: %w", err)
		}
		repo, err := fogexploration.NewObjectStore(&fogexploration.ObjectStoreConfig{Client: client})
		if err != nil {
			return nil, fmt.Errorf("failed to create fog repository: %w", err)
		}
		b.Repository = repo

	default:
		slog.Warn("fog explorations are kept in memory and lost on restart")
		b.Repository = fogexploration.NewInMemory(clock.New())
	}
	return b, nil
}

// Close releases the redis connection
func (b *backends) Close() {
	if b.redis == nil {
		return
	}
	if err := b.redis.Close(); err != nil {
		slog.Warn("failed to close redis client", "error", err)
	}
}
