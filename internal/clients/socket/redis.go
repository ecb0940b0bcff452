package socket

import (
	"context"
	"log/slog"
	"sync"

	"github.com/KirkDiggler/rpg-perception/internal/errors"
	redisclient "github.com/KirkDiggler/rpg-perception/internal/redis"
)

// DefaultChannel is the pub/sub channel scene events travel on
const DefaultChannel = "perception:socket"

// RedisConfig configures the Redis broadcaster
type RedisConfig struct {
	Client  redisclient.Client
	Channel string
}

// Validate validates the config
func (cfg *RedisConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("redis client is required")
	}
	return nil
}

// RedisBroadcaster publishes events on a Redis channel so every server
// instance sees them
type RedisBroadcaster struct {
	client  redisclient.Client
	channel string
}

// NewRedis creates a Redis pub/sub broadcaster
func NewRedis(cfg *RedisConfig) (*RedisBroadcaster, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	channel := cfg.Channel
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisBroadcaster{client: cfg.Client, channel: channel}, nil
}

var _ Broadcaster = (*RedisBroadcaster)(nil)

// Emit publishes the event
func (b *RedisBroadcaster) Emit(ctx context.Context, event Event) error {
	if err := event.Validate(); err != nil {
		return err
	}
	data, err := event.encode()
	if err != nil {
		return err
	}
	if err := b.client.Publish(ctx, b.channel, data).Err(); err != nil {
		return errors.WrapWithCode(err, errors.CodeUnavailable, "failed to publish socket event")
	}
	return nil
}

// Subscribe starts delivering events to handler. The subscription is confirmed
// before Subscribe returns, so an Emit that follows is always observed.
func (b *RedisBroadcaster) Subscribe(ctx context.Context, handler Handler) (func(), error) {
	if handler == nil {
		return nil, errors.InvalidArgument("handler is required")
	}

	pubsub := b.client.Subscribe(ctx, b.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to subscribe to socket events")
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for msg := range pubsub.Channel() {
			event, err := decodeEvent([]byte(msg.Payload))
			if err != nil {
				slog.Warn("dropping socket event", "channel", b.channel, "error", err)
				continue
			}
			handler(event)
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			_ = pubsub.Close()
			wg.Wait()
		})
	}, nil
}
