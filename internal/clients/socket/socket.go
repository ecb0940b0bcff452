// Package socket carries scene events such as resetFog between server
// instances and connected browsers
package socket

import (
	"context"
	"encoding/json"

	"github.com/KirkDiggler/rpg-perception/internal/errors"
)

//go:generate mockgen -destination=mock/mock_broadcaster.go -package=socketmock github.com/KirkDiggler/rpg-perception/internal/clients/socket Broadcaster

// EventResetFog asks every client of a scene to discard its fog exploration
const EventResetFog = "resetFog"

// Event is the message exchanged on the socket
type Event struct {
	Type    string `json:"event"`
	SceneID string `json:"scene"`
	// Origin identifies the emitting instance so it can ignore its own echo
	Origin string `json:"origin,omitempty"`
}

// Validate checks that an event can be routed
func (e Event) Validate() error {
	vb := errors.NewValidationBuilder()
	if e.Type == "" {
		vb.RequiredField("event")
	}
	if e.SceneID == "" {
		vb.RequiredField("scene")
	}
	return vb.Build()
}

func (e Event) encode() ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal socket event")
	}
	return data, nil
}

func decodeEvent(data []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return Event{}, errors.WrapWithCode(err, errors.CodeInvalidArgument, "malformed socket event")
	}
	return e, e.Validate()
}

// Handler receives events delivered to a subscription
type Handler func(Event)

// Broadcaster fans events out to every subscriber, including other server
// instances when backed by Redis
type Broadcaster interface {
	// Emit publishes an event
	Emit(ctx context.Context, event Event) error

	// Subscribe registers a handler until the returned cancel func is called
	Subscribe(ctx context.Context, handler Handler) (func(), error)
}
