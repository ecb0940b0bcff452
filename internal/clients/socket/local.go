package socket

import (
	"context"
	"sync"

	"github.com/KirkDiggler/rpg-perception/internal/errors"
)

// Local is an in-process Broadcaster that calls handlers synchronously
type Local struct {
	mu       sync.RWMutex
	next     int
	handlers map[int]Handler
}

// NewLocal creates an in-process broadcaster
func NewLocal() *Local {
	return &Local{handlers: make(map[int]Handler)}
}

var _ Broadcaster = (*Local)(nil)

// Emit delivers the event to every handler before returning
func (l *Local) Emit(_ context.Context, event Event) error {
	if err := event.Validate(); err != nil {
		return err
	}
	l.mu.RLock()
	handlers := make([]Handler, 0, len(l.handlers))
	for _, h := range l.handlers {
		handlers = append(handlers, h)
	}
	l.mu.RUnlock()

	for _, h := range handlers {
		h(event)
	}
	return nil
}

// Subscribe registers a handler
func (l *Local) Subscribe(_ context.Context, handler Handler) (func(), error) {
	if handler == nil {
		return nil, errors.InvalidArgument("handler is required")
	}
	l.mu.Lock()
	id := l.next
	l.next++
	l.handlers[id] = handler
	l.mu.Unlock()

	return func() {
		l.mu.Lock()
		delete(l.handlers, id)
		l.mu.Unlock()
	}, nil
}
