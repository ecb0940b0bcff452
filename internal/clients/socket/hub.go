package socket

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/KirkDiggler/rpg-perception/internal/errors"
	"github.com/KirkDiggler/rpg-perception/internal/pkg/idgen"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 4096
)

// HubConfig configures a websocket Hub
type HubConfig struct {
	Broadcaster Broadcaster
	IDGen       idgen.Generator
	// CheckOrigin overrides the upgrader origin check; nil accepts any origin
	CheckOrigin func(r *http.Request) bool
}

// Validate validates the config
func (cfg *HubConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Broadcaster == nil {
		return errors.InvalidArgument("broadcaster is required")
	}
	return nil
}

type conn struct {
	id      string
	sceneID string
	ws      *websocket.Conn
	writeMu sync.Mutex
}

func (c *conn) write(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.ws.WriteMessage(websocket.TextMessage, data)
}

// Hub bridges browser websockets and a Broadcaster. Browsers join one scene
// with ?scene=<id>; events they send are emitted through the broadcaster and
// events from the broadcaster are written to every browser of the scene.
type Hub struct {
	broadcaster Broadcaster
	ids         idgen.Generator
	upgrader    websocket.Upgrader

	mu    sync.RWMutex
	conns map[string]*conn

	unsubscribe func()
}

// NewHub creates a hub; Start must be called before serving
func NewHub(cfg *HubConfig) (*Hub, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	ids := cfg.IDGen
	if ids == nil {
		ids = idgen.NewUUID("ws")
	}
	checkOrigin := cfg.CheckOrigin
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}
	return &Hub{
		broadcaster: cfg.Broadcaster,
		ids:         ids,
		upgrader:    websocket.Upgrader{CheckOrigin: checkOrigin},
		conns:       make(map[string]*conn),
	}, nil
}

// Start subscribes the hub to the broadcaster
func (h *Hub) Start(ctx context.Context) error {
	unsubscribe, err := h.broadcaster.Subscribe(ctx, h.deliver)
	if err != nil {
		return err
	}
	h.unsubscribe = unsubscribe
	return nil
}

// Close unsubscribes and disconnects every browser
func (h *Hub) Close() {
	if h.unsubscribe != nil {
		h.unsubscribe()
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.conns {
		_ = c.ws.Close()
		delete(h.conns, id)
	}
}

// Len returns the number of connected browsers
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// ServeHTTP upgrades the request and reads events until the browser disconnects
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sceneID := r.URL.Query().Get("scene")
	if sceneID == "" {
		http.Error(w, "scene query parameter is required", http.StatusBadRequest)
		return
	}

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}
	c := &conn{id: h.ids.Generate(), sceneID: sceneID, ws: ws}
	ws.SetReadLimit(maxMessageSize)

	h.mu.Lock()
	h.conns[c.id] = c
	h.mu.Unlock()
	slog.Debug("websocket connected", "conn_id", c.id, "scene_id", sceneID)

	defer func() {
		h.mu.Lock()
		delete(h.conns, c.id)
		h.mu.Unlock()
		_ = ws.Close()
		slog.Debug("websocket disconnected", "conn_id", c.id, "scene_id", sceneID)
	}()

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			return
		}
		event, err := decodeEvent(data)
		if err != nil {
			slog.Warn("ignoring websocket message", "conn_id", c.id, "error", err)
			continue
		}
		if event.SceneID != sceneID {
			slog.Warn("ignoring event for another scene", "conn_id", c.id, "scene_id", event.SceneID)
			continue
		}
		event.Origin = c.id
		if err := h.broadcaster.Emit(r.Context(), event); err != nil {
			slog.Error("failed to emit websocket event", "conn_id", c.id, "error", err)
		}
	}
}

func (h *Hub) deliver(event Event) {
	data, err := event.encode()
	if err != nil {
		return
	}

	h.mu.RLock()
	targets := make([]*conn, 0, len(h.conns))
	for _, c := range h.conns {
		if c.sceneID == event.SceneID {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if err := c.write(data); err != nil {
			slog.Warn("failed to write websocket event", "conn_id", c.id, "error", err)
			_ = c.ws.Close()
		}
	}
}
