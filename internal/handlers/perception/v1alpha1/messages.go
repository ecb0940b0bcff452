package v1alpha1

import (
	"encoding/json"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/rpg-perception/internal/engine"
	"github.com/KirkDiggler/rpg-perception/internal/entities"
	"github.com/KirkDiggler/rpg-perception/internal/errors"
	"github.com/KirkDiggler/rpg-perception/internal/geometry"
	"github.com/KirkDiggler/rpg-perception/internal/sources"
	"github.com/KirkDiggler/rpg-perception/internal/walls"
)

// PointMessage is a scene position
type PointMessage struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Point converts the message to a scene point
func (p PointMessage) Point() geometry.Point {
	return geometry.Point{X: p.X, Y: p.Y}
}

// SessionRequest addresses one user's session on a scene
type SessionRequest struct {
	SceneID string `json:"scene_id"`
	UserID  string `json:"user_id"`
}

// LoadSceneRequest opens a session
type LoadSceneRequest struct {
	Scene  *entities.Scene `json:"scene"`
	UserID string          `json:"user_id"`
	IsGM   bool            `json:"is_gm"`
}

// LoadSceneResponse describes the opened session
type LoadSceneResponse struct {
	SessionID  string  `json:"session_id"`
	FogEnabled bool    `json:"fog_enabled"`
	Resolution float64 `json:"resolution"`
}

// WallChangeRequest creates, updates or deletes a wall
type WallChangeRequest struct {
	SceneID string     `json:"scene_id"`
	Kind    string     `json:"kind"`
	Wall    walls.Wall `json:"wall"`
}

// WallChangeResponse reports the applied change
type WallChangeResponse struct {
	Intersections int `json:"intersections"`
}

// DoorStateRequest changes a door
type DoorStateRequest struct {
	SceneID string          `json:"scene_id"`
	WallID  string          `json:"wall_id"`
	State   walls.DoorState `json:"state"`
}

// DoorStateResponse returns the updated wall
type DoorStateResponse struct {
	Wall walls.Wall `json:"wall"`
}

// SourceRequest adds or replaces a standalone light or sound
type SourceRequest struct {
	SceneID string          `json:"scene_id"`
	Kind    sources.Kind    `json:"kind"`
	Source  *entities.Light `json:"source"`
}

// RemoveSourceRequest removes a standalone source
type RemoveSourceRequest struct {
	SceneID  string `json:"scene_id"`
	SourceID string `json:"source_id"`
}

// PlaceableRequest adds or replaces a placeable
type PlaceableRequest struct {
	SceneID   string              `json:"scene_id"`
	Placeable *entities.Placeable `json:"placeable"`
}

// TickResponse is a user's state after a frame
type TickResponse struct {
	Flags      string                `json:"flags"`
	Placeables []*entities.Placeable `json:"placeables"`
	Doors      map[string]bool       `json:"doors"`
}

// TargetMessage is the object of a visibility test
type TargetMessage struct {
	ID        string  `json:"id"`
	Kind      string  `json:"kind"`
	Elevation float64 `json:"elevation"`
	Invisible bool    `json:"invisible"`
}

// VisibilityRequest tests a point for a user
type VisibilityRequest struct {
	SceneID   string         `json:"scene_id"`
	UserID    string         `json:"user_id"`
	Point     PointMessage   `json:"point"`
	Tolerance float64        `json:"tolerance"`
	Object    *TargetMessage `json:"object,omitempty"`
}

// VisibilityResponse answers a visibility test
type VisibilityResponse struct {
	Visible         bool   `json:"visible"`
	DetectionFilter string `json:"detection_filter,omitempty"`
}

// HearRequest tests audibility of a point
type HearRequest struct {
	SceneID string       `json:"scene_id"`
	UserID  string       `json:"user_id"`
	Point   PointMessage `json:"point"`
}

// HearResponse lists the sounds reaching the point
type HearResponse struct {
	Audible   bool     `json:"audible"`
	SourceIDs []string `json:"source_ids"`
}

// PolygonRequest computes a polygon. A missing radius is unbounded.
type PolygonRequest struct {
	SceneID     string       `json:"scene_id"`
	Origin      PointMessage `json:"origin"`
	Type        string       `json:"type"`
	Angle       float64      `json:"angle"`
	Rotation    float64      `json:"rotation"`
	Radius      *float64     `json:"radius,omitempty"`
	Density     int          `json:"density"`
	IgnoreWalls bool         `json:"ignore_walls"`
}

// Config converts the request into an engine config
func (r *PolygonRequest) Config() *engine.PolygonConfig {
	cfg := &engine.PolygonConfig{
		Type:        engine.PolygonType(r.Type),
		Angle:       r.Angle,
		Rotation:    r.Rotation,
		Radius:      engine.Unbounded,
		Density:     r.Density,
		IgnoreWalls: r.IgnoreWalls,
	}
	if cfg.Angle == 0 {
		cfg.Angle = 360
	}
	if r.Radius != nil {
		cfg.Radius = *r.Radius
	}
	return cfg
}

// PolygonMessage is a computed polygon as a closed vertex list
type PolygonMessage struct {
	Origin      PointMessage   `json:"origin"`
	Type        string         `json:"type"`
	Points      []PointMessage `json:"points"`
	Constrained bool           `json:"constrained"`
}

// NewPolygonMessage converts an engine polygon
func NewPolygonMessage(p *engine.Polygon) *PolygonMessage {
	msg := &PolygonMessage{Points: []PointMessage{}}
	if p == nil {
		return msg
	}
	msg.Origin = PointMessage{X: p.Origin.X, Y: p.Origin.Y}
	msg.Type = string(p.Config.Type)
	msg.Constrained = p.Constrained
	if p.Polygon != nil {
		for _, v := range p.Vertices() {
			msg.Points = append(msg.Points, PointMessage{X: v.X, Y: v.Y})
		}
	}
	return msg
}

// CollisionRequest casts a segment against walls
type CollisionRequest struct {
	SceneID     string       `json:"scene_id"`
	Origin      PointMessage `json:"origin"`
	Destination PointMessage `json:"destination"`
	Type        string       `json:"type"`
	Mode        string       `json:"mode"`
}

// CollisionMessage is one blocking intersection
type CollisionMessage struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Distance float64 `json:"distance"`
	WallID   string  `json:"wall_id"`
}

// CollisionResponse answers a collision test
type CollisionResponse struct {
	Hit     bool               `json:"hit"`
	Closest *CollisionMessage  `json:"closest,omitempty"`
	All     []CollisionMessage `json:"all,omitempty"`
}

func newCollisionMessage(c engine.Collision) CollisionMessage {
	return CollisionMessage{X: c.X, Y: c.Y, Distance: c.Distance, WallID: c.WallID}
}

// FogImageRequest reads a user's committed fog
type FogImageRequest struct {
	SceneID     string `json:"scene_id"`
	UserID      string `json:"user_id"`
	RequesterID string `json:"requester_id"`
}

// FogImageResponse carries the raster as a JPEG data URL
type FogImageResponse struct {
	Image      string  `json:"image"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Resolution float64 `json:"resolution"`
}

// Decode reads a Struct document into a request message
func Decode(in *structpb.Struct, out any) error {
	if in == nil {
		return errors.InvalidArgument("request is required")
	}
	data, err := protojson.Marshal(in)
	if err != nil {
		return errors.WrapWithCode(err, errors.CodeInvalidArgument, "malformed request")
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.WrapWithCode(err, errors.CodeInvalidArgument, "malformed request")
	}
	return nil
}

// Encode writes a response message as a Struct document
func Encode(in any) (*structpb.Struct, error) {
	data, err := json.Marshal(in)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode response")
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(data, out); err != nil {
		return nil, errors.Wrap(err, "failed to encode response")
	}
	return out, nil
}
