// Package v1alpha1 handles the perception grpc service interface
package v1alpha1

import (
	"context"

	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/rpg-perception/internal/engine"
	"github.com/KirkDiggler/rpg-perception/internal/errors"
	"github.com/KirkDiggler/rpg-perception/internal/fog"
	"github.com/KirkDiggler/rpg-perception/internal/orchestrators/perception"
	"github.com/KirkDiggler/rpg-perception/internal/visibility"
	"github.com/KirkDiggler/rpg-perception/internal/walls"
)

// HandlerConfig holds dependencies for the perception handler
type HandlerConfig struct {
	PerceptionService perception.Service
}

// Validate ensures all required dependencies are present
func (c *HandlerConfig) Validate() error {
	if c == nil || c.PerceptionService == nil {
		return errors.InvalidArgument("perception service is required")
	}
	return nil
}

// Handler implements the perception gRPC service
type Handler struct {
	perceptionService perception.Service
}

var _ PerceptionServiceServer = (*Handler)(nil)

// NewHandler creates a new perception handler with the given configuration
func NewHandler(cfg *HandlerConfig) (*Handler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Handler{
		perceptionService: cfg.PerceptionService,
	}, nil
}

func reply(msg any) (*structpb.Struct, error) {
	out, err := Encode(msg)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return out, nil
}

// LoadScene opens a session for a user on a scene
func (h *Handler) LoadScene(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in LoadSceneRequest
	if err := Decode(req, &in); err != nil {
		return nil, errors.ToGRPCError(err)
	}
	if in.Scene == nil {
		return nil, errors.ToGRPCError(errors.InvalidArgument("scene is required"))
	}
	if in.UserID == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("user_id is required"))
	}

	out, err := h.perceptionService.LoadScene(ctx, &perception.LoadSceneInput{
		Scene:  in.Scene,
		UserID: in.UserID,
		IsGM:   in.IsGM,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return reply(&LoadSceneResponse{
		SessionID:  out.SessionID,
		FogEnabled: out.FogEnabled,
		Resolution: out.Resolution,
	})
}

// UnloadScene closes a user's session
func (h *Handler) UnloadScene(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	in, err := decodeSession(req)
	if err != nil {
		return nil, err
	}
	if _, err := h.perceptionService.UnloadScene(ctx, &perception.UnloadSceneInput{
		SceneID: in.SceneID,
		UserID:  in.UserID,
	}); err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return &emptypb.Empty{}, nil
}

// ApplyWallChange creates, updates or deletes a wall
func (h *Handler) ApplyWallChange(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in WallChangeRequest
	if err := Decode(req, &in); err != nil {
		return nil, errors.ToGRPCError(err)
	}
	if in.SceneID == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("scene_id is required"))
	}
	if in.Wall.ID == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("wall.id is required"))
	}

	out, err := h.perceptionService.ApplyWallChange(ctx, &perception.ApplyWallChangeInput{
		SceneID: in.SceneID,
		Kind:    walls.ChangeKind(in.Kind),
		Wall:    in.Wall,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return reply(&WallChangeResponse{Intersections: out.Intersections})
}

// SetDoorState opens, closes or locks a door
func (h *Handler) SetDoorState(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in DoorStateRequest
	if err := Decode(req, &in); err != nil {
		return nil, errors.ToGRPCError(err)
	}
	if in.SceneID == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("scene_id is required"))
	}
	if in.WallID == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("wall_id is required"))
	}

	out, err := h.perceptionService.SetDoorState(ctx, &perception.SetDoorStateInput{
		SceneID: in.SceneID,
		WallID:  in.WallID,
		State:   in.State,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return reply(&DoorStateResponse{Wall: out.Wall})
}

// UpsertSource adds or replaces a standalone light or sound
func (h *Handler) UpsertSource(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	var in SourceRequest
	if err := Decode(req, &in); err != nil {
		return nil, errors.ToGRPCError(err)
	}
	if in.SceneID == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("scene_id is required"))
	}
	if in.Source == nil {
		return nil, errors.ToGRPCError(errors.InvalidArgument("source is required"))
	}

	if _, err := h.perceptionService.UpsertSource(ctx, &perception.UpsertSourceInput{
		SceneID: in.SceneID,
		Kind:    in.Kind,
		Source:  in.Source,
	}); err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return &emptypb.Empty{}, nil
}

// RemoveSource removes a standalone light or sound
func (h *Handler) RemoveSource(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	var in RemoveSourceRequest
	if err := Decode(req, &in); err != nil {
		return nil, errors.ToGRPCError(err)
	}
	if in.SceneID == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("scene_id is required"))
	}
	if in.SourceID == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("source_id is required"))
	}

	if _, err := h.perceptionService.RemoveSource(ctx, &perception.RemoveSourceInput{
		SceneID:  in.SceneID,
		SourceID: in.SourceID,
	}); err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return &emptypb.Empty{}, nil
}

// UpsertPlaceable adds or replaces a token, note or tile
func (h *Handler) UpsertPlaceable(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	var in PlaceableRequest
	if err := Decode(req, &in); err != nil {
		return nil, errors.ToGRPCError(err)
	}
	if in.SceneID == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("scene_id is required"))
	}
	if in.Placeable == nil {
		return nil, errors.ToGRPCError(errors.InvalidArgument("placeable is required"))
	}

	if _, err := h.perceptionService.UpsertPlaceable(ctx, &perception.UpsertPlaceableInput{
		SceneID:   in.SceneID,
		Placeable: in.Placeable,
	}); err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return &emptypb.Empty{}, nil
}

// Tick drains one frame and returns what the user sees
func (h *Handler) Tick(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	in, err := decodeSession(req)
	if err != nil {
		return nil, err
	}

	out, err := h.perceptionService.Tick(ctx, &perception.TickInput{
		SceneID: in.SceneID,
		UserID:  in.UserID,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return reply(&TickResponse{
		Flags:      out.Flags.String(),
		Placeables: out.Placeables,
		Doors:      out.Doors,
	})
}

// TestVisibility tests whether a user sees a point
func (h *Handler) TestVisibility(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in VisibilityRequest
	if err := Decode(req, &in); err != nil {
		return nil, errors.ToGRPCError(err)
	}
	if err := requireSession(in.SceneID, in.UserID); err != nil {
		return nil, err
	}

	input := &perception.TestVisibilityInput{
		SceneID:   in.SceneID,
		UserID:    in.UserID,
		Point:     in.Point.Point(),
		Tolerance: in.Tolerance,
	}
	if in.Object != nil {
		input.Object = &visibility.Target{
			ID:        in.Object.ID,
			Kind:      visibility.TargetKind(in.Object.Kind),
			Elevation: in.Object.Elevation,
			Invisible: in.Object.Invisible,
		}
	}

	out, err := h.perceptionService.TestVisibility(ctx, input)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return reply(&VisibilityResponse{Visible: out.Visible, DetectionFilter: out.DetectionFilter})
}

// CanHear tests whether a point is within an active sound
func (h *Handler) CanHear(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in HearRequest
	if err := Decode(req, &in); err != nil {
		return nil, errors.ToGRPCError(err)
	}
	if err := requireSession(in.SceneID, in.UserID); err != nil {
		return nil, err
	}

	out, err := h.perceptionService.CanHear(ctx, &perception.CanHearInput{
		SceneID: in.SceneID,
		UserID:  in.UserID,
		Point:   in.Point.Point(),
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	ids := out.SourceIDs
	if ids == nil {
		ids = []string{}
	}
	return reply(&HearResponse{Audible: out.Audible, SourceIDs: ids})
}

// ComputePolygon computes a polygon against the scene's walls
func (h *Handler) ComputePolygon(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in PolygonRequest
	if err := Decode(req, &in); err != nil {
		return nil, errors.ToGRPCError(err)
	}
	if in.SceneID == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("scene_id is required"))
	}

	out, err := h.perceptionService.ComputePolygon(ctx, &perception.ComputePolygonInput{
		SceneID: in.SceneID,
		Origin:  in.Origin.Point(),
		Config:  in.Config(),
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return reply(NewPolygonMessage(out.Polygon))
}

// TestCollision casts a segment against the scene's walls
func (h *Handler) TestCollision(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in CollisionRequest
	if err := Decode(req, &in); err != nil {
		return nil, errors.ToGRPCError(err)
	}
	if in.SceneID == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("scene_id is required"))
	}

	out, err := h.perceptionService.TestCollision(ctx, &perception.TestCollisionInput{
		SceneID:     in.SceneID,
		Origin:      in.Origin.Point(),
		Destination: in.Destination.Point(),
		Config: &engine.CollisionConfig{
			Type: engine.PolygonType(in.Type),
			Mode: engine.CollisionMode(in.Mode),
		},
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	resp := &CollisionResponse{Hit: out.Result.Hit}
	if out.Result.Closest != nil {
		closest := newCollisionMessage(*out.Result.Closest)
		resp.Closest = &closest
	}
	for _, c := range out.Result.All {
		resp.All = append(resp.All, newCollisionMessage(c))
	}
	return reply(resp)
}

// ResetFog resets every user's fog on a scene
func (h *Handler) ResetFog(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	in, err := decodeSession(req)
	if err != nil {
		return nil, err
	}
	if _, err := h.perceptionService.ResetFog(ctx, &perception.ResetFogInput{
		SceneID: in.SceneID,
		UserID:  in.UserID,
	}); err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return &emptypb.Empty{}, nil
}

// SaveFog flushes a user's fog to storage
func (h *Handler) SaveFog(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	in, err := decodeSession(req)
	if err != nil {
		return nil, err
	}
	if _, err := h.perceptionService.SaveFog(ctx, &perception.SaveFogInput{
		SceneID: in.SceneID,
		UserID:  in.UserID,
	}); err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return &emptypb.Empty{}, nil
}

// GetFogImage returns a user's committed fog raster as a JPEG data URL
func (h *Handler) GetFogImage(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in FogImageRequest
	if err := Decode(req, &in); err != nil {
		return nil, errors.ToGRPCError(err)
	}
	if err := requireSession(in.SceneID, in.UserID); err != nil {
		return nil, err
	}
	if in.RequesterID == "" {
		in.RequesterID = in.UserID
	}

	out, err := h.perceptionService.FogImage(ctx, &perception.FogImageInput{
		SceneID:     in.SceneID,
		UserID:      in.UserID,
		RequesterID: in.RequesterID,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	dataURL, bounds, err := fog.EncodeRaster(out.Image, fog.MaxTextureSize)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return reply(&FogImageResponse{
		Image:      dataURL,
		Width:      bounds.Dx(),
		Height:     bounds.Dy(),
		Resolution: out.Resolution,
	})
}

func decodeSession(req *structpb.Struct) (*SessionRequest, error) {
	var in SessionRequest
	if err := Decode(req, &in); err != nil {
		return nil, errors.ToGRPCError(err)
	}
	if err := requireSession(in.SceneID, in.UserID); err != nil {
		return nil, err
	}
	return &in, nil
}

func requireSession(sceneID, userID string) error {
	if sceneID == "" {
		return errors.ToGRPCError(errors.InvalidArgument("scene_id is required"))
	}
	if userID == "" {
		return errors.ToGRPCError(errors.InvalidArgument("user_id is required"))
	}
	return nil
}
