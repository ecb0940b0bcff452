// Package perception wires walls, sources, visibility, fog and the frame
// scheduler of loaded scenes into one service
package perception

//go:generate mockgen -destination=mock/mock_service.go -package=perceptionmock github.com/KirkDiggler/rpg-perception/internal/orchestrators/perception Service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/KirkDiggler/rpg-perception/internal/clients/socket"
	"github.com/KirkDiggler/rpg-perception/internal/errors"
	"github.com/KirkDiggler/rpg-perception/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-perception/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-perception/internal/render"
	fogexploration "github.com/KirkDiggler/rpg-perception/internal/repositories/fog_exploration"
	"github.com/KirkDiggler/rpg-perception/internal/sources"
	"github.com/KirkDiggler/rpg-perception/internal/visibility"
	"github.com/KirkDiggler/rpg-perception/internal/walls"
)

// Service defines the perception operations
type Service interface {
	// LoadScene opens a session for a user, loading the scene on first use
	LoadScene(ctx context.Context, input *LoadSceneInput) (*LoadSceneOutput, error)

	// UnloadScene flushes and closes a user's session
	UnloadScene(ctx context.Context, input *UnloadSceneInput) (*UnloadSceneOutput, error)

	// ApplyWallChange creates, updates or deletes a wall
	ApplyWallChange(ctx context.Context, input *ApplyWallChangeInput) (*ApplyWallChangeOutput, error)

	// SetDoorState changes a door and invalidates the sources it touches
	SetDoorState(ctx context.Context, input *SetDoorStateInput) (*SetDoorStateOutput, error)

	// UpsertSource adds or replaces a standalone light or sound
	UpsertSource(ctx context.Context, input *UpsertSourceInput) (*UpsertSourceOutput, error)

	// RemoveSource removes a standalone light or sound
	RemoveSource(ctx context.Context, input *RemoveSourceInput) (*RemoveSourceOutput, error)

	// UpsertPlaceable adds or replaces a token, note or tile
	UpsertPlaceable(ctx context.Context, input *UpsertPlaceableInput) (*UpsertPlaceableOutput, error)

	// Tick drains one frame of a session
	Tick(ctx context.Context, input *TickInput) (*TickOutput, error)

	// TestVisibility tests whether a user sees a point
	TestVisibility(ctx context.Context, input *TestVisibilityInput) (*TestVisibilityOutput, error)

	// CanHear tests whether a point is inside an active sound
	CanHear(ctx context.Context, input *CanHearInput) (*CanHearOutput, error)

	// ComputePolygon computes a polygon against a scene's walls
	ComputePolygon(ctx context.Context, input *ComputePolygonInput) (*ComputePolygonOutput, error)

	// TestCollision casts a segment against a scene's walls
	TestCollision(ctx context.Context, input *TestCollisionInput) (*TestCollisionOutput, error)

	// ResetFog deletes every user's fog on a scene. GM only.
	ResetFog(ctx context.Context, input *ResetFogInput) (*ResetFogOutput, error)

	// SaveFog flushes a user's fog immediately
	SaveFog(ctx context.Context, input *SaveFogInput) (*SaveFogOutput, error)

	// FogImage returns a user's committed fog raster
	FogImage(ctx context.Context, input *FogImageInput) (*FogImageOutput, error)

	// Close flushes and closes every session
	Close(ctx context.Context) error
}

// FogOptions tunes every fog manager the orchestrator creates
type FogOptions struct {
	CommitThreshold int
	SaveDelay       time.Duration
	MaxTextureSize  int
	// Overlay overrides the scene's fog overlay texture when set
	Overlay string
}

// Config holds the dependencies for the perception orchestrator
type Config struct {
	Host        render.Host
	Repository  fogexploration.Repository
	Broadcaster socket.Broadcaster
	Clock       clock.Clock
	IDGenerator idgen.Generator
	Modes       *visibility.DetectionModes

	Fog     FogOptions
	Density int
	// TickInterval runs every session's frames in the background when positive
	TickInterval time.Duration
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config is required")
	}
	vb := errors.NewValidationBuilder()
	if c.Host == nil {
		vb.RequiredField("Host")
	}
	if c.Repository == nil {
		vb.RequiredField("Repository")
	}
	if c.Density < 0 {
		vb.InvalidField("Density", "must be non-negative")
	}
	if c.TickInterval < 0 {
		vb.InvalidField("TickInterval", "must be non-negative")
	}
	return vb.Build()
}

type orchestrator struct {
	host         render.Host
	repo         fogexploration.Repository
	broadcaster  socket.Broadcaster
	clock        clock.Clock
	idGen        idgen.Generator
	modes        *visibility.DetectionModes
	fogOpts      FogOptions
	density      int
	tickInterval time.Duration

	// runCtx outlives requests and bounds background frame loops
	runCtx    context.Context
	runCancel context.CancelFunc

	mu     sync.RWMutex
	scenes map[string]*sceneState
}

// NewOrchestrator creates a perception orchestrator
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	o := &orchestrator{
		host:         cfg.Host,
		repo:         cfg.Repository,
		broadcaster:  cfg.Broadcaster,
		clock:        cfg.Clock,
		idGen:        cfg.IDGenerator,
		modes:        cfg.Modes,
		fogOpts:      cfg.Fog,
		density:      cfg.Density,
		tickInterval: cfg.TickInterval,
		scenes:       make(map[string]*sceneState),
	}
	if o.broadcaster == nil {
		o.broadcaster = socket.NewLocal()
	}
	if o.clock == nil {
		o.clock = clock.New()
	}
	if o.idGen == nil {
		o.idGen = idgen.NewUUID("session")
	}
	if o.modes == nil {
		o.modes = visibility.NewDetectionModes()
	}
	o.runCtx, o.runCancel = context.WithCancel(context.Background())
	return o, nil
}

func (o *orchestrator) scene(id string) (*sceneState, error) {
	if id == "" {
		return nil, errors.InvalidArgument("scene id is required")
	}
	o.mu.RLock()
	defer o.mu.RUnlock()
	sc, ok := o.scenes[id]
	if !ok {
		return nil, errors.NotFoundf("scene %s is not loaded", id)
	}
	return sc, nil
}

func (o *orchestrator) session(sceneID, userID string) (*session, error) {
	if userID == "" {
		return nil, errors.InvalidArgument("user id is required")
	}
	sc, err := o.scene(sceneID)
	if err != nil {
		return nil, err
	}
	sess, ok := sc.session(userID)
	if !ok {
		return nil, errors.NotFoundf("user %s has no session on scene %s", userID, sceneID)
	}
	return sess, nil
}

// LoadScene opens a session for a user. The first load builds the scene's walls;
// later loads of a loaded scene reuse them.
func (o *orchestrator) LoadScene(ctx context.Context, input *LoadSceneInput) (*LoadSceneOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.UserID == "" {
		return nil, errors.InvalidArgument("user id is required")
	}
	if err := input.Scene.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid scene")
	}

	o.mu.Lock()
	sc, ok := o.scenes[input.Scene.ID]
	if !ok {
		var err error
		sc, err = newSceneState(input.Scene, o.density)
		if err != nil {
			o.mu.Unlock()
			return nil, err
		}
		o.scenes[input.Scene.ID] = sc
		slog.Info("scene loaded",
			"scene_id", input.Scene.ID,
			"walls", len(input.Scene.Walls),
			"placeables", len(input.Scene.Placeables))
	}
	o.mu.Unlock()

	if sess, ok := sc.session(input.UserID); ok {
		return sess.output(), nil
	}

	sess, err := o.openSession(ctx, sc, input.UserID, input.IsGM)
	if err != nil {
		return nil, err
	}
	if existing, added := sc.addSession(sess); !added {
		sess.close(ctx)
		return existing.output(), nil
	}

	if o.tickInterval > 0 {
		sess.start(o.runCtx)
	}
	slog.Info("perception session opened",
		"scene_id", sc.id,
		"user_id", input.UserID,
		"session_id", sess.id,
		"fog", sess.fog != nil)
	return sess.output(), nil
}

// UnloadScene flushes and closes a session, dropping the scene with its last session
func (o *orchestrator) UnloadScene(ctx context.Context, input *UnloadSceneInput) (*UnloadSceneOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	sess, err := o.session(input.SceneID, input.UserID)
	if err != nil {
		return nil, err
	}
	sess.close(ctx)

	o.mu.Lock()
	if sc, ok := o.scenes[input.SceneID]; ok && sc.removeSession(input.UserID) == 0 {
		delete(o.scenes, input.SceneID)
		slog.Info("scene unloaded", "scene_id", input.SceneID)
	}
	o.mu.Unlock()
	return &UnloadSceneOutput{}, nil
}

// ApplyWallChange applies a wall document change. Sources crossing the wall are
// re-initialized by the scene's wall listener.
func (o *orchestrator) ApplyWallChange(_ context.Context, input *ApplyWallChangeInput) (*ApplyWallChangeOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	sc, err := o.scene(input.SceneID)
	if err != nil {
		return nil, err
	}

	switch input.Kind {
	case walls.ChangeCreate, walls.ChangeUpdate:
		rec, err := sc.walls.Upsert(input.Wall)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to apply wall %s", input.Wall.ID)
		}
		return &ApplyWallChangeOutput{Intersections: len(rec.IntersectsWith)}, nil
	case walls.ChangeDelete:
		if err := sc.walls.Remove(input.Wall.ID); err != nil {
			return nil, errors.Wrapf(err, "failed to delete wall %s", input.Wall.ID)
		}
		return &ApplyWallChangeOutput{}, nil
	default:
		return nil, errors.InvalidArgumentf("unsupported wall change %q", input.Kind)
	}
}

// SetDoorState changes a door's state
func (o *orchestrator) SetDoorState(_ context.Context, input *SetDoorStateInput) (*SetDoorStateOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	sc, err := o.scene(input.SceneID)
	if err != nil {
		return nil, err
	}
	rec, err := sc.walls.OnDoorChange(input.WallID, input.State)
	if err != nil {
		return nil, err
	}
	return &SetDoorStateOutput{Wall: rec.Wall}, nil
}

// UpsertSource adds or replaces a standalone light or sound in every session
func (o *orchestrator) UpsertSource(_ context.Context, input *UpsertSourceInput) (*UpsertSourceOutput, error) {
	if input == nil || input.Source == nil {
		return nil, errors.InvalidArgument("source is required")
	}
	if input.Kind != sources.KindLight && input.Kind != sources.KindSound {
		return nil, errors.InvalidArgumentf("standalone sources must be light or sound, got %q", input.Kind)
	}
	if input.Source.ID == "" {
		return nil, errors.InvalidArgument("source id is required")
	}
	sc, err := o.scene(input.SceneID)
	if err != nil {
		return nil, err
	}
	if err := sc.upsertSource(input.Kind, *input.Source); err != nil {
		return nil, err
	}
	return &UpsertSourceOutput{}, nil
}

// RemoveSource removes a standalone light or sound from every session
func (o *orchestrator) RemoveSource(_ context.Context, input *RemoveSourceInput) (*RemoveSourceOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	sc, err := o.scene(input.SceneID)
	if err != nil {
		return nil, err
	}
	if err := sc.removeSource(input.SourceID); err != nil {
		return nil, err
	}
	return &RemoveSourceOutput{}, nil
}

// UpsertPlaceable adds or replaces a placeable and its sources in every session
func (o *orchestrator) UpsertPlaceable(_ context.Context, input *UpsertPlaceableInput) (*UpsertPlaceableOutput, error) {
	if input == nil || input.Placeable == nil {
		return nil, errors.InvalidArgument("placeable is required")
	}
	sc, err := o.scene(input.SceneID)
	if err != nil {
		return nil, err
	}
	if err := sc.upsertPlaceable(input.Placeable); err != nil {
		return nil, err
	}
	return &UpsertPlaceableOutput{}, nil
}

// Tick drains one frame of a session
func (o *orchestrator) Tick(ctx context.Context, input *TickInput) (*TickOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	sess, err := o.session(input.SceneID, input.UserID)
	if err != nil {
		return nil, err
	}

	flags, err := sess.scheduler.Drain(ctx)
	if err != nil {
		// the frame completed; failed steps were logged and retry next frame
		slog.Warn("perception frame had failures",
			"scene_id", input.SceneID,
			"user_id", input.UserID,
			"error", err)
	}
	placeables, doors := sess.results()
	return &TickOutput{Flags: flags, Placeables: placeables, Doors: doors}, nil
}

// TestVisibility tests a point against the session's last frame
func (o *orchestrator) TestVisibility(_ context.Context, input *TestVisibilityInput) (*TestVisibilityOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	sess, err := o.session(input.SceneID, input.UserID)
	if err != nil {
		return nil, err
	}

	opts := visibility.TestOptions{Tolerance: input.Tolerance, Object: input.Object, IsGM: sess.isGM}
	out := &TestVisibilityOutput{Visible: sess.compositor.TestVisibility(input.Point, opts)}
	if input.Object != nil {
		out.DetectionFilter = input.Object.DetectionFilter
	}
	return out, nil
}

// CanHear tests a point against the session's active sounds
func (o *orchestrator) CanHear(_ context.Context, input *CanHearInput) (*CanHearOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	sess, err := o.session(input.SceneID, input.UserID)
	if err != nil {
		return nil, err
	}

	out := &CanHearOutput{}
	for _, src := range sess.registry.Snapshot(sources.KindSound) {
		if src.Active && src.FOV.Contains(input.Point) {
			out.SourceIDs = append(out.SourceIDs, src.ID)
		}
	}
	out.Audible = len(out.SourceIDs) > 0
	return out, nil
}

// ComputePolygon computes a polygon against the scene's walls
func (o *orchestrator) ComputePolygon(_ context.Context, input *ComputePolygonInput) (*ComputePolygonOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	sc, err := o.scene(input.SceneID)
	if err != nil {
		return nil, err
	}
	poly, err := sc.engine.Compute(input.Origin, input.Config)
	if err != nil {
		return nil, err
	}
	return &ComputePolygonOutput{Polygon: poly}, nil
}

// TestCollision casts a segment against the scene's walls
func (o *orchestrator) TestCollision(_ context.Context, input *TestCollisionInput) (*TestCollisionOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	sc, err := o.scene(input.SceneID)
	if err != nil {
		return nil, err
	}
	result, err := sc.engine.TestCollision(input.Origin, input.Destination, input.Config)
	if err != nil {
		return nil, err
	}
	return &TestCollisionOutput{Result: result}, nil
}

// ResetFog deletes the scene's fog for every user and notifies other sessions
func (o *orchestrator) ResetFog(ctx context.Context, input *ResetFogInput) (*ResetFogOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	sess, err := o.session(input.SceneID, input.UserID)
	if err != nil {
		return nil, err
	}
	if !sess.isGM {
		return nil, errors.PermissionDenied("only a GM can reset fog exploration").
			WithScene(input.SceneID, input.UserID)
	}
	if sess.fog == nil {
		return nil, errors.FailedPreconditionf("fog exploration is disabled on scene %s", input.SceneID)
	}
	if err := sess.fog.Reset(ctx); err != nil {
		return nil, err
	}
	return &ResetFogOutput{}, nil
}

// SaveFog flushes a session's fog without waiting for the debounce
func (o *orchestrator) SaveFog(ctx context.Context, input *SaveFogInput) (*SaveFogOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	sess, err := o.session(input.SceneID, input.UserID)
	if err != nil {
		return nil, err
	}
	if sess.fog == nil {
		return nil, errors.FailedPreconditionf("fog exploration is disabled on scene %s", input.SceneID)
	}
	if err := sess.fog.Save(ctx); err != nil {
		return nil, err
	}
	return &SaveFogOutput{}, nil
}

// FogImage returns a user's committed raster. Only the owner or a GM may read it.
func (o *orchestrator) FogImage(_ context.Context, input *FogImageInput) (*FogImageOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.RequesterID != input.UserID && !o.isGM(input.SceneID, input.RequesterID) {
		return nil, errors.PermissionDenied("cannot read another user's fog exploration").
			WithScene(input.SceneID, input.UserID)
	}
	sess, err := o.session(input.SceneID, input.UserID)
	if err != nil {
		return nil, err
	}
	if sess.fog == nil {
		return nil, errors.FailedPreconditionf("fog exploration is disabled on scene %s", input.SceneID)
	}
	img, err := sess.fog.Raster()
	if err != nil {
		return nil, err
	}
	return &FogImageOutput{Image: img, Resolution: sess.fog.Resolution()}, nil
}

// isGM reports whether a user holds a GM session on the scene. Users without a
// session are players.
func (o *orchestrator) isGM(sceneID, userID string) bool {
	sess, err := o.session(sceneID, userID)
	return err == nil && sess.isGM
}

// Close flushes every session and stops background frames
func (o *orchestrator) Close(ctx context.Context) error {
	o.runCancel()

	o.mu.Lock()
	scenes := o.scenes
	o.scenes = make(map[string]*sceneState)
	o.mu.Unlock()

	for _, sc := range scenes {
		for _, sess := range sc.sessions() {
			sess.close(ctx)
		}
	}
	return nil
}
