package perception

import (
	"context"
	"log/slog"
	"sync"

	"github.com/KirkDiggler/rpg-perception/internal/clients/socket"
	"github.com/KirkDiggler/rpg-perception/internal/entities"
	"github.com/KirkDiggler/rpg-perception/internal/errors"
	"github.com/KirkDiggler/rpg-perception/internal/fog"
	"github.com/KirkDiggler/rpg-perception/internal/geometry"
	"github.com/KirkDiggler/rpg-perception/internal/scheduler"
	"github.com/KirkDiggler/rpg-perception/internal/sources"
	"github.com/KirkDiggler/rpg-perception/internal/visibility"
)

// restriction is the visibility result of one placeable for one user
type restriction struct {
	visible bool
	filter  string
}

// session is one user's view of a scene
type session struct {
	id     string
	userID string
	isGM   bool
	scene  *sceneState

	registry   *sources.Registry
	compositor *visibility.Compositor
	fog        *fog.Manager
	scheduler  *scheduler.Scheduler

	mu sync.RWMutex
	// maskFresh is set when lighting already rebuilt the mask this frame
	maskFresh bool
	visible   map[string]restriction
	doors     map[string]bool

	unsubscribe func()
	stop        context.CancelFunc
	done        chan struct{}
}

var _ scheduler.Pipeline = (*session)(nil)

func (o *orchestrator) openSession(ctx context.Context, sc *sceneState, userID string, isGM bool) (*session, error) {
	registry, err := sources.NewRegistry(&sources.Config{Engine: sc.engine})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create source registry")
	}
	compositor, err := visibility.New(&visibility.Config{
		Registry:  registry,
		Engine:    sc.engine,
		Modes:     o.modes,
		SceneRect: sc.dims.SceneRect,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create compositor")
	}

	sess := &session{
		id:         o.idGen.Generate(),
		userID:     userID,
		isGM:       isGM,
		scene:      sc,
		registry:   registry,
		compositor: compositor,
		visible:    make(map[string]restriction),
		doors:      make(map[string]bool),
	}
	sess.scheduler, err = scheduler.New(&scheduler.Config{Pipeline: sess, Interval: o.tickInterval})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create scheduler")
	}

	for _, src := range sc.standalone() {
		if err := registry.Add(src); err != nil {
			return nil, errors.Wrapf(err, "failed to add source %s", src.ID)
		}
	}
	for _, p := range sc.placeableList() {
		if err := sess.addPlaceableSources(p); err != nil {
			return nil, err
		}
	}

	if sc.scene.FogExploration && sc.scene.TokenVision {
		overlay := sc.scene.FogOverlay
		if o.fogOpts.Overlay != "" {
			overlay = o.fogOpts.Overlay
		}
		sess.fog, err = fog.New(&fog.Config{
			Host:            o.host,
			Repository:      o.repo,
			Broadcaster:     o.broadcaster,
			Clock:           o.clock,
			SceneID:         sc.id,
			UserID:          userID,
			Dimensions:      sc.dims,
			CommitThreshold: o.fogOpts.CommitThreshold,
			SaveDelay:       o.fogOpts.SaveDelay,
			MaxTextureSize:  o.fogOpts.MaxTextureSize,
			Overlay:         overlay,
			Origin:          sess.id,
			OnReset: func() {
				sess.scheduler.Update(scheduler.InitializeVision, true)
			},
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to create fog manager")
		}
		if err := sess.fog.Load(ctx, fog.LoadOptions{RequesterID: userID, IsGM: isGM}); err != nil {
			sess.fog.Close()
			return nil, errors.Wrap(err, "failed to load fog exploration")
		}

		sess.unsubscribe, err = o.broadcaster.Subscribe(ctx, sess.onEvent)
		if err != nil {
			sess.fog.Close()
			return nil, errors.Wrap(err, "failed to subscribe to scene events")
		}
	}

	sess.scheduler.Update(scheduler.InitializeSounds|scheduler.InitializeLighting|scheduler.InitializeVision, true)
	return sess, nil
}

// onEvent handles socket events. A reset from another session is applied on the
// next frame so it never interleaves with a drain.
func (s *session) onEvent(event socket.Event) {
	if event.Type != socket.EventResetFog || event.SceneID != s.scene.id || event.Origin == s.id {
		return
	}
	s.scheduler.Post(s.fog.HandleReset)
}

func (s *session) output() *LoadSceneOutput {
	out := &LoadSceneOutput{SessionID: s.id, FogEnabled: s.fog != nil}
	if s.fog != nil {
		out.Resolution = s.fog.Resolution()
	}
	return out
}

// start drains frames in the background until ctx ends or the session closes
func (s *session) start(ctx context.Context) {
	ctx, s.stop = context.WithCancel(ctx)
	s.done = make(chan struct{})
	go func() {
		defer close(s.done)
		if err := s.scheduler.Run(ctx); err != nil && ctx.Err() == nil {
			slog.Error("perception frame loop stopped",
				"scene_id", s.scene.id,
				"user_id", s.userID,
				"error", err)
		}
	}()
}

// close stops the frame loop, flushes fog and releases its textures
func (s *session) close(ctx context.Context) {
	if s.stop != nil {
		s.stop()
		<-s.done
	}
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
	if s.fog != nil {
		if err := s.fog.Save(ctx); err != nil {
			slog.Error("failed to save fog exploration on close",
				"scene_id", s.scene.id,
				"user_id", s.userID,
				"error", err)
		}
		s.fog.Close()
	}
	s.registry.Clear()
}

// addPlaceableSources registers a token's light, and its vision when the user
// sees through it
func (s *session) addPlaceableSources(p *entities.Placeable) error {
	center := p.Center()
	if p.Light != nil {
		data := *p.Light
		data.X, data.Y, data.Elevation = center.X, center.Y, p.Elevation
		src := &sources.Source{ID: lightPrefix + p.ID, Kind: sources.KindLight, Object: p.ID, Data: data}
		if err := s.registry.Add(src); err != nil {
			return errors.Wrapf(err, "failed to add light of %s", p.ID)
		}
	}
	if p.Vision != nil && p.Kind == entities.PlaceableToken && p.OwnedBy(s.userID) {
		data := *p.Vision
		data.X, data.Y, data.Elevation = center.X, center.Y, p.Elevation
		src := &sources.Source{ID: visionPrefix + p.ID, Kind: sources.KindVision, Object: p.ID, Data: data}
		if err := s.registry.Add(src); err != nil {
			return errors.Wrapf(err, "failed to add vision of %s", p.ID)
		}
	}
	return nil
}

// syncPlaceable replaces a placeable's sources and schedules the work it needs
func (s *session) syncPlaceable(p *entities.Placeable) error {
	removed := false
	for _, id := range []string{lightPrefix + p.ID, visionPrefix + p.ID} {
		err := s.registry.Remove(id)
		if err == nil {
			removed = true
		} else if !errors.IsNotFound(err) {
			return err
		}
	}
	if err := s.addPlaceableSources(p); err != nil {
		return err
	}

	switch {
	case removed || p.Light != nil || p.Vision != nil:
		s.scheduler.Update(scheduler.RefreshLighting, true)
	case p.Kind == entities.PlaceableTile:
		s.scheduler.Update(scheduler.RefreshTiles, true)
	default:
		s.scheduler.Update(scheduler.RefreshVision, true)
	}
	return nil
}

// InitializeSounds re-initializes every sound
func (s *session) InitializeSounds(_ context.Context) error {
	return s.registry.InvalidateAll(sources.KindSound)
}

// InitializeLighting re-initializes every light
func (s *session) InitializeLighting(_ context.Context) error {
	return s.registry.InvalidateAll(sources.KindLight)
}

// InitializeVision re-initializes every vision source
func (s *session) InitializeVision(_ context.Context) error {
	return s.registry.InvalidateAll(sources.KindVision)
}

// RefreshLighting rebuilds the mask from the current sources
func (s *session) RefreshLighting(_ context.Context) error {
	s.compositor.Refresh()
	s.mu.Lock()
	s.maskFresh = true
	s.mu.Unlock()
	return nil
}

// RefreshVision rebuilds the mask unless lighting just did, then feeds fog
func (s *session) RefreshVision(_ context.Context, forceFog bool) error {
	s.mu.Lock()
	fresh := s.maskFresh
	s.maskFresh = false
	s.mu.Unlock()

	mask := s.compositor.Mask()
	if !fresh {
		mask = s.compositor.Refresh()
	}
	if s.fog == nil {
		return nil
	}
	_, err := s.fog.Refresh(mask, s.compositor.VisionSources(), forceFog)
	return err
}

// UpdateFog saves fog once its debounce has passed
func (s *session) UpdateFog(ctx context.Context) error {
	if s.fog == nil {
		return nil
	}
	return s.fog.Tick(ctx)
}

// RestrictVisibility decides which placeables and door controls the user sees
func (s *session) RestrictVisibility(_ context.Context, tilesOnly bool) error {
	results := make(map[string]restriction)
	for _, p := range s.scene.placeableList() {
		if tilesOnly && p.Kind != entities.PlaceableTile {
			continue
		}
		results[p.ID] = s.restrict(p)
	}

	var doors map[string]bool
	if !tilesOnly {
		doors = make(map[string]bool)
		for _, rec := range s.scene.walls.All() {
			if rec.Boundary || !rec.Wall.IsDoor() {
				continue
			}
			doors[rec.Wall.ID] = s.testPoint(rec.Wall.Midpoint(), 0, &visibility.Target{
				ID:   rec.Wall.ID,
				Kind: visibility.TargetDoor,
			})
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if tilesOnly {
		for id, r := range s.visible {
			if _, ok := results[id]; !ok {
				results[id] = r
			}
		}
	} else {
		s.doors = doors
	}
	s.visible = results
	return nil
}

func (s *session) restrict(p *entities.Placeable) restriction {
	if p.Hidden && !s.isGM {
		return restriction{}
	}
	if !s.scene.scene.TokenVision {
		return restriction{visible: true}
	}
	// a token with owners is always visible to them
	if p.Kind == entities.PlaceableToken && len(p.Owners) > 0 && p.OwnedBy(s.userID) {
		return restriction{visible: true}
	}
	target := &visibility.Target{
		ID:        p.ID,
		Kind:      visibility.TargetKind(p.Kind),
		Elevation: p.Elevation,
		Invisible: p.Invisible,
	}
	visible := s.testPoint(p.Center(), p.Tolerance(), target)
	return restriction{visible: visible, filter: target.DetectionFilter}
}

func (s *session) testPoint(point geometry.Point, tolerance float64, target *visibility.Target) bool {
	if !s.scene.scene.TokenVision {
		return true
	}
	return s.compositor.TestVisibility(point, visibility.TestOptions{
		Tolerance: tolerance,
		Object:    target,
		IsGM:      s.isGM,
	})
}

// results returns the placeables with this user's visibility and the door controls
func (s *session) results() ([]*entities.Placeable, map[string]bool) {
	placeables := s.scene.placeableList()

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range placeables {
		r := s.visible[p.ID]
		p.Visible, p.DetectionFilter = r.visible, r.filter
	}
	doors := make(map[string]bool, len(s.doors))
	for id, v := range s.doors {
		doors[id] = v
	}
	return placeables, doors
}
