package perception

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/KirkDiggler/rpg-perception/internal/engine"
	"github.com/KirkDiggler/rpg-perception/internal/entities"
	"github.com/KirkDiggler/rpg-perception/internal/errors"
	"github.com/KirkDiggler/rpg-perception/internal/scheduler"
	"github.com/KirkDiggler/rpg-perception/internal/sources"
	"github.com/KirkDiggler/rpg-perception/internal/walls"
)

const (
	lightPrefix  = "light:"
	visionPrefix = "vision:"
)

// sceneState is the shared state of a loaded scene. Walls and documents are shared;
// every user session keeps its own sources, mask and fog.
type sceneState struct {
	id     string
	scene  entities.Scene
	dims   entities.Dimensions
	walls  *walls.Store
	engine engine.Engine

	mu         sync.RWMutex
	lights     map[string]entities.Light
	sounds     map[string]entities.Light
	placeables map[string]*entities.Placeable
	byUser     map[string]*session
}

func newSceneState(scene *entities.Scene, density int) (*sceneState, error) {
	dims := scene.Dimensions()
	store := walls.NewStore(&walls.Config{CellSize: dims.Size})
	store.SetBoundaries(dims.Rect, dims.SceneRect)
	for _, w := range scene.Walls {
		if _, err := store.Upsert(w); err != nil {
			return nil, errors.Wrapf(err, "failed to load wall %s", w.ID)
		}
	}

	eng, err := engine.New(&engine.Config{Walls: store, Bounds: dims.Rect, Density: density})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create polygon engine")
	}

	sc := &sceneState{
		id:         scene.ID,
		scene:      *scene,
		dims:       dims,
		walls:      store,
		engine:     eng,
		lights:     make(map[string]entities.Light),
		sounds:     make(map[string]entities.Light),
		placeables: make(map[string]*entities.Placeable),
		byUser:     make(map[string]*session),
	}
	for _, l := range scene.Lights {
		sc.lights[l.ID] = l
	}
	for _, l := range scene.Sounds {
		sc.sounds[l.ID] = l
	}
	for i := range scene.Placeables {
		p := scene.Placeables[i]
		sc.placeables[p.ID] = &p
	}

	store.Subscribe(sc.onWallChange)
	return sc, nil
}

// onWallChange re-initializes the sources a wall touches in every session. A moved
// wall may have left a source's area, so updates re-initialize everything.
func (sc *sceneState) onWallChange(rec *walls.Record, kind walls.ChangeKind) {
	for _, sess := range sc.sessions() {
		var err error
		if kind == walls.ChangeUpdate {
			err = sess.registry.InvalidateAll()
		} else {
			_, err = sess.registry.InvalidateCrossing(rec)
		}
		if err != nil {
			slog.Warn("failed to invalidate sources after wall change",
				"scene_id", sc.id,
				"user_id", sess.userID,
				"wall_id", rec.ID(),
				"change", kind,
				"error", err)
		}
		sess.scheduler.Update(scheduler.RefreshLighting, true)
	}
}

func (sc *sceneState) session(userID string) (*session, bool) {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	sess, ok := sc.byUser[userID]
	return sess, ok
}

// addSession registers a session unless the user raced another load
func (sc *sceneState) addSession(sess *session) (*session, bool) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if existing, ok := sc.byUser[sess.userID]; ok {
		return existing, false
	}
	sc.byUser[sess.userID] = sess
	return sess, true
}

// removeSession drops a session and returns how many remain
func (sc *sceneState) removeSession(userID string) int {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	delete(sc.byUser, userID)
	return len(sc.byUser)
}

func (sc *sceneState) sessions() []*session {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	out := make([]*session, 0, len(sc.byUser))
	for _, sess := range sc.byUser {
		out = append(out, sess)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].userID < out[j].userID })
	return out
}

// standalone returns the scene's lights and sounds as sources ordered by id
func (sc *sceneState) standalone() []*sources.Source {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	out := make([]*sources.Source, 0, len(sc.lights)+len(sc.sounds))
	for _, l := range sc.lights {
		out = append(out, &sources.Source{ID: l.ID, Kind: sources.KindLight, Object: l.ID, Data: l.Data})
	}
	for _, l := range sc.sounds {
		out = append(out, &sources.Source{ID: l.ID, Kind: sources.KindSound, Object: l.ID, Data: l.Data})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// placeableList returns copies of the placeables ordered by id
func (sc *sceneState) placeableList() []*entities.Placeable {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	out := make([]*entities.Placeable, 0, len(sc.placeables))
	for _, p := range sc.placeables {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (sc *sceneState) upsertSource(kind sources.Kind, l entities.Light) error {
	sc.mu.Lock()
	if kind == sources.KindLight {
		if _, ok := sc.sounds[l.ID]; ok {
			sc.mu.Unlock()
			return errors.AlreadyExistsf("source %s is a sound", l.ID)
		}
		sc.lights[l.ID] = l
	} else {
		if _, ok := sc.lights[l.ID]; ok {
			sc.mu.Unlock()
			return errors.AlreadyExistsf("source %s is a light", l.ID)
		}
		sc.sounds[l.ID] = l
	}
	sc.mu.Unlock()

	src := &sources.Source{ID: l.ID, Kind: kind, Object: l.ID, Data: l.Data}
	for _, sess := range sc.sessions() {
		if err := sess.registry.Add(src); err != nil {
			return errors.Wrapf(err, "failed to add source %s", l.ID)
		}
		if kind == sources.KindLight {
			sess.scheduler.Update(scheduler.RefreshLighting, true)
		}
	}
	return nil
}

func (sc *sceneState) removeSource(id string) error {
	sc.mu.Lock()
	_, isLight := sc.lights[id]
	_, isSound := sc.sounds[id]
	if !isLight && !isSound {
		sc.mu.Unlock()
		return errors.NotFoundf("source %s not found", id)
	}
	delete(sc.lights, id)
	delete(sc.sounds, id)
	sc.mu.Unlock()

	for _, sess := range sc.sessions() {
		if err := sess.registry.Remove(id); err != nil && !errors.IsNotFound(err) {
			return err
		}
		if isLight {
			sess.scheduler.Update(scheduler.RefreshLighting, true)
		}
	}
	return nil
}

func (sc *sceneState) upsertPlaceable(p *entities.Placeable) error {
	vb := errors.NewValidationBuilder()
	if p.ID == "" {
		vb.RequiredField("id")
	}
	switch p.Kind {
	case entities.PlaceableToken, entities.PlaceableNote, entities.PlaceableTile:
	default:
		vb.InvalidField("kind", "must be token, note or tile")
	}
	if err := vb.Build(); err != nil {
		return err
	}

	cp := *p
	sc.mu.Lock()
	sc.placeables[cp.ID] = &cp
	sc.mu.Unlock()

	for _, sess := range sc.sessions() {
		if err := sess.syncPlaceable(&cp); err != nil {
			return err
		}
	}
	return nil
}
