package walls

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/KirkDiggler/rpg-perception/internal/errors"
	"github.com/KirkDiggler/rpg-perception/internal/geometry"
)

// ChangeKind describes what happened to a wall
type ChangeKind string

const (
	ChangeCreate ChangeKind = "create"
	ChangeUpdate ChangeKind = "update"
	ChangeDelete ChangeKind = "delete"
	ChangeDoor   ChangeKind = "door"
)

// Listener is notified after a wall mutation has been applied
type Listener func(rec *Record, kind ChangeKind)

const boundaryIDPrefix = "__boundary"

// Config configures a Store
type Config struct {
	// CellSize is the edge length of a spatial index cell in scene pixels
	CellSize float64
}

// Store owns the walls of the active scene. Records are arena-allocated by slot and
// copy-on-write: readers may hold a record after the lock is released while
// writers publish replacements.
type Store struct {
	mu        sync.RWMutex
	records   []*Record
	free      []int
	byID      map[string]int
	index     *grid
	outer     []int
	inner     []int
	listeners []Listener
}

// NewStore creates an empty wall store
func NewStore(cfg *Config) *Store {
	size := defaultCellSize
	if cfg != nil && cfg.CellSize > 0 {
		size = cfg.CellSize
	}
	return &Store{
		byID:  make(map[string]int),
		index: newGrid(size),
	}
}

// Subscribe registers a listener for wall changes
func (s *Store) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

func (s *Store) notify(rec *Record, kind ChangeKind) {
	s.mu.RLock()
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.RUnlock()
	for _, l := range listeners {
		l(rec, kind)
	}
}

// Upsert creates or replaces a wall and rebuilds its intersections
func (s *Store) Upsert(w Wall) (*Record, error) {
	if w.ID == "" {
		return nil, errors.InvalidArgument("wall id is required")
	}
	if w.A().Equals(w.B()) {
		return nil, errors.InvalidArgumentf("wall %s has zero length", w.ID)
	}

	s.mu.Lock()
	kind := ChangeUpdate
	slot, ok := s.byID[w.ID]
	var rec *Record
	if ok {
		rec = s.records[slot]
		if rec.Boundary {
			s.mu.Unlock()
			return nil, errors.PermissionDeniedf("wall %s is a scene boundary", w.ID)
		}
		s.index.remove(slot)
		rec = s.replace(slot)
		rec.setWall(w)
	} else {
		kind = ChangeCreate
		rec = s.allocate(w)
	}
	s.index.insert(rec.Slot, rec.Bounds())
	s.rebuildIntersections(rec)
	s.mu.Unlock()

	s.notify(rec, kind)
	return rec, nil
}

// Remove deletes a wall and drops it from every peer's intersection map
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	slot, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		return errors.NotFoundf("wall %s not found", id)
	}
	rec := s.records[slot]
	if rec.Boundary {
		s.mu.Unlock()
		return errors.PermissionDeniedf("wall %s is a scene boundary", id)
	}
	s.release(rec)
	s.mu.Unlock()

	s.notify(rec, ChangeDelete)
	return nil
}

// OnDoorChange sets the door state of a wall and notifies listeners so that sources
// crossing it are invalidated
func (s *Store) OnDoorChange(id string, state DoorState) (*Record, error) {
	s.mu.Lock()
	slot, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		return nil, errors.NotFoundf("wall %s not found", id)
	}
	rec := s.records[slot]
	if !rec.Wall.IsDoor() {
		s.mu.Unlock()
		return nil, errors.FailedPreconditionf("wall %s is not a door", id)
	}
	if rec.Wall.DoorState == state {
		s.mu.Unlock()
		return rec, nil
	}
	rec = s.replace(slot)
	rec.Wall.DoorState = state
	s.mu.Unlock()

	slog.Debug("door state changed", "wall_id", id, "state", state)
	s.notify(rec, ChangeDoor)
	return rec, nil
}

// Get returns the record for a wall id
func (s *Store) Get(id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	slot, ok := s.byID[id]
	if !ok {
		return nil, errors.NotFoundf("wall %s not found", id)
	}
	return s.records[slot], nil
}

// Record returns the record occupying a slot, or nil
func (s *Store) Record(slot int) *Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if slot < 0 || slot >= len(s.records) {
		return nil
	}
	return s.records[slot]
}

// All returns every non-boundary wall ordered by id
func (s *Store) All() []*Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Record, 0, len(s.byID))
	for _, rec := range s.records {
		if rec != nil && !rec.Boundary {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// Len returns the number of non-boundary walls
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID) - len(s.outer) - len(s.inner)
}

// OuterBounds returns the walls enclosing the padded scene
func (s *Store) OuterBounds() []*Record {
	return s.slots(s.outer)
}

// InnerBounds returns the walls enclosing the usable scene rectangle
func (s *Store) InnerBounds() []*Record {
	return s.slots(s.inner)
}

func (s *Store) slots(slots []int) []*Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Record, 0, len(slots))
	for _, slot := range slots {
		out = append(out, s.records[slot])
	}
	return out
}

// SetBoundaries replaces the outer and inner boundary walls. Empty rectangles remove
// the corresponding boundary.
func (s *Store) SetBoundaries(outer, inner geometry.Rect) {
	s.mu.Lock()
	for _, slot := range append(append([]int(nil), s.outer...), s.inner...) {
		s.release(s.records[slot])
	}
	s.outer = s.addBoundary("outer", outer, false)
	s.inner = s.addBoundary("inner", inner, true)
	s.mu.Unlock()
}

func (s *Store) addBoundary(name string, r geometry.Rect, inner bool) []int {
	if r.IsEmpty() {
		return nil
	}
	slots := make([]int, 0, 4)
	for i, e := range r.Edges() {
		w := NormalWall(fmt.Sprintf("%s_%s_%d", boundaryIDPrefix, name, i), e[0].X, e[0].Y, e[1].X, e[1].Y)
		rec := s.allocate(w)
		rec.Boundary = true
		rec.Inner = inner
		s.index.insert(rec.Slot, rec.Bounds())
		s.rebuildIntersections(rec)
		slots = append(slots, rec.Slot)
	}
	return slots
}

// QueryRect returns every wall whose bounding box may touch r, ordered by slot
func (s *Store) QueryRect(r geometry.Rect) []*Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryRect(r)
}

func (s *Store) queryRect(r geometry.Rect) []*Record {
	hits := s.index.query(r)
	out := make([]*Record, 0, len(hits))
	for slot := range hits {
		rec := s.records[slot]
		if rec.Bounds().Overlaps(r) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slot < out[j].Slot })
	return out
}

// QueryRay returns every wall whose segment touches the ray, ordered by slot
func (s *Store) QueryRay(ray geometry.Ray) []*Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	candidates := s.queryRect(ray.Bounds())
	out := candidates[:0]
	for _, rec := range candidates {
		if geometry.LineSegmentIntersects(ray.A, ray.B, rec.A, rec.B) {
			out = append(out, rec)
		}
	}
	return out
}

// Clear removes every wall including boundaries
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	s.free = nil
	s.byID = make(map[string]int)
	s.index = newGrid(s.index.size)
	s.outer = nil
	s.inner = nil
}

func (s *Store) allocate(w Wall) *Record {
	var slot int
	if n := len(s.free); n > 0 {
		slot = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		slot = len(s.records)
		s.records = append(s.records, nil)
	}
	rec := newRecord(slot, w)
	s.records[slot] = rec
	s.byID[w.ID] = slot
	return rec
}

// replace swaps a private copy of the record at slot into the arena and returns
// it for mutation. Must be called with s.mu held.
func (s *Store) replace(slot int) *Record {
	c := s.records[slot].clone()
	s.records[slot] = c
	return c
}

func (s *Store) release(rec *Record) {
	for peer := range rec.IntersectsWith {
		if s.records[peer] != nil {
			delete(s.replace(peer).IntersectsWith, rec.Slot)
		}
	}
	s.index.remove(rec.Slot)
	delete(s.byID, rec.ID())
	s.records[rec.Slot] = nil
	s.free = append(s.free, rec.Slot)
}

// rebuildIntersections drops rec from its previous peers and tests it against every
// wall whose bounds overlap. Pairs sharing an endpoint are never recorded.
func (s *Store) rebuildIntersections(rec *Record) {
	for peer := range rec.IntersectsWith {
		if s.records[peer] != nil {
			delete(s.replace(peer).IntersectsWith, rec.Slot)
		}
	}
	rec.IntersectsWith = make(map[int]geometry.LineIntersection)

	for _, other := range s.queryRect(rec.Bounds()) {
		if other.Slot == rec.Slot || rec.SharesEndpoint(other) {
			continue
		}
		if !geometry.LineSegmentIntersects(rec.A, rec.B, other.A, other.B) {
			continue
		}
		x, ok := geometry.LineLineIntersection(rec.A, rec.B, other.A, other.B)
		if !ok {
			continue
		}
		rec.IntersectsWith[other.Slot] = x
		s.replace(other.Slot).IntersectsWith[rec.Slot] = geometry.LineIntersection{X: x.X, Y: x.Y, T0: x.T1, T1: x.T0}
	}
}
