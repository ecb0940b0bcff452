package sources

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/KirkDiggler/rpg-perception/internal/engine"
	"github.com/KirkDiggler/rpg-perception/internal/errors"
	"github.com/KirkDiggler/rpg-perception/internal/walls"
)

// Config configures a Registry
type Config struct {
	Engine engine.Engine
}

// Validate validates the config
func (cfg *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if cfg.Engine == nil {
		vb.RequiredField("Engine")
	}
	return vb.Build()
}

// Registry indexes sources by id and re-runs the polygon engine on invalidation
type Registry struct {
	mu     sync.RWMutex
	engine engine.Engine
	byID   map[string]*Source
}

// NewRegistry creates an empty registry
func NewRegistry(cfg *Config) (*Registry, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Registry{
		engine: cfg.Engine,
		byID:   make(map[string]*Source),
	}, nil
}

// Add initializes a source and stores it, replacing any source with the same id
func (r *Registry) Add(src *Source) error {
	if src == nil {
		return errors.InvalidArgument("source is required")
	}
	if err := src.Validate(); err != nil {
		return err
	}

	stored := src.clone()
	if err := stored.Initialize(r.engine); err != nil {
		return err
	}

	r.mu.Lock()
	r.byID[stored.ID] = stored
	r.mu.Unlock()

	slog.Debug("source added", "source_id", stored.ID, "kind", stored.Kind, "active", stored.Active)
	return nil
}

// Remove deletes a source
func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return errors.NotFoundf("source %s not found", id)
	}
	delete(r.byID, id)
	return nil
}

// Get returns a copy of a source
func (r *Registry) Get(id string) (*Source, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	src, ok := r.byID[id]
	if !ok {
		return nil, errors.NotFoundf("source %s not found", id)
	}
	return src.clone(), nil
}

// Len returns the number of sources of the given kinds, or all sources if none given
func (r *Registry) Len(kinds ...Kind) int {
	return len(r.Snapshot(kinds...))
}

// Invalidate re-runs the polygon engine for one source using its cached data
func (r *Registry) Invalidate(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	src, ok := r.byID[id]
	if !ok {
		return errors.NotFoundf("source %s not found", id)
	}
	return r.reinitialize(src)
}

// InvalidateAll re-initializes every source of the given kinds, or every source if
// none are given. The first error is returned after all sources were attempted.
func (r *Registry) InvalidateAll(kinds ...Kind) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var firstErr error
	for _, src := range r.sorted(kinds) {
		if err := r.reinitialize(src); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// InvalidateCrossing re-initializes every source whose polygons touch the wall and
// returns the ids that were refreshed
func (r *Registry) InvalidateCrossing(rec *walls.Record) ([]string, error) {
	if rec == nil {
		return nil, errors.InvalidArgument("wall is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	var ids []string
	var firstErr error
	for _, src := range r.sorted(nil) {
		if !src.Crosses(rec.A, rec.B) {
			continue
		}
		ids = append(ids, src.ID)
		if err := r.reinitialize(src); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if len(ids) > 0 {
		slog.Debug("sources invalidated by wall", "wall_id", rec.ID(), "count", len(ids))
	}
	return ids, firstErr
}

// Snapshot returns copies of the sources of the given kinds ordered by id
func (r *Registry) Snapshot(kinds ...Kind) []*Source {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sorted := r.sorted(kinds)
	out := make([]*Source, 0, len(sorted))
	for _, src := range sorted {
		out = append(out, src.clone())
	}
	return out
}

// Clear removes every source
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID = make(map[string]*Source)
}

func (r *Registry) reinitialize(src *Source) error {
	next := src.clone()
	if err := next.Initialize(r.engine); err != nil {
		slog.Warn("failed to reinitialize source", "source_id", src.ID, "error", err)
		return err
	}
	r.byID[src.ID] = next
	return nil
}

func (r *Registry) sorted(kinds []Kind) []*Source {
	out := make([]*Source, 0, len(r.byID))
	for _, src := range r.byID {
		if len(kinds) > 0 && !containsKind(kinds, src.Kind) {
			continue
		}
		out = append(out, src)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func containsKind(kinds []Kind, k Kind) bool {
	for _, kind := range kinds {
		if kind == k {
			return true
		}
	}
	return false
}
