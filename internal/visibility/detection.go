package visibility

//go:generate mockgen -destination=mock/mock_detection.go -package=visibilitymock github.com/KirkDiggler/rpg-perception/internal/visibility DetectionMode

import (
	"sort"
	"sync"

	"github.com/KirkDiggler/rpg-perception/internal/engine"
	"github.com/KirkDiggler/rpg-perception/internal/errors"
	"github.com/KirkDiggler/rpg-perception/internal/geometry"
	"github.com/KirkDiggler/rpg-perception/internal/sources"
)

// Built-in detection mode ids
const (
	ModeBasicSight      = "basicSight"
	ModeSeeAll          = "seeAll"
	ModeSenseAll        = "senseAll"
	ModeFeelTremor      = "feelTremor"
	ModeSeeInvisibility = "seeInvisibility"
)

// Detection filters attached to targets found by special modes
const (
	FilterNone    = ""
	FilterGlow    = "glow"
	FilterOutline = "outline"
)

// TargetKind classifies the object being tested
type TargetKind string

const (
	TargetToken TargetKind = "token"
	TargetDoor  TargetKind = "door"
	TargetNote  TargetKind = "note"
	TargetTile  TargetKind = "tile"
)

// Target is the object whose visibility is being tested
type Target struct {
	ID        string
	Kind      TargetKind
	Elevation float64
	Invisible bool
	// DetectionFilter is set to the winning special mode's filter
	DetectionFilter string
}

// TestPoint is one sample of the tolerance grid
type TestPoint struct {
	Point geometry.Point
}

// TestConfig is what a detection mode evaluates
type TestConfig struct {
	Object *Target
	Tests  []TestPoint
	// Lights are the active light sources of the frame, for illumination checks
	Lights []*sources.Source
	// Engine answers wall collision queries for modes that ignore sight walls
	Engine engine.Engine
}

// DetectionMode decides whether a source detects any test point
type DetectionMode interface {
	ID() string
	TestVisibility(src *sources.Source, mode sources.ModeRef, cfg *TestConfig) bool
	DetectionFilter() string
}

// DetectionModes is a registry of modes keyed by id
type DetectionModes struct {
	mu    sync.RWMutex
	modes map[string]DetectionMode
}

// NewDetectionModes creates a registry holding the built-in modes
func NewDetectionModes() *DetectionModes {
	d := &DetectionModes{modes: make(map[string]DetectionMode)}
	for _, m := range []DetectionMode{
		&basicSight{},
		&seeAll{},
		&senseAll{},
		&feelTremor{},
		&seeInvisibility{},
	} {
		d.modes[m.ID()] = m
	}
	return d
}

// Register adds or replaces a mode
func (d *DetectionModes) Register(mode DetectionMode) error {
	if mode == nil || mode.ID() == "" {
		return errors.InvalidArgument("detection mode id is required")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.modes[mode.ID()] = mode
	return nil
}

// Get returns a mode by id
func (d *DetectionModes) Get(id string) (DetectionMode, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	m, ok := d.modes[id]
	return m, ok
}

// IDs returns the registered ids in sorted order
func (d *DetectionModes) IDs() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]string, 0, len(d.modes))
	for id := range d.modes {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// inRange reports whether the point is within the mode's range of the source. A
// zero range falls back to the source's radius.
func inRange(src *sources.Source, mode sources.ModeRef, p geometry.Point) bool {
	r := mode.Range
	if r <= 0 {
		r = src.Radius()
	}
	return geometry.DistanceSquared(src.Origin(), p) <= r*r
}

func inLOS(src *sources.Source, p geometry.Point) bool {
	return src.LOS != nil && src.LOS.Contains(p)
}

func isLit(lights []*sources.Source, p geometry.Point) bool {
	for _, l := range lights {
		if l.Active && l.LOS.Contains(p) {
			return true
		}
	}
	return false
}

func anyPoint(cfg *TestConfig, fn func(p geometry.Point) bool) bool {
	for _, t := range cfg.Tests {
		if fn(t.Point) {
			return true
		}
	}
	return false
}

// basicSight sees points in line of sight that are within range or illuminated
type basicSight struct{}

func (m *basicSight) ID() string              { return ModeBasicSight }
func (m *basicSight) DetectionFilter() string { return FilterNone }

func (m *basicSight) TestVisibility(src *sources.Source, mode sources.ModeRef, cfg *TestConfig) bool {
	if cfg.Object != nil && cfg.Object.Invisible {
		return false
	}
	return anyPoint(cfg, func(p geometry.Point) bool {
		return inLOS(src, p) && (inRange(src, mode, p) || isLit(cfg.Lights, p))
	})
}

// seeAll sees anything in line of sight and range, including invisible targets
type seeAll struct{}

func (m *seeAll) ID() string              { return ModeSeeAll }
func (m *seeAll) DetectionFilter() string { return FilterNone }

func (m *seeAll) TestVisibility(src *sources.Source, mode sources.ModeRef, cfg *TestConfig) bool {
	return anyPoint(cfg, func(p geometry.Point) bool {
		return inLOS(src, p) && inRange(src, mode, p)
	})
}

// senseAll detects anything within range regardless of walls
type senseAll struct{}

func (m *senseAll) ID() string              { return ModeSenseAll }
func (m *senseAll) DetectionFilter() string { return FilterOutline }

func (m *senseAll) TestVisibility(src *sources.Source, mode sources.ModeRef, cfg *TestConfig) bool {
	return anyPoint(cfg, func(p geometry.Point) bool {
		return inRange(src, mode, p)
	})
}

// feelTremor detects grounded targets in range that are not cut off by movement walls
type feelTremor struct{}

func (m *feelTremor) ID() string              { return ModeFeelTremor }
func (m *feelTremor) DetectionFilter() string { return FilterOutline }

func (m *feelTremor) TestVisibility(src *sources.Source, mode sources.ModeRef, cfg *TestConfig) bool {
	if cfg.Object != nil && cfg.Object.Elevation > src.Data.Elevation {
		return false
	}
	return anyPoint(cfg, func(p geometry.Point) bool {
		if !inRange(src, mode, p) {
			return false
		}
		if cfg.Engine == nil {
			return true
		}
		res, err := cfg.Engine.TestCollision(src.Origin(), p, &engine.CollisionConfig{
			Type: engine.TypeMove,
			Mode: engine.CollisionAny,
		})
		return err == nil && !res.Hit
	})
}

// seeInvisibility only detects invisible targets
type seeInvisibility struct{}

func (m *seeInvisibility) ID() string              { return ModeSeeInvisibility }
func (m *seeInvisibility) DetectionFilter() string { return FilterGlow }

func (m *seeInvisibility) TestVisibility(src *sources.Source, mode sources.ModeRef, cfg *TestConfig) bool {
	if cfg.Object == nil || !cfg.Object.Invisible {
		return false
	}
	return anyPoint(cfg, func(p geometry.Point) bool {
		return inLOS(src, p) && inRange(src, mode, p)
	})
}
