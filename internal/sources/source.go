// Package sources holds vision, light and sound emitters and their cached polygons
package sources

import (
	"math"

	"github.com/KirkDiggler/rpg-perception/internal/engine"
	"github.com/KirkDiggler/rpg-perception/internal/errors"
	"github.com/KirkDiggler/rpg-perception/internal/geometry"
)

// Kind partitions sources
type Kind string

const (
	KindVision Kind = "vision"
	KindLight  Kind = "light"
	KindSound  Kind = "sound"
)

// Valid reports a known kind
func (k Kind) Valid() bool {
	switch k {
	case KindVision, KindLight, KindSound:
		return true
	}
	return false
}

// ModeRef attaches a detection mode to an observer
type ModeRef struct {
	ID      string  `json:"id" yaml:"id"`
	Range   float64 `json:"range" yaml:"range"`
	Enabled bool    `json:"enabled" yaml:"enabled"`
}

// Data is the emitter configuration a source is initialized from
type Data struct {
	X         float64 `json:"x" yaml:"x"`
	Y         float64 `json:"y" yaml:"y"`
	Elevation float64 `json:"elevation" yaml:"elevation"`
	Dim       float64 `json:"dim" yaml:"dim"`
	Bright    float64 `json:"bright" yaml:"bright"`
	Rotation  float64 `json:"rotation" yaml:"rotation"`
	// Angle of emission in degrees. Zero is treated as a full circle.
	Angle       float64 `json:"angle" yaml:"angle"`
	IgnoreWalls bool    `json:"ignore_walls" yaml:"ignore_walls"`
	// Vision marks a light whose area grants sight on its own
	Vision   bool `json:"vision" yaml:"vision"`
	Blinded  bool `json:"blinded" yaml:"blinded"`
	Disabled bool `json:"disabled" yaml:"disabled"`
	// DetectionModes are tested in order after basic sight
	DetectionModes []ModeRef `json:"detection_modes,omitempty" yaml:"detection_modes,omitempty"`
}

// Source is an emitter with cached polygons. LOS is bounded by walls only, FOV is
// additionally limited by radius and angle.
type Source struct {
	ID     string
	Kind   Kind
	Object string
	Data   Data
	Active bool
	LOS    *engine.Polygon
	FOV    *engine.Polygon
}

// Origin returns the emitter position
func (s *Source) Origin() geometry.Point {
	return geometry.Point{X: s.Data.X, Y: s.Data.Y}
}

// Radius is the larger of the dim and bright radii
func (s *Source) Radius() float64 {
	return math.Max(s.Data.Dim, s.Data.Bright)
}

// Angle returns the emission arc, defaulting to a full circle
func (s *Source) Angle() float64 {
	if s.Data.Angle <= 0 || s.Data.Angle > 360 {
		return 360
	}
	return s.Data.Angle
}

// Validate checks the source identity and data
func (s *Source) Validate() error {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("id", s.ID, vb)
	if !s.Kind.Valid() {
		vb.InvalidField("kind", "must be vision, light or sound")
	}
	if s.Data.Dim < 0 || s.Data.Bright < 0 {
		vb.InvalidField("radius", "must be non-negative")
	}
	return vb.Build()
}

// Initialize recomputes the source's polygons
func (s *Source) Initialize(eng engine.Engine) error {
	s.Active = !s.Data.Disabled
	origin := s.Origin()

	switch s.Kind {
	case KindVision:
		los, err := eng.Compute(origin, &engine.PolygonConfig{
			Type:        engine.TypeSight,
			Angle:       s.Angle(),
			Rotation:    s.Data.Rotation,
			Radius:      engine.Unbounded,
			IgnoreWalls: s.Data.IgnoreWalls,
			Source:      s.ID,
		})
		if err != nil {
			return errors.Wrapf(err, "failed to compute line of sight for %s", s.ID)
		}
		fov, err := eng.Compute(origin, &engine.PolygonConfig{
			Type:        engine.TypeSight,
			Angle:       s.Angle(),
			Rotation:    s.Data.Rotation,
			Radius:      s.Radius(),
			IgnoreWalls: s.Data.IgnoreWalls,
			Source:      s.ID,
		})
		if err != nil {
			return errors.Wrapf(err, "failed to compute field of view for %s", s.ID)
		}
		s.LOS, s.FOV = los, fov

	case KindLight, KindSound:
		typ := engine.TypeLight
		if s.Kind == KindSound {
			typ = engine.TypeSound
		}
		if s.Data.IgnoreWalls {
			typ = engine.TypeUniversal
		}
		poly, err := eng.Compute(origin, &engine.PolygonConfig{
			Type:     typ,
			Angle:    s.Angle(),
			Rotation: s.Data.Rotation,
			Radius:   s.Radius(),
			Source:   s.ID,
		})
		if err != nil {
			return errors.Wrapf(err, "failed to compute %s polygon for %s", s.Kind, s.ID)
		}
		s.LOS, s.FOV = poly, poly
		s.Active = s.Active && s.Radius() > 0
	}
	return nil
}

// Crosses reports whether a segment touches the area covered by the source's polygons
func (s *Source) Crosses(a, b geometry.Point) bool {
	for _, p := range []*engine.Polygon{s.LOS, s.FOV} {
		if p.IsEmpty() {
			continue
		}
		if p.Bounds().LineSegmentIntersects(a, b) {
			return true
		}
	}
	return false
}

// clone returns a shallow copy safe to hand to readers; polygons are replaced,
// never mutated, on initialization
func (s *Source) clone() *Source {
	c := *s
	c.Data.DetectionModes = append([]ModeRef(nil), s.Data.DetectionModes...)
	return &c
}
