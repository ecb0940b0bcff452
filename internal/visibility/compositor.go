package visibility

import (
	"log/slog"
	"sync"

	"github.com/KirkDiggler/rpg-perception/internal/engine"
	"github.com/KirkDiggler/rpg-perception/internal/errors"
	"github.com/KirkDiggler/rpg-perception/internal/geometry"
	"github.com/KirkDiggler/rpg-perception/internal/sources"
)

// defaultBaseRadius is the radius of the circle a zero-radius vision source reveals
const defaultBaseRadius = 25

// Config configures a Compositor
type Config struct {
	Registry *sources.Registry
	Engine   engine.Engine
	Modes    *DetectionModes
	// SceneRect is the usable scene rectangle; points outside it are in the buffer
	SceneRect geometry.Rect
	// BaseRadius is revealed around vision sources with no radius
	BaseRadius float64
}

// Validate validates the config
func (cfg *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if cfg.Registry == nil {
		vb.RequiredField("Registry")
	}
	if cfg.BaseRadius < 0 {
		vb.InvalidField("BaseRadius", "must be non-negative")
	}
	return vb.Build()
}

// TestOptions configures a visibility test
type TestOptions struct {
	Tolerance float64
	Object    *Target
	// IsGM is the answer when no vision sources exist
	IsGM bool
}

// Compositor builds the frame mask from source snapshots
type Compositor struct {
	mu         sync.RWMutex
	registry   *sources.Registry
	engine     engine.Engine
	modes      *DetectionModes
	sceneRect  geometry.Rect
	baseRadius float64

	mask   *Mask
	vision []*sources.Source
	lights []*sources.Source
}

// New creates a compositor
func New(cfg *Config) (*Compositor, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	modes := cfg.Modes
	if modes == nil {
		modes = NewDetectionModes()
	}
	base := cfg.BaseRadius
	if base == 0 {
		base = defaultBaseRadius
	}
	return &Compositor{
		registry:   cfg.Registry,
		engine:     cfg.Engine,
		modes:      modes,
		sceneRect:  cfg.SceneRect,
		baseRadius: base,
		mask:       &Mask{},
	}, nil
}

// SetSceneRect updates the usable scene rectangle
func (c *Compositor) SetSceneRect(r geometry.Rect) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sceneRect = r
}

// Modes returns the detection mode registry
func (c *Compositor) Modes() *DetectionModes {
	return c.modes
}

// Refresh snapshots the registry and rebuilds the mask. Running it twice with the
// same sources yields the same mask.
func (c *Compositor) Refresh() *Mask {
	lights := active(c.registry.Snapshot(sources.KindLight))
	vision := active(c.registry.Snapshot(sources.KindVision))

	mask := &Mask{}
	for _, l := range lights {
		mask.FOV = append(mask.FOV, l.LOS)
		if l.Data.Vision {
			mask.LOS = append(mask.LOS, l.LOS)
		}
	}
	for _, v := range vision {
		mask.FOV = append(mask.FOV, v.FOV)
		if v.Data.Blinded {
			mask.LOS = append(mask.LOS, v.FOV)
		} else {
			mask.LOS = append(mask.LOS, v.LOS)
		}
		if v.Radius() == 0 {
			o := v.Origin()
			mask.Base = append(mask.Base, geometry.Circle{X: o.X, Y: o.Y, Radius: c.baseRadius})
		}
	}

	c.mu.Lock()
	c.mask = mask
	c.vision = vision
	c.lights = lights
	c.mu.Unlock()
	return mask
}

// Mask returns the mask of the last refresh
func (c *Compositor) Mask() *Mask {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mask
}

// VisionSources returns the active vision sources of the last refresh
func (c *Compositor) VisionSources() []*sources.Source {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vision
}

// TestVisibility decides whether the observer can see a point. The winning special
// detection mode's filter is written to opts.Object.
func (c *Compositor) TestVisibility(point geometry.Point, opts TestOptions) bool {
	c.mu.RLock()
	vision, lights, sceneRect := c.vision, c.lights, c.sceneRect
	c.mu.RUnlock()

	if opts.Object != nil {
		opts.Object.DetectionFilter = FilterNone
	}
	if len(vision) == 0 {
		return opts.IsGM
	}

	cfg := &TestConfig{
		Object: opts.Object,
		Tests:  testPoints(point, opts.Tolerance),
		Lights: lights,
		Engine: c.engine,
	}

	// sources on the other side of the scene rectangle edge never grant sight
	inBuffer := !sceneRect.IsEmpty() && !sceneRect.Contains(point)
	sameSide := func(src *sources.Source) bool {
		if sceneRect.IsEmpty() {
			return true
		}
		return !sceneRect.Contains(src.Origin()) == inBuffer
	}

	for _, l := range lights {
		if !l.Data.Vision || !sameSide(l) {
			continue
		}
		if anyPoint(cfg, func(p geometry.Point) bool { return l.LOS.Contains(p) }) {
			return true
		}
	}

	basic, _ := c.modes.Get(ModeBasicSight)
	for _, v := range vision {
		if !sameSide(v) || basic == nil {
			continue
		}
		ref, ok := findMode(v, ModeBasicSight)
		if ok && !ref.Enabled {
			continue
		}
		if basic.TestVisibility(v, ref, cfg) {
			return true
		}
	}

	if opts.Object == nil || opts.Object.Kind != TargetToken {
		return false
	}
	for _, v := range vision {
		if !sameSide(v) {
			continue
		}
		for _, ref := range v.Data.DetectionModes {
			if ref.ID == ModeBasicSight || !ref.Enabled {
				continue
			}
			mode, ok := c.modes.Get(ref.ID)
			if !ok {
				slog.Debug("unknown detection mode", "mode", ref.ID, "source_id", v.ID)
				continue
			}
			if mode.TestVisibility(v, ref, cfg) {
				opts.Object.DetectionFilter = mode.DetectionFilter()
				return true
			}
		}
	}
	return false
}

// testPoints returns the point itself, or a 3x3 grid at tolerance around it
func testPoints(p geometry.Point, tolerance float64) []TestPoint {
	if tolerance <= 0 {
		return []TestPoint{{Point: p}}
	}
	t := tolerance
	offsets := [][2]float64{
		{0, 0}, {-t, -t}, {-t, t}, {t, t}, {t, -t}, {-t, 0}, {t, 0}, {0, -t}, {0, t},
	}
	out := make([]TestPoint, 0, len(offsets))
	for _, o := range offsets {
		out = append(out, TestPoint{Point: geometry.Point{X: p.X + o[0], Y: p.Y + o[1]}})
	}
	return out
}

func findMode(src *sources.Source, id string) (sources.ModeRef, bool) {
	for _, ref := range src.Data.DetectionModes {
		if ref.ID == id {
			return ref, true
		}
	}
	return sources.ModeRef{ID: id, Enabled: true}, false
}

func active(in []*sources.Source) []*sources.Source {
	out := in[:0]
	for _, s := range in {
		if s.Active {
			out = append(out, s)
		}
	}
	return out
}
