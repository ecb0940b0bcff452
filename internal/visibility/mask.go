// Package visibility merges source polygons into the observer's mask for a frame
// and answers point visibility tests through pluggable detection modes.
package visibility

import (
	"github.com/KirkDiggler/rpg-perception/internal/engine"
	"github.com/KirkDiggler/rpg-perception/internal/geometry"
	"github.com/KirkDiggler/rpg-perception/internal/render"
)

// Mask is the union of what the observer can see this frame. A point is visible
// when it lies in both the fov and los layers, or anywhere in the base layer.
type Mask struct {
	FOV  []*engine.Polygon
	LOS  []*engine.Polygon
	Base []geometry.Circle
}

// Contains tests a point against the composed mask
func (m *Mask) Contains(p geometry.Point) bool {
	if m == nil {
		return false
	}
	for _, c := range m.Base {
		if c.Contains(p) {
			return true
		}
	}
	return anyContains(m.FOV, p) && anyContains(m.LOS, p)
}

// IsEmpty reports a mask that reveals nothing
func (m *Mask) IsEmpty() bool {
	return m == nil || (len(m.FOV) == 0 && len(m.Base) == 0)
}

// Draw builds the display graphic of the mask: fov clipped by los, plus base
func (m *Mask) Draw() *render.Container {
	out := render.NewContainer()
	if m == nil {
		return out
	}

	fov := render.NewGraphics()
	for _, p := range m.FOV {
		if !p.IsEmpty() {
			fov.Fill(p.Polygon)
		}
	}
	los := render.NewGraphics()
	for _, p := range m.LOS {
		if !p.IsEmpty() {
			los.Fill(p.Polygon)
		}
	}
	fov.SetMask(los)
	out.AddChild(fov)

	if len(m.Base) > 0 {
		base := render.NewGraphics()
		for _, c := range m.Base {
			base.Fill(c)
		}
		out.AddChild(base)
	}
	return out
}

func anyContains(polys []*engine.Polygon, p geometry.Point) bool {
	for _, poly := range polys {
		if poly.Contains(p) {
			return true
		}
	}
	return false
}
