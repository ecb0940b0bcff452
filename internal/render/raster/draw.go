package raster

import (
	"image"
	"image/draw"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"github.com/KirkDiggler/rpg-perception/internal/errors"
	"github.com/KirkDiggler/rpg-perception/internal/geometry"
	"github.com/KirkDiggler/rpg-perception/internal/render"
)

// RenderInto composites a display object into target with a pixel-wise max
func (h *Host) RenderInto(obj render.DisplayObject, target render.Texture, transform *render.Transform) error {
	t, err := h.own(target)
	if err != nil {
		return err
	}
	if obj == nil {
		return errors.InvalidArgument("display object is required")
	}
	return h.renderObject(obj, t.img, transform)
}

func (h *Host) renderObject(obj render.DisplayObject, dst *image.Alpha, tf *render.Transform) error {
	if obj.Destroyed() {
		return nil
	}
	switch o := obj.(type) {
	case *render.Container:
		for _, child := range o.Children() {
			if err := h.renderObject(child, dst, tf); err != nil {
				return err
			}
		}
	case *render.Graphics:
		layer := h.rasterize(o.Shapes(), dst.Bounds(), tf)
		if mask := o.Mask(); mask != nil {
			minAlpha(layer, h.rasterize(mask.Shapes(), dst.Bounds(), tf))
		}
		maxAlpha(dst, layer)
	case *render.Sprite:
		return h.renderSprite(o, dst, tf)
	default:
		return errors.InvalidArgumentf("unsupported display object %T", obj)
	}
	return nil
}

func (h *Host) renderSprite(s *render.Sprite, dst *image.Alpha, tf *render.Transform) error {
	if s.Texture() == nil {
		return nil
	}
	src, err := h.own(s.Texture())
	if err != nil {
		return err
	}

	b := s.Bounds()
	p0 := tf.Apply(geometry.Point{X: b.Left(), Y: b.Top()})
	p1 := tf.Apply(geometry.Point{X: b.Right(), Y: b.Bottom()})
	dr := image.Rect(round(p0.X), round(p0.Y), round(p1.X), round(p1.Y))
	if dr.Empty() {
		return nil
	}

	layer := image.NewAlpha(dst.Bounds())
	sr := src.img.Bounds()
	if dr.Dx() == sr.Dx() && dr.Dy() == sr.Dy() {
		draw.Draw(layer, dr, src.img, sr.Min, draw.Src)
	} else {
		xdraw.ApproxBiLinear.Scale(layer, dr, src.img, sr, xdraw.Src, nil)
	}
	maxAlpha(dst, layer)
	return nil
}

// rasterize fills every shape into a fresh layer. Shapes are drawn one at a time so
// opposite windings never cancel.
func (h *Host) rasterize(shapes []geometry.Shape, bounds image.Rectangle, tf *render.Transform) *image.Alpha {
	layer := image.NewAlpha(bounds)
	if len(shapes) == 0 {
		return layer
	}
	w, hgt := bounds.Dx(), bounds.Dy()
	r := vector.NewRasterizer(w, hgt)
	for _, shape := range shapes {
		pts := h.outline(shape)
		if len(pts) < 3 {
			continue
		}
		r.Reset(w, hgt)
		p := tf.Apply(pts[0])
		r.MoveTo(float32(p.X), float32(p.Y))
		for _, q := range pts[1:] {
			p = tf.Apply(q)
			r.LineTo(float32(p.X), float32(p.Y))
		}
		r.ClosePath()
		r.DrawOp = draw.Over
		r.Draw(layer, layer.Bounds(), image.Opaque, image.Point{})
	}
	return layer
}

func (h *Host) outline(shape geometry.Shape) []geometry.Point {
	switch sh := shape.(type) {
	case geometry.Rect:
		c := sh.Corners()
		return c[:]
	case geometry.Circle:
		return sh.ToPolygon(h.circleDensity).Vertices()
	case *geometry.Polygon:
		return sh.Vertices()
	case interface{ Vertices() []geometry.Point }:
		return sh.Vertices()
	}
	return nil
}

func maxAlpha(dst, src *image.Alpha) {
	for i, a := range src.Pix {
		if a > dst.Pix[i] {
			dst.Pix[i] = a
		}
	}
}

func minAlpha(dst, src *image.Alpha) {
	for i, a := range src.Pix {
		if a < dst.Pix[i] {
			dst.Pix[i] = a
		}
	}
}

func round(v float64) int {
	if v < 0 {
		return int(v - 0.5)
	}
	return int(v + 0.5)
}
