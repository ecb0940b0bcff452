// Package render defines the host rendering contract the perception layers draw
// through: textures, display objects and the operations that rasterize them.
package render

//go:generate mockgen -destination=mock/mock_render.go -package=rendermock github.com/KirkDiggler/rpg-perception/internal/render Host,Texture,VideoSource

import (
	"image"

	"github.com/KirkDiggler/rpg-perception/internal/geometry"
)

// ScaleMode selects texture sampling
type ScaleMode int

const (
	ScaleLinear ScaleMode = iota
	ScaleNearest
)

// TextureOptions describes a render texture to allocate
type TextureOptions struct {
	Width       int
	Height      int
	Resolution  float64
	Mipmap      bool
	ScaleMode   ScaleMode
	Multisample int
}

// PixelSize returns the backing dimensions in pixels
func (o TextureOptions) PixelSize() (int, int) {
	res := o.Resolution
	if res <= 0 {
		res = 1
	}
	return int(float64(o.Width)*res + 0.5), int(float64(o.Height)*res + 0.5)
}

// Texture is a host-owned raster
type Texture interface {
	ID() string
	// Width and Height are in scene units; the backing store is scaled by Resolution
	Width() int
	Height() int
	Resolution() float64
	Destroyed() bool
}

// VideoSource controls an animated texture
type VideoSource interface {
	Play()
	Pause()
	Playing() bool
}

// Transform maps scene coordinates into a target texture: p' = (p + Translate) * Scale
type Transform struct {
	TranslateX, TranslateY float64
	Scale                  float64
}

// Apply transforms a point
func (t *Transform) Apply(p geometry.Point) geometry.Point {
	if t == nil {
		return p
	}
	s := t.Scale
	if s == 0 {
		s = 1
	}
	return geometry.Point{X: (p.X + t.TranslateX) * s, Y: (p.Y + t.TranslateY) * s}
}

// Host allocates textures and rasterizes display objects
type Host interface {
	CreateRenderTexture(opts TextureOptions) (Texture, error)
	TextureFromImage(img image.Image, resolution float64) (Texture, error)
	LoadTexture(src string) (Texture, error)
	RenderInto(obj DisplayObject, target Texture, transform *Transform) error
	ClearTexture(tex Texture) error
	Extract(tex Texture) (image.Image, error)
	DestroyTexture(tex Texture)
	VideoSource(tex Texture) (VideoSource, bool)
}
