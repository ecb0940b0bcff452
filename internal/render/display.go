package render

import (
	"sync/atomic"

	"github.com/KirkDiggler/rpg-perception/internal/geometry"
)

// DisplayObject is anything that can be placed in a container and rendered
type DisplayObject interface {
	Destroy()
	Destroyed() bool
}

type base struct {
	destroyed atomic.Bool
}

func (b *base) Destroy()        { b.destroyed.Store(true) }
func (b *base) Destroyed() bool { return b.destroyed.Load() }

// Graphics is a list of filled shapes, optionally clipped by a mask
type Graphics struct {
	base
	shapes []geometry.Shape
	mask   *Graphics
}

// NewGraphics creates an empty graphics object
func NewGraphics() *Graphics {
	return &Graphics{}
}

// Fill adds a filled shape
func (g *Graphics) Fill(shape geometry.Shape) *Graphics {
	if shape != nil {
		g.shapes = append(g.shapes, shape)
	}
	return g
}

// Shapes returns the filled shapes
func (g *Graphics) Shapes() []geometry.Shape {
	return g.shapes
}

// SetMask restricts rendering to the area covered by mask
func (g *Graphics) SetMask(mask *Graphics) {
	g.mask = mask
}

// Mask returns the clipping mask, if any
func (g *Graphics) Mask() *Graphics {
	return g.mask
}

// Clear removes every shape
func (g *Graphics) Clear() {
	g.shapes = nil
}

// Container groups display objects rendered in order
type Container struct {
	base
	children []DisplayObject
}

// NewContainer creates an empty container
func NewContainer() *Container {
	return &Container{}
}

// AddChild appends a child
func (c *Container) AddChild(obj DisplayObject) {
	c.children = append(c.children, obj)
}

// RemoveChild detaches a child, reporting whether it was present
func (c *Container) RemoveChild(obj DisplayObject) bool {
	for i, child := range c.children {
		if child == obj {
			c.children = append(c.children[:i], c.children[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveChildren detaches and returns every child
func (c *Container) RemoveChildren() []DisplayObject {
	out := c.children
	c.children = nil
	return out
}

// Children returns the attached children
func (c *Container) Children() []DisplayObject {
	return c.children
}

// Len returns the number of children
func (c *Container) Len() int {
	return len(c.children)
}

// Destroy destroys the container and its children
func (c *Container) Destroy() {
	for _, child := range c.children {
		child.Destroy()
	}
	c.children = nil
	c.base.Destroy()
}

// Sprite draws a texture stretched over a scene rectangle
type Sprite struct {
	base
	texture Texture
	bounds  geometry.Rect
}

// NewSprite creates a sprite covering bounds
func NewSprite(tex Texture, bounds geometry.Rect) *Sprite {
	return &Sprite{texture: tex, bounds: bounds}
}

// Texture returns the sprite's texture
func (s *Sprite) Texture() Texture {
	return s.texture
}

// SetTexture points the sprite at a new texture
func (s *Sprite) SetTexture(tex Texture) {
	s.texture = tex
}

// Bounds returns the scene rectangle the sprite covers
func (s *Sprite) Bounds() geometry.Rect {
	return s.bounds
}

// SetBounds moves and resizes the sprite
func (s *Sprite) SetBounds(r geometry.Rect) {
	s.bounds = r
}
