// Package raster is a software render host backed by alpha images. Shapes are
// rasterized with golang.org/x/image/vector and composited with a pixel-wise max.
package raster

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg" // decoders for LoadTexture and TextureFromImage sources
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/KirkDiggler/rpg-perception/internal/errors"
	"github.com/KirkDiggler/rpg-perception/internal/render"
)

var videoExtensions = map[string]bool{".webm": true, ".mp4": true, ".m4v": true, ".ogv": true}

// Config configures the software host
type Config struct {
	// MaxPixels caps the total backing pixels of live textures; zero is unlimited
	MaxPixels int64
	// CircleDensity is the number of segments per half turn used for circles
	CircleDensity int
}

// Host implements render.Host in memory
type Host struct {
	mu            sync.Mutex
	maxPixels     int64
	allocated     int64
	nextID        int
	circleDensity int
	videos        map[string]*video
}

// New creates a software host
func New(cfg *Config) *Host {
	h := &Host{circleDensity: 32, videos: make(map[string]*video)}
	if cfg != nil {
		h.maxPixels = cfg.MaxPixels
		if cfg.CircleDensity > 0 {
			h.circleDensity = cfg.CircleDensity
		}
	}
	return h
}

var _ render.Host = (*Host)(nil)

// Texture is an alpha raster owned by a Host
type Texture struct {
	id         string
	width      int
	height     int
	resolution float64
	img        *image.Alpha
	destroyed  bool
	video      bool
}

var _ render.Texture = (*Texture)(nil)

// ID returns the texture id
func (t *Texture) ID() string { return t.id }

// Width returns the width in scene units
func (t *Texture) Width() int { return t.width }

// Height returns the height in scene units
func (t *Texture) Height() int { return t.height }

// Resolution returns the backing pixels per scene unit
func (t *Texture) Resolution() float64 { return t.resolution }

// Destroyed reports whether the texture was released
func (t *Texture) Destroyed() bool { return t.destroyed }

// Image returns the backing raster
func (t *Texture) Image() *image.Alpha { return t.img }

// Allocated returns the number of live backing pixels
func (h *Host) Allocated() int64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.allocated
}

func (h *Host) allocate(pw, ph int) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	pixels := int64(pw) * int64(ph)
	if h.maxPixels > 0 && h.allocated+pixels > h.maxPixels {
		return "", errors.ResourceExhaustedf("texture of %dx%d exceeds pixel budget", pw, ph).
			WithMeta("allocated", h.allocated).
			WithMeta("max_pixels", h.maxPixels)
	}
	h.allocated += pixels
	h.nextID++
	return fmt.Sprintf("tex_%d", h.nextID), nil
}

// CreateRenderTexture allocates a cleared texture
func (h *Host) CreateRenderTexture(opts render.TextureOptions) (render.Texture, error) {
	pw, ph := opts.PixelSize()
	if pw <= 0 || ph <= 0 {
		return nil, errors.InvalidArgumentf("invalid texture size %dx%d", pw, ph)
	}
	id, err := h.allocate(pw, ph)
	if err != nil {
		return nil, err
	}
	res := opts.Resolution
	if res <= 0 {
		res = 1
	}
	return &Texture{
		id:         id,
		width:      opts.Width,
		height:     opts.Height,
		resolution: res,
		img:        image.NewAlpha(image.Rect(0, 0, pw, ph)),
	}, nil
}

// TextureFromImage converts an image to an alpha texture. Gray levels become alpha
// since fog rasters are stored without an alpha channel.
func (h *Host) TextureFromImage(img image.Image, resolution float64) (render.Texture, error) {
	if img == nil {
		return nil, errors.InvalidArgument("image is required")
	}
	if resolution <= 0 {
		resolution = 1
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, errors.InvalidArgument("image is empty")
	}
	id, err := h.allocate(b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}

	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(gray, gray.Bounds(), img, b.Min, draw.Src)
	alpha := image.NewAlpha(gray.Bounds())
	copy(alpha.Pix, gray.Pix)

	return &Texture{
		id:         id,
		width:      int(float64(b.Dx())/resolution + 0.5),
		height:     int(float64(b.Dy())/resolution + 0.5),
		resolution: resolution,
		img:        alpha,
	}, nil
}

// LoadTexture reads an image file. Video files produce a placeholder texture that
// exposes a VideoSource.
func (h *Host) LoadTexture(src string) (render.Texture, error) {
	if src == "" {
		return nil, errors.InvalidArgument("texture source is required")
	}
	if videoExtensions[strings.ToLower(filepath.Ext(src))] {
		id, err := h.allocate(1, 1)
		if err != nil {
			return nil, err
		}
		return &Texture{id: id, width: 1, height: 1, resolution: 1, img: image.NewAlpha(image.Rect(0, 0, 1, 1)), video: true}, nil
	}

	f, err := os.Open(src)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFoundf("texture %s not found", src)
		}
		return nil, errors.Wrapf(err, "failed to open texture %s", src)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, errors.WrapWithCodef(err, errors.CodeInvalidArgument, "failed to decode texture %s", src)
	}
	return h.TextureFromImage(img, 1)
}

// ClearTexture zeroes a texture so it can be reused
func (h *Host) ClearTexture(tex render.Texture) error {
	t, err := h.own(tex)
	if err != nil {
		return err
	}
	clear(t.img.Pix)
	return nil
}

// DestroyTexture releases a texture's pixels
func (h *Host) DestroyTexture(tex render.Texture) {
	t, ok := tex.(*Texture)
	if !ok || t == nil || t.destroyed {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	t.destroyed = true
	h.allocated -= int64(len(t.img.Pix))
	delete(h.videos, t.id)
	t.img = nil
}

// Extract returns a copy of the texture's raster
func (h *Host) Extract(tex render.Texture) (image.Image, error) {
	t, err := h.own(tex)
	if err != nil {
		return nil, err
	}
	out := image.NewAlpha(t.img.Bounds())
	copy(out.Pix, t.img.Pix)
	return out, nil
}

// VideoSource returns the playback control of a video texture
func (h *Host) VideoSource(tex render.Texture) (render.VideoSource, bool) {
	t, ok := tex.(*Texture)
	if !ok || t == nil || !t.video || t.destroyed {
		return nil, false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	v, ok := h.videos[t.id]
	if !ok {
		v = &video{}
		h.videos[t.id] = v
	}
	return v, true
}

func (h *Host) own(tex render.Texture) (*Texture, error) {
	t, ok := tex.(*Texture)
	if !ok || t == nil {
		return nil, errors.InvalidArgumentf("texture %T does not belong to this host", tex)
	}
	if t.destroyed {
		return nil, errors.FailedPreconditionf("texture %s was destroyed", t.id)
	}
	return t, nil
}

type video struct {
	mu      sync.Mutex
	playing bool
}

func (v *video) Play() {
	v.mu.Lock()
	v.playing = true
	v.mu.Unlock()
}

func (v *video) Pause() {
	v.mu.Lock()
	v.playing = false
	v.mu.Unlock()
}

func (v *video) Playing() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.playing
}
