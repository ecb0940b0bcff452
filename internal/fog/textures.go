package fog

import (
	"github.com/KirkDiggler/rpg-perception/internal/render"
)

// texturePool recycles render textures of the fog raster. Textures it did not
// create, such as ones decoded from a stored raster, are destroyed on release.
type texturePool struct {
	host  render.Host
	size  int
	free  []render.Texture
	owned map[string]bool
}

func newTexturePool(host render.Host, size int) *texturePool {
	return &texturePool{host: host, size: size, owned: make(map[string]bool)}
}

// acquire pops a cleared spare texture or allocates a new one
func (p *texturePool) acquire(opts render.TextureOptions) (render.Texture, error) {
	for len(p.free) > 0 {
		tex := p.free[len(p.free)-1]
		p.free = p.free[:len(p.free)-1]
		if tex.Destroyed() || tex.Width() != opts.Width || tex.Height() != opts.Height {
			p.destroy(tex)
			continue
		}
		if err := p.host.ClearTexture(tex); err != nil {
			p.destroy(tex)
			continue
		}
		return tex, nil
	}

	tex, err := p.host.CreateRenderTexture(opts)
	if err != nil {
		return nil, err
	}
	p.owned[tex.ID()] = true
	return tex, nil
}

// release returns a pooled texture or destroys it
func (p *texturePool) release(tex render.Texture) {
	if tex == nil || tex.Destroyed() {
		return
	}
	if p.owned[tex.ID()] && len(p.free) < p.size {
		p.free = append(p.free, tex)
		return
	}
	p.destroy(tex)
}

// flush destroys every spare texture
func (p *texturePool) flush() {
	for _, tex := range p.free {
		p.destroy(tex)
	}
	p.free = nil
}

func (p *texturePool) destroy(tex render.Texture) {
	delete(p.owned, tex.ID())
	p.host.DestroyTexture(tex)
}

func (p *texturePool) len() int {
	return len(p.free)
}
