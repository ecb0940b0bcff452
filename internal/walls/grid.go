package walls

import (
	"math"

	"github.com/KirkDiggler/rpg-perception/internal/geometry"
)

const (
	defaultCellSize = 256.0
	// walls spanning more cells than this are kept in a list scanned on every query
	maxCellsPerWall = 4096
)

type cellKey struct {
	x, y int
}

// grid is a uniform spatial hash over wall bounding boxes
type grid struct {
	size     float64
	cells    map[cellKey]map[int]struct{}
	oversize map[int]struct{}
	bySlot   map[int][]cellKey
}

func newGrid(size float64) *grid {
	if size <= 0 {
		size = defaultCellSize
	}
	return &grid{
		size:     size,
		cells:    make(map[cellKey]map[int]struct{}),
		oversize: make(map[int]struct{}),
		bySlot:   make(map[int][]cellKey),
	}
}

func (g *grid) span(r geometry.Rect) (x0, y0, x1, y1 int) {
	x0 = int(math.Floor(r.Left() / g.size))
	y0 = int(math.Floor(r.Top() / g.size))
	x1 = int(math.Floor(r.Right() / g.size))
	y1 = int(math.Floor(r.Bottom() / g.size))
	return
}

func (g *grid) insert(slot int, r geometry.Rect) {
	x0, y0, x1, y1 := g.span(r)
	if (x1-x0+1)*(y1-y0+1) > maxCellsPerWall {
		g.oversize[slot] = struct{}{}
		return
	}
	keys := make([]cellKey, 0, (x1-x0+1)*(y1-y0+1))
	for x := x0; x <= x1; x++ {
		for y := y0; y <= y1; y++ {
			k := cellKey{x, y}
			cell, ok := g.cells[k]
			if !ok {
				cell = make(map[int]struct{})
				g.cells[k] = cell
			}
			cell[slot] = struct{}{}
			keys = append(keys, k)
		}
	}
	g.bySlot[slot] = keys
}

func (g *grid) remove(slot int) {
	delete(g.oversize, slot)
	for _, k := range g.bySlot[slot] {
		cell := g.cells[k]
		delete(cell, slot)
		if len(cell) == 0 {
			delete(g.cells, k)
		}
	}
	delete(g.bySlot, slot)
}

// query returns the slots of every wall whose cells overlap r
func (g *grid) query(r geometry.Rect) map[int]struct{} {
	out := make(map[int]struct{}, len(g.oversize))
	for slot := range g.oversize {
		out[slot] = struct{}{}
	}

	x0, y0, x1, y1 := g.span(r)
	if (x1-x0+1)*(y1-y0+1) > maxCellsPerWall {
		for slot := range g.bySlot {
			out[slot] = struct{}{}
		}
		return out
	}
	for x := x0; x <= x1; x++ {
		for y := y0; y <= y1; y++ {
			for slot := range g.cells[cellKey{x, y}] {
				out[slot] = struct{}{}
			}
		}
	}
	return out
}
