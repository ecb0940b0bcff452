package walls

import (
	"github.com/KirkDiggler/rpg-perception/internal/geometry"
)

// Record is the store's view of a wall: the document plus derived vertices and the
// intersection map keyed by peer slot. A record is immutable once the store has
// published it; every mutation swaps a fresh copy into the slot.
type Record struct {
	Slot     int
	Wall     Wall
	A, B     geometry.Point
	KeyA     int64
	KeyB     int64
	Boundary bool
	Inner    bool

	// IntersectsWith maps a peer slot to the shared point. T0 is the position along
	// this wall, T1 along the peer.
	IntersectsWith map[int]geometry.LineIntersection
}

func newRecord(slot int, w Wall) *Record {
	r := &Record{Slot: slot, IntersectsWith: make(map[int]geometry.LineIntersection)}
	r.setWall(w)
	return r
}

// clone copies the record and its intersection map
func (r *Record) clone() *Record {
	c := *r
	c.IntersectsWith = make(map[int]geometry.LineIntersection, len(r.IntersectsWith))
	for k, v := range r.IntersectsWith {
		c.IntersectsWith[k] = v
	}
	return &c
}

func (r *Record) setWall(w Wall) {
	r.Wall = w
	r.A = w.A()
	r.B = w.B()
	r.KeyA = r.A.Key()
	r.KeyB = r.B.Key()
}

// ID returns the wall id
func (r *Record) ID() string {
	return r.Wall.ID
}

// Bounds returns the bounding rectangle of the segment
func (r *Record) Bounds() geometry.Rect {
	return geometry.RectFromPoints(r.A, r.B)
}

// SharesEndpoint reports whether two records have an endpoint key in common
func (r *Record) SharesEndpoint(o *Record) bool {
	return r.KeyA == o.KeyA || r.KeyA == o.KeyB || r.KeyB == o.KeyA || r.KeyB == o.KeyB
}

// Effective returns the restriction that applies to a channel right now. Open doors
// are transparent.
func (r *Record) Effective(ch Channel) Restriction {
	if r.Wall.IsOpen() {
		return RestrictionNone
	}
	return r.Wall.Restriction(ch)
}

// Side classifies p against the wall: LEFT when Orient2dFast(A,B,p) < 0, RIGHT when
// it is > 0, BOTH when p is collinear.
func (r *Record) Side(p geometry.Point) Direction {
	o := geometry.Orient2dFast(r.A, r.B, p)
	switch {
	case o < 0:
		return DirectionLeft
	case o > 0:
		return DirectionRight
	}
	return DirectionBoth
}

// FacesOrigin reports whether a one-way wall blocks an observer at origin. A wall
// facing LEFT blocks only from its right-hand side. Collinear origins never block.
func (r *Record) FacesOrigin(origin geometry.Point) bool {
	side := r.Side(origin)
	if side == DirectionBoth {
		return false
	}
	if r.Wall.Dir == DirectionBoth {
		return true
	}
	return side != r.Wall.Dir
}

// Blocks reports whether the wall participates in a computation on a channel from origin
func (r *Record) Blocks(ch Channel, origin geometry.Point) bool {
	if r.Effective(ch) == RestrictionNone {
		return false
	}
	return r.FacesOrigin(origin)
}
