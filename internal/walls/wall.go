// Package walls holds the authoritative set of wall segments for the active scene,
// their door and facing state, and the symmetric map of wall-wall intersections.
package walls

import (
	"github.com/KirkDiggler/rpg-perception/internal/geometry"
)

// Restriction is how strongly a wall blocks a channel
type Restriction int

const (
	RestrictionNone    Restriction = 0
	RestrictionLimited Restriction = 10
	RestrictionNormal  Restriction = 20
)

// DoorType distinguishes plain walls from doors
type DoorType int

const (
	DoorNone DoorType = iota
	DoorDoor
	DoorSecret
)

// DoorState is the open/closed state of a door
type DoorState int

const (
	DoorClosed DoorState = iota
	DoorOpen
	DoorLocked
)

// Direction is the one-way facing of a wall
type Direction int

const (
	DirectionBoth Direction = iota
	DirectionLeft
	DirectionRight
)

// Channel is the restriction type a wall is evaluated against
type Channel string

const (
	ChannelMove  Channel = "move"
	ChannelSight Channel = "sight"
	ChannelSound Channel = "sound"
	ChannelLight Channel = "light"
)

// Valid reports whether the channel is one of the known restriction types
func (c Channel) Valid() bool {
	switch c {
	case ChannelMove, ChannelSight, ChannelSound, ChannelLight:
		return true
	}
	return false
}

// Wall is the document form of a wall segment
type Wall struct {
	ID        string      `json:"id" yaml:"id"`
	C         [4]float64  `json:"c" yaml:"c"`
	Move      Restriction `json:"move" yaml:"move"`
	Sight     Restriction `json:"sight" yaml:"sight"`
	Sound     Restriction `json:"sound" yaml:"sound"`
	Light     Restriction `json:"light" yaml:"light"`
	Door      DoorType    `json:"door" yaml:"door"`
	DoorState DoorState   `json:"ds" yaml:"ds"`
	Dir       Direction   `json:"dir" yaml:"dir"`
}

// A returns the first endpoint
func (w Wall) A() geometry.Point {
	return geometry.Point{X: w.C[0], Y: w.C[1]}
}

// B returns the second endpoint
func (w Wall) B() geometry.Point {
	return geometry.Point{X: w.C[2], Y: w.C[3]}
}

// Midpoint returns the center of the wall, which is where door controls sit
func (w Wall) Midpoint() geometry.Point {
	return geometry.Point{X: (w.C[0] + w.C[2]) / 2, Y: (w.C[1] + w.C[3]) / 2}
}

// IsDoor reports whether the wall is a door of any kind
func (w Wall) IsDoor() bool {
	return w.Door != DoorNone
}

// IsOpen reports an open door, which blocks nothing
func (w Wall) IsOpen() bool {
	return w.IsDoor() && w.DoorState == DoorOpen
}

// Restriction returns the wall's restriction for a channel, ignoring door state
func (w Wall) Restriction(ch Channel) Restriction {
	switch ch {
	case ChannelMove:
		return w.Move
	case ChannelSight:
		return w.Sight
	case ChannelSound:
		return w.Sound
	case ChannelLight:
		return w.Light
	}
	return RestrictionNone
}

// NormalWall returns a wall that fully blocks every channel
func NormalWall(id string, x0, y0, x1, y1 float64) Wall {
	return Wall{
		ID:    id,
		C:     [4]float64{x0, y0, x1, y1},
		Move:  RestrictionNormal,
		Sight: RestrictionNormal,
		Sound: RestrictionNormal,
		Light: RestrictionNormal,
	}
}
