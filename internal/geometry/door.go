package geometry

import (
	"errors"
	"fmt"
	"math"
)

// HingeSide names which end of a door leaf stays fixed while the other
// end swings.
type HingeSide string

const (
	HingeLeft  HingeSide = "left"
	HingeRight HingeSide = "right"
)

// DoorGeometry is everything a renderer needs to draw a door: the leaf
// endpoints on the wall, the fully-open endpoint, and the arc sweep
// direction.
type DoorGeometry struct {
	Hinge     Point `json:"hinge"`
	Latch     Point `json:"latch"`
	SwingEnd  Point `json:"swingEnd"`
	SweepFlag int   `json:"sweepFlag"`
}

var ErrInvalidDoor = errors.New("invalid door placement")

// swingProbeOffset is how far past the wall the inward-direction probe
// point is pushed, in subunits.
const swingProbeOffset = 4

// ComputeDoorGeometry places a door leaf of the given width centered at
// positionOnWall along the wall from wallStart to wallEnd. The hinge end
// is chosen by hingeSide; the swing direction is whichever wall normal
// points into the room polygon; the sweep flag follows the sign of the
// cross product between the closed leaf and the open leaf.
func ComputeDoorGeometry(wallStart, wallEnd Point, positionOnWall, width int, hingeSide HingeSide, roomVertices []Point, roomPosition Point) (DoorGeometry, error) {
	if width <= 0 {
		return DoorGeometry{}, fmt.Errorf("%w: width %d", ErrInvalidDoor, width)
	}
	wallLen := wallStart.DistanceTo(wallEnd)
	if wallLen == 0 {
		return DoorGeometry{}, fmt.Errorf("%w: zero-length wall", ErrInvalidDoor)
	}

	dirX := float64(wallEnd.X-wallStart.X) / wallLen
	dirY := float64(wallEnd.Y-wallStart.Y) / wallLen
	pos := float64(ClampDoorPosition(wallLen, positionOnWall, width))
	half := float64(width) / 2

	ax := float64(wallStart.X) + (pos-half)*dirX
	ay := float64(wallStart.Y) + (pos-half)*dirY
	bx := float64(wallStart.X) + (pos+half)*dirX
	by := float64(wallStart.Y) + (pos+half)*dirY

	var hx, hy, lx, ly float64
	switch hingeSide {
	case HingeLeft:
		hx, hy, lx, ly = ax, ay, bx, by
	case HingeRight:
		hx, hy, lx, ly = bx, by, ax, ay
	default:
		return DoorGeometry{}, fmt.Errorf("%w: hinge side %q", ErrInvalidDoor, hingeSide)
	}

	// Probe both wall normals; the one landing inside the room is inward.
	nx, ny := -dirY, dirX
	cx := float64(wallStart.X) + pos*dirX
	cy := float64(wallStart.Y) + pos*dirY
	probe := Point{
		X: int(math.Round(cx + nx*swingProbeOffset)),
		Y: int(math.Round(cy + ny*swingProbeOffset)),
	}
	if !PointInPolygon(probe, Translate(roomVertices, roomPosition)) {
		nx, ny = -nx, -ny
	}

	sx := hx + nx*float64(width)
	sy := hy + ny*float64(width)

	leafX, leafY := lx-hx, ly-hy
	swingX, swingY := sx-hx, sy-hy
	sweep := 0
	if leafX*swingY-leafY*swingX > 0 {
		sweep = 1
	}

	return DoorGeometry{
		Hinge:     Point{X: int(math.Round(hx)), Y: int(math.Round(hy))},
		Latch:     Point{X: int(math.Round(lx)), Y: int(math.Round(ly))},
		SwingEnd:  Point{X: int(math.Round(sx)), Y: int(math.Round(sy))},
		SweepFlag: sweep,
	}, nil
}
