package match3

import (
	"fmt"
	"math"
)

// Coord is a cell position. X grows to the right and Y grows upward: row 0 is
// the bottom row, which is where gravity pulls tokens.
type Coord struct {
	X int
	Y int
}

// C is a convenience constructor for Coord.
func C(x, y int) Coord {
	return Coord{X: x, Y: y}
}

// String returns a string representation of the coordinate.
func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Add returns c offset by (dx, dy).
func (c Coord) Add(dx, dy int) Coord {
	return Coord{X: c.X + dx, Y: c.Y + dy}
}

// Step returns the neighbouring coordinate in direction d.
func (c Coord) Step(d Direction) Coord {
	dx, dy := d.Delta()
	return c.Add(dx, dy)
}

// Adjacent reports whether c and o share an edge.
func (c Coord) Adjacent(o Coord) bool {
	dx, dy := c.X-o.X, c.Y-o.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx+dy == 1
}

// Direction is one of the four swap directions.
type Direction uint8

const (
	DirUp Direction = iota
	DirRight
	DirDown
	DirLeft
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirRight:
		return "right"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	default:
		return "unknown"
	}
}

// Delta returns the (dx, dy) offset of one step in direction d.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case DirUp:
		return 0, 1
	case DirRight:
		return 1, 0
	case DirDown:
		return 0, -1
	case DirLeft:
		return -1, 0
	default:
		return 0, 0
	}
}

// DefaultSwipeDistance is the drag length below which a gesture is ignored.
const DefaultSwipeDistance = 0.5

// SwipeDirection converts a drag vector (in cell units, Y up) into the
// direction of the neighbour to swap with. ok is false when the drag is
// shorter than minDistance.
func SwipeDirection(dx, dy, minDistance float64) (dir Direction, ok bool) {
	if math.Hypot(dx, dy) <= minDistance {
		return DirUp, false
	}

	angle := math.Atan2(dy, dx) * 180 / math.Pi
	switch {
	case angle > -45 && angle < 45:
		return DirRight, true
	case angle > 45 && angle <= 135:
		return DirUp, true
	case angle < -45 && angle >= -135:
		return DirDown, true
	default:
		return DirLeft, true
	}
}

// neighborOffsets lists the 4-neighbourhood in left, right, below, above order.
var neighborOffsets = [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
