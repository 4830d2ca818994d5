package tilequest

import (
	"fmt"
	"image"
	"math"
)

// Vec2 is a 2D vector used for positions, offsets and sizes.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Overlaps reports whether r and other share a region of non-zero area.
// Unlike Intersects, touching edges do not count.
func (r Rect) Overlaps(other Rect) bool {
	return r.X < other.X+other.Width &&
		r.X+r.Width > other.X &&
		r.Y < other.Y+other.Height &&
		r.Y+r.Height > other.Y
}

// Image returns the rectangle truncated to integer pixel coordinates.
func (r Rect) Image() image.Rectangle {
	x := int(math.Floor(r.X))
	y := int(math.Floor(r.Y))
	return image.Rect(x, y, x+int(r.Width), y+int(r.Height))
}

// Direction is the facing of an entity.
type Direction uint8

const (
	DirectionDown  Direction = iota // facing the camera (default)
	DirectionUp                     // facing away
	DirectionLeft                   // facing left
	DirectionRight                  // facing right
)

var directionNames = [...]string{
	DirectionDown:  "down",
	DirectionUp:    "up",
	DirectionLeft:  "left",
	DirectionRight: "right",
}

// String returns the lowercase name used by config files and scripts.
func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return fmt.Sprintf("Direction(%d)", uint8(d))
}

// ParseDirection parses "up", "down", "left" or "right".
func ParseDirection(s string) (Direction, error) {
	for i, name := range directionNames {
		if name == s {
			return Direction(i), nil
		}
	}
	return DirectionDown, fmt.Errorf("tilequest: unknown direction %q", s)
}

// Key identifies a directional input key, independent of the host.
type Key uint8

const (
	KeyUp Key = iota
	KeyDown
	KeyLeft
	KeyRight
)
