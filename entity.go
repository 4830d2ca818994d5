package tilequest

import "math"

const (
	defaultAnimationSteps = 4.0
	defaultAnimationSpeed = 10.0
)

// Entity is a movable axis-aligned box on a tile map. Entities are plain
// values: scripts return a new value that replaces the old one.
type Entity struct {
	// ID is the stable name scripts and triggers refer to the entity by.
	ID string
	// Layer is the draw layer; entities on layer i are drawn right after
	// tile layer i.
	Layer int

	// Rect is the world-space box in pixels. Width and Height are fixed
	// after creation.
	Rect  Rect
	Speed float64

	Direction           Direction
	AnimationStep       float64
	TotalAnimationSteps float64
	AnimationSpeed      float64

	Sprite *Sprite
	// Script is the source run once per tick, empty for inert entities.
	Script string

	// ScreenPosition is where the entity is drawn, relative to the camera.
	ScreenPosition Vec2
}

// NewEntity creates an entity facing down with default animation timing.
func NewEntity(id string, rect Rect, speed float64) Entity {
	return Entity{
		ID:                  id,
		Rect:                rect,
		Speed:               speed,
		Direction:           DirectionDown,
		TotalAnimationSteps: defaultAnimationSteps,
		AnimationSpeed:      defaultAnimationSpeed,
		ScreenPosition:      Vec2{X: rect.X, Y: rect.Y},
	}
}

// Mov moves the entity by dir*Speed*delta, resolving collisions against m
// one axis at a time so the entity slides along walls. The facing follows
// the input, vertical input winning over horizontal.
func (e *Entity) Mov(delta, dirX, dirY float64, m *TileMap) {
	switch {
	case dirY > 0:
		e.Direction = DirectionDown
	case dirY < 0:
		e.Direction = DirectionUp
	case dirX > 0:
		e.Direction = DirectionRight
	case dirX < 0:
		e.Direction = DirectionLeft
	}
	if dirX != 0 || dirY != 0 {
		e.AnimationStep += e.AnimationSpeed * delta
	}
	if e.AnimationStep > e.TotalAnimationSteps {
		e.AnimationStep = 0
	}

	var dx, dy float64
	if dirX != 0 {
		dx = dirX * e.Speed * delta
	}
	if dirY != 0 {
		dy = dirY * e.Speed * delta
	}
	if dx == 0 && dy == 0 {
		return
	}
	if m == nil {
		e.Rect.X += dx
		e.Rect.Y += dy
		return
	}

	e.sweep(dx, 0, m)
	e.sweep(0, dy, m)

	maxX := m.PixelWidth() - e.Rect.Width
	maxY := m.PixelHeight() - e.Rect.Height
	e.Rect.X = math.Max(e.Rect.Width, math.Min(e.Rect.X, maxX))
	e.Rect.Y = math.Max(e.Rect.Height, math.Min(e.Rect.Y, maxY))
}

// sweep applies a single-axis displacement in steps no longer than the
// smaller of a tile and the entity, stopping at the first collision.
// Displacements longer than the map and entity combined are shortened to
// that length; the final clamp in Mov lands them in the same place.
func (e *Entity) sweep(dx, dy float64, m *TileMap) {
	limit := m.PixelWidth() + m.PixelHeight() + e.Rect.Width + e.Rect.Height
	dx = math.Copysign(math.Min(math.Abs(dx), limit), dx)
	dy = math.Copysign(math.Min(math.Abs(dy), limit), dy)
	dist := math.Abs(dx) + math.Abs(dy)
	if dist == 0 || math.IsNaN(dist) {
		return
	}
	maxStep := math.Min(float64(m.TileSize()), math.Min(e.Rect.Width, e.Rect.Height))
	if maxStep < 1 {
		maxStep = 1
	}
	n := int(math.Ceil(dist / maxStep))
	sx := dx / float64(n)
	sy := dy / float64(n)
	for i := 0; i < n; i++ {
		e.Rect.X += sx
		e.Rect.Y += sy
		if e.resolveTileCollision(sx, sy, m) {
			return
		}
	}
}

// resolveTileCollision tests the four corners of the entity, inset by one
// pixel, and snaps the entity to the tile edge on the axis of travel when
// any corner sits in a blocked cell. It reports whether it snapped.
func (e *Entity) resolveTileCollision(dirX, dirY float64, m *TileMap) bool {
	r := e.Rect
	left := r.X + 1
	right := r.X + r.Width - 1
	top := r.Y + 1
	bottom := r.Y + r.Height - 1

	collision := m.IsTileBlocked(left, top) || m.IsTileBlocked(right, top) ||
		m.IsTileBlocked(right, bottom) || m.IsTileBlocked(left, bottom)
	if !collision {
		return false
	}

	switch {
	case dirY > 0:
		e.Rect.Y = m.Y(m.Row(bottom)) - r.Height
	case dirY < 0:
		e.Rect.Y = m.Y(m.Row(top) + 1)
	case dirX > 0:
		e.Rect.X = m.X(m.Column(right)) - r.Width
	case dirX < 0:
		e.Rect.X = m.X(m.Column(left) + 1)
	}
	return true
}

// Center returns the middle of the entity's world box.
func (e *Entity) Center() Vec2 {
	return Vec2{X: e.Rect.X + e.Rect.Width/2, Y: e.Rect.Y + e.Rect.Height/2}
}
