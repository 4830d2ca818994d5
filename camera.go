package tilequest

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

const defaultCameraSpeed = 256

// scrollAnim holds active scroll-to tweens for camera X and Y.
type scrollAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// Camera is the viewport into a tile map. Rect is the world-space region on
// screen; its top-left corner always stays within [0, Maximum].
type Camera struct {
	// Rect is the world-space viewport. Width and Height are the screen size.
	Rect Rect
	// Maximum is the largest top-left position: map size minus viewport.
	Maximum Vec2
	// Speed is the pan speed of Mov in pixels per second.
	Speed float64

	scrollTween *scrollAnim
}

// NewCamera creates a camera at the map origin for a viewport of the given
// size over a map of mapW x mapH pixels. Maps smaller than the viewport
// pin the camera at the origin.
func NewCamera(width, height, mapW, mapH float64) *Camera {
	return &Camera{
		Rect:    Rect{Width: width, Height: height},
		Maximum: Vec2{X: math.Max(0, mapW-width), Y: math.Max(0, mapH-height)},
		Speed:   defaultCameraSpeed,
	}
}

// Mov pans the camera by dir*Speed*delta and clamps it to the map.
func (c *Camera) Mov(delta, dirX, dirY float64) {
	c.Rect.X += dirX * c.Speed * delta
	c.Rect.Y += dirY * c.Speed * delta
	c.clamp()
}

// Follow centers the viewport on the entity and sets the entity's screen
// position. Near the map edges the camera is clamped and the entity is
// drawn off-center, at its offset from the clamped camera. Each axis is
// handled on its own.
func (c *Camera) Follow(e *Entity) {
	halfW := c.Rect.Width / 2
	halfH := c.Rect.Height / 2

	screen := Vec2{X: halfW, Y: halfH}

	c.Rect.X = e.Rect.X - halfW
	c.Rect.Y = e.Rect.Y - halfH
	c.clamp()

	if e.Rect.X < halfW || e.Rect.X > c.Maximum.X+halfW {
		screen.X = e.Rect.X - c.Rect.X
	}
	if e.Rect.Y < halfH || e.Rect.Y > c.Maximum.Y+halfH {
		screen.Y = e.Rect.Y - c.Rect.Y
	}
	e.ScreenPosition = screen
}

// ScrollTo animates the camera's top-left corner to (x, y) over duration
// seconds. Follow calls are skipped by Scene while the pan runs.
func (c *Camera) ScrollTo(x, y float64, duration float32, easeFn ease.TweenFunc) {
	if easeFn == nil {
		easeFn = ease.Linear
	}
	c.scrollTween = &scrollAnim{
		tweenX: gween.New(float32(c.Rect.X), float32(x), duration, easeFn),
		tweenY: gween.New(float32(c.Rect.Y), float32(y), duration, easeFn),
	}
}

// Scrolling reports whether a ScrollTo pan is in progress.
func (c *Camera) Scrolling() bool {
	return c.scrollTween != nil
}

// StopScroll cancels a running pan, leaving the camera where it is.
func (c *Camera) StopScroll() {
	c.scrollTween = nil
}

// Update advances a running pan by dt seconds.
func (c *Camera) Update(dt float32) {
	if c.scrollTween == nil {
		return
	}
	if !c.scrollTween.doneX {
		val, done := c.scrollTween.tweenX.Update(dt)
		c.Rect.X = float64(val)
		c.scrollTween.doneX = done
	}
	if !c.scrollTween.doneY {
		val, done := c.scrollTween.tweenY.Update(dt)
		c.Rect.Y = float64(val)
		c.scrollTween.doneY = done
	}
	if c.scrollTween.doneX && c.scrollTween.doneY {
		c.scrollTween = nil
	}
	c.clamp()
}

// WorldToScreen converts world coordinates to viewport coordinates.
func (c *Camera) WorldToScreen(wx, wy float64) (sx, sy float64) {
	return wx - c.Rect.X, wy - c.Rect.Y
}

// ScreenToWorld converts viewport coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	return sx + c.Rect.X, sy + c.Rect.Y
}

func (c *Camera) clamp() {
	c.Rect.X = math.Max(0, math.Min(c.Rect.X, c.Maximum.X))
	c.Rect.Y = math.Max(0, math.Min(c.Rect.Y, c.Maximum.Y))
}
