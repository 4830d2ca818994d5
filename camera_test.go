package tilequest

import (
	"testing"

	"github.com/tanema/gween/ease"
)

func TestNewCameraMaximum(t *testing.T) {
	tests := []struct {
		name       string
		w, h       float64
		mapW, mapH float64
		want       Vec2
	}{
		{"larger map", 100, 100, 300, 250, Vec2{200, 150}},
		{"same size", 100, 100, 100, 100, Vec2{0, 0}},
		{"smaller map", 800, 600, 320, 320, Vec2{0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := NewCamera(tt.w, tt.h, tt.mapW, tt.mapH)
			if cam.Maximum != tt.want {
				t.Errorf("Maximum = %v, want %v", cam.Maximum, tt.want)
			}
			if cam.Rect != (Rect{Width: tt.w, Height: tt.h}) {
				t.Errorf("Rect = %v, want origin-anchored viewport", cam.Rect)
			}
		})
	}
}

func TestCameraFollowClampsAtEdge(t *testing.T) {
	cam := NewCamera(100, 100, 300, 250)
	e := NewEntity("e", Rect{X: 500, Y: 500, Width: 16, Height: 16}, 0)

	cam.Follow(&e)

	if cam.Rect.X != 200 || cam.Rect.Y != 150 {
		t.Errorf("camera = (%v, %v), want (200, 150)", cam.Rect.X, cam.Rect.Y)
	}
	if e.ScreenPosition != (Vec2{X: 300, Y: 350}) {
		t.Errorf("ScreenPosition = %v, want (300, 350)", e.ScreenPosition)
	}
}

func TestCameraFollowCenters(t *testing.T) {
	cam := NewCamera(100, 100, 1000, 1000)
	e := NewEntity("e", Rect{X: 400, Y: 300, Width: 16, Height: 16}, 0)

	cam.Follow(&e)

	if cam.Rect.X != 350 || cam.Rect.Y != 250 {
		t.Errorf("camera = (%v, %v), want (350, 250)", cam.Rect.X, cam.Rect.Y)
	}
	if e.ScreenPosition != (Vec2{X: 50, Y: 50}) {
		t.Errorf("ScreenPosition = %v, want viewport center (50, 50)", e.ScreenPosition)
	}
}

func TestCameraFollowNearOrigin(t *testing.T) {
	cam := NewCamera(100, 100, 1000, 1000)
	// x is near the left edge, y is in the middle: axes clamp separately.
	e := NewEntity("e", Rect{X: 20, Y: 300, Width: 16, Height: 16}, 0)

	cam.Follow(&e)

	if cam.Rect.X != 0 || cam.Rect.Y != 250 {
		t.Errorf("camera = (%v, %v), want (0, 250)", cam.Rect.X, cam.Rect.Y)
	}
	if e.ScreenPosition != (Vec2{X: 20, Y: 50}) {
		t.Errorf("ScreenPosition = %v, want (20, 50)", e.ScreenPosition)
	}
}

func TestCameraMovClamps(t *testing.T) {
	cam := NewCamera(100, 100, 300, 250)
	cam.Speed = 100

	cam.Mov(1, 1, 1)
	if cam.Rect.X != 100 || cam.Rect.Y != 100 {
		t.Errorf("after one second: (%v, %v), want (100, 100)", cam.Rect.X, cam.Rect.Y)
	}
	cam.Mov(5, 1, 1)
	if cam.Rect.X != 200 || cam.Rect.Y != 150 {
		t.Errorf("past the maximum: (%v, %v), want (200, 150)", cam.Rect.X, cam.Rect.Y)
	}
	cam.Mov(10, -1, -1)
	if cam.Rect.X != 0 || cam.Rect.Y != 0 {
		t.Errorf("past the origin: (%v, %v), want (0, 0)", cam.Rect.X, cam.Rect.Y)
	}
}

func TestCameraMovZeroDelta(t *testing.T) {
	tests := []struct {
		name       string
		start      Rect
		dirX, dirY float64
	}{
		{"origin", Rect{Width: 100, Height: 100}, 1, 1},
		{"middle", Rect{X: 120, Y: 40, Width: 100, Height: 100}, -1, 1},
		{"maximum", Rect{X: 200, Y: 150, Width: 100, Height: 100}, 1, -1},
		{"no input", Rect{X: 50, Y: 50, Width: 100, Height: 100}, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := NewCamera(100, 100, 300, 250)
			cam.Rect = tt.start
			cam.Mov(0, tt.dirX, tt.dirY)
			if cam.Rect != tt.start {
				t.Errorf("Rect = %v, want %v", cam.Rect, tt.start)
			}
		})
	}
}

func TestCameraStaysClamped(t *testing.T) {
	type step struct {
		delta      float64
		dirX, dirY float64
		follow     *Rect
	}
	at := func(x, y float64) *Rect { return &Rect{X: x, Y: y, Width: 16, Height: 16} }
	tests := []struct {
		name  string
		steps []step
	}{
		{"pan past every edge", []step{
			{delta: 3, dirX: 1, dirY: 1},
			{delta: 10, dirX: -1},
			{delta: 10, dirY: -1},
			{delta: 0.5, dirX: 1, dirY: -1},
		}},
		{"follow across the map", []step{
			{follow: at(-100, -100)},
			{follow: at(150, 125)},
			{follow: at(1000, 20)},
			{follow: at(20, 1000)},
		}},
		{"mixed", []step{
			{follow: at(290, 240)},
			{delta: 1, dirX: 1, dirY: 1},
			{follow: at(0, 0)},
			{delta: 1, dirX: -1, dirY: -1},
			{follow: at(160, 130)},
			{delta: 0.25, dirX: 1},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := NewCamera(100, 100, 300, 250)
			cam.Speed = 100
			for i, st := range tt.steps {
				if st.follow != nil {
					e := NewEntity("e", *st.follow, 0)
					cam.Follow(&e)
				} else {
					cam.Mov(st.delta, st.dirX, st.dirY)
				}
				r := cam.Rect
				if r.X < 0 || r.X > cam.Maximum.X || r.Y < 0 || r.Y > cam.Maximum.Y {
					t.Errorf("step %d: camera (%v, %v) outside [0, %v]", i, r.X, r.Y, cam.Maximum)
				}
				if r.Width != 100 || r.Height != 100 {
					t.Errorf("step %d: viewport resized to %vx%v", i, r.Width, r.Height)
				}
			}
		})
	}
}

func TestCameraScrollTo(t *testing.T) {
	cam := NewCamera(100, 100, 1000, 1000)
	cam.ScrollTo(200, 100, 1.0, ease.Linear)

	if !cam.Scrolling() {
		t.Fatal("Scrolling() = false after ScrollTo")
	}
	cam.Update(0.5)
	if !approxEqual(cam.Rect.X, 100, 0.5) || !approxEqual(cam.Rect.Y, 50, 0.5) {
		t.Errorf("halfway: (%v, %v), want about (100, 50)", cam.Rect.X, cam.Rect.Y)
	}
	cam.Update(0.6)
	if !approxEqual(cam.Rect.X, 200, 0.01) || !approxEqual(cam.Rect.Y, 100, 0.01) {
		t.Errorf("done: (%v, %v), want (200, 100)", cam.Rect.X, cam.Rect.Y)
	}
	if cam.Scrolling() {
		t.Error("Scrolling() = true after the tween finished")
	}
}

func TestCameraScrollToClamps(t *testing.T) {
	cam := NewCamera(100, 100, 300, 250)
	cam.ScrollTo(1000, -50, 0.1, nil)
	cam.Update(1)
	if cam.Rect.X != 200 || cam.Rect.Y != 0 {
		t.Errorf("camera = (%v, %v), want (200, 0)", cam.Rect.X, cam.Rect.Y)
	}
}

func TestCameraStopScroll(t *testing.T) {
	cam := NewCamera(100, 100, 1000, 1000)
	cam.ScrollTo(500, 500, 1, nil)
	cam.Update(0.1)
	x := cam.Rect.X
	cam.StopScroll()
	cam.Update(0.5)
	if cam.Scrolling() || cam.Rect.X != x {
		t.Errorf("camera kept moving after StopScroll: x %v -> %v", x, cam.Rect.X)
	}
}

func TestCameraWorldScreenRoundTrip(t *testing.T) {
	cam := NewCamera(100, 100, 1000, 1000)
	cam.Rect.X, cam.Rect.Y = 120, 40
	sx, sy := cam.WorldToScreen(150, 90)
	if sx != 30 || sy != 50 {
		t.Errorf("WorldToScreen = (%v, %v), want (30, 50)", sx, sy)
	}
	wx, wy := cam.ScreenToWorld(sx, sy)
	if wx != 150 || wy != 90 {
		t.Errorf("ScreenToWorld = (%v, %v), want (150, 90)", wx, wy)
	}
}
