package tilequest

import (
	"image"
	"image/color"
	"testing"
)

// tileSheet returns a one-row sheet of ts x ts tiles, tile i filled with
// colors[i].
func tileSheet(ts int, colors ...color.RGBA) *Sheet {
	img := image.NewRGBA(image.Rect(0, 0, ts*len(colors), ts))
	for i, c := range colors {
		for y := 0; y < ts; y++ {
			for x := i * ts; x < (i+1)*ts; x++ {
				img.SetRGBA(x, y, c)
			}
		}
	}
	return NewSheet(img)
}

// filledLayer returns a rows*cols layer holding tile everywhere.
func filledLayer(rows, cols, tile int) []int {
	l := make([]int, rows*cols)
	for i := range l {
		l[i] = tile
	}
	return l
}

func mustTileMap(t *testing.T, layerCount, rows, cols, ts int, layers [][]int, blocked []int) *TileMap {
	t.Helper()
	m, err := NewTileMap(layerCount, rows, cols, ts, layers, blocked)
	if err != nil {
		t.Fatalf("NewTileMap: %v", err)
	}
	return m
}

type drawCall struct {
	sheet *Sheet
	x, y  int
	src   image.Rectangle
}

// recordingRenderer records draw calls in order.
type recordingRenderer struct {
	calls []drawCall
}

func (r *recordingRenderer) DrawImagePart(sheet *Sheet, x, y int, src image.Rectangle) {
	r.calls = append(r.calls, drawCall{sheet: sheet, x: x, y: y, src: src})
}

// eventRecorder collects emitted events.
type eventRecorder struct {
	events []SceneEvent
}

func (r *eventRecorder) EmitEvent(ev SceneEvent) { r.events = append(r.events, ev) }

func (r *eventRecorder) count(t EventType) int {
	n := 0
	for _, ev := range r.events {
		if ev.Type == t {
			n++
		}
	}
	return n
}

var (
	red   = color.RGBA{R: 0xff, A: 0xff}
	green = color.RGBA{G: 0xff, A: 0xff}
	blue  = color.RGBA{B: 0xff, A: 0xff}
)
