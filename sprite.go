package tilequest

import "image"

// Sprite maps an animation step to a sub-rectangle of its sheet. Sprites are
// immutable after construction and may be shared between entity values.
type Sprite struct {
	sheet  *Sheet
	frames []image.Rectangle

	// directional overrides frames for a facing, e.g. one sheet row per
	// direction of a walking character.
	directional map[Direction][]image.Rectangle
}

// NewSprite creates a sprite that cycles through frames in order.
func NewSprite(sheet *Sheet, frames []image.Rectangle) *Sprite {
	return &Sprite{sheet: sheet, frames: frames}
}

// NewGridSprite creates a sprite whose frames are the cells of a rows x
// columns grid covering the whole sheet, read left-to-right, top-to-bottom.
// If dirRows is non-empty, row i of the grid becomes the frames for
// dirRows[i] and the row-major list stays the fallback.
func NewGridSprite(sheet *Sheet, rows, columns int, dirRows []Direction) *Sprite {
	s := &Sprite{sheet: sheet}
	grid := GridFrames(sheet.Bounds(), rows, columns)
	s.frames = grid
	if len(dirRows) == 0 || len(grid) == 0 {
		return s
	}
	s.directional = make(map[Direction][]image.Rectangle, len(dirRows))
	for i, d := range dirRows {
		if i >= rows {
			break
		}
		s.directional[d] = grid[i*columns : (i+1)*columns]
	}
	return s
}

// GridFrames splits bounds into rows x columns equal cells, row-major.
// It returns nil when the grid is degenerate.
func GridFrames(bounds image.Rectangle, rows, columns int) []image.Rectangle {
	if rows <= 0 || columns <= 0 {
		return nil
	}
	w := bounds.Dx() / columns
	h := bounds.Dy() / rows
	if w == 0 || h == 0 {
		return nil
	}
	frames := make([]image.Rectangle, 0, rows*columns)
	for r := 0; r < rows; r++ {
		for c := 0; c < columns; c++ {
			x := bounds.Min.X + c*w
			y := bounds.Min.Y + r*h
			frames = append(frames, image.Rect(x, y, x+w, y+h))
		}
	}
	return frames
}

// Sheet returns the sprite's sheet, or nil.
func (s *Sprite) Sheet() *Sheet {
	if s == nil {
		return nil
	}
	return s.sheet
}

// FrameCount returns the number of frames in the default sequence.
func (s *Sprite) FrameCount() int {
	if s == nil {
		return 0
	}
	return len(s.frames)
}

// Frame returns the sheet rectangle for the given facing and animation step.
// The step is truncated and clamped into the valid frame range. ok is false
// when the sprite has no frames.
func (s *Sprite) Frame(d Direction, step float64) (r image.Rectangle, ok bool) {
	if s == nil {
		return image.Rectangle{}, false
	}
	frames := s.directional[d]
	if len(frames) == 0 {
		frames = s.frames
	}
	if len(frames) == 0 {
		return image.Rectangle{}, false
	}
	i := int(step)
	if i < 0 {
		i = 0
	}
	if i >= len(frames) {
		i = len(frames) - 1
	}
	return frames[i], true
}
