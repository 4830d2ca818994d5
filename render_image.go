package tilequest

import (
	"image"
	"image/color"
	"image/draw"
)

// ImageRenderer draws into an in-memory RGBA image. It backs headless runs,
// snapshots and tests.
type ImageRenderer struct {
	Target *image.RGBA
	// Background fills the target on Clear.
	Background color.Color
}

// NewImageRenderer creates a renderer with a transparent w x h target.
func NewImageRenderer(w, h int) *ImageRenderer {
	return &ImageRenderer{
		Target:     image.NewRGBA(image.Rect(0, 0, w, h)),
		Background: color.Transparent,
	}
}

// Clear fills the target with the background color.
func (r *ImageRenderer) Clear() {
	draw.Draw(r.Target, r.Target.Bounds(), image.NewUniform(r.Background), image.Point{}, draw.Src)
}

// DrawImagePart composites src of the sheet at (x, y), clipped to the target.
func (r *ImageRenderer) DrawImagePart(sheet *Sheet, x, y int, src image.Rectangle) {
	img := sheet.Image()
	if img == nil {
		return
	}
	src = src.Intersect(img.Bounds())
	if src.Empty() {
		return
	}
	dst := image.Rect(x, y, x+src.Dx(), y+src.Dy())
	draw.Draw(r.Target, dst, img, src.Min, draw.Over)
}
