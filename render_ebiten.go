package tilequest

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// EbitenRenderer draws onto an ebiten image, usually the screen passed to
// Game.Draw.
type EbitenRenderer struct {
	Screen *ebiten.Image
	op     ebiten.DrawImageOptions
}

// DrawImagePart draws src of the sheet at (x, y). The sheet is uploaded to
// the GPU on first use.
func (r *EbitenRenderer) DrawImagePart(sheet *Sheet, x, y int, src image.Rectangle) {
	img, origin := sheet.ebitenImage()
	if img == nil {
		return
	}
	sub, ok := img.SubImage(src.Sub(origin)).(*ebiten.Image)
	if !ok {
		return
	}
	r.op.GeoM.Reset()
	r.op.GeoM.Translate(float64(x), float64(y))
	r.Screen.DrawImage(sub, &r.op)
}

// ebitenImage returns the GPU copy of the sheet and the offset between the
// sheet's bounds and the copy's.
func (s *Sheet) ebitenImage() (*ebiten.Image, image.Point) {
	if s == nil || s.img == nil {
		return nil, image.Point{}
	}
	if e, ok := s.img.(*ebiten.Image); ok {
		return e, image.Point{}
	}
	if s.gpu == nil {
		s.gpu = ebiten.NewImageFromImage(s.img)
	}
	return s.gpu, s.img.Bounds().Min
}
