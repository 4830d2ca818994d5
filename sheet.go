package tilequest

import (
	"fmt"
	"image"
	_ "image/gif"  // sheet decoders
	_ "image/jpeg" // sheet decoders
	_ "image/png"  // sheet decoders
	"os"

	"github.com/hajimehoshi/ebiten/v2"
)

// Sheet is a decoded sprite-sheet image. Tiles and animation frames address
// it by sub-rectangle. A nil *Sheet is valid and draws nothing.
type Sheet struct {
	// Path is the file the sheet was loaded from, empty for in-memory sheets.
	Path string

	img image.Image
	gpu *ebiten.Image // uploaded lazily by EbitenRenderer
}

// NewSheet wraps an already decoded image.
func NewSheet(img image.Image) *Sheet {
	return &Sheet{img: img}
}

// LoadSheet decodes the image at path. PNG, JPEG and GIF are supported.
func LoadSheet(path string) (*Sheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("tilequest: open sheet: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("tilequest: decode sheet %s: %w", path, err)
	}
	return &Sheet{Path: path, img: img}, nil
}

// loadSheetOrNone loads the sheet at path. A missing or corrupt image is
// logged and yields nil so the owner keeps rendering without it.
func loadSheetOrNone(path, owner string) *Sheet {
	if path == "" {
		return nil
	}
	s, err := LoadSheet(path)
	if err != nil {
		componentLog("assets").WithField("owner", owner).WithError(err).
			Warn("sheet unavailable, drawing nothing")
		return nil
	}
	return s
}

// Image returns the decoded image, or nil.
func (s *Sheet) Image() image.Image {
	if s == nil {
		return nil
	}
	return s.img
}

// Bounds returns the pixel bounds of the sheet. A nil sheet is empty.
func (s *Sheet) Bounds() image.Rectangle {
	if s == nil || s.img == nil {
		return image.Rectangle{}
	}
	return s.img.Bounds()
}
