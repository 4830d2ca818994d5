package tilequest

import (
	"image"
	"math"
	"time"
)

// Renderer receives draw calls from Scene.Draw. (x, y) is the destination
// of the top-left corner of src in screen pixels; src is a region of the
// sheet's image. Implementations clip to their own bounds.
type Renderer interface {
	DrawImagePart(sheet *Sheet, x, y int, src image.Rectangle)
}

// tileWindow is the block of map cells intersecting the camera viewport.
// offsetX and offsetY are the screen position of cell (startRow, startCol).
type tileWindow struct {
	startCol, endCol int
	startRow, endRow int
	offsetX, offsetY float64
}

func (s *Scene) visibleWindow() tileWindow {
	m := s.tileMap
	cam := s.camera.Rect
	ts := float64(m.TileSize())

	startCol := int(math.Floor(cam.X / ts))
	startRow := int(math.Floor(cam.Y / ts))
	// One extra cell covers the partially visible tile at the far edge.
	endCol := startCol + int(math.Ceil(cam.Width/ts)) + 1
	endRow := startRow + int(math.Ceil(cam.Height/ts)) + 1

	startCol = max(startCol, 0)
	startRow = max(startRow, 0)
	endCol = min(endCol, m.ColumnCount())
	endRow = min(endRow, m.RowCount())

	return tileWindow{
		startCol: startCol,
		endCol:   endCol,
		startRow: startRow,
		endRow:   endRow,
		offsetX:  s.Origin.X + float64(startCol)*ts - cam.X,
		offsetY:  s.Origin.Y + float64(startRow)*ts - cam.Y,
	}
}

// Draw renders the visible part of the scene. Tile layers are drawn in
// order; entities on layer i are drawn right after tile layer i. Entities
// on negative layers come before the first tile layer, entities on layers
// past the last tile layer come after it.
func (s *Scene) Draw(r Renderer) {
	start := time.Now()
	s.stats.tilesDrawn = 0
	s.stats.entitiesDrawn = 0

	w := s.visibleWindow()
	top := s.tileMap.LayerCount()
	if n := len(s.layerOrder); n > 0 && s.layerOrder[n-1]+1 > top {
		top = s.layerOrder[n-1] + 1
	}

	for _, l := range s.layerOrder {
		if l >= 0 {
			break
		}
		s.drawEntityLayer(r, l)
	}
	for i := 0; i < top; i++ {
		if i < s.tileMap.LayerCount() {
			s.drawTileLayer(r, i, w)
		}
		s.drawEntityLayer(r, i)
	}

	s.stats.drawTime = time.Since(start)
}

func (s *Scene) drawTileLayer(r Renderer, layer int, w tileWindow) {
	m := s.tileMap
	sheet := m.Sheet()
	if sheet == nil {
		return
	}
	ts := float64(m.TileSize())
	for row := w.startRow; row < w.endRow; row++ {
		y := int(math.Floor(w.offsetY + float64(row-w.startRow)*ts))
		for col := w.startCol; col < w.endCol; col++ {
			tile := m.Tile(layer, row, col)
			if tile == EmptyTile {
				continue
			}
			src, ok := m.SourceRect(tile)
			if !ok {
				continue
			}
			x := int(math.Floor(w.offsetX + float64(col-w.startCol)*ts))
			r.DrawImagePart(sheet, x, y, src)
			s.stats.tilesDrawn++
		}
	}
}

func (s *Scene) drawEntityLayer(r Renderer, layer int) {
	view := Rect{X: s.Origin.X, Y: s.Origin.Y, Width: s.camera.Rect.Width, Height: s.camera.Rect.Height}
	for _, i := range s.layers[layer] {
		e := &s.entities[i]
		sheet := e.Sprite.Sheet()
		if sheet == nil {
			continue
		}
		src, ok := e.Sprite.Frame(e.Direction, e.AnimationStep)
		if !ok {
			continue
		}
		x := math.Floor(s.Origin.X + e.ScreenPosition.X)
		y := math.Floor(s.Origin.Y + e.ScreenPosition.Y)
		if !view.Overlaps(Rect{X: x, Y: y, Width: float64(src.Dx()), Height: float64(src.Dy())}) {
			continue
		}
		r.DrawImagePart(sheet, int(x), int(y), src)
		s.stats.entitiesDrawn++
	}
}
