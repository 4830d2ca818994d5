package tilequest

import (
	"fmt"
	"image"
	"math"
)

// EmptyTile marks a cell with nothing to draw. It never blocks movement.
const EmptyTile = -1

// TileLayer is one grid of tile indices, stored row-major.
type TileLayer struct {
	tiles []int
}

// TileMap is a grid of layered tile indices plus the set of tile indices
// that block movement. The grid shape is fixed at construction; tile values
// may change through SetTile.
type TileMap struct {
	layerCount  int
	rowCount    int
	columnCount int
	tileSize    int

	layers  []TileLayer
	blocked map[int]struct{}

	// sheet holds the tile images, addressed left-to-right, top-to-bottom
	// in tileSize squares. nil when the tile set image failed to load.
	sheet *Sheet
}

// NewTileMap builds a tile map. layers may hold fewer than layerCount
// entries; missing layers read as empty. Every present layer must hold
// exactly rows*columns tiles.
func NewTileMap(layerCount, rows, columns, tileSize int, layers [][]int, blocked []int) (*TileMap, error) {
	if tileSize <= 0 {
		return nil, fmt.Errorf("tilequest: tile size must be positive, got %d", tileSize)
	}
	if layerCount < 0 || rows < 0 || columns < 0 {
		return nil, fmt.Errorf("tilequest: negative map dimensions %dx%dx%d", layerCount, rows, columns)
	}
	if len(layers) > layerCount {
		return nil, fmt.Errorf("tilequest: %d layers given, layer_count is %d", len(layers), layerCount)
	}

	m := &TileMap{
		layerCount:  layerCount,
		rowCount:    rows,
		columnCount: columns,
		tileSize:    tileSize,
		layers:      make([]TileLayer, len(layers)),
		blocked:     make(map[int]struct{}, len(blocked)),
	}
	for i, data := range layers {
		if len(data) != rows*columns {
			return nil, fmt.Errorf("tilequest: layer %d has %d tiles, want %d", i, len(data), rows*columns)
		}
		tiles := make([]int, len(data))
		copy(tiles, data)
		m.layers[i] = TileLayer{tiles: tiles}
	}
	for _, t := range blocked {
		if t == EmptyTile {
			continue
		}
		m.blocked[t] = struct{}{}
	}
	return m, nil
}

// LayerCount returns the number of tile layers.
func (m *TileMap) LayerCount() int { return m.layerCount }

// RowCount returns the map height in tiles.
func (m *TileMap) RowCount() int { return m.rowCount }

// ColumnCount returns the map width in tiles.
func (m *TileMap) ColumnCount() int { return m.columnCount }

// TileSize returns the edge length of a tile in pixels.
func (m *TileMap) TileSize() int { return m.tileSize }

// PixelWidth returns the map width in pixels.
func (m *TileMap) PixelWidth() float64 { return float64(m.columnCount * m.tileSize) }

// PixelHeight returns the map height in pixels.
func (m *TileMap) PixelHeight() float64 { return float64(m.rowCount * m.tileSize) }

// Sheet returns the tile set image, or nil.
func (m *TileMap) Sheet() *Sheet { return m.sheet }

// SetSheet sets the tile set image. nil disables tile drawing.
func (m *TileMap) SetSheet(s *Sheet) { m.sheet = s }

// Tile returns the tile index at the given cell, or EmptyTile when the
// layer, row or column is out of range.
func (m *TileMap) Tile(layer, row, column int) int {
	if layer < 0 || layer >= len(m.layers) {
		return EmptyTile
	}
	if row < 0 || row >= m.rowCount || column < 0 || column >= m.columnCount {
		return EmptyTile
	}
	return m.layers[layer].tiles[row*m.columnCount+column]
}

// SetTile updates a single tile. Out-of-range coordinates are ignored.
func (m *TileMap) SetTile(layer, column, row, tile int) {
	if layer < 0 || layer >= len(m.layers) {
		return
	}
	if column < 0 || column >= m.columnCount || row < 0 || row >= m.rowCount {
		return
	}
	m.layers[layer].tiles[row*m.columnCount+column] = tile
}

// IsBlocked reports whether any layer holds a blocking tile at the cell.
// Cells outside the map are not blocked.
func (m *TileMap) IsBlocked(column, row int) bool {
	if column < 0 || column >= m.columnCount || row < 0 || row >= m.rowCount {
		return false
	}
	i := row*m.columnCount + column
	for _, l := range m.layers {
		if _, ok := m.blocked[l.tiles[i]]; ok {
			return true
		}
	}
	return false
}

// IsTileBlocked reports whether the cell under the pixel position is blocked.
func (m *TileMap) IsTileBlocked(x, y float64) bool {
	return m.IsBlocked(int(m.Column(x)), int(m.Row(y)))
}

// IsBlockedTile reports whether the tile index is in the blocked set.
func (m *TileMap) IsBlockedTile(tile int) bool {
	_, ok := m.blocked[tile]
	return ok
}

// Column returns the column under pixel x, floored.
func (m *TileMap) Column(x float64) float64 {
	return math.Floor(x / float64(m.tileSize))
}

// Row returns the row under pixel y, floored.
func (m *TileMap) Row(y float64) float64 {
	return math.Floor(y / float64(m.tileSize))
}

// X returns the left pixel edge of a column.
func (m *TileMap) X(column float64) float64 {
	return column * float64(m.tileSize)
}

// Y returns the top pixel edge of a row.
func (m *TileMap) Y(row float64) float64 {
	return row * float64(m.tileSize)
}

// SourceRect returns the sheet sub-rectangle holding the tile image.
// ok is false for EmptyTile, for indices past the end of the sheet, and when
// no sheet is loaded.
func (m *TileMap) SourceRect(tile int) (r image.Rectangle, ok bool) {
	if tile < 0 || m.sheet == nil {
		return image.Rectangle{}, false
	}
	b := m.sheet.Bounds()
	cols := b.Dx() / m.tileSize
	rows := b.Dy() / m.tileSize
	if cols == 0 || tile >= cols*rows {
		return image.Rectangle{}, false
	}
	x := b.Min.X + (tile%cols)*m.tileSize
	y := b.Min.Y + (tile/cols)*m.tileSize
	return image.Rect(x, y, x+m.tileSize, y+m.tileSize), true
}
