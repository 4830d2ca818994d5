package tilequest

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"
)

// sceneBuilder turns validated config into scenes, loading each sheet only
// once.
type sceneBuilder struct {
	cfg    *Config
	sheets map[string]*Sheet
}

func newSceneBuilder(cfg *Config) *sceneBuilder {
	return &sceneBuilder{cfg: cfg, sheets: make(map[string]*Sheet)}
}

func (b *sceneBuilder) sheet(path, owner string) *Sheet {
	if path == "" {
		return nil
	}
	path = b.cfg.resolve(path)
	if s, ok := b.sheets[path]; ok {
		return s
	}
	s := loadSheetOrNone(path, owner)
	b.sheets[path] = s
	return s
}

// BuildScene creates a scene from its config. Missing images are logged
// and draw nothing; unreadable script files are an error.
func BuildScene(cfg *Config, sc SceneConfig) (*Scene, error) {
	return newSceneBuilder(cfg).build(sc)
}

func (b *sceneBuilder) build(sc SceneConfig) (*Scene, error) {
	mc := sc.Map
	layers := make([][]int, len(mc.Layers))
	for i, l := range mc.Layers {
		layers[i] = l.Tiles
	}
	m, err := NewTileMap(mc.LayerCount, mc.RowCount, mc.ColumnCount, mc.TileSet.TileSize, layers, mc.TileSet.BlockedTiles)
	if err != nil {
		return nil, fmt.Errorf("tilequest: scene %q: %w", sc.Name, err)
	}
	m.SetSheet(b.sheet(mc.TileSet.Sheet, "scene "+sc.Name))

	cam := NewCamera(float64(b.cfg.Width), float64(b.cfg.Height), m.PixelWidth(), m.PixelHeight())
	s := NewScene(sc.Name, m, cam)
	s.Origin = Vec2{X: sc.X, Y: sc.Y}

	for _, ec := range sc.Entities {
		e, err := b.entity(ec)
		if err != nil {
			return nil, fmt.Errorf("tilequest: scene %q: %w", sc.Name, err)
		}
		if err := s.AddEntity(e); err != nil {
			return nil, err
		}
	}
	s.SetFollow(sc.Follow)

	for i, ev := range sc.Events {
		cond, err := ParseTriggerCondition(ev.Condition)
		if err != nil {
			return nil, fmt.Errorf("tilequest: scene %q event %d: %w", sc.Name, i, err)
		}
		action, err := ParseTriggerAction(ev.Action)
		if err != nil {
			return nil, fmt.Errorf("tilequest: scene %q event %d: %w", sc.Name, i, err)
		}
		s.AddTrigger(Trigger{
			Rect:      Rect{X: ev.X, Y: ev.Y, Width: ev.Width, Height: ev.Height},
			EntityID:  ev.Entity,
			Condition: cond,
			Action:    action,
			Target:    ev.Target,
		})
	}
	return s, nil
}

func (b *sceneBuilder) entity(ec EntityConfig) (Entity, error) {
	e := NewEntity(ec.ID, Rect{X: ec.X, Y: ec.Y, Width: ec.Width, Height: ec.Height}, ec.Speed)
	e.Layer = ec.Layer
	if ec.Direction != "" {
		d, err := ParseDirection(ec.Direction)
		if err != nil {
			return e, fmt.Errorf("entity %q: %w", ec.ID, err)
		}
		e.Direction = d
	}

	src, err := LoadScript(b.cfg.resolveScript(ec.Script))
	if err != nil {
		return e, fmt.Errorf("entity %q: %w", ec.ID, err)
	}
	e.Script = src

	if sp := ec.Sprite; sp != nil {
		sheet := b.sheet(sp.Sheet, "entity "+ec.ID)
		if len(sp.Frames) > 0 {
			frames := make([]image.Rectangle, len(sp.Frames))
			for i, f := range sp.Frames {
				frames[i] = image.Rect(f.X, f.Y, f.X+f.Width, f.Y+f.Height)
			}
			e.Sprite = NewSprite(sheet, frames)
		} else {
			dirs := make([]Direction, 0, len(sp.DirectionRows))
			for _, name := range sp.DirectionRows {
				d, err := ParseDirection(name)
				if err != nil {
					return e, fmt.Errorf("entity %q sprite: %w", ec.ID, err)
				}
				dirs = append(dirs, d)
			}
			e.Sprite = NewGridSprite(sheet, sp.Rows, sp.Columns, dirs)
		}
		if n := e.Sprite.FrameCount(); n > 0 && len(sp.DirectionRows) == 0 {
			e.TotalAnimationSteps = float64(n)
		} else if sp.Columns > 0 && len(sp.DirectionRows) > 0 {
			e.TotalAnimationSteps = float64(sp.Columns)
		}
	}
	return e, nil
}

// parseHexColor parses "#rrggbb" or "rrggbb". Empty yields nil.
func parseHexColor(s string) (color.Color, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if s == "" {
		return nil, nil
	}
	if len(s) != 6 {
		return nil, fmt.Errorf("theme %q: want #rrggbb", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("theme %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
