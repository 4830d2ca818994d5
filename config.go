package tilequest

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config defaults.
const (
	DefaultWidth       = 800
	DefaultHeight      = 600
	DefaultTargetFPS   = 60
	DefaultEntitySpeed = 128
	defaultSceneName   = "main"
)

// Config is the top-level game description, usually read from a TOML file.
type Config struct {
	Title     string `toml:"title"`
	Width     int    `toml:"width"`
	Height    int    `toml:"height"`
	TargetFPS int    `toml:"target_fps"`
	// Theme is the background color behind the map as "#rrggbb".
	Theme string `toml:"theme"`
	// Start names the first active scene. Empty means the first scene.
	Start           string        `toml:"start"`
	ScriptTimeoutMs int           `toml:"script_timeout_ms"`
	Scenes          []SceneConfig `toml:"scenes"`

	// dir is the directory relative asset paths resolve against.
	dir string
}

// SceneConfig describes one scene.
type SceneConfig struct {
	Name string  `toml:"name"`
	X    float64 `toml:"x"`
	Y    float64 `toml:"y"`
	// Follow is the id of the entity the camera tracks. Empty means the
	// first entity.
	Follow   string         `toml:"follow"`
	Map      TileMapConfig  `toml:"map"`
	Entities []EntityConfig `toml:"entities"`
	Events   []EventConfig  `toml:"events"`
}

// TileMapConfig describes a tile map.
type TileMapConfig struct {
	LayerCount  int           `toml:"layer_count"`
	RowCount    int           `toml:"row_count"`
	ColumnCount int           `toml:"column_count"`
	Layers      []LayerConfig `toml:"layers"`
	TileSet     TileSetConfig `toml:"tile_set"`
}

// LayerConfig is one row-major grid of tile indices.
type LayerConfig struct {
	Tiles []int `toml:"tiles"`
}

// TileSetConfig names the tile sheet and the tiles that block movement.
type TileSetConfig struct {
	Sheet        string `toml:"sheet"`
	BlockedTiles []int  `toml:"blocked_tiles"`
	TileSize     int    `toml:"tile_size"`
}

// EntityConfig describes an entity.
type EntityConfig struct {
	ID        string  `toml:"id"`
	X         float64 `toml:"x"`
	Y         float64 `toml:"y"`
	Width     float64 `toml:"width"`
	Height    float64 `toml:"height"`
	Layer     int     `toml:"layer"`
	Speed     float64 `toml:"speed"`
	Direction string  `toml:"direction"`
	// Script is inline Lua source or a path ending in .lua.
	Script string        `toml:"script"`
	Sprite *SpriteConfig `toml:"sprite"`
}

// SpriteConfig describes an entity sprite. Frames, when given, list sheet
// rectangles explicitly; otherwise the sheet is cut into a Rows x Columns
// grid.
type SpriteConfig struct {
	Sheet         string        `toml:"sheet"`
	Rows          int           `toml:"rows"`
	Columns       int           `toml:"columns"`
	DirectionRows []string      `toml:"direction_rows"`
	Frames        []FrameConfig `toml:"frames"`
}

// FrameConfig is one explicit sprite frame.
type FrameConfig struct {
	X      int `toml:"x"`
	Y      int `toml:"y"`
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// EventConfig describes a trigger region.
type EventConfig struct {
	X         float64 `toml:"x"`
	Y         float64 `toml:"y"`
	Width     float64 `toml:"width"`
	Height    float64 `toml:"height"`
	Entity    string  `toml:"entity"`
	Condition string  `toml:"condition"`
	Action    string  `toml:"action"`
	Target    string  `toml:"target"`
}

// LoadConfig reads, defaults and validates the TOML config at path.
// Relative sheet and script paths resolve against the file's directory.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("tilequest: load config %s: %w", path, err)
	}
	cfg.dir = filepath.Dir(path)
	return finishConfig(&cfg)
}

// ParseConfig decodes TOML from data. Relative paths resolve against dir.
func ParseConfig(data string, dir string) (*Config, error) {
	var cfg Config
	if _, err := toml.Decode(data, &cfg); err != nil {
		return nil, fmt.Errorf("tilequest: parse config: %w", err)
	}
	cfg.dir = dir
	return finishConfig(&cfg)
}

func finishConfig(cfg *Config) (*Config, error) {
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Title == "" {
		c.Title = "tilequest"
	}
	if c.Width == 0 {
		c.Width = DefaultWidth
	}
	if c.Height == 0 {
		c.Height = DefaultHeight
	}
	if c.TargetFPS == 0 {
		c.TargetFPS = DefaultTargetFPS
	}
	if len(c.Scenes) == 1 && c.Scenes[0].Name == "" {
		c.Scenes[0].Name = defaultSceneName
	}
	for si := range c.Scenes {
		sc := &c.Scenes[si]
		if sc.Map.LayerCount == 0 {
			sc.Map.LayerCount = len(sc.Map.Layers)
		}
		for ei := range sc.Entities {
			ec := &sc.Entities[ei]
			if ec.Speed == 0 {
				ec.Speed = DefaultEntitySpeed
			}
			if ec.Sprite != nil && len(ec.Sprite.Frames) == 0 {
				if ec.Sprite.Rows == 0 {
					ec.Sprite.Rows = 1
				}
				if ec.Sprite.Columns == 0 {
					ec.Sprite.Columns = 1
				}
			}
		}
		if sc.Follow == "" && len(sc.Entities) > 0 {
			sc.Follow = sc.Entities[0].ID
		}
	}
}

// Validate reports every problem found in the config.
func (c *Config) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if c.Width <= 0 || c.Height <= 0 {
		fail("window size %dx%d must be positive", c.Width, c.Height)
	}
	if c.TargetFPS < 0 {
		fail("target_fps %d must not be negative", c.TargetFPS)
	}
	if c.ScriptTimeoutMs < 0 {
		fail("script_timeout_ms %d must not be negative", c.ScriptTimeoutMs)
	}
	if _, err := parseHexColor(c.Theme); err != nil {
		errs = append(errs, err)
	}
	if len(c.Scenes) == 0 {
		fail("no scenes")
	}

	names := make(map[string]bool, len(c.Scenes))
	for _, sc := range c.Scenes {
		if sc.Name == "" {
			fail("scene without a name")
		} else if names[sc.Name] {
			fail("duplicate scene %q", sc.Name)
		}
		names[sc.Name] = true
	}
	if c.Start != "" && !names[c.Start] {
		fail("start scene %q not found", c.Start)
	}

	for _, sc := range c.Scenes {
		errs = append(errs, sc.validate(names)...)
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("tilequest: invalid config: %w", err)
	}
	return nil
}

func (sc *SceneConfig) validate(scenes map[string]bool) []error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("scene %q: "+format, append([]any{sc.Name}, args...)...))
	}

	m := sc.Map
	if m.TileSet.TileSize <= 0 {
		fail("tile_size must be positive")
	}
	if m.RowCount <= 0 || m.ColumnCount <= 0 {
		fail("map size %dx%d must be positive", m.ColumnCount, m.RowCount)
	}
	if len(m.Layers) > m.LayerCount {
		fail("%d layers given, layer_count is %d", len(m.Layers), m.LayerCount)
	}
	for i, l := range m.Layers {
		if len(l.Tiles) != m.RowCount*m.ColumnCount {
			fail("layer %d has %d tiles, want %d", i, len(l.Tiles), m.RowCount*m.ColumnCount)
		}
	}

	ids := make(map[string]bool, len(sc.Entities))
	for i, e := range sc.Entities {
		if e.ID != "" {
			if ids[e.ID] {
				fail("duplicate entity %q", e.ID)
			}
			ids[e.ID] = true
		}
		if e.Width <= 0 || e.Height <= 0 {
			fail("entity %d (%q): size %gx%g must be positive", i, e.ID, e.Width, e.Height)
		}
		if e.Direction != "" {
			if _, err := ParseDirection(e.Direction); err != nil {
				fail("entity %q: %v", e.ID, err)
			}
		}
		if e.Sprite != nil {
			for _, name := range e.Sprite.DirectionRows {
				if _, err := ParseDirection(name); err != nil {
					fail("entity %q sprite: %v", e.ID, err)
				}
			}
		}
	}
	if sc.Follow != "" && !ids[sc.Follow] {
		fail("follow: unknown entity %q", sc.Follow)
	}

	for i, ev := range sc.Events {
		if !ids[ev.Entity] {
			fail("event %d: unknown entity %q", i, ev.Entity)
		}
		if _, err := ParseTriggerCondition(ev.Condition); err != nil {
			fail("event %d: %v", i, err)
		}
		action, err := ParseTriggerAction(ev.Action)
		if err != nil {
			fail("event %d: %v", i, err)
		}
		if action == ActionSwitchScene && !scenes[ev.Target] {
			fail("event %d: unknown target scene %q", i, ev.Target)
		}
	}
	return errs
}

// resolve returns p relative to the config directory unless it is absolute.
func (c *Config) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || c.dir == "" {
		return p
	}
	return filepath.Join(c.dir, p)
}

// resolveScript resolves script file references and leaves inline source
// untouched.
func (c *Config) resolveScript(s string) string {
	t := strings.TrimSpace(s)
	if !strings.HasSuffix(strings.ToLower(t), ScriptExtension) {
		return s
	}
	return c.resolve(t)
}
