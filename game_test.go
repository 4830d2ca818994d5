package tilequest

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestGame(t *testing.T, opts ...Option) *Game {
	t.Helper()
	cfg, err := ParseConfig(twoScenes, "")
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	g, err := NewGame(cfg, opts...)
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	t.Cleanup(g.Close)
	return g
}

func TestNewGame(t *testing.T) {
	g := newTestGame(t)
	if g.Active().Name != "town" {
		t.Errorf("active = %q, want town", g.Active().Name)
	}
	names := g.Scenes()
	if len(names) != 2 || names[0] != "town" || names[1] != "cave" {
		t.Errorf("Scenes = %v", names)
	}
	if _, ok := g.Scene("cave"); !ok {
		t.Error("Scene(cave) not found")
	}
	if g.Background() != (color.RGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xff}) {
		t.Errorf("Background = %v", g.Background())
	}
	player, _ := g.Active().Entity("player")
	if player.Direction != DirectionRight || player.Speed != 200 {
		t.Errorf("player = %+v", player)
	}
}

func TestNewGameStartsAtFirstScene(t *testing.T) {
	cfg, err := ParseConfig(twoScenes, "")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Start = ""
	g, err := NewGame(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer g.Close()
	if g.Active().Name != "town" {
		t.Errorf("active = %q, want town", g.Active().Name)
	}
}

func TestSwitchScene(t *testing.T) {
	rec := &eventRecorder{}
	g := newTestGame(t, WithEventSink(rec))

	if err := g.SwitchScene("moon"); !errors.Is(err, ErrSceneNotFound) {
		t.Errorf("SwitchScene(moon) = %v, want ErrSceneNotFound", err)
	}
	if g.Active().Name != "town" {
		t.Errorf("active changed after a failed switch: %q", g.Active().Name)
	}

	if err := g.SwitchScene("cave"); err != nil {
		t.Fatalf("SwitchScene(cave): %v", err)
	}
	if g.Active().Name != "cave" {
		t.Errorf("active = %q, want cave", g.Active().Name)
	}
	if len(rec.events) != 1 || rec.events[0].Type != EventSceneSwitched ||
		rec.events[0].Scene != "town" || rec.events[0].Target != "cave" {
		t.Errorf("events = %+v", rec.events)
	}
}

func TestTickTriggerSwitchesScene(t *testing.T) {
	rec := &eventRecorder{}
	g := newTestGame(t, WithEventSink(rec))

	// 200 px/s for 0.1 s moves the player from x=30 to x=50, into the door.
	g.Active().HandleKey(KeyRight, true)
	if err := g.Tick(0.1); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if g.Active().Name != "cave" {
		t.Fatalf("active = %q, want cave", g.Active().Name)
	}
	if rec.count(EventTriggerFired) != 1 || rec.count(EventSceneSwitched) != 1 {
		t.Errorf("events = %+v", rec.events)
	}
	if g.Frame() != 1 {
		t.Errorf("Frame = %d, want 1", g.Frame())
	}

	// The town keeps its state while inactive.
	town, _ := g.Scene("town")
	if p, _ := town.Entity("player"); p.Rect.X != 50 {
		t.Errorf("town player x = %v, want 50", p.Rect.X)
	}
}

func TestTickUpdateFunc(t *testing.T) {
	g := newTestGame(t)
	calls := 0
	stop := errors.New("stop")
	g.SetUpdateFunc(func() error {
		calls++
		if calls == 2 {
			return stop
		}
		return nil
	})
	if err := g.Tick(0.01); err != nil {
		t.Fatalf("first Tick: %v", err)
	}
	if err := g.Tick(0.01); !errors.Is(err, stop) {
		t.Errorf("second Tick = %v, want stop", err)
	}
}

func TestGameAdvanceThrottles(t *testing.T) {
	g := newTestGame(t)
	now := time.Unix(100, 0)
	g.clock.now = func() time.Time { return now }

	if ticked, _ := g.Advance(); !ticked {
		t.Fatal("first Advance did not tick")
	}
	now = now.Add(10 * time.Millisecond) // target is 20 fps
	if ticked, _ := g.Advance(); ticked {
		t.Error("ticked before the frame interval passed")
	}
	now = now.Add(50 * time.Millisecond)
	if ticked, _ := g.Advance(); !ticked {
		t.Error("did not tick after the frame interval")
	}
	if g.Frame() != 2 {
		t.Errorf("Frame = %d, want 2", g.Frame())
	}
}

func TestFrameClock(t *testing.T) {
	now := time.Unix(0, 0)
	c := newFrameClock(50) // 20ms
	c.now = func() time.Time { return now }

	tests := []struct {
		advance   time.Duration
		wantOK    bool
		wantDelta float64
	}{
		{0, true, 0.02},
		{5 * time.Millisecond, false, 0},
		{20 * time.Millisecond, true, 0.025},
		{2 * time.Second, true, 0.25},
		{20 * time.Millisecond, true, 0.02},
	}
	for i, tt := range tests {
		now = now.Add(tt.advance)
		delta, ok := c.tick()
		if ok != tt.wantOK || !approxEqual(delta, tt.wantDelta, 1e-9) {
			t.Errorf("tick %d: (%v, %v), want (%v, %v)", i, delta, ok, tt.wantDelta, tt.wantOK)
		}
	}
}

func TestFrameClockUnthrottled(t *testing.T) {
	c := newFrameClock(0)
	now := time.Unix(0, 0)
	c.now = func() time.Time { return now }
	for i := 0; i < 3; i++ {
		if _, ok := c.tick(); !ok {
			t.Fatalf("tick %d not due without a target rate", i)
		}
	}
}

func TestRunHeadless(t *testing.T) {
	g := newTestGame(t)
	if err := g.RunHeadless(3, nil); err != nil {
		t.Fatalf("RunHeadless: %v", err)
	}
	if g.Frame() != 3 {
		t.Errorf("Frame = %d, want 3", g.Frame())
	}
	img := g.LastFrame()
	if img == nil || img.Bounds().Dx() != 64 || img.Bounds().Dy() != 64 {
		t.Fatalf("LastFrame = %v", img)
	}
	// No sheets are configured; the frame shows the theme color.
	if got := img.RGBAAt(10, 10); got != (color.RGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xff}) {
		t.Errorf("pixel = %v, want theme", got)
	}
}

func TestRunHeadlessWithInputScript(t *testing.T) {
	dir := t.TempDir()
	g := newTestGame(t, WithSnapshotDir(dir))
	script, err := LoadInputScript([]byte(`{"steps": [
		{"action": "press", "key": "down", "frames": 2},
		{"action": "snapshot", "label": "after walk"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}

	if err := g.RunHeadless(0, script); err != nil {
		t.Fatalf("RunHeadless: %v", err)
	}
	if !script.Done() {
		t.Error("script not done")
	}
	if g.Frame() != 3 {
		t.Errorf("Frame = %d, want 3", g.Frame())
	}
	p, _ := g.Active().Entity("player")
	// Two frames of 1/20 s at 200 px/s.
	if !approxEqual(p.Rect.Y, 60, 1e-9) {
		t.Errorf("player y = %v, want 60", p.Rect.Y)
	}
	if _, err := os.Stat(filepath.Join(dir, "000003_after_walk.png")); err != nil {
		t.Errorf("snapshot missing: %v", err)
	}
}

func TestNewGameRejectsEmptyConfig(t *testing.T) {
	if _, err := NewGame(&Config{}); err == nil {
		t.Error("NewGame with no scenes succeeded")
	}
}

func TestAdventureExample(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join("examples", "adventure", "game.toml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	dir := t.TempDir()
	g, err := NewGame(cfg, WithSnapshotDir(dir))
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	defer g.Close()
	if g.Active().TileMap().Sheet() == nil {
		t.Fatal("tile sheet not loaded")
	}

	data, err := os.ReadFile(filepath.Join("examples", "adventure", "walk.json"))
	if err != nil {
		t.Fatal(err)
	}
	script, err := LoadInputScript(data)
	if err != nil {
		t.Fatal(err)
	}
	if err := g.RunHeadless(0, script); err != nil {
		t.Fatalf("RunHeadless: %v", err)
	}
	// Walking through the town door leads into the cave.
	if g.Active().Name != "cave" {
		t.Errorf("active = %q, want cave", g.Active().Name)
	}
	shots, _ := filepath.Glob(filepath.Join(dir, "*.png"))
	if len(shots) != 4 {
		t.Errorf("%d snapshots, want 4", len(shots))
	}
}
