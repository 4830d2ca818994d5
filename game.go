package tilequest

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrSceneNotFound is returned by SwitchScene for an unknown scene name.
var ErrSceneNotFound = errors.New("tilequest: scene not found")

// DefaultSnapshotDir is where snapshots are written unless configured.
const DefaultSnapshotDir = "snapshots"

// Game owns the scenes of a config, the script engine they share and the
// frame clock. Exactly one scene is active at a time. Game implements
// ebiten.Game; see Run and RunHeadless for the other hosts.
type Game struct {
	cfg    *Config
	scenes map[string]*Scene
	order  []string
	active *Scene

	script *ScriptEngine
	clock  *frameClock
	sink   EventSink

	background color.Color
	debug      bool
	showFPS    bool
	fps        *fpsOverlay

	// SnapshotDir is the directory snapshots are written to.
	SnapshotDir   string
	snapshotQueue []string

	updateFunc func() error
	frame      int

	// ebiten host state
	drawPending bool
	renderer    EbitenRenderer
	// headless host state
	lastFrame *image.RGBA

	log *logrus.Entry
}

// Option configures a Game.
type Option func(*Game)

// WithEventSink sets where the game and its scenes publish events.
func WithEventSink(sink EventSink) Option {
	return func(g *Game) { g.SetEventSink(sink) }
}

// WithDebug enables periodic frame stats at debug level.
func WithDebug(on bool) Option {
	return func(g *Game) { g.debug = on }
}

// WithFPS enables the FPS overlay of the ebiten host.
func WithFPS(on bool) Option {
	return func(g *Game) { g.showFPS = on }
}

// WithSnapshotDir sets the snapshot output directory.
func WithSnapshotDir(dir string) Option {
	return func(g *Game) { g.SnapshotDir = dir }
}

// NewGame builds every scene of cfg. The active scene is cfg.Start, or the
// first scene when Start is empty.
func NewGame(cfg *Config, opts ...Option) (*Game, error) {
	if cfg == nil || len(cfg.Scenes) == 0 {
		return nil, errors.New("tilequest: config has no scenes")
	}
	bg, err := parseHexColor(cfg.Theme)
	if err != nil {
		return nil, fmt.Errorf("tilequest: %w", err)
	}

	g := &Game{
		cfg:         cfg,
		scenes:      make(map[string]*Scene, len(cfg.Scenes)),
		script:      NewScriptEngine(),
		clock:       newFrameClock(cfg.TargetFPS),
		background:  bg,
		SnapshotDir: DefaultSnapshotDir,
		log:         componentLog("game"),
	}
	g.script.SetTimeout(time.Duration(cfg.ScriptTimeoutMs) * time.Millisecond)

	b := newSceneBuilder(cfg)
	for _, sc := range cfg.Scenes {
		s, err := b.build(sc)
		if err != nil {
			g.script.Close()
			return nil, err
		}
		if _, dup := g.scenes[s.Name]; dup {
			g.script.Close()
			return nil, fmt.Errorf("tilequest: duplicate scene %q", s.Name)
		}
		g.scenes[s.Name] = s
		g.order = append(g.order, s.Name)
	}

	start := cfg.Start
	if start == "" {
		start = g.order[0]
	}
	active, ok := g.scenes[start]
	if !ok {
		g.script.Close()
		return nil, fmt.Errorf("%w: %q", ErrSceneNotFound, start)
	}
	g.active = active

	for _, opt := range opts {
		opt(g)
	}
	if g.showFPS {
		g.fps = newFPSOverlay()
	}
	g.log.WithFields(logrus.Fields{"scenes": len(g.order), "start": start}).Info("game loaded")
	return g, nil
}

// Close releases the script engine.
func (g *Game) Close() {
	g.script.Close()
}

// Config returns the config the game was built from.
func (g *Game) Config() *Config { return g.cfg }

// Active returns the active scene.
func (g *Game) Active() *Scene { return g.active }

// Scene returns the scene with the given name.
func (g *Game) Scene(name string) (*Scene, bool) {
	s, ok := g.scenes[name]
	return s, ok
}

// Scenes returns the scene names in config order.
func (g *Game) Scenes() []string {
	return append([]string(nil), g.order...)
}

// ScriptEngine returns the engine shared by all scenes.
func (g *Game) ScriptEngine() *ScriptEngine { return g.script }

// Frame returns the number of ticks run so far.
func (g *Game) Frame() int { return g.frame }

// SetEventSink sets the sink of the game and every scene.
func (g *Game) SetEventSink(sink EventSink) {
	g.sink = sink
	for _, s := range g.scenes {
		s.SetEventSink(sink)
	}
}

// SetDebugMode toggles periodic frame stats.
func (g *Game) SetDebugMode(on bool) { g.debug = on }

// SetUpdateFunc sets a function called after every tick. A non-nil error
// stops the host loop and is returned from it.
func (g *Game) SetUpdateFunc(fn func() error) { g.updateFunc = fn }

// SwitchScene makes the named scene active. Pending input of the new
// scene is discarded.
func (g *Game) SwitchScene(name string) error {
	s, ok := g.scenes[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrSceneNotFound, name)
	}
	prev := g.active.Name
	g.active = s
	s.SetDirection(0, 0)

	g.log.WithFields(logrus.Fields{"from": prev, "to": name}).Info("scene switched")
	if g.sink != nil {
		g.sink.EmitEvent(SceneEvent{Type: EventSceneSwitched, Scene: prev, Target: name})
	}
	return nil
}

// Tick advances the active scene by delta seconds and applies a scene
// switch requested by a trigger.
func (g *Game) Tick(delta float64) error {
	s := g.active
	start := time.Now()
	switchTo := s.Update(g.script, delta)
	s.stats.updateTime = time.Since(start)
	g.frame++

	if switchTo != "" && switchTo != s.Name {
		if err := g.SwitchScene(switchTo); err != nil {
			g.log.WithError(err).Warn("trigger target unavailable")
		}
	}
	if g.updateFunc != nil {
		if err := g.updateFunc(); err != nil {
			return err
		}
	}
	g.debugLog()
	return nil
}

// advance runs a tick when the frame clock says one is due.
func (g *Game) advance() (delta float64, ticked bool, err error) {
	delta, ok := g.clock.tick()
	if !ok {
		return 0, false, nil
	}
	return delta, true, g.Tick(delta)
}

// Advance runs a tick if one is due at the configured target rate. It
// reports whether a tick ran, in which case the frame should be redrawn.
func (g *Game) Advance() (bool, error) {
	_, ticked, err := g.advance()
	return ticked, err
}

// DrawTo renders the active scene.
func (g *Game) DrawTo(r Renderer) {
	g.active.Draw(r)
}

// Background returns the theme color, or nil when none is configured.
func (g *Game) Background() color.Color { return g.background }

// RunHeadless runs frames ticks at a fixed 1/target_fps delta, rendering
// each into memory. With frames <= 0 it runs until the input script is
// done. Snapshots are written after the frame is drawn.
func (g *Game) RunHeadless(frames int, script *InputScript) error {
	if frames <= 0 && script == nil {
		frames = 1
	}
	fps := g.cfg.TargetFPS
	if fps <= 0 {
		fps = DefaultTargetFPS
	}
	delta := 1 / float64(fps)

	r := NewImageRenderer(g.cfg.Width, g.cfg.Height)
	if g.background != nil {
		r.Background = g.background
	}
	g.lastFrame = r.Target

	for f := 0; frames <= 0 || f < frames; f++ {
		if script != nil {
			if frames <= 0 && script.Done() {
				break
			}
			script.step(g)
		}
		if err := g.Tick(delta); err != nil {
			return err
		}
		r.Clear()
		g.DrawTo(r)
		g.flushSnapshots(r.Target)
	}
	g.log.WithField("frames", g.frame).Info("headless run finished")
	return nil
}

// LastFrame returns the image drawn by the most recent headless frame.
func (g *Game) LastFrame() *image.RGBA { return g.lastFrame }
