package tilequest

import (
	"fmt"
	"math"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/tanema/gween/ease"
)

// Scene owns a tile map, a camera, the entities on the map and the trigger
// regions. Entities live in an arena indexed by id; layers hold arena
// indices in insertion order, which is also their draw order.
type Scene struct {
	// Name identifies the scene for scene switching.
	Name string
	// Origin is the screen position of the viewport's top-left corner.
	Origin Vec2

	tileMap *TileMap
	camera  *Camera

	entities   []Entity
	index      map[string]int
	layers     map[int][]int
	layerOrder []int // sorted keys of layers

	// follow is the id of the single entity the camera tracks.
	follow   string
	triggers []*Trigger

	vertical   float64
	horizontal float64

	sink    EventSink
	failing map[string]bool
	stats   frameStats
	log     *logrus.Entry
}

// NewScene creates an empty scene over the given map and camera.
func NewScene(name string, m *TileMap, cam *Camera) *Scene {
	return &Scene{
		Name:    name,
		tileMap: m,
		camera:  cam,
		index:   make(map[string]int),
		layers:  make(map[int][]int),
		failing: make(map[string]bool),
		log:     componentLog("scene").WithField("scene", name),
	}
}

// TileMap returns the scene's map.
func (s *Scene) TileMap() *TileMap { return s.tileMap }

// Camera returns the scene's camera.
func (s *Scene) Camera() *Camera { return s.camera }

// SetEventSink sets where the scene publishes events. nil disables events.
func (s *Scene) SetEventSink(sink EventSink) { s.sink = sink }

// AddEntity appends an entity to its layer. Entity ids must be unique
// within a scene; entities without an id cannot be looked up.
func (s *Scene) AddEntity(e Entity) error {
	if e.ID != "" {
		if _, dup := s.index[e.ID]; dup {
			return fmt.Errorf("tilequest: scene %q: duplicate entity id %q", s.Name, e.ID)
		}
	}
	i := len(s.entities)
	s.entities = append(s.entities, e)
	if e.ID != "" {
		s.index[e.ID] = i
	}
	if _, ok := s.layers[e.Layer]; !ok {
		s.layerOrder = append(s.layerOrder, e.Layer)
		sort.Ints(s.layerOrder)
	}
	s.layers[e.Layer] = append(s.layers[e.Layer], i)
	for _, t := range s.triggers {
		if t.EntityID == e.ID {
			t.inside = t.Rect.Overlaps(e.Rect)
		}
	}
	return nil
}

// Entity returns the entity with the given id.
func (s *Scene) Entity(id string) (Entity, bool) {
	i, ok := s.index[id]
	if !ok {
		return Entity{}, false
	}
	return s.entities[i], true
}

// UpdateEntity replaces the entity with the same id, keeping its layer.
// It reports whether the id was found.
func (s *Scene) UpdateEntity(e Entity) bool {
	i, ok := s.index[e.ID]
	if !ok {
		return false
	}
	e.Layer = s.entities[i].Layer
	s.entities[i] = e
	return true
}

// Entities returns copies of all entities in draw order.
func (s *Scene) Entities() []Entity {
	out := make([]Entity, 0, len(s.entities))
	for _, l := range s.layerOrder {
		for _, i := range s.layers[l] {
			out = append(out, s.entities[i])
		}
	}
	return out
}

// AddTrigger adds a trigger region. An entity already inside the region
// does not fire it until it leaves and enters again.
func (s *Scene) AddTrigger(t Trigger) {
	if i, ok := s.index[t.EntityID]; ok {
		t.inside = t.Rect.Overlaps(s.entities[i].Rect)
	}
	s.triggers = append(s.triggers, &t)
}

// SetFollow makes the camera track the entity with the given id.
// An empty or unknown id leaves the camera where it is.
func (s *Scene) SetFollow(id string) { s.follow = id }

// Follow returns the id of the tracked entity.
func (s *Scene) Follow() string { return s.follow }

// Focus pans the camera over duration seconds until the entity is centered
// and then tracks it. It reports whether the id was found.
func (s *Scene) Focus(id string, duration float32, easeFn ease.TweenFunc) bool {
	i, ok := s.index[id]
	if !ok {
		return false
	}
	e := &s.entities[i]
	cam := s.camera
	x := math.Max(0, math.Min(e.Rect.X-cam.Rect.Width/2, cam.Maximum.X))
	y := math.Max(0, math.Min(e.Rect.Y-cam.Rect.Height/2, cam.Maximum.Y))
	cam.ScrollTo(x, y, duration, easeFn)
	s.follow = id
	return true
}

// HandleKey records a directional key press or release for the next tick.
func (s *Scene) HandleKey(k Key, pressed bool) {
	v := 0.0
	switch k {
	case KeyUp:
		if pressed {
			v = -1
		}
		s.vertical = v
	case KeyDown:
		if pressed {
			v = 1
		}
		s.vertical = v
	case KeyLeft:
		if pressed {
			v = -1
		}
		s.horizontal = v
	case KeyRight:
		if pressed {
			v = 1
		}
		s.horizontal = v
	}
}

// SetDirection sets the directional input for the next tick. Values are
// clamped to [-1, 1].
func (s *Scene) SetDirection(horizontal, vertical float64) {
	s.horizontal = math.Max(-1, math.Min(horizontal, 1))
	s.vertical = math.Max(-1, math.Min(vertical, 1))
}

// Direction returns the pending directional input.
func (s *Scene) Direction() (horizontal, vertical float64) {
	return s.horizontal, s.vertical
}

// Update runs one tick: scripts, camera, triggers. It consumes the pending
// input and returns the name of the scene a trigger switched to, or "".
func (s *Scene) Update(se *ScriptEngine, delta float64) (switchTo string) {
	s.stats.scriptFailures = 0

	se.Update(s.vertical, s.horizontal, delta, s.tileMap)
	for _, l := range s.layerOrder {
		for _, i := range s.layers[l] {
			s.runScript(se, i)
		}
	}

	s.updateCamera(float32(delta))
	switchTo = s.checkTriggers()

	s.vertical, s.horizontal = 0, 0
	return switchTo
}

func (s *Scene) runScript(se *ScriptEngine, i int) {
	cur := s.entities[i]
	next, err := se.ExecuteScript(cur)
	if err != nil {
		s.stats.scriptFailures++
		entry := s.log.WithField("entity", cur.ID).WithError(err)
		if !s.failing[cur.ID] {
			entry.Warn("script failed, keeping previous state")
			s.failing[cur.ID] = true
		} else {
			entry.Debug("script still failing")
		}
		s.emit(SceneEvent{Type: EventScriptFailed, EntityID: cur.ID, Err: err})
		return
	}
	if s.failing[cur.ID] {
		delete(s.failing, cur.ID)
		s.log.WithField("entity", cur.ID).Info("script recovered")
		s.emit(SceneEvent{Type: EventScriptRecovered, EntityID: cur.ID})
	}
	next.Layer = cur.Layer
	s.entities[i] = next
}

// updateCamera advances a running pan or follows the tracked entity, then
// places every other entity relative to the camera.
func (s *Scene) updateCamera(dt float32) {
	followed := -1
	if s.camera.Scrolling() {
		s.camera.Update(dt)
	} else if i, ok := s.index[s.follow]; ok {
		s.camera.Follow(&s.entities[i])
		followed = i
	}

	for i := range s.entities {
		if i == followed {
			continue
		}
		e := &s.entities[i]
		e.ScreenPosition.X, e.ScreenPosition.Y = s.camera.WorldToScreen(e.Rect.X, e.Rect.Y)
	}
}

func (s *Scene) checkTriggers() (switchTo string) {
	for _, t := range s.triggers {
		i, ok := s.index[t.EntityID]
		if !ok || !t.check(&s.entities[i]) {
			continue
		}
		s.log.WithFields(logrus.Fields{"entity": t.EntityID, "target": t.Target}).Debug("trigger fired")
		s.emit(SceneEvent{Type: EventTriggerFired, EntityID: t.EntityID, Target: t.Target})
		if t.Action == ActionSwitchScene && switchTo == "" {
			switchTo = t.Target
		}
	}
	return switchTo
}

func (s *Scene) emit(ev SceneEvent) {
	if s.sink == nil {
		return
	}
	ev.Scene = s.Name
	s.sink.EmitEvent(ev)
}
