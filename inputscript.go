package tilequest

import (
	"encoding/json"
	"fmt"
)

// inputStep is a single action of an input script.
type inputStep struct {
	Action   string   `json:"action"`
	Key      string   `json:"key,omitempty"`
	Keys     []string `json:"keys,omitempty"`
	Frames   int      `json:"frames,omitempty"`
	Label    string   `json:"label,omitempty"`
	Scene    string   `json:"scene,omitempty"`
	Entity   string   `json:"entity,omitempty"`
	Duration float32  `json:"duration,omitempty"`
}

type inputScriptFile struct {
	Steps []inputStep `json:"steps"`
}

// InputScript drives a game from a JSON list of steps, one step per frame
// unless the step holds keys or waits for several frames:
//
//	{"steps": [
//	  {"action": "press", "keys": ["right"], "frames": 30},
//	  {"action": "wait", "frames": 10},
//	  {"action": "snapshot", "label": "after-walk"},
//	  {"action": "focus", "entity": "chest", "duration": 0.5},
//	  {"action": "switch", "scene": "dungeon"}
//	]}
type InputScript struct {
	steps  []inputStep
	cursor int

	held      []Key
	holdCount int
	waitCount int
	done      bool
}

// LoadInputScript parses and checks a JSON input script.
func LoadInputScript(data []byte) (*InputScript, error) {
	var file inputScriptFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("tilequest: parse input script: %w", err)
	}
	if len(file.Steps) == 0 {
		return nil, fmt.Errorf("tilequest: parse input script: no steps")
	}
	for i, st := range file.Steps {
		switch st.Action {
		case "press":
			if _, err := st.keys(); err != nil {
				return nil, fmt.Errorf("tilequest: input step %d: %w", i, err)
			}
		case "wait", "snapshot", "switch", "focus":
		default:
			return nil, fmt.Errorf("tilequest: input step %d: unknown action %q", i, st.Action)
		}
	}
	return &InputScript{steps: file.Steps}, nil
}

func (st inputStep) keys() ([]Key, error) {
	names := st.Keys
	if st.Key != "" {
		names = append([]string{st.Key}, names...)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("press without keys")
	}
	keys := make([]Key, len(names))
	for i, n := range names {
		k, err := ParseKey(n)
		if err != nil {
			return nil, err
		}
		keys[i] = k
	}
	return keys, nil
}

// Done reports whether every step has run.
func (r *InputScript) Done() bool {
	return r.done
}

// step applies the input for one frame. Called before each tick.
func (r *InputScript) step(g *Game) {
	if r.done {
		return
	}
	if r.holdCount > 0 {
		r.press(g)
		r.finishIfLast()
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		r.finishIfLast()
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "press":
		r.held, _ = st.keys()
		r.holdCount = max(st.Frames, 1)
		r.press(g)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	case "snapshot":
		g.Snapshot(st.Label)
	case "switch":
		if err := g.SwitchScene(st.Scene); err != nil {
			componentLog("input").WithError(err).Warn("input script switch failed")
		}
	case "focus":
		if !g.Active().Focus(st.Entity, st.Duration, nil) {
			componentLog("input").WithField("entity", st.Entity).Warn("input script focus: unknown entity")
		}
	}
	r.finishIfLast()
}

func (r *InputScript) press(g *Game) {
	for _, k := range r.held {
		g.Active().HandleKey(k, true)
	}
	r.holdCount--
}

func (r *InputScript) finishIfLast() {
	if r.cursor >= len(r.steps) && r.waitCount == 0 && r.holdCount == 0 {
		r.done = true
	}
}
