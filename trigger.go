package tilequest

import "fmt"

// TriggerCondition selects when a trigger fires.
type TriggerCondition uint8

const (
	// TriggerEnter fires once each time the entity moves into the region.
	TriggerEnter TriggerCondition = iota
)

// TriggerAction is what a fired trigger does.
type TriggerAction uint8

const (
	ActionNone        TriggerAction = iota // only publish the event
	ActionSwitchScene                      // make Target the active scene
)

// ParseTriggerCondition parses a config condition name. Empty means enter.
func ParseTriggerCondition(s string) (TriggerCondition, error) {
	switch s {
	case "", "enter":
		return TriggerEnter, nil
	}
	return TriggerEnter, fmt.Errorf("tilequest: unknown trigger condition %q", s)
}

// ParseTriggerAction parses a config action name. Empty means none.
func ParseTriggerAction(s string) (TriggerAction, error) {
	switch s {
	case "", "none":
		return ActionNone, nil
	case "switch_scene":
		return ActionSwitchScene, nil
	}
	return ActionNone, fmt.Errorf("tilequest: unknown trigger action %q", s)
}

// Trigger is a world-space region watching one entity.
type Trigger struct {
	Rect      Rect
	EntityID  string
	Condition TriggerCondition
	Action    TriggerAction
	// Target is the scene name for ActionSwitchScene.
	Target string

	inside bool
}

// check records whether e overlaps the region and reports whether the
// trigger fires on this transition.
func (t *Trigger) check(e *Entity) bool {
	in := t.Rect.Overlaps(e.Rect)
	fired := in && !t.inside && t.Condition == TriggerEnter
	t.inside = in
	return fired
}
