package tilequest

// EventType identifies an engine event published to an EventSink.
type EventType uint8

const (
	EventScriptFailed    EventType = iota // a script failed; the entity kept its state
	EventScriptRecovered                  // a previously failing script ran again
	EventTriggerFired                     // an entity entered a trigger region
	EventSceneSwitched                    // the game changed its active scene
)

var eventTypeNames = [...]string{
	EventScriptFailed:    "script_failed",
	EventScriptRecovered: "script_recovered",
	EventTriggerFired:    "trigger_fired",
	EventSceneSwitched:   "scene_switched",
}

func (t EventType) String() string {
	if int(t) < len(eventTypeNames) {
		return eventTypeNames[t]
	}
	return "unknown"
}

// SceneEvent carries the details of an engine event.
type SceneEvent struct {
	Type     EventType
	Scene    string
	EntityID string
	// Target is the scene named by a trigger action or switched to.
	Target string
	// Err is set for EventScriptFailed.
	Err error
}

// EventSink receives engine events. Set one on a Game or Scene to observe
// script failures, triggers and scene switches, e.g. through the donburi
// adapter in tilequest/ecs.
type EventSink interface {
	EmitEvent(event SceneEvent)
}

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(event SceneEvent)

// EmitEvent calls f(event).
func (f EventSinkFunc) EmitEvent(event SceneEvent) { f(event) }
