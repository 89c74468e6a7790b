package timekeeper

import (
	"time"

	"focusloop/internal/core/model"
)

// Trigger is an input to the session state machine.
type Trigger string

const (
	TriggerStart  Trigger = "start"
	TriggerExpire Trigger = "expire"
	TriggerStop   Trigger = "stop"
	TriggerReset  Trigger = "reset"
)

// IntentKind names a side effect requested by a transition.
type IntentKind string

const (
	IntentCancelCountdown IntentKind = "cancel_countdown"
	IntentStartCountdown  IntentKind = "start_countdown"
	IntentLoadScene       IntentKind = "load_scene"
	IntentEnterFocusMode  IntentKind = "enter_focus_mode"
	IntentExitFocusMode   IntentKind = "exit_focus_mode"
	IntentNotifyPhase     IntentKind = "notify_phase"
	IntentSessionComplete IntentKind = "session_complete"
)

// Intent is a side effect the caller of Advance must carry out.
// Phase and Slot are set for load_scene and notify_phase.
type Intent struct {
	Kind  IntentKind
	Phase model.PhaseKind
	Slot  int
}

// State is the complete session state owned by the TimeKeeper.
type State struct {
	Phase model.PhaseKind
	// Resume is the phase a stopped session returns to on start.
	// It is PhaseIdle when nothing is paused.
	Resume    model.PhaseKind
	Cycle     int
	Remaining time.Duration
}

// EventType defines the type of TimeKeeper event.
type EventType string

const (
	EventStateChange EventType = "state_change"
	EventProgress    EventType = "progress"
	EventIdlePause   EventType = "idle_pause"
	EventIdleError   EventType = "idle_error"
)

// Event represents a TimeKeeper update for observers.
type Event struct {
	Type     EventType
	Trigger  Trigger
	Previous model.PhaseKind
	State    State
	Intents  []Intent
	Progress float64
	Message  string
	At       time.Time
}

// Has reports whether the event carries an intent of the given kind.
func (event Event) Has(kind IntentKind) bool {
	for _, intent := range event.Intents {
		if intent.Kind == kind {
			return true
		}
	}
	return false
}
