package model

import "time"

// PhaseKind identifies one of the mutually exclusive session phases.
type PhaseKind string

const (
	PhaseIdle       PhaseKind = "idle"
	PhaseFocus      PhaseKind = "focus"
	PhaseShortBreak PhaseKind = "short_break"
	PhaseLongBreak  PhaseKind = "long_break"
)

// CyclesPerSession is the number of focus blocks in one macro-session.
const CyclesPerSession = 4

// IsBreak reports whether the phase is a short or long break.
func (kind PhaseKind) IsBreak() bool {
	return kind == PhaseShortBreak || kind == PhaseLongBreak
}

// Label returns a human readable phase name.
func (kind PhaseKind) Label() string {
	switch kind {
	case PhaseFocus:
		return "Focus"
	case PhaseShortBreak:
		return "Short break"
	case PhaseLongBreak:
		return "Long break"
	default:
		return "Idle"
	}
}

// TimeKeeperConfig contains runtime settings for the TimeKeeper state machine.
type TimeKeeperConfig struct {
	Work       time.Duration
	ShortBreak time.Duration
	LongBreak  time.Duration

	IdlePauseEnabled  bool
	IdlePauseAfter    time.Duration
	IdleCheckInterval time.Duration
}

// DurationFor returns the configured length of a phase. Idle has no length.
func (config TimeKeeperConfig) DurationFor(kind PhaseKind) time.Duration {
	switch kind {
	case PhaseFocus:
		return config.Work
	case PhaseShortBreak:
		return config.ShortBreak
	case PhaseLongBreak:
		return config.LongBreak
	default:
		return 0
	}
}
