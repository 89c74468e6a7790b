package model

// DurationBounds holds the accepted range and default length of a phase, in minutes.
type DurationBounds struct {
	Min     int
	Max     int
	Default int
}

var durationCatalog = map[PhaseKind]DurationBounds{
	PhaseFocus:      {Min: 1, Max: 120, Default: 25},
	PhaseShortBreak: {Min: 1, Max: 30, Default: 5},
	PhaseLongBreak:  {Min: 5, Max: 60, Default: 15},
}

// BoundsFor returns the duration bounds of a phase kind.
// Idle and unknown kinds report false.
func BoundsFor(kind PhaseKind) (DurationBounds, bool) {
	bounds, ok := durationCatalog[kind]
	return bounds, ok
}

// Clamp forces minutes into [Min, Max].
func (bounds DurationBounds) Clamp(minutes int) int {
	if minutes < bounds.Min {
		return bounds.Min
	}
	if minutes > bounds.Max {
		return bounds.Max
	}
	return minutes
}
