package timekeeper

import "focusloop/internal/core/model"

// longBreakAfter is the cycle count at which a finished focus block earns a long break.
const longBreakAfter = model.CyclesPerSession - 1

// Advance is the single transition function of the session state machine.
// It never performs side effects; it returns the next state and the intents
// the caller must execute, in order.
func Advance(state State, trigger Trigger, config model.TimeKeeperConfig) (State, []Intent) {
	switch trigger {
	case TriggerStart:
		return start(state, config)
	case TriggerExpire:
		return expire(state, config)
	case TriggerStop:
		return stop(state)
	case TriggerReset:
		return reset(state, config)
	default:
		return state, nil
	}
}

// InitialState returns a fresh idle session.
func InitialState(config model.TimeKeeperConfig) State {
	return State{
		Phase:     model.PhaseIdle,
		Resume:    model.PhaseIdle,
		Remaining: config.Work,
	}
}

func start(state State, config model.TimeKeeperConfig) (State, []Intent) {
	if state.Phase != model.PhaseIdle {
		return state, nil
	}

	if state.Resume != model.PhaseIdle && state.Remaining > 0 {
		state.Phase = state.Resume
		state.Resume = model.PhaseIdle
		return state, []Intent{
			{Kind: IntentCancelCountdown},
			{Kind: IntentStartCountdown},
			{Kind: IntentEnterFocusMode},
			{Kind: IntentNotifyPhase, Phase: state.Phase},
		}
	}

	state.Resume = model.PhaseIdle
	return enter(state, model.PhaseFocus, state.Cycle, config)
}

func expire(state State, config model.TimeKeeperConfig) (State, []Intent) {
	switch state.Phase {
	case model.PhaseFocus:
		finished := state.Cycle
		state.Cycle++
		if finished >= longBreakAfter {
			return enter(state, model.PhaseLongBreak, finished, config)
		}
		return enter(state, model.PhaseShortBreak, finished, config)
	case model.PhaseShortBreak:
		return enter(state, model.PhaseFocus, state.Cycle, config)
	case model.PhaseLongBreak:
		state.Phase = model.PhaseIdle
		state.Resume = model.PhaseIdle
		state.Cycle = 0
		state.Remaining = config.Work
		return state, []Intent{
			{Kind: IntentCancelCountdown},
			{Kind: IntentExitFocusMode},
			{Kind: IntentSessionComplete},
		}
	default:
		return state, nil
	}
}

func stop(state State) (State, []Intent) {
	if state.Phase == model.PhaseIdle {
		return state, []Intent{{Kind: IntentCancelCountdown}}
	}
	state.Resume = state.Phase
	state.Phase = model.PhaseIdle
	return state, []Intent{
		{Kind: IntentCancelCountdown},
		{Kind: IntentExitFocusMode},
		{Kind: IntentNotifyPhase, Phase: model.PhaseIdle},
	}
}

func reset(state State, config model.TimeKeeperConfig) (State, []Intent) {
	wasActive := state.Phase != model.PhaseIdle
	wasPaused := !wasActive && state.Resume != model.PhaseIdle
	state = InitialState(config)
	intents := []Intent{{Kind: IntentCancelCountdown}}
	switch {
	case wasActive:
		intents = append(intents,
			Intent{Kind: IntentExitFocusMode},
			Intent{Kind: IntentNotifyPhase, Phase: model.PhaseIdle},
		)
	case wasPaused:
		// Focus mode was already left on stop.
		intents = append(intents, Intent{Kind: IntentNotifyPhase, Phase: model.PhaseIdle})
	}
	return state, intents
}

func enter(state State, phase model.PhaseKind, slot int, config model.TimeKeeperConfig) (State, []Intent) {
	state.Phase = phase
	state.Remaining = config.DurationFor(phase)
	return state, []Intent{
		{Kind: IntentCancelCountdown},
		{Kind: IntentStartCountdown},
		{Kind: IntentEnterFocusMode},
		{Kind: IntentLoadScene, Phase: phase, Slot: slot},
		{Kind: IntentNotifyPhase, Phase: phase},
	}
}
