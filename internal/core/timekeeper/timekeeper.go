package timekeeper

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"focusloop/internal/core/clock"
	"focusloop/internal/core/model"
)

// ErrIdleUnsupported indicates idle detection is not available on this system.
var ErrIdleUnsupported = errors.New("idle detection unsupported")

// IdleChecker reports the duration of user inactivity.
type IdleChecker interface {
	IdleDuration() (time.Duration, error)
}

// Config contains runtime options for TimeKeeper.
type Config struct {
	TickInterval time.Duration
	Clock        clock.Clock
}

// TimeKeeper drives the session state machine and owns its single countdown.
type TimeKeeper struct {
	// opMu serializes transitions together with their observer dispatch so
	// observers see intents in transition order.
	opMu sync.Mutex

	mu            sync.Mutex
	config        model.TimeKeeperConfig
	options       Config
	state         State
	countdown     clock.Timer
	generation    uint64
	idleChecker   IdleChecker
	lastIdleCheck time.Time
	observer      func(Event)
	events        []chan Event
	closed        bool

	// idleUnsupported outlives config updates once the platform reported
	// that idle time cannot be read.
	idleUnsupported bool
}

// New creates a TimeKeeper in the idle phase.
func New(config model.TimeKeeperConfig, options Config) *TimeKeeper {
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}
	if options.Clock == nil {
		options.Clock = clock.System()
	}
	config = normalizeConfig(config)

	return &TimeKeeper{
		config:  config,
		options: options,
		state:   InitialState(config),
	}
}

// SetIdleChecker injects an idle checker.
func (keeper *TimeKeeper) SetIdleChecker(checker IdleChecker) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	keeper.idleChecker = checker
}

// SetObserver registers the synchronous handler that executes transition
// intents. It must not call back into Start, Stop, Reset or Expire.
func (keeper *TimeKeeper) SetObserver(observer func(Event)) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	keeper.observer = observer
}

// Subscribe registers a new observer channel. Sends never block; a slow
// subscriber misses events.
func (keeper *TimeKeeper) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.closed {
		close(ch)
		return ch
	}
	keeper.events = append(keeper.events, ch)
	return ch
}

// Start begins a focus block, or resumes a stopped phase. It is a no-op
// while a phase is running.
func (keeper *TimeKeeper) Start() {
	keeper.apply(TriggerStart)
}

// Stop pauses the session. Remaining time is kept for the next Start.
func (keeper *TimeKeeper) Stop() {
	keeper.apply(TriggerStop)
}

// Reset cancels the session and clears the cycle count.
func (keeper *TimeKeeper) Reset() {
	keeper.apply(TriggerReset)
}

// Expire ends the current phase immediately as if its countdown ran out.
func (keeper *TimeKeeper) Expire() {
	keeper.apply(TriggerExpire)
}

// UpdateConfig replaces phase durations. A running phase keeps its remaining
// time; a fresh idle session picks up the new focus length.
func (keeper *TimeKeeper) UpdateConfig(config model.TimeKeeperConfig) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	keeper.config = normalizeConfig(config)
	if keeper.idleUnsupported {
		keeper.config.IdlePauseEnabled = false
	}
	if keeper.state.Phase == model.PhaseIdle && keeper.state.Resume == model.PhaseIdle {
		keeper.state.Remaining = keeper.config.Work
	}
}

// Snapshot returns the current state.
func (keeper *TimeKeeper) Snapshot() State {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	return keeper.state
}

// Close cancels the countdown and closes subscriber channels.
func (keeper *TimeKeeper) Close() {
	keeper.opMu.Lock()
	defer keeper.opMu.Unlock()
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.closed {
		return
	}
	keeper.cancelCountdownLocked()
	keeper.closed = true
	for _, ch := range keeper.events {
		close(ch)
	}
	keeper.events = nil
}

func (keeper *TimeKeeper) apply(trigger Trigger) {
	keeper.opMu.Lock()
	defer keeper.opMu.Unlock()

	keeper.mu.Lock()
	if keeper.closed {
		keeper.mu.Unlock()
		return
	}
	event, changed := keeper.transitionLocked(trigger, keeper.options.Clock.Now())
	keeper.mu.Unlock()

	if changed {
		keeper.dispatch(event)
	}
}

func (keeper *TimeKeeper) transitionLocked(trigger Trigger, now time.Time) (Event, bool) {
	previous := keeper.state.Phase
	next, intents := Advance(keeper.state, trigger, keeper.config)
	keeper.state = next

	external := false
	for _, intent := range intents {
		switch intent.Kind {
		case IntentCancelCountdown:
			keeper.cancelCountdownLocked()
		case IntentStartCountdown:
			keeper.startCountdownLocked()
		default:
			external = true
		}
	}
	if previous == model.PhaseIdle && next.Phase != model.PhaseIdle {
		keeper.lastIdleCheck = time.Time{}
	}

	return Event{
		Type:     EventStateChange,
		Trigger:  trigger,
		Previous: previous,
		State:    next,
		Intents:  intents,
		At:       now,
	}, external || previous != next.Phase
}

func (keeper *TimeKeeper) startCountdownLocked() {
	keeper.cancelCountdownLocked()
	keeper.scheduleTickLocked()
}

func (keeper *TimeKeeper) cancelCountdownLocked() {
	if keeper.countdown != nil {
		keeper.countdown.Stop()
		keeper.countdown = nil
	}
	keeper.generation++
}

func (keeper *TimeKeeper) scheduleTickLocked() {
	generation := keeper.generation
	keeper.countdown = keeper.options.Clock.AfterFunc(keeper.options.TickInterval, func() {
		keeper.tick(generation)
	})
}

func (keeper *TimeKeeper) tick(generation uint64) {
	keeper.opMu.Lock()
	defer keeper.opMu.Unlock()

	keeper.mu.Lock()
	if keeper.closed || generation != keeper.generation || keeper.state.Phase == model.PhaseIdle {
		keeper.mu.Unlock()
		return
	}
	keeper.countdown = nil
	now := keeper.options.Clock.Now()

	if keeper.state.Phase == model.PhaseFocus {
		events, paused := keeper.handleIdleCheckLocked(now)
		if paused {
			keeper.mu.Unlock()
			keeper.dispatch(events...)
			return
		}
		defer keeper.dispatch(events...)
	}

	keeper.state.Remaining -= keeper.options.TickInterval
	if keeper.state.Remaining > 0 {
		keeper.scheduleTickLocked()
		event := Event{
			Type:     EventProgress,
			Previous: keeper.state.Phase,
			State:    keeper.state,
			Progress: keeper.progressLocked(),
			At:       now,
		}
		keeper.mu.Unlock()
		keeper.dispatch(event)
		return
	}

	keeper.state.Remaining = 0
	event, _ := keeper.transitionLocked(TriggerExpire, now)
	keeper.mu.Unlock()
	keeper.dispatch(event)
}

func (keeper *TimeKeeper) handleIdleCheckLocked(now time.Time) ([]Event, bool) {
	if !keeper.config.IdlePauseEnabled || keeper.idleChecker == nil {
		return nil, false
	}
	if !keeper.lastIdleCheck.IsZero() && now.Sub(keeper.lastIdleCheck) < keeper.config.IdleCheckInterval {
		return nil, false
	}
	keeper.lastIdleCheck = now

	idleDuration, err := keeper.idleChecker.IdleDuration()
	if err != nil {
		if errors.Is(err, ErrIdleUnsupported) {
			keeper.idleUnsupported = true
			keeper.config.IdlePauseEnabled = false
		}
		return []Event{{
			Type:     EventIdleError,
			Previous: keeper.state.Phase,
			State:    keeper.state,
			Message:  err.Error(),
			At:       now,
		}}, false
	}
	if idleDuration < keeper.config.IdlePauseAfter {
		return nil, false
	}

	stopEvent, _ := keeper.transitionLocked(TriggerStop, now)
	return []Event{
		stopEvent,
		{
			Type:     EventIdlePause,
			Previous: stopEvent.Previous,
			State:    keeper.state,
			Message:  fmt.Sprintf("paused after %s without input", idleDuration.Round(time.Second)),
			At:       now,
		},
	}, true
}

func (keeper *TimeKeeper) progressLocked() float64 {
	total := keeper.config.DurationFor(keeper.state.Phase)
	if total <= 0 {
		return 1
	}
	progress := float64(total-keeper.state.Remaining) / float64(total)
	if progress < 0 {
		return 0
	}
	if progress > 1 {
		return 1
	}
	return progress
}

func (keeper *TimeKeeper) hasCountdown() bool {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	return keeper.countdown != nil
}

func (keeper *TimeKeeper) dispatch(events ...Event) {
	if len(events) == 0 {
		return
	}
	keeper.mu.Lock()
	observer := keeper.observer
	subscribers := append([]chan Event(nil), keeper.events...)
	keeper.mu.Unlock()

	for _, event := range events {
		if observer != nil {
			observer(event)
		}
		for _, ch := range subscribers {
			select {
			case ch <- event:
			default:
			}
		}
	}
}

func normalizeConfig(config model.TimeKeeperConfig) model.TimeKeeperConfig {
	if config.IdleCheckInterval <= 0 {
		config.IdleCheckInterval = 5 * time.Second
	}
	if config.IdlePauseAfter <= 0 {
		config.IdlePauseAfter = 5 * time.Minute
	}
	return config
}
