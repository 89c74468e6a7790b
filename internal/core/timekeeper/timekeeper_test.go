package timekeeper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focusloop/internal/core/model"
	"focusloop/internal/testsupport"
)

type recorder struct {
	events []Event
}

func (rec *recorder) observe(event Event) {
	rec.events = append(rec.events, event)
}

func (rec *recorder) phases() []model.PhaseKind {
	var phases []model.PhaseKind
	for _, event := range rec.events {
		if event.Type == EventStateChange && event.Previous != event.State.Phase {
			phases = append(phases, event.State.Phase)
		}
	}
	return phases
}

func (rec *recorder) count(kind IntentKind) int {
	total := 0
	for _, event := range rec.events {
		for _, intent := range event.Intents {
			if intent.Kind == kind {
				total++
			}
		}
	}
	return total
}

type stubIdle struct {
	idle time.Duration
	err  error
}

func (stub *stubIdle) IdleDuration() (time.Duration, error) {
	return stub.idle, stub.err
}

type countingIdle struct {
	calls int
	err   error
}

func (idle *countingIdle) IdleDuration() (time.Duration, error) {
	idle.calls++
	return 0, idle.err
}

func newKeeper(t *testing.T, config model.TimeKeeperConfig) (*TimeKeeper, *testsupport.FakeClock, *recorder) {
	t.Helper()
	fake := testsupport.NewFakeClock()
	keeper := New(config, Config{TickInterval: time.Second, Clock: fake})
	rec := &recorder{}
	keeper.SetObserver(rec.observe)
	t.Cleanup(keeper.Close)
	return keeper, fake, rec
}

func TestForcedExpiriesRunFullSession(t *testing.T) {
	keeper, _, rec := newKeeper(t, testConfig())

	keeper.Start()
	for i := 0; i < 8; i++ {
		keeper.Expire()
	}

	assert.Equal(t, []model.PhaseKind{
		model.PhaseFocus, model.PhaseShortBreak,
		model.PhaseFocus, model.PhaseShortBreak,
		model.PhaseFocus, model.PhaseShortBreak,
		model.PhaseFocus, model.PhaseLongBreak,
		model.PhaseIdle,
	}, rec.phases())

	state := keeper.Snapshot()
	assert.Equal(t, model.PhaseIdle, state.Phase)
	assert.Equal(t, 0, state.Cycle)
	assert.Equal(t, 1, rec.count(IntentSessionComplete))
	assert.False(t, keeper.hasCountdown())
}

func TestCountdownDrivesTransitions(t *testing.T) {
	config := model.TimeKeeperConfig{Work: 3 * time.Second, ShortBreak: 2 * time.Second, LongBreak: 4 * time.Second}
	keeper, fake, rec := newKeeper(t, config)

	keeper.Start()
	require.Equal(t, 1, fake.Pending())

	fake.Advance(2 * time.Second)
	state := keeper.Snapshot()
	assert.Equal(t, model.PhaseFocus, state.Phase)
	assert.Equal(t, time.Second, state.Remaining)

	fake.Advance(time.Second)
	state = keeper.Snapshot()
	assert.Equal(t, model.PhaseShortBreak, state.Phase)
	assert.Equal(t, 1, state.Cycle)
	assert.Equal(t, 2*time.Second, state.Remaining)
	assert.Equal(t, 1, fake.Pending())

	// Three more focus blocks and their breaks, then the long break.
	fake.Advance(2*time.Second + 3*(3*time.Second) + 2*(2*time.Second) + 4*time.Second)
	state = keeper.Snapshot()
	assert.Equal(t, model.PhaseIdle, state.Phase)
	assert.Equal(t, 0, state.Cycle)
	assert.Equal(t, 0, fake.Pending())
	assert.Equal(t, model.PhaseIdle, rec.phases()[len(rec.phases())-1])
	assert.Equal(t, 1, rec.count(IntentSessionComplete))
}

func TestProgressEvents(t *testing.T) {
	config := model.TimeKeeperConfig{Work: 4 * time.Second, ShortBreak: time.Second, LongBreak: time.Second}
	keeper, fake, _ := newKeeper(t, config)
	events := keeper.Subscribe(10)

	keeper.Start()
	<-events // state change
	fake.Advance(time.Second)

	event := <-events
	assert.Equal(t, EventProgress, event.Type)
	assert.Equal(t, 3*time.Second, event.State.Remaining)
	assert.InDelta(t, 0.25, event.Progress, 0.001)
}

func TestStartIsIdempotent(t *testing.T) {
	keeper, fake, rec := newKeeper(t, testConfig())

	keeper.Start()
	keeper.Start()
	keeper.Start()

	assert.Equal(t, 1, fake.Pending())
	assert.Equal(t, 1, rec.count(IntentLoadScene))
}

func TestStopCancelsCountdownAndPreservesRemaining(t *testing.T) {
	keeper, fake, rec := newKeeper(t, testConfig())

	keeper.Start()
	fake.Advance(10 * time.Second)
	keeper.Stop()

	state := keeper.Snapshot()
	assert.Equal(t, model.PhaseIdle, state.Phase)
	assert.Equal(t, 25*time.Minute-10*time.Second, state.Remaining)
	assert.Equal(t, 0, fake.Pending())
	assert.False(t, keeper.hasCountdown())

	eventsBefore := len(rec.events)
	keeper.Stop()
	assert.Equal(t, state, keeper.Snapshot())
	assert.Len(t, rec.events, eventsBefore)

	fake.Advance(time.Hour)
	assert.Equal(t, state, keeper.Snapshot(), "no tick may fire after stop")

	keeper.Start()
	assert.Equal(t, model.PhaseFocus, keeper.Snapshot().Phase)
	assert.Equal(t, 25*time.Minute-10*time.Second, keeper.Snapshot().Remaining)
	assert.Equal(t, 1, fake.Pending())
	assert.Equal(t, 1, rec.count(IntentLoadScene), "resume must not reload the scene")
}

func TestResetWhileIdleOnlyZeroes(t *testing.T) {
	keeper, fake, rec := newKeeper(t, testConfig())

	keeper.Reset()
	assert.Empty(t, rec.events)
	assert.Equal(t, InitialState(normalizeConfig(testConfig())), keeper.Snapshot())

	keeper.Start()
	keeper.Expire()
	keeper.Reset()
	state := keeper.Snapshot()
	assert.Equal(t, model.PhaseIdle, state.Phase)
	assert.Equal(t, 0, state.Cycle)
	assert.Equal(t, 25*time.Minute, state.Remaining)
	assert.Equal(t, 0, fake.Pending())
}

func TestResetWhilePausedPublishesStateChange(t *testing.T) {
	keeper, _, _ := newKeeper(t, testConfig())

	keeper.Start()
	keeper.Expire()
	keeper.Stop()
	require.Equal(t, model.PhaseShortBreak, keeper.Snapshot().Resume)

	events := keeper.Subscribe(4)
	keeper.Reset()

	select {
	case event := <-events:
		assert.Equal(t, EventStateChange, event.Type)
		assert.Equal(t, TriggerReset, event.Trigger)
		assert.Equal(t, model.PhaseIdle, event.State.Resume)
		assert.Zero(t, event.State.Cycle)
		assert.Equal(t, 25*time.Minute, event.State.Remaining)
	default:
		t.Fatal("reset of a paused session published no event")
	}
	select {
	case event := <-events:
		t.Fatalf("unexpected extra event %+v", event)
	default:
	}
}

func TestStaleTickIsIgnored(t *testing.T) {
	fake := testsupport.NewFakeClock()
	keeper := New(testConfig(), Config{TickInterval: time.Second, Clock: fake})
	defer keeper.Close()

	keeper.Start()
	keeper.mu.Lock()
	staleGeneration := keeper.generation
	keeper.mu.Unlock()

	keeper.Expire()
	before := keeper.Snapshot()
	keeper.tick(staleGeneration)
	assert.Equal(t, before, keeper.Snapshot())
}

func TestUpdateConfigAppliesToFreshSession(t *testing.T) {
	keeper, _, _ := newKeeper(t, testConfig())

	updated := testConfig()
	updated.Work = 50 * time.Minute
	keeper.UpdateConfig(updated)
	assert.Equal(t, 50*time.Minute, keeper.Snapshot().Remaining)

	keeper.Start()
	updated.Work = 10 * time.Minute
	keeper.UpdateConfig(updated)
	assert.Equal(t, 50*time.Minute, keeper.Snapshot().Remaining)
}

func TestIdleAutoPause(t *testing.T) {
	config := testConfig()
	config.IdlePauseEnabled = true
	config.IdlePauseAfter = 2 * time.Minute
	config.IdleCheckInterval = 5 * time.Second
	keeper, fake, rec := newKeeper(t, config)
	checker := &stubIdle{}
	keeper.SetIdleChecker(checker)

	keeper.Start()
	fake.Advance(10 * time.Second)
	assert.Equal(t, model.PhaseFocus, keeper.Snapshot().Phase)

	checker.idle = 3 * time.Minute
	fake.Advance(10 * time.Second)

	state := keeper.Snapshot()
	assert.Equal(t, model.PhaseIdle, state.Phase)
	assert.Equal(t, model.PhaseFocus, state.Resume)
	assert.Equal(t, 0, fake.Pending())

	var paused bool
	for _, event := range rec.events {
		if event.Type == EventIdlePause {
			paused = true
		}
	}
	assert.True(t, paused)
}

func TestIdleUnsupportedDisablesCheck(t *testing.T) {
	config := testConfig()
	config.IdlePauseEnabled = true
	keeper, fake, rec := newKeeper(t, config)
	keeper.SetIdleChecker(&stubIdle{err: ErrIdleUnsupported})

	keeper.Start()
	fake.Advance(30 * time.Second)

	errorsSeen := 0
	for _, event := range rec.events {
		if event.Type == EventIdleError {
			errorsSeen++
			assert.Equal(t, ErrIdleUnsupported.Error(), event.Message)
		}
	}
	assert.Equal(t, 1, errorsSeen)
	assert.Equal(t, model.PhaseFocus, keeper.Snapshot().Phase)
}

func TestIdleUnsupportedSurvivesConfigUpdate(t *testing.T) {
	config := testConfig()
	config.IdlePauseEnabled = true
	keeper, fake, _ := newKeeper(t, config)
	checker := &countingIdle{err: ErrIdleUnsupported}
	keeper.SetIdleChecker(checker)

	keeper.Start()
	fake.Advance(10 * time.Second)
	require.Equal(t, 1, checker.calls)

	keeper.UpdateConfig(config)
	fake.Advance(30 * time.Second)
	assert.Equal(t, 1, checker.calls)
}

func TestCloseStopsEverything(t *testing.T) {
	fake := testsupport.NewFakeClock()
	keeper := New(testConfig(), Config{Clock: fake})
	events := keeper.Subscribe(4)

	keeper.Start()
	keeper.Close()
	keeper.Close()

	assert.Equal(t, 0, fake.Pending())
	for range events {
	}
	keeper.Start()
	assert.Equal(t, model.PhaseFocus, keeper.Snapshot().Phase, "closed keeper ignores further triggers")
}
