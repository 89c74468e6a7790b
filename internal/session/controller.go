// Package session couples the cycle engine to media playback and the desktop
// host. It is the single entry point used by the tray, the CLI and tests.
package session

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"focusloop/internal/core/clock"
	"focusloop/internal/core/model"
	"focusloop/internal/core/scene"
	"focusloop/internal/core/timekeeper"
	"focusloop/internal/logging"
	"focusloop/internal/playback"
	"focusloop/internal/preferences"
)

// Options wires the controller to its collaborators.
type Options struct {
	Host         Host
	Player       playback.Host
	Clock        clock.Clock
	TickInterval time.Duration
	IdleChecker  timekeeper.IdleChecker
	Logger       *slog.Logger
}

// Status is the combined engine and playback state.
type Status struct {
	Phase     model.PhaseKind
	Resume    model.PhaseKind
	Cycle     int
	Remaining time.Duration
	Playing   bool
	Volume    float64
	Track     string
	Source    string
}

// Controller is the session façade.
type Controller struct {
	keeper   *timekeeper.TimeKeeper
	store    *preferences.Store
	resolver *scene.Resolver
	adapter  *playback.Adapter
	host     Host
	clock    clock.Clock
	logger   *slog.Logger

	mu      sync.Mutex
	playing bool
	volume  float64
	track   string
}

// New creates a controller in the idle phase.
func New(settings preferences.Settings, options Options) *Controller {
	if options.Host == nil {
		options.Host = NoopHost{}
	}
	if options.Clock == nil {
		options.Clock = clock.System()
	}
	logger := logging.OrDiscard(options.Logger).With("component", "session")

	store := preferences.NewStore(settings)
	committed := store.Get()

	keeper := timekeeper.New(committed.TimeKeeperConfig(), timekeeper.Config{
		TickInterval: options.TickInterval,
		Clock:        options.Clock,
	})
	if options.IdleChecker != nil {
		keeper.SetIdleChecker(options.IdleChecker)
	}

	controller := &Controller{
		keeper:   keeper,
		store:    store,
		resolver: scene.NewResolver(store),
		adapter:  playback.NewAdapter(options.Player, options.Logger),
		host:     options.Host,
		clock:    options.Clock,
		logger:   logger,
		volume:   committed.Volume,
	}
	keeper.SetObserver(controller.handleEvent)
	return controller
}

// Start begins or resumes the session. It is a no-op while a phase runs.
func (controller *Controller) Start() {
	controller.keeper.Start()
}

// Stop pauses the session, keeping the remaining time. Music keeps playing.
func (controller *Controller) Stop() {
	controller.keeper.Stop()
}

// Reset returns to a fresh idle session.
func (controller *Controller) Reset() {
	controller.keeper.Reset()
}

// Skip ends the running phase early.
func (controller *Controller) Skip() {
	controller.keeper.Expire()
}

// Subscribe exposes engine events for status displays.
func (controller *Controller) Subscribe(buffer int) <-chan timekeeper.Event {
	return controller.keeper.Subscribe(buffer)
}

// Settings returns the committed settings.
func (controller *Controller) Settings() preferences.Settings {
	return controller.store.Get()
}

// Resolver exposes the scene resolver backed by the live settings.
func (controller *Controller) Resolver() *scene.Resolver {
	return controller.resolver
}

// ApplySettings commits settings and applies them to the running session.
// Playlist and scene changes take effect at the next scene entry.
func (controller *Controller) ApplySettings(settings preferences.Settings) preferences.Settings {
	previous := controller.store.Get()
	committed := controller.store.Set(settings)
	controller.keeper.UpdateConfig(committed.TimeKeeperConfig())

	if committed.Volume != previous.Volume {
		controller.SetVolume(committed.Volume)
	}
	controller.logger.Info("settings applied",
		"work_minutes", committed.WorkMinutes,
		"short_break_minutes", committed.ShortBreakMinutes,
		"long_break_minutes", committed.LongBreakMinutes,
		"tracks", len(committed.Playlist),
	)
	return committed
}

// TogglePlayback flips between playing and paused.
func (controller *Controller) TogglePlayback() {
	controller.mu.Lock()
	playing := controller.playing
	controller.mu.Unlock()

	if playing {
		controller.Pause()
		return
	}
	controller.Play()
}

// Play resumes playback. With nothing loaded it loads the scene of the
// current phase first.
func (controller *Controller) Play() {
	if controller.adapter.Source() == "" {
		state := controller.keeper.Snapshot()
		phase := state.Phase
		if phase == model.PhaseIdle {
			phase = model.PhaseFocus
		}
		controller.loadScene(scene.KeyFor(phase, state.Cycle), true)
		return
	}
	controller.adapter.Play()
	controller.setPlaying(true)
}

// Pause pauses playback.
func (controller *Controller) Pause() {
	controller.adapter.Pause()
	controller.setPlaying(false)
}

// SetVolume sets the playback volume from a 0..1 fraction.
func (controller *Controller) SetVolume(fraction float64) {
	fraction = playback.ClampVolume(fraction)
	controller.mu.Lock()
	controller.volume = fraction
	controller.mu.Unlock()
	controller.adapter.SetVolume(fraction)
}

// SelectTrack loads a playlist entry directly and plays it. Engine state is
// not touched.
func (controller *Controller) SelectTrack(trackIndex, checkpointIndex int) error {
	resolved, err := controller.resolver.ResolveTrack(trackIndex, checkpointIndex)
	if err != nil {
		return fmt.Errorf("select track: %w", err)
	}
	controller.play(resolved, true)
	return nil
}

// Status returns the current session status.
func (controller *Controller) Status() Status {
	state := controller.keeper.Snapshot()
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return Status{
		Phase:     state.Phase,
		Resume:    state.Resume,
		Cycle:     state.Cycle,
		Remaining: state.Remaining,
		Playing:   controller.playing,
		Volume:    controller.volume,
		Track:     controller.track,
		Source:    controller.adapter.Source(),
	}
}

// Close stops the countdown and tears down the media surface.
func (controller *Controller) Close() {
	controller.keeper.Close()
	controller.adapter.Unload()
}

func (controller *Controller) handleEvent(event timekeeper.Event) {
	switch event.Type {
	case timekeeper.EventStateChange:
		for _, intent := range event.Intents {
			controller.execute(intent, event)
		}
	case timekeeper.EventIdlePause:
		controller.logger.Info("session paused for inactivity", "message", event.Message)
		controller.host.Notify("Session paused", event.Message)
	case timekeeper.EventIdleError:
		controller.logger.Warn("idle detection failed", "error", event.Message)
	}
}

func (controller *Controller) execute(intent timekeeper.Intent, event timekeeper.Event) {
	switch intent.Kind {
	case timekeeper.IntentEnterFocusMode:
		controller.host.EnterFocusMode()
	case timekeeper.IntentExitFocusMode:
		controller.host.ExitFocusMode()
	case timekeeper.IntentNotifyPhase:
		title, message := phaseNotification(intent.Phase, event.State)
		controller.host.Notify(title, message)
	case timekeeper.IntentSessionComplete:
		controller.logger.Info("session complete")
		controller.host.ShowSessionComplete(model.CyclesPerSession)
	case timekeeper.IntentLoadScene:
		controller.loadScene(scene.KeyFor(intent.Phase, intent.Slot), false)
	}
}

func (controller *Controller) loadScene(key scene.Key, forcePlay bool) {
	resolved, err := controller.resolver.Resolve(key)
	if err != nil {
		controller.logger.Warn("scene unavailable", "scene", key.String(), "error", err)
		controller.host.Notify("Scene unavailable", err.Error())
		return
	}

	controller.mu.Lock()
	play := forcePlay || controller.playing
	controller.mu.Unlock()
	if !play {
		play = controller.store.Get().AutoPlay
	}
	controller.play(resolved, play)
}

// play loads resolved and schedules the post-load commands after the settle
// delay. Scheduled commands are never cancelled by a later load.
func (controller *Controller) play(resolved scene.Resolved, play bool) {
	controller.mu.Lock()
	controller.track = resolved.Track.Title
	controller.mu.Unlock()

	if !controller.adapter.Load(resolved.MediaID, resolved.CollectionID) {
		controller.logger.Warn("track has no playable media", "track", resolved.Track.Title, "url", resolved.Track.URL)
		controller.setPlaying(false)
		return
	}
	controller.logger.Info("scene loaded",
		"scene", resolved.Key.String(),
		"track", resolved.Track.Title,
		"checkpoint", resolved.Checkpoint,
		"offset", resolved.Offset,
	)

	delay := controller.store.Get().SettleDelay
	controller.clock.AfterFunc(delay, func() {
		controller.settle(resolved.Offset, play)
	})
}

func (controller *Controller) settle(offset time.Duration, play bool) {
	controller.mu.Lock()
	volume := controller.volume
	controller.mu.Unlock()

	controller.adapter.SetVolume(volume)
	if offset > 0 {
		controller.adapter.Seek(offset)
	}
	if play {
		controller.adapter.Play()
	} else {
		controller.adapter.Pause()
	}
	controller.setPlaying(play)
}

func (controller *Controller) setPlaying(playing bool) {
	controller.mu.Lock()
	controller.playing = playing
	controller.mu.Unlock()
}

func phaseNotification(phase model.PhaseKind, state timekeeper.State) (string, string) {
	switch phase {
	case model.PhaseIdle:
		if state.Resume == model.PhaseIdle {
			return "Session reset", "Ready for a new session"
		}
		return "Session paused", fmt.Sprintf("%s left in this block", FormatClock(state.Remaining))
	case model.PhaseFocus:
		return "Focus", fmt.Sprintf("Cycle %d of %d, %s", state.Cycle+1, model.CyclesPerSession, FormatClock(state.Remaining))
	default:
		return phase.Label(), fmt.Sprintf("Step away for %s", FormatClock(state.Remaining))
	}
}

// FormatClock renders a remaining duration as MM:SS.
func FormatClock(remaining time.Duration) string {
	if remaining < 0 {
		remaining = 0
	}
	seconds := int(remaining.Seconds())
	minutes := seconds / 60
	seconds = seconds % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
