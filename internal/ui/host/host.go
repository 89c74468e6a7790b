// Package host implements session.Host on the fyne desktop driver.
package host

import (
	"fmt"
	"log/slog"

	"fyne.io/fyne/v2"

	"focusloop/internal/core/model"
	"focusloop/internal/core/timekeeper"
	"focusloop/internal/logging"
	"focusloop/internal/session"
)

// Notifier sends desktop notifications. fyne.App satisfies it.
type Notifier interface {
	SendNotification(notification *fyne.Notification)
}

// IconSetter swaps the tray icon. desktop.App satisfies it.
type IconSetter interface {
	SetSystemTrayIcon(icon fyne.Resource)
}

// Tray receives status updates.
type Tray interface {
	SetStatus(status string)
	SetRunning(running bool)
	SetPlaying(playing bool, track string)
}

// CompletionView shows the end-of-session acknowledgement.
type CompletionView interface {
	Show(cycles int)
}

// Icons used for each phase.
type Icons struct {
	Idle  fyne.Resource
	Focus fyne.Resource
	Break fyne.Resource
}

// Options wires the desktop host.
type Options struct {
	Notifier   Notifier
	Icons      IconSetter
	Tray       Tray
	Completion CompletionView
	Resources  Icons
	Logger     *slog.Logger
	// Do runs fn on the UI goroutine. Defaults to fyne.Do.
	Do func(fn func())
}

// Desktop is the fyne session host.
type Desktop struct {
	options Options
	logger  *slog.Logger
}

var _ session.Host = (*Desktop)(nil)

// New creates a desktop host.
func New(options Options) *Desktop {
	if options.Do == nil {
		options.Do = fyne.Do
	}
	return &Desktop{
		options: options,
		logger:  logging.OrDiscard(options.Logger).With("component", "desktop"),
	}
}

func (desktop *Desktop) EnterFocusMode() {
	desktop.options.Do(func() {
		if desktop.options.Tray != nil {
			desktop.options.Tray.SetRunning(true)
		}
	})
}

func (desktop *Desktop) ExitFocusMode() {
	desktop.options.Do(func() {
		if desktop.options.Tray != nil {
			desktop.options.Tray.SetRunning(false)
		}
		desktop.setIcon(desktop.options.Resources.Idle)
	})
}

func (desktop *Desktop) Notify(title, message string) {
	desktop.logger.Debug("notify", "title", title, "message", message)
	if desktop.options.Notifier == nil {
		return
	}
	desktop.options.Do(func() {
		desktop.options.Notifier.SendNotification(fyne.NewNotification(title, message))
	})
}

func (desktop *Desktop) ShowSessionComplete(cycles int) {
	desktop.options.Do(func() {
		if desktop.options.Completion != nil {
			desktop.options.Completion.Show(cycles)
		}
	})
}

// Follow mirrors engine events and playback state into the tray until events
// is closed. status is polled after each event for the playback line.
func (desktop *Desktop) Follow(events <-chan timekeeper.Event, status func() session.Status) {
	for event := range events {
		current := status()
		line := StatusLine(event.State)
		desktop.options.Do(func() {
			if desktop.options.Tray != nil {
				desktop.options.Tray.SetStatus(line)
				desktop.options.Tray.SetPlaying(current.Playing, current.Track)
			}
			if event.Type == timekeeper.EventStateChange {
				desktop.setIcon(desktop.iconFor(event.State.Phase))
			}
		})
	}
}

// StatusLine renders engine state for the tray.
func StatusLine(state timekeeper.State) string {
	switch {
	case state.Phase != model.PhaseIdle:
		return fmt.Sprintf("%s %s (cycle %d/%d)", state.Phase.Label(), session.FormatClock(state.Remaining), displayCycle(state), model.CyclesPerSession)
	case state.Resume != model.PhaseIdle:
		return fmt.Sprintf("%s paused at %s", state.Resume.Label(), session.FormatClock(state.Remaining))
	default:
		return "ready"
	}
}

func displayCycle(state timekeeper.State) int {
	if state.Phase == model.PhaseFocus {
		return state.Cycle + 1
	}
	return state.Cycle
}

func (desktop *Desktop) iconFor(phase model.PhaseKind) fyne.Resource {
	switch {
	case phase == model.PhaseFocus:
		return desktop.options.Resources.Focus
	case phase.IsBreak():
		return desktop.options.Resources.Break
	default:
		return desktop.options.Resources.Idle
	}
}

func (desktop *Desktop) setIcon(icon fyne.Resource) {
	if desktop.options.Icons != nil && icon != nil {
		desktop.options.Icons.SetSystemTrayIcon(icon)
	}
}
