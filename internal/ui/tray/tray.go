package tray

import (
	"fmt"

	"fyne.io/fyne/v2"
)

// MenuHost is the part of desktop.App the tray needs.
type MenuHost interface {
	SetSystemTrayMenu(menu *fyne.Menu)
}

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnToggleSession  func()
	OnReset          func()
	OnSkip           func()
	OnTogglePlayback func()
	OnOpenPlayer     func()
	OnQuit           func()
}

// Manager handles system tray state.
type Manager struct {
	app          MenuHost
	statusItem   *fyne.MenuItem
	trackItem    *fyne.MenuItem
	sessionItem  *fyne.MenuItem
	skipItem     *fyne.MenuItem
	resetItem    *fyne.MenuItem
	playbackItem *fyne.MenuItem
	playerItem   *fyne.MenuItem
	quitItem     *fyne.MenuItem
	callbacks    Callbacks
	running      bool
	playing      bool
	statusLabel  string
}

// New creates a tray manager with the provided callbacks.
func New(app MenuHost, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:         app,
		callbacks:   callbacks,
		statusLabel: "ready",
	}

	manager.statusItem = fyne.NewMenuItem("", nil)
	manager.statusItem.Disabled = true
	manager.trackItem = fyne.NewMenuItem("No track loaded", nil)
	manager.trackItem.Disabled = true

	manager.sessionItem = fyne.NewMenuItem("Start focus", invoke(&manager.callbacks.OnToggleSession))
	manager.skipItem = fyne.NewMenuItem("Skip phase", invoke(&manager.callbacks.OnSkip))
	manager.skipItem.Disabled = true
	manager.resetItem = fyne.NewMenuItem("Reset session", invoke(&manager.callbacks.OnReset))
	manager.playbackItem = fyne.NewMenuItem("Play music", invoke(&manager.callbacks.OnTogglePlayback))
	manager.playerItem = fyne.NewMenuItem("Open player", invoke(&manager.callbacks.OnOpenPlayer))
	manager.quitItem = fyne.NewMenuItem("Quit", invoke(&manager.callbacks.OnQuit))
	manager.quitItem.IsQuit = true

	manager.refreshStatus()
	return manager
}

// SetStatus updates the status label.
func (manager *Manager) SetStatus(status string) {
	manager.statusLabel = status
	manager.refreshStatus()
}

// SetRunning switches the session item between start and stop.
func (manager *Manager) SetRunning(running bool) {
	manager.running = running
	if running {
		manager.sessionItem.Label = "Stop"
	} else {
		manager.sessionItem.Label = "Start focus"
	}
	manager.skipItem.Disabled = !running
	manager.refreshMenu()
}

// SetPlaying updates the playback item and the current track line.
func (manager *Manager) SetPlaying(playing bool, track string) {
	manager.playing = playing
	if playing {
		manager.playbackItem.Label = "Pause music"
	} else {
		manager.playbackItem.Label = "Play music"
	}
	if track == "" {
		track = "No track loaded"
	}
	manager.trackItem.Label = "♪ " + track
	manager.refreshMenu()
}

// Menu returns the menu currently installed.
func (manager *Manager) Menu() *fyne.Menu {
	return manager.buildMenu()
}

func (manager *Manager) refreshStatus() {
	manager.statusItem.Label = fmt.Sprintf("Status: %s", manager.statusLabel)
	manager.refreshMenu()
}

func (manager *Manager) refreshMenu() {
	if manager.app != nil {
		manager.app.SetSystemTrayMenu(manager.buildMenu())
	}
}

func (manager *Manager) buildMenu() *fyne.Menu {
	return fyne.NewMenu("focusloop",
		manager.statusItem,
		manager.trackItem,
		fyne.NewMenuItemSeparator(),
		manager.sessionItem,
		manager.skipItem,
		manager.resetItem,
		fyne.NewMenuItemSeparator(),
		manager.playbackItem,
		manager.playerItem,
		fyne.NewMenuItemSeparator(),
		manager.quitItem,
	)
}

func invoke(handler *func()) func() {
	return func() {
		if *handler != nil {
			(*handler)()
		}
	}
}
