package preferences

import (
	"time"

	"focusloop/internal/core/model"
	"focusloop/internal/playback"
)

// Settings defines editable user preferences.
type Settings struct {
	WorkMinutes       int
	ShortBreakMinutes int
	LongBreakMinutes  int

	Playlist []model.Track
	Scenes   model.SceneMap

	Volume      float64
	AutoPlay    bool
	SettleDelay time.Duration

	IdlePauseEnabled bool
	IdlePauseAfter   time.Duration

	NotesDir    string
	TaskHeading string
	PlayerAddr  string
}

// DefaultSettings returns default settings for focusloop.
func DefaultSettings() Settings {
	return Settings{
		WorkMinutes:       defaultMinutes(model.PhaseFocus),
		ShortBreakMinutes: defaultMinutes(model.PhaseShortBreak),
		LongBreakMinutes:  defaultMinutes(model.PhaseLongBreak),
		Playlist: []model.Track{
			{
				Title: "lofi hip hop radio",
				URL:   "https://www.youtube.com/watch?v=jfKfPfyJRdk",
			},
			{
				Title: "synthwave radio",
				URL:   "https://www.youtube.com/watch?v=4xDzrJKXOOY",
			},
		},
		Scenes: model.SceneMap{
			Focus: []model.SceneRef{{Track: 0, Checkpoint: model.NoCheckpoint}},
			Break: []model.SceneRef{{Track: 1, Checkpoint: model.NoCheckpoint}},
		},
		Volume:           0.5,
		AutoPlay:         true,
		SettleDelay:      1200 * time.Millisecond,
		IdlePauseEnabled: false,
		IdlePauseAfter:   5 * time.Minute,
		TaskHeading:      "Focus tasks",
		PlayerAddr:       "127.0.0.1:7345",
	}
}

// Commit clamps every duration into the catalog bounds of its phase and
// normalizes the remaining fields. The result is what the session runs with.
func (settings Settings) Commit() Settings {
	committed := settings.Clone()
	committed.WorkMinutes = clampMinutes(model.PhaseFocus, settings.WorkMinutes)
	committed.ShortBreakMinutes = clampMinutes(model.PhaseShortBreak, settings.ShortBreakMinutes)
	committed.LongBreakMinutes = clampMinutes(model.PhaseLongBreak, settings.LongBreakMinutes)

	committed.Volume = playback.ClampVolume(committed.Volume)
	if committed.SettleDelay < 0 {
		committed.SettleDelay = 0
	}
	if committed.IdlePauseAfter <= 0 {
		committed.IdlePauseAfter = DefaultSettings().IdlePauseAfter
	}
	return committed
}

// TimeKeeperConfig converts settings to TimeKeeperConfig.
func (settings Settings) TimeKeeperConfig() model.TimeKeeperConfig {
	return model.TimeKeeperConfig{
		Work:              time.Duration(settings.WorkMinutes) * time.Minute,
		ShortBreak:        time.Duration(settings.ShortBreakMinutes) * time.Minute,
		LongBreak:         time.Duration(settings.LongBreakMinutes) * time.Minute,
		IdlePauseEnabled:  settings.IdlePauseEnabled,
		IdlePauseAfter:    settings.IdlePauseAfter,
		IdleCheckInterval: 5 * time.Second,
	}
}

// Clone returns a deep copy.
func (settings Settings) Clone() Settings {
	cloned := settings
	cloned.Playlist = model.ClonePlaylist(settings.Playlist)
	cloned.Scenes = settings.Scenes.Clone()
	return cloned
}

func clampMinutes(kind model.PhaseKind, minutes int) int {
	bounds, ok := model.BoundsFor(kind)
	if !ok {
		return minutes
	}
	return bounds.Clamp(minutes)
}

func defaultMinutes(kind model.PhaseKind) int {
	bounds, _ := model.BoundsFor(kind)
	return bounds.Default
}
