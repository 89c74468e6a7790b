package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focusloop/internal/core/model"
	"focusloop/internal/preferences"
)

func TestLoadSettingsMissingFileReturnsDefaults(t *testing.T) {
	settings, err := LoadSettings(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, preferences.DefaultSettings(), settings)
}

func TestLoadSettingsMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), settingsFileName)
	require.NoError(t, os.WriteFile(path, []byte(`
work_minutes: 50
volume: 0
auto_play: false
playlist:
  - title: Rain
    url: https://www.youtube.com/watch?v=AAAAAAAAAAA
    checkpoints:
      - label: Thunder
        timestamp: "10:30"
scenes:
  focus:
    - track: 0
      checkpoint: 0
  break:
    - track: 0
`), 0o644))

	settings, err := LoadSettings(path)
	require.NoError(t, err)

	defaults := preferences.DefaultSettings()
	assert.Equal(t, 50, settings.WorkMinutes)
	assert.Equal(t, defaults.ShortBreakMinutes, settings.ShortBreakMinutes)
	assert.Equal(t, defaults.SettleDelay, settings.SettleDelay)
	assert.Zero(t, settings.Volume)
	assert.False(t, settings.AutoPlay)

	require.Len(t, settings.Playlist, 1)
	assert.Equal(t, "Thunder", settings.Playlist[0].Checkpoints[0].Label)
	assert.Equal(t, []model.SceneRef{{Track: 0, Checkpoint: 0}}, settings.Scenes.Focus)
	assert.Equal(t, []model.SceneRef{{Track: 0, Checkpoint: model.NoCheckpoint}}, settings.Scenes.Break)
}

func TestLoadSettingsRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), settingsFileName)
	require.NoError(t, os.WriteFile(path, []byte("work_minutes: [oops"), 0o644))

	_, err := LoadSettings(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse settings yaml")
}

func TestSaveSettingsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", settingsFileName)

	settings := preferences.DefaultSettings()
	settings.WorkMinutes = 40
	settings.SettleDelay = 800 * time.Millisecond
	settings.IdlePauseEnabled = true
	settings.IdlePauseAfter = 3 * time.Minute
	settings.NotesDir = "/notes"
	settings.Playlist[0].Checkpoints = []model.Checkpoint{{Label: "Drop", Timestamp: "1:02:03"}}
	settings.Scenes.Focus = []model.SceneRef{{Track: 0, Checkpoint: 0}, {Track: 1, Checkpoint: model.NoCheckpoint}}

	require.NoError(t, SaveSettings(path, settings))
	loaded, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, settings, loaded)
}

func TestWatchStreamsReloadedSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), settingsFileName)
	require.NoError(t, SaveSettings(path, preferences.DefaultSettings()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates, err := Watch(ctx, path, nil)
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("work_minutes: [broken"), 0o644))
	time.Sleep(2 * reloadDelay)

	updated := preferences.DefaultSettings()
	updated.WorkMinutes = 45
	require.NoError(t, SaveSettings(path, updated))

	deadline := time.After(3 * time.Second)
	for {
		select {
		case settings, ok := <-updates:
			require.True(t, ok, "updates closed early")
			if settings.WorkMinutes == 45 {
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for settings reload")
		}
	}
}

func TestWatchClosesOnCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), settingsFileName)
	ctx, cancel := context.WithCancel(context.Background())

	updates, err := Watch(ctx, path, nil)
	require.NoError(t, err)
	cancel()

	select {
	case _, ok := <-updates:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("updates channel not closed")
	}
}
