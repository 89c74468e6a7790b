package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"focusloop/internal/core/model"
	"focusloop/internal/preferences"
	"gopkg.in/yaml.v3"
)

const settingsFileName = "settings.yaml"

type yamlSettings struct {
	WorkMinutes       int         `yaml:"work_minutes"`
	ShortBreakMinutes int         `yaml:"short_break_minutes"`
	LongBreakMinutes  int         `yaml:"long_break_minutes"`
	Volume            *float64    `yaml:"volume,omitempty"`
	AutoPlay          *bool       `yaml:"auto_play,omitempty"`
	SettleDelayMillis *int        `yaml:"settle_delay_ms,omitempty"`
	IdlePauseEnabled  bool        `yaml:"idle_pause_enabled"`
	IdlePauseMinutes  int         `yaml:"idle_pause_minutes"`
	NotesDir          string      `yaml:"notes_dir,omitempty"`
	TaskHeading       string      `yaml:"task_heading,omitempty"`
	PlayerAddr        string      `yaml:"player_addr,omitempty"`
	Playlist          []yamlTrack `yaml:"playlist,omitempty"`
	Scenes            *yamlScenes `yaml:"scenes,omitempty"`
}

type yamlTrack struct {
	Title       string           `yaml:"title"`
	URL         string           `yaml:"url"`
	Checkpoints []yamlCheckpoint `yaml:"checkpoints,omitempty"`
}

type yamlCheckpoint struct {
	Label     string `yaml:"label"`
	Timestamp string `yaml:"timestamp"`
}

type yamlScenes struct {
	Focus []yamlSceneRef `yaml:"focus"`
	Break []yamlSceneRef `yaml:"break"`
}

type yamlSceneRef struct {
	Track      int  `yaml:"track"`
	Checkpoint *int `yaml:"checkpoint,omitempty"`
}

// LoadSettings reads user preferences from YAML, merged over the defaults.
// If the config file does not exist, default settings are returned.
func LoadSettings(configPath string) (preferences.Settings, error) {
	settings := preferences.DefaultSettings()

	rawData, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// SaveSettings writes user preferences to YAML.
func SaveSettings(configPath string, settings preferences.Settings) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	serialized, err := MarshalSettings(settings)
	if err != nil {
		return err
	}

	if err := os.WriteFile(configPath, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

// MarshalSettings renders settings in the settings file format.
func MarshalSettings(settings preferences.Settings) ([]byte, error) {
	volume := settings.Volume
	autoPlay := settings.AutoPlay
	settleDelay := int(settings.SettleDelay / time.Millisecond)

	fileData := yamlSettings{
		WorkMinutes:       settings.WorkMinutes,
		ShortBreakMinutes: settings.ShortBreakMinutes,
		LongBreakMinutes:  settings.LongBreakMinutes,
		Volume:            &volume,
		AutoPlay:          &autoPlay,
		SettleDelayMillis: &settleDelay,
		IdlePauseEnabled:  settings.IdlePauseEnabled,
		IdlePauseMinutes:  int(settings.IdlePauseAfter / time.Minute),
		NotesDir:          settings.NotesDir,
		TaskHeading:       settings.TaskHeading,
		PlayerAddr:        settings.PlayerAddr,
		Scenes: &yamlScenes{
			Focus: toYamlRefs(settings.Scenes.Focus),
			Break: toYamlRefs(settings.Scenes.Break),
		},
	}
	for _, track := range settings.Playlist {
		entry := yamlTrack{Title: track.Title, URL: track.URL}
		for _, checkpoint := range track.Checkpoints {
			entry.Checkpoints = append(entry.Checkpoints, yamlCheckpoint{Label: checkpoint.Label, Timestamp: checkpoint.Timestamp})
		}
		fileData.Playlist = append(fileData.Playlist, entry)
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return nil, fmt.Errorf("marshal settings yaml: %w", err)
	}
	return serialized, nil
}

// ResolveConfigPath returns the default settings file location for appName.
func ResolveConfigPath(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, settingsFileName), nil
}

func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) {
	if fileData.WorkMinutes > 0 {
		settings.WorkMinutes = fileData.WorkMinutes
	}
	if fileData.ShortBreakMinutes > 0 {
		settings.ShortBreakMinutes = fileData.ShortBreakMinutes
	}
	if fileData.LongBreakMinutes > 0 {
		settings.LongBreakMinutes = fileData.LongBreakMinutes
	}
	if fileData.Volume != nil {
		settings.Volume = *fileData.Volume
	}
	if fileData.AutoPlay != nil {
		settings.AutoPlay = *fileData.AutoPlay
	}
	if fileData.SettleDelayMillis != nil && *fileData.SettleDelayMillis >= 0 {
		settings.SettleDelay = time.Duration(*fileData.SettleDelayMillis) * time.Millisecond
	}
	if fileData.IdlePauseMinutes > 0 {
		settings.IdlePauseAfter = time.Duration(fileData.IdlePauseMinutes) * time.Minute
	}
	if fileData.NotesDir != "" {
		settings.NotesDir = fileData.NotesDir
	}
	if fileData.TaskHeading != "" {
		settings.TaskHeading = fileData.TaskHeading
	}
	if fileData.PlayerAddr != "" {
		settings.PlayerAddr = fileData.PlayerAddr
	}

	if fileData.Playlist != nil {
		settings.Playlist = make([]model.Track, 0, len(fileData.Playlist))
		for _, entry := range fileData.Playlist {
			track := model.Track{Title: entry.Title, URL: entry.URL}
			for _, checkpoint := range entry.Checkpoints {
				track.Checkpoints = append(track.Checkpoints, model.Checkpoint{Label: checkpoint.Label, Timestamp: checkpoint.Timestamp})
			}
			settings.Playlist = append(settings.Playlist, track)
		}
	}
	if fileData.Scenes != nil {
		settings.Scenes = model.SceneMap{
			Focus: fromYamlRefs(fileData.Scenes.Focus),
			Break: fromYamlRefs(fileData.Scenes.Break),
		}
	}

	settings.IdlePauseEnabled = fileData.IdlePauseEnabled
}

func toYamlRefs(refs []model.SceneRef) []yamlSceneRef {
	converted := make([]yamlSceneRef, 0, len(refs))
	for _, ref := range refs {
		entry := yamlSceneRef{Track: ref.Track}
		if ref.Checkpoint != model.NoCheckpoint {
			checkpoint := ref.Checkpoint
			entry.Checkpoint = &checkpoint
		}
		converted = append(converted, entry)
	}
	return converted
}

func fromYamlRefs(refs []yamlSceneRef) []model.SceneRef {
	converted := make([]model.SceneRef, 0, len(refs))
	for _, ref := range refs {
		entry := model.SceneRef{Track: ref.Track, Checkpoint: model.NoCheckpoint}
		if ref.Checkpoint != nil {
			entry.Checkpoint = *ref.Checkpoint
		}
		converted = append(converted, entry)
	}
	return converted
}
