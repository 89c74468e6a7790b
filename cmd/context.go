package main

import (
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"focusloop/internal/dailynote"
	"focusloop/internal/logging"
	"focusloop/internal/preferences"
	"focusloop/internal/storage"
)

type commandContext struct {
	configFlag *string
	logLevel   *string
	logFormat  *string

	settingsOnce sync.Once
	settings     preferences.Settings
	settingsErr  error
}

func newCommandContext(configFlag, logLevel, logFormat *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		logLevel:   logLevel,
		logFormat:  logFormat,
	}
}

func (c *commandContext) configPath() (string, error) {
	if c.configFlag != nil {
		if path := strings.TrimSpace(*c.configFlag); path != "" {
			return filepath.Clean(path), nil
		}
	}
	return storage.ResolveConfigPath(appName)
}

func (c *commandContext) ensureSettings() (preferences.Settings, error) {
	c.settingsOnce.Do(func() {
		path, err := c.configPath()
		if err != nil {
			c.settingsErr = err
			return
		}
		settings, err := storage.LoadSettings(path)
		if err != nil {
			c.settingsErr = err
			return
		}
		c.settings = settings.Commit()
	})
	return c.settings, c.settingsErr
}

func (c *commandContext) logger(writer io.Writer) (*slog.Logger, error) {
	return logging.New(logging.Options{
		Level:  valueOf(c.logLevel),
		Format: valueOf(c.logFormat),
		Writer: writer,
	})
}

func (c *commandContext) journal() (*dailynote.Journal, error) {
	settings, err := c.ensureSettings()
	if err != nil {
		return nil, err
	}
	notesDir := settings.NotesDir
	if notesDir == "" {
		path, err := c.configPath()
		if err != nil {
			return nil, err
		}
		notesDir = filepath.Join(filepath.Dir(path), "notes")
	}
	return dailynote.NewJournal(notesDir, settings.TaskHeading, nil), nil
}

func valueOf(flag *string) string {
	if flag == nil {
		return ""
	}
	return *flag
}
