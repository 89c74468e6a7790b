package main

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cliTestEnv struct {
	configPath string
	notesDir   string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	env := &cliTestEnv{
		configPath: filepath.Join(base, "focusloop", "settings.yaml"),
		notesDir:   filepath.Join(base, "notes"),
	}
	return env
}

func (env *cliTestEnv) writeConfig(t *testing.T, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(env.configPath), 0o755))
	require.NoError(t, os.WriteFile(env.configPath, []byte(content), 0o644))
}

func (env *cliTestEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestConfigInitShowAndPath(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := env.run(t, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, env.configPath+"\n", out)

	out, err = env.run(t, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote default settings to "+env.configPath)
	assert.FileExists(t, env.configPath)

	_, err = env.run(t, "config", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = env.run(t, "config", "init", "--overwrite")
	require.NoError(t, err)

	out, err = env.run(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "work_minutes: 25")
	assert.Contains(t, out, "player_addr:")
	assert.Contains(t, out, "127.0.0.1:7345")
}

func TestConfigShowClampsOutOfRangeValues(t *testing.T) {
	env := setupCLITestEnv(t)
	env.writeConfig(t, "work_minutes: 500\nshort_break_minutes: 10\n")

	out, err := env.run(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "work_minutes: 120")
	assert.Contains(t, out, "short_break_minutes: 10")
}

func TestTasksLifecycle(t *testing.T) {
	env := setupCLITestEnv(t)
	env.writeConfig(t, "notes_dir: "+env.notesDir+"\n")

	out, err := env.run(t, "tasks", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No tasks for today")

	out, err = env.run(t, "tasks", "add", "write", "the", "report")
	require.NoError(t, err)
	match := regexp.MustCompile(`Added ([0-9a-f]{8}) write the report`).FindStringSubmatch(out)
	require.NotNil(t, match, out)
	id := match[1]

	out, err = env.run(t, "tasks", "list")
	require.NoError(t, err)
	assert.Contains(t, out, id)
	assert.Contains(t, out, "open")
	assert.Contains(t, out, "write the report")
	assert.Contains(t, out, "Note: "+env.notesDir)

	out, err = env.run(t, "tasks", "done", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Completed "+id)

	out, err = env.run(t, "tasks", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "done")

	_, err = env.run(t, "tasks", "rm", id)
	require.NoError(t, err)

	_, err = env.run(t, "tasks", "done", id)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "task not found")
}

func TestTasksUseConfigDirectoryByDefault(t *testing.T) {
	env := setupCLITestEnv(t)

	_, err := env.run(t, "tasks", "add", "default location")
	require.NoError(t, err)

	entries, err := os.ReadDir(filepath.Join(filepath.Dir(env.configPath), "notes"))
	require.NoError(t, err)
	var notes []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".md") {
			notes = append(notes, entry.Name())
		}
	}
	assert.Len(t, notes, 1)
}

func TestPlaylistListsTracks(t *testing.T) {
	env := setupCLITestEnv(t)
	env.writeConfig(t, `
playlist:
  - title: Rain
    url: https://www.youtube.com/watch?v=AAAAAAAAAAA&list=PLrain
    checkpoints:
      - label: Thunder
        timestamp: "10:30"
  - title: Cafe
    url: https://youtu.be/BBBBBBBBBBB
`)

	out, err := env.run(t, "playlist")
	require.NoError(t, err)
	assert.Contains(t, out, "Rain")
	assert.Contains(t, out, "AAAAAAAAAAA")
	assert.Contains(t, out, "PLrain")
	assert.Contains(t, out, "Thunder@10:30")
	assert.Contains(t, out, "BBBBBBBBBBB")
}

func TestScenesShowResolvedTracks(t *testing.T) {
	env := setupCLITestEnv(t)
	env.writeConfig(t, `
playlist:
  - title: Rain
    url: https://www.youtube.com/watch?v=AAAAAAAAAAA
    checkpoints:
      - label: Thunder
        timestamp: "1:30"
scenes:
  focus:
    - track: 0
      checkpoint: 0
  break:
    - track: 3
`)

	out, err := env.run(t, "scenes")
	require.NoError(t, err)
	assert.Contains(t, out, "focus/3")
	assert.Contains(t, out, "Thunder")
	assert.Contains(t, out, "01:30")
	assert.Contains(t, out, "scene track not in playlist")
}
