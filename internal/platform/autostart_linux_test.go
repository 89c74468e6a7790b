//go:build linux

package platform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDesktopEntryQuotesFields(t *testing.T) {
	entry := buildDesktopEntry("focusloop", "/opt/focus loop/focusloop", []string{"run"})
	assert.Contains(t, entry, `Exec="/opt/focus loop/focusloop" run`)
	assert.Contains(t, entry, "Name=focusloop")
}

func TestEnableDisableAutostart(t *testing.T) {
	configDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configDir)

	service := NewService()
	require.NoError(t, service.EnableAutostart("focusloop", "/usr/bin/focusloop", "run"))

	path := filepath.Join(configDir, "autostart", "focusloop.desktop")
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Exec=/usr/bin/focusloop run")

	require.NoError(t, service.DisableAutostart("focusloop"))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	assert.Error(t, service.EnableAutostart("", "/usr/bin/focusloop"))
}
