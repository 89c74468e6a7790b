package platform

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSingleInstanceGuard(t *testing.T) {
	dir := t.TempDir()

	guard, err := AcquireSingleInstance(dir, "Focus Loop")
	require.NoError(t, err)
	assert.Contains(t, guard.Path(), "focus-loop.lock")

	_, err = AcquireSingleInstance(dir, "Focus Loop")
	assert.ErrorIs(t, err, ErrAlreadyRunning)

	require.NoError(t, guard.Release())
	again, err := AcquireSingleInstance(dir, "Focus Loop")
	require.NoError(t, err)
	require.NoError(t, again.Release())
}

func TestNilGuardRelease(t *testing.T) {
	var guard *InstanceGuard
	assert.NoError(t, guard.Release())
	assert.Empty(t, guard.Path())
}

func TestParseIdleOutputs(t *testing.T) {
	idle, err := parseMillis("1500\n")
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, idle)

	idle, err = parseMutterIdle("(uint64 42000,)\n")
	require.NoError(t, err)
	assert.Equal(t, 42*time.Second, idle)

	_, err = parseMutterIdle("Error: GDBus.Error")
	assert.Error(t, err)

	ioreg := `+-o IOHIDSystem  <class IOHIDSystem>
    {
      "HIDIdleTime" = 3000000000
    }`
	idle, err = parseHIDIdleTime(ioreg)
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, idle)

	_, err = parseHIDIdleTime("nothing here")
	assert.Error(t, err)
}
