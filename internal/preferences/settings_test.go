package preferences

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"focusloop/internal/core/model"
)

func TestCommitClampsDurations(t *testing.T) {
	focus, _ := model.BoundsFor(model.PhaseFocus)
	short, _ := model.BoundsFor(model.PhaseShortBreak)
	long, _ := model.BoundsFor(model.PhaseLongBreak)

	cases := []struct {
		work, short, long int
	}{
		{work: 0, short: 0, long: 0},
		{work: -10, short: 999, long: 1},
		{work: 500, short: -1, long: 500},
		{work: 25, short: 5, long: 30},
	}
	for _, tc := range cases {
		settings := DefaultSettings()
		settings.WorkMinutes = tc.work
		settings.ShortBreakMinutes = tc.short
		settings.LongBreakMinutes = tc.long

		committed := settings.Commit()
		assert.Equal(t, focus.Clamp(tc.work), committed.WorkMinutes)
		assert.Equal(t, short.Clamp(tc.short), committed.ShortBreakMinutes)
		assert.Equal(t, long.Clamp(tc.long), committed.LongBreakMinutes)
		assert.GreaterOrEqual(t, committed.WorkMinutes, focus.Min)
		assert.LessOrEqual(t, committed.WorkMinutes, focus.Max)
	}
}

func TestCommitNormalizesPlaybackFields(t *testing.T) {
	settings := DefaultSettings()
	settings.Volume = 3
	settings.SettleDelay = -time.Second
	settings.IdlePauseAfter = 0

	committed := settings.Commit()
	assert.Equal(t, 1.0, committed.Volume)
	assert.Zero(t, committed.SettleDelay)
	assert.Equal(t, 5*time.Minute, committed.IdlePauseAfter)
}

func TestCommitRejectsNaNVolume(t *testing.T) {
	settings := DefaultSettings()
	settings.Volume = math.NaN()

	committed := settings.Commit()
	assert.Zero(t, committed.Volume)
	assert.False(t, math.IsNaN(NewStore(settings).Get().Volume))
}

func TestTimeKeeperConfig(t *testing.T) {
	settings := DefaultSettings()
	settings.WorkMinutes = 25
	settings.ShortBreakMinutes = 5
	settings.LongBreakMinutes = 30

	config := settings.TimeKeeperConfig()
	assert.Equal(t, 25*time.Minute, config.Work)
	assert.Equal(t, 5*time.Minute, config.ShortBreak)
	assert.Equal(t, 30*time.Minute, config.LongBreak)
}

func TestStoreIsolatesCopies(t *testing.T) {
	store := NewStore(DefaultSettings())

	playlist := store.Playlist()
	playlist[0].Title = "mutated"
	assert.NotEqual(t, "mutated", store.Playlist()[0].Title)

	updated := store.Get()
	updated.WorkMinutes = 1000
	committed := store.Set(updated)
	assert.Equal(t, 120, committed.WorkMinutes)
	assert.Equal(t, 120, store.Get().WorkMinutes)
}
