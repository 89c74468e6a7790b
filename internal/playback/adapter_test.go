package playback

import (
	"encoding/json"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSurface struct {
	src      string
	commands []Command
	closed   bool
}

func (surface *fakeSurface) Post(command Command) {
	surface.commands = append(surface.commands, command)
}

func (surface *fakeSurface) Close() {
	surface.closed = true
}

type fakeHost struct {
	surfaces []*fakeSurface
}

func (host *fakeHost) Mount(src string) Surface {
	surface := &fakeSurface{src: src}
	host.surfaces = append(host.surfaces, surface)
	return surface
}

func (host *fakeHost) live() []*fakeSurface {
	var live []*fakeSurface
	for _, surface := range host.surfaces {
		if !surface.closed {
			live = append(live, surface)
		}
	}
	return live
}

func TestEmbedURLPolicy(t *testing.T) {
	single, err := url.Parse(EmbedURL("jfKfPfyJRdk", ""))
	require.NoError(t, err)
	assert.Equal(t, "/embed/jfKfPfyJRdk", single.Path)
	assert.Equal(t, "1", single.Query().Get("loop"))
	assert.Equal(t, "jfKfPfyJRdk", single.Query().Get("playlist"))
	assert.Empty(t, single.Query().Get("list"))

	sequential, err := url.Parse(EmbedURL("jfKfPfyJRdk", "PL123"))
	require.NoError(t, err)
	assert.Equal(t, "/embed/jfKfPfyJRdk", sequential.Path)
	assert.Equal(t, "PL123", sequential.Query().Get("list"))
	assert.Empty(t, sequential.Query().Get("loop"), "collections advance instead of looping one item")

	series, err := url.Parse(EmbedURL("", "PL123"))
	require.NoError(t, err)
	assert.Equal(t, "/embed/videoseries", series.Path)
	assert.Equal(t, "PL123", series.Query().Get("list"))

	assert.Empty(t, EmbedURL("", ""))
}

func TestLoadReplacesSurface(t *testing.T) {
	host := &fakeHost{}
	adapter := NewAdapter(host, nil)

	require.True(t, adapter.Load("jfKfPfyJRdk", ""))
	require.True(t, adapter.Load("4xDzrJKXOOY", "PL123"))

	require.Len(t, host.surfaces, 2)
	assert.True(t, host.surfaces[0].closed)
	assert.Len(t, host.live(), 1)
	assert.True(t, strings.Contains(adapter.Source(), "4xDzrJKXOOY"))
}

func TestLoadWithoutIdsCreatesNoSurface(t *testing.T) {
	host := &fakeHost{}
	adapter := NewAdapter(host, nil)

	require.True(t, adapter.Load("jfKfPfyJRdk", ""))
	assert.False(t, adapter.Load("", ""))

	assert.Empty(t, host.live())
	assert.Empty(t, adapter.Source())

	adapter.Play()
	adapter.Seek(time.Minute)
	for _, surface := range host.surfaces {
		assert.Empty(t, surface.commands, "commands without a live surface are no-ops")
	}
}

func TestLoadWithoutHostMountsNothing(t *testing.T) {
	adapter := NewAdapter(nil, nil)

	assert.False(t, adapter.Load("jfKfPfyJRdk", "PLlist"))
	assert.Empty(t, adapter.Source())
	adapter.Play()
	adapter.SetVolume(0.3)
	adapter.Unload()
}

func TestCommandsArePostedAsMessages(t *testing.T) {
	host := &fakeHost{}
	adapter := NewAdapter(host, nil)
	require.True(t, adapter.Load("jfKfPfyJRdk", ""))

	adapter.SetVolume(0.35)
	adapter.Seek(630 * time.Second)
	adapter.Play()
	adapter.Pause()
	adapter.SetVolume(4)

	surface := host.surfaces[0]
	require.Len(t, surface.commands, 5)
	assert.Equal(t, Command{Event: "command", Func: FuncSetVolume, Args: []any{35}}, surface.commands[0])
	assert.Equal(t, Command{Event: "command", Func: FuncSeek, Args: []any{630, true}}, surface.commands[1])
	assert.Equal(t, FuncPlay, surface.commands[2].Func)
	assert.Equal(t, FuncPause, surface.commands[3].Func)
	assert.Equal(t, []any{100}, surface.commands[4].Args)

	encoded, err := json.Marshal(surface.commands[2])
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"command","func":"playVideo","args":[]}`, string(encoded))
}

func TestClampVolume(t *testing.T) {
	assert.Equal(t, 0.0, ClampVolume(-1))
	assert.Equal(t, 0.5, ClampVolume(0.5))
	assert.Equal(t, 1.0, ClampVolume(1.5))
}
