package testsupport

import (
	"sync"

	"focusloop/internal/playback"
)

// RecordingHost is a playback.Host that keeps every mounted surface.
type RecordingHost struct {
	mu       sync.Mutex
	surfaces []*RecordingSurface
}

// RecordingSurface records the commands posted to it.
type RecordingSurface struct {
	Src string

	mu       sync.Mutex
	commands []playback.Command
	closed   bool
}

// NewRecordingHost returns an empty RecordingHost.
func NewRecordingHost() *RecordingHost {
	return &RecordingHost{}
}

// Mount records a new surface for src.
func (host *RecordingHost) Mount(src string) playback.Surface {
	surface := &RecordingSurface{Src: src}
	host.mu.Lock()
	host.surfaces = append(host.surfaces, surface)
	host.mu.Unlock()
	return surface
}

// Surfaces returns every surface mounted so far, oldest first.
func (host *RecordingHost) Surfaces() []*RecordingSurface {
	host.mu.Lock()
	defer host.mu.Unlock()
	return append([]*RecordingSurface(nil), host.surfaces...)
}

// Live returns the surfaces that have not been closed.
func (host *RecordingHost) Live() []*RecordingSurface {
	var live []*RecordingSurface
	for _, surface := range host.Surfaces() {
		if !surface.Closed() {
			live = append(live, surface)
		}
	}
	return live
}

// Last returns the most recently mounted surface, or nil.
func (host *RecordingHost) Last() *RecordingSurface {
	surfaces := host.Surfaces()
	if len(surfaces) == 0 {
		return nil
	}
	return surfaces[len(surfaces)-1]
}

func (surface *RecordingSurface) Post(command playback.Command) {
	surface.mu.Lock()
	defer surface.mu.Unlock()
	surface.commands = append(surface.commands, command)
}

func (surface *RecordingSurface) Close() {
	surface.mu.Lock()
	defer surface.mu.Unlock()
	surface.closed = true
}

// Closed reports whether the surface was torn down.
func (surface *RecordingSurface) Closed() bool {
	surface.mu.Lock()
	defer surface.mu.Unlock()
	return surface.closed
}

// Commands returns the posted commands in order.
func (surface *RecordingSurface) Commands() []playback.Command {
	surface.mu.Lock()
	defer surface.mu.Unlock()
	return append([]playback.Command(nil), surface.commands...)
}

// Funcs returns the function names of the posted commands in order.
func (surface *RecordingSurface) Funcs() []string {
	var funcs []string
	for _, command := range surface.Commands() {
		funcs = append(funcs, command.Func)
	}
	return funcs
}
