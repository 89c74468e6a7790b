// Package playback controls a single embedded media surface through one-way
// command messages.
//
// Commands carry no acknowledgement: a command posted before the surface is
// ready is lost. Callers wait a settle delay after Load before issuing Play
// or Seek.
package playback

import (
	"log/slog"
	"math"
	"sync"
	"time"

	"focusloop/internal/logging"
)

// Surface is one live embedded player.
type Surface interface {
	Post(command Command)
	Close()
}

// Host creates surfaces for an embed source URL.
type Host interface {
	Mount(src string) Surface
}

// Adapter owns at most one live surface.
type Adapter struct {
	mu      sync.Mutex
	host    Host
	surface Surface
	source  string
	logger  *slog.Logger
}

// NewAdapter creates an adapter mounting surfaces on host.
func NewAdapter(host Host, logger *slog.Logger) *Adapter {
	return &Adapter{
		host:   host,
		logger: logging.OrDiscard(logger).With("component", "playback"),
	}
}

// Load tears down the live surface and mounts a new one for the given ids.
// It reports false when neither id is present or no host is configured; no
// surface is left mounted then.
func (adapter *Adapter) Load(mediaID, collectionID string) bool {
	adapter.mu.Lock()
	defer adapter.mu.Unlock()

	adapter.unloadLocked()

	src := EmbedURL(mediaID, collectionID)
	if src == "" {
		adapter.logger.Debug("no playable source", "media_id", mediaID, "collection_id", collectionID)
		return false
	}
	if adapter.host == nil {
		adapter.logger.Warn("no player host configured", "src", src)
		return false
	}
	adapter.surface = adapter.host.Mount(src)
	if adapter.surface == nil {
		return false
	}
	adapter.source = src
	adapter.logger.Debug("surface mounted", "src", src)
	return true
}

// Unload tears down the live surface, if any.
func (adapter *Adapter) Unload() {
	adapter.mu.Lock()
	defer adapter.mu.Unlock()
	adapter.unloadLocked()
}

// Source returns the embed URL of the live surface.
func (adapter *Adapter) Source() string {
	adapter.mu.Lock()
	defer adapter.mu.Unlock()
	return adapter.source
}

// Play resumes playback.
func (adapter *Adapter) Play() {
	adapter.post(newCommand(FuncPlay))
}

// Pause pauses playback.
func (adapter *Adapter) Pause() {
	adapter.post(newCommand(FuncPause))
}

// Seek jumps to offset from the start of the current item.
func (adapter *Adapter) Seek(offset time.Duration) {
	if offset < 0 {
		offset = 0
	}
	adapter.post(newCommand(FuncSeek, int(offset/time.Second), true))
}

// SetVolume sets the volume from a 0..1 fraction.
func (adapter *Adapter) SetVolume(fraction float64) {
	adapter.post(newCommand(FuncSetVolume, int(math.Round(ClampVolume(fraction)*100))))
}

// ClampVolume forces a volume fraction into [0, 1].
func ClampVolume(fraction float64) float64 {
	if math.IsNaN(fraction) || fraction < 0 {
		return 0
	}
	if fraction > 1 {
		return 1
	}
	return fraction
}

func (adapter *Adapter) post(command Command) {
	adapter.mu.Lock()
	defer adapter.mu.Unlock()
	if adapter.surface == nil {
		return
	}
	adapter.surface.Post(command)
}

func (adapter *Adapter) unloadLocked() {
	if adapter.surface != nil {
		adapter.surface.Close()
	}
	adapter.surface = nil
	adapter.source = ""
}
