// Package scene maps a (phase bucket, cycle slot) pair onto a playable track.
//
// References are looked up on every call so playlist edits take effect the
// next time a scene is entered. The resolver never mutates its source.
package scene

import (
	"errors"
	"fmt"
	"time"

	"focusloop/internal/core/model"
)

var (
	// ErrNoReference indicates the bucket has no configured reference.
	ErrNoReference = errors.New("scene has no media reference")
	// ErrTrackMissing indicates the reference points past the end of the playlist.
	ErrTrackMissing = errors.New("scene track not in playlist")
)

// Bucket groups phases that share media references.
type Bucket string

const (
	BucketFocus Bucket = "focus"
	BucketBreak Bucket = "break"
)

// Key identifies a scene.
type Key struct {
	Bucket Bucket
	Slot   int
}

func (key Key) String() string {
	return fmt.Sprintf("%s/%d", key.Bucket, key.Slot)
}

// KeyFor returns the scene entered by a phase in the given cycle slot.
func KeyFor(phase model.PhaseKind, slot int) Key {
	bucket := BucketFocus
	if phase.IsBreak() {
		bucket = BucketBreak
	}
	return Key{Bucket: bucket, Slot: slot}
}

// Source provides the current playlist and scene references.
type Source interface {
	Playlist() []model.Track
	Scenes() model.SceneMap
}

// Resolved is a playable track with its start offset.
type Resolved struct {
	Key          Key
	TrackIndex   int
	Track        model.Track
	MediaID      string
	CollectionID string
	Checkpoint   string
	Offset       time.Duration
}

// Resolver turns scene keys into playable tracks.
type Resolver struct {
	source Source
}

// NewResolver creates a resolver reading from source.
func NewResolver(source Source) *Resolver {
	return &Resolver{source: source}
}

// Resolve looks up the reference configured for key. A bucket holding fewer
// references than the requested slot falls back to its first reference.
func (resolver *Resolver) Resolve(key Key) (Resolved, error) {
	scenes := resolver.source.Scenes()
	refs := scenes.Focus
	if key.Bucket == BucketBreak {
		refs = scenes.Break
	}
	if len(refs) == 0 {
		return Resolved{Key: key}, fmt.Errorf("resolve %s: %w", key, ErrNoReference)
	}
	ref := refs[0]
	if key.Slot >= 0 && key.Slot < len(refs) {
		ref = refs[key.Slot]
	}

	resolved, err := resolver.ResolveTrack(ref.Track, ref.Checkpoint)
	resolved.Key = key
	if err != nil {
		return resolved, fmt.Errorf("resolve %s: %w", key, err)
	}
	return resolved, nil
}

// ResolveTrack resolves a playlist position directly, for manual selection.
// An invalid checkpoint index or timestamp starts the track from the beginning.
func (resolver *Resolver) ResolveTrack(trackIndex, checkpointIndex int) (Resolved, error) {
	playlist := resolver.source.Playlist()
	if trackIndex < 0 || trackIndex >= len(playlist) {
		return Resolved{TrackIndex: trackIndex}, fmt.Errorf("track %d of %d: %w", trackIndex, len(playlist), ErrTrackMissing)
	}

	track := playlist[trackIndex]
	media := ParseMediaURL(track.URL)
	resolved := Resolved{
		TrackIndex:   trackIndex,
		Track:        track,
		MediaID:      media.MediaID,
		CollectionID: media.CollectionID,
	}

	if checkpointIndex >= 0 && checkpointIndex < len(track.Checkpoints) {
		checkpoint := track.Checkpoints[checkpointIndex]
		if offset, err := ParseTimestamp(checkpoint.Timestamp); err == nil {
			resolved.Checkpoint = checkpoint.Label
			resolved.Offset = offset
		}
	}
	return resolved, nil
}
