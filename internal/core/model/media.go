package model

// NoCheckpoint marks a scene reference that starts its track from the beginning.
const NoCheckpoint = -1

// Checkpoint is a named position inside a track.
type Checkpoint struct {
	Label     string
	Timestamp string
}

// Track is a playlist entry backed by an embeddable source URL.
type Track struct {
	Title       string
	URL         string
	Checkpoints []Checkpoint
}

// SceneRef points at a playlist track and an optional checkpoint.
type SceneRef struct {
	Track      int
	Checkpoint int
}

// SceneMap holds the configured references for each bucket, indexed by cycle slot.
type SceneMap struct {
	Focus []SceneRef
	Break []SceneRef
}

// Clone returns a deep copy.
func (scenes SceneMap) Clone() SceneMap {
	return SceneMap{
		Focus: append([]SceneRef(nil), scenes.Focus...),
		Break: append([]SceneRef(nil), scenes.Break...),
	}
}

// ClonePlaylist returns a deep copy of a playlist.
func ClonePlaylist(tracks []Track) []Track {
	if tracks == nil {
		return nil
	}
	cloned := make([]Track, len(tracks))
	for index, track := range tracks {
		cloned[index] = track
		cloned[index].Checkpoints = append([]Checkpoint(nil), track.Checkpoints...)
	}
	return cloned
}
