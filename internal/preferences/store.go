package preferences

import (
	"sync"

	"focusloop/internal/core/model"
)

// Store holds the committed settings shared by the running session.
// It satisfies scene.Source.
type Store struct {
	mu       sync.RWMutex
	settings Settings
}

// NewStore creates a store holding the committed form of settings.
func NewStore(settings Settings) *Store {
	return &Store{settings: settings.Commit()}
}

// Get returns a copy of the current settings.
func (store *Store) Get() Settings {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.settings.Clone()
}

// Set commits and stores settings, returning the committed value.
func (store *Store) Set(settings Settings) Settings {
	committed := settings.Commit()
	store.mu.Lock()
	store.settings = committed
	store.mu.Unlock()
	return committed.Clone()
}

func (store *Store) Playlist() []model.Track {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return model.ClonePlaylist(store.settings.Playlist)
}

func (store *Store) Scenes() model.SceneMap {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.settings.Scenes.Clone()
}
