package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// ErrPersist tags errors returned by Replace when the persister rejected
// the new value
var ErrPersist = errors.New("settings not persisted")

// Persister loads and saves settings on behalf of the Store
type Persister interface {
	GetSettings(ctx context.Context) (Settings, error)
	SaveSettings(ctx context.Context, s Settings) error
}

// Store holds the canonical Settings. Readers only ever observe the
// startup default or a value that was successfully persisted.
type Store struct {
	persister Persister

	mu      sync.RWMutex
	current Settings
	loaded  bool

	subMu  sync.Mutex
	subs   map[int]func(Settings)
	nextID int
}

// NewStore creates a store holding the default settings
func NewStore(persister Persister) *Store {
	return &Store{
		persister: persister,
		current:   Default(),
		subs:      make(map[int]func(Settings)),
	}
}

// Load fetches the persisted settings. On failure the current value
// (the default at startup) is kept. Loading completes either way.
func (s *Store) Load(ctx context.Context) {
	loaded, err := s.persister.GetSettings(ctx)

	s.mu.Lock()
	if err != nil {
		slog.Warn("Failed to load settings, using defaults", "error", err)
	} else {
		s.current = loaded
	}
	s.loaded = true
	current := s.current
	s.mu.Unlock()

	s.notify(current)
}

// Replace persists next and, only if that succeeds, makes it canonical
// and notifies subscribers. Concurrent calls are not serialized.
func (s *Store) Replace(ctx context.Context, next Settings) error {
	if err := s.persister.SaveSettings(ctx, next); err != nil {
		slog.Error("Failed to save settings", "error", err)
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}

	s.mu.Lock()
	s.current = next
	s.mu.Unlock()

	s.notify(next)
	return nil
}

// Current returns the canonical settings
func (s *Store) Current() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Loaded reports whether Load has completed
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Subscribe registers fn to be called after every successful change.
// fn runs on the goroutine that completed the change and must not block.
func (s *Store) Subscribe(fn func(Settings)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

func (s *Store) notify(value Settings) {
	s.subMu.Lock()
	fns := make([]func(Settings), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(value)
	}
}
