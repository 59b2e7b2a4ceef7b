package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/aretw0/shopbot/pkg/domain"
)

// ErrNilState is returned by Save when there is nothing to keep.
var ErrNilState = errors.New("memory: nil state")

// Store keeps conversation snapshots in a map. It is the default backend
// for the console chat and for tests, and is lost when the process exits.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*domain.State
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*domain.State)}
}

// Save stores a snapshot, so later edits to state by the caller are not seen.
func (s *Store) Save(ctx context.Context, sessionID string, state *domain.State) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if state == nil {
		return ErrNilState
	}
	snap := state.Snapshot()

	s.mu.Lock()
	s.sessions[sessionID] = snap
	s.mu.Unlock()
	return nil
}

// Load hands out a fresh snapshot on every call.
func (s *Store) Load(ctx context.Context, sessionID string) (*domain.State, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	state, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return state.Snapshot(), nil
}

func (s *Store) Delete(ctx context.Context, sessionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	return nil
}

// List returns the session IDs sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	s.mu.RUnlock()
	sort.Strings(ids)
	return ids, nil
}
