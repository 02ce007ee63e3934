package api

import (
	"sync"

	"github.com/dmitrymomot/pushkit/pkg/lifecycle"
)

// StateStore holds the simulated app state.
type StateStore struct {
	mu    sync.RWMutex
	state lifecycle.AppState
}

// NewStateStore returns a store holding initial.
func NewStateStore(initial lifecycle.AppState) *StateStore {
	return &StateStore{state: initial}
}

// Get returns the current state.
func (s *StateStore) Get() lifecycle.AppState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Set replaces the current state.
func (s *StateStore) Set(state lifecycle.AppState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

// Func adapts the store for lifecycle.WithAppState.
func (s *StateStore) Func() lifecycle.AppStateFunc {
	return s.Get
}
