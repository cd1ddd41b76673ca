package store

import (
	"sync"

	"FXDashboard/internal/model"
)

// Store holds the dataset currently served by the dashboard.
type Store struct {
	mu      sync.RWMutex
	dataset *model.Dataset
}

// New creates an empty Store.
func New() *Store { return &Store{} }

// Load returns the current dataset, or nil if nothing has been collected yet.
// Callers must treat the result as read-only.
func (s *Store) Load() *model.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dataset
}

// Replace swaps in a freshly collected dataset.
func (s *Store) Replace(ds *model.Dataset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dataset = ds
}
