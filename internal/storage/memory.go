package storage

import (
	"context"
	"sync"
)

// MemoryStore implements SyncStore in memory, for tests and environments
// without a database.
type MemoryStore struct {
	mu   sync.Mutex
	date string
	set  bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) LastSyncDate(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.set {
		return "", ErrNotFound
	}
	return s.date, nil
}

func (s *MemoryStore) SetLastSyncDate(ctx context.Context, date string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.date = date
	s.set = true
	return nil
}
