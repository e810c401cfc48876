package catalog

import (
	"context"
	"sync"
)

// MemStore is a thread-safe in-memory catalog store.
type MemStore struct {
	mu      sync.RWMutex
	records []Record
}

// NewMemStore creates a new in-memory catalog store.
func NewMemStore() *MemStore {
	return &MemStore{}
}

func (s *MemStore) Append(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return nil
}

func (s *MemStore) List(_ context.Context) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out, nil
}

func (s *MemStore) Close() error { return nil }

// Compile-time interface check.
var _ Store = (*MemStore)(nil)
