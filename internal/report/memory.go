package report

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore keeps reports in process memory. It backs tests and the
// "memory" store setting for local runs.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string][]byte)}
}

func (s *MemoryStore) Get(ctx context.Context, date string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.entries[date]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (s *MemoryStore) Put(ctx context.Context, date string, data []byte) error {
	stored := make([]byte, len(data))
	copy(stored, data)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[date] = stored
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, date string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, date)
	return nil
}

func (s *MemoryStore) Dates(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dates := make([]string, 0, len(s.entries))
	for date := range s.entries {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
