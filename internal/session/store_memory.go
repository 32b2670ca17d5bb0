package session

import (
	"context"
	"sync"
)

// MemoryStore is an in-process Store for tests and redis-less deployments.
// Records live until process exit; there is no TTL.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]Record
	leases  map[string]struct{}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]Record),
		leases:  make(map[string]struct{}),
	}
}

func (s *MemoryStore) Put(ctx context.Context, key string, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = rec
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, key string) (Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[key]
	return rec, ok, nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, key)
	return nil
}

func (s *MemoryStore) TryAcquireSave(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, held := s.leases[key]; held {
		return false, nil
	}
	s.leases[key] = struct{}{}
	return true, nil
}

func (s *MemoryStore) ReleaseSave(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.leases, key)
	return nil
}

// Len reports the number of live records, for tests.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
