package service

import (
	"context"
	"sync"
	"time"
)

// ContextCacheStore parks a consumed ephemeral context between the
// redirect and the builder app's follow-up fetch. TakeOnce hands the
// payload out at most once.
type ContextCacheStore interface {
	PutOnce(ctx context.Context, id string, data []byte, ttl time.Duration) error
	TakeOnce(ctx context.Context, id string) ([]byte, bool, error)
}

type memoryCacheEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryContextCacheStore is the single-instance fallback used in tests
// and deployments without Redis.
type MemoryContextCacheStore struct {
	mu      sync.Mutex
	entries map[string]memoryCacheEntry
}

func NewMemoryContextCacheStore() *MemoryContextCacheStore {
	return &MemoryContextCacheStore{entries: make(map[string]memoryCacheEntry)}
}

func (s *MemoryContextCacheStore) PutOnce(_ context.Context, id string, data []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[id] = memoryCacheEntry{data: data, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (s *MemoryContextCacheStore) TakeOnce(_ context.Context, id string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[id]
	if !ok {
		return nil, false, nil
	}
	delete(s.entries, id)
	if time.Now().After(entry.expiresAt) {
		return nil, false, nil
	}
	return entry.data, true, nil
}
