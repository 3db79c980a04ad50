package cache

import (
	"context"
	"sync"
	"time"

	"github.com/warehouse/backend/internal/application/receiving"
)

// InMemoryIdempotencyStore is a process-local idempotency store for
// development and tests. Entries expire after their TTL and are swept
// by a background goroutine.
type InMemoryIdempotencyStore struct {
	mu        sync.RWMutex
	entries   map[string]inMemoryEntry
	stopCh    chan struct{}
	closeOnce sync.Once
}

type inMemoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

var _ receiving.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)

// NewInMemoryIdempotencyStore creates a store and starts its cleanup loop.
func NewInMemoryIdempotencyStore() *InMemoryIdempotencyStore {
	s := &InMemoryIdempotencyStore{
		entries: make(map[string]inMemoryEntry),
		stopCh:  make(chan struct{}),
	}
	go s.cleanupLoop()
	return s
}

// Get returns the stored payload for the key, if present and not expired.
func (s *InMemoryIdempotencyStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[key]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false, nil
	}
	return entry.payload, true, nil
}

// Set stores the payload under the key with the given TTL.
func (s *InMemoryIdempotencyStore) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = inMemoryEntry{
		payload:   payload,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// Size returns the number of entries currently held, including expired
// ones not yet swept.
func (s *InMemoryIdempotencyStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Close stops the cleanup goroutine.
func (s *InMemoryIdempotencyStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopCh)
	})
	return nil
}

func (s *InMemoryIdempotencyStore) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.removeExpired()
		case <-s.stopCh:
			return
		}
	}
}

func (s *InMemoryIdempotencyStore) removeExpired() {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, key)
		}
	}
}
