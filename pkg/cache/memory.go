// Package cache provides a small in-memory TTL store for short-lived
// single-use values such as OAuth state nonces.
package cache

import (
	"sync"
	"time"
)

const (
	defaultTTL     = 10 * time.Minute
	defaultMaxSize = 500
)

type entry struct {
	storedAt time.Time
}

// StateStore is a mutex-guarded map of nonce -> creation time. Values are
// consumed on first Take; expired values are rejected and removed lazily.
type StateStore struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration
	maxSize int
}

func NewStateStore(ttl time.Duration, maxSize int) *StateStore {
	if ttl == 0 {
		ttl = defaultTTL
	}
	if maxSize == 0 {
		maxSize = defaultMaxSize
	}

	return &StateStore{
		entries: make(map[string]entry),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

func (s *StateStore) Put(state string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Simple eviction if full
	if len(s.entries) >= s.maxSize {
		for k := range s.entries {
			delete(s.entries, k)
			break
		}
	}

	s.entries[state] = entry{storedAt: time.Now()}
	return nil
}

// Take consumes the state. It reports true only for a nonce that was stored
// and has not expired; either way the nonce is gone afterwards.
func (s *StateStore) Take(state string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[state]
	if !ok {
		return false
	}

	delete(s.entries, state)
	return time.Since(e.storedAt) <= s.ttl
}

func (s *StateStore) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
