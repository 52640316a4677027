package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	value    any
	storedAt time.Time
}

// Store is an in-process TTL cache. Expired entries are kept around so
// callers can deliberately serve stale values when a refresh fails: Get only
// returns fresh entries, GetStale returns whatever is held regardless of age.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the value for key when the entry is still within the TTL.
func (s *Store) Get(_ context.Context, key string) (any, bool) {
	if key == "" {
		return nil, false
	}

	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if s.ttl > 0 && s.now().Sub(e.storedAt) >= s.ttl {
		return nil, false
	}

	return e.value, true
}

// GetStale returns the value for key and the time it was stored, even when
// the entry has outlived the TTL.
func (s *Store) GetStale(_ context.Context, key string) (any, time.Time, bool) {
	if key == "" {
		return nil, time.Time{}, false
	}

	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, time.Time{}, false
	}

	return e.value, e.storedAt, true
}

// Set overwrites the entry for key with a fresh timestamp. Last writer wins;
// concurrent refreshes of the same key are accepted.
func (s *Store) Set(_ context.Context, key string, value any) {
	if key == "" {
		return
	}

	s.mu.Lock()
	s.entries[key] = entry{
		value:    value,
		storedAt: s.now(),
	}
	s.mu.Unlock()
}

func (s *Store) Delete(_ context.Context, key string) {
	if key == "" {
		return
	}

	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}
