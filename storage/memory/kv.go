// Package memorystore is an in-memory backend.StateStore for single-process
// deployments and tests.
package memorystore

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	value   []byte
	expires time.Time
}

// Store holds handshake state in a mutex-guarded map with per-key TTL.
// Expired entries are dropped lazily on read and swept opportunistically on
// write.
type Store struct {
	mu    sync.Mutex
	items map[string]entry
}

func New() *Store {
	return &Store{items: make(map[string]entry)}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[key]
	if !ok {
		return nil, false, nil
	}
	if expired(it, time.Now()) {
		delete(s.items, key)
		return nil, false, nil
	}
	return it.value, true, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for k, it := range s.items {
		if expired(it, now) {
			delete(s.items, k)
		}
	}
	var exp time.Time
	if ttl > 0 {
		exp = now.Add(ttl)
	}
	s.items[key] = entry{value: append([]byte(nil), value...), expires: exp}
	return nil
}

func (s *Store) Del(ctx context.Context, key string) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	return nil
}

// Len reports the live entry count, for tests and diagnostics.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	n := 0
	for _, it := range s.items {
		if !expired(it, now) {
			n++
		}
	}
	return n
}

func expired(it entry, now time.Time) bool {
	return !it.expires.IsZero() && now.After(it.expires)
}
