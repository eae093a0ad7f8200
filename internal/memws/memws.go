// Package memws is an in-memory world-state store for tests and the
// transitiond service's standalone mode. It implements both
// rws.WorldStateView and rws.WorldStateStorage over a plain map guarded by
// a mutex.
package memws

import (
	"sync"

	"github.com/ironledger/statecore/core/rws"
)

// Store is a concurrency-safe, in-memory key-value store.
type Store struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// New returns an empty Store.
func New() *Store {
	return &Store{data: make(map[string][]byte)}
}

// Get implements rws.WorldStateView.
func (s *Store) Get(key []byte) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[string(key)]
	if !ok {
		return nil, false
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true
}

// Contains implements rws.WorldStateView.
func (s *Store) Contains(key []byte) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.data[string(key)]
	return ok
}

// ApplyWriteSet implements rws.WorldStateStorage, committing a transition's
// WriteSet atomically with respect to concurrent readers.
func (s *Store) ApplyWriteSet(ws rws.WriteSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, entry := range ws {
		if !entry.Present {
			delete(s.data, k)
			continue
		}
		v := make([]byte, len(entry.Value))
		copy(v, entry.Value)
		s.data[k] = v
	}
	return nil
}

// Put is a direct write bypassing the write-set machinery, for seeding
// fixtures in tests.
func (s *Store) Put(key, value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := make([]byte, len(value))
	copy(v, value)
	s.data[string(key)] = v
}

// Len reports the number of keys currently stored.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
