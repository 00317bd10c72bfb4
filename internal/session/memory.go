package session

import (
	"context"
	"sync"
	"time"

	"jobverse/internal/filter"
)

type memoryEntry struct {
	state     filter.State
	expiresAt time.Time
}

// MemoryStore keeps sessions in process memory. It is used when no Redis URL
// is configured; sessions do not survive a restart.
type MemoryStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]memoryEntry
}

// NewMemoryStore returns a store whose entries expire ttl after their last
// write.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, now: time.Now, sessions: make(map[string]memoryEntry)}
}

func (s *MemoryStore) Create(_ context.Context, id string, st filter.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[id] = memoryEntry{state: st, expiresAt: s.now().Add(s.ttl)}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (filter.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.lookup(id)
	if !ok {
		return filter.State{}, ErrSessionNotFound
	}
	return e.state, nil
}

func (s *MemoryStore) Update(_ context.Context, id string, fn MutateFunc) (filter.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.lookup(id)
	if !ok {
		return filter.State{}, ErrSessionNotFound
	}
	next, err := fn(e.state)
	if err != nil {
		return filter.State{}, err
	}
	s.sessions[id] = memoryEntry{state: next, expiresAt: s.now().Add(s.ttl)}
	return next, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

// lookup must be called with mu held. Expired entries are dropped lazily.
func (s *MemoryStore) lookup(id string) (memoryEntry, bool) {
	e, ok := s.sessions[id]
	if !ok {
		return memoryEntry{}, false
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.sessions, id)
		return memoryEntry{}, false
	}
	return e, true
}
