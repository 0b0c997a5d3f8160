package session

import (
	"sync"
)

// Store holds live sessions in memory. Nothing is written to disk: a restart starts
// every player over.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	defaults []Option
}

// NewStore returns an empty store. defaults are applied to every created session
// before the per-call options.
func NewStore(defaults ...Option) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		defaults: defaults,
	}
}

// Create starts a session and registers it.
func (s *Store) Create(opts ...Option) *Session {
	all := make([]Option, 0, len(s.defaults)+len(opts))
	all = append(all, s.defaults...)
	all = append(all, opts...)
	sess := New(all...)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID()] = sess
	return sess
}

func (s *Store) Get(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// Delete removes a session. It reports whether the session existed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	return ok
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
