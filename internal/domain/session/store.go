package session

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/GriffinCanCode/AppleDriver/internal/shared/id"
)

var (
	// ErrNotFound is returned for ids that are not in the store.
	ErrNotFound = errors.New("session not found")
	// ErrLimitReached is returned when the store is at capacity.
	ErrLimitReached = errors.New("maximum number of sessions reached")
)

// Store holds the live sessions. It starts empty and is cleared at shutdown;
// nothing is persisted.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session // Protected by mu
	max      int
}

// NewStore creates an empty store. max <= 0 means unlimited.
func NewStore(max int) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		max:      max,
	}
}

// Create allocates a fresh id and stores a new session atomically with the
// capacity check.
func (s *Store) Create(app string, caps Capabilities, timeouts Timeouts) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.max > 0 && len(s.sessions) >= s.max {
		return nil, fmt.Errorf("%w (%d)", ErrLimitReached, s.max)
	}

	var sid string
	for {
		sid = id.NewSessionID().String()
		if _, exists := s.sessions[sid]; !exists {
			break
		}
	}

	sess := New(sid, app, caps, timeouts)
	s.sessions[sid] = sess
	return sess, nil
}

// Full reports whether Create would currently fail with ErrLimitReached.
func (s *Store) Full() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.max > 0 && len(s.sessions) >= s.max
}

// Get retrieves a session by id
func (s *Store) Get(sid string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sid]
	if !ok {
		return nil, ErrNotFound
	}
	return sess, nil
}

// Delete removes a session and returns it. Exactly one concurrent Delete
// for a given id succeeds.
func (s *Store) Delete(sid string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sid]
	if !ok {
		return nil, ErrNotFound
	}
	delete(s.sessions, sid)
	return sess, nil
}

// List returns all sessions ordered by creation time.
func (s *Store) List() []*Session {
	s.mu.RLock()
	out := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, sess)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Len returns the number of live sessions
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Clear removes every session and returns what was removed.
func (s *Store) Clear() []*Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, sess)
	}
	s.sessions = make(map[string]*Session)
	return out
}
