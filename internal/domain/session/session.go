package session

import (
	"sync"
	"time"
)

// Session is one client's automation context against a target app.
// ID, App, CreatedAt and the capabilities are fixed at creation; the
// remaining state is guarded by the session's own mutex.
type Session struct {
	ID        string
	App       string
	CreatedAt time.Time

	capabilities Capabilities

	mu           sync.Mutex
	timeouts     Timeouts
	activeWindow string
	lastActive   time.Time
}

// New creates a session. The capabilities are copied.
func New(id, app string, caps Capabilities, timeouts Timeouts) *Session {
	now := time.Now()
	return &Session{
		ID:           id,
		App:          app,
		CreatedAt:    now,
		capabilities: caps.Clone(),
		timeouts:     timeouts,
		lastActive:   now,
	}
}

// Capabilities returns a copy of the negotiated capabilities.
func (s *Session) Capabilities() Capabilities {
	return s.capabilities.Clone()
}

// CloseWindowOnQuit reports whether deleting the session should close
// its active window.
func (s *Session) CloseWindowOnQuit() bool {
	return s.capabilities.Bool(CapCloseWindowOnQuit)
}

// Timeouts returns the current timeout values.
func (s *Session) Timeouts() Timeouts {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timeouts
}

// Timeout returns one timeout value.
func (s *Session) Timeout(kind TimeoutKind) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timeouts.Get(kind)
}

// SetTimeout updates one timeout value.
func (s *Session) SetTimeout(kind TimeoutKind, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timeouts.Set(kind, d)
}

// ActiveWindow returns the handle the backend targets, or "".
func (s *Session) ActiveWindow() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeWindow
}

// SetActiveWindow changes the targeted window. An empty handle clears it.
func (s *Session) SetActiveWindow(handle string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeWindow = handle
}

// ClearActiveWindow clears the handle if it still equals handle.
func (s *Session) ClearActiveWindow(handle string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activeWindow == handle {
		s.activeWindow = ""
	}
}

// Touch records activity on the session.
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActive = time.Now()
}

// LastActive returns the time of the last command against the session.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}
