// Package testutil provides test doubles for the automation backend.
package testutil

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/GriffinCanCode/AppleDriver/internal/domain/automation"
)

// MockBackend is a testify mock of automation.Backend.
type MockBackend struct {
	mock.Mock
}

// Execute mocks the Execute method.
func (m *MockBackend) Execute(ctx context.Context, command string, args automation.Args) (any, error) {
	called := m.Called(ctx, command, args)
	return called.Get(0), called.Error(1)
}

// CaptureScreenshot mocks the CaptureScreenshot method.
func (m *MockBackend) CaptureScreenshot(ctx context.Context) ([]byte, error) {
	called := m.Called(ctx)
	if called.Get(0) == nil {
		return nil, called.Error(1)
	}
	return called.Get(0).([]byte), called.Error(1)
}

// DumpUIHierarchy mocks the DumpUIHierarchy method.
func (m *MockBackend) DumpUIHierarchy(ctx context.Context, app string) (string, error) {
	called := m.Called(ctx, app)
	return called.String(0), called.Error(1)
}

// Kind mocks the Kind method.
func (m *MockBackend) Kind() string {
	return m.Called().String(0)
}

// NewMockBackend creates a mock whose Kind is "mock".
func NewMockBackend(t *testing.T) *MockBackend {
	t.Helper()
	m := new(MockBackend)
	m.On("Kind").Return("mock").Maybe()
	return m
}

// Call is one recorded backend invocation.
type Call struct {
	Command string
	Args    automation.Args
}

// HandlerFunc answers one command.
type HandlerFunc func(ctx context.Context, args automation.Args) (any, error)

// StubBackend records every call in order and answers from per-command
// handlers. Commands without a handler return nil, nil.
type StubBackend struct {
	mu       sync.Mutex
	calls    []Call
	handlers map[string]HandlerFunc

	Screenshot func(ctx context.Context) ([]byte, error)
	Hierarchy  func(ctx context.Context, app string) (string, error)
}

// NewStubBackend creates an empty stub.
func NewStubBackend() *StubBackend {
	return &StubBackend{handlers: make(map[string]HandlerFunc)}
}

// Handle sets the handler for command.
func (s *StubBackend) Handle(command string, fn HandlerFunc) *StubBackend {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[command] = fn
	return s
}

// Returns sets a fixed answer for command.
func (s *StubBackend) Returns(command string, value any, err error) *StubBackend {
	return s.Handle(command, func(context.Context, automation.Args) (any, error) {
		return value, err
	})
}

// Calls returns the recorded calls.
func (s *StubBackend) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

// CallsTo returns the recorded calls of one command.
func (s *StubBackend) CallsTo(command string) []Call {
	var out []Call
	for _, c := range s.Calls() {
		if c.Command == command {
			out = append(out, c)
		}
	}
	return out
}

// Execute implements automation.Executor.
func (s *StubBackend) Execute(ctx context.Context, command string, args automation.Args) (any, error) {
	s.mu.Lock()
	s.calls = append(s.calls, Call{Command: command, Args: args})
	fn := s.handlers[command]
	s.mu.Unlock()

	if fn == nil {
		return nil, nil
	}
	return fn(ctx, args)
}

// CaptureScreenshot implements automation.Capturer.
func (s *StubBackend) CaptureScreenshot(ctx context.Context) ([]byte, error) {
	if s.Screenshot == nil {
		return PNG(), nil
	}
	return s.Screenshot(ctx)
}

// DumpUIHierarchy implements automation.Serializer.
func (s *StubBackend) DumpUIHierarchy(ctx context.Context, app string) (string, error) {
	if s.Hierarchy == nil {
		return "AXApplication \"" + app + "\"\n", nil
	}
	return s.Hierarchy(ctx, app)
}

// Kind implements automation.Backend.
func (s *StubBackend) Kind() string {
	return "stub"
}

// FinderBackend is a stub that behaves like Finder with one open window.
func FinderBackend() *StubBackend {
	var mu sync.Mutex
	windows := []string{"Downloads"}

	s := NewStubBackend().
		Returns(automation.CmdProbe, true, nil).
		Returns(automation.CmdLocation, "file:///Users/test/Downloads/", nil).
		Returns(automation.CmdTitle, "Downloads", nil).
		Returns(automation.CmdNavigate, nil, nil)

	s.Handle(automation.CmdWindows, func(context.Context, automation.Args) (any, error) {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), windows...), nil
	})
	s.Handle(automation.CmdFrontWindow, func(context.Context, automation.Args) (any, error) {
		mu.Lock()
		defer mu.Unlock()
		if len(windows) == 0 {
			return "", nil
		}
		return windows[0], nil
	})
	s.Handle(automation.CmdFocusWindow, func(_ context.Context, args automation.Args) (any, error) {
		mu.Lock()
		defer mu.Unlock()
		for _, w := range windows {
			if w == args.String(automation.ArgWindow) {
				return nil, nil
			}
		}
		return nil, automation.ErrNoSuchWindow
	})
	s.Handle(automation.CmdCloseWindow, func(_ context.Context, args automation.Args) (any, error) {
		mu.Lock()
		defer mu.Unlock()
		for i, w := range windows {
			if w == args.String(automation.ArgWindow) {
				windows = append(windows[:i], windows[i+1:]...)
				return nil, nil
			}
		}
		return nil, automation.ErrNoSuchWindow
	})
	return s
}

// PNG returns a minimal byte slice that sniffs as image/png.
func PNG() []byte {
	return []byte{
		0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n',
		0x00, 0x00, 0x00, 0x0d, 'I', 'H', 'D', 'R',
		0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
		0x08, 0x02, 0x00, 0x00, 0x00,
	}
}
