package automation

import (
	"errors"
	"fmt"
)

var (
	// ErrUnreachable means the scripting host or target app cannot be
	// contacted. Only these failures count against the circuit breaker.
	ErrUnreachable = errors.New("automation backend unreachable")
	// ErrTimeout means the command outlived its deadline.
	ErrTimeout = errors.New("automation command timed out")
	// ErrNoSuchWindow means the referenced window does not exist.
	ErrNoSuchWindow = errors.New("no such window")
	// ErrCaptureUnavailable means no screenshot could be taken.
	ErrCaptureUnavailable = errors.New("screen capture unavailable")
	// ErrClosed is returned for work submitted to, or pending in, a closed queue.
	ErrClosed = errors.New("execution queue closed")
)

// ScriptError is a failure reported by the script itself. Message is the
// backend's raw text.
type ScriptError struct {
	Message string
	Code    int
}

func (e *ScriptError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("script error %d: %s", e.Code, e.Message)
	}
	return "script error: " + e.Message
}

// Unreachable wraps a cause as ErrUnreachable, keeping its text.
func Unreachable(cause error) error {
	return fmt.Errorf("%w: %v", ErrUnreachable, cause)
}
