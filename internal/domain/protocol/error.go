package protocol

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a protocol-level failure. It is rendered as an envelope with a
// nonzero status and value {"message": Message}.
type Error struct {
	Status     Status
	Message    string
	HTTPStatus int
	Err        error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Status, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates an error answered with HTTP 200, the driver's default
// for protocol outcomes.
func NewError(status Status, message string) *Error {
	return &Error{Status: status, Message: message, HTTPStatus: http.StatusOK}
}

// Wrap creates an error whose message is err's text.
func Wrap(status Status, err error) *Error {
	return &Error{Status: status, Message: err.Error(), HTTPStatus: http.StatusOK, Err: err}
}

// SessionNotFound reports an unknown session id.
func SessionNotFound(id string) *Error {
	return NewError(StatusSessionNotFound, fmt.Sprintf("session %s not found", id))
}

// SessionNotCreated reports a failed POST /session.
func SessionNotCreated(err error) *Error {
	return &Error{
		Status:     StatusSessionNotCreated,
		Message:    fmt.Sprintf("session not created: %v", err),
		HTTPStatus: http.StatusOK,
		Err:        err,
	}
}

// UnknownCommand answers routes that exist but have no handler.
func UnknownCommand(method, path string) *Error {
	return &Error{
		Status:     StatusUnknownCommand,
		Message:    fmt.Sprintf("command %s %s is not implemented", method, path),
		HTTPStatus: http.StatusNotImplemented,
	}
}

// BadRequest reports a body the driver cannot decode or validate.
func BadRequest(format string, args ...any) *Error {
	return &Error{
		Status:     StatusUnknownError,
		Message:    fmt.Sprintf(format, args...),
		HTTPStatus: http.StatusBadRequest,
	}
}

// NoSuchWindow reports a window handle the target app does not have.
func NoSuchWindow(handle string) *Error {
	if handle == "" {
		return NewError(StatusNoSuchWindow, "no active window")
	}
	return NewError(StatusNoSuchWindow, fmt.Sprintf("window %q not found", handle))
}

// As extracts a *Error from err's chain.
func As(err error) (*Error, bool) {
	var pe *Error
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
