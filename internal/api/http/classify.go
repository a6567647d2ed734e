package http

import (
	"context"
	"errors"

	"github.com/GriffinCanCode/AppleDriver/internal/domain/automation"
	"github.com/GriffinCanCode/AppleDriver/internal/domain/protocol"
	"github.com/GriffinCanCode/AppleDriver/internal/domain/session"
)

// classify maps a handler error onto the protocol taxonomy. Anything that
// is not recognised becomes UnknownError carrying the raw message.
func classify(err error) *protocol.Error {
	if perr, ok := protocol.As(err); ok {
		return perr
	}

	var scriptErr *automation.ScriptError
	switch {
	case errors.Is(err, session.ErrNotFound):
		return protocol.Wrap(protocol.StatusSessionNotFound, err)
	case errors.Is(err, automation.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return protocol.Wrap(protocol.StatusTimeout, err)
	case errors.Is(err, automation.ErrNoSuchWindow):
		return protocol.Wrap(protocol.StatusNoSuchWindow, err)
	case errors.As(err, &scriptErr):
		perr := protocol.NewError(protocol.StatusUnknownError, scriptErr.Message)
		perr.Err = err
		return perr
	default:
		return protocol.Wrap(protocol.StatusUnknownError, err)
	}
}
