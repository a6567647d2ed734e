package http

import (
	"context"
	"errors"

	"github.com/GriffinCanCode/AppleDriver/internal/domain/automation"
	"github.com/GriffinCanCode/AppleDriver/internal/domain/protocol"
)

type urlRequest struct {
	URL string `json:"url"`
}

type switchWindowRequest struct {
	Name   string `json:"name"`
	Handle string `json:"handle"`
}

// GetURL returns the current location of the active window.
func (h *Handlers) GetURL(ctx context.Context, cmd *Command) (any, error) {
	sess := cmd.Session
	return h.driver.Location(ctx, sess.App, sess.ActiveWindow())
}

// Navigate opens a URL in the active window.
func (h *Handlers) Navigate(ctx context.Context, cmd *Command) (any, error) {
	var req urlRequest
	if err := cmd.Bind(&req); err != nil {
		return nil, err
	}
	if req.URL == "" {
		return nil, protocol.BadRequest("missing url")
	}

	sess := cmd.Session
	if err := h.driver.Navigate(ctx, sess.App, sess.ActiveWindow(), req.URL); err != nil {
		return nil, err
	}
	return nil, nil
}

// GetTitle returns the title of the active window.
func (h *Handlers) GetTitle(ctx context.Context, cmd *Command) (any, error) {
	sess := cmd.Session
	return h.driver.Title(ctx, sess.App, sess.ActiveWindow())
}

// GetWindow returns the active window handle. A session without one adopts
// the app's frontmost window.
func (h *Handlers) GetWindow(ctx context.Context, cmd *Command) (any, error) {
	return h.currentWindow(ctx, cmd)
}

// GetWindowHandles lists the app's windows.
func (h *Handlers) GetWindowHandles(ctx context.Context, cmd *Command) (any, error) {
	return h.driver.WindowHandles(ctx, cmd.Session.App)
}

// SwitchWindow focuses the named window and makes it active.
func (h *Handlers) SwitchWindow(ctx context.Context, cmd *Command) (any, error) {
	var req switchWindowRequest
	if err := cmd.Bind(&req); err != nil {
		return nil, err
	}
	handle := req.Name
	if handle == "" {
		handle = req.Handle
	}
	if handle == "" {
		return nil, protocol.BadRequest("missing window name")
	}

	sess := cmd.Session
	if err := h.driver.FocusWindow(ctx, sess.App, handle); err != nil {
		if errors.Is(err, automation.ErrNoSuchWindow) {
			return nil, protocol.NoSuchWindow(handle)
		}
		return nil, err
	}
	sess.SetActiveWindow(handle)
	return nil, nil
}

// CloseWindow closes the active window and clears it from the session.
func (h *Handlers) CloseWindow(ctx context.Context, cmd *Command) (any, error) {
	handle, err := h.currentWindow(ctx, cmd)
	if err != nil {
		return nil, err
	}

	sess := cmd.Session
	if err := h.driver.CloseWindow(ctx, sess.App, handle); err != nil {
		if errors.Is(err, automation.ErrNoSuchWindow) {
			sess.ClearActiveWindow(handle)
			return nil, protocol.NoSuchWindow(handle)
		}
		return nil, err
	}
	sess.ClearActiveWindow(handle)
	return nil, nil
}

func (h *Handlers) currentWindow(ctx context.Context, cmd *Command) (string, error) {
	sess := cmd.Session
	if handle := sess.ActiveWindow(); handle != "" {
		return handle, nil
	}

	front, err := h.driver.FrontWindow(ctx, sess.App)
	if errors.Is(err, automation.ErrNoSuchWindow) {
		return "", protocol.NoSuchWindow("")
	}
	if err != nil {
		return "", err
	}
	sess.SetActiveWindow(front)
	return front, nil
}
