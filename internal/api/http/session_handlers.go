package http

import (
	"context"
	"errors"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/AppleDriver/internal/domain/automation"
	"github.com/GriffinCanCode/AppleDriver/internal/domain/protocol"
	"github.com/GriffinCanCode/AppleDriver/internal/domain/session"
)

// StatusValue is the value of GET /status.
type StatusValue struct {
	Ready    bool              `json:"ready"`
	Message  string            `json:"message"`
	Build    BuildInfo         `json:"build"`
	OS       OSInfo            `json:"os"`
	Backend  automation.Status `json:"backend"`
	Sessions int               `json:"sessions"`
	Uptime   int64             `json:"uptime"`
}

// BuildInfo describes the server build.
type BuildInfo struct {
	Version string `json:"version"`
}

// OSInfo describes the host.
type OSInfo struct {
	Name string `json:"name"`
	Arch string `json:"arch"`
}

// SessionSummary is one entry of GET /sessions.
type SessionSummary struct {
	ID           string               `json:"sessionId"`
	Capabilities session.Capabilities `json:"capabilities"`
}

type newSessionRequest struct {
	DesiredCapabilities  session.Capabilities `json:"desiredCapabilities"`
	RequiredCapabilities session.Capabilities `json:"requiredCapabilities"`
	Capabilities         struct {
		AlwaysMatch session.Capabilities   `json:"alwaysMatch"`
		FirstMatch  []session.Capabilities `json:"firstMatch"`
	} `json:"capabilities"`
}

// Status reports server and backend readiness. It never touches the
// backend, so it answers even while the scripting host is wedged.
func (h *Handlers) Status(_ context.Context, _ *Command) (any, error) {
	backend := h.driver.Status()
	message := "AppleDriver is ready to create sessions"
	if !backend.Reachable {
		message = "automation backend is unreachable"
	}
	return StatusValue{
		Ready:    backend.Reachable,
		Message:  message,
		Build:    BuildInfo{Version: h.opts.Version},
		OS:       OSInfo{Name: runtime.GOOS, Arch: runtime.GOARCH},
		Backend:  backend,
		Sessions: h.store.Len(),
		Uptime:   int64(time.Since(h.started).Seconds()),
	}, nil
}

// CreateSession negotiates capabilities, probes the target app and stores a
// new session. Nothing is stored when the probe fails.
func (h *Handlers) CreateSession(ctx context.Context, cmd *Command) (any, error) {
	var req newSessionRequest
	if err := cmd.Bind(&req); err != nil {
		return nil, err
	}

	var firstMatch session.Capabilities
	if len(req.Capabilities.FirstMatch) > 0 {
		firstMatch = req.Capabilities.FirstMatch[0]
	}
	caps := session.Merge(
		h.defaultCapabilities(),
		req.DesiredCapabilities,
		req.Capabilities.AlwaysMatch,
		firstMatch,
		req.RequiredCapabilities,
	)
	app := caps.String(session.CapApp)
	if app == "" {
		app = h.opts.DefaultApp
		caps[session.CapApp] = app
	}

	if h.store.Full() {
		return nil, protocol.SessionNotCreated(session.ErrLimitReached)
	}

	probeCtx := ctx
	if h.opts.ProbeTimeout > 0 {
		var cancel context.CancelFunc
		probeCtx, cancel = context.WithTimeout(ctx, h.opts.ProbeTimeout)
		defer cancel()
	}
	if err := h.driver.Probe(probeCtx, app); err != nil {
		cmd.Logger.Warn("target app not reachable", zap.String("app", app), zap.Error(err))
		return nil, protocol.SessionNotCreated(err)
	}

	sess, err := h.store.Create(app, caps, h.opts.Timeouts)
	if err != nil {
		return nil, protocol.SessionNotCreated(err)
	}
	cmd.SessionID = sess.ID

	if h.metrics != nil {
		h.metrics.IncSessionsCreated()
	}
	h.recordSessions()
	cmd.Logger.Info("session created", zap.String("session_id", sess.ID), zap.String("app", app))

	return sess.Capabilities(), nil
}

func (h *Handlers) defaultCapabilities() session.Capabilities {
	return session.Capabilities{
		session.CapApp:               h.opts.DefaultApp,
		session.CapPlatformName:      "mac",
		session.CapAutomationName:    "AppleScript",
		session.CapCloseWindowOnQuit: false,
	}
}

// ListSessions returns every active session. While the backend is known to
// be unreachable the list is empty.
func (h *Handlers) ListSessions(_ context.Context, _ *Command) (any, error) {
	if !h.driver.Available() {
		return []SessionSummary{}, nil
	}

	sessions := h.store.List()
	out := make([]SessionSummary, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, SessionSummary{ID: sess.ID, Capabilities: sess.Capabilities()})
	}
	return out, nil
}

// GetSession returns the session's capabilities.
func (h *Handlers) GetSession(_ context.Context, cmd *Command) (any, error) {
	return cmd.Session.Capabilities(), nil
}

// DeleteSession removes the session, then releases its backend resources.
// A release failure is logged; the session is gone either way.
func (h *Handlers) DeleteSession(ctx context.Context, cmd *Command) (any, error) {
	sess, err := h.store.Delete(cmd.Session.ID)
	if errors.Is(err, session.ErrNotFound) {
		// Lost a race with a concurrent delete.
		return nil, protocol.SessionNotFound(cmd.Session.ID)
	}
	if err != nil {
		return nil, err
	}

	if err := h.driver.Release(ctx, sess.App, sess.ActiveWindow(), sess.CloseWindowOnQuit()); err != nil {
		cmd.Logger.Warn("failed to release session resources", zap.Error(err))
	}

	if h.metrics != nil {
		h.metrics.IncSessionsDeleted()
	}
	h.recordSessions()
	cmd.Logger.Info("session deleted")

	return nil, nil
}
