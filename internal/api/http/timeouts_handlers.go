package http

import (
	"context"
	"math"
	"time"

	"github.com/GriffinCanCode/AppleDriver/internal/domain/protocol"
	"github.com/GriffinCanCode/AppleDriver/internal/domain/session"
)

// W3C timeout keys.
var w3cTimeouts = map[string]session.TimeoutKind{
	"script":   session.TimeoutScript,
	"implicit": session.TimeoutImplicit,
	"pageLoad": session.TimeoutPageLoad,
}

type msRequest struct {
	MS *float64 `json:"ms"`
}

// GetTimeouts returns the session's timeouts in milliseconds.
func (h *Handlers) GetTimeouts(_ context.Context, cmd *Command) (any, error) {
	return cmd.Session.Timeouts().Millis(), nil
}

// SetTimeouts accepts either the JSON wire form {"type", "ms"} or the W3C
// form {"script", "implicit", "pageLoad"}. Nothing changes unless every
// value is valid.
func (h *Handlers) SetTimeouts(_ context.Context, cmd *Command) (any, error) {
	var body map[string]any
	if err := cmd.Bind(&body); err != nil {
		return nil, err
	}

	updates := make(map[session.TimeoutKind]time.Duration)
	if typ, ok := body["type"]; ok {
		name, _ := typ.(string)
		kind, err := session.ParseTimeoutKind(name)
		if err != nil {
			return nil, protocol.BadRequest("%v", err)
		}
		d, err := millis(body["ms"])
		if err != nil {
			return nil, err
		}
		updates[kind] = d
	} else {
		for key, kind := range w3cTimeouts {
			v, ok := body[key]
			if !ok || v == nil {
				continue
			}
			d, err := millis(v)
			if err != nil {
				return nil, err
			}
			updates[kind] = d
		}
	}
	if len(updates) == 0 {
		return nil, protocol.BadRequest("no timeout values given")
	}

	for kind, d := range updates {
		cmd.Session.SetTimeout(kind, d)
	}
	return nil, nil
}

// SetAsyncScriptTimeout sets the async script timeout from {"ms"}.
func (h *Handlers) SetAsyncScriptTimeout(_ context.Context, cmd *Command) (any, error) {
	return nil, h.setOne(cmd, session.TimeoutAsyncScript)
}

// SetImplicitWait sets the implicit wait from {"ms"}.
func (h *Handlers) SetImplicitWait(_ context.Context, cmd *Command) (any, error) {
	return nil, h.setOne(cmd, session.TimeoutImplicit)
}

func (h *Handlers) setOne(cmd *Command, kind session.TimeoutKind) error {
	var req msRequest
	if err := cmd.Bind(&req); err != nil {
		return err
	}
	if req.MS == nil {
		return protocol.BadRequest("missing ms")
	}
	d, err := millis(*req.MS)
	if err != nil {
		return err
	}
	cmd.Session.SetTimeout(kind, d)
	return nil
}

func millis(v any) (time.Duration, error) {
	ms, ok := v.(float64)
	if !ok {
		return 0, protocol.BadRequest("timeout must be a number of milliseconds, got %v", v)
	}
	if ms < 0 || math.IsNaN(ms) || ms > float64(math.MaxInt64/int64(time.Millisecond)) {
		return 0, protocol.BadRequest("timeout %v ms out of range", ms)
	}
	return time.Duration(ms) * time.Millisecond, nil
}
