package http

import (
	"context"
	"encoding/base64"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/AppleDriver/internal/domain/protocol"
)

type executeRequest struct {
	Script string `json:"script"`
	Args   []any  `json:"args"`
}

// Execute runs a caller-provided script. The route decides whether the
// script or async script timeout bounds it.
func (h *Handlers) Execute(ctx context.Context, cmd *Command) (any, error) {
	var req executeRequest
	if err := cmd.Bind(&req); err != nil {
		return nil, err
	}
	if req.Script == "" {
		return nil, protocol.BadRequest("missing script")
	}
	return h.driver.ExecuteScript(ctx, req.Script, req.Args)
}

// Screenshot returns a base64 encoded capture of the screen.
func (h *Handlers) Screenshot(ctx context.Context, cmd *Command) (any, error) {
	shot, err := h.driver.Screenshot(ctx)
	if err != nil {
		return nil, err
	}
	cmd.Logger.Debug("screenshot captured",
		zap.String("mime", shot.MIMEType),
		zap.Int("bytes", len(shot.Data)),
	)
	return base64.StdEncoding.EncodeToString(shot.Data), nil
}

// Source returns the accessibility tree of the target app.
func (h *Handlers) Source(ctx context.Context, cmd *Command) (any, error) {
	return h.driver.Source(ctx, cmd.Session.App)
}
