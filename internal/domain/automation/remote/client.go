package remote

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/GriffinCanCode/AppleDriver/internal/domain/automation"
	"github.com/GriffinCanCode/AppleDriver/internal/infrastructure/logging"
)

// Kind is the backend kind reported in /status.
const Kind = "remote"

// Error kinds sent by the automation host.
const (
	KindUnreachable  = "unreachable"
	KindTimeout      = "timeout"
	KindNoSuchWindow = "no_such_window"
	KindScript       = "script"
)

// Config configures the remote backend.
type Config struct {
	BaseURL string
	Retries int
	Timeout time.Duration
	Logger  *logging.Logger
}

// ExecuteRequest is the body of POST /execute.
type ExecuteRequest struct {
	Command string          `json:"command"`
	Args    automation.Args `json:"args"`
}

// ExecuteResponse is the body the host answers POST /execute with.
type ExecuteResponse struct {
	Value any          `json:"value"`
	Error *RemoteError `json:"error,omitempty"`
}

// RemoteError is a failure reported by the host.
type RemoteError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Code    int    `json:"code,omitempty"`
}

// Client forwards automation commands to a remote host over HTTP.
type Client struct {
	resty *resty.Client
}

// New creates a remote backend client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("remote backend requires a base URL")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNop()
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = cfg.Retries
	retryClient.RetryWaitMin = 100 * time.Millisecond
	retryClient.RetryWaitMax = 2 * time.Second
	retryClient.CheckRetry = checkRetry
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.Logger = leveledLogger{cfg.Logger.Named("remote").Sugar()}

	client := resty.NewWithClient(retryClient.StandardClient()).
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("User-Agent", "AppleDriver/1.0").
		SetJSONMarshaler(sonic.Marshal).
		SetJSONUnmarshaler(sonic.Unmarshal)

	return &Client{resty: client}, nil
}

// Kind implements automation.Backend.
func (c *Client) Kind() string {
	return Kind
}

// Execute implements automation.Executor.
func (c *Client) Execute(ctx context.Context, command string, args automation.Args) (any, error) {
	var out ExecuteResponse
	resp, err := c.resty.R().
		SetContext(ctx).
		SetBody(ExecuteRequest{Command: command, Args: args}).
		SetResult(&out).
		SetError(&out).
		Post("/execute")
	if err != nil {
		return nil, transportError(ctx, err)
	}

	if out.Error != nil {
		return nil, out.Error.toError()
	}
	if resp.IsError() {
		return nil, statusError(resp)
	}
	return out.Value, nil
}

// CaptureScreenshot implements automation.Capturer.
func (c *Client) CaptureScreenshot(ctx context.Context) ([]byte, error) {
	resp, err := c.resty.R().
		SetContext(ctx).
		SetHeader("Accept", "image/png").
		Get("/screenshot")
	if err != nil {
		err = transportError(ctx, err)
		if errors.Is(err, automation.ErrTimeout) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", automation.ErrCaptureUnavailable, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: host answered %s", automation.ErrCaptureUnavailable, resp.Status())
	}
	return resp.Body(), nil
}

// DumpUIHierarchy implements automation.Serializer.
func (c *Client) DumpUIHierarchy(ctx context.Context, app string) (string, error) {
	resp, err := c.resty.R().
		SetContext(ctx).
		SetQueryParam("app", app).
		Get("/hierarchy")
	if err != nil {
		return "", transportError(ctx, err)
	}
	if resp.IsError() {
		return "", statusError(resp)
	}
	return string(resp.Body()), nil
}

func (e *RemoteError) toError() error {
	switch e.Kind {
	case KindUnreachable:
		return automation.Unreachable(errors.New(e.Message))
	case KindTimeout:
		return automation.ErrTimeout
	case KindNoSuchWindow:
		return fmt.Errorf("%w: %s", automation.ErrNoSuchWindow, e.Message)
	default:
		return &automation.ScriptError{Message: e.Message, Code: e.Code}
	}
}

func statusError(resp *resty.Response) error {
	body := strings.TrimSpace(resp.String())
	if resp.StatusCode() >= http.StatusInternalServerError {
		return automation.Unreachable(fmt.Errorf("host answered %s: %s", resp.Status(), body))
	}
	return &automation.ScriptError{Message: fmt.Sprintf("host answered %s: %s", resp.Status(), body)}
}

func transportError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return automation.ErrTimeout
	}
	if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
		return context.Canceled
	}
	return automation.Unreachable(err)
}

// checkRetry retries dial failures for every method, since the request
// never reached the host, and gateway errors only for idempotent GETs.
func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err != nil {
		var opErr *net.OpError
		return errors.As(err, &opErr) && opErr.Op == "dial", nil
	}
	if resp.Request != nil && resp.Request.Method == http.MethodGet {
		switch resp.StatusCode {
		case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return true, nil
		}
	}
	return false, nil
}
