package automation

import (
	"context"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/gabriel-vasile/mimetype"

	"github.com/GriffinCanCode/AppleDriver/internal/infrastructure/resilience"
)

// Status describes the backend for the /status endpoint.
type Status struct {
	Kind       string `json:"kind"`
	Reachable  bool   `json:"reachable"`
	QueueDepth int    `json:"queueDepth"`
	Breaker    string `json:"breaker"`
}

// Screenshot is a validated capture.
type Screenshot struct {
	Data     []byte
	MIMEType string
}

// Driver exposes typed automation operations. Every operation goes through
// the execution queue.
type Driver struct {
	backend Backend
	queue   *Queue
}

// NewDriver creates a driver over backend and queue.
func NewDriver(backend Backend, queue *Queue) *Driver {
	return &Driver{backend: backend, queue: queue}
}

// Kind returns the backend kind.
func (d *Driver) Kind() string {
	return d.backend.Kind()
}

// Status reports backend health without touching the backend.
func (d *Driver) Status() Status {
	state := d.queue.BreakerState()
	return Status{
		Kind:       d.backend.Kind(),
		Reachable:  state != resilience.StateOpen,
		QueueDepth: d.queue.Depth(),
		Breaker:    state.String(),
	}
}

// Available reports whether the breaker currently admits work.
func (d *Driver) Available() bool {
	return d.queue.BreakerState() != resilience.StateOpen
}

// Probe checks that app can be scripted, launching it if needed.
func (d *Driver) Probe(ctx context.Context, app string) error {
	_, err := d.exec(ctx, CmdProbe, Args{ArgApp: app})
	return err
}

// Location returns the current location of the window: a page URL for
// browsers, a folder URL for Finder, otherwise the window title.
func (d *Driver) Location(ctx context.Context, app, window string) (string, error) {
	v, err := d.exec(ctx, CmdLocation, Args{ArgApp: app, ArgWindow: window})
	if err != nil {
		return "", err
	}
	return asString(v), nil
}

// Navigate opens url in the window.
func (d *Driver) Navigate(ctx context.Context, app, window, url string) error {
	_, err := d.exec(ctx, CmdNavigate, Args{ArgApp: app, ArgWindow: window, ArgURL: url})
	return err
}

// Title returns the window title.
func (d *Driver) Title(ctx context.Context, app, window string) (string, error) {
	v, err := d.exec(ctx, CmdTitle, Args{ArgApp: app, ArgWindow: window})
	if err != nil {
		return "", err
	}
	return asString(v), nil
}

// WindowHandles lists the names of the app's windows.
func (d *Driver) WindowHandles(ctx context.Context, app string) ([]string, error) {
	v, err := d.exec(ctx, CmdWindows, Args{ArgApp: app})
	if err != nil {
		return nil, err
	}
	return asStrings(v), nil
}

// FrontWindow returns the name of the frontmost window.
func (d *Driver) FrontWindow(ctx context.Context, app string) (string, error) {
	v, err := d.exec(ctx, CmdFrontWindow, Args{ArgApp: app})
	if err != nil {
		return "", err
	}
	name := asString(v)
	if name == "" {
		return "", ErrNoSuchWindow
	}
	return name, nil
}

// FocusWindow raises the named window.
func (d *Driver) FocusWindow(ctx context.Context, app, handle string) error {
	_, err := d.exec(ctx, CmdFocusWindow, Args{ArgApp: app, ArgWindow: handle})
	return err
}

// CloseWindow closes the named window.
func (d *Driver) CloseWindow(ctx context.Context, app, handle string) error {
	_, err := d.exec(ctx, CmdCloseWindow, Args{ArgApp: app, ArgWindow: handle})
	return err
}

// ExecuteScript runs a caller-provided script with positional arguments.
func (d *Driver) ExecuteScript(ctx context.Context, script string, args []any) (any, error) {
	if args == nil {
		args = []any{}
	}
	return d.exec(ctx, CmdExecute, Args{ArgScript: script, ArgArgs: args})
}

// Screenshot captures the screen and checks that the result is an image.
func (d *Driver) Screenshot(ctx context.Context) (*Screenshot, error) {
	v, err := d.queue.Do(ctx, "screenshot", func(ctx context.Context) (any, error) {
		return d.backend.CaptureScreenshot(ctx)
	})
	if err != nil {
		return nil, err
	}

	data, _ := v.([]byte)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty capture", ErrCaptureUnavailable)
	}
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return nil, fmt.Errorf("%w: capture is %s, not an image", ErrCaptureUnavailable, mt.String())
	}
	return &Screenshot{Data: data, MIMEType: mt.String()}, nil
}

// Source dumps the app's accessibility tree.
func (d *Driver) Source(ctx context.Context, app string) (string, error) {
	v, err := d.queue.Do(ctx, "source", func(ctx context.Context) (any, error) {
		return d.backend.DumpUIHierarchy(ctx, app)
	})
	if err != nil {
		return "", err
	}
	return asString(v), nil
}

// Release frees per-session backend resources. The window is closed only
// when closeWindow is set and a window is active.
func (d *Driver) Release(ctx context.Context, app, window string, closeWindow bool) error {
	if !closeWindow || window == "" {
		return nil
	}
	return d.CloseWindow(ctx, app, window)
}

func (d *Driver) exec(ctx context.Context, command string, args Args) (any, error) {
	return d.queue.Do(ctx, command, func(ctx context.Context) (any, error) {
		return d.backend.Execute(ctx, command, args)
	})
}

func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	default:
		s, err := sonic.MarshalString(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return s
	}
}

func asStrings(v any) []string {
	switch t := v.(type) {
	case []string:
		if t == nil {
			return []string{}
		}
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			out = append(out, asString(item))
		}
		return out
	case string:
		if t == "" {
			return []string{}
		}
		return []string{t}
	default:
		return []string{}
	}
}
