package osascript

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/AppleDriver/internal/domain/automation"
	"github.com/GriffinCanCode/AppleDriver/internal/infrastructure/logging"
)

// Kind is the backend kind reported in /status.
const Kind = "osascript"

// AppleScript error numbers the backend maps to protocol errors.
const (
	errAppNotRunning   = -600
	errConnectionInval = -609
	errEventTimedOut   = -1712
	errInvalidIndex    = -1719
	errCantGet         = -1728
)

var errorNumber = regexp.MustCompile(`\((-?\d+)\)\s*$`)

// Config configures the local backend.
type Config struct {
	OsascriptPath     string
	ScreencapturePath string
	TempDir           string
	Runner            Runner
	Logger            *logging.Logger
}

// Backend runs AppleScript through osascript and captures the screen with
// screencapture.
type Backend struct {
	osascript     string
	screencapture string
	tempDir       string
	runner        Runner
	logger        *logging.Logger
}

// New creates a local backend. Empty paths fall back to the macOS defaults.
func New(cfg Config) *Backend {
	if cfg.OsascriptPath == "" {
		cfg.OsascriptPath = "/usr/bin/osascript"
	}
	if cfg.ScreencapturePath == "" {
		cfg.ScreencapturePath = "/usr/sbin/screencapture"
	}
	if cfg.Runner == nil {
		cfg.Runner = ExecRunner{}
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNop()
	}
	return &Backend{
		osascript:     cfg.OsascriptPath,
		screencapture: cfg.ScreencapturePath,
		tempDir:       cfg.TempDir,
		runner:        cfg.Runner,
		logger:        cfg.Logger.Named("osascript"),
	}
}

// Kind implements automation.Backend.
func (b *Backend) Kind() string {
	return Kind
}

// Execute implements automation.Executor.
func (b *Backend) Execute(ctx context.Context, command string, args automation.Args) (any, error) {
	app := args.String(automation.ArgApp)
	window := args.String(automation.ArgWindow)

	switch command {
	case automation.CmdProbe:
		out, err := b.run(ctx, probeScript(app))
		if err != nil {
			return nil, err
		}
		if out != "true" {
			return nil, automation.Unreachable(fmt.Errorf("application %q has no process", app))
		}
		return true, nil

	case automation.CmdLocation:
		return b.run(ctx, locationScript(app, window))

	case automation.CmdNavigate:
		script, err := navigateScript(app, window, args.String(automation.ArgURL))
		if err != nil {
			return nil, &automation.ScriptError{Message: err.Error()}
		}
		_, err = b.run(ctx, script)
		return nil, err

	case automation.CmdTitle:
		return b.run(ctx, titleScript(app, window))

	case automation.CmdFrontWindow:
		return b.run(ctx, frontWindowScript(app))

	case automation.CmdWindows:
		out, err := b.run(ctx, windowsScript(app))
		if err != nil {
			return nil, err
		}
		return splitLines(out), nil

	case automation.CmdFocusWindow:
		_, err := b.run(ctx, focusWindowScript(app, window))
		return nil, err

	case automation.CmdCloseWindow:
		_, err := b.run(ctx, closeWindowScript(app, window))
		return nil, err

	case automation.CmdExecute:
		return b.runUser(ctx, args)

	default:
		return nil, &automation.ScriptError{Message: fmt.Sprintf("unsupported command %q", command)}
	}
}

// CaptureScreenshot implements automation.Capturer.
func (b *Backend) CaptureScreenshot(ctx context.Context) ([]byte, error) {
	f, err := os.CreateTemp(b.tempDir, "appledriver-*.png")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", automation.ErrCaptureUnavailable, err)
	}
	path := f.Name()
	f.Close()
	defer os.Remove(path)

	if _, err := b.runner.Run(ctx, b.screencapture, "-x", "-t", "png", path); err != nil {
		switch ctx.Err() {
		case context.DeadlineExceeded:
			return nil, automation.ErrTimeout
		case context.Canceled:
			return nil, context.Canceled
		}
		return nil, fmt.Errorf("%w: %v", automation.ErrCaptureUnavailable, err)
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", automation.ErrCaptureUnavailable, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: nothing captured", automation.ErrCaptureUnavailable)
	}
	return data, nil
}

// DumpUIHierarchy implements automation.Serializer.
func (b *Backend) DumpUIHierarchy(ctx context.Context, app string) (string, error) {
	return b.run(ctx, hierarchyScript(app))
}

// runUser runs a caller script. Arguments are passed as argv so they are
// never spliced into the script text.
func (b *Backend) runUser(ctx context.Context, args automation.Args) (any, error) {
	argv := []string{}
	if lang := args.String(automation.ArgLanguage); lang != "" {
		argv = append(argv, "-l", lang)
	}
	argv = append(argv, "-e", args.String(automation.ArgScript))
	for _, a := range args.List(automation.ArgArgs) {
		argv = append(argv, argString(a))
	}

	out, err := b.runner.Run(ctx, b.osascript, argv...)
	if err != nil {
		return nil, b.classify(ctx, err, true)
	}
	return strings.TrimRight(string(out), "\n"), nil
}

func (b *Backend) run(ctx context.Context, script string) (string, error) {
	out, err := b.runner.Run(ctx, b.osascript, "-e", script)
	if err != nil {
		return "", b.classify(ctx, err, false)
	}
	return strings.TrimRight(string(out), "\n"), nil
}

// classify maps a runner failure onto the automation error set. Reference
// errors in caller scripts stay script errors.
func (b *Backend) classify(ctx context.Context, err error, userScript bool) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return automation.ErrTimeout
	}
	if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
		return context.Canceled
	}
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
		return automation.Unreachable(err)
	}

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		return automation.Unreachable(err)
	}

	msg := strings.TrimSpace(exitErr.Stderr)
	code := parseErrorNumber(msg)
	b.logger.Debug("script failed", zap.Int("code", code), zap.String("stderr", msg))

	switch code {
	case errAppNotRunning, errConnectionInval:
		return automation.Unreachable(errors.New(msg))
	case errEventTimedOut:
		return automation.ErrTimeout
	case errInvalidIndex, errCantGet:
		if userScript {
			return &automation.ScriptError{Message: msg, Code: code}
		}
		return fmt.Errorf("%w: %s", automation.ErrNoSuchWindow, msg)
	default:
		return &automation.ScriptError{Message: msg, Code: code}
	}
}

// parseErrorNumber extracts the trailing "(-1728)" osascript appends to
// execution errors.
func parseErrorNumber(msg string) int {
	m := errorNumber.FindStringSubmatch(msg)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

func splitLines(s string) []string {
	out := []string{}
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

func argString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	default:
		s, err := sonic.MarshalString(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return s
	}
}
