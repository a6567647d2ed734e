package automation

import (
	"context"
)

// Commands understood by every Executor.
const (
	// CmdProbe launches the target app if needed and reports reachability.
	CmdProbe = "probe"
	// CmdLocation returns the current location of the target window.
	CmdLocation = "location"
	// CmdNavigate opens a URL in the target window.
	CmdNavigate = "navigate"
	// CmdTitle returns the title of the target window.
	CmdTitle = "title"
	// CmdWindows lists window names of the target app.
	CmdWindows = "windows"
	// CmdFrontWindow returns the name of the frontmost window.
	CmdFrontWindow = "frontWindow"
	// CmdFocusWindow raises a window by name.
	CmdFocusWindow = "focusWindow"
	// CmdCloseWindow closes a window by name.
	CmdCloseWindow = "closeWindow"
	// CmdExecute runs a caller-provided script.
	CmdExecute = "execute"
)

// Argument keys.
const (
	ArgApp      = "app"
	ArgWindow   = "window"
	ArgURL      = "url"
	ArgScript   = "script"
	ArgArgs     = "args"
	ArgLanguage = "language"
)

// Args are the named arguments of a command.
type Args map[string]any

// String returns a string argument or "".
func (a Args) String(key string) string {
	s, _ := a[key].(string)
	return s
}

// List returns a list argument or nil.
func (a Args) List(key string) []any {
	l, _ := a[key].([]any)
	return l
}

// Executor runs one command against the scripting host. Errors are
// ErrUnreachable, ErrTimeout, ErrNoSuchWindow or *ScriptError, possibly
// wrapped.
type Executor interface {
	Execute(ctx context.Context, command string, args Args) (any, error)
}

// Capturer takes screenshots.
type Capturer interface {
	CaptureScreenshot(ctx context.Context) ([]byte, error)
}

// Serializer dumps the accessibility tree of an app.
type Serializer interface {
	DumpUIHierarchy(ctx context.Context, app string) (string, error)
}

// Backend is a complete automation backend.
type Backend interface {
	Executor
	Capturer
	Serializer
	Kind() string
}
