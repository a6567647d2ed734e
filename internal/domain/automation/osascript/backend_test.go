package osascript

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/AppleDriver/internal/domain/automation"
)

type mockRunner struct {
	mock.Mock
}

func (m *mockRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	called := m.Called(ctx, name, args)
	out, _ := called.Get(0).([]byte)
	return out, called.Error(1)
}

func newTestBackend(t *testing.T) (*Backend, *mockRunner) {
	t.Helper()
	runner := new(mockRunner)
	return New(Config{Runner: runner, TempDir: t.TempDir()}), runner
}

func scriptContaining(fragment string) any {
	return mock.MatchedBy(func(args []string) bool {
		return len(args) == 2 && args[0] == "-e" && strings.Contains(args[1], fragment)
	})
}

func TestExecuteLocationFinder(t *testing.T) {
	b, runner := newTestBackend(t)
	runner.On("Run", mock.Anything, "/usr/bin/osascript", scriptContaining("URL of target of front Finder window")).
		Return([]byte("file:///Users/dev/\n"), nil)

	v, err := b.Execute(context.Background(), automation.CmdLocation, automation.Args{automation.ArgApp: "Finder"})
	require.NoError(t, err)
	assert.Equal(t, "file:///Users/dev/", v)
	runner.AssertExpectations(t)
}

func TestExecuteLocationBrowsers(t *testing.T) {
	tests := []struct {
		app      string
		fragment string
	}{
		{"Safari", "URL of current tab of front window"},
		{"Google Chrome", "URL of active tab of front window"},
		{"TextEdit", `tell process "TextEdit"`},
	}

	for _, tt := range tests {
		t.Run(tt.app, func(t *testing.T) {
			b, runner := newTestBackend(t)
			runner.On("Run", mock.Anything, mock.Anything, scriptContaining(tt.fragment)).
				Return([]byte("x\n"), nil)

			_, err := b.Execute(context.Background(), automation.CmdLocation, automation.Args{automation.ArgApp: tt.app})
			require.NoError(t, err)
			runner.AssertExpectations(t)
		})
	}
}

func TestExecuteNamedWindowIsQuoted(t *testing.T) {
	b, runner := newTestBackend(t)
	runner.On("Run", mock.Anything, mock.Anything, scriptContaining(`window "Say \"hi\""`)).
		Return([]byte("Say \"hi\"\n"), nil)

	_, err := b.Execute(context.Background(), automation.CmdTitle, automation.Args{
		automation.ArgApp:    "TextEdit",
		automation.ArgWindow: `Say "hi"`,
	})
	require.NoError(t, err)
	runner.AssertExpectations(t)
}

func TestExecuteWindows(t *testing.T) {
	b, runner := newTestBackend(t)
	runner.On("Run", mock.Anything, mock.Anything, scriptContaining("name of every window")).
		Return([]byte("Downloads\nDocuments\n\n"), nil)

	v, err := b.Execute(context.Background(), automation.CmdWindows, automation.Args{automation.ArgApp: "Finder"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Downloads", "Documents"}, v)
}

func TestExecuteProbe(t *testing.T) {
	b, runner := newTestBackend(t)
	runner.On("Run", mock.Anything, mock.Anything, scriptContaining(`tell application "Finder" to launch`)).
		Return([]byte("true\n"), nil).Once()
	runner.On("Run", mock.Anything, mock.Anything, scriptContaining(`tell application "Ghost" to launch`)).
		Return([]byte("false\n"), nil).Once()

	_, err := b.Execute(context.Background(), automation.CmdProbe, automation.Args{automation.ArgApp: "Finder"})
	assert.NoError(t, err)

	_, err = b.Execute(context.Background(), automation.CmdProbe, automation.Args{automation.ArgApp: "Ghost"})
	assert.ErrorIs(t, err, automation.ErrUnreachable)
}

func TestExecuteNavigate(t *testing.T) {
	b, runner := newTestBackend(t)
	runner.On("Run", mock.Anything, mock.Anything, scriptContaining(`POSIX file "/Users/dev/Downloads"`)).
		Return([]byte(""), nil)

	_, err := b.Execute(context.Background(), automation.CmdNavigate, automation.Args{
		automation.ArgApp: "Finder",
		automation.ArgURL: "file:///Users/dev/Downloads",
	})
	require.NoError(t, err)

	_, err = b.Execute(context.Background(), automation.CmdNavigate, automation.Args{
		automation.ArgApp: "Finder",
		automation.ArgURL: "not a url",
	})
	var scriptErr *automation.ScriptError
	assert.ErrorAs(t, err, &scriptErr)
}

func TestExecuteUserScriptPassesArgv(t *testing.T) {
	b, runner := newTestBackend(t)
	runner.On("Run", mock.Anything, "/usr/bin/osascript",
		[]string{"-l", "JavaScript", "-e", "function run(argv) { return argv.join(',') }", "a", "2", `{"k":true}`}).
		Return([]byte("a,2,{\"k\":true}\n"), nil)

	v, err := b.Execute(context.Background(), automation.CmdExecute, automation.Args{
		automation.ArgScript:   "function run(argv) { return argv.join(',') }",
		automation.ArgLanguage: "JavaScript",
		automation.ArgArgs:     []any{"a", 2, map[string]any{"k": true}},
	})
	require.NoError(t, err)
	assert.Equal(t, `a,2,{"k":true}`, v)
}

func TestClassifyErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		user   bool
		target error
		script bool
	}{
		{"app not running", &ExitError{Code: 1, Stderr: "execution error: Application isn’t running. (-600)\n"}, false, automation.ErrUnreachable, false},
		{"event timed out", &ExitError{Code: 1, Stderr: "execution error: AppleEvent timed out. (-1712)"}, false, automation.ErrTimeout, false},
		{"missing window", &ExitError{Code: 1, Stderr: "execution error: window not found (-1728)"}, false, automation.ErrNoSuchWindow, false},
		{"missing reference in user script", &ExitError{Code: 1, Stderr: "execution error: Can’t get item 9. (-1728)"}, true, nil, true},
		{"syntax error", &ExitError{Code: 1, Stderr: "syntax error: Expected end of line. (-2741)"}, false, nil, true},
		{"binary missing", &fs.PathError{Op: "fork/exec", Path: "/usr/bin/osascript", Err: fs.ErrNotExist}, false, automation.ErrUnreachable, false},
		{"deadline", context.DeadlineExceeded, false, automation.ErrTimeout, false},
		{"canceled", context.Canceled, false, context.Canceled, false},
	}

	b, _ := newTestBackend(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := b.classify(context.Background(), tt.err, tt.user)
			if tt.script {
				var scriptErr *automation.ScriptError
				require.ErrorAs(t, err, &scriptErr)
				assert.NotEmpty(t, scriptErr.Message)
				return
			}
			assert.ErrorIs(t, err, tt.target)
		})
	}
}

func TestExecuteCanceledIsNotUnreachable(t *testing.T) {
	b, runner := newTestBackend(t)
	runner.On("Run", mock.Anything, "/usr/bin/osascript", mock.Anything).
		Return(nil, &ExitError{Code: -1, Stderr: "signal: killed"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := b.Execute(ctx, automation.CmdTitle, automation.Args{automation.ArgApp: "Finder"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, automation.ErrUnreachable)
}

func TestParseErrorNumber(t *testing.T) {
	assert.Equal(t, -1728, parseErrorNumber("execution error: x (-1728)"))
	assert.Equal(t, 0, parseErrorNumber("no number here"))
}

func TestCaptureScreenshot(t *testing.T) {
	b, runner := newTestBackend(t)
	png := []byte("\x89PNG\r\n\x1a\n0000")

	runner.On("Run", mock.Anything, "/usr/sbin/screencapture", mock.MatchedBy(func(args []string) bool {
		return len(args) == 4 && args[0] == "-x"
	})).Run(func(args mock.Arguments) {
		argv := args.Get(2).([]string)
		require.NoError(t, os.WriteFile(argv[3], png, 0o600))
	}).Return([]byte(nil), nil)

	data, err := b.CaptureScreenshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, png, data)
}

func TestCaptureScreenshotFailure(t *testing.T) {
	b, runner := newTestBackend(t)
	runner.On("Run", mock.Anything, "/usr/sbin/screencapture", mock.Anything).
		Return([]byte(nil), errors.New("could not create image from display"))

	_, err := b.CaptureScreenshot(context.Background())
	assert.ErrorIs(t, err, automation.ErrCaptureUnavailable)
}

func TestCaptureScreenshotEmpty(t *testing.T) {
	b, runner := newTestBackend(t)
	runner.On("Run", mock.Anything, "/usr/sbin/screencapture", mock.Anything).
		Return([]byte(nil), nil)

	_, err := b.CaptureScreenshot(context.Background())
	assert.ErrorIs(t, err, automation.ErrCaptureUnavailable)
}

func TestDumpUIHierarchy(t *testing.T) {
	b, runner := newTestBackend(t)
	runner.On("Run", mock.Anything, mock.Anything, scriptContaining("entire contents")).
		Return([]byte("AXWindow \"Downloads\"\n  AXButton \"Close\"\n"), nil)

	out, err := b.DumpUIHierarchy(context.Background(), "Finder")
	require.NoError(t, err)
	assert.Contains(t, out, `AXButton "Close"`)
}

func TestKind(t *testing.T) {
	b, _ := newTestBackend(t)
	assert.Equal(t, "osascript", b.Kind())
}
