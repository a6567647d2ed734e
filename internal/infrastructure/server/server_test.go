package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/GriffinCanCode/AppleDriver/internal/domain/automation"
	"github.com/GriffinCanCode/AppleDriver/internal/infrastructure/config"
	"github.com/GriffinCanCode/AppleDriver/internal/infrastructure/logging"
	apptest "github.com/GriffinCanCode/AppleDriver/internal/testutil"
)

type envelope struct {
	SessionID *string         `json:"sessionId"`
	Status    int             `json:"status"`
	Value     json.RawMessage `json:"value"`
}

func newTestServer(t *testing.T, backend *apptest.StubBackend) *Server {
	t.Helper()
	cfg := config.Default()
	cfg.RateLimit.Enabled = false

	s, err := NewServer(cfg, WithBackend(backend), WithLogger(logging.NewNop()))
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Shutdown(ctx)
	})
	return s
}

func serve(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 && strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func TestServerServesProtocol(t *testing.T) {
	s := newTestServer(t, apptest.FinderBackend())

	w, env := serve(t, s.Handler(), "GET", "/wd/hub/status", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, env.Status)
	assert.Nil(t, env.SessionID)
	assert.NotEmpty(t, w.Header().Get("X-Trace-ID"))

	w, _ = serve(t, s.Handler(), "GET", "/wd/hub/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, w.Body.String())

	w, env = serve(t, s.Handler(), "POST", "/wd/hub/session", `{"desiredCapabilities":{}}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, env.SessionID)

	w, env = serve(t, s.Handler(), "GET", "/wd/hub/session/"+*env.SessionID+"/title", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `"Downloads"`, string(env.Value))
}

func TestServerExposesMetrics(t *testing.T) {
	s := newTestServer(t, apptest.FinderBackend())

	serve(t, s.Handler(), "GET", "/wd/hub/status", "")

	w, _ := serve(t, s.Handler(), "GET", "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "appledriver_commands_total")
	assert.Contains(t, w.Body.String(), `command="getStatus"`)
}

func TestShutdownReleasesSessions(t *testing.T) {
	backend := apptest.FinderBackend()
	s := newTestServer(t, backend)

	_, keep := serve(t, s.Handler(), "POST", "/wd/hub/session", `{"desiredCapabilities":{"closeWindowOnQuit":true}}`)
	require.NotNil(t, keep.SessionID)
	w, _ := serve(t, s.Handler(), "POST", "/wd/hub/session/"+*keep.SessionID+"/window", `{"name":"Downloads"}`)
	require.Equal(t, http.StatusOK, w.Code)

	_, other := serve(t, s.Handler(), "POST", "/wd/hub/session", `{}`)
	require.NotNil(t, other.SessionID)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))

	assert.Equal(t, 0, s.store.Len())
	calls := backend.CallsTo(automation.CmdCloseWindow)
	require.Len(t, calls, 1)
	assert.Equal(t, "Downloads", calls[0].Args.String(automation.ArgWindow))
}

func TestShutdownLogsIdleSessions(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	cfg := config.Default()
	cfg.RateLimit.Enabled = false

	s, err := NewServer(cfg, WithBackend(apptest.FinderBackend()), WithLogger(&logging.Logger{Logger: zap.New(core)}))
	require.NoError(t, err)

	_, env := serve(t, s.Handler(), "POST", "/wd/hub/session", `{}`)
	require.NotNil(t, env.SessionID)
	time.Sleep(20 * time.Millisecond)

	require.NoError(t, s.Shutdown(context.Background()))

	dropped := logs.FilterMessage("Dropping open session").All()
	require.Len(t, dropped, 1)
	fields := dropped[0].ContextMap()
	assert.Equal(t, *env.SessionID, fields["session_id"])
	assert.Equal(t, "Finder", fields["app"])
	idle, ok := fields["idle"].(time.Duration)
	require.True(t, ok)
	assert.GreaterOrEqual(t, idle, 20*time.Millisecond)
}

func TestNewServerBackendSelection(t *testing.T) {
	t.Run("unknown kind", func(t *testing.T) {
		cfg := config.Default()
		cfg.Backend.Kind = "telepathy"
		_, err := NewServer(cfg, WithLogger(logging.NewNop()))
		assert.ErrorContains(t, err, "unknown backend kind")
	})

	t.Run("remote without url", func(t *testing.T) {
		cfg := config.Default()
		cfg.Backend.Kind = config.BackendRemote
		_, err := NewServer(cfg, WithLogger(logging.NewNop()))
		assert.Error(t, err)
	})

	t.Run("remote", func(t *testing.T) {
		cfg := config.Default()
		cfg.Backend.Kind = config.BackendRemote
		cfg.Backend.RemoteURL = "http://127.0.0.1:1"
		s, err := NewServer(cfg, WithLogger(logging.NewNop()))
		require.NoError(t, err)
		assert.Equal(t, "remote", s.driver.Kind())
		require.NoError(t, s.Shutdown(context.Background()))
	})
}
