package http

import (
	"time"

	"github.com/GriffinCanCode/AppleDriver/internal/domain/automation"
	"github.com/GriffinCanCode/AppleDriver/internal/domain/session"
	"github.com/GriffinCanCode/AppleDriver/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AppleDriver/internal/infrastructure/monitoring"
)

// Options are the server defaults handlers apply.
type Options struct {
	Version      string
	DefaultApp   string
	Timeouts     session.Timeouts
	ProbeTimeout time.Duration
}

// Handlers contains all protocol command handlers
type Handlers struct {
	store   *session.Store
	driver  *automation.Driver
	opts    Options
	logger  *logging.Logger
	metrics *monitoring.Metrics
	started time.Time
}

// NewHandlers creates a new handler set
func NewHandlers(store *session.Store, driver *automation.Driver, opts Options, logger *logging.Logger, metrics *monitoring.Metrics) *Handlers {
	if opts.DefaultApp == "" {
		opts.DefaultApp = "Finder"
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Handlers{
		store:   store,
		driver:  driver,
		opts:    opts,
		logger:  logger,
		metrics: metrics,
		started: time.Now(),
	}
}

// Bindings maps route names to handlers. Routes missing here are
// unimplemented.
func (h *Handlers) Bindings() map[string]HandlerFunc {
	return map[string]HandlerFunc{
		"getStatus":   h.Status,
		"postSession": h.CreateSession,
		"getSessions": h.ListSessions,

		"getSession":    h.GetSession,
		"deleteSession": h.DeleteSession,

		"getTimeouts":            h.GetTimeouts,
		"postTimeouts":           h.SetTimeouts,
		"postAsyncScriptTimeout": h.SetAsyncScriptTimeout,
		"postImplicitWait":       h.SetImplicitWait,

		"getUrl":   h.GetURL,
		"postUrl":  h.Navigate,
		"getTitle": h.GetTitle,

		"postExecute":      h.Execute,
		"postExecuteAsync": h.Execute,

		"getScreenshot": h.Screenshot,
		"getSource":     h.Source,

		"getWindow":        h.GetWindow,
		"postWindow":       h.SwitchWindow,
		"deleteWindow":     h.CloseWindow,
		"getWindowHandle":  h.GetWindow,
		"getWindowHandles": h.GetWindowHandles,
	}
}

func (h *Handlers) recordSessions() {
	if h.metrics != nil {
		h.metrics.SetSessionsActive(h.store.Len())
	}
}
