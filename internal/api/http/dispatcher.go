package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/AppleDriver/internal/api/router"
	"github.com/GriffinCanCode/AppleDriver/internal/domain/protocol"
	"github.com/GriffinCanCode/AppleDriver/internal/domain/session"
	"github.com/GriffinCanCode/AppleDriver/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AppleDriver/internal/infrastructure/monitoring"
)

// maxBodySize bounds request bodies. Scripts are the largest payloads.
const maxBodySize = 8 << 20

// Command is one resolved request as seen by a handler.
type Command struct {
	Route   *router.Route
	Params  router.Params
	Session *session.Session
	Body    []byte
	Logger  *logging.Logger

	// SessionID is echoed in the response envelope. The dispatcher sets it
	// for session-scoped routes; POST /session sets it to the new id.
	SessionID string
}

// Bind decodes the JSON body into v. An empty body decodes as {}.
func (c *Command) Bind(v any) error {
	if len(c.Body) == 0 {
		return nil
	}
	if err := protocol.Decode(c.Body, v); err != nil {
		return protocol.BadRequest("invalid JSON body for %s: %v", c.Route.Name, err)
	}
	return nil
}

// HandlerFunc runs a command and returns the envelope value.
type HandlerFunc func(ctx context.Context, cmd *Command) (any, error)

// DispatcherConfig configures a Dispatcher.
type DispatcherConfig struct {
	Table    *router.Table
	Handlers map[string]HandlerFunc
	Store    *session.Store
	// CommandTimeout bounds session-less commands and any command whose
	// session timeout is unset.
	CommandTimeout time.Duration
	Logger         *logging.Logger
	Metrics        *monitoring.Metrics
}

// Dispatcher resolves requests against the route table, looks up the
// session, applies the command deadline and writes the envelope.
type Dispatcher struct {
	table          *router.Table
	handlers       map[string]HandlerFunc
	store          *session.Store
	commandTimeout time.Duration
	logger         *logging.Logger
	metrics        *monitoring.Metrics
}

// NewDispatcher checks that every handler is bound to a declared route.
func NewDispatcher(cfg DispatcherConfig) (*Dispatcher, error) {
	for name := range cfg.Handlers {
		if _, ok := cfg.Table.Lookup(name); !ok {
			return nil, fmt.Errorf("handler %q has no route", name)
		}
	}
	if cfg.CommandTimeout <= 0 {
		cfg.CommandTimeout = 60 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNop()
	}
	return &Dispatcher{
		table:          cfg.Table,
		handlers:       cfg.Handlers,
		store:          cfg.Store,
		commandTimeout: cfg.CommandTimeout,
		logger:         cfg.Logger.Named("dispatch"),
		metrics:        cfg.Metrics,
	}, nil
}

// Handle serves every protocol request. It is installed as the engine's
// NoRoute handler so that matching follows the table, not gin's tree.
func (d *Dispatcher) Handle(c *gin.Context) {
	m := d.table.Match(c.Request.Method, c.Request.URL.Path)
	switch m.Outcome {
	case router.NotFound:
		writeEmpty(c, http.StatusNotFound)
		return
	case router.MethodNotAllowed:
		for _, method := range m.Allow {
			c.Writer.Header().Add("Allow", method)
		}
		writeEmpty(c, http.StatusMethodNotAllowed)
		return
	}

	route := m.Route
	c.Set(monitoring.RouteKey, route.Name)
	sid := m.Params.Get(router.SessionParam)
	logger := d.logger.ForCommand(route.Name, sid)

	handler, bound := d.handlers[route.Name]
	if !bound {
		d.fail(c, route, sid, protocol.UnknownCommand(route.Method, route.Pattern), logger)
		return
	}

	cmd := &Command{Route: route, Params: m.Params, Logger: logger}

	if route.Session() {
		sess, err := d.store.Get(sid)
		if err != nil {
			d.fail(c, route, sid, protocol.SessionNotFound(sid), logger)
			return
		}
		sess.Touch()
		cmd.Session = sess
		cmd.SessionID = sess.ID
	}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodySize))
	if err != nil {
		d.fail(c, route, sid, protocol.BadRequest("read request body: %v", err), logger)
		return
	}
	cmd.Body = body

	ctx, cancel := context.WithTimeout(c.Request.Context(), d.deadline(route, cmd.Session))
	defer cancel()

	value, err := handler(ctx, cmd)
	if err != nil {
		perr := classify(err)
		logger.Debug("command failed",
			zap.String("status", perr.Status.String()),
			zap.Error(err),
		)
		d.fail(c, route, cmd.SessionID, perr, logger)
		return
	}

	d.write(c, route, http.StatusOK, protocol.Success(cmd.SessionID, value), logger)
}

// deadline returns the timeout bounding a command.
func (d *Dispatcher) deadline(route *router.Route, sess *session.Session) time.Duration {
	if sess == nil {
		return d.commandTimeout
	}

	var timeout time.Duration
	switch route.Deadline {
	case router.DeadlineScript:
		timeout = sess.Timeout(session.TimeoutScript)
	case router.DeadlineAsyncScript:
		timeout = sess.Timeout(session.TimeoutAsyncScript)
	case router.DeadlinePageLoad:
		timeout = sess.Timeout(session.TimeoutPageLoad)
	}
	if timeout <= 0 {
		return d.commandTimeout
	}
	return timeout
}

func (d *Dispatcher) fail(c *gin.Context, route *router.Route, sid string, perr *protocol.Error, logger *logging.Logger) {
	d.write(c, route, perr.HTTPStatus, protocol.Failure(sid, perr), logger)
}

func (d *Dispatcher) write(c *gin.Context, route *router.Route, status int, env protocol.Envelope, logger *logging.Logger) {
	data, err := protocol.Encode(env)
	if err != nil {
		logger.Error("failed to encode response", zap.Error(err))
		writeEmpty(c, http.StatusInternalServerError)
		return
	}

	if d.metrics != nil {
		d.metrics.RecordCommand(route.Name, int(env.Status))
	}
	c.Data(status, protocol.ContentType, data)
}

// writeEmpty sends a bodyless transport-level response. Writing the header
// explicitly keeps gin from appending its default 404 text.
func writeEmpty(c *gin.Context, status int) {
	c.Status(status)
	c.Writer.WriteHeaderNow()
}
