package server

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/AppleDriver/internal/api/http"
	"github.com/GriffinCanCode/AppleDriver/internal/api/middleware"
	"github.com/GriffinCanCode/AppleDriver/internal/domain/automation"
	"github.com/GriffinCanCode/AppleDriver/internal/domain/automation/osascript"
	"github.com/GriffinCanCode/AppleDriver/internal/domain/automation/remote"
	"github.com/GriffinCanCode/AppleDriver/internal/domain/session"
	"github.com/GriffinCanCode/AppleDriver/internal/infrastructure/config"
	"github.com/GriffinCanCode/AppleDriver/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AppleDriver/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AppleDriver/internal/infrastructure/tracing"
)

// Version is stamped at build time with -ldflags "-X ...server.Version=...".
var Version = "dev"

// Server wraps the HTTP server and dependencies
type Server struct {
	http    *nethttp.Server
	router  *gin.Engine
	store   *session.Store
	queue   *automation.Queue
	driver  *automation.Driver
	tracer  *tracing.Tracer
	logger  *logging.Logger
	config  *config.Config
	metrics *monitoring.Metrics
}

// Option customizes server construction.
type Option func(*options)

type options struct {
	backend automation.Backend
	logger  *logging.Logger
}

// WithBackend replaces the configured automation backend.
func WithBackend(b automation.Backend) Option {
	return func(o *options) { o.backend = b }
}

// WithLogger replaces the logger built from configuration.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, opts ...Option) (*Server, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.logger
	if logger == nil {
		var err error
		logger, err = logging.New(logging.Config{
			Level:       cfg.Logging.Level,
			Development: cfg.Logging.Development,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
	}

	logger.Info("Initializing AppleDriver",
		zap.String("addr", cfg.Addr()),
		zap.String("base_path", cfg.Server.BasePath),
		zap.String("backend", cfg.Backend.Kind),
		zap.String("version", Version),
	)

	metrics := monitoring.NewMetrics()
	tracer := tracing.New("appledriver", logger.Logger)

	backend := o.backend
	if backend == nil {
		var err error
		backend, err = newBackend(cfg.Backend, logger)
		if err != nil {
			tracer.Close()
			return nil, err
		}
	}
	logger.Info("Automation backend ready", zap.String("kind", backend.Kind()))

	queue := automation.NewQueue(automation.QueueConfig{
		Size:            cfg.Backend.QueueSize,
		BreakerFailures: cfg.Backend.BreakerFailures,
		BreakerCooldown: cfg.Backend.BreakerCooldown,
		Logger:          logger,
		Metrics:         metrics,
	})
	driver := automation.NewDriver(backend, queue)
	store := session.NewStore(cfg.Session.MaxSessions)

	handlers := http.NewHandlers(store, driver, http.Options{
		Version:    Version,
		DefaultApp: cfg.Session.DefaultApp,
		Timeouts: session.Timeouts{
			Script:      cfg.Session.ScriptTimeout,
			AsyncScript: cfg.Session.AsyncScriptTimeout,
			Implicit:    cfg.Session.ImplicitWait,
			PageLoad:    cfg.Session.PageLoadTimeout,
		},
		ProbeTimeout: cfg.Backend.ProbeTimeout,
	}, logger, metrics)

	table, err := http.NewTable(cfg.Server.BasePath)
	if err != nil {
		queue.Close()
		tracer.Close()
		return nil, fmt.Errorf("failed to build route table: %w", err)
	}
	dispatcher, err := http.NewDispatcher(http.DispatcherConfig{
		Table:          table,
		Handlers:       handlers.Bindings(),
		Store:          store,
		CommandTimeout: cfg.Backend.CommandTimeout,
		Logger:         logger,
		Metrics:        metrics,
	})
	if err != nil {
		queue.Close()
		tracer.Close()
		return nil, err
	}

	// Create router
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.RedirectTrailingSlash = false

	router.Use(gin.Recovery())
	router.Use(tracing.HTTPMiddleware(tracer))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		limit := middleware.DefaultRateLimitConfig()
		limit.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		limit.Burst = cfg.RateLimit.Burst
		router.Use(middleware.RateLimit(limit))
	}

	if cfg.Metrics.Enabled {
		router.GET(cfg.Metrics.Path, gin.WrapH(metrics.Handler()))
	}

	// Every protocol command goes through the dispatcher's own table.
	router.NoRoute(dispatcher.Handle)

	handler, err := middleware.Compress(middleware.CompressConfig{MinSize: cfg.Server.CompressMinSize}, router)
	if err != nil {
		queue.Close()
		tracer.Close()
		return nil, fmt.Errorf("failed to create compression wrapper: %w", err)
	}

	logger.Info("Server initialized successfully", zap.Int("routes", len(table.Routes())))

	return &Server{
		http: &nethttp.Server{
			Addr:              cfg.Addr(),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		router:  router,
		store:   store,
		queue:   queue,
		driver:  driver,
		tracer:  tracer,
		logger:  logger,
		config:  cfg,
		metrics: metrics,
	}, nil
}

func newBackend(cfg config.BackendConfig, logger *logging.Logger) (automation.Backend, error) {
	switch cfg.Kind {
	case config.BackendRemote:
		client, err := remote.New(remote.Config{
			BaseURL: cfg.RemoteURL,
			Retries: cfg.RemoteRetries,
			Timeout: cfg.CommandTimeout,
			Logger:  logger,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create remote backend: %w", err)
		}
		return client, nil
	case config.BackendOsascript, "":
		return osascript.New(osascript.Config{
			OsascriptPath:     cfg.OsascriptPath,
			ScreencapturePath: cfg.ScreencapturePath,
			Logger:            logger,
		}), nil
	default:
		return nil, fmt.Errorf("unknown backend kind %q", cfg.Kind)
	}
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() nethttp.Handler {
	return s.http.Handler
}

// Run starts the HTTP server and blocks until it stops. It returns nil
// after Shutdown.
func (s *Server) Run() error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests, waits for in-flight commands, then
// releases the remaining sessions and stops the backend queue.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")

	var errs []error
	if err := s.http.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP shutdown incomplete", zap.Error(err))
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}

	dropped := s.store.Clear()
	for _, sess := range dropped {
		s.logger.Info("Dropping open session",
			zap.String("session_id", sess.ID),
			zap.String("app", sess.App),
			zap.Duration("idle", time.Since(sess.LastActive())),
		)
		if err := s.driver.Release(ctx, sess.App, sess.ActiveWindow(), sess.CloseWindowOnQuit()); err != nil {
			s.logger.Warn("Failed to release session",
				zap.String("session_id", sess.ID),
				zap.Error(err),
			)
		}
	}
	if len(dropped) > 0 {
		s.metrics.SetSessionsActive(0)
		s.logger.Info("Dropped open sessions", zap.Int("count", len(dropped)))
	}

	s.queue.Close()
	s.tracer.Close()
	_ = s.logger.Sync()

	return errors.Join(errs...)
}
