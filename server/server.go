// Package server is the local bridge that browser userscripts and
// bookmarklets talk to.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/existflow/quickadd/internal/config"
	"github.com/existflow/quickadd/internal/db"
	"github.com/existflow/quickadd/internal/logger"
	"github.com/existflow/quickadd/internal/model"
	"github.com/existflow/quickadd/internal/vikunja"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// Remote is the task service as seen by the bridge
type Remote interface {
	CreateTask(ctx context.Context, projectID int64, fields vikunja.TaskFields) (*model.Task, error)
	ListProjects(ctx context.Context) (*vikunja.ProjectList, error)
	TestConnection(ctx context.Context) (*model.User, error)
	ListLabels(ctx context.Context) ([]model.Label, error)
	CreateLabel(ctx context.Context, title, color string) (*model.Label, error)
	AttachLabel(ctx context.Context, taskID, labelID int64) error
}

// RemoteFactory creates a Remote for one request
type RemoteFactory func(serverURL, token string, timeout time.Duration) (Remote, error)

// Server is the bridge server
type Server struct {
	db        *db.DB
	cfg       atomic.Pointer[config.Config]
	echo      *echo.Echo
	metrics   *metrics
	newRemote RemoteFactory

	rateLimit rate.Limit
	burst     int

	refresher   *refresher
	unsubscribe func()
}

// Option configures a Server
type Option func(*Server)

// WithRemoteFactory replaces the remote client constructor
func WithRemoteFactory(f RemoteFactory) Option {
	return func(s *Server) { s.newRemote = f }
}

// WithRateLimit sets the per-client request rate of the API routes
func WithRateLimit(r rate.Limit, burst int) Option {
	return func(s *Server) {
		s.rateLimit = r
		s.burst = burst
	}
}

// WithRefreshInterval sets how often project metadata is refreshed while
// running. Zero refreshes only on start and after settings changes.
func WithRefreshInterval(d time.Duration) Option {
	return func(s *Server) { s.refresher.pollInterval = d }
}

// New creates a new server
func New(database *db.DB, cfg *config.Config, opts ...Option) *Server {
	s := &Server{
		db:        database,
		metrics:   newMetrics(),
		rateLimit: 10,
		burst:     30,
	}
	s.cfg.Store(cfg)
	s.refresher = newRefresher(s, 15*time.Minute)
	s.newRemote = func(serverURL, token string, timeout time.Duration) (Remote, error) {
		return vikunja.NewClient(serverURL, token,
			vikunja.WithTimeout(timeout),
			vikunja.WithStateWriter(database))
	}
	for _, opt := range opts {
		opt(s)
	}

	s.unsubscribe = database.Subscribe(s.metrics.stateWrite)
	s.setupEcho()
	return s
}

// Close releases the state store subscription. The database stays open.
func (s *Server) Close() error {
	s.unsubscribe()
	return nil
}

func (s *Server) setupEcho() {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(s.requestLogger)
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType},
	}))
	e.Use(s.metrics.middleware)

	// Health check and metrics
	e.GET("/health", s.handleHealth)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{})))

	// API v1
	api := e.Group("/api/v1")
	api.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      s.rateLimit,
			Burst:     s.burst,
			ExpiresIn: 3 * time.Minute,
		}),
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			return c.JSON(http.StatusTooManyRequests, actionResponse{Error: "too many requests"})
		},
	}))
	api.Use(s.authMiddleware)
	api.POST("/capture", s.handleCapture)
	api.POST("/actions/:action", s.handleAction)

	s.echo = e
}

// Config returns the settings currently in effect
func (s *Server) Config() *config.Config {
	return s.cfg.Load()
}

// SetConfig swaps the settings, e.g. after the file changed on disk
func (s *Server) SetConfig(cfg *config.Config) {
	s.cfg.Store(cfg)
	logger.Info("Bridge settings reloaded",
		logger.F("contextMenu", cfg.ContextMenuEnabled()),
		logger.F("server", cfg.ServerURL))
	s.refresher.Trigger()
}

// Router returns the HTTP handler
func (s *Server) Router() http.Handler {
	return s.echo
}

// Start starts the server
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// Run serves on addr until ctx is done, reloading settings when the config
// file changes
func (s *Server) Run(ctx context.Context, addr string) error {
	if path := s.Config().Path(); path != "" {
		go func() {
			err := config.Watch(ctx, path, s.SetConfig, func(err error) {
				logger.Warn("Failed to reload settings", logger.Err(err))
			})
			if err != nil {
				logger.Warn("Settings watcher stopped", logger.Err(err))
			}
		}()
	}

	go s.refresher.run(ctx)
	s.refresher.Trigger()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Bridge starting", logger.F("addr", addr))
		errCh <- s.echo.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("Bridge shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.echo.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
