package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apihttp "github.com/GriffinCanCode/wcar/internal/api/http"
	"github.com/GriffinCanCode/wcar/internal/api/middleware"
	"github.com/GriffinCanCode/wcar/internal/domain/session"
	"github.com/GriffinCanCode/wcar/internal/infrastructure/config"
	"github.com/GriffinCanCode/wcar/internal/infrastructure/logging"
	"github.com/GriffinCanCode/wcar/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/wcar/internal/platform"
)

// ShutdownTimeout bounds how long in-flight requests may run after Run's
// context is cancelled.
const ShutdownTimeout = 5 * time.Second

// Server wraps the HTTP server and its background loops
type Server struct {
	cfg       *config.Config
	router    *gin.Engine
	manager   *session.Manager
	apps      *config.Apps
	autosaver *session.Autosaver
	watcher   *config.AppsWatcher
	metrics   *monitoring.Metrics
	logger    *logging.Logger
}

// Deps are the collaborators a Server drives.
type Deps struct {
	Manager  *session.Manager
	Apps     *config.Apps
	Monitors platform.MonitorProvider
	Metrics  *monitoring.Metrics
	Logger   *logging.Logger
	Version  string
}

// New creates a server instance
func New(cfg *config.Config, deps Deps) *Server {
	logger := logging.OrNop(deps.Logger)

	var rl *middleware.RateLimitConfig
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Float64("rps", cfg.RateLimit.RPS),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		limit := middleware.DefaultRateLimitConfig()
		limit.RequestsPerSecond = cfg.RateLimit.RPS
		limit.Burst = cfg.RateLimit.Burst
		rl = &limit
	}

	handlers := apihttp.NewHandlers(deps.Manager, deps.Manager.History(), deps.Monitors, deps.Apps, deps.Metrics, deps.Version)
	router := apihttp.NewRouter(handlers, apihttp.RouterConfig{
		RateLimit:   rl,
		Development: cfg.Log.Dev,
	}, logger)

	s := &Server{
		cfg:     cfg,
		router:  router,
		manager: deps.Manager,
		apps:    deps.Apps,
		metrics: deps.Metrics,
		logger:  logger,
	}
	if cfg.Autosave.Enabled {
		s.autosaver = session.NewAutosaver(deps.Manager, cfg.Autosave.Interval, deps.Metrics, logger)
	}
	s.watcher = config.NewAppsWatcher(deps.Apps, logger)
	s.watcher.OnReload = func(err error) {
		if errors.Is(err, config.ErrCorruptApps) {
			logger.Warn("Tracked-app file was corrupt; defaults installed", zap.Error(err))
		}
	}
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully. Autosave
// and the tracked-app watcher run alongside the listener.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Addr(), err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	var wg sync.WaitGroup
	if s.autosaver != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.autosaver.Run(ctx)
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := s.watcher.Run(ctx); err != nil {
			s.logger.Warn("Tracked-app watcher stopped", zap.Error(err))
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting HTTP server", zap.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			serveErr = fmt.Errorf("serve: %w", err)
		}
	}

	s.logger.Info("Shutting down server...")
	cancel()

	shutdownCtx, stop := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil && serveErr == nil {
		serveErr = fmt.Errorf("shutdown: %w", err)
	}
	wg.Wait()

	_ = s.logger.Sync()
	return serveErr
}
