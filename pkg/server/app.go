package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"AstroView/internal/service/poller"
	"AstroView/internal/usecase"
	"AstroView/pkg/cache"
	"AstroView/pkg/config"
	xhttp "AstroView/pkg/http"
	applogger "AstroView/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg         *config.Config
	logger      *applogger.Logger
	dash        *usecase.DashboardUsecase
	collector   *usecase.LiveCollector
	polls       *poller.Store
	cacheSvc    cache.Service
	httpServer  *xhttp.Server
	httpHandler xhttp.Handler
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	l *applogger.Logger,
	dash *usecase.DashboardUsecase,
	collector *usecase.LiveCollector,
	polls *poller.Store,
	cacheSvc cache.Service,
	handler xhttp.Handler,
) *App {
	return &App{
		cfg:         cfg,
		logger:      l,
		dash:        dash,
		collector:   collector,
		polls:       polls,
		cacheSvc:    cacheSvc,
		httpHandler: handler,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	// Global poll slots and chart come up before the server accepts
	// traffic, so the first request never races the first subscription.
	if err := a.dash.Start(); err != nil {
		return err
	}
	a.logger.Info("poll subscriptions started",
		applogger.String("backend", a.cfg.BotAPI.BaseURL),
		applogger.String("chart_symbol", a.cfg.Chart.Symbol))

	a.collector.Start()

	metricsPath := ""
	if a.cfg.Metrics.Enabled {
		metricsPath = a.cfg.Metrics.Path
	}
	a.httpServer = xhttp.NewServer(a.httpHandler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithMetricsPath(metricsPath),
	)
	if err := a.httpServer.Start(); err != nil {
		return err
	}
	a.logger.Info("http server started", applogger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	a.collector.Stop()
	a.dash.Stop()
	a.polls.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	if err := a.cacheSvc.Close(); err != nil {
		a.logger.Warn("cache close error", applogger.Error(err))
	}

	a.logger.Info("shutdown complete")
	return nil
}
