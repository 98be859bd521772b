package server

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"FinScore/internal/usecase"
	xhttp "FinScore/pkg/http"
	applogger "FinScore/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	enricher   *usecase.Enricher
	scheduler  *usecase.RefreshScheduler
	httpServer *xhttp.Server
	preload    bool
	l          *applogger.Logger
}

// New creates a new App instance with all dependencies.
func New(enricher *usecase.Enricher, scheduler *usecase.RefreshScheduler, srv *xhttp.Server, preload bool, l *applogger.Logger) *App {
	return &App{
		enricher:   enricher,
		scheduler:  scheduler,
		httpServer: srv,
		preload:    preload,
		l:          l,
	}
}

// Run starts the application and blocks until interrupted or ctx ends.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if a.preload {
		a.enricher.TriggerRefresh(false)
		a.l.Info("cache preload started")
	}
	if a.scheduler != nil {
		a.scheduler.Start()
	}

	if err := a.httpServer.Start(); err != nil {
		return fmt.Errorf("http server start: %w", err)
	}

	<-ctx.Done()
	a.l.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown gracefully stops all services. An in-flight refresh is not waited for.
func (a *App) shutdown() error {
	timeout := a.httpServer.ShutdownTimeout()
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if a.scheduler != nil {
		a.scheduler.Stop(ctx)
	}
	if err := a.httpServer.Stop(ctx); err != nil {
		a.l.Error("http shutdown error", applogger.Error(err))
		return err
	}
	a.l.Info("shutdown complete")
	return nil
}
