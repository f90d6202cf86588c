package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/CryptoZapCommunity/crypto-zap-dash/internal/domain/repository"
	"github.com/CryptoZapCommunity/crypto-zap-dash/internal/handler/ws"
	"github.com/CryptoZapCommunity/crypto-zap-dash/internal/service/ratelimit"
	"github.com/CryptoZapCommunity/crypto-zap-dash/internal/usecase"
	"github.com/CryptoZapCommunity/crypto-zap-dash/pkg/cache"
	"github.com/CryptoZapCommunity/crypto-zap-dash/pkg/config"
	xhttp "github.com/CryptoZapCommunity/crypto-zap-dash/pkg/http"
	applogger "github.com/CryptoZapCommunity/crypto-zap-dash/pkg/logger"
)

// App encapsulates the application lifecycle: hub, scheduler, HTTP surface.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	hub        *ws.Hub
	refresher  *usecase.Refresher
	handler    xhttp.Handler
	publisher  repository.Publisher
	bytesCache cache.BytesCache
	gates      *ratelimit.Gates
	httpServer *xhttp.Server
}

// New creates the App with all dependencies injected.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	hub *ws.Hub,
	refresher *usecase.Refresher,
	handler xhttp.Handler,
	publisher repository.Publisher,
	bytesCache cache.BytesCache,
	gates *ratelimit.Gates,
) *App {
	return &App{
		cfg:        cfg,
		log:        log,
		hub:        hub,
		refresher:  refresher,
		handler:    handler,
		publisher:  publisher,
		bytesCache: bytesCache,
		gates:      gates,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go a.hub.Run(ctx)

	if err := a.refresher.Start(ctx); err != nil {
		return err
	}

	metricsPath := ""
	if a.cfg.Metrics.Enabled {
		metricsPath = a.cfg.Metrics.Path
	}
	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithMetricsPath(metricsPath),
		xhttp.WithLogger(a.log),
	)
	if err := a.httpServer.Start(); err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown(ctx, cancel)
}

// shutdown stops services in reverse start order: scheduler first so no new
// cycles broadcast, then the HTTP surface, then the hub and the sinks.
func (a *App) shutdown(ctx context.Context, cancel context.CancelFunc) error {
	a.refresher.Stop()

	shutdownCtx, done := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer done()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	cancel()

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.log.Warn("export producer close error", applogger.Error(err))
		}
	}
	if err := a.bytesCache.Close(); err != nil {
		a.log.Warn("cache close error", applogger.Error(err))
	}
	a.gates.Close()

	a.log.Info("shutdown complete")
	return nil
}
