package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/planhub-io/planhub-backend/config"
	"github.com/planhub-io/planhub-backend/internal/bootstrap"
	"github.com/planhub-io/planhub-backend/internal/layout/service"
	"github.com/planhub-io/planhub-backend/internal/session"
)

const serviceName = "planhub-backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := bootstrap.NewLogger(cfg.App.LogLevel, cfg.App.LogFile)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	bootstrap.SetGinMode(cfg.App.Environment)

	store, err := bootstrap.OpenStore(context.Background(), cfg.Store)
	if err != nil {
		logger.Fatalw("open store", "backend", cfg.Store.Backend, "error", err)
	}
	defer func() { _ = store.Close() }()

	layouts := service.NewLayoutService(store)

	idleWindow := time.Duration(cfg.Session.IdleMinutes) * time.Minute
	sessions, err := session.NewManager(layouts, logger, cfg.Session.SweepSpec, idleWindow)
	if err != nil {
		logger.Fatalw("session manager", "error", err)
	}

	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: serviceName,
		Version:     cfg.App.Version,
		CORSOrigins: cfg.Server.CORSOrigins,
		Store:       store,
		Layouts:     layouts,
		Sessions:    sessions,
		Log:         logger,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		logger.Infow("listening", "port", cfg.Server.Port, "store", cfg.Store.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalw("listen", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	sessions.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorw("server shutdown", "error", err)
	}
}
