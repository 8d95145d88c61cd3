package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lavanda/laundry-dashboard/internal/api"
	"github.com/lavanda/laundry-dashboard/internal/api/middleware"
	"github.com/lavanda/laundry-dashboard/internal/core/service"
	"github.com/lavanda/laundry-dashboard/internal/infrastructure/backend"
	"github.com/lavanda/laundry-dashboard/internal/infrastructure/db"
	"github.com/lavanda/laundry-dashboard/internal/infrastructure/http/handlers"
	"github.com/lavanda/laundry-dashboard/internal/pkg/config"
	"github.com/lavanda/laundry-dashboard/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.MustLoad()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.Production(),
		Service: "laundry-dashboard",
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, err := db.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("failed to open record store")
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			log.Warn().Err(err).Msg("failed to close record store")
		}
	}()

	client := backend.New(cfg.Backend.URL, cfg.Backend.Timeout, log)
	workspaces := service.NewWorkspaceFactory(store, client, cfg.SessionTTL, logger.Component("workspace"))

	secret := cfg.JWTSecret
	if secret == "" {
		secret = "dev-secret"
		log.Warn().Msg("JWT_SECRET not set, using development secret")
	}

	e := api.NewRouter(api.Deps{
		Workspaces: workspaces,
		Cookies:    middleware.NewSessionCodec(secret, cfg.SessionTTL, cfg.Production()),
		Readiness: map[string]handlers.Pinger{
			"store":   store,
			"backend": client,
		},
		Log: log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("driver", cfg.Store.Driver).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped unexpectedly")
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		os.Exit(1)
	}
	log.Info().Msg("server stopped")
}
