package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/lavanda/laundry-dashboard/internal/cli"
	"github.com/lavanda/laundry-dashboard/internal/core/service"
	"github.com/lavanda/laundry-dashboard/internal/infrastructure/backend"
	"github.com/lavanda/laundry-dashboard/internal/infrastructure/db"
	"github.com/lavanda/laundry-dashboard/internal/pkg/config"
	"github.com/lavanda/laundry-dashboard/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "laundryctl:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	cfg.Store.Driver = config.StorePebble
	if cfg.Store.Path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home directory: %w", err)
		}
		cfg.Store.Path = filepath.Join(home, ".laundryctl")
	}

	level := "warn"
	if _, set := os.LookupEnv("LOG_LEVEL"); set {
		level = cfg.LogLevel
	}
	log := logger.Init(logger.Options{Level: level, Pretty: true, Service: "laundryctl"})

	store, err := db.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close(context.Background())

	client := backend.New(cfg.Backend.URL, cfg.Backend.Timeout, log)
	app := &cli.App{
		Workspaces: service.NewWorkspaceFactory(store, client, 0, log),
		Out:        os.Stdout,
		Log:        log,
	}
	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
