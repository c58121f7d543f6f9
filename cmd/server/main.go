package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"ffwpu/internal/platform/config"
	"ffwpu/internal/platform/httpserver"
	"ffwpu/internal/platform/logger"
)

// main loads configuration, wires dependencies, and runs the HTTP server
// alongside the outbox relay until a shutdown signal arrives.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "ffwpu-recovery: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	log := logger.New(cfg.Environment, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := buildApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer app.Close()

	srv := httpserver.New(cfg.Addr, app.router)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.InfoContext(gctx, "starting ffwpu recovery service",
			"addr", cfg.Addr,
			"environment", cfg.Environment,
			"storage", app.storage,
			"expose_token", cfg.Recovery.ExposeToken,
		)
		return httpserver.Run(gctx, srv)
	})
	if app.relay != nil {
		g.Go(func() error {
			return app.relay.Run(gctx)
		})
	}

	if err := g.Wait(); err != nil {
		log.Error("server stopped with error", slog.Any("error", err))
		return err
	}
	log.Info("server stopped")
	return nil
}
