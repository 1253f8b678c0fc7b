package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marketplace/cmd"
	"marketplace/internal/core/ports"

	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := cmd.LoadConfig(".env")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, err := cmd.NewLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("marketplace stopped with error", zap.Error(err))
	}
}

func run(cfg cmd.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := cmd.NewCompositionRoot(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("failed to close connections", zap.Error(err))
		}
	}()

	_, err = app.Store().LoadFrom(ctx, app.SnapshotRepository())
	switch {
	case errors.Is(err, ports.ErrSnapshotNotFound):
		logger.Info("no snapshot found, starting with an empty store")
	case err != nil:
		return fmt.Errorf("failed to load snapshot: %w", err)
	}

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		return err
	}
	logger.Info("marketplace started",
		zap.String("snapshot_backend", cfg.SnapshotBackend),
		zap.String("snapshot_format", cfg.SnapshotFormat),
	)

	<-ctx.Done()
	logger.Info("shutting down")
	jobManager.StopAll()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if relay := app.CreateRelayJob(); relay != nil {
		_, _ = relay.Run(shutdownCtx)
	}
	if err := app.Store().SaveTo(shutdownCtx, app.SnapshotRepository()); err != nil {
		return fmt.Errorf("failed to save snapshot on shutdown: %w", err)
	}
	return nil
}
