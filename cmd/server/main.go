package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/nyxos/backend/internal/infrastructure/config"
	"github.com/nyxos/backend/internal/infrastructure/logging"
	"github.com/nyxos/backend/internal/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Flags override environment
	flag.StringVar(&cfg.Server.Port, "port", cfg.Server.Port, "Server port")
	flag.StringVar(&cfg.Server.Host, "host", cfg.Server.Host, "Listen address")
	flag.StringVar(&cfg.Storage.Backend, "storage", cfg.Storage.Backend, "Store backend: sqlite, postgres or blob")
	flag.StringVar(&cfg.Storage.DSN, "dsn", cfg.Storage.DSN, "Store DSN (sqlite file or postgres URL)")
	flag.BoolVar(&cfg.Logging.Development, "dev", cfg.Logging.Development, "Development mode (colored logs, debug routes)")
	flag.Parse()

	logger, err := logging.FromLevel(cfg.Logging.Level, cfg.Logging.Development)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.NewServer(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to create server", zap.Error(err))
		return err
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Run()
	}()

	// Wait for shutdown signal or error
	select {
	case <-ctx.Done():
		logger.Info("Shutting down gracefully...")
		return srv.Close()
	case err := <-errChan:
		closeErr := srv.Close()
		if err != nil {
			logger.Error("Server error", zap.Error(err))
			return err
		}
		return closeErr
	}
}
