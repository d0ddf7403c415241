package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/soldbyofficial/backend/config"
	httpDelivery "github.com/soldbyofficial/backend/internal/delivery/http"
	"github.com/soldbyofficial/backend/internal/logging"
	"github.com/soldbyofficial/backend/internal/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		logger := logging.NewFromEnv()
		logger.Error().Err(err).Msg("server exited")
		stop()
		os.Exit(1)
	}
}

// run loads configuration and serves until ctx is cancelled.
func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.FromSettings(cfg.Log.Level, cfg.Log.Format)

	logger.Info().
		Str("version", httpDelivery.Version).
		Str("environment", cfg.Server.Environment).
		Str("port", cfg.Server.Port).
		Str("storage", cfg.Storage.Type).
		Msg("starting Sold By Official backend")

	srv, err := server.New(cfg, logger)
	if err != nil {
		return err
	}
	defer srv.Close()

	return srv.ListenAndServe(ctx)
}
