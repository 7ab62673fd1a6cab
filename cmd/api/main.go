package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/markdave123-py/Textora/internal/app"
	"github.com/markdave123-py/Textora/internal/config"
	"github.com/markdave123-py/Textora/internal/observability"
)

func main() {
	// Handle SIGINT/SIGTERM for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		bootLog := observability.NewLogger(observability.LogConfig{ServiceName: "textora"})
		bootLog.Fatal().Err(err).Msg("invalid configuration")
	}

	log := observability.NewLogger(observability.LogConfig{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		Output:      os.Stdout,
		ServiceName: "textora",
	})

	application, err := app.NewApp(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}

	if err := application.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
	log.Info().Msg("shut down cleanly")
}
