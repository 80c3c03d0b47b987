package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/Jill-Vadsola/study-abroad-sub000/internal/app"
	"github.com/Jill-Vadsola/study-abroad-sub000/internal/config"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	if cfg.AppEnv != "production" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	a, err := app.New(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to assemble client")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.Start(ctx)
	logger.Info().Str("api", cfg.APIBaseURL).Msg("studyabroad client started")

	<-ctx.Done()
	a.Close()
	logger.Info().Msg("studyabroad client stopped")
}
