package main

import (
	"context"
	"os/signal"
	"syscall"

	"hotelbooking/config"
	"hotelbooking/di"
	"hotelbooking/shared/logger"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := di.InitializeConsumer()

	log.Info().Msg("Booking event consumer started")

	consumer.Run(ctx)

	log.Info().Msg("Booking event consumer stopped")
}
