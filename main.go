package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shopapi/internal/app"
	"shopapi/internal/config"
	"shopapi/internal/database"
	"shopapi/internal/logging"
	"shopapi/internal/services"
	"shopapi/internal/storage"
	"shopapi/pkg/rabbitmq"

	"github.com/rs/zerolog"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		bootLog := logging.New("info", "json", os.Stderr)
		bootLog.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	// --- Database ---
	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseDSN, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer database.Close(db)

	// --- Image storage ---
	store, err := newStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("storage", cfg.ImageStorage).Msg("failed to initialize image storage")
	}

	// --- Order events (optional) ---
	var publisher services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Queue: cfg.RabbitMQQueue})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize RabbitMQ client")
		}
		defer mqClient.Close()
		publisher = mqClient
	} else {
		log.Info().Msg("RABBITMQ_URL not set, order events are disabled")
	}

	server := app.New(app.Deps{
		Config:    cfg,
		DB:        db,
		Store:     store,
		Log:       log,
		Publisher: publisher,
	})

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.Listen(); err != nil {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	<-quit
	log.Info().Msg("shutting down server")
	shutdown(server, log)
	log.Info().Msg("server gracefully stopped")
}

func shutdown(server *app.Server, log zerolog.Logger) {
	done := make(chan struct{})
	go func() {
		if err := server.Shutdown(); err != nil {
			log.Error().Err(err).Msg("error during shutdown")
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Minute):
		log.Warn().Msg("shutdown timed out")
	}
}

func newStore(cfg config.Config) (storage.Store, error) {
	if cfg.ImageStorage == config.StorageS3 {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return storage.NewS3StoreFromConfig(ctx, cfg.S3)
	}
	return storage.NewLocalStore(cfg.PublicDir)
}
