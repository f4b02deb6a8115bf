package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"

	"dentalcare-backend/pkg/container"
	"dentalcare-backend/pkg/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		zlog.Info().Msg("No .env file found, using system environment variables")
	}

	c, err := container.NewContainer()
	if err != nil {
		zlog.Fatal().Err(err).Msg("Failed to initialize container")
	}
	defer c.Close()

	logger.Init(c.Config.App.Environment)

	handlers := initializeHandlers(c)
	srv := setupAsynqServer(c, handlers)
	scheduler := setupScheduler(c)

	logStartup(c)
	waitForShutdown(srv, scheduler)
}

func waitForShutdown(srv *asynqServer, scheduler *asynqScheduler) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	zlog.Info().Msg("Gracefully stopping worker")
	scheduler.Shutdown()
	srv.Shutdown()
	zlog.Info().Msg("Worker stopped")
}
