package main

import (
	zlog "github.com/rs/zerolog/log"

	"dentalcare-backend/internal/infrastructure/queue"
	"dentalcare-backend/pkg/container"
)

// asynqScheduler wraps queue.Scheduler for graceful shutdown
type asynqScheduler struct {
	*queue.Scheduler
}

// setupScheduler creates the cron scheduler and starts it
func setupScheduler(c *container.Container) *asynqScheduler {
	scheduler := queue.NewScheduler(c.Config.Redis, c.Config.Jobs)

	if err := scheduler.RegisterJobs(); err != nil {
		zlog.Fatal().Err(err).Msg("Scheduler registration failed")
	}

	go func() {
		zlog.Info().Msg("Scheduler starting")
		if err := scheduler.Run(); err != nil {
			zlog.Fatal().Err(err).Msg("Scheduler failed")
		}
	}()

	return &asynqScheduler{Scheduler: scheduler}
}

func (s *asynqScheduler) Shutdown() {
	zlog.Info().Msg("Scheduler shutting down")
	s.Scheduler.Shutdown()
	zlog.Info().Msg("Scheduler stopped")
}
