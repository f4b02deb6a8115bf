package queue

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"dentalcare-backend/internal/config"
	"dentalcare-backend/internal/shared"
	"dentalcare-backend/pkg/logger"
)

type Scheduler struct {
	scheduler *asynq.Scheduler
	jobConfig config.JobConfig
}

func NewScheduler(redisCfg config.RedisConfig, jobConfig config.JobConfig) *Scheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{
			Addr:     redisCfg.Host,
			Password: redisCfg.Password,
			DB:       redisCfg.DB,
		},
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler: scheduler,
		jobConfig: jobConfig,
	}
}

func (s *Scheduler) RegisterJobs() error {
	return s.registerReorderScanJob()
}

// registerReorderScanJob sweeps stock positions nightly so alerts open even
// when a reorder point was raised while stock sat idle.
func (s *Scheduler) registerReorderScanJob() error {
	payload, err := json.Marshal(shared.ReorderScanPayload{})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypeReorderScan, payload)
	entryID, err := s.scheduler.Register(s.jobConfig.ReorderScanCron, task, asynq.Queue(shared.QueueAlerts))
	if err != nil {
		return err
	}

	logger.Info("Registered reorder scan job", map[string]interface{}{
		"entry_id": entryID,
		"cron":     s.jobConfig.ReorderScanCron,
	})
	return nil
}

func (s *Scheduler) Run() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
