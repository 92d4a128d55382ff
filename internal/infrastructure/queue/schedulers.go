package queue

import (
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"podcasthub-backend/internal/config"
	"podcasthub-backend/internal/shared"
	"podcasthub-backend/pkg/logger"
)

type Scheduler struct {
	scheduler *asynq.Scheduler
	jobConfig config.JobConfig
}

func NewScheduler(redis asynq.RedisClientOpt, jobConfig config.JobConfig) *Scheduler {
	scheduler := asynq.NewScheduler(
		redis,
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

func (s *Scheduler) RegisterCleanupJobs() error {
	return s.registerSweepTempObjectsJob()
}

// ================================================
// Sweep abandoned temporary uploads (hourly by default)
// ================================================
// Retention is applied by the handler; the payload is empty.
func (s *Scheduler) registerSweepTempObjectsJob() error {
	task := asynq.NewTask(shared.TypeSweepTempObjects, nil)

	_, err := s.scheduler.Register(
		s.jobConfig.SweepCron,
		task,
		asynq.Queue(shared.QueueLow),
		asynq.MaxRetry(1),
		asynq.Timeout(10*time.Minute),
		asynq.Unique(time.Hour),
	)
	if err != nil {
		logger.Error("Failed to register SweepTempObjects job", err)
		return fmt.Errorf("register %s: %w", shared.TypeSweepTempObjects, err)
	}

	logger.Info("✓ Registered SweepTempObjects", map[string]interface{}{
		"cron":      s.jobConfig.SweepCron,
		"retention": s.jobConfig.TempObjectRetention.String(),
	})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
