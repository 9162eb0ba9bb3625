package queue

import (
	"time"

	"github.com/hibiken/asynq"

	citationmodel "melivro-backend/internal/domains/citation/model"
	"melivro-backend/pkg/logger"
)

// Scheduler registers the periodic maintenance tasks.
type Scheduler struct {
	scheduler *asynq.Scheduler
}

func NewScheduler(redisAddr, redisPassword string, redisDB int) *Scheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{Addr: redisAddr, Password: redisPassword, DB: redisDB},
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)
	return &Scheduler{scheduler: scheduler}
}

// RegisterJobs wires every periodic task. The stored citation counts are
// a cache; the hourly recount is the source of truth that repairs drift
// left by any failed increment.
func (s *Scheduler) RegisterJobs() error {
	if err := s.registerRecountCitationsJob(); err != nil {
		return err
	}
	return nil
}

func (s *Scheduler) registerRecountCitationsJob() error {
	task := asynq.NewTask(citationmodel.TypeRecountCitations, nil)

	_, err := s.scheduler.Register(
		"@every 1h",
		task,
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(2),
		asynq.Timeout(5*time.Minute),
	)
	if err != nil {
		logger.Error("failed to register citation recount job", err)
		return err
	}

	logger.Info("registered citation recount: every hour", nil)
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}

// Queue names shared by the API enqueuer and the worker.
const (
	QueueDefault = "default"
	QueueLow     = "low"
)

// MirrorCoverOptions returns the enqueue options for cover mirroring.
// Mirroring is best-effort, so it runs on the low-priority queue.
func MirrorCoverOptions() []asynq.Option {
	return []asynq.Option{
		asynq.Queue(QueueLow),
		asynq.MaxRetry(3),
		asynq.Timeout(2 * time.Minute),
	}
}
