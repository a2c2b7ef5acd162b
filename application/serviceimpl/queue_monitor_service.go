package serviceimpl

import (
	"context"
	"time"

	"jobcore-api/domain/ports"
	"jobcore-api/domain/repositories"
	"jobcore-api/pkg/logger"
	"jobcore-api/pkg/scheduler"
)

const QueueMonitorJobID = "queue_monitor"

// QueueMonitorConfig การตั้งค่าของ queue monitor
type QueueMonitorConfig struct {
	Cron       string        // default "@every 1m"
	StaleAfter time.Duration // queued นานกว่านี้ถือว่าค้าง (default 15m)
}

// QueueMonitorService logs executions that sit in queued for too long.
// ไม่แก้ไข row: ไม่มี timeout หรือ requeue อัตโนมัติ
type QueueMonitorService struct {
	config        QueueMonitorConfig
	executionRepo repositories.ExecutionRepository
	publisher     ports.ExecutionEventPublisher
	scheduler     scheduler.EventScheduler
	now           func() time.Time
}

func NewQueueMonitorService(
	config QueueMonitorConfig,
	executionRepo repositories.ExecutionRepository,
	publisher ports.ExecutionEventPublisher,
	eventScheduler scheduler.EventScheduler,
) *QueueMonitorService {
	if config.Cron == "" {
		config.Cron = "@every 1m"
	}
	if config.StaleAfter <= 0 {
		config.StaleAfter = 15 * time.Minute
	}
	return &QueueMonitorService{
		config:        config,
		executionRepo: executionRepo,
		publisher:     publisher,
		scheduler:     eventScheduler,
		now:           time.Now,
	}
}

// RegisterMonitorJob ลงทะเบียน job กับ scheduler
func (s *QueueMonitorService) RegisterMonitorJob() error {
	return s.scheduler.AddJob(QueueMonitorJobID, s.config.Cron, func() {
		s.RunCheck(context.Background())
	})
}

// RunCheck returns the number of stale queued executions it found.
func (s *QueueMonitorService) RunCheck(ctx context.Context) int64 {
	threshold := s.now().UTC().Add(-s.config.StaleAfter)

	stale, err := s.executionRepo.CountQueuedBefore(ctx, threshold)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to count queued executions", "error", err)
		return 0
	}
	if stale == 0 {
		return 0
	}

	args := []any{
		"stale_queued", stale,
		"queued_before", threshold,
		"stale_after", s.config.StaleAfter.String(),
	}
	if s.publisher != nil {
		if status, err := s.publisher.GetQueueStatus(ctx); err == nil {
			args = append(args, "stream", status.StreamName, "stream_messages", status.Messages, "consumers", status.Consumers)
		}
	}
	logger.WarnContext(ctx, "Executions waiting in queue longer than expected", args...)
	return stale
}
