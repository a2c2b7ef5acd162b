package handlers

import (
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"

	"jobcore-api/application/serviceimpl"
	"jobcore-api/domain/ports"
	"jobcore-api/pkg/logger"
	"jobcore-api/pkg/scheduler"
	"jobcore-api/pkg/utils"
)

// MonitoringHandler queue and background job status
type MonitoringHandler struct {
	publisher ports.ExecutionEventPublisher
	monitor   *serviceimpl.QueueMonitorService
	scheduler scheduler.EventScheduler
}

func NewMonitoringHandler(publisher ports.ExecutionEventPublisher, monitor *serviceimpl.QueueMonitorService, eventScheduler scheduler.EventScheduler) *MonitoringHandler {
	return &MonitoringHandler{
		publisher: publisher,
		monitor:   monitor,
		scheduler: eventScheduler,
	}
}

type QueueStatusResponse struct {
	Stream        string         `json:"stream"`
	Messages      uint64         `json:"messages"`
	Bytes         uint64         `json:"bytes"`
	Consumers     int            `json:"consumers"`
	StaleQueued   int64          `json:"stale_queued"`
	SchedulerJobs []SchedulerJob `json:"scheduler_jobs"`
}

type SchedulerJob struct {
	ID       string     `json:"id"`
	CronExpr string     `json:"cron"`
	LastRun  *time.Time `json:"last_run"`
	NextRun  *time.Time `json:"next_run"`
}

// GetQueueStatus GET /api/v1/job-core/monitoring/queue
func (h *MonitoringHandler) GetQueueStatus(c *fiber.Ctx) error {
	ctx := c.UserContext()
	res := QueueStatusResponse{SchedulerJobs: []SchedulerJob{}}

	if h.publisher != nil {
		status, err := h.publisher.GetQueueStatus(ctx)
		if err != nil {
			logger.ErrorContext(ctx, "Failed to get queue status", "error", err)
			return utils.ErrorResponse(c, fiber.StatusServiceUnavailable, "Queue status unavailable")
		}
		res.Stream = status.StreamName
		res.Messages = status.Messages
		res.Bytes = status.Bytes
		res.Consumers = status.Consumers
	}

	if h.monitor != nil {
		res.StaleQueued = h.monitor.RunCheck(ctx)
	}

	if h.scheduler != nil {
		for _, job := range h.scheduler.ListJobs() {
			res.SchedulerJobs = append(res.SchedulerJobs, SchedulerJob{
				ID:       job.ID,
				CronExpr: job.CronExpr,
				LastRun:  job.LastRun,
				NextRun:  job.NextRun,
			})
		}
		sort.Slice(res.SchedulerJobs, func(i, j int) bool {
			return res.SchedulerJobs[i].ID < res.SchedulerJobs[j].ID
		})
	}

	return utils.SuccessResponse(c, res)
}

// HealthCheck GET /health
func (h *MonitoringHandler) HealthCheck(c *fiber.Ctx) error {
	schedulerRunning := h.scheduler != nil && h.scheduler.IsRunning()
	return c.JSON(fiber.Map{
		"status":    "ok",
		"service":   "job-core",
		"scheduler": schedulerRunning,
	})
}
