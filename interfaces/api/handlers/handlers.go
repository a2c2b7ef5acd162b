package handlers

import (
	"github.com/gofiber/fiber/v2"

	"jobcore-api/application/serviceimpl"
	"jobcore-api/domain/ports"
	"jobcore-api/domain/services"
	"jobcore-api/pkg/query"
	"jobcore-api/pkg/scheduler"
)

// Services contains all the services needed for handlers
type Services struct {
	TaskService      services.TaskService
	ExecutionService services.ExecutionService
	Publisher        ports.ExecutionEventPublisher    // queue status
	QueueMonitor     *serviceimpl.QueueMonitorService // stale queued count
	Scheduler        scheduler.EventScheduler         // background jobs
}

// Handlers contains all HTTP handlers
type Handlers struct {
	TaskHandler       *TaskHandler
	ExecutionHandler  *ExecutionHandler
	MonitoringHandler *MonitoringHandler
}

// NewHandlers creates a new instance of Handlers with all dependencies
func NewHandlers(services *Services) *Handlers {
	return &Handlers{
		TaskHandler:       NewTaskHandler(services.TaskService, services.ExecutionService),
		ExecutionHandler:  NewExecutionHandler(services.ExecutionService),
		MonitoringHandler: NewMonitoringHandler(services.Publisher, services.QueueMonitor, services.Scheduler),
	}
}

// queryGetter adapts fiber's variadic Query to query.Getter
func queryGetter(c *fiber.Ctx) query.Getter {
	return func(key string) string {
		return c.Query(key)
	}
}
