package routes

import (
	"github.com/gofiber/fiber/v2"

	"jobcore-api/interfaces/api/handlers"
	"jobcore-api/interfaces/api/middleware"
	"jobcore-api/pkg/authz"
)

// SetupJobCoreRoutes /api/v1/job-core
//
//	GET  /tasks                  job-core.task list
//	GET  /tasks/:name            job-core.task detail
//	POST /tasks/:name/run        job-core.list.execute
//	PUT  /tasks/:name/schedule   job-core.task edit
//	GET  /executions             job-core.execution list
//	GET  /executions/:id         job-core.execution detail
//	GET  /monitoring/queue       job-core.execution list
func SetupJobCoreRoutes(api fiber.Router, h *handlers.Handlers, opts Options) {
	guard := opts.Guard
	if guard == nil {
		guard = authz.NewGuard(nil)
	}

	jobCore := api.Group("/job-core")
	jobCore.Use(middleware.Authenticate(opts.JWTSecret, opts.AuthCookie))

	tasks := jobCore.Group("/tasks")
	tasks.Get("/", middleware.RequireEntity(guard, authz.EntityTask, authz.OpList), h.TaskHandler.ListTasks)
	tasks.Get("/:name", middleware.RequireEntity(guard, authz.EntityTask, authz.OpDetail), h.TaskHandler.GetTask)
	tasks.Post("/:name/run", middleware.RequireAction(guard, authz.ActionExecute), h.TaskHandler.RunTask)
	tasks.Put("/:name/schedule", middleware.RequireEntity(guard, authz.EntityTask, authz.OpEdit), h.TaskHandler.UpdateSchedule)

	executions := jobCore.Group("/executions")
	executions.Get("/", middleware.RequireEntity(guard, authz.EntityExecution, authz.OpList), h.ExecutionHandler.ListExecutions)
	executions.Get("/:id", middleware.RequireEntity(guard, authz.EntityExecution, authz.OpDetail), h.ExecutionHandler.GetExecution)

	monitoring := jobCore.Group("/monitoring")
	monitoring.Get("/queue", middleware.RequireEntity(guard, authz.EntityExecution, authz.OpList), h.MonitoringHandler.GetQueueStatus)
}
