package handlers

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"

	"jobcore-api/domain/dto"
	"jobcore-api/domain/services"
	"jobcore-api/pkg/logger"
	"jobcore-api/pkg/query"
	"jobcore-api/pkg/utils"
)

type TaskHandler struct {
	taskService      services.TaskService
	executionService services.ExecutionService
}

func NewTaskHandler(taskService services.TaskService, executionService services.ExecutionService) *TaskHandler {
	return &TaskHandler{
		taskService:      taskService,
		executionService: executionService,
	}
}

// ListTasks GET /api/v1/job-core/tasks
func (h *TaskHandler) ListTasks(c *fiber.Ctx) error {
	ctx := c.UserContext()

	params := query.Parse(queryGetter(c), dto.TaskListOptions)
	res, err := h.taskService.ListTasks(ctx, params)
	if err != nil {
		return utils.HandleError(c, err, "Failed to list tasks")
	}

	return utils.SuccessResponse(c, res)
}

// GetTask GET /api/v1/job-core/tasks/:name
func (h *TaskHandler) GetTask(c *fiber.Ctx) error {
	ctx := c.UserContext()

	task, err := h.taskService.GetTask(ctx, taskNameParam(c))
	if err != nil {
		return utils.HandleError(c, err, "Failed to load task")
	}

	return utils.SuccessResponse(c, task)
}

// RunTask POST /api/v1/job-core/tasks/:name/run
// body เป็น optional: ไม่มี body หรือ {} ก็ได้
func (h *TaskHandler) RunTask(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req dto.RunTaskRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			logger.WarnContext(ctx, "Invalid request body", "error", err)
			return utils.BadRequestResponse(c, "Invalid request body")
		}
		if err := utils.ValidateStruct(&req); err != nil {
			logger.WarnContext(ctx, "Validation failed", "errors", utils.GetValidationErrors(err))
			return utils.BadRequestResponse(c, utils.ValidationSummary(err))
		}
	}

	caller, _ := utils.GetIdentityFromContext(c)

	execution, err := h.executionService.Enqueue(ctx, taskNameParam(c), &req, caller)
	if err != nil {
		return utils.HandleError(c, err, "Failed to enqueue task")
	}

	return utils.CreatedResponse(c, dto.ExecutionToExecutionResponse(execution))
}

// UpdateSchedule PUT /api/v1/job-core/tasks/:name/schedule
func (h *TaskHandler) UpdateSchedule(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req dto.UpdateScheduleRequest
	if err := c.BodyParser(&req); err != nil {
		logger.WarnContext(ctx, "Invalid request body", "error", err)
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	enabled, ok := req.Value()
	if !ok {
		return utils.BadRequestResponse(c, "enabled is required")
	}

	res, err := h.taskService.UpdateSchedule(ctx, taskNameParam(c), enabled)
	if err != nil {
		return utils.HandleError(c, err, "Failed to update schedule")
	}

	return utils.SuccessResponse(c, res)
}

// taskNameParam :name is URL-decoded; task names may contain dots or spaces.
func taskNameParam(c *fiber.Ctx) string {
	raw := c.Params("name")
	if decoded, err := url.PathUnescape(raw); err == nil {
		raw = decoded
	}
	return strings.TrimSpace(raw)
}
