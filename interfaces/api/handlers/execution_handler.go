package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"jobcore-api/domain/dto"
	"jobcore-api/domain/services"
	"jobcore-api/pkg/logger"
	"jobcore-api/pkg/query"
	"jobcore-api/pkg/utils"
)

type ExecutionHandler struct {
	executionService services.ExecutionService
}

func NewExecutionHandler(executionService services.ExecutionService) *ExecutionHandler {
	return &ExecutionHandler{
		executionService: executionService,
	}
}

// ListExecutions GET /api/v1/job-core/executions
// filters: task_name|taskName, status
func (h *ExecutionHandler) ListExecutions(c *fiber.Ctx) error {
	ctx := c.UserContext()

	filter := dto.ExecutionListRequest{
		TaskName: query.FirstOf(queryGetter(c), "task_name", "taskName"),
		Status:   strings.ToLower(strings.TrimSpace(c.Query("status"))),
	}
	if err := utils.ValidateStruct(&filter); err != nil {
		logger.WarnContext(ctx, "Invalid execution filter", "errors", utils.GetValidationErrors(err))
		return utils.BadRequestResponse(c, "Invalid status")
	}

	params := query.Parse(queryGetter(c), dto.ExecutionListOptions)
	res, err := h.executionService.ListExecutions(ctx, filter, params)
	if err != nil {
		return utils.HandleError(c, err, "Failed to list executions")
	}

	return utils.SuccessResponse(c, res)
}

// GetExecution GET /api/v1/job-core/executions/:id
// uuid ผิดรูปแบบตอบ 404 เหมือนหาไม่เจอ
func (h *ExecutionHandler) GetExecution(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		logger.DebugContext(ctx, "Malformed execution id", "id", c.Params("id"))
		return utils.NotFoundResponse(c, "Execution not found")
	}

	execution, err := h.executionService.GetExecution(ctx, id)
	if err != nil {
		return utils.HandleError(c, err, "Failed to load execution")
	}

	return utils.SuccessResponse(c, dto.ExecutionToExecutionResponse(execution))
}
