package serviceimpl

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"jobcore-api/domain/dto"
	"jobcore-api/domain/models"
	"jobcore-api/domain/ports"
	"jobcore-api/domain/repositories"
	"jobcore-api/domain/services"
	"jobcore-api/pkg/errors"
	"jobcore-api/pkg/logger"
	"jobcore-api/pkg/query"
)

type ExecutionServiceImpl struct {
	executionRepo repositories.ExecutionRepository
	catalog       ports.TaskCatalog
	publisher     ports.ExecutionEventPublisher
}

func NewExecutionService(
	executionRepo repositories.ExecutionRepository,
	catalog ports.TaskCatalog,
	publisher ports.ExecutionEventPublisher,
) services.ExecutionService {
	return &ExecutionServiceImpl{
		executionRepo: executionRepo,
		catalog:       catalog,
		publisher:     publisher,
	}
}

func (s *ExecutionServiceImpl) Enqueue(ctx context.Context, taskName string, req *dto.RunTaskRequest, caller *models.Identity) (*models.Execution, error) {
	name := strings.TrimSpace(taskName)
	if name == "" {
		return nil, errors.Validation("Missing task name")
	}

	task, err := s.catalog.Lookup(ctx, name)
	if err != nil {
		return nil, err
	}

	triggeredBy := resolveTriggeredBy(req, caller)
	execution := &models.Execution{
		TaskName:    task.Name,
		ServiceName: task.ServiceName,
		TriggeredBy: &triggeredBy,
		Status:      models.ExecutionStatusQueued,
		Logs:        "",
	}

	if err := s.executionRepo.Create(ctx, execution); err != nil {
		logger.ErrorContext(ctx, "Failed to enqueue execution", "task_name", name, "error", err)
		return nil, err
	}

	logger.InfoContext(ctx, "Execution enqueued",
		"execution_id", execution.ID,
		"task_name", execution.TaskName,
		"triggered_by", triggeredBy,
	)

	s.publishEnqueued(ctx, execution)
	return execution, nil
}

// resolveTriggeredBy explicit body value, then caller email, then "manual"
func resolveTriggeredBy(req *dto.RunTaskRequest, caller *models.Identity) string {
	if v := req.Explicit(); v != "" {
		return v
	}
	if caller != nil {
		if email := strings.TrimSpace(caller.Email); email != "" {
			return email
		}
	}
	return models.TriggeredByManual
}

// publishEnqueued row ถูกสร้างแล้ว publish ล้มเหลวแค่ log
func (s *ExecutionServiceImpl) publishEnqueued(ctx context.Context, execution *models.Execution) {
	if s.publisher == nil {
		return
	}
	event := &ports.ExecutionEnqueuedEvent{
		ExecutionID: execution.ID.String(),
		TaskName:    execution.TaskName,
		ServiceName: execution.ServiceName,
		TriggeredBy: *execution.TriggeredBy,
		EnqueuedAt:  execution.EnqueuedAt,
	}
	if err := s.publisher.PublishEnqueued(ctx, event); err != nil {
		logger.WarnContext(ctx, "Failed to publish execution event",
			"execution_id", execution.ID,
			"error", err,
		)
	}
}

func (s *ExecutionServiceImpl) GetExecution(ctx context.Context, id uuid.UUID) (*models.Execution, error) {
	return s.executionRepo.GetByID(ctx, id)
}

func (s *ExecutionServiceImpl) ListExecutions(ctx context.Context, filter dto.ExecutionListRequest, params query.Params) (*dto.ListResponse[dto.ExecutionResponse], error) {
	status := models.ExecutionStatus(strings.ToLower(strings.TrimSpace(filter.Status)))
	if status != "" && !status.Valid() {
		return nil, errors.Validation("Invalid status")
	}

	items, total, err := s.executionRepo.List(ctx, repositories.ExecutionFilter{
		TaskName: strings.TrimSpace(filter.TaskName),
		Status:   status,
		Search:   params.Search,
		SortBy:   params.SortBy,
		Desc:     params.Desc(),
		Offset:   params.Offset(),
		Limit:    params.PageSize,
	})
	if err != nil {
		logger.ErrorContext(ctx, "Failed to list executions", "error", err)
		return nil, err
	}

	return dto.NewListResponse(dto.ExecutionsToExecutionResponses(items), params, total), nil
}
