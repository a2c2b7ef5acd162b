package services

import (
	"context"

	"github.com/google/uuid"

	"jobcore-api/domain/dto"
	"jobcore-api/domain/models"
	"jobcore-api/pkg/query"
)

type ExecutionService interface {
	// Enqueue inserts a queued execution. triggeredBy falls back to the
	// caller's email, then "manual".
	Enqueue(ctx context.Context, taskName string, req *dto.RunTaskRequest, caller *models.Identity) (*models.Execution, error)
	GetExecution(ctx context.Context, id uuid.UUID) (*models.Execution, error)
	ListExecutions(ctx context.Context, filter dto.ExecutionListRequest, params query.Params) (*dto.ListResponse[dto.ExecutionResponse], error)
}
