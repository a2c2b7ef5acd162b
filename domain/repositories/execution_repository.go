package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"jobcore-api/domain/models"
)

// ExecutionFilter list filters; SortBy must already be allow-listed.
type ExecutionFilter struct {
	TaskName string
	Status   models.ExecutionStatus
	Search   string // case-insensitive substring on task_name
	SortBy   string
	Desc     bool
	Offset   int
	Limit    int
}

type ExecutionRepository interface {
	Create(ctx context.Context, execution *models.Execution) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Execution, error)
	List(ctx context.Context, filter ExecutionFilter) ([]*models.Execution, int64, error)

	// Claim queued -> running. Conflict-marked error when not queued.
	Claim(ctx context.Context, id uuid.UUID, startedAt time.Time) (*models.Execution, error)
	// Complete running -> success|failed. Conflict-marked error when not running.
	Complete(ctx context.Context, id uuid.UUID, result models.ExecutionResult) (*models.Execution, error)

	// RunSummaries last-run aggregate and latest execution per task, one entry
	// per name that has at least one execution.
	RunSummaries(ctx context.Context, taskNames []string) (map[string]models.TaskRunSummary, error)
	CountQueuedBefore(ctx context.Context, before time.Time) (int64, error)
}
