package repositories

import (
	"context"

	"jobcore-api/domain/models"
)

type ScheduleRepository interface {
	// Upsert single atomic insert-or-update keyed by task_name.
	Upsert(ctx context.Context, taskName string, enabled bool) (*models.Schedule, error)
	// GetByTaskName returns nil, nil when no row exists.
	GetByTaskName(ctx context.Context, taskName string) (*models.Schedule, error)
	FindByTaskNames(ctx context.Context, taskNames []string) (map[string]*models.Schedule, error)
}
