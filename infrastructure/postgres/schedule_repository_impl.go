package postgres

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"jobcore-api/domain/models"
	"jobcore-api/domain/repositories"
	"jobcore-api/pkg/errors"
)

type ScheduleRepositoryImpl struct {
	db *gorm.DB
}

func NewScheduleRepository(db *gorm.DB) repositories.ScheduleRepository {
	return &ScheduleRepositoryImpl{db: db}
}

// Upsert INSERT ... ON CONFLICT (task_name) DO UPDATE in one statement, so
// concurrent first-time toggles of the same task never race into a
// duplicate key.
func (r *ScheduleRepositoryImpl) Upsert(ctx context.Context, taskName string, enabled bool) (*models.Schedule, error) {
	taskName = strings.TrimSpace(taskName)
	if taskName == "" {
		return nil, errors.Validation("task_name is required")
	}

	row := &models.Schedule{
		TaskName:        taskName,
		ScheduleEnabled: enabled,
		UpdatedAt:       time.Now().UTC(),
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "task_name"}},
			DoUpdates: clause.AssignmentColumns([]string{"schedule_enabled", "updated_at"}),
		}).
		Create(row).Error
	if err != nil {
		return nil, errors.Store(err, "upsert schedule")
	}

	return row, nil
}

func (r *ScheduleRepositoryImpl) GetByTaskName(ctx context.Context, taskName string) (*models.Schedule, error) {
	var schedule models.Schedule
	err := r.db.WithContext(ctx).Where("task_name = ?", taskName).Limit(1).Find(&schedule).Error
	if err != nil {
		return nil, errors.Store(err, "get schedule")
	}
	if schedule.TaskName == "" {
		return nil, nil
	}
	return &schedule, nil
}

func (r *ScheduleRepositoryImpl) FindByTaskNames(ctx context.Context, taskNames []string) (map[string]*models.Schedule, error) {
	out := make(map[string]*models.Schedule, len(taskNames))
	if len(taskNames) == 0 {
		return out, nil
	}

	var rows []*models.Schedule
	if err := r.db.WithContext(ctx).Where("task_name IN ?", taskNames).Find(&rows).Error; err != nil {
		return nil, errors.Store(err, "find schedules")
	}
	for _, row := range rows {
		out[row.TaskName] = row
	}
	return out, nil
}
