package services

import (
	"context"

	"jobcore-api/domain/dto"
	"jobcore-api/pkg/query"
)

type TaskService interface {
	ListTasks(ctx context.Context, params query.Params) (*dto.ListResponse[dto.TaskResponse], error)
	GetTask(ctx context.Context, name string) (*dto.TaskResponse, error)
	UpdateSchedule(ctx context.Context, name string, enabled bool) (*dto.ScheduleResponse, error)
}
