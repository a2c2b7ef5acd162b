package dto

import (
	"strings"

	"jobcore-api/domain/models"
)

func trim(s string) string { return strings.TrimSpace(s) }

func ExecutionToExecutionResponse(e *models.Execution) *ExecutionResponse {
	if e == nil {
		return nil
	}
	return &ExecutionResponse{
		ID:          e.ID,
		TaskName:    e.TaskName,
		ServiceName: e.ServiceName,
		TriggeredBy: e.TriggeredBy,
		Status:      e.Status,
		EnqueuedAt:  e.EnqueuedAt,
		StartedAt:   e.StartedAt,
		CompletedAt: e.CompletedAt,
		ExitCode:    e.ExitCode,
		DurationMs:  e.DurationMs,
		Error:       e.Error,
		Logs:        e.Logs,
	}
}

func ExecutionsToExecutionResponses(items []*models.Execution) []ExecutionResponse {
	out := make([]ExecutionResponse, 0, len(items))
	for _, e := range items {
		out = append(out, *ExecutionToExecutionResponse(e))
	}
	return out
}

// TaskToTaskResponse base fields only; enrichment is filled by the service.
func TaskToTaskResponse(t *models.TaskDefinition) *TaskResponse {
	return &TaskResponse{
		ID:          t.Name,
		Name:        t.Name,
		Description: t.Description,
		Command:     t.Command,
		Script:      t.Script,
		SQL:         t.SQL,
		Cron:        t.Cron,
		ServiceName: t.ServiceName,
		Enabled:     true,
	}
}

func ScheduleToScheduleResponse(s *models.Schedule, task *models.TaskDefinition) *ScheduleResponse {
	return &ScheduleResponse{
		TaskName:        s.TaskName,
		ScheduleEnabled: s.ScheduleEnabled,
		Enabled:         models.EffectiveEnabled(task, s),
		UpdatedAt:       s.UpdatedAt,
	}
}
