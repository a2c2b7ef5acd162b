package dto

import (
	"time"

	"github.com/google/uuid"

	"jobcore-api/domain/models"
)

// TaskResponse task จาก catalog + schedule + last run
type TaskResponse struct {
	ID                string                  `json:"id"`
	Name              string                  `json:"name"`
	Description       *string                 `json:"description"`
	Command           *string                 `json:"command"`
	Script            *string                 `json:"script"`
	SQL               *string                 `json:"sql"`
	Cron              *string                 `json:"cron"`
	ServiceName       *string                 `json:"service_name"`
	Enabled           bool                    `json:"enabled"`
	LastRun           *time.Time              `json:"last_run"`
	NextRun           *time.Time              `json:"next_run"`
	LatestExecutionID *uuid.UUID              `json:"latest_execution_id"`
	LatestStatus      *models.ExecutionStatus `json:"latest_status"`
}

// UpdateScheduleRequest body ของ PUT /tasks/:name/schedule
// รับได้ทั้ง enabled และ schedule_enabled
type UpdateScheduleRequest struct {
	Enabled         *bool `json:"enabled"`
	ScheduleEnabled *bool `json:"schedule_enabled"`
}

// Value enabled wins over schedule_enabled; ok is false when neither is set.
func (r *UpdateScheduleRequest) Value() (enabled bool, ok bool) {
	if r.Enabled != nil {
		return *r.Enabled, true
	}
	if r.ScheduleEnabled != nil {
		return *r.ScheduleEnabled, true
	}
	return false, false
}

type ScheduleResponse struct {
	TaskName        string    `json:"task_name"`
	ScheduleEnabled bool      `json:"schedule_enabled"`
	Enabled         bool      `json:"enabled"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// RunTaskRequest body ของ POST /tasks/:name/run (optional ทั้งก้อน)
type RunTaskRequest struct {
	TriggeredBy      *string `json:"triggered_by" validate:"omitempty,max=255"`
	TriggeredByCamel *string `json:"triggeredBy" validate:"omitempty,max=255"`
}

// Explicit camelCase first, then snake_case, blank values ignored.
func (r *RunTaskRequest) Explicit() string {
	if r == nil {
		return ""
	}
	for _, v := range []*string{r.TriggeredByCamel, r.TriggeredBy} {
		if v != nil {
			if s := trim(*v); s != "" {
				return s
			}
		}
	}
	return ""
}
