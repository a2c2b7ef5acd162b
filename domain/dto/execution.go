package dto

import (
	"time"

	"github.com/google/uuid"

	"jobcore-api/domain/models"
)

type ExecutionResponse struct {
	ID          uuid.UUID              `json:"id"`
	TaskName    string                 `json:"task_name"`
	ServiceName *string                `json:"service_name"`
	TriggeredBy *string                `json:"triggered_by"`
	Status      models.ExecutionStatus `json:"status"`
	EnqueuedAt  time.Time              `json:"enqueued_at"`
	StartedAt   *time.Time             `json:"started_at"`
	CompletedAt *time.Time             `json:"completed_at"`
	ExitCode    *int                   `json:"exit_code"`
	DurationMs  *int64                 `json:"duration_ms"`
	Error       *string                `json:"error"`
	Logs        string                 `json:"logs"`
}

// ExecutionListRequest query ของ GET /executions หลังรวม alias แล้ว
type ExecutionListRequest struct {
	TaskName string
	Status   string `validate:"omitempty,oneof=queued running success failed"`
}
