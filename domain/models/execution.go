package models

import (
	"time"

	"github.com/google/uuid"
)

type ExecutionStatus string

const (
	ExecutionStatusQueued  ExecutionStatus = "queued"
	ExecutionStatusRunning ExecutionStatus = "running"
	ExecutionStatusSuccess ExecutionStatus = "success"
	ExecutionStatusFailed  ExecutionStatus = "failed"
)

// Trigger sources ที่ระบบรู้จัก นอกเหนือจากนี้คือ user identifier (email)
const (
	TriggeredByCron   = "cron"
	TriggeredByManual = "manual"
	TriggeredBySystem = "system"
)

var executionTransitions = map[ExecutionStatus][]ExecutionStatus{
	ExecutionStatusQueued:  {ExecutionStatusRunning},
	ExecutionStatusRunning: {ExecutionStatusSuccess, ExecutionStatusFailed},
}

// Valid reports whether s is one of the four known statuses.
func (s ExecutionStatus) Valid() bool {
	switch s {
	case ExecutionStatusQueued, ExecutionStatusRunning, ExecutionStatusSuccess, ExecutionStatusFailed:
		return true
	}
	return false
}

// IsTerminal success/failed ไม่มี transition ออก
func (s ExecutionStatus) IsTerminal() bool {
	return s == ExecutionStatusSuccess || s == ExecutionStatusFailed
}

func (s ExecutionStatus) CanTransitionTo(next ExecutionStatus) bool {
	for _, allowed := range executionTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Execution หนึ่งครั้งที่ task ถูกสั่งรัน
//
// Created only by the enqueue operation (status queued, result fields empty).
// Everything after that belongs to the worker, which must keep:
// started_at nil while queued, completed_at nil unless terminal,
// duration_ms nil unless completed_at is set.
type Execution struct {
	ID          uuid.UUID       `gorm:"primaryKey;type:uuid" json:"id"`
	TaskName    string          `gorm:"not null;index:task_executions_task_name_idx" json:"task_name"`
	ServiceName *string         `json:"service_name"`
	TriggeredBy *string         `json:"triggered_by"`
	Status      ExecutionStatus `gorm:"type:text;not null;default:'queued';index:task_executions_status_idx" json:"status"`
	EnqueuedAt  time.Time       `gorm:"not null;index:task_executions_enqueued_at_idx" json:"enqueued_at"`
	StartedAt   *time.Time      `json:"started_at"`
	CompletedAt *time.Time      `json:"completed_at"`
	ExitCode    *int            `json:"exit_code"`
	DurationMs  *int64          `json:"duration_ms"`
	Error       *string         `json:"error"`
	Logs        string          `gorm:"not null;default:''" json:"logs"`
}

func (Execution) TableName() string {
	return "task_executions"
}

// ExecutionResult สิ่งที่ worker รายงานตอนจบงาน
type ExecutionResult struct {
	Status      ExecutionStatus
	CompletedAt time.Time
	ExitCode    *int
	Logs        string
	Error       *string
}

// TaskRunSummary aggregate ต่อ task สำหรับ enrich task list
type TaskRunSummary struct {
	TaskName          string
	LastCompletedAt   *time.Time
	LastEnqueuedAt    *time.Time
	LatestExecutionID *uuid.UUID
	LatestStatus      *ExecutionStatus
}

// LastRun completed_at ล่าสุด ถ้าไม่มีใช้ enqueued_at ล่าสุด
func (s TaskRunSummary) LastRun() *time.Time {
	if s.LastCompletedAt != nil {
		return s.LastCompletedAt
	}
	return s.LastEnqueuedAt
}
