package ports

import (
	"context"
	"time"
)

// ═══════════════════════════════════════════════════════════════════════════════
// Execution Event Port - แจ้ง worker ว่ามี execution ใหม่เข้าคิว
// ═══════════════════════════════════════════════════════════════════════════════

// ExecutionEnqueuedEvent - Plain struct (ไม่มี NATS dependency)
type ExecutionEnqueuedEvent struct {
	ExecutionID string    `json:"id"`
	TaskName    string    `json:"task_name"`
	ServiceName *string   `json:"service_name"`
	TriggeredBy string    `json:"triggered_by"`
	EnqueuedAt  time.Time `json:"enqueued_at"`
}

// QueueStatus - สถานะของ event stream
type QueueStatus struct {
	StreamName string
	Messages   uint64
	Bytes      uint64
	Consumers  int
}

// ExecutionEventPublisher - Interface สำหรับส่ง execution events
// row ใน task_executions คือ source of truth, event เป็นแค่ nudge
type ExecutionEventPublisher interface {
	// PublishEnqueued ส่ง event หลังสร้าง execution สำเร็จ
	PublishEnqueued(ctx context.Context, event *ExecutionEnqueuedEvent) error

	// GetQueueStatus ดึงสถานะ stream
	GetQueueStatus(ctx context.Context) (*QueueStatus, error)
}
