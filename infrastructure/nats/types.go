package nats

import "time"

// Stream and subject names
const (
	StreamName      = "JOB_CORE_EXECUTIONS"
	SubjectEnqueued = "job-core.executions.enqueued"

	// ConsumerName durable consumer ของ runner ที่หยิบ execution ไปทำ
	ConsumerName = "JOB_CORE_RUNNER"
)

// ═══════════════════════════════════════════════════════════════════════════════
// StreamStatus - สถานะ stream สำหรับ monitoring
// ═══════════════════════════════════════════════════════════════════════════════

type StreamStatus struct {
	Name          string `json:"name"`
	Messages      uint64 `json:"messages"`
	Bytes         uint64 `json:"bytes"`
	FirstSeq      uint64 `json:"first_seq"`
	LastSeq       uint64 `json:"last_seq"`
	Consumers     int    `json:"consumers"`
	NumPending    uint64 `json:"num_pending"`
	NumAckPending int    `json:"num_ack_pending"`
}

// StreamSettings ค่า retention ของ stream
type StreamSettings struct {
	MaxAge   time.Duration
	Replicas int
}

// DefaultStreamSettings execution events เก็บไว้ 24 ชม.
func DefaultStreamSettings() StreamSettings {
	return StreamSettings{MaxAge: 24 * time.Hour, Replicas: 1}
}
