package nats

import (
	"context"
	"encoding/json"

	"github.com/nats-io/nats.go/jetstream"

	"jobcore-api/domain/ports"
	"jobcore-api/pkg/errors"
	"jobcore-api/pkg/logger"
)

// jetStreamPublisher the subset of jetstream.JetStream used for publishing
type jetStreamPublisher interface {
	Publish(ctx context.Context, subject string, payload []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
}

// Publisher publishes execution events to JetStream
type Publisher struct {
	js     jetStreamPublisher
	status func(ctx context.Context) (*StreamStatus, error)
}

var _ ports.ExecutionEventPublisher = (*Publisher)(nil)

func NewPublisher(client *Client) *Publisher {
	return &Publisher{js: client.js, status: client.GetStatus}
}

// PublishEnqueued ส่ง execution ที่เพิ่ง enqueue ให้ runner
// Msg-Id = execution id ทำให้ publish ซ้ำไม่สร้าง message ซ้ำ
func (p *Publisher) PublishEnqueued(ctx context.Context, event *ports.ExecutionEnqueuedEvent) error {
	data, err := encodeEvent(event)
	if err != nil {
		return err
	}

	ack, err := p.js.Publish(ctx, SubjectEnqueued, data, jetstream.WithMsgID(event.ExecutionID))
	if err != nil {
		return errors.Wrapf(err, "publish execution %s", event.ExecutionID)
	}

	logger.InfoContext(ctx, "Execution published to JetStream",
		"execution_id", event.ExecutionID,
		"task_name", event.TaskName,
		"stream", ack.Stream,
		"sequence", ack.Sequence,
		"duplicate", ack.Duplicate,
	)
	return nil
}

func (p *Publisher) GetQueueStatus(ctx context.Context) (*ports.QueueStatus, error) {
	s, err := p.status(ctx)
	if err != nil {
		return nil, err
	}
	return &ports.QueueStatus{
		StreamName: s.Name,
		Messages:   s.Messages,
		Bytes:      s.Bytes,
		Consumers:  s.Consumers,
	}, nil
}

func encodeEvent(event *ports.ExecutionEnqueuedEvent) ([]byte, error) {
	if event == nil {
		return nil, errors.Validation("execution event is required")
	}
	data, err := json.Marshal(event)
	if err != nil {
		return nil, errors.Wrap(err, "marshal execution event")
	}
	return data, nil
}

// ═══════════════════════════════════════════════════════════════════════════════
// NoopPublisher - ใช้เมื่อไม่ได้ตั้ง NATS_URL
// ═══════════════════════════════════════════════════════════════════════════════

type NoopPublisher struct{}

var _ ports.ExecutionEventPublisher = NoopPublisher{}

func (NoopPublisher) PublishEnqueued(ctx context.Context, event *ports.ExecutionEnqueuedEvent) error {
	if event != nil {
		logger.DebugContext(ctx, "NATS disabled, execution event not published", "execution_id", event.ExecutionID)
	}
	return nil
}

func (NoopPublisher) GetQueueStatus(context.Context) (*ports.QueueStatus, error) {
	return &ports.QueueStatus{StreamName: StreamName}, nil
}
