package nats

import (
	"context"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"jobcore-api/pkg/errors"
	"jobcore-api/pkg/logger"
)

// Client wraps NATS connection with JetStream context
type Client struct {
	conn   *nats.Conn
	js     jetstream.JetStream
	stream jetstream.Stream
}

// ClientConfig configuration สำหรับ NATS Client
type ClientConfig struct {
	URL    string // nats://localhost:4222
	Stream StreamSettings
}

// NewClient connects and makes sure the execution events stream exists.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("nats url is empty")
	}
	if cfg.Stream.MaxAge <= 0 {
		cfg.Stream = DefaultStreamSettings()
	}

	nc, err := nats.Connect(cfg.URL,
		nats.Name("jobcore-api"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, errors.Wrap(err, "connect to NATS")
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, errors.Wrap(err, "create JetStream context")
	}

	client := &Client{conn: nc, js: js}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.setupStream(ctx, cfg.Stream); err != nil {
		nc.Close()
		return nil, err
	}

	logger.Info("NATS client initialized", "url", cfg.URL, "stream", StreamName)
	return client, nil
}

func (c *Client) setupStream(ctx context.Context, settings StreamSettings) error {
	stream, err := c.js.CreateOrUpdateStream(ctx, streamConfig(settings))
	if err != nil {
		return errors.Wrap(err, "create/update execution stream")
	}
	c.stream = stream
	logger.Info("JetStream stream ready", "name", StreamName)
	return nil
}

// streamConfig work queue: runner ack แล้ว message หายไป
func streamConfig(settings StreamSettings) jetstream.StreamConfig {
	return jetstream.StreamConfig{
		Name:        StreamName,
		Subjects:    []string{SubjectEnqueued},
		Storage:     jetstream.FileStorage,
		Retention:   jetstream.WorkQueuePolicy,
		MaxAge:      settings.MaxAge,
		Replicas:    settings.Replicas,
		Description: "job-core queued executions",
	}
}

// ═══════════════════════════════════════════════════════════════════════════════
// Status
// ═══════════════════════════════════════════════════════════════════════════════

// GetStatus ดึงสถานะของ stream และ runner consumer
func (c *Client) GetStatus(ctx context.Context) (*StreamStatus, error) {
	info, err := c.stream.Info(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "get stream info")
	}

	status := &StreamStatus{
		Name:      info.Config.Name,
		Messages:  info.State.Msgs,
		Bytes:     info.State.Bytes,
		FirstSeq:  info.State.FirstSeq,
		LastSeq:   info.State.LastSeq,
		Consumers: info.State.Consumers,
	}

	// consumer อาจยังไม่มีถ้า runner ยังไม่เริ่ม
	if consumer, err := c.stream.Consumer(ctx, ConsumerName); err == nil {
		if ci, err := consumer.Info(ctx); err == nil {
			status.NumPending = ci.NumPending
			status.NumAckPending = ci.NumAckPending
		}
	}
	return status, nil
}

// ═══════════════════════════════════════════════════════════════════════════════
// Lifecycle
// ═══════════════════════════════════════════════════════════════════════════════

// Close drains pending publishes then closes the connection
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	if err := c.conn.Drain(); err != nil {
		c.conn.Close()
		return err
	}
	logger.Info("NATS connection closed")
	return nil
}

// Ping ทดสอบ connection
func (c *Client) Ping() error {
	return c.conn.FlushTimeout(5 * time.Second)
}

func (c *Client) IsConnected() bool {
	return c.conn != nil && c.conn.IsConnected()
}
