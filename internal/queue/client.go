package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/screenforge/screenforge/internal/config"
	"github.com/screenforge/screenforge/internal/models"
)

type Client struct {
	client *asynq.Client
}

func NewClient(cfg config.RedisConfig) *Client {
	return &Client{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
	}
}

func (c *Client) Close() error {
	return c.client.Close()
}

func (c *Client) EnqueueAuditRecord(rec models.GenerationRecord) error {
	blob, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal generation record: %w", err)
	}
	return c.enqueue(TypeAuditRecord, AuditRecordPayload{Record: blob},
		asynq.MaxRetry(5), asynq.Timeout(30*time.Second))
}

func (c *Client) enqueue(taskType string, payload interface{}, opts ...asynq.Option) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	task := asynq.NewTask(taskType, data)
	_, err = c.client.Enqueue(task, opts...)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", taskType, err)
	}
	return nil
}

// AuditSink hands finished-run records to the worker queue. Enqueue
// failures are logged and swallowed: audit must never fail a generation
// that already succeeded.
type AuditSink struct {
	client *Client
}

func NewAuditSink(client *Client) *AuditSink {
	return &AuditSink{client: client}
}

func (s *AuditSink) Record(_ context.Context, rec models.GenerationRecord) {
	if err := s.client.EnqueueAuditRecord(rec); err != nil {
		slog.Error("enqueue audit record failed", "record_id", rec.ID, "error", err)
	}
}
