package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/screenforge/screenforge/internal/audit"
	"github.com/screenforge/screenforge/internal/models"
	"github.com/screenforge/screenforge/internal/queue"
)

type AuditWorker struct {
	svc *audit.Service
}

func NewAuditWorker(svc *audit.Service) *AuditWorker {
	return &AuditWorker{svc: svc}
}

func (w *AuditWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload queue.AuditRecordPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	var rec models.GenerationRecord
	if err := json.Unmarshal(payload.Record, &rec); err != nil {
		return fmt.Errorf("unmarshal generation record: %w", err)
	}

	if err := w.svc.Insert(ctx, rec); err != nil {
		// Returning the error lets asynq retry the write.
		return err
	}

	slog.Info("audit record persisted", "record_id", rec.ID, "status", rec.Status)
	return nil
}
