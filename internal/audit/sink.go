package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/screenforge/screenforge/internal/models"
)

// DirectSink writes records straight to Postgres from the API process.
// Used when no worker queue is configured. The write runs off the request
// goroutine so a slow database never delays the response.
type DirectSink struct {
	svc *Service
}

func NewDirectSink(svc *Service) *DirectSink {
	return &DirectSink{svc: svc}
}

func (s *DirectSink) Record(_ context.Context, rec models.GenerationRecord) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.svc.Insert(ctx, rec); err != nil {
			slog.Error("audit write failed", "record_id", rec.ID, "error", err)
		}
	}()
}
