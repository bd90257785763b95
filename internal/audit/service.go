package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/screenforge/screenforge/internal/models"
	"github.com/screenforge/screenforge/internal/tenant"
)

// Service persists generation records. One row per pipeline run,
// including failed ones.
type Service struct {
	db *pgxpool.Pool
}

func NewService(db *pgxpool.Pool) *Service {
	return &Service{db: db}
}

func (s *Service) Insert(ctx context.Context, rec models.GenerationRecord) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO generation_records
		   (id, tenant_id, product, input_type, intent, template_version,
		    status, artifacts_hash, artifacts, warnings, attempts, elapsed_ms, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		rec.ID, rec.TenantID, rec.Product, rec.InputType, rec.Intent, rec.TemplateVersion,
		rec.Status, rec.ArtifactsHash, rec.Artifacts, rec.Warnings, rec.Attempts, rec.ElapsedMs, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert generation record: %w", err)
	}
	return nil
}

type Query struct {
	StartDate *time.Time
	EndDate   *time.Time
	Status    string
	Limit     int
	Offset    int
}

// List returns the calling tenant's generation records, newest first.
func (s *Service) List(ctx context.Context, q Query) ([]models.GenerationRecord, error) {
	tenantID := tenant.IDFromContext(ctx)
	if q.Limit <= 0 {
		q.Limit = 50
	}

	query := `SELECT id, tenant_id, product, input_type, intent, template_version,
	                 status, artifacts_hash, artifacts, warnings, attempts, elapsed_ms, created_at
	          FROM generation_records WHERE tenant_id = $1`
	args := []interface{}{tenantID}
	argIdx := 2

	if q.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, q.Status)
		argIdx++
	}
	if q.StartDate != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", argIdx)
		args = append(args, *q.StartDate)
		argIdx++
	}
	if q.EndDate != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", argIdx)
		args = append(args, *q.EndDate)
		argIdx++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, q.Limit, q.Offset)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query generation records: %w", err)
	}
	defer rows.Close()

	var recs []models.GenerationRecord
	for rows.Next() {
		var r models.GenerationRecord
		if err := rows.Scan(&r.ID, &r.TenantID, &r.Product, &r.InputType, &r.Intent, &r.TemplateVersion,
			&r.Status, &r.ArtifactsHash, &r.Artifacts, &r.Warnings, &r.Attempts, &r.ElapsedMs, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan generation record: %w", err)
		}
		recs = append(recs, r)
	}
	return recs, nil
}

// UsageSummary aggregates run counts per product and status.
type UsageSummary struct {
	Product     string `json:"product"`
	Status      string `json:"status"`
	TotalRuns   int    `json:"total_runs"`
	AvgElapsed  int64  `json:"avg_elapsed_ms"`
	MaxAttempts int    `json:"max_attempts"`
}

func (s *Service) Summary(ctx context.Context, startDate, endDate *time.Time) ([]UsageSummary, error) {
	tenantID := tenant.IDFromContext(ctx)

	query := `SELECT product, status, COUNT(*) as total_runs,
	                 COALESCE(AVG(elapsed_ms), 0)::bigint as avg_elapsed_ms,
	                 COALESCE(MAX(attempts), 0) as max_attempts
	          FROM generation_records WHERE tenant_id = $1`
	args := []interface{}{tenantID}
	argIdx := 2

	if startDate != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", argIdx)
		args = append(args, *startDate)
		argIdx++
	}
	if endDate != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", argIdx)
		args = append(args, *endDate)
		argIdx++
	}

	query += " GROUP BY product, status ORDER BY total_runs DESC"

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query usage summary: %w", err)
	}
	defer rows.Close()

	var summaries []UsageSummary
	for rows.Next() {
		var us UsageSummary
		if err := rows.Scan(&us.Product, &us.Status, &us.TotalRuns, &us.AvgElapsed, &us.MaxAttempts); err != nil {
			return nil, fmt.Errorf("scan usage summary: %w", err)
		}
		summaries = append(summaries, us)
	}
	return summaries, nil
}
