package template

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/screenforge/screenforge/internal/models"
)

type PGSource struct {
	db *pgxpool.Pool
}

func NewPGSource(db *pgxpool.Pool) *PGSource {
	return &PGSource{db: db}
}

func (s *PGSource) ActiveTemplate(ctx context.Context, product string, kind models.ScreenKind) (*models.Template, error) {
	var t models.Template
	err := s.db.QueryRow(ctx,
		`SELECT id, product, kind, system_template, user_template, version, active, created_at
		 FROM templates
		 WHERE product = $1 AND kind = $2 AND active
		 ORDER BY version DESC
		 LIMIT 1`,
		product, string(kind),
	).Scan(&t.ID, &t.Product, &t.Kind, &t.SystemTemplate, &t.UserTemplate, &t.Version, &t.Active, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTemplateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get active template: %w", err)
	}
	return &t, nil
}

func (s *PGSource) RuleForTenant(ctx context.Context, tenantID uuid.UUID) (*models.CompanyRule, error) {
	if tenantID == uuid.Nil {
		return nil, nil
	}
	var r models.CompanyRule
	err := s.db.QueryRow(ctx,
		`SELECT id, tenant_id, content FROM company_rules WHERE tenant_id = $1`,
		tenantID,
	).Scan(&r.ID, &r.TenantID, &r.Content)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get company rule: %w", err)
	}
	return &r, nil
}
