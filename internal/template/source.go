package template

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/screenforge/screenforge/internal/models"
)

// ErrTemplateNotFound means no active template exists for a (product,
// kind) pair. This is a configuration problem and fatal to the request.
var ErrTemplateNotFound = errors.New("no active template for product/kind")

// Source is the read-only accessor over templates and company rules. The
// write path (CRUD) lives outside this service.
type Source interface {
	ActiveTemplate(ctx context.Context, product string, kind models.ScreenKind) (*models.Template, error)
	RuleForTenant(ctx context.Context, tenantID uuid.UUID) (*models.CompanyRule, error)
}
