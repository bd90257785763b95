package template

import (
	"context"

	"github.com/google/uuid"

	"github.com/screenforge/screenforge/internal/models"
)

// MemorySource is an in-process Source used in tests and seed setups.
type MemorySource struct {
	templates map[string]*models.Template
	rules     map[uuid.UUID]*models.CompanyRule
}

func NewMemorySource() *MemorySource {
	return &MemorySource{
		templates: make(map[string]*models.Template),
		rules:     make(map[uuid.UUID]*models.CompanyRule),
	}
}

func (s *MemorySource) Put(t *models.Template) {
	s.templates[t.Product+"/"+string(t.Kind)] = t
}

func (s *MemorySource) PutRule(r *models.CompanyRule) {
	s.rules[r.TenantID] = r
}

func (s *MemorySource) ActiveTemplate(_ context.Context, product string, kind models.ScreenKind) (*models.Template, error) {
	t, ok := s.templates[product+"/"+string(kind)]
	if !ok {
		return nil, ErrTemplateNotFound
	}
	return t, nil
}

func (s *MemorySource) RuleForTenant(_ context.Context, tenantID uuid.UUID) (*models.CompanyRule, error) {
	return s.rules[tenantID], nil
}
