package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// GenerationRecord is the audit trail of one pipeline run. The raw user
// input is never stored: only the input type and the normalized intent.
type GenerationRecord struct {
	ID              uuid.UUID        `json:"id" db:"id"`
	TenantID        uuid.UUID        `json:"tenant_id" db:"tenant_id"`
	Product         string           `json:"product" db:"product"`
	InputType       string           `json:"input_type" db:"input_type"`
	Intent          json.RawMessage  `json:"intent" db:"intent"`
	TemplateVersion int              `json:"template_version" db:"template_version"`
	Status          GenerationStatus `json:"status" db:"status"`
	ArtifactsHash   string           `json:"artifacts_hash,omitempty" db:"artifacts_hash"`
	Artifacts       json.RawMessage  `json:"artifacts,omitempty" db:"artifacts"`
	Warnings        []string         `json:"warnings,omitempty" db:"warnings"`
	Attempts        int              `json:"attempts" db:"attempts"`
	ElapsedMs       int64            `json:"elapsed_ms" db:"elapsed_ms"`
	CreatedAt       time.Time        `json:"created_at" db:"created_at"`
}

// Tenant identifies a calling organization. Tenancy affects company rules
// and audit attribution only; it never changes pipeline behavior.
type Tenant struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// APIKey is the transport-edge credential resolving a request to a tenant.
type APIKey struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	TenantID  uuid.UUID  `json:"tenant_id" db:"tenant_id"`
	KeyHash   string     `json:"-" db:"key_hash"`
	Name      string     `json:"name" db:"name"`
	ExpiresAt *time.Time `json:"expires_at,omitempty" db:"expires_at"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}
