package models

import (
	"time"

	"github.com/google/uuid"
)

// Template is the prompt skeleton for one (product, kind) pair. Exactly one
// active version exists per pair; the version number increases monotonically
// and is recorded in every compiled prompt for reproducibility.
type Template struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	Product        string     `json:"product" db:"product"`
	Kind           ScreenKind `json:"kind" db:"kind"`
	SystemTemplate string     `json:"system_template" db:"system_template"`
	UserTemplate   string     `json:"user_template" db:"user_template"`
	Version        int        `json:"version" db:"version"`
	Active         bool       `json:"active" db:"active"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
}

// CompanyRule is an opaque per-tenant addendum appended to the system
// prompt. The pipeline never parses or validates its content.
type CompanyRule struct {
	ID       uuid.UUID `json:"id" db:"id"`
	TenantID uuid.UUID `json:"tenant_id" db:"tenant_id"`
	Content  string    `json:"content" db:"content"`
}

// PromptManifest records what went into a compiled prompt.
type PromptManifest struct {
	TemplateVersion int         `json:"template_version"`
	KnowledgeIDs    []uuid.UUID `json:"knowledge_ids"`
	TokenEstimate   int         `json:"token_estimate"`
	Warnings        []string    `json:"warnings,omitempty"`
}

// CompiledPrompt is the fully assembled prompt pair plus its manifest.
// It is created fresh per request and never cached across intents.
type CompiledPrompt struct {
	System   string         `json:"system"`
	User     string         `json:"user"`
	Manifest PromptManifest `json:"manifest"`
}
