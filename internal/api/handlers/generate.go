package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/screenforge/screenforge/internal/models"
	"github.com/screenforge/screenforge/internal/normalizer"
	"github.com/screenforge/screenforge/internal/pipeline"
	"github.com/screenforge/screenforge/internal/tenant"
	"github.com/screenforge/screenforge/internal/validator"
)

// Runner is the slice of the orchestrator the transport needs.
type Runner interface {
	Run(ctx context.Context, req pipeline.Request) *pipeline.Response
}

type GenerateHandler struct {
	orch Runner
}

func NewGenerateHandler(orch Runner) *GenerateHandler {
	return &GenerateHandler{orch: orch}
}

// generateRequest is the inbound envelope. The caller supplies input data
// and context only: no model identity, no sampling parameters, no prompt
// text.
type generateRequest struct {
	Product string           `json:"product"`
	Input   normalizer.Input `json:"input"`
	Options generateOptions  `json:"options"`
	Context generateContext  `json:"context"`
}

type generateOptions struct {
	// Language is advisory; text normalization detects the language from
	// the description itself.
	Language  string   `json:"language,omitempty"`
	FocusTags []string `json:"focus_tags,omitempty"`
}

type generateContext struct {
	Tenant        string   `json:"tenant,omitempty"`
	Project       string   `json:"project,omitempty"`
	OutputTargets []string `json:"output_targets,omitempty"`
}

func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	switch req.Input.Type {
	case normalizer.TypeSchema, normalizer.TypeQuery, normalizer.TypeText:
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "input.type must be schema, query or text"})
		return
	}
	if _, err := validator.ContractFor(req.Product); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown product"})
		return
	}
	req.Input.Product = req.Product

	// Output targets narrow knowledge selection the same way focus tags do.
	focus := append(req.Options.FocusTags, req.Context.OutputTargets...)

	resp := h.orch.Run(r.Context(), pipeline.Request{
		TenantID:  tenantID(r.Context(), req.Context.Tenant),
		Input:     req.Input,
		FocusTags: focus,
	})

	writeJSON(w, statusCode(resp), resp)
}

// tenantID prefers the authenticated tenant; the envelope's context.tenant
// only fills in when the request carries no API key.
func tenantID(ctx context.Context, fromBody string) uuid.UUID {
	if id := tenant.IDFromContext(ctx); id != uuid.Nil {
		return id
	}
	if id, err := uuid.Parse(fromBody); err == nil {
		return id
	}
	return uuid.Nil
}

// statusCode maps pipeline outcomes onto HTTP. Partial success is still a
// 200: the caller got artifacts plus findings.
func statusCode(resp *pipeline.Response) int {
	if resp.Status != models.StatusFailed {
		return http.StatusOK
	}
	switch resp.Category {
	case "normalization":
		return http.StatusBadRequest
	case "template":
		return http.StatusUnprocessableEntity
	case "knowledge":
		return http.StatusServiceUnavailable
	case "backend":
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
