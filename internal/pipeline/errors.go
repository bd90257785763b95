package pipeline

import (
	"errors"
	"fmt"

	"github.com/screenforge/screenforge/internal/knowledge"
	"github.com/screenforge/screenforge/internal/llm"
	"github.com/screenforge/screenforge/internal/normalizer"
	"github.com/screenforge/screenforge/internal/template"
)

// Error is what a failed run surfaces to the transport layer: a category
// for the caller, with internals (provider identity, prompt text) kept out
// of the message.
type Error struct {
	Category string // normalization, template, knowledge, backend, internal
	Message  string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Category, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// categorize maps the pipeline error taxonomy onto caller-safe categories.
func categorize(err error) *Error {
	var nerr *normalizer.NormalizationError
	if errors.As(err, &nerr) {
		return &Error{Category: "normalization", Message: "input could not be normalized", Err: err}
	}
	if errors.Is(err, template.ErrTemplateNotFound) {
		return &Error{Category: "template", Message: "no active template for this product and kind", Err: err}
	}
	var lerr *knowledge.LoadError
	if errors.As(err, &lerr) {
		return &Error{Category: "knowledge", Message: "knowledge corpus unavailable", Err: err}
	}
	if errors.Is(err, llm.ErrBackendUnavailable) {
		return &Error{Category: "backend", Message: "generation backend unavailable", Err: err}
	}
	var berr *llm.BackendError
	if errors.As(err, &berr) {
		return &Error{Category: "backend", Message: "generation failed", Err: err}
	}
	return &Error{Category: "internal", Message: "internal error", Err: err}
}
