package normalizer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/screenforge/screenforge/internal/models"
)

// InputType discriminates the three accepted input shapes.
type InputType string

const (
	TypeSchema InputType = "schema"
	TypeQuery  InputType = "query"
	TypeText   InputType = "text"
)

// Column is one column of a schema or query input.
type Column struct {
	Name       string `json:"name"`
	DataType   string `json:"data_type"`
	PrimaryKey bool   `json:"primary_key,omitempty"`
	Nullable   bool   `json:"nullable,omitempty"`
}

// Input is the tagged union handed to Normalize. Exactly one of the
// type-specific sections is consulted, chosen by Type.
type Input struct {
	Type    InputType         `json:"type"`
	Product string            `json:"product"`
	Kind    models.ScreenKind `json:"kind,omitempty"`
	Actions []models.Action   `json:"actions,omitempty"`

	// schema input
	Table   string   `json:"table,omitempty"`
	Columns []Column `json:"columns,omitempty"`

	// query input
	SQL        string     `json:"sql,omitempty"`
	SampleRows [][]string `json:"sample_rows,omitempty"`

	// text input
	Description string `json:"description,omitempty"`
}

// NormalizationError reports invalid input detected before any knowledge
// or model work begins.
type NormalizationError struct {
	Reason string
	Err    error
}

func (e *NormalizationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("normalize: %s: %v", e.Reason, e.Err)
	}
	return "normalize: " + e.Reason
}

func (e *NormalizationError) Unwrap() error { return e.Err }

var (
	ErrEmptyColumns = errors.New("input has no columns")
	ErrNotSelect    = errors.New("query is not a single SELECT statement")
	ErrEmptyText    = errors.New("description is empty")
)

// Normalize converts raw input into a canonical Intent. The result is a
// pure function of the input: normalizing the same input twice yields
// identical intents.
func Normalize(in Input) (*models.Intent, error) {
	kind := models.KindList
	if in.Kind != "" {
		parsed, err := models.ParseScreenKind(string(in.Kind))
		if err != nil {
			return nil, &NormalizationError{Reason: "kind", Err: err}
		}
		kind = parsed
	}

	switch in.Type {
	case TypeSchema:
		return fromSchema(in, kind)
	case TypeQuery:
		return fromQuery(in, kind)
	case TypeText:
		return fromText(in, kind)
	default:
		return nil, &NormalizationError{Reason: fmt.Sprintf("unknown input type %q", in.Type)}
	}
}

// defaultActions returns the actions implied by a kind when the caller
// requested none.
func defaultActions(kind models.ScreenKind) []models.Action {
	switch kind {
	case models.KindList:
		return []models.Action{models.ActionSearch}
	case models.KindDetail:
		return []models.Action{models.ActionSearch, models.ActionSave}
	case models.KindPopup:
		return []models.Action{models.ActionSearch}
	case models.KindCrud:
		return []models.Action{models.ActionSearch, models.ActionAdd, models.ActionSave, models.ActionDelete}
	}
	return nil
}

func intentName(entity string, kind models.ScreenKind) string {
	return strings.ToLower(entity) + "_" + string(kind)
}
