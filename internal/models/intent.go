package models

import (
	"fmt"
	"strings"
)

// ScreenKind enumerates the screen/entity layouts the pipeline can target.
type ScreenKind string

const (
	KindList   ScreenKind = "list"
	KindDetail ScreenKind = "detail"
	KindPopup  ScreenKind = "popup"
	KindCrud   ScreenKind = "crud"
)

func ParseScreenKind(s string) (ScreenKind, error) {
	switch ScreenKind(strings.ToLower(s)) {
	case KindList, KindDetail, KindPopup, KindCrud:
		return ScreenKind(strings.ToLower(s)), nil
	}
	return "", fmt.Errorf("unknown screen kind %q", s)
}

// FieldType is the semantic UI type inferred for a field.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldNumber   FieldType = "number"
	FieldDate     FieldType = "date"
	FieldDateTime FieldType = "datetime"
	FieldCheckbox FieldType = "checkbox"
	FieldSelect   FieldType = "select"
	FieldTextArea FieldType = "textarea"
	FieldHidden   FieldType = "hidden"
)

// Action is a requested screen capability (maps to generated functions).
type Action string

const (
	ActionSearch Action = "search"
	ActionSave   Action = "save"
	ActionDelete Action = "delete"
	ActionAdd    Action = "add"
)

// Field describes a single column/input of the target screen.
type Field struct {
	Name     string    `json:"name"`
	Type     FieldType `json:"type"`
	Label    string    `json:"label"`
	Required bool      `json:"required"`
	ReadOnly bool      `json:"read_only"`
}

// Intent is the canonical representation of what should be generated.
// It is produced once by the normalizer and treated as immutable afterwards:
// the name is derived from source input, never user-supplied free text.
type Intent struct {
	Name    string     `json:"name"`
	Product string     `json:"product"`
	Kind    ScreenKind `json:"kind"`
	Fields  []Field    `json:"fields"`
	Actions []Action   `json:"actions"`
}

// FieldNames returns the field names in declaration order.
func (i *Intent) FieldNames() []string {
	names := make([]string, len(i.Fields))
	for idx, f := range i.Fields {
		names[idx] = f.Name
	}
	return names
}

// HasAction reports whether the intent requests the given action.
func (i *Intent) HasAction(a Action) bool {
	for _, x := range i.Actions {
		if x == a {
			return true
		}
	}
	return false
}
