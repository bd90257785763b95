package prompt

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/screenforge/screenforge/internal/knowledge"
	"github.com/screenforge/screenforge/internal/models"
	"github.com/screenforge/screenforge/pkg/tokenizer"
)

const (
	knowledgeHeader = "--- reference knowledge ---"
	knowledgeFooter = "--- end reference knowledge ---"
	rulesHeader     = "--- company rules ---"
	rulesFooter     = "--- end company rules ---"
	entryDelimiter  = "\n\n---\n\n"
)

var placeholderPattern = regexp.MustCompile(`\{\{(\w+)\}\}`)

// Compile assembles the system and user prompt from a template, the
// selected knowledge, and an optional company rule. It is pure: identical
// inputs yield byte-identical output.
//
// System text order is a contract: template skeleton, then the knowledge
// block, then (only if present) the company-rules block.
func Compile(intent *models.Intent, tmpl *models.Template, sel *knowledge.Selection, rule *models.CompanyRule) *models.CompiledPrompt {
	var sb strings.Builder
	sb.WriteString(strings.TrimRight(tmpl.SystemTemplate, "\n"))

	sb.WriteString("\n\n")
	sb.WriteString(knowledgeHeader)
	sb.WriteString("\n")
	for i, e := range sel.Entries {
		if i > 0 {
			sb.WriteString(entryDelimiter)
		}
		sb.WriteString(e.Content)
	}
	sb.WriteString("\n")
	sb.WriteString(knowledgeFooter)

	if rule != nil && strings.TrimSpace(rule.Content) != "" {
		sb.WriteString("\n\n")
		sb.WriteString(rulesHeader)
		sb.WriteString("\n")
		sb.WriteString(rule.Content)
		sb.WriteString("\n")
		sb.WriteString(rulesFooter)
	}
	system := sb.String()

	user, warnings := substitute(tmpl.UserTemplate, intent)

	ids := make([]uuid.UUID, len(sel.Entries))
	for i, e := range sel.Entries {
		ids[i] = e.ID
	}

	return &models.CompiledPrompt{
		System: system,
		User:   user,
		Manifest: models.PromptManifest{
			TemplateVersion: tmpl.Version,
			KnowledgeIDs:    ids,
			TokenEstimate:   tokenizer.CountTokens(system) + tokenizer.CountTokens(user),
			Warnings:        warnings,
		},
	}
}

// substitute replaces the closed set of known placeholders. Unknown
// placeholders are left verbatim and reported as warnings, never dropped.
func substitute(userTemplate string, intent *models.Intent) (string, []string) {
	values := placeholderValues(intent)

	var warnings []string
	seen := make(map[string]bool)
	out := placeholderPattern.ReplaceAllStringFunc(userTemplate, func(match string) string {
		key := match[2 : len(match)-2]
		if val, ok := values[key]; ok {
			return val
		}
		if !seen[key] {
			seen[key] = true
			warnings = append(warnings, fmt.Sprintf("unknown placeholder {{%s}} left verbatim", key))
		}
		return match
	})
	return out, warnings
}

// placeholderValues is the enumerated substitution table. Adding a
// placeholder means adding a row here; templates cannot inject arbitrary
// keys.
func placeholderValues(intent *models.Intent) map[string]string {
	return map[string]string{
		"screen_name": intent.Name,
		"screen_kind": string(intent.Kind),
		"product":     intent.Product,
		"fields":      renderFields(intent.Fields),
		"actions":     renderActions(intent.Actions),
		"field_count": fmt.Sprintf("%d", len(intent.Fields)),
	}
}

func renderFields(fields []models.Field) string {
	if len(fields) == 0 {
		return "(no fields specified; propose a sensible set)"
	}
	var sb strings.Builder
	for _, f := range fields {
		fmt.Fprintf(&sb, "- %s (%s): %s", f.Name, f.Type, f.Label)
		var marks []string
		if f.Required {
			marks = append(marks, "required")
		}
		if f.ReadOnly {
			marks = append(marks, "read-only")
		}
		if len(marks) > 0 {
			fmt.Fprintf(&sb, " [%s]", strings.Join(marks, ", "))
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func renderActions(actions []models.Action) string {
	if len(actions) == 0 {
		return "(none)"
	}
	parts := make([]string, len(actions))
	for i, a := range actions {
		parts[i] = string(a)
	}
	return strings.Join(parts, ", ")
}
