package prompt

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screenforge/screenforge/internal/knowledge"
	"github.com/screenforge/screenforge/internal/models"
)

func testIntent() *models.Intent {
	return &models.Intent{
		Name:    "customer_list",
		Product: "miplatform",
		Kind:    models.KindList,
		Fields: []models.Field{
			{Name: "cust_id", Type: models.FieldText, Label: "Customer ID", ReadOnly: true},
			{Name: "cust_name", Type: models.FieldText, Label: "Customer Name", Required: true},
		},
		Actions: []models.Action{models.ActionSearch},
	}
}

func testTemplate() *models.Template {
	return &models.Template{
		Product:        "miplatform",
		Kind:           models.KindList,
		SystemTemplate: "You generate UI screens.",
		UserTemplate:   "Generate a {{screen_kind}} screen named {{screen_name}}.\nFields:\n{{fields}}\nActions: {{actions}}",
		Version:        3,
		Active:         true,
	}
}

func selection(contents ...string) *knowledge.Selection {
	sel := &knowledge.Selection{}
	for i, c := range contents {
		var id uuid.UUID
		id[0] = byte(i + 1)
		sel.Entries = append(sel.Entries, models.KnowledgeEntry{ID: id, Content: c})
	}
	return sel
}

func TestCompileSectionOrder(t *testing.T) {
	rule := &models.CompanyRule{Content: "All labels in Korean."}
	p := Compile(testIntent(), testTemplate(), selection("K1", "K2"), rule)

	sysIdx := strings.Index(p.System, "You generate UI screens.")
	knowIdx := strings.Index(p.System, "K1")
	ruleIdx := strings.Index(p.System, "All labels in Korean.")

	require.GreaterOrEqual(t, sysIdx, 0)
	assert.Less(t, sysIdx, knowIdx, "knowledge must follow the skeleton")
	assert.Less(t, knowIdx, ruleIdx, "rules must follow knowledge")
	assert.Contains(t, p.System, knowledgeHeader)
	assert.Contains(t, p.System, rulesHeader)
}

func TestCompileOmitsRulesBlockWithoutRule(t *testing.T) {
	p := Compile(testIntent(), testTemplate(), selection("K1"), nil)
	assert.NotContains(t, p.System, rulesHeader)
}

func TestCompileIsPure(t *testing.T) {
	sel := selection("K1", "K2")
	a := Compile(testIntent(), testTemplate(), sel, nil)
	b := Compile(testIntent(), testTemplate(), sel, nil)
	assert.Equal(t, a.System, b.System)
	assert.Equal(t, a.User, b.User)
	assert.Equal(t, a.Manifest, b.Manifest)
}

func TestCompileUserPlaceholders(t *testing.T) {
	p := Compile(testIntent(), testTemplate(), selection("K"), nil)

	assert.Contains(t, p.User, "customer_list")
	assert.Contains(t, p.User, "list screen")
	assert.Contains(t, p.User, "Customer ID")
	assert.Contains(t, p.User, "Customer Name")
	assert.Contains(t, p.User, "search")
	assert.Empty(t, p.Manifest.Warnings)
}

func TestCompileUnknownPlaceholderLeftVerbatim(t *testing.T) {
	tmpl := testTemplate()
	tmpl.UserTemplate = "Screen {{screen_name}} uses {{mystery_slot}}."

	p := Compile(testIntent(), tmpl, selection("K"), nil)

	assert.Contains(t, p.User, "{{mystery_slot}}")
	require.Len(t, p.Manifest.Warnings, 1)
	assert.Contains(t, p.Manifest.Warnings[0], "mystery_slot")
}

func TestCompileManifest(t *testing.T) {
	sel := selection("alpha", "beta")
	p := Compile(testIntent(), testTemplate(), sel, nil)

	assert.Equal(t, 3, p.Manifest.TemplateVersion)
	require.Len(t, p.Manifest.KnowledgeIDs, 2)
	assert.Equal(t, sel.Entries[0].ID, p.Manifest.KnowledgeIDs[0])
	assert.Positive(t, p.Manifest.TokenEstimate)
}

func TestCompileZeroKnowledgeRoundTrip(t *testing.T) {
	// The CUSTOMER round trip: list template, no knowledge entries, no rule.
	p := Compile(testIntent(), testTemplate(), &knowledge.Selection{}, nil)
	assert.Contains(t, p.User, "customer_list")
	assert.Contains(t, p.User, "Customer ID")
	assert.Contains(t, p.User, "Customer Name")
}
