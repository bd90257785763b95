package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screenforge/screenforge/internal/knowledge"
	"github.com/screenforge/screenforge/internal/llm"
	"github.com/screenforge/screenforge/internal/models"
	"github.com/screenforge/screenforge/internal/normalizer"
	"github.com/screenforge/screenforge/internal/template"
)

type fakeStore struct {
	entries []models.KnowledgeEntry
	err     error
}

func (f *fakeStore) FindByTags(_ context.Context, tags []string) ([]models.KnowledgeEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	var matched []models.KnowledgeEntry
	for _, e := range f.entries {
		if e.MatchesAny(tags) {
			matched = append(matched, e)
		}
	}
	return matched, nil
}

// scriptedGenerator replays a fixed sequence of responses, one per call.
type scriptedGenerator struct {
	test      *testing.T
	responses []*llm.GenerateResponse
	errs      []error
	calls     int
}

func (g *scriptedGenerator) Generate(_ context.Context, _ llm.GenerateRequest) (*llm.GenerateResponse, error) {
	i := g.calls
	g.calls++
	require.Less(g.test, i, len(g.responses), "generator called more times than scripted")
	return g.responses[i], g.errs[i]
}

type memorySink struct {
	records []models.GenerationRecord
}

func (s *memorySink) Record(_ context.Context, rec models.GenerationRecord) {
	s.records = append(s.records, rec)
}

const cleanOutput = `[SCREEN]
<Form id="customer_list">
  <Dataset id="ds_list"/>
  <Grid id="grd_list" binddataset="ds_list"/>
</Form>
[SCRIPT]
function fn_search() {
  ds_list.clearData();
}
`

// brokenOutput is missing the required [SCRIPT] slot.
const brokenOutput = `[SCREEN]
<Form id="customer_list">
  <Dataset id="ds_list"/>
</Form>
`

func schemaInput() normalizer.Input {
	return normalizer.Input{
		Type:    normalizer.TypeSchema,
		Product: "miplatform",
		Kind:    models.KindList,
		Actions: []models.Action{models.ActionSearch},
		Table:   "CUSTOMER",
		Columns: []normalizer.Column{
			{Name: "cust_id", DataType: "varchar", PrimaryKey: true},
			{Name: "cust_nm", DataType: "varchar"},
		},
	}
}

func newTestOrchestrator(gen Generator, sink Sink, cfg Config) *Orchestrator {
	store := &fakeStore{entries: []models.KnowledgeEntry{{
		ID:        uuid.New(),
		Name:      "grid-basics",
		Tags:      []string{"miplatform"},
		Priority:  models.PriorityEssential,
		TokenCost: 50,
		Content:   "bind grids to datasets",
	}}}
	selector := knowledge.NewSelector(store, nil, 1000)

	templates := template.NewMemorySource()
	templates.Put(&models.Template{
		ID:             uuid.New(),
		Product:        "miplatform",
		Kind:           models.KindList,
		SystemTemplate: "You build {{product}} screens.",
		UserTemplate:   "Screen {{screen_name}} with fields {{fields}}.",
		Version:        3,
		Active:         true,
	})

	return NewOrchestrator(selector, templates, gen, sink, cfg)
}

func scripted(t *testing.T, contents ...string) *scriptedGenerator {
	g := &scriptedGenerator{test: t}
	for _, c := range contents {
		g.responses = append(g.responses, &llm.GenerateResponse{Content: c, Attempts: 1})
		g.errs = append(g.errs, nil)
	}
	return g
}

func TestRunSuccessPath(t *testing.T) {
	sink := &memorySink{}
	gen := scripted(t, cleanOutput)
	orch := newTestOrchestrator(gen, sink, Config{MaxRegenerations: 1, AuditRetention: "hash"})

	resp := orch.Run(context.Background(), Request{TenantID: uuid.New(), Input: schemaInput()})

	assert.Equal(t, models.StatusSuccess, resp.Status)
	assert.Contains(t, resp.Artifacts["screen"], "ds_list")
	assert.Contains(t, resp.Artifacts["script"], "fn_search")
	assert.Equal(t, GeneratorID, resp.Meta.GeneratorID)

	want := []State{
		StateReceived, StateNormalized, StateKnowledgeLoaded,
		StatePromptCompiled, StateGenerated, StateValidated, StateSuccess,
	}
	var got []State
	for _, e := range resp.Trace.Events {
		if e.Type == EventState {
			got = append(got, e.State)
		}
	}
	assert.Equal(t, want, got)
	assert.Zero(t, resp.Trace.Count(EventRetry))
	assert.Zero(t, resp.Trace.Count(EventRegenerate))
}

func TestRunBackendRetriesSurfaceInTrace(t *testing.T) {
	gen := scripted(t, cleanOutput)
	gen.responses[0].Attempts = 3 // two transient failures before success
	orch := newTestOrchestrator(gen, &memorySink{}, Config{MaxRegenerations: 1})

	resp := orch.Run(context.Background(), Request{Input: schemaInput()})

	assert.Equal(t, models.StatusSuccess, resp.Status)
	assert.Equal(t, 2, resp.Trace.Count(EventRetry))
	assert.Equal(t, StateSuccess, resp.Trace.Last())
}

func TestRunRegeneratesOnceThenSucceeds(t *testing.T) {
	gen := scripted(t, brokenOutput, cleanOutput)
	orch := newTestOrchestrator(gen, &memorySink{}, Config{MaxRegenerations: 1})

	resp := orch.Run(context.Background(), Request{Input: schemaInput()})

	assert.Equal(t, models.StatusSuccess, resp.Status)
	assert.Equal(t, 1, resp.Trace.Count(EventRegenerate))
	assert.Equal(t, 2, gen.calls)
}

func TestRunPartialSuccessWhenRegenerationsExhausted(t *testing.T) {
	gen := scripted(t, brokenOutput, brokenOutput)
	orch := newTestOrchestrator(gen, &memorySink{}, Config{MaxRegenerations: 1})

	resp := orch.Run(context.Background(), Request{Input: schemaInput()})

	assert.Equal(t, models.StatusPartialSuccess, resp.Status)
	assert.Equal(t, 2, gen.calls)
	assert.NotEmpty(t, resp.Warnings)
	// The survivable artifact is still returned.
	assert.Contains(t, resp.Artifacts["screen"], "ds_list")
}

func TestRunFailsOnNormalization(t *testing.T) {
	sink := &memorySink{}
	gen := scripted(t) // must never be called
	orch := newTestOrchestrator(gen, sink, Config{})

	in := schemaInput()
	in.Columns = nil
	resp := orch.Run(context.Background(), Request{Input: in})

	assert.Equal(t, models.StatusFailed, resp.Status)
	assert.Equal(t, StateFailed, resp.Trace.Last())
	assert.Equal(t, "normalization", resp.Category)
	require.Len(t, resp.Warnings, 1)
	assert.Contains(t, resp.Warnings[0], "normalized")
	assert.Zero(t, gen.calls)

	require.Len(t, sink.records, 1)
	assert.Equal(t, models.StatusFailed, sink.records[0].Status)
}

func TestRunFailsOnMissingTemplate(t *testing.T) {
	in := schemaInput()
	in.Kind = models.KindPopup // no template registered for popups
	orch := newTestOrchestrator(scripted(t), &memorySink{}, Config{})

	resp := orch.Run(context.Background(), Request{Input: in})

	assert.Equal(t, models.StatusFailed, resp.Status)
	require.Len(t, resp.Warnings, 1)
	assert.Contains(t, resp.Warnings[0], "template")
}

func TestRunFailsWhenBackendUnavailable(t *testing.T) {
	gen := &scriptedGenerator{
		test:      t,
		responses: []*llm.GenerateResponse{nil},
		errs:      []error{llm.ErrBackendUnavailable},
	}
	orch := newTestOrchestrator(gen, &memorySink{}, Config{})

	resp := orch.Run(context.Background(), Request{Input: schemaInput()})

	assert.Equal(t, models.StatusFailed, resp.Status)
	assert.Equal(t, "backend", resp.Category)
	require.Len(t, resp.Warnings, 1)
	assert.Contains(t, resp.Warnings[0], "backend unavailable")
}

func TestAuditRecordHashRetention(t *testing.T) {
	sink := &memorySink{}
	tenant := uuid.New()
	orch := newTestOrchestrator(scripted(t, cleanOutput), sink, Config{AuditRetention: "hash"})

	orch.Run(context.Background(), Request{TenantID: tenant, Input: schemaInput()})

	require.Len(t, sink.records, 1)
	rec := sink.records[0]
	assert.Equal(t, tenant, rec.TenantID)
	assert.Equal(t, "miplatform", rec.Product)
	assert.Equal(t, "schema", rec.InputType)
	assert.Equal(t, 3, rec.TemplateVersion)
	assert.Equal(t, models.StatusSuccess, rec.Status)
	assert.Equal(t, 1, rec.Attempts)
	assert.NotEmpty(t, rec.ArtifactsHash)
	assert.Nil(t, rec.Artifacts, "hash retention must not keep artifact bodies")
	assert.Contains(t, string(rec.Intent), "customer_list")
}

func TestAuditRecordFullRetention(t *testing.T) {
	sink := &memorySink{}
	orch := newTestOrchestrator(scripted(t, cleanOutput), sink, Config{AuditRetention: "full"})

	orch.Run(context.Background(), Request{Input: schemaInput()})

	require.Len(t, sink.records, 1)
	rec := sink.records[0]
	assert.NotEmpty(t, rec.ArtifactsHash)
	assert.Contains(t, string(rec.Artifacts), "fn_search")
}

func TestCategorizeKnowledgeFailure(t *testing.T) {
	store := &fakeStore{err: errors.New("connection refused")}
	selector := knowledge.NewSelector(store, nil, 1000)
	templates := template.NewMemorySource()
	orch := NewOrchestrator(selector, templates, scripted(t), &memorySink{}, Config{})

	resp := orch.Run(context.Background(), Request{Input: schemaInput()})

	assert.Equal(t, models.StatusFailed, resp.Status)
	require.Len(t, resp.Warnings, 1)
	assert.Contains(t, resp.Warnings[0], "knowledge")
}
