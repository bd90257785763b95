package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/screenforge/screenforge/internal/knowledge"
	"github.com/screenforge/screenforge/internal/llm"
	"github.com/screenforge/screenforge/internal/models"
	"github.com/screenforge/screenforge/internal/normalizer"
	"github.com/screenforge/screenforge/internal/prompt"
	"github.com/screenforge/screenforge/internal/template"
	"github.com/screenforge/screenforge/internal/validator"
)

// GeneratorID identifies this service in response metadata.
const GeneratorID = "screenforge"

// Generator is the capability the orchestrator needs from the model
// backend. *llm.Gateway satisfies it.
type Generator interface {
	Generate(ctx context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error)
}

// Sink receives the audit record of a finished run. Implementations must
// not block the caller; failures are theirs to log.
type Sink interface {
	Record(ctx context.Context, rec models.GenerationRecord)
}

// Request is one generation request, already parsed by the transport.
type Request struct {
	TenantID  uuid.UUID
	Input     normalizer.Input
	FocusTags []string
}

// Meta is the caller-visible metadata of a response. It deliberately
// carries no backend identity and no prompt text.
type Meta struct {
	GeneratorID string    `json:"generator_id"`
	Timestamp   time.Time `json:"timestamp"`
	ElapsedMs   int64     `json:"elapsed_ms"`
}

// Response is the outcome handed back to the transport.
type Response struct {
	Status    models.GenerationStatus `json:"status"`
	Category  string                  `json:"category,omitempty"` // set on failure only
	Artifacts map[string]string       `json:"artifacts,omitempty"`
	Warnings  []string                `json:"warnings,omitempty"`
	Meta      Meta                    `json:"meta"`

	Trace *Trace `json:"-"`
}

// Config tunes a single orchestrator.
type Config struct {
	MaxRegenerations int
	AuditRetention   string // "hash" or "full"
}

// Orchestrator sequences the pipeline: normalize, select knowledge,
// compile, generate, validate, audit. Each request runs independently;
// the orchestrator itself holds no per-request state.
type Orchestrator struct {
	selector  *knowledge.Selector
	templates template.Source
	generator Generator
	sink      Sink
	cfg       Config
}

func NewOrchestrator(selector *knowledge.Selector, templates template.Source, generator Generator, sink Sink, cfg Config) *Orchestrator {
	if cfg.MaxRegenerations < 0 {
		cfg.MaxRegenerations = 0
	}
	return &Orchestrator{
		selector:  selector,
		templates: templates,
		generator: generator,
		sink:      sink,
		cfg:       cfg,
	}
}

// Run drives one request through the state machine. It never returns an
// error: failures become a Response with status "failed" and a safe
// category in Warnings, and the audit record is emitted either way.
func (o *Orchestrator) Run(ctx context.Context, req Request) *Response {
	start := time.Now()
	trace := &Trace{}
	trace.enter(StateReceived)

	outcome := o.run(ctx, req, trace)
	outcome.resp.Trace = trace
	outcome.resp.Meta = Meta{
		GeneratorID: GeneratorID,
		Timestamp:   time.Now().UTC(),
		ElapsedMs:   time.Since(start).Milliseconds(),
	}

	o.audit(ctx, req, outcome)
	return outcome.resp
}

// outcome bundles everything the audit write needs from a run.
type outcome struct {
	resp            *Response
	intent          *models.Intent
	templateVersion int
	attempts        int
}

func (o *Orchestrator) run(ctx context.Context, req Request, trace *Trace) outcome {
	intent, err := normalizer.Normalize(req.Input)
	if err != nil {
		return outcome{resp: o.fail(trace, err)}
	}
	trace.enter(StateNormalized)

	tags := knowledge.TagsFor(intent, req.FocusTags)
	sel, err := o.selector.Select(ctx, tags)
	if err != nil {
		return outcome{resp: o.fail(trace, err), intent: intent}
	}
	trace.enter(StateKnowledgeLoaded)

	tmpl, err := o.templates.ActiveTemplate(ctx, intent.Product, intent.Kind)
	if err != nil {
		return outcome{resp: o.fail(trace, err), intent: intent}
	}
	rule, err := o.templates.RuleForTenant(ctx, req.TenantID)
	if err != nil {
		slog.Warn("company rule lookup failed, compiling without rules", "error", err)
		rule = nil
	}

	compiled := prompt.Compile(intent, tmpl, sel, rule)
	trace.enter(StatePromptCompiled)

	var (
		artifacts *models.GenerationArtifacts
		result    *models.ValidationResult
		attempts  int
	)
	for regen := 0; ; regen++ {
		genResp, err := o.generator.Generate(ctx, llm.GenerateRequest{
			System: compiled.System,
			User:   compiled.User,
		})
		if err != nil {
			return outcome{resp: o.fail(trace, err), intent: intent, templateVersion: tmpl.Version, attempts: attempts}
		}
		attempts += max(genResp.Attempts, 1)
		for i := 1; i < genResp.Attempts; i++ {
			trace.retry()
		}
		trace.enter(StateGenerated)

		artifacts, result, err = validator.Validate(genResp.Content, intent, intent.Product)
		if err != nil {
			return outcome{resp: o.fail(trace, err), intent: intent, templateVersion: tmpl.Version, attempts: attempts}
		}
		trace.enter(StateValidated)

		if !result.HasErrors() || regen >= o.cfg.MaxRegenerations {
			break
		}
		// Regenerate with the identical compiled prompt.
		trace.regenerate()
	}

	status := models.StatusSuccess
	if result.HasErrors() {
		status = models.StatusPartialSuccess
	}
	trace.enter(State(status))

	warnings := result.Warnings()
	warnings = append(warnings, compiled.Manifest.Warnings...)
	warnings = append(warnings, result.Errors()...)

	return outcome{
		resp: &Response{
			Status:    status,
			Artifacts: artifacts.Contents,
			Warnings:  warnings,
		},
		intent:          intent,
		templateVersion: tmpl.Version,
		attempts:        attempts,
	}
}

func (o *Orchestrator) fail(trace *Trace, err error) *Response {
	perr := categorize(err)
	slog.Error("generation failed", "category", perr.Category, "error", err)
	trace.enter(StateFailed)
	return &Response{
		Status:   models.StatusFailed,
		Category: perr.Category,
		Warnings: []string{perr.Message},
	}
}

// audit assembles the GenerationRecord and hands it to the sink. The raw
// input payload is never recorded, only its type and the normalized
// intent.
func (o *Orchestrator) audit(ctx context.Context, req Request, out outcome) {
	if o.sink == nil {
		return
	}

	rec := models.GenerationRecord{
		ID:              uuid.New(),
		TenantID:        req.TenantID,
		Product:         req.Input.Product,
		InputType:       string(req.Input.Type),
		TemplateVersion: out.templateVersion,
		Status:          out.resp.Status,
		Warnings:        out.resp.Warnings,
		Attempts:        out.attempts,
		ElapsedMs:       out.resp.Meta.ElapsedMs,
		CreatedAt:       out.resp.Meta.Timestamp,
	}
	if out.intent != nil {
		rec.Intent, _ = json.Marshal(out.intent)
	}
	if len(out.resp.Artifacts) > 0 {
		blob, _ := json.Marshal(out.resp.Artifacts)
		sum := sha256.Sum256(blob)
		rec.ArtifactsHash = hex.EncodeToString(sum[:])
		if o.cfg.AuditRetention == "full" {
			rec.Artifacts = blob
		}
	}

	o.sink.Record(ctx, rec)
}
