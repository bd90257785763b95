package models

// GenerationStatus is the terminal outcome of one pipeline run.
type GenerationStatus string

const (
	StatusSuccess        GenerationStatus = "success"
	StatusPartialSuccess GenerationStatus = "partial_success"
	StatusFailed         GenerationStatus = "failed"
)

// Severity ranks a validation finding.
type Severity string

const (
	SeverityError      Severity = "error"
	SeverityWarning    Severity = "warning"
	SeverityInfo       Severity = "info"
	SeveritySuggestion Severity = "suggestion"
)

// Finding is a single validation observation, optionally located by
// artifact slot and line.
type Finding struct {
	Severity Severity `json:"severity"`
	Category string   `json:"category"`
	Message  string   `json:"message"`
	Slot     string   `json:"slot,omitempty"`
	Line     int      `json:"line,omitempty"`
}

// ValidationResult is the ordered list of findings for one generation.
type ValidationResult struct {
	Findings []Finding `json:"findings"`
}

func (r *ValidationResult) Add(f Finding) {
	r.Findings = append(r.Findings, f)
}

// HasErrors reports whether any finding carries error severity. Any error
// forbids an overall "success" status.
func (r *ValidationResult) HasErrors() bool {
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Warnings returns the messages of all non-error findings.
func (r *ValidationResult) Warnings() []string {
	var out []string
	for _, f := range r.Findings {
		if f.Severity != SeverityError {
			out = append(out, f.Message)
		}
	}
	return out
}

// Errors returns the messages of all error findings.
func (r *ValidationResult) Errors() []string {
	var out []string
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			out = append(out, f.Message)
		}
	}
	return out
}

// GenerationArtifacts is a product-specific bag of named text blobs.
// Slots preserves the product's declaration order for stable rendering.
type GenerationArtifacts struct {
	Slots    []string          `json:"slots"`
	Contents map[string]string `json:"contents"`
}

func NewGenerationArtifacts() *GenerationArtifacts {
	return &GenerationArtifacts{Contents: make(map[string]string)}
}

func (a *GenerationArtifacts) Set(slot, content string) {
	if _, exists := a.Contents[slot]; !exists {
		a.Slots = append(a.Slots, slot)
	}
	a.Contents[slot] = content
}

func (a *GenerationArtifacts) Get(slot string) (string, bool) {
	c, ok := a.Contents[slot]
	return c, ok
}
