package knowledge

import (
	"context"
	"errors"
	"fmt"

	"github.com/screenforge/screenforge/internal/models"
)

// Store is a read accessor over a knowledge corpus. Implementations return
// active entries whose relevance tags intersect the given set; they never
// mutate entries.
type Store interface {
	FindByTags(ctx context.Context, tags []string) ([]models.KnowledgeEntry, error)
}

// ErrNoEntries signals that a corpus holds nothing for the requested tags.
var ErrNoEntries = errors.New("no knowledge entries for tags")

// LoadError is fatal to a request: compiling a prompt with zero grounding
// knowledge is disallowed, and both the primary and fallback corpus failed.
type LoadError struct {
	Tags []string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("knowledge load failed for tags %v: %v", e.Tags, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
