package knowledge

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/screenforge/screenforge/internal/models"
	"github.com/screenforge/screenforge/pkg/tokenizer"
)

// Selection is the ordered, token-bounded slice of the corpus handed to
// the prompt compiler.
type Selection struct {
	Entries    []models.KnowledgeEntry
	TokenTotal int
}

// Selector retrieves a budgeted knowledge selection from a primary corpus
// with a static fallback. Identical (corpus, tags, budget) inputs always
// produce the identical selection.
type Selector struct {
	primary  Store
	fallback Store
	budget   int
}

func NewSelector(primary, fallback Store, budget int) *Selector {
	return &Selector{primary: primary, fallback: fallback, budget: budget}
}

// Select filters the corpus by tag intersection, orders by priority (ties
// broken by ID), and greedily accumulates whole entries under the token
// budget. Entries are atomic: included whole or not at all.
func (s *Selector) Select(ctx context.Context, tags []string) (*Selection, error) {
	entries, err := s.primary.FindByTags(ctx, tags)
	if err != nil || len(entries) == 0 {
		if err != nil {
			slog.Warn("primary knowledge corpus failed, using fallback", "error", err)
		}
		if s.fallback == nil {
			return nil, &LoadError{Tags: tags, Err: firstErr(err, ErrNoEntries)}
		}
		entries, err = s.fallback.FindByTags(ctx, tags)
		if err != nil {
			return nil, &LoadError{Tags: tags, Err: fmt.Errorf("fallback corpus: %w", err)}
		}
		if len(entries) == 0 {
			return nil, &LoadError{Tags: tags, Err: ErrNoEntries}
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Priority != entries[j].Priority {
			return entries[i].Priority < entries[j].Priority
		}
		return entries[i].ID.String() < entries[j].ID.String()
	})

	sel := &Selection{}
	for _, e := range entries {
		cost := e.TokenCost
		if cost == 0 {
			cost = tokenizer.CountTokens(e.Content)
		}
		if sel.TokenTotal+cost > s.budget {
			// Budget exhausted: stop rather than truncate an entry.
			break
		}
		sel.Entries = append(sel.Entries, e)
		sel.TokenTotal += cost
	}

	if len(sel.Entries) == 0 {
		return nil, &LoadError{Tags: tags, Err: fmt.Errorf("no entry fits token budget %d", s.budget)}
	}
	return sel, nil
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
