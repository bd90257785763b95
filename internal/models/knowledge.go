package models

import (
	"time"

	"github.com/google/uuid"
)

// Priority orders knowledge entries from most to least essential.
// Lower values sort first.
type Priority int

const (
	PriorityEssential Priority = iota
	PriorityImportant
	PriorityReference
	PriorityOptional
)

func (p Priority) String() string {
	switch p {
	case PriorityEssential:
		return "essential"
	case PriorityImportant:
		return "important"
	case PriorityReference:
		return "reference"
	default:
		return "optional"
	}
}

// ParsePriority maps a stored label to a Priority, defaulting to optional.
func ParsePriority(s string) Priority {
	switch s {
	case "essential":
		return PriorityEssential
	case "important":
		return PriorityImportant
	case "reference":
		return PriorityReference
	default:
		return PriorityOptional
	}
}

// KnowledgeEntry is an atomic unit of domain reference text. Entries are
// read-only once loaded; a corpus refresh swaps in a whole new snapshot.
type KnowledgeEntry struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Category  string    `json:"category" db:"category"`
	Component string    `json:"component,omitempty" db:"component"`
	Tags      []string  `json:"tags" db:"tags"`
	Priority  Priority  `json:"priority" db:"priority"`
	TokenCost int       `json:"token_cost" db:"token_cost"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// MatchesAny reports whether the entry's tag set intersects the given tags.
func (e *KnowledgeEntry) MatchesAny(tags []string) bool {
	for _, want := range tags {
		for _, have := range e.Tags {
			if want == have {
				return true
			}
		}
	}
	return false
}
