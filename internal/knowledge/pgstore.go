package knowledge

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/screenforge/screenforge/internal/models"
)

// PGStore is the primary corpus, backed by Postgres.
type PGStore struct {
	db *pgxpool.Pool
}

func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) FindByTags(ctx context.Context, tags []string) ([]models.KnowledgeEntry, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, name, category, component, tags, priority, token_cost, content, created_at
		 FROM knowledge_entries
		 WHERE is_active AND tags && $1
		 ORDER BY priority, id`,
		tags,
	)
	if err != nil {
		return nil, fmt.Errorf("query knowledge entries: %w", err)
	}
	defer rows.Close()

	var entries []models.KnowledgeEntry
	for rows.Next() {
		var e models.KnowledgeEntry
		var priority string
		if err := rows.Scan(&e.ID, &e.Name, &e.Category, &e.Component, &e.Tags, &priority, &e.TokenCost, &e.Content, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan knowledge entry: %w", err)
		}
		e.Priority = models.ParsePriority(priority)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate knowledge entries: %w", err)
	}
	return entries, nil
}
