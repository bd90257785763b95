package knowledge

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/screenforge/screenforge/internal/models"
)

// SnapshotStore wraps an upstream store with an immutable in-memory
// snapshot refreshed out-of-band. Readers always see a complete snapshot;
// a refresh swaps the whole corpus atomically and never blocks readers.
type SnapshotStore struct {
	upstream Store
	tags     []string // superset of tags the snapshot was loaded with
	snap     atomic.Pointer[[]models.KnowledgeEntry]
}

// NewSnapshotStore loads an initial snapshot for the given tag superset.
func NewSnapshotStore(ctx context.Context, upstream Store, tags []string) (*SnapshotStore, error) {
	s := &SnapshotStore{upstream: upstream, tags: tags}
	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Refresh reloads the corpus and swaps it in atomically. In-flight readers
// keep the snapshot they started with.
func (s *SnapshotStore) Refresh(ctx context.Context) error {
	entries, err := s.upstream.FindByTags(ctx, s.tags)
	if err != nil {
		return err
	}
	s.snap.Store(&entries)
	return nil
}

// RunRefresher refreshes the snapshot on the given interval until the
// context is cancelled. A failed refresh keeps the previous snapshot.
func (s *SnapshotStore) RunRefresher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Refresh(ctx); err != nil {
				slog.Warn("knowledge snapshot refresh failed", "error", err)
			}
		}
	}
}

func (s *SnapshotStore) FindByTags(_ context.Context, tags []string) ([]models.KnowledgeEntry, error) {
	snap := s.snap.Load()
	if snap == nil {
		return nil, nil
	}
	var matched []models.KnowledgeEntry
	for _, e := range *snap {
		if e.MatchesAny(tags) {
			matched = append(matched, e)
		}
	}
	return matched, nil
}
