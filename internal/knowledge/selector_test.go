package knowledge

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screenforge/screenforge/internal/models"
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

func entry(idByte byte, prio models.Priority, cost int, tags ...string) models.KnowledgeEntry {
	var id uuid.UUID
	id[0] = idByte
	return models.KnowledgeEntry{
		ID:        id,
		Name:      string('a' + idByte),
		Tags:      tags,
		Priority:  prio,
		TokenCost: cost,
		Content:   "content",
	}
}

func TestSelectOrdersByPriorityThenID(t *testing.T) {
	store := &fakeStore{entries: []models.KnowledgeEntry{
		entry(3, models.PriorityReference, 100, "miplatform"),
		entry(1, models.PriorityEssential, 100, "miplatform"),
		entry(2, models.PriorityEssential, 100, "miplatform"),
	}}

	sel, err := NewSelector(store, nil, 1000).Select(context.Background(), []string{"miplatform"})
	require.NoError(t, err)

	require.Len(t, sel.Entries, 3)
	assert.Equal(t, byte(1), sel.Entries[0].ID[0])
	assert.Equal(t, byte(2), sel.Entries[1].ID[0])
	assert.Equal(t, byte(3), sel.Entries[2].ID[0])
	assert.Equal(t, 300, sel.TokenTotal)
}

func TestSelectRespectsBudgetWholeEntries(t *testing.T) {
	store := &fakeStore{entries: []models.KnowledgeEntry{
		entry(1, models.PriorityEssential, 400, "list"),
		entry(2, models.PriorityImportant, 400, "list"),
		entry(3, models.PriorityReference, 400, "list"),
	}}

	sel, err := NewSelector(store, nil, 900).Select(context.Background(), []string{"list"})
	require.NoError(t, err)

	// third entry would exceed the budget; it is excluded whole
	require.Len(t, sel.Entries, 2)
	assert.Equal(t, 800, sel.TokenTotal)
	assert.LessOrEqual(t, sel.TokenTotal, 900)
}

func TestSelectFiltersByTagIntersection(t *testing.T) {
	store := &fakeStore{entries: []models.KnowledgeEntry{
		entry(1, models.PriorityEssential, 10, "miplatform", "list"),
		entry(2, models.PriorityEssential, 10, "springboot"),
	}}

	sel, err := NewSelector(store, nil, 1000).Select(context.Background(), []string{"list"})
	require.NoError(t, err)
	require.Len(t, sel.Entries, 1)
	assert.Equal(t, byte(1), sel.Entries[0].ID[0])
}

func TestSelectDeterministic(t *testing.T) {
	store := &fakeStore{entries: []models.KnowledgeEntry{
		entry(5, models.PriorityImportant, 50, "common"),
		entry(4, models.PriorityImportant, 50, "common"),
		entry(9, models.PriorityEssential, 50, "common"),
	}}
	sel := NewSelector(store, nil, 120)

	a, err := sel.Select(context.Background(), []string{"common"})
	require.NoError(t, err)
	b, err := sel.Select(context.Background(), []string{"common"})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSelectFallsBackToSecondary(t *testing.T) {
	primary := &fakeStore{err: errors.New("connection refused")}
	fallback := &fakeStore{entries: []models.KnowledgeEntry{
		entry(1, models.PriorityEssential, 10, "common"),
	}}

	sel, err := NewSelector(primary, fallback, 100).Select(context.Background(), []string{"common"})
	require.NoError(t, err)
	require.Len(t, sel.Entries, 1)
}

func TestSelectFallbackOnEmptyPrimary(t *testing.T) {
	primary := &fakeStore{}
	fallback := &fakeStore{entries: []models.KnowledgeEntry{
		entry(1, models.PriorityEssential, 10, "common"),
	}}

	sel, err := NewSelector(primary, fallback, 100).Select(context.Background(), []string{"common"})
	require.NoError(t, err)
	require.Len(t, sel.Entries, 1)
}

func TestSelectBothCorporaFailIsFatal(t *testing.T) {
	primary := &fakeStore{err: errors.New("down")}
	fallback := &fakeStore{}

	_, err := NewSelector(primary, fallback, 100).Select(context.Background(), []string{"common"})
	require.Error(t, err)

	var lerr *LoadError
	assert.ErrorAs(t, err, &lerr)
}

func TestFileStoreLoadsYAMLCorpus(t *testing.T) {
	dir := t.TempDir()
	corpus := `entries:
  - name: grid-basics
    category: component
    tags: [miplatform, list]
    priority: essential
    content: "Grids bind to datasets via the binddataset property."
  - name: naming
    category: convention
    tags: [common]
    priority: important
    token_cost: 42
    content: "Datasets are named ds_*, grids grd_*."
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ui.yaml"), []byte(corpus), 0o644))

	fs, err := NewFileStore(dir)
	require.NoError(t, err)

	entries, err := fs.FindByTags(context.Background(), []string{"list"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "grid-basics", entries[0].Name)
	assert.Equal(t, models.PriorityEssential, entries[0].Priority)
	assert.Positive(t, entries[0].TokenCost)

	common, err := fs.FindByTags(context.Background(), []string{"common"})
	require.NoError(t, err)
	require.Len(t, common, 1)
	assert.Equal(t, 42, common[0].TokenCost)
}

func TestSnapshotSwapKeepsReadersConsistent(t *testing.T) {
	upstream := &fakeStore{entries: []models.KnowledgeEntry{
		entry(1, models.PriorityEssential, 10, "common"),
	}}

	snap, err := NewSnapshotStore(context.Background(), upstream, []string{"common"})
	require.NoError(t, err)

	before, err := snap.FindByTags(context.Background(), []string{"common"})
	require.NoError(t, err)
	require.Len(t, before, 1)

	upstream.entries = append(upstream.entries, entry(2, models.PriorityEssential, 10, "common"))
	require.NoError(t, snap.Refresh(context.Background()))

	after, err := snap.FindByTags(context.Background(), []string{"common"})
	require.NoError(t, err)
	assert.Len(t, after, 2)
	// the slice handed out before the swap is untouched
	assert.Len(t, before, 1)
}
