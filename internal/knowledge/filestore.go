package knowledge

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/screenforge/screenforge/internal/models"
	"github.com/screenforge/screenforge/pkg/tokenizer"
)

// FileStore is the static fallback corpus: a directory of YAML files, each
// holding a list of entries, loaded once into an immutable snapshot.
type FileStore struct {
	entries []models.KnowledgeEntry
}

type fileEntry struct {
	ID        string   `yaml:"id"`
	Name      string   `yaml:"name"`
	Category  string   `yaml:"category"`
	Component string   `yaml:"component"`
	Tags      []string `yaml:"tags"`
	Priority  string   `yaml:"priority"`
	TokenCost int      `yaml:"token_cost"`
	Content   string   `yaml:"content"`
}

type fileCorpus struct {
	Entries []fileEntry `yaml:"entries"`
}

// NewFileStore reads every *.yaml file under dir. Files are read in sorted
// order so the loaded corpus is deterministic.
func NewFileStore(dir string) (*FileStore, error) {
	pattern := filepath.Join(dir, "*.yaml")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob corpus files: %w", err)
	}
	sort.Strings(files)

	var entries []models.KnowledgeEntry
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("read corpus file %s: %w", f, err)
		}
		var corpus fileCorpus
		if err := yaml.Unmarshal(data, &corpus); err != nil {
			return nil, fmt.Errorf("parse corpus file %s: %w", f, err)
		}
		for _, fe := range corpus.Entries {
			entries = append(entries, toEntry(fe))
		}
	}

	return &FileStore{entries: entries}, nil
}

func toEntry(fe fileEntry) models.KnowledgeEntry {
	id, err := uuid.Parse(fe.ID)
	if err != nil {
		// Stable synthetic identity so selection order stays deterministic.
		id = uuid.NewSHA1(uuid.NameSpaceOID, []byte(fe.Name))
	}
	cost := fe.TokenCost
	if cost == 0 {
		cost = tokenizer.CountTokens(fe.Content)
	}
	return models.KnowledgeEntry{
		ID:        id,
		Name:      fe.Name,
		Category:  fe.Category,
		Component: fe.Component,
		Tags:      fe.Tags,
		Priority:  models.ParsePriority(fe.Priority),
		TokenCost: cost,
		Content:   fe.Content,
	}
}

func (s *FileStore) FindByTags(_ context.Context, tags []string) ([]models.KnowledgeEntry, error) {
	var matched []models.KnowledgeEntry
	for _, e := range s.entries {
		if e.MatchesAny(tags) {
			matched = append(matched, e)
		}
	}
	return matched, nil
}
