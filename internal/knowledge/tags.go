package knowledge

import (
	"github.com/screenforge/screenforge/internal/models"
)

// TagsFor derives the relevance tags for an intent. The vocabulary is
// shared with both corpora: a product tag, a kind tag, the combined pair,
// and the catch-all "common".
func TagsFor(intent *models.Intent, focus []string) []string {
	tags := []string{
		"common",
		intent.Product,
		string(intent.Kind),
		intent.Product + ":" + string(intent.Kind),
	}
	return append(tags, focus...)
}

// BaseTags enumerates the built-in tag vocabulary for the given products.
// It is the superset a corpus snapshot preloads with. Every entry is
// expected to carry at least one base tag; focus tags only narrow within
// that set.
func BaseTags(products []string) []string {
	kinds := []models.ScreenKind{models.KindList, models.KindDetail, models.KindPopup, models.KindCrud}

	tags := []string{"common"}
	for _, p := range products {
		tags = append(tags, p)
		for _, k := range kinds {
			tags = append(tags, p+":"+string(k))
		}
	}
	for _, k := range kinds {
		tags = append(tags, string(k))
	}
	return tags
}
