package tokenizer

import (
	"strings"
)

// CountTokens provides a rough token count estimate, good enough for
// budget math. Knowledge entries may carry an exact pre-computed cost;
// this is the fallback when they don't.
func CountTokens(text string) int {
	// Rough estimate: ~4 chars per token for English
	words := strings.Fields(text)
	return max(len(words)*4/3, 1)
}
