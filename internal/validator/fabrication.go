package validator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/screenforge/screenforge/internal/models"
)

var endpointRe = regexp.MustCompile(`\b(?:https?|wss?)://[^\s"'<>\)]+`)

// placeholderMarkers flag an endpoint literal as intentionally unbound.
var placeholderMarkers = []string{"TODO-ENDPOINT", "{{endpoint}}", "FIXME"}

// checkFabrication enforces the no-invented-integration-point policy: a
// URL literal in a code slot must carry a placeholder marker on the same
// or an adjacent line, otherwise it is an error finding.
func checkFabrication(slot, content string, result *models.ValidationResult) {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		for _, url := range endpointRe.FindAllString(line, -1) {
			if markerNear(lines, i) {
				continue
			}
			result.Add(models.Finding{
				Severity: models.SeverityError,
				Category: "fabrication",
				Message:  fmt.Sprintf("slot %q line %d: endpoint literal %q has no placeholder marker", slot, i+1, url),
				Slot:     slot,
				Line:     i + 1,
			})
		}
	}
}

func markerNear(lines []string, idx int) bool {
	for _, off := range []int{-1, 0, 1} {
		j := idx + off
		if j < 0 || j >= len(lines) {
			continue
		}
		for _, marker := range placeholderMarkers {
			if strings.Contains(lines[j], marker) {
				return true
			}
		}
	}
	return false
}
