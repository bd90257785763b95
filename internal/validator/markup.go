package validator

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/screenforge/screenforge/internal/models"
)

// checkMarkup parses a markup slot as a strict tree and checks identifier
// prefix conventions on declared ids. It returns the set of declared
// identifiers for cross-reference checks.
func checkMarkup(slot, content string, contract *Contract, result *models.ValidationResult) map[string]bool {
	declared := make(map[string]bool)

	dec := xml.NewDecoder(strings.NewReader(content))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			line := lineOfOffset(content, dec.InputOffset())
			result.Add(models.Finding{
				Severity: models.SeverityError,
				Category: "structure",
				Message:  fmt.Sprintf("slot %q: markup does not parse: %v", slot, err),
				Slot:     slot,
				Line:     line,
			})
			// A broken tree yields no reliable declarations.
			return declared
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		for _, attr := range start.Attr {
			if attr.Name.Local != "id" {
				continue
			}
			declared[attr.Value] = true
			checkIDPrefix(slot, start.Name.Local, attr.Value, contract, result)
		}
	}

	return declared
}

func checkIDPrefix(slot, element, id string, contract *Contract, result *models.ValidationResult) {
	prefix, ok := contract.MarkupPrefixes[element]
	if !ok {
		return
	}
	if !strings.HasPrefix(id, prefix) {
		result.Add(models.Finding{
			Severity: models.SeverityWarning,
			Category: "naming",
			Message:  fmt.Sprintf("slot %q: %s id %q should start with %q", slot, element, id, prefix),
			Slot:     slot,
		})
	}
}

func lineOfOffset(content string, offset int64) int {
	if offset > int64(len(content)) {
		offset = int64(len(content))
	}
	return strings.Count(content[:offset], "\n") + 1
}
