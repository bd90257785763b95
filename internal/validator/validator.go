package validator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/screenforge/screenforge/internal/models"
)

// Validate splits raw model output into the product's artifact slots and
// runs every structural check. It returns the artifacts regardless of
// findings so callers can hand best-effort output to a developer; the
// error return fires only for an unknown product.
func Validate(raw string, intent *models.Intent, product string) (*models.GenerationArtifacts, *models.ValidationResult, error) {
	contract, err := ContractFor(product)
	if err != nil {
		return nil, nil, err
	}

	result := &models.ValidationResult{}
	artifacts := split(raw, contract, result)

	declared := make(map[string]map[string]bool) // slot -> identifier set

	for _, spec := range contract.Slots {
		content, ok := artifacts.Get(spec.Name)
		if !ok || strings.TrimSpace(content) == "" {
			continue
		}
		switch spec.Kind {
		case SlotMarkup:
			declared[spec.Name] = checkMarkup(spec.Name, content, contract, result)
		case SlotCode:
			declared[spec.Name] = checkCode(spec.Name, content, contract, result)
			checkFabrication(spec.Name, content, result)
		}
	}

	checkActionFuncs(contract, intent, artifacts, declared, result)
	checkCrossRefs(contract, artifacts, declared, result)

	return artifacts, result, nil
}

var markerLine = regexp.MustCompile(`^\s*\[([A-Z_]+)\]\s*$`)

// split cuts the raw text on section markers. Content before the first
// marker and under unknown markers is dropped; a missing required slot is
// an error finding naming that slot.
func split(raw string, contract *Contract, result *models.ValidationResult) *models.GenerationArtifacts {
	markers := make(map[string]string, len(contract.Slots))
	for _, s := range contract.Slots {
		markers[s.Marker] = s.Name
	}

	artifacts := models.NewGenerationArtifacts()
	current := ""
	var buf strings.Builder

	flush := func() {
		if current != "" {
			artifacts.Set(current, strings.Trim(buf.String(), "\n"))
		}
		buf.Reset()
	}

	for _, line := range strings.Split(raw, "\n") {
		if m := markerLine.FindStringSubmatch(line); m != nil {
			flush()
			name, known := markers["["+m[1]+"]"]
			if !known {
				current = "" // unexpected slot: ignored
				continue
			}
			current = name
			continue
		}
		if current != "" {
			buf.WriteString(line)
			buf.WriteString("\n")
		}
	}
	flush()

	for _, spec := range contract.Slots {
		if !spec.Required {
			continue
		}
		if content, ok := artifacts.Get(spec.Name); !ok || strings.TrimSpace(content) == "" {
			result.Add(models.Finding{
				Severity: models.SeverityError,
				Category: "structure",
				Message:  fmt.Sprintf("required slot %q (%s) is missing from the output", spec.Name, spec.Marker),
				Slot:     spec.Name,
			})
		}
	}

	return artifacts
}

// checkActionFuncs verifies that every requested action has its implied
// function in the right code slot.
func checkActionFuncs(contract *Contract, intent *models.Intent, artifacts *models.GenerationArtifacts, declared map[string]map[string]bool, result *models.ValidationResult) {
	for _, af := range contract.ActionFuncs {
		if !intent.HasAction(af.Action) {
			continue
		}
		if _, ok := artifacts.Get(af.Slot); !ok {
			continue // missing slot already reported
		}
		if !hasFuncWithPrefix(declared[af.Slot], af.Prefix) {
			result.Add(models.Finding{
				Severity: models.SeverityError,
				Category: "naming",
				Message:  fmt.Sprintf("action %q requires a function named %s* in slot %q", af.Action, af.Prefix, af.Slot),
				Slot:     af.Slot,
			})
		}
	}
}

func hasFuncWithPrefix(ids map[string]bool, prefix string) bool {
	for id := range ids {
		if strings.HasPrefix(strings.ToLower(id), strings.ToLower(prefix)) {
			return true
		}
	}
	return false
}
