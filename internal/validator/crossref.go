package validator

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/screenforge/screenforge/internal/models"
)

// markup-bound identifiers referenced from script code
var boundIDRe = regexp.MustCompile(`\b((?:ds|grd|div)_\w+)\b`)

// checkCrossRefs verifies that every identifier one artifact references is
// declared by its companion artifact. An unresolved reference is an error
// finding naming both locations.
func checkCrossRefs(contract *Contract, artifacts *models.GenerationArtifacts, declared map[string]map[string]bool, result *models.ValidationResult) {
	if contract.CrossRefSlot == "" {
		return
	}
	source, ok := artifacts.Get(contract.CrossRefSlot)
	if !ok {
		return
	}
	if _, ok := artifacts.Get(contract.CrossRefTarget); !ok {
		return // missing target slot already reported
	}
	target := declared[contract.CrossRefTarget]

	var refs []string
	switch contract.slot(contract.CrossRefSlot).Kind {
	case SlotCode:
		refs = referencedIDs(source, contract)
	default:
		return
	}

	for _, ref := range refs {
		if !target[ref] {
			result.Add(models.Finding{
				Severity: models.SeverityError,
				Category: "crossref",
				Message: fmt.Sprintf("slot %q references %q which slot %q does not declare",
					contract.CrossRefSlot, ref, contract.CrossRefTarget),
				Slot: contract.CrossRefSlot,
			})
		}
	}
}

// referencedIDs extracts the companion-declared identifiers a code slot
// uses. For script slots these are data-source style ids; for interface
// slots they are the declared method names themselves.
func referencedIDs(content string, contract *Contract) []string {
	seen := make(map[string]bool)
	if contract.CrossRefSlot == "mapper_interface" {
		for _, m := range javaMethodRe.FindAllStringSubmatch(content, -1) {
			if !javaKeywords[m[1]] {
				seen[m[1]] = true
			}
		}
	} else {
		for _, m := range boundIDRe.FindAllStringSubmatch(content, -1) {
			seen[m[1]] = true
		}
	}

	refs := make([]string, 0, len(seen))
	for r := range seen {
		refs = append(refs, r)
	}
	sort.Strings(refs)
	return refs
}
