package validator

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/screenforge/screenforge/internal/models"
)

var (
	// script-style declarations: function fn_search() { ... }
	jsFuncRe = regexp.MustCompile(`\bfunction\s+(\w+)\s*\(`)

	// Java-style declarations and interface method signatures
	javaMethodRe = regexp.MustCompile(`(?m)^\s*(?:public|private|protected)?\s*(?:static\s+)?[\w<>\[\],\s]+?\s(\w+)\s*\([^)]*\)\s*[{;]`)
)

var javaKeywords = map[string]bool{
	"if": true, "for": true, "while": true, "switch": true, "catch": true,
	"new": true, "return": true, "super": true, "this": true,
}

// checkCode scans a code slot for declared function names, applies the
// slot's naming conventions, and returns the declared set.
func checkCode(slot, content string, contract *Contract, result *models.ValidationResult) map[string]bool {
	declared := make(map[string]bool)

	for _, m := range jsFuncRe.FindAllStringSubmatch(content, -1) {
		declared[m[1]] = true
	}
	for _, m := range javaMethodRe.FindAllStringSubmatch(content, -1) {
		name := m[1]
		if javaKeywords[name] || jsFuncRe.MatchString(m[0]) {
			continue
		}
		declared[name] = true
	}

	prefixes := contract.CodePrefixes[slot]
	if len(prefixes) > 0 {
		names := make([]string, 0, len(declared))
		for name := range declared {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if !hasAnyPrefix(name, prefixes) {
				result.Add(models.Finding{
					Severity: models.SeverityWarning,
					Category: "naming",
					Message:  fmt.Sprintf("slot %q: function %q should start with one of %v", slot, name, prefixes),
					Slot:     slot,
				})
			}
		}
	}

	return declared
}

func hasAnyPrefix(name string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}
