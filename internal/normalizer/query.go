package normalizer

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/screenforge/screenforge/internal/models"
)

var selectRe = regexp.MustCompile(`(?is)^\s*select\s+(.+?)\s+from\s`)

// fromQuery parses the select-list of a single SELECT statement and infers
// column types from the accompanying sample rows, then reuses the schema
// column logic.
func fromQuery(in Input, kind models.ScreenKind) (*models.Intent, error) {
	sql := strings.TrimSpace(in.SQL)
	if sql == "" || strings.Contains(strings.TrimRight(sql, "; \t\n"), ";") {
		return nil, &NormalizationError{Reason: "query input", Err: ErrNotSelect}
	}

	m := selectRe.FindStringSubmatch(sql)
	if m == nil {
		return nil, &NormalizationError{Reason: "query input", Err: ErrNotSelect}
	}

	names := splitSelectList(m[1])
	if len(names) == 0 {
		return nil, &NormalizationError{Reason: "query input", Err: ErrEmptyColumns}
	}

	columns := make([]Column, len(names))
	for i, name := range names {
		columns[i] = Column{
			Name:     name,
			DataType: inferSampleType(sampleColumn(in.SampleRows, i)),
			Nullable: true,
		}
	}

	schemaIn := in
	schemaIn.Table = tableFromQuery(sql)
	schemaIn.Columns = columns
	return fromSchema(schemaIn, kind)
}

// splitSelectList splits a select-list on top-level commas and reduces each
// expression to its output column name (alias wins, then last path segment).
func splitSelectList(list string) []string {
	var names []string
	depth := 0
	start := 0
	items := []string{}
	for i, r := range list {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				items = append(items, list[start:i])
				start = i + 1
			}
		}
	}
	items = append(items, list[start:])

	for _, item := range items {
		name := columnNameOf(item)
		if name != "" && name != "*" {
			names = append(names, name)
		}
	}
	return names
}

func columnNameOf(expr string) string {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return ""
	}
	// The alias scan must not see inside function calls:
	// CAST(price AS INT) carries no alias.
	flat := stripParens(expr)
	lower := strings.ToLower(flat)
	if idx := strings.LastIndex(lower, " as "); idx >= 0 {
		return strings.ToLower(strings.Trim(flat[idx+4:], `" 	`))
	}
	// implicit alias: last whitespace-separated token, unless the expression
	// is a bare column path
	parts := strings.Fields(flat)
	if len(parts) == 0 {
		return ""
	}
	last := parts[len(parts)-1]
	if dot := strings.LastIndex(last, "."); dot >= 0 {
		last = last[dot+1:]
	}
	return strings.ToLower(strings.Trim(last, `"`))
}

// stripParens removes balanced parenthesized segments, leaving only the
// top-level text of the expression.
func stripParens(expr string) string {
	var b strings.Builder
	depth := 0
	for _, r := range expr {
		switch r {
		case '(':
			depth++
			continue
		case ')':
			if depth > 0 {
				depth--
				continue
			}
		}
		if depth == 0 {
			b.WriteRune(r)
		}
	}
	return b.String()
}

var fromRe = regexp.MustCompile(`(?is)\sfrom\s+([A-Za-z0-9_\."]+)`)

func tableFromQuery(sql string) string {
	m := fromRe.FindStringSubmatch(sql)
	if m == nil {
		return "query"
	}
	table := strings.Trim(m[1], `"`)
	if dot := strings.LastIndex(table, "."); dot >= 0 {
		table = table[dot+1:]
	}
	return strings.ToLower(table)
}

func sampleColumn(rows [][]string, idx int) []string {
	var vals []string
	for _, row := range rows {
		if idx < len(row) {
			vals = append(vals, row[idx])
		}
	}
	return vals
}

var dateLayouts = []string{"2006-01-02", "20060102", "2006/01/02"}

// inferSampleType tries integer, then decimal, then date, defaulting to
// text. Every non-empty sample must agree for a type to win. The result is
// a storage data type fed back into the schema column mapping.
func inferSampleType(samples []string) string {
	nonEmpty := 0
	allInt, allDec, allDate := true, true, true
	for _, s := range samples {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		nonEmpty++
		if _, err := strconv.ParseInt(s, 10, 64); err != nil {
			allInt = false
		}
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			allDec = false
		}
		if !parseableDate(s) {
			allDate = false
		}
	}
	if nonEmpty == 0 {
		return "varchar"
	}
	switch {
	case allInt:
		return "integer"
	case allDec:
		return "decimal"
	case allDate:
		return "date"
	}
	return "varchar"
}

func parseableDate(s string) bool {
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}
