// Package leadimport reads spreadsheet exports and reconciles their rows
// against the lead store.
//
// Sheets in the wild are messy: column headers vary between exports,
// cells carry spreadsheet null markers, and dates arrive in a dozen
// shapes. Mapping is therefore alias-driven and every field degrades to
// absent instead of failing the row.
package leadimport

import "strings"

// Row is one spreadsheet row keyed by lowercased, trimmed column name.
type Row map[string]string

// nullMarkers are cell values that spreadsheet tooling emits for missing
// data. They are compared case-insensitively after trimming.
var nullMarkers = map[string]struct{}{
	"":     {},
	"nan":  {},
	"nat":  {},
	"none": {},
	"null": {},
	"n/a":  {},
}

// cleanValue trims a cell and maps null markers to the empty string.
func cleanValue(v string) string {
	s := strings.TrimSpace(v)
	if _, ok := nullMarkers[strings.ToLower(s)]; ok {
		return ""
	}
	return s
}

// First returns the value of the first alias present with a non-empty
// cleaned value. Alias order is priority order.
func (r Row) First(aliases ...string) string {
	for _, a := range aliases {
		if v, ok := r[a]; ok {
			if s := cleanValue(v); s != "" {
				return s
			}
		}
	}
	return ""
}

// NewRow builds a Row from parallel header and cell slices. Headers are
// lowercased and trimmed; surplus cells without a header are dropped and
// missing trailing cells read as empty.
func NewRow(headers, cells []string) Row {
	row := make(Row, len(headers))
	for i, h := range headers {
		key := strings.ToLower(strings.TrimSpace(h))
		if key == "" {
			continue
		}
		if i < len(cells) {
			row[key] = cells[i]
		} else {
			row[key] = ""
		}
	}
	return row
}
