// Package enrich backfills missing lead contact fields from free-text
// notes and maps lead sources to industries.
package enrich

import (
	"regexp"
	"strings"

	"github.com/tpillow01/Tynan-Leads-Tracker/internal/types"
)

var (
	emailRe = regexp.MustCompile(`(?i)[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}`)
	phoneRe = regexp.MustCompile(`(?:\+?1[\s\-.]?)?(?:\(?\d{3}\)?[\s\-.]?)?\d{3}[\s\-.]?\d{4}`)
	nameRe  = regexp.MustCompile(`[A-Z][a-z]+(?:\s+[A-Z][a-z]+){0,2}`)
)

// nameHints precede a person's name in call notes.
var nameHints = []string{"attn", "contact", "signed by", "spoke with", "talked to", "name:"}

// industryBySource maps lead-source keywords to industry labels. Scanned
// in order; the first keyword found in the source wins.
var industryBySource = []struct {
	keyword  string
	industry string
}{
	{"service", "Material Handling"},
	{"rental", "Material Handling"},
	{"parts", "Material Handling"},
	{"tynan", "Material Handling"},
	{"dealer", "Material Handling"},
	{"construction", "Construction"},
	{"warehouse", "Warehousing"},
	{"manufactur", "Manufacturing"},
}

// scanLimit caps how much of the notes field is inspected.
const scanLimit = 500

// GuessName finds a title-cased name near a hint phrase in the notes.
// Returns "" when no candidate is found.
func GuessName(notes string) string {
	if notes == "" {
		return ""
	}
	low := strings.ToLower(notes)
	for _, h := range nameHints {
		idx := strings.Index(low, h)
		if idx < 0 {
			continue
		}
		start := idx + len(h)
		end := start + 40
		if end > len(notes) {
			end = len(notes)
		}
		fragment := strings.NewReplacer(":", " ", "-", " ").Replace(notes[start:end])

		best := ""
		for _, c := range nameRe.FindAllString(fragment, -1) {
			if len(c) > len(best) {
				best = c
			}
		}
		if best != "" {
			return best
		}
	}
	return ""
}

// MapIndustry derives an industry label from a lead source string.
func MapIndustry(source string) string {
	if source == "" {
		return ""
	}
	s := strings.ToLower(source)
	for _, m := range industryBySource {
		if strings.Contains(s, m.keyword) {
			return m.industry
		}
	}
	return ""
}

// Lead fills empty contact fields on the lead from its notes and source.
// Populated fields are never overwritten. Returns true when anything
// was filled in.
func Lead(lead *types.Lead) bool {
	notes := lead.Notes
	if len(notes) > scanLimit {
		notes = notes[:scanLimit]
	}

	changed := false
	if lead.ContactEmail == "" {
		if m := emailRe.FindString(notes); m != "" {
			lead.ContactEmail = m
			changed = true
		}
	}
	if lead.Phone == "" {
		if m := phoneRe.FindString(notes); m != "" {
			lead.Phone = m
			changed = true
		}
	}
	if lead.ContactName == "" {
		if n := GuessName(notes); n != "" {
			lead.ContactName = n
			changed = true
		}
	}
	if lead.Industry == "" {
		if ind := MapIndustry(lead.Source); ind != "" {
			lead.Industry = ind
			changed = true
		}
	}
	return changed
}
