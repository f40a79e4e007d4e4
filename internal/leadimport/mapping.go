package leadimport

import (
	"strconv"
	"strings"
	"time"

	"github.com/tpillow01/Tynan-Leads-Tracker/internal/types"
)

// MapRow extracts the canonical lead fields from a spreadsheet row.
// Each field tries its aliases in priority order; unknown columns are
// ignored and an unparseable date maps to absent.
func MapRow(row Row) types.LeadFields {
	return types.LeadFields{
		LeadDate:     parseDate(row.First("date", "lead date")),
		Rep:          row.First("territory/ sales rep", "territory", "sales rep", "rep"),
		Source:       row.First("source"),
		Company:      row.First("company"),
		Address:      row.First("address"),
		City:         row.First("city"),
		Notes:        row.First("notes", "comments", "details", "remarks"),
		ContactName:  row.First("contact", "contact name", "name", "primary contact"),
		ContactEmail: row.First("email", "contact email", "e-mail"),
		Phone:        row.First("phone", "phone number", "tel"),
		Industry:     row.First("industry", "segment", "sic", "naics"),
		FleetSize:    row.First("fleet size", "trucks", "forklifts", "units"),
	}
}

// dateLayouts covers the formats the dealership's exports have produced.
var dateLayouts = []string{
	time.DateOnly,
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"1/2/06",
	"01-02-2006",
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
}

// excelEpoch is day zero of the 1900 date system used by .xlsx files.
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// parseDate coerces a raw cell value to a calendar date. Empty or
// unparseable values return nil, never an error.
func parseDate(raw string) *types.Date {
	s := cleanValue(raw)
	if s == "" {
		return nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d := types.DateOf(t)
			return &d
		}
	}

	// Cells read from .xlsx sometimes arrive as raw serial day counts.
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 && serial < 200000 {
		d := types.DateOf(excelEpoch.AddDate(0, 0, int(serial)))
		return &d
	}

	return nil
}

// matchKeys returns the company and email values a mapped row matches
// on. Either may be empty; both empty means the row never matches.
func matchKeys(fields types.LeadFields) (company, email string) {
	return strings.TrimSpace(fields.Company), strings.TrimSpace(fields.ContactEmail)
}
