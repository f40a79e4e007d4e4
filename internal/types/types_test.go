package types

import (
	"encoding/json"
	"testing"
	"time"
)

func TestValidStage(t *testing.T) {
	for _, s := range Stages() {
		if !ValidStage(s) {
			t.Errorf("ValidStage(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"", "dead", "NEW", "won "} {
		if ValidStage(s) {
			t.Errorf("ValidStage(%q) = true, want false", s)
		}
	}
}

func TestStageOrDefault(t *testing.T) {
	if got := Stage("").OrDefault(); got != StageNew {
		t.Errorf("OrDefault() = %q, want %q", got, StageNew)
	}
	if got := StageQuoted.OrDefault(); got != StageQuoted {
		t.Errorf("OrDefault() = %q, want %q", got, StageQuoted)
	}
}

func TestQualityLabel(t *testing.T) {
	if got := Quality("").Label(); got != "unknown" {
		t.Errorf("Label() = %q, want %q", got, "unknown")
	}
	if got := QualityWarm.Label(); got != "warm" {
		t.Errorf("Label() = %q, want %q", got, "warm")
	}
}

func TestValidQuality_RejectsUnknown(t *testing.T) {
	// "unknown" is a filter label, not a value callers may store.
	for _, q := range []string{"", "unknown", "great"} {
		if ValidQuality(q) {
			t.Errorf("ValidQuality(%q) = true, want false", q)
		}
	}
}

func TestDate_JSONRoundTrip(t *testing.T) {
	d := DateOf(time.Date(2024, 3, 15, 13, 45, 0, 0, time.UTC))

	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"2024-03-15"` {
		t.Errorf("marshal = %s, want %q", data, `"2024-03-15"`)
	}

	var back Date
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(d.Time) {
		t.Errorf("round trip = %v, want %v", back, d)
	}
}

func TestDate_UnmarshalRejectsGarbage(t *testing.T) {
	var d Date
	if err := json.Unmarshal([]byte(`"13/2024"`), &d); err == nil {
		t.Error("expected error for non-ISO date")
	}
}

func TestLeadFieldsApply_OnlyNonEmptyFieldsOverwrite(t *testing.T) {
	lead := Lead{
		Company:      "Acme Corp",
		ContactEmail: "ops@acme.example",
		Phone:        "317-555-0100",
	}

	changed := LeadFields{Phone: "317-555-0199"}.Apply(&lead)

	if !changed {
		t.Error("Apply() = false, want true")
	}
	if lead.Phone != "317-555-0199" {
		t.Errorf("Phone = %q, want updated value", lead.Phone)
	}
	if lead.Company != "Acme Corp" || lead.ContactEmail != "ops@acme.example" {
		t.Error("Apply must leave untouched fields unchanged")
	}
}

func TestLeadFieldsApply_IdenticalValuesReportNoChange(t *testing.T) {
	lead := Lead{Company: "Acme Corp", City: "Indianapolis"}

	changed := LeadFields{Company: "Acme Corp", City: "Indianapolis"}.Apply(&lead)

	if changed {
		t.Error("Apply() = true for identical values, want false")
	}
}

func TestLeadFieldsApply_EmptyNeverClears(t *testing.T) {
	lead := Lead{Notes: "running two shifts"}

	if changed := (LeadFields{}).Apply(&lead); changed {
		t.Error("empty fields must not report a change")
	}
	if lead.Notes != "running two shifts" {
		t.Error("empty fields must not clear stored values")
	}
}

func TestLeadFieldsApply_LeadDate(t *testing.T) {
	d1 := DateOf(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	d2 := DateOf(time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC))

	lead := Lead{LeadDate: &d1}

	if changed := (LeadFields{LeadDate: &d1}).Apply(&lead); changed {
		t.Error("same date must not report a change")
	}
	if changed := (LeadFields{LeadDate: &d2}).Apply(&lead); !changed {
		t.Error("new date must report a change")
	}
	if lead.LeadDate == nil || !lead.LeadDate.Equal(d2.Time) {
		t.Errorf("LeadDate = %v, want %v", lead.LeadDate, d2)
	}
}

func TestLeadFieldsEmpty(t *testing.T) {
	if !(LeadFields{}).Empty() {
		t.Error("zero fields should be empty")
	}
	if (LeadFields{City: "Carmel"}).Empty() {
		t.Error("fields with a city are not empty")
	}
}

func TestImportSummaryString(t *testing.T) {
	s := ImportSummary{Inserted: 3, Updated: 1, Skipped: 2}
	want := "Imported 3 new, Updated 1, Skipped 2 duplicates."
	if got := s.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestLeadPageMarshal_NilLeadsAsEmptyArray(t *testing.T) {
	data, err := json.Marshal(LeadPage{Page: 1, PerPage: 25})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := m["leads"].([]any); !ok {
		t.Errorf("leads = %v, want JSON array", m["leads"])
	}
}
