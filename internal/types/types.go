package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// Stage represents a lead's position in the sales pipeline.
type Stage string

const (
	StageNew       Stage = "new"
	StageContacted Stage = "contacted"
	StageQualified Stage = "qualified"
	StageQuoted    Stage = "quoted"
	StageWon       Stage = "won"
	StageLost      Stage = "lost"
)

// Stages lists all pipeline stages in board order.
func Stages() []string {
	return []string{"new", "contacted", "qualified", "quoted", "won", "lost"}
}

// ValidStage reports whether s names a known pipeline stage.
func ValidStage(s string) bool {
	switch Stage(s) {
	case StageNew, StageContacted, StageQualified, StageQuoted, StageWon, StageLost:
		return true
	}
	return false
}

// OrDefault treats an unset stage as "new".
func (s Stage) OrDefault() Stage {
	if s == "" {
		return StageNew
	}
	return s
}

// Quality is the manual classification of lead viability.
// The empty string means the lead has not been classified yet.
type Quality string

const (
	QualityGood Quality = "good"
	QualityWarm Quality = "warm"
	QualityBad  Quality = "bad"
)

// ValidQuality reports whether q is a classification a caller may set.
func ValidQuality(q string) bool {
	switch Quality(q) {
	case QualityGood, QualityWarm, QualityBad:
		return true
	}
	return false
}

// Label returns the reporting label for a quality value, mapping the
// unset value to "unknown".
func (q Quality) Label() string {
	if q == "" {
		return "unknown"
	}
	return string(q)
}

// Date is a calendar date with no time component. It marshals as
// "2006-01-02" and is the wire and storage form of lead_date.
type Date struct {
	time.Time
}

// DateOf truncates t to its calendar date.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a date in ISO form (2006-01-02).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return Date{}, err
	}
	return Date{t}, nil
}

func (d Date) String() string {
	return d.Format(time.DateOnly)
}

// MarshalJSON renders the date as a bare ISO date string.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(time.DateOnly))
}

// UnmarshalJSON accepts a bare ISO date string.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Lead is a sales-prospect record. Every field other than ID and
// CreatedAt is optional; the empty string and "missing" are equivalent
// everywhere a field is consumed.
type Lead struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Company      string `json:"company,omitempty"`
	ContactName  string `json:"contact_name,omitempty"`
	ContactEmail string `json:"contact_email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Industry     string `json:"industry,omitempty"`
	FleetSize    string `json:"fleet_size,omitempty"`
	Notes        string `json:"notes,omitempty"`

	// Fields sourced from the dealership's lead sheet.
	LeadDate *Date  `json:"lead_date,omitempty"`
	Rep      string `json:"rep,omitempty"`
	Source   string `json:"source,omitempty"`
	Address  string `json:"address,omitempty"`
	City     string `json:"city,omitempty"`

	Quality Quality `json:"quality,omitempty"`
	Stage   Stage   `json:"stage,omitempty"`
}

// LeadFields is the settable subset of a Lead: manual entry payloads and
// mapped import rows both take this shape. Empty values mean "leave as is".
type LeadFields struct {
	Company      string `json:"company,omitempty"`
	ContactName  string `json:"contact_name,omitempty"`
	ContactEmail string `json:"contact_email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Industry     string `json:"industry,omitempty"`
	FleetSize    string `json:"fleet_size,omitempty"`
	Notes        string `json:"notes,omitempty"`
	LeadDate     *Date  `json:"lead_date,omitempty"`
	Rep          string `json:"rep,omitempty"`
	Source       string `json:"source,omitempty"`
	Address      string `json:"address,omitempty"`
	City         string `json:"city,omitempty"`
}

// Apply copies every non-empty field onto lead and reports whether any
// stored value actually changed. Empty fields never clear existing data.
func (f LeadFields) Apply(lead *Lead) bool {
	changed := false
	set := func(dst *string, src string) {
		if src != "" && *dst != src {
			*dst = src
			changed = true
		}
	}
	set(&lead.Company, f.Company)
	set(&lead.ContactName, f.ContactName)
	set(&lead.ContactEmail, f.ContactEmail)
	set(&lead.Phone, f.Phone)
	set(&lead.Industry, f.Industry)
	set(&lead.FleetSize, f.FleetSize)
	set(&lead.Notes, f.Notes)
	set(&lead.Rep, f.Rep)
	set(&lead.Source, f.Source)
	set(&lead.Address, f.Address)
	set(&lead.City, f.City)
	if f.LeadDate != nil && (lead.LeadDate == nil || !lead.LeadDate.Equal(f.LeadDate.Time)) {
		d := *f.LeadDate
		lead.LeadDate = &d
		changed = true
	}
	return changed
}

// Empty reports whether no field carries a value.
func (f LeadFields) Empty() bool {
	return f == LeadFields{}
}

// LeadQuery describes an inbox grid request: free-text search, filters,
// sorting, and pagination.
type LeadQuery struct {
	Search  string `json:"q,omitempty"`
	Rep     string `json:"rep,omitempty"`
	Quality string `json:"quality,omitempty"` // good|warm|bad|unknown|""
	Sort    string `json:"sort,omitempty"`
	Dir     string `json:"dir,omitempty"` // asc|desc
	Page    int    `json:"page,omitempty"`
	PerPage int    `json:"per_page,omitempty"`
}

// SortColumns lists the sortable inbox columns.
func SortColumns() []string {
	return []string{"lead_date", "created", "company", "rep", "source", "city", "stage", "quality"}
}

// ValidSort reports whether s names a sortable column.
func ValidSort(s string) bool {
	for _, c := range SortColumns() {
		if s == c {
			return true
		}
	}
	return false
}

// LeadFilter narrows a lead listing. The zero value matches everything.
type LeadFilter struct {
	Search      string
	Rep         string
	Quality     string // good|warm|bad|unknown
	Stage       Stage  // exact stage match when set
	ExcludeLost bool   // drop dead leads (kanban board)
}

// LeadPage is one page of query results.
type LeadPage struct {
	Leads      []Lead `json:"leads"`
	Page       int    `json:"page"`
	PerPage    int    `json:"per_page"`
	Total      int    `json:"total"`
	TotalPages int    `json:"total_pages"`
}

// MarshalJSON ensures a nil lead slice marshals as [] not null.
func (p LeadPage) MarshalJSON() ([]byte, error) {
	if p.Leads == nil {
		p.Leads = []Lead{}
	}
	type Alias LeadPage
	return json.Marshal(Alias(p))
}

// KanbanLane is one column of the board.
type KanbanLane struct {
	Key       string `json:"key"`
	Title     string `json:"title"`
	DropStage Stage  `json:"drop_stage"`
	Leads     []Lead `json:"leads"`
}

// MarshalJSON ensures a nil lead slice marshals as [] not null.
func (l KanbanLane) MarshalJSON() ([]byte, error) {
	if l.Leads == nil {
		l.Leads = []Lead{}
	}
	type Alias KanbanLane
	return json.Marshal(Alias(l))
}

// KanbanBoard groups the active pipeline into three lanes.
type KanbanBoard struct {
	Lanes []KanbanLane `json:"lanes"`
}

// ImportSummary counts the outcome of one import run.
type ImportSummary struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Skipped  int `json:"skipped"`
}

// String renders the summary the way the import CLI reports it.
func (s ImportSummary) String() string {
	return fmt.Sprintf("Imported %d new, Updated %d, Skipped %d duplicates.",
		s.Inserted, s.Updated, s.Skipped)
}

// HealthResponse is the health check payload.
type HealthResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	LeadCount     int64  `json:"lead_count"`
	PlaybookModel string `json:"playbook_model,omitempty"`
}

// AnalyticsReport summarizes the lead base for the dashboard.
type AnalyticsReport struct {
	KPIs      AnalyticsKPIs `json:"kpis"`
	ByQuality []LabelCount  `json:"by_quality"`
	ByStage   []LabelCount  `json:"by_stage"`
	ByRep     []LabelCount  `json:"by_rep"`
	ByMonth   []LabelCount  `json:"by_month"`
}

// AnalyticsKPIs are the headline numbers.
type AnalyticsKPIs struct {
	Total   int `json:"total"`
	Good    int `json:"good"`
	Warm    int `json:"warm"`
	Bad     int `json:"bad"`
	Unknown int `json:"unknown"`
}

// LabelCount is one bar of a dashboard chart.
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}
