package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tpillow01/Tynan-Leads-Tracker/internal/analytics"
	"github.com/tpillow01/Tynan-Leads-Tracker/internal/leadimport"
	"github.com/tpillow01/Tynan-Leads-Tracker/internal/playbook"
	"github.com/tpillow01/Tynan-Leads-Tracker/internal/store"
	"github.com/tpillow01/Tynan-Leads-Tracker/internal/types"
	"github.com/tpillow01/Tynan-Leads-Tracker/internal/validation"
)

// Handler implements the API handlers
type Handler struct {
	store          store.Store
	generator      *playbook.Generator
	apiKey         string
	version        string
	maxUploadBytes int64
}

// NewHandler creates a new Handler with store.Store interface
func NewHandler(s store.Store, g *playbook.Generator, apiKey, version string, maxUploadBytes int64) *Handler {
	return &Handler{
		store:          s,
		generator:      g,
		apiKey:         apiKey,
		version:        version,
		maxUploadBytes: maxUploadBytes,
	}
}

// Health returns the health status
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	count, err := h.store.CountLeads(r.Context())
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, types.HealthResponse{
		Status:        "healthy",
		Version:       h.version,
		LeadCount:     count,
		PlaybookModel: h.generator.ModelName(),
	})
}

// ListLeads handles GET /api/v1/leads (the inbox query).
func (h *Handler) ListLeads(w http.ResponseWriter, r *http.Request) {
	q := types.LeadQuery{
		Search:  strings.TrimSpace(r.URL.Query().Get("q")),
		Rep:     strings.TrimSpace(r.URL.Query().Get("rep")),
		Quality: strings.ToLower(strings.TrimSpace(r.URL.Query().Get("quality"))),
		Sort:    strings.ToLower(strings.TrimSpace(r.URL.Query().Get("sort"))),
		Dir:     strings.ToLower(strings.TrimSpace(r.URL.Query().Get("dir"))),
	}
	q.Page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	q.PerPage, _ = strconv.Atoi(r.URL.Query().Get("per_page"))

	c := &validation.Collector{}
	if q.Quality != "" {
		c.Add(validation.ValidateEnum("quality", q.Quality, []string{"good", "warm", "bad", "unknown"}))
	}
	if q.Sort != "" {
		c.Add(validation.ValidateEnum("sort", q.Sort, types.SortColumns()))
	}
	if q.Dir != "" {
		c.Add(validation.ValidateEnum("dir", q.Dir, []string{"asc", "desc"}))
	}
	if c.HasErrors() {
		WriteProblemWithErrors(w, r, "Query contains invalid parameters", c.Errors())
		return
	}

	page, err := h.store.QueryLeads(r.Context(), q)
	if err != nil {
		slog.Error("lead query failed", "error", err)
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// fieldLimits caps the text columns at their stored sizes.
var fieldLimits = []struct {
	name string
	max  int
}{
	{"company", 200},
	{"contact_name", 200},
	{"contact_email", 200},
	{"phone", 100},
	{"industry", 200},
	{"fleet_size", 100},
	{"rep", 200},
	{"source", 200},
	{"address", 300},
	{"city", 200},
}

// createLeadRequest is a LeadFields payload with the date still in wire
// form so it can be validated before parsing.
type createLeadRequest struct {
	types.LeadFields
	LeadDate string `json:"lead_date"`
}

func (req *createLeadRequest) fieldValue(name string) string {
	switch name {
	case "company":
		return req.Company
	case "contact_name":
		return req.ContactName
	case "contact_email":
		return req.ContactEmail
	case "phone":
		return req.Phone
	case "industry":
		return req.Industry
	case "fleet_size":
		return req.FleetSize
	case "rep":
		return req.Rep
	case "source":
		return req.Source
	case "address":
		return req.Address
	case "city":
		return req.City
	}
	return ""
}

// CreateLead handles POST /api/v1/leads (manual lead entry).
func (h *Handler) CreateLead(w http.ResponseWriter, r *http.Request) {
	var req createLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid JSON: %s", err.Error()))
		return
	}

	c := &validation.Collector{}
	for _, limit := range fieldLimits {
		c.Add(validation.ValidateMaxLength(limit.name, req.fieldValue(limit.name), limit.max))
	}
	c.Add(validation.ValidateDate("lead_date", req.LeadDate))
	if c.HasErrors() {
		WriteProblemWithErrors(w, r, "Lead contains invalid fields", c.Errors())
		return
	}

	fields := req.LeadFields
	if req.LeadDate != "" {
		d, _ := types.ParseDate(req.LeadDate)
		fields.LeadDate = &d
	}

	lead, err := h.store.InsertLead(r.Context(), fields)
	if err != nil {
		slog.Error("lead insert failed", "error", err)
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, lead)
}

// leadDetail embeds the generated playbook alongside the lead.
type leadDetail struct {
	Lead     *types.Lead `json:"lead"`
	Playbook string      `json:"playbook"`
}

// GetLead handles GET /api/v1/leads/{id}
func (h *Handler) GetLead(w http.ResponseWriter, r *http.Request) {
	lead, ok := h.lookupLead(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, leadDetail{
		Lead:     lead,
		Playbook: h.generator.Generate(r.Context(), *lead),
	})
}

// GetPlaybook handles GET /api/v1/leads/{id}/playbook
func (h *Handler) GetPlaybook(w http.ResponseWriter, r *http.Request) {
	lead, ok := h.lookupLead(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, h.generator.Generate(r.Context(), *lead))
}

// SetStage handles POST /api/v1/leads/{id}/stage (kanban drag).
func (h *Handler) SetStage(w http.ResponseWriter, r *http.Request) {
	id, ok := leadID(w, r)
	if !ok {
		return
	}

	var req struct {
		Stage string `json:"stage"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid JSON: %s", err.Error()))
		return
	}

	// An absent stage falls back to "new", matching lead creation.
	stage := types.Stage(strings.ToLower(strings.TrimSpace(req.Stage))).OrDefault()
	if !types.ValidStage(string(stage)) {
		WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("invalid stage %q", req.Stage))
		return
	}

	if err := h.store.SetStage(r.Context(), id, stage); err != nil {
		MapStoreError(w, r, err)
		return
	}
	writeOK(w)
}

// SetQuality handles POST /api/v1/leads/{id}/quality/{value}.
// Only an explicit classification may be set; "unknown" stays the
// absence of one.
func (h *Handler) SetQuality(w http.ResponseWriter, r *http.Request) {
	id, ok := leadID(w, r)
	if !ok {
		return
	}

	value := strings.ToLower(chi.URLParam(r, "value"))
	if !types.ValidQuality(value) {
		WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("invalid quality %q", value))
		return
	}

	if err := h.store.SetQuality(r.Context(), id, types.Quality(value)); err != nil {
		MapStoreError(w, r, err)
		return
	}
	writeOK(w)
}

// MarkDead handles POST /api/v1/leads/{id}/dead. Leads are never
// deleted; dead means parked in the lost stage.
func (h *Handler) MarkDead(w http.ResponseWriter, r *http.Request) {
	id, ok := leadID(w, r)
	if !ok {
		return
	}
	if err := h.store.SetStage(r.Context(), id, types.StageLost); err != nil {
		MapStoreError(w, r, err)
		return
	}
	writeOK(w)
}

// RestoreDead handles POST /api/v1/leads/{id}/restore, returning the
// lead to the top of the pipeline.
func (h *Handler) RestoreDead(w http.ResponseWriter, r *http.Request) {
	id, ok := leadID(w, r)
	if !ok {
		return
	}
	if err := h.store.SetStage(r.Context(), id, types.StageNew); err != nil {
		MapStoreError(w, r, err)
		return
	}
	writeOK(w)
}

// Kanban handles GET /api/v1/kanban
func (h *Handler) Kanban(w http.ResponseWriter, r *http.Request) {
	filter, ok := h.listFilter(w, r)
	if !ok {
		return
	}
	filter.ExcludeLost = true

	leads, err := h.store.ListLeads(r.Context(), filter)
	if err != nil {
		slog.Error("kanban query failed", "error", err)
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, buildBoard(leads))
}

// DeadLeads handles GET /api/v1/dead
func (h *Handler) DeadLeads(w http.ResponseWriter, r *http.Request) {
	filter, ok := h.listFilter(w, r)
	if !ok {
		return
	}
	filter.Stage = types.StageLost

	leads, err := h.store.ListLeads(r.Context(), filter)
	if err != nil {
		slog.Error("dead lead query failed", "error", err)
		MapStoreError(w, r, err)
		return
	}
	sortByCompany(leads)
	if leads == nil {
		leads = []types.Lead{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"leads": leads})
}

// Analytics handles GET /api/v1/analytics
func (h *Handler) Analytics(w http.ResponseWriter, r *http.Request) {
	leads, err := h.store.ListLeads(r.Context(), types.LeadFilter{})
	if err != nil {
		slog.Error("analytics query failed", "error", err)
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, analytics.Report(leads))
}

// ListReps handles GET /api/v1/reps
func (h *Handler) ListReps(w http.ResponseWriter, r *http.Request) {
	reps, err := h.store.ListReps(r.Context())
	if err != nil {
		slog.Error("rep query failed", "error", err)
		MapStoreError(w, r, err)
		return
	}
	if reps == nil {
		reps = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"reps": reps})
}

// Import handles POST /api/v1/import: a multipart spreadsheet upload
// reconciled against the store. The "update" flag switches matches from
// dedupe-only to field updates.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid upload: %s", err.Error()))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteProblem(w, r, http.StatusBadRequest, `Missing "file" form field`)
		return
	}
	defer file.Close()

	rows, err := leadimport.ReadTable(file, header.Filename)
	if err != nil {
		WriteProblem(w, r, http.StatusBadRequest, err.Error())
		return
	}

	update := parseBool(r.URL.Query().Get("update")) || parseBool(r.FormValue("update"))
	summary, err := leadimport.Reconcile(r.Context(), rows, h.store, leadimport.Options{Update: update})
	if err != nil {
		slog.Error("import failed", "error", err, "file", header.Filename)
		MapStoreError(w, r, err)
		return
	}

	slog.Info("import complete",
		"file", header.Filename,
		"inserted", summary.Inserted,
		"updated", summary.Updated,
		"skipped", summary.Skipped,
	)
	writeJSON(w, http.StatusOK, summary)
}

// leadID extracts and validates the id route param. Malformed ids are
// rejected before they reach the store.
func leadID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if err := validation.ValidateULID("id", id); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("invalid lead id: %s", err.Message))
		return "", false
	}
	return id, true
}

// lookupLead fetches the lead in the id route param, writing the error
// response on failure.
func (h *Handler) lookupLead(w http.ResponseWriter, r *http.Request) (*types.Lead, bool) {
	id, ok := leadID(w, r)
	if !ok {
		return nil, false
	}
	lead, err := h.store.GetLead(r.Context(), id)
	if err != nil {
		MapStoreError(w, r, err)
		return nil, false
	}
	return lead, true
}

// listFilter parses the shared q/rep/quality filter params.
func (h *Handler) listFilter(w http.ResponseWriter, r *http.Request) (types.LeadFilter, bool) {
	f := types.LeadFilter{
		Search:  strings.TrimSpace(r.URL.Query().Get("q")),
		Rep:     strings.TrimSpace(r.URL.Query().Get("rep")),
		Quality: strings.ToLower(strings.TrimSpace(r.URL.Query().Get("quality"))),
	}

	if f.Quality != "" {
		c := &validation.Collector{}
		c.Add(validation.ValidateEnum("quality", f.Quality, []string{"good", "warm", "bad", "unknown"}))
		if c.HasErrors() {
			WriteProblemWithErrors(w, r, "Query contains invalid parameters", c.Errors())
			return f, false
		}
	}
	return f, true
}

func parseBool(s string) bool {
	b, _ := strconv.ParseBool(s)
	return b
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeOK(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
