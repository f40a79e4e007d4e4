package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tpillow01/Tynan-Leads-Tracker/internal/playbook"
	"github.com/tpillow01/Tynan-Leads-Tracker/internal/store"
	"github.com/tpillow01/Tynan-Leads-Tracker/internal/types"
)

const testAPIKey = "test-api-key"

// mockStore implements store.Store for testing
type mockStore struct {
	leads   []*types.Lead
	next    int
	lastQry types.LeadQuery
}

var _ store.Store = (*mockStore)(nil)

func (m *mockStore) InsertLead(ctx context.Context, fields types.LeadFields) (*types.Lead, error) {
	m.next++
	lead := &types.Lead{ID: fmt.Sprintf("01TESTSEED%016d", m.next)}
	fields.Apply(lead)
	m.leads = append(m.leads, lead)
	return lead, nil
}

func (m *mockStore) GetLead(ctx context.Context, id string) (*types.Lead, error) {
	for _, l := range m.leads {
		if l.ID == id {
			return l, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *mockStore) UpdateLead(ctx context.Context, lead *types.Lead) error {
	for i, l := range m.leads {
		if l.ID == lead.ID {
			m.leads[i] = lead
			return nil
		}
	}
	return store.ErrNotFound
}

func (m *mockStore) SetStage(ctx context.Context, id string, stage types.Stage) error {
	lead, err := m.GetLead(ctx, id)
	if err != nil {
		return err
	}
	lead.Stage = stage
	return nil
}

func (m *mockStore) SetQuality(ctx context.Context, id string, quality types.Quality) error {
	lead, err := m.GetLead(ctx, id)
	if err != nil {
		return err
	}
	lead.Quality = quality
	return nil
}

func (m *mockStore) QueryLeads(ctx context.Context, q types.LeadQuery) (*types.LeadPage, error) {
	m.lastQry = q
	leads := make([]types.Lead, 0, len(m.leads))
	for _, l := range m.leads {
		leads = append(leads, *l)
	}
	return &types.LeadPage{Leads: leads, Page: 1, PerPage: 25, Total: len(leads), TotalPages: 1}, nil
}

func (m *mockStore) ListLeads(ctx context.Context, f types.LeadFilter) ([]types.Lead, error) {
	var out []types.Lead
	for _, l := range m.leads {
		if f.ExcludeLost && l.Stage == types.StageLost {
			continue
		}
		if f.Stage != "" && l.Stage != f.Stage {
			continue
		}
		out = append(out, *l)
	}
	return out, nil
}

func (m *mockStore) ListReps(ctx context.Context) ([]string, error) {
	return store.SeedReps, nil
}

func (m *mockStore) FindMatch(ctx context.Context, company, email string) (*types.Lead, error) {
	if company == "" && email == "" {
		return nil, nil
	}
	for _, l := range m.leads {
		if company != "" && l.Company != company {
			continue
		}
		if email != "" && l.ContactEmail != email {
			continue
		}
		return l, nil
	}
	return nil, nil
}

func (m *mockStore) CountLeads(ctx context.Context) (int64, error) {
	return int64(len(m.leads)), nil
}

func (m *mockStore) Close() error { return nil }

func newTestServer(ms *mockStore) *httptest.Server {
	h := NewHandler(ms, playbook.NewGenerator(nil), testAPIKey, "test", 16<<20)
	return httptest.NewServer(NewRouter(h))
}

func doRequest(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	var rdr *strings.Reader
	if body == "" {
		rdr = strings.NewReader("")
	} else {
		rdr = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, rdr)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+testAPIKey)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return v
}

func TestHealthIsPublic(t *testing.T) {
	ms := &mockStore{}
	ms.InsertLead(context.Background(), types.LeadFields{Company: "Acme Corp"})
	srv := newTestServer(ms)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/v1/health")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	health := decode[types.HealthResponse](t, resp)
	if health.Status != "healthy" || health.LeadCount != 1 {
		t.Errorf("health = %+v", health)
	}
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	srv := newTestServer(&mockStore{})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/v1/leads")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("content type = %q", ct)
	}
}

func TestListLeadsPassesQuery(t *testing.T) {
	ms := &mockStore{}
	srv := newTestServer(ms)
	defer srv.Close()

	resp := doRequest(t, http.MethodGet,
		srv.URL+"/api/v1/leads?q=acme&rep=Kirk+Whitaker&quality=unknown&sort=company&dir=asc", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	resp.Body.Close()

	want := types.LeadQuery{Search: "acme", Rep: "Kirk Whitaker", Quality: "unknown", Sort: "company", Dir: "asc"}
	if ms.lastQry != want {
		t.Errorf("query = %+v, want %+v", ms.lastQry, want)
	}
}

func TestListLeadsRejectsBadSort(t *testing.T) {
	srv := newTestServer(&mockStore{})
	defer srv.Close()

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/v1/leads?sort=nonsense", "")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", resp.StatusCode)
	}
}

func TestCreateLead(t *testing.T) {
	ms := &mockStore{}
	srv := newTestServer(ms)
	defer srv.Close()

	resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/leads",
		`{"company":"Acme Corp","rep":"Kirk Whitaker","lead_date":"2024-03-15"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	lead := decode[types.Lead](t, resp)
	if lead.ID == "" || lead.Company != "Acme Corp" {
		t.Errorf("lead = %+v", lead)
	}
	if lead.LeadDate == nil || lead.LeadDate.String() != "2024-03-15" {
		t.Errorf("lead date = %v", lead.LeadDate)
	}
}

func TestCreateLeadRejectsOversizedField(t *testing.T) {
	srv := newTestServer(&mockStore{})
	defer srv.Close()

	resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/leads",
		fmt.Sprintf(`{"company":%q}`, strings.Repeat("x", 201)))
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", resp.StatusCode)
	}
}

func TestCreateLeadRejectsBadDate(t *testing.T) {
	srv := newTestServer(&mockStore{})
	defer srv.Close()

	resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/leads",
		`{"company":"Acme Corp","lead_date":"03/15/2024"}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", resp.StatusCode)
	}
}

func TestGetLeadEmbedsPlaybook(t *testing.T) {
	ms := &mockStore{}
	lead, _ := ms.InsertLead(context.Background(), types.LeadFields{Company: "Acme Corp"})
	srv := newTestServer(ms)
	defer srv.Close()

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/v1/leads/"+lead.ID, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	detail := decode[struct {
		Lead     types.Lead `json:"lead"`
		Playbook string     `json:"playbook"`
	}](t, resp)
	if detail.Lead.ID != lead.ID {
		t.Errorf("lead id = %q", detail.Lead.ID)
	}
	if !strings.Contains(detail.Playbook, "Company: Acme Corp") {
		t.Error("playbook missing lead data")
	}
}

func TestGetLeadNotFound(t *testing.T) {
	srv := newTestServer(&mockStore{})
	defer srv.Close()

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/v1/leads/01ARZ3NDEKTSV4RRFFQ69G5FAV", "")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestLeadRoutesRejectMalformedID(t *testing.T) {
	srv := newTestServer(&mockStore{})
	defer srv.Close()

	requests := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodGet, "/api/v1/leads/missing", ""},
		{http.MethodGet, "/api/v1/leads/missing/playbook", ""},
		{http.MethodPost, "/api/v1/leads/missing/stage", `{"stage":"quoted"}`},
		{http.MethodPost, "/api/v1/leads/missing/quality/good", ""},
		{http.MethodPost, "/api/v1/leads/missing/dead", ""},
		{http.MethodPost, "/api/v1/leads/missing/restore", ""},
	}
	for _, rq := range requests {
		resp := doRequest(t, rq.method, srv.URL+rq.path, rq.body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s %s status = %d, want 400", rq.method, rq.path, resp.StatusCode)
		}
	}
}

func TestGetPlaybookPlainText(t *testing.T) {
	ms := &mockStore{}
	lead, _ := ms.InsertLead(context.Background(), types.LeadFields{Company: "Acme Corp"})
	srv := newTestServer(ms)
	defer srv.Close()

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/v1/leads/"+lead.ID+"/playbook", "")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("content type = %q", ct)
	}
}

func TestSetStage(t *testing.T) {
	ms := &mockStore{}
	lead, _ := ms.InsertLead(context.Background(), types.LeadFields{Company: "Acme Corp"})
	srv := newTestServer(ms)
	defer srv.Close()

	resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/leads/"+lead.ID+"/stage",
		`{"stage":"quoted"}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if lead.Stage != types.StageQuoted {
		t.Errorf("stage = %q", lead.Stage)
	}

	resp = doRequest(t, http.MethodPost, srv.URL+"/api/v1/leads/"+lead.ID+"/stage",
		`{"stage":"bogus"}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("invalid stage status = %d, want 400", resp.StatusCode)
	}

	// Empty stage defaults to new rather than failing.
	resp = doRequest(t, http.MethodPost, srv.URL+"/api/v1/leads/"+lead.ID+"/stage", `{}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("empty stage status = %d", resp.StatusCode)
	}
	if lead.Stage != types.StageNew {
		t.Errorf("stage = %q, want new", lead.Stage)
	}
}

func TestSetQuality(t *testing.T) {
	ms := &mockStore{}
	lead, _ := ms.InsertLead(context.Background(), types.LeadFields{Company: "Acme Corp"})
	srv := newTestServer(ms)
	defer srv.Close()

	resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/leads/"+lead.ID+"/quality/good", "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if lead.Quality != types.QualityGood {
		t.Errorf("quality = %q", lead.Quality)
	}

	// "unknown" is the absence of a classification, not a settable one.
	resp = doRequest(t, http.MethodPost, srv.URL+"/api/v1/leads/"+lead.ID+"/quality/unknown", "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestDeadAndRestore(t *testing.T) {
	ms := &mockStore{}
	lead, _ := ms.InsertLead(context.Background(), types.LeadFields{Company: "Acme Corp"})
	srv := newTestServer(ms)
	defer srv.Close()

	resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/leads/"+lead.ID+"/dead", "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || lead.Stage != types.StageLost {
		t.Fatalf("status = %d stage = %q", resp.StatusCode, lead.Stage)
	}

	resp = doRequest(t, http.MethodPost, srv.URL+"/api/v1/leads/"+lead.ID+"/restore", "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || lead.Stage != types.StageNew {
		t.Fatalf("status = %d stage = %q", resp.StatusCode, lead.Stage)
	}
}

func TestKanbanLanes(t *testing.T) {
	ms := &mockStore{}
	ms.InsertLead(context.Background(), types.LeadFields{Company: "New Co"})
	quoted, _ := ms.InsertLead(context.Background(), types.LeadFields{Company: "Quoted Co"})
	quoted.Stage = types.StageQuoted
	contacted, _ := ms.InsertLead(context.Background(), types.LeadFields{Company: "Contacted Co"})
	contacted.Stage = types.StageContacted
	lost, _ := ms.InsertLead(context.Background(), types.LeadFields{Company: "Lost Co"})
	lost.Stage = types.StageLost

	srv := newTestServer(ms)
	defer srv.Close()

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/v1/kanban", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	board := decode[types.KanbanBoard](t, resp)
	if len(board.Lanes) != 3 {
		t.Fatalf("lanes = %d", len(board.Lanes))
	}

	byKey := map[string][]types.Lead{}
	for _, lane := range board.Lanes {
		byKey[lane.Key] = lane.Leads
	}
	if len(byKey["no_contact"]) != 1 || byKey["no_contact"][0].Company != "New Co" {
		t.Errorf("no_contact = %+v", byKey["no_contact"])
	}
	if len(byKey["in_discussion"]) != 1 || byKey["in_discussion"][0].Company != "Quoted Co" {
		t.Errorf("in_discussion = %+v", byKey["in_discussion"])
	}
	if len(byKey["waiting_response"]) != 1 {
		t.Errorf("waiting_response = %+v", byKey["waiting_response"])
	}
	for _, lane := range board.Lanes {
		for _, l := range lane.Leads {
			if l.Company == "Lost Co" {
				t.Error("lost lead leaked onto the board")
			}
		}
	}
}

func TestDeadLeadsSortedByCompany(t *testing.T) {
	ms := &mockStore{}
	for _, company := range []string{"Zenith", "", "Acme Corp"} {
		lead, _ := ms.InsertLead(context.Background(), types.LeadFields{Company: company})
		lead.Company = company
		lead.Stage = types.StageLost
	}
	srv := newTestServer(ms)
	defer srv.Close()

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/v1/dead", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	body := decode[struct {
		Leads []types.Lead `json:"leads"`
	}](t, resp)
	if len(body.Leads) != 3 {
		t.Fatalf("leads = %d", len(body.Leads))
	}
	if body.Leads[0].Company != "Acme Corp" || body.Leads[1].Company != "Zenith" || body.Leads[2].Company != "" {
		t.Errorf("order = %q, %q, %q", body.Leads[0].Company, body.Leads[1].Company, body.Leads[2].Company)
	}
}

func TestAnalyticsEndpoint(t *testing.T) {
	ms := &mockStore{}
	good, _ := ms.InsertLead(context.Background(), types.LeadFields{Company: "Acme Corp", Rep: "Kirk Whitaker"})
	good.Quality = types.QualityGood
	ms.InsertLead(context.Background(), types.LeadFields{Company: "Globex"})

	srv := newTestServer(ms)
	defer srv.Close()

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/v1/analytics", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	report := decode[types.AnalyticsReport](t, resp)
	if report.KPIs.Total != 2 || report.KPIs.Good != 1 || report.KPIs.Unknown != 1 {
		t.Errorf("kpis = %+v", report.KPIs)
	}
}

func TestListRepsEndpoint(t *testing.T) {
	srv := newTestServer(&mockStore{})
	defer srv.Close()

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/v1/reps", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	body := decode[struct {
		Reps []string `json:"reps"`
	}](t, resp)
	if len(body.Reps) != 3 {
		t.Errorf("reps = %v", body.Reps)
	}
}

func uploadCSV(t *testing.T, url, csvBody string) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "leads.csv")
	if err != nil {
		t.Fatalf("creating form file: %v", err)
	}
	if _, err := part.Write([]byte(csvBody)); err != nil {
		t.Fatalf("writing form file: %v", err)
	}
	mw.Close()

	req, err := http.NewRequest(http.MethodPost, url, &buf)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+testAPIKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	return resp
}

func TestImportEndpoint(t *testing.T) {
	ms := &mockStore{}
	ms.InsertLead(context.Background(), types.LeadFields{Company: "Globex"})
	srv := newTestServer(ms)
	defer srv.Close()

	csvBody := "Company,Phone\nAcme Corp,555-0100\nGlobex,555-0200\n"
	resp := uploadCSV(t, srv.URL+"/api/v1/import?update=true", csvBody)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	summary := decode[types.ImportSummary](t, resp)
	want := types.ImportSummary{Inserted: 1, Updated: 1, Skipped: 0}
	if summary != want {
		t.Errorf("summary = %+v, want %+v", summary, want)
	}
}

func TestImportRejectsMissingFile(t *testing.T) {
	srv := newTestServer(&mockStore{})
	defer srv.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("update", "true")
	mw.Close()

	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/api/v1/import", &buf)
	req.Header.Set("Authorization", "Bearer "+testAPIKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestImportRejectsHeaderOnlyFile(t *testing.T) {
	srv := newTestServer(&mockStore{})
	defer srv.Close()

	resp := uploadCSV(t, srv.URL+"/api/v1/import", "Company,Phone\n")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}
