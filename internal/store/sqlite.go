package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/tpillow01/Tynan-Leads-Tracker/internal/types"
	_ "modernc.org/sqlite"
)

// Compile-time interface check
var _ Store = (*SQLiteStore)(nil)

// leadColumns is the canonical column list shared by every SELECT.
const leadColumns = `id, created_at, company, contact_name, contact_email, phone,
	industry, fleet_size, notes, lead_date, rep, source, address, city, quality, stage`

// SQLiteStore is the SQLite-backed lead database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the lead database at dbPath.
// It initializes the database with WAL mode, applies pragmas, and runs
// migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	// Ensure parent directory exists
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := enablePragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable pragmas: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// enablePragmas sets SQLite pragmas for performance and safety.
func enablePragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
		"PRAGMA synchronous=NORMAL",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %s: %w", pragma, err)
		}
	}

	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// InsertLead creates a new lead from the non-empty fields.
func (s *SQLiteStore) InsertLead(ctx context.Context, fields types.LeadFields) (*types.Lead, error) {
	lead := types.Lead{
		ID:        ulid.Make().String(),
		CreatedAt: time.Now().UTC(),
	}
	fields.Apply(&lead)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO leads (id, created_at, company, contact_name, contact_email, phone,
			industry, fleet_size, notes, lead_date, rep, source, address, city, quality, stage)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, lead.ID, lead.CreatedAt.Format(time.RFC3339), lead.Company, lead.ContactName,
		lead.ContactEmail, lead.Phone, lead.Industry, lead.FleetSize, lead.Notes,
		leadDateValue(lead.LeadDate), lead.Rep, lead.Source, lead.Address, lead.City,
		string(lead.Quality), string(lead.Stage))
	if err != nil {
		return nil, fmt.Errorf("insert lead: %w", err)
	}

	return &lead, nil
}

// GetLead retrieves a lead by ID.
func (s *SQLiteStore) GetLead(ctx context.Context, id string) (*types.Lead, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+leadColumns+` FROM leads WHERE id = ?`, id)

	lead, err := scanLead(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan lead: %w", err)
	}

	return lead, nil
}

// UpdateLead persists every mutable field of lead.
func (s *SQLiteStore) UpdateLead(ctx context.Context, lead *types.Lead) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE leads
		SET company = ?, contact_name = ?, contact_email = ?, phone = ?,
			industry = ?, fleet_size = ?, notes = ?, lead_date = ?,
			rep = ?, source = ?, address = ?, city = ?, quality = ?, stage = ?
		WHERE id = ?
	`, lead.Company, lead.ContactName, lead.ContactEmail, lead.Phone,
		lead.Industry, lead.FleetSize, lead.Notes, leadDateValue(lead.LeadDate),
		lead.Rep, lead.Source, lead.Address, lead.City,
		string(lead.Quality), string(lead.Stage), lead.ID)
	if err != nil {
		return fmt.Errorf("update lead: %w", err)
	}

	return requireRow(result)
}

// SetStage moves a lead to a pipeline stage.
func (s *SQLiteStore) SetStage(ctx context.Context, id string, stage types.Stage) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE leads SET stage = ? WHERE id = ?`, string(stage), id)
	if err != nil {
		return fmt.Errorf("set stage: %w", err)
	}
	return requireRow(result)
}

// SetQuality classifies a lead's viability.
func (s *SQLiteStore) SetQuality(ctx context.Context, id string, quality types.Quality) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE leads SET quality = ? WHERE id = ?`, string(quality), id)
	if err != nil {
		return fmt.Errorf("set quality: %w", err)
	}
	return requireRow(result)
}

// requireRow converts a zero-row update into ErrNotFound.
func requireRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// searchColumns are the text fields the free-text search scans.
var searchColumns = []string{
	"company", "contact_name", "contact_email", "phone", "industry",
	"fleet_size", "notes", "source", "address", "city", "rep",
}

// buildFilter renders a LeadFilter into a WHERE clause and arguments.
func buildFilter(f types.LeadFilter) (string, []any) {
	var clauses []string
	var args []any

	if f.Search != "" {
		like := "%" + f.Search + "%"
		ors := make([]string, len(searchColumns))
		for i, col := range searchColumns {
			ors[i] = col + " LIKE ?"
			args = append(args, like)
		}
		clauses = append(clauses, "("+strings.Join(ors, " OR ")+")")
	}
	if f.Rep != "" {
		clauses = append(clauses, "rep = ?")
		args = append(args, f.Rep)
	}
	switch f.Quality {
	case "":
		// no quality filter
	case "unknown":
		clauses = append(clauses, "quality = ''")
	default:
		clauses = append(clauses, "quality = ?")
		args = append(args, f.Quality)
	}
	if f.Stage != "" {
		if f.Stage == types.StageNew {
			// '' reads as "new"
			clauses = append(clauses, "(stage = '' OR stage = 'new')")
		} else {
			clauses = append(clauses, "stage = ?")
			args = append(args, string(f.Stage))
		}
	}
	if f.ExcludeLost {
		clauses = append(clauses, "stage != 'lost'")
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// sortColumn maps an inbox sort key to its column.
var sortColumn = map[string]string{
	"lead_date": "lead_date",
	"created":   "created_at",
	"company":   "company",
	"rep":       "rep",
	"source":    "source",
	"city":      "city",
	"stage":     "stage",
	"quality":   "quality",
}

// orderBy renders the ORDER BY clause for a sort key and direction,
// always pushing absent values last and breaking ties on recency.
func orderBy(sortKey, dir string) string {
	col, ok := sortColumn[sortKey]
	if !ok {
		col = "lead_date"
	}
	direction := "DESC"
	if dir == "asc" {
		direction = "ASC"
	}
	return fmt.Sprintf(
		" ORDER BY CASE WHEN %[1]s IS NULL OR %[1]s = '' THEN 1 ELSE 0 END, %[1]s %s, created_at DESC",
		col, direction)
}

// QueryLeads runs a filtered, sorted, paginated inbox query.
func (s *SQLiteStore) QueryLeads(ctx context.Context, q types.LeadQuery) (*types.LeadPage, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	perPage := q.PerPage
	if perPage < 1 {
		perPage = 25
	}
	if perPage > 200 {
		perPage = 200
	}

	where, args := buildFilter(types.LeadFilter{
		Search:  q.Search,
		Rep:     q.Rep,
		Quality: q.Quality,
	})

	var total int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM leads"+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count leads: %w", err)
	}

	query := "SELECT " + leadColumns + " FROM leads" + where + orderBy(q.Sort, q.Dir) +
		" LIMIT ? OFFSET ?"
	args = append(args, perPage, (page-1)*perPage)

	leads, err := s.queryLeads(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	totalPages := total / perPage
	if total%perPage != 0 {
		totalPages++
	}

	return &types.LeadPage{
		Leads:      leads,
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

// ListLeads returns all leads matching the filter.
func (s *SQLiteStore) ListLeads(ctx context.Context, f types.LeadFilter) ([]types.Lead, error) {
	where, args := buildFilter(f)
	query := "SELECT " + leadColumns + " FROM leads" + where + orderBy("lead_date", "desc")
	return s.queryLeads(ctx, query, args...)
}

// ListReps returns the seed reps merged with the distinct rep values in
// the store, de-duplicated and sorted case-insensitively.
func (s *SQLiteStore) ListReps(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT rep FROM leads WHERE rep != ''`)
	if err != nil {
		return nil, fmt.Errorf("query reps: %w", err)
	}
	defer rows.Close()

	seen := make(map[string]bool)
	var reps []string
	add := func(r string) {
		r = strings.TrimSpace(r)
		if r == "" || seen[r] {
			return
		}
		seen[r] = true
		reps = append(reps, r)
	}
	for _, r := range SeedReps {
		add(r)
	}
	for rows.Next() {
		var r string
		if err := rows.Scan(&r); err != nil {
			return nil, fmt.Errorf("scan rep: %w", err)
		}
		add(r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reps: %w", err)
	}

	sort.Slice(reps, func(i, j int) bool {
		return strings.ToLower(reps[i]) < strings.ToLower(reps[j])
	})
	return reps, nil
}

// FindMatch finds the oldest lead matching the given company and/or email.
func (s *SQLiteStore) FindMatch(ctx context.Context, company, email string) (*types.Lead, error) {
	if company == "" && email == "" {
		return nil, nil
	}

	var clauses []string
	var args []any
	if company != "" {
		clauses = append(clauses, "company = ?")
		args = append(args, company)
	}
	if email != "" {
		clauses = append(clauses, "contact_email = ?")
		args = append(args, email)
	}

	row := s.db.QueryRowContext(ctx,
		"SELECT "+leadColumns+" FROM leads WHERE "+strings.Join(clauses, " AND ")+
			" ORDER BY created_at ASC, id ASC LIMIT 1", args...)

	lead, err := scanLead(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan match: %w", err)
	}
	return lead, nil
}

// CountLeads returns the total number of leads.
func (s *SQLiteStore) CountLeads(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM leads").Scan(&count)
	return count, err
}

func (s *SQLiteStore) queryLeads(ctx context.Context, query string, args ...any) ([]types.Lead, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query leads: %w", err)
	}
	defer rows.Close()

	var leads []types.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, *lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leads: %w", err)
	}
	return leads, nil
}

// leadDateValue renders a lead date for storage: NULL when absent.
func leadDateValue(d *types.Date) any {
	if d == nil {
		return nil
	}
	return d.String()
}

// scanLead scans a row into a Lead, handling the nullable lead_date.
func scanLead(scanner interface{ Scan(...any) error }) (*types.Lead, error) {
	var lead types.Lead
	var createdAt string
	var leadDate sql.NullString
	var quality, stage string

	err := scanner.Scan(
		&lead.ID,
		&createdAt,
		&lead.Company,
		&lead.ContactName,
		&lead.ContactEmail,
		&lead.Phone,
		&lead.Industry,
		&lead.FleetSize,
		&lead.Notes,
		&leadDate,
		&lead.Rep,
		&lead.Source,
		&lead.Address,
		&lead.City,
		&quality,
		&stage,
	)
	if err != nil {
		return nil, err
	}

	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		lead.CreatedAt = t
	}
	if leadDate.Valid && leadDate.String != "" {
		if d, err := types.ParseDate(leadDate.String); err == nil {
			lead.LeadDate = &d
		}
	}
	lead.Quality = types.Quality(quality)
	lead.Stage = types.Stage(stage)

	return &lead, nil
}
