package store

import (
	"context"

	"github.com/tpillow01/Tynan-Leads-Tracker/internal/types"
)

// SeedReps are the dealership's core reps. Dropdowns merge this list
// with the distinct rep values already present in the store.
var SeedReps = []string{"John Battiston", "Kirk Whitaker", "Thomas Phillips"}

// Store defines the persistence contract for leads.
type Store interface {
	// InsertLead creates a new lead from the non-empty fields.
	InsertLead(ctx context.Context, fields types.LeadFields) (*types.Lead, error)

	// GetLead retrieves a lead by ID. Returns ErrNotFound if absent.
	GetLead(ctx context.Context, id string) (*types.Lead, error)

	// UpdateLead persists every mutable field of lead.
	// Returns ErrNotFound if the lead does not exist.
	UpdateLead(ctx context.Context, lead *types.Lead) error

	// SetStage moves a lead to a pipeline stage.
	SetStage(ctx context.Context, id string, stage types.Stage) error

	// SetQuality classifies a lead's viability.
	SetQuality(ctx context.Context, id string, quality types.Quality) error

	// QueryLeads runs a filtered, sorted, paginated inbox query.
	QueryLeads(ctx context.Context, q types.LeadQuery) (*types.LeadPage, error)

	// ListLeads returns all leads matching the filter, newest lead date
	// first with dateless leads last.
	ListLeads(ctx context.Context, f types.LeadFilter) ([]types.Lead, error)

	// ListReps returns the seed reps merged with the distinct rep values
	// in the store, sorted case-insensitively.
	ListReps(ctx context.Context) ([]string, error)

	// FindMatch finds the oldest lead matching the given company and/or
	// email exactly. Absent fields are not matched on; when both are
	// empty it returns (nil, nil).
	FindMatch(ctx context.Context, company, email string) (*types.Lead, error)

	// CountLeads returns the total number of leads.
	CountLeads(ctx context.Context) (int64, error)

	Close() error
}
