package leadimport

import (
	"context"
	"fmt"

	"github.com/tpillow01/Tynan-Leads-Tracker/internal/types"
)

// LeadStore is the slice of the persistence layer reconciliation needs.
type LeadStore interface {
	// FindMatch returns the oldest lead matching the present keys, or
	// (nil, nil) when both keys are empty or nothing matches.
	FindMatch(ctx context.Context, company, email string) (*types.Lead, error)
	InsertLead(ctx context.Context, fields types.LeadFields) (*types.Lead, error)
	UpdateLead(ctx context.Context, lead *types.Lead) error
}

// Options controls reconciliation behavior.
type Options struct {
	// Update overwrites matched leads with the row's non-empty fields.
	// When false, a match only counts as a skipped duplicate.
	Update bool
}

// Reconcile walks rows in file order and inserts, updates, or skips
// each one against the store. Field-level problems never fail a row;
// only store errors abort the run.
func Reconcile(ctx context.Context, rows []Row, store LeadStore, opts Options) (types.ImportSummary, error) {
	var summary types.ImportSummary

	for i, row := range rows {
		fields := MapRow(row)
		company, email := matchKeys(fields)

		existing, err := store.FindMatch(ctx, company, email)
		if err != nil {
			return summary, fmt.Errorf("matching row %d: %w", i+1, err)
		}

		if existing == nil {
			if _, err := store.InsertLead(ctx, fields); err != nil {
				return summary, fmt.Errorf("inserting row %d: %w", i+1, err)
			}
			summary.Inserted++
			continue
		}

		if !opts.Update {
			summary.Skipped++
			continue
		}

		if fields.Apply(existing) {
			if err := store.UpdateLead(ctx, existing); err != nil {
				return summary, fmt.Errorf("updating row %d: %w", i+1, err)
			}
			summary.Updated++
		} else {
			summary.Skipped++
		}
	}

	return summary, nil
}
