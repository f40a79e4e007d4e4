package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tpillow01/Tynan-Leads-Tracker/internal/enrich"
	"github.com/tpillow01/Tynan-Leads-Tracker/internal/types"
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Backfill missing contact fields from lead notes and sources",
	RunE:  runEnrich,
}

func runEnrich(cmd *cobra.Command, args []string) error {
	db, _, err := openLocalStore()
	if err != nil {
		return err
	}
	defer db.Close()

	leads, err := db.ListLeads(cmd.Context(), types.LeadFilter{})
	if err != nil {
		return err
	}

	changed := 0
	for i := range leads {
		if !enrich.Lead(&leads[i]) {
			continue
		}
		if err := db.UpdateLead(cmd.Context(), &leads[i]); err != nil {
			return err
		}
		changed++
	}

	fmt.Printf("Enriched %d leads where possible.\n", changed)
	return nil
}
