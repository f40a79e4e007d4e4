package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tpillow01/Tynan-Leads-Tracker/internal/types"
)

var fixDatesCmd = &cobra.Command{
	Use:   "fix-dates",
	Short: "Repair lead dates with mistyped millennium years (2723 -> 2023)",
	RunE:  runFixDates,
}

func runFixDates(cmd *cobra.Command, args []string) error {
	db, _, err := openLocalStore()
	if err != nil {
		return err
	}
	defer db.Close()

	leads, err := db.ListLeads(cmd.Context(), types.LeadFilter{})
	if err != nil {
		return err
	}

	fixed := 0
	for i := range leads {
		lead := &leads[i]
		if lead.LeadDate == nil {
			continue
		}
		repaired, ok := fixMillennium(*lead.LeadDate)
		if !ok {
			continue
		}
		lead.LeadDate = &repaired
		if err := db.UpdateLead(cmd.Context(), lead); err != nil {
			return err
		}
		fixed++
	}

	fmt.Printf("Corrected %d lead_date values.\n", fixed)
	return nil
}

// fixMillennium maps years in 2101-2999 back to the 21st century, so a
// mistyped 2723 becomes 2023. Other years are left alone.
func fixMillennium(d types.Date) (types.Date, bool) {
	y := d.Year()
	if y <= 2100 || y >= 3000 {
		return d, false
	}
	return types.DateOf(time.Date(2000+y%100, d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)), true
}
