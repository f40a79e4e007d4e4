// Package analytics aggregates the lead base into dashboard counts.
package analytics

import (
	"fmt"
	"sort"

	"github.com/tpillow01/Tynan-Leads-Tracker/internal/types"
)

// Report aggregates leads into the dashboard shape. Quality and stage
// buckets are fixed in enum order so charts render consistently even at
// zero; rep and month buckets only include observed values, sorted by
// label.
func Report(leads []types.Lead) types.AnalyticsReport {
	byQuality := map[string]int{}
	byStage := map[string]int{}
	byRep := map[string]int{}
	byMonth := map[string]int{}

	for _, l := range leads {
		byQuality[l.Quality.Label()]++
		byStage[string(l.Stage.OrDefault())]++

		rep := l.Rep
		if rep == "" {
			rep = "Unassigned"
		}
		byRep[rep]++

		if key := monthKey(l); key != "" {
			byMonth[key]++
		}
	}

	report := types.AnalyticsReport{
		KPIs: types.AnalyticsKPIs{
			Total:   len(leads),
			Good:    byQuality["good"],
			Warm:    byQuality["warm"],
			Bad:     byQuality["bad"],
			Unknown: byQuality["unknown"],
		},
	}

	for _, q := range []string{"good", "warm", "bad", "unknown"} {
		report.ByQuality = append(report.ByQuality, types.LabelCount{Label: q, Count: byQuality[q]})
	}
	for _, s := range []types.Stage{types.StageNew, types.StageContacted, types.StageQualified, types.StageQuoted, types.StageWon, types.StageLost} {
		report.ByStage = append(report.ByStage, types.LabelCount{Label: string(s), Count: byStage[string(s)]})
	}
	report.ByRep = sortedCounts(byRep)
	report.ByMonth = sortedCounts(byMonth)

	return report
}

// monthKey buckets a lead by its lead date, falling back to creation
// time. Returns "" when neither is set.
func monthKey(l types.Lead) string {
	if l.LeadDate != nil {
		return fmt.Sprintf("%04d-%02d", l.LeadDate.Year(), int(l.LeadDate.Month()))
	}
	if !l.CreatedAt.IsZero() {
		return fmt.Sprintf("%04d-%02d", l.CreatedAt.Year(), int(l.CreatedAt.Month()))
	}
	return ""
}

func sortedCounts(m map[string]int) []types.LabelCount {
	out := make([]types.LabelCount, 0, len(m))
	for label, count := range m {
		out = append(out, types.LabelCount{Label: label, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}
