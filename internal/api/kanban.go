package api

import (
	"sort"
	"strings"

	"github.com/tpillow01/Tynan-Leads-Tracker/internal/types"
)

// laneDefs fixes the board's lane order. DropStage is the stage a card
// acquires when dragged into the lane.
var laneDefs = []struct {
	key       string
	title     string
	dropStage types.Stage
	stages    map[types.Stage]bool
}{
	{
		key:       "no_contact",
		title:     "Haven't Contacted",
		dropStage: types.StageNew,
		stages:    map[types.Stage]bool{types.StageNew: true},
	},
	{
		key:       "in_discussion",
		title:     "In Discussion",
		dropStage: types.StageQualified,
		stages: map[types.Stage]bool{
			types.StageQualified: true,
			types.StageQuoted:    true,
			types.StageWon:       true,
		},
	},
	{
		key:       "waiting_response",
		title:     "Waiting Response",
		dropStage: types.StageContacted,
		stages:    map[types.Stage]bool{types.StageContacted: true},
	},
}

// buildBoard groups active leads into the three pipeline lanes. Lost
// leads must already be filtered out. Each lane is sorted by company
// name with blank companies last.
func buildBoard(leads []types.Lead) types.KanbanBoard {
	board := types.KanbanBoard{Lanes: make([]types.KanbanLane, len(laneDefs))}
	for i, def := range laneDefs {
		board.Lanes[i] = types.KanbanLane{
			Key:       def.key,
			Title:     def.title,
			DropStage: def.dropStage,
		}
	}

	for _, lead := range leads {
		stage := lead.Stage.OrDefault()
		for i, def := range laneDefs {
			if def.stages[stage] {
				board.Lanes[i].Leads = append(board.Lanes[i].Leads, lead)
				break
			}
		}
	}

	for i := range board.Lanes {
		sortByCompany(board.Lanes[i].Leads)
	}
	return board
}

// sortByCompany orders leads by company name, case-insensitively, with
// blank companies last. Shared by the board lanes and the dead-lead grid.
func sortByCompany(leads []types.Lead) {
	sort.SliceStable(leads, func(i, j int) bool {
		a := strings.TrimSpace(strings.ToLower(leads[i].Company))
		b := strings.TrimSpace(strings.ToLower(leads[j].Company))
		if (a == "") != (b == "") {
			return a != ""
		}
		return a < b
	})
}
