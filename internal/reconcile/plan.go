package reconcile

import (
	"sort"

	"github.com/noskrien/results-service/internal/domain"
	"github.com/noskrien/results-service/internal/latvian"
)

// Plan is the computed set of merges needed so that each identity key maps
// to exactly one stored participant row. Produced by one scan; applying it
// and re-planning against the merged state yields an empty plan.
type Plan struct {
	Actions       []domain.MergeAction `json:"actions"`
	TotalMerges   int                  `json:"total_merges"`
	UniqueKeepers int                  `json:"unique_keepers"`
}

// PlanMerges scans all stored participant rows and emits one MergeAction per
// absorbed row. Rows are bucketed by (match key, distance, gender); a bucket
// is a duplicate group only when it holds more than one row with more than
// one distinct spelling. The keeper is the row ranked first by the canonical
// name order, with the lowest id breaking exact ties so the earliest-known
// row survives.
func PlanMerges(participants []domain.Participant) Plan {
	buckets := make(map[Key][]domain.Participant)
	var order []Key
	for _, p := range participants {
		key := Key{
			Name:     latvian.MatchKey(p.Name),
			Distance: p.Distance,
			Gender:   p.Gender,
		}
		if _, ok := buckets[key]; !ok {
			order = append(order, key)
		}
		buckets[key] = append(buckets[key], p)
	}

	var plan Plan
	keepers := make(map[int64]struct{})
	for _, key := range order {
		group := buckets[key]
		if len(group) < 2 || !hasDistinctSpellings(group) {
			continue
		}

		sort.SliceStable(group, func(i, j int) bool {
			if group[i].Name != group[j].Name {
				return NamePreferred(group[i].Name, group[j].Name)
			}
			return group[i].ID < group[j].ID
		})

		keeper := group[0]
		keepers[keeper.ID] = struct{}{}
		for _, absorbed := range group[1:] {
			plan.Actions = append(plan.Actions, domain.MergeAction{
				OldID:   absorbed.ID,
				OldName: absorbed.Name,
				NewID:   keeper.ID,
				NewName: keeper.Name,
				Season:  keeper.Season,
			})
		}
	}
	plan.TotalMerges = len(plan.Actions)
	plan.UniqueKeepers = len(keepers)
	return plan
}

func hasDistinctSpellings(group []domain.Participant) bool {
	for _, p := range group[1:] {
		if p.Name != group[0].Name {
			return true
		}
	}
	return false
}
