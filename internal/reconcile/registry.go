package reconcile

import (
	"sort"

	"github.com/noskrien/results-service/internal/domain"
)

// GenderRepairPolicy names the direction of the cross-gender repair pass:
// when an identity key exists under both genders, records filed under Source
// are moved into the Target bucket. The default reflects the defect observed
// in the upstream data, where women are occasionally filed under the men's
// results.
type GenderRepairPolicy struct {
	Source domain.Gender
	Target domain.Gender
}

// DefaultGenderRepair moves male-bucket records onto the female bucket.
var DefaultGenderRepair = GenderRepairPolicy{
	Source: domain.GenderMale,
	Target: domain.GenderFemale,
}

// Stats summarizes one batch reconciliation run.
type Stats struct {
	RecordsScanned   int `json:"records_scanned"`
	MergedDuplicates int `json:"merged_duplicates"`
	GendersRepaired  int `json:"genders_repaired"`
}

// Registry accumulates raw participant records bucketed by identity key and
// merges each bucket into one canonical participant. It is built during a
// single batch pass and is not safe for concurrent use.
type Registry struct {
	buckets map[Key][]domain.ParticipantRecord
	order   []Key
	stats   Stats
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		buckets: make(map[Key][]domain.ParticipantRecord),
	}
}

// Add files a record under its identity key. Keys keep first-seen order so
// batch output is deterministic.
func (r *Registry) Add(rec domain.ParticipantRecord) {
	key := KeyFor(rec)
	if _, ok := r.buckets[key]; !ok {
		r.order = append(r.order, key)
	}
	r.buckets[key] = append(r.buckets[key], rec)
	r.stats.RecordsScanned++
}

// RepairGenders moves every record filed under the policy's source gender
// onto the matching target-gender bucket when the same name and distance
// exist under both. The source key is dropped entirely. Must run before
// Merge, because it changes bucket membership. Returns the number of records
// moved.
func (r *Registry) RepairGenders(policy GenderRepairPolicy) int {
	moved := 0
	kept := r.order[:0]
	for _, key := range r.order {
		if key.Gender != policy.Source {
			kept = append(kept, key)
			continue
		}
		target := Key{Name: key.Name, Distance: key.Distance, Gender: policy.Target}
		if _, ok := r.buckets[target]; !ok {
			kept = append(kept, key)
			continue
		}
		for _, rec := range r.buckets[key] {
			rec.Gender = policy.Target
			r.buckets[target] = append(r.buckets[target], rec)
			moved++
		}
		delete(r.buckets, key)
	}
	r.order = kept
	r.stats.GendersRepaired += moved
	return moved
}

// Merge collapses every bucket into one canonical participant. The canonical
// name is the preferred spelling among the bucket's variants; races from all
// records are combined and ordered by date, with each race's season
// re-derived from its date because stored season labels are unreliable.
func (r *Registry) Merge() ([]domain.CanonicalParticipant, Stats) {
	out := make([]domain.CanonicalParticipant, 0, len(r.order))
	for _, key := range r.order {
		records := r.buckets[key]
		if len(records) == 0 {
			continue
		}

		names := make([]string, 0, len(records))
		seen := make(map[string]struct{}, len(records))
		for _, rec := range records {
			if _, ok := seen[rec.Name]; ok {
				continue
			}
			seen[rec.Name] = struct{}{}
			names = append(names, rec.Name)
		}
		if len(records) > 1 && len(names) > 1 {
			r.stats.MergedDuplicates += len(records) - 1
		}

		cp := domain.CanonicalParticipant{
			Name:     SelectCanonicalName(names),
			Distance: key.Distance,
			Gender:   key.Gender,
		}

		seasons := make(map[string]struct{})
		for _, rec := range records {
			if rec.Season != "" {
				seasons[rec.Season] = struct{}{}
			}
			for _, race := range rec.Races {
				if season, err := domain.DeriveSeasonFromString(race.Date); err == nil {
					race.Season = season
				}
				cp.Races = append(cp.Races, race)
			}
		}
		for season := range seasons {
			cp.Seasons = append(cp.Seasons, season)
		}
		sort.Strings(cp.Seasons)
		sort.Slice(cp.Races, func(i, j int) bool {
			return cp.Races[i].Date < cp.Races[j].Date
		})

		out = append(out, cp)
	}
	return out, r.stats
}
