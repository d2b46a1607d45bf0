package compare

import (
	"sort"
	"strings"

	"github.com/noskrien/results-service/internal/domain"
)

const (
	// DefaultCategory is the distance-class label assumed for races that
	// carry no explicit category.
	DefaultCategory = "Tautas"

	// DefaultTolerance is the maximum distance delta, in kilometres, for
	// two records on the same date and location to count as the same race.
	DefaultTolerance = 0.5
)

// Comparator matches races shared by two histories. The zero value is not
// usable; construct with New or set both fields.
type Comparator struct {
	// Tolerance is the maximum absolute distance difference in km.
	Tolerance float64
	// DefaultCategory substitutes for races with a blank category.
	DefaultCategory string
}

// New returns a Comparator with the standard tolerance and category.
func New() Comparator {
	return Comparator{
		Tolerance:       DefaultTolerance,
		DefaultCategory: DefaultCategory,
	}
}

// Compare finds races both participants ran on the same date, at the same
// location, in the given category, over a near-equal distance, and returns
// one row per shared race ordered by date. Races with no recorded time or
// an unparseable distance are skipped, as is any pair whose distances
// differ by the tolerance or more. Diff is pace1 - pace2, so a negative
// value means the first history was faster. An empty result is a normal
// outcome, never an error.
func (c Comparator) Compare(first, second []domain.RaceResult, category string) []domain.ComparisonRow {
	if category == "" {
		category = c.DefaultCategory
	}

	index := make(map[string]domain.RaceResult, len(second))
	for _, r := range second {
		index[c.raceKey(r)] = r
	}

	var rows []domain.ComparisonRow
	for _, r1 := range first {
		if c.effectiveCategory(r1) != category {
			continue
		}
		r2, ok := index[c.raceKey(r1)]
		if !ok {
			continue
		}
		// The key already encodes the location, but the stored text may
		// differ in surrounding whitespace; compare the trimmed values.
		loc1 := strings.TrimSpace(r1.Location)
		if loc1 != strings.TrimSpace(r2.Location) {
			continue
		}

		secs1, ok := ParseResultTime(r1.Result)
		if !ok {
			continue
		}
		secs2, ok := ParseResultTime(r2.Result)
		if !ok {
			continue
		}
		km1, ok := ParseDistance(r1.Km)
		if !ok {
			continue
		}
		km2, ok := ParseDistance(r2.Km)
		if !ok {
			continue
		}
		delta := km1 - km2
		if delta < 0 {
			delta = -delta
		}
		if delta >= c.Tolerance {
			continue
		}

		season, err := domain.DeriveSeasonFromString(r1.Date)
		if err != nil {
			continue
		}

		pace1 := float64(secs1) / km1
		pace2 := float64(secs2) / km2
		rows = append(rows, domain.ComparisonRow{
			Date:     r1.Date,
			Race:     loc1,
			Season:   season,
			Pace1:    pace1,
			Pace2:    pace2,
			Diff:     pace1 - pace2,
			P1Time:   strings.TrimSpace(r1.Result),
			P2Time:   strings.TrimSpace(r2.Result),
			Distance: strings.TrimSpace(r1.Km),
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Date < rows[j].Date
	})
	return rows
}

func (c Comparator) effectiveCategory(r domain.RaceResult) string {
	cat := strings.TrimSpace(r.Category)
	if cat == "" {
		return c.DefaultCategory
	}
	return cat
}

func (c Comparator) raceKey(r domain.RaceResult) string {
	return r.Date + "|" + strings.TrimSpace(r.Location) + "|" + c.effectiveCategory(r)
}
