package compare

import "github.com/noskrien/results-service/internal/domain"

// Orientation is the display-ready form of a comparison: the rows possibly
// swapped so the participant who won more shared races is shown second,
// keeping the negative-diff sign convention consistent across queries.
type Orientation struct {
	Rows    []domain.ComparisonRow `json:"rows"`
	First   string                 `json:"first"`
	Second  string                 `json:"second"`
	Swapped bool                   `json:"swapped"`
}

// Orient counts rows where the first participant was faster (diff < 0)
// against rows where the second was (diff > 0). When the first participant's
// win count strictly exceeds the second's, every row is swapped: diff is
// negated and the pace, time and name fields change places. Ties, including
// zero shared wins, leave the rows untouched. The input slice is not
// modified.
func Orient(rows []domain.ComparisonRow, firstName, secondName string) Orientation {
	firstWins, secondWins := 0, 0
	for _, row := range rows {
		switch {
		case row.Diff < 0:
			firstWins++
		case row.Diff > 0:
			secondWins++
		}
	}

	if firstWins <= secondWins {
		return Orientation{Rows: rows, First: firstName, Second: secondName}
	}

	swapped := make([]domain.ComparisonRow, len(rows))
	for i, row := range rows {
		row.Pace1, row.Pace2 = row.Pace2, row.Pace1
		row.P1Time, row.P2Time = row.P2Time, row.P1Time
		row.Diff = -row.Diff
		swapped[i] = row
	}
	return Orientation{Rows: swapped, First: secondName, Second: firstName, Swapped: true}
}
