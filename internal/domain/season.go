package domain

import (
	"fmt"
	"time"
)

// DeriveSeason maps a calendar date to its season label. A season runs
// November through March: November and December of year Y belong to season
// "Y-(Y+1)", every other month of year Y belongs to "(Y-1)-Y".
//
// Season labels stored on upstream records are known to be stale; callers
// must always re-derive the season from the race date.
func DeriveSeason(date time.Time) string {
	year := date.Year()
	if date.Month() >= time.November {
		return fmt.Sprintf("%d-%d", year, year+1)
	}
	return fmt.Sprintf("%d-%d", year-1, year)
}

// DeriveSeasonFromString parses an ISO8601 date string and derives its
// season label. It returns a ValidationError when the date cannot be parsed.
func DeriveSeasonFromString(date string) (string, error) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return "", NewValidationError("date", fmt.Sprintf("invalid ISO8601 date %q", date))
	}
	return DeriveSeason(t), nil
}
