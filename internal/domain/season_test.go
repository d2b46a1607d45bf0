package domain

import (
	"errors"
	"testing"
	"time"
)

func TestDeriveSeason(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		date     time.Time
		expected string
	}{
		{
			name:     "november starts the season",
			date:     time.Date(2024, time.November, 10, 0, 0, 0, 0, time.UTC),
			expected: "2024-2025",
		},
		{
			name:     "december stays in the starting year",
			date:     time.Date(2023, time.December, 17, 0, 0, 0, 0, time.UTC),
			expected: "2023-2024",
		},
		{
			name:     "january belongs to the previous year's season",
			date:     time.Date(2024, time.January, 6, 0, 0, 0, 0, time.UTC),
			expected: "2023-2024",
		},
		{
			name:     "february belongs to the previous year's season",
			date:     time.Date(2024, time.February, 18, 0, 0, 0, 0, time.UTC),
			expected: "2023-2024",
		},
		{
			name:     "march closes the season",
			date:     time.Date(2025, time.March, 2, 0, 0, 0, 0, time.UTC),
			expected: "2024-2025",
		},
		{
			name:     "october counted against the previous year",
			date:     time.Date(2024, time.October, 31, 0, 0, 0, 0, time.UTC),
			expected: "2023-2024",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := DeriveSeason(tt.date); got != tt.expected {
				t.Errorf("DeriveSeason(%s) = %q, want %q", tt.date.Format("2006-01-02"), got, tt.expected)
			}
		})
	}
}

func TestDeriveSeasonFromString(t *testing.T) {
	t.Parallel()

	got, err := DeriveSeasonFromString("2024-11-10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "2024-2025" {
		t.Errorf("DeriveSeasonFromString(2024-11-10) = %q, want 2024-2025", got)
	}

	if _, err := DeriveSeasonFromString("26.11.2023"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for non-ISO date, got %v", err)
	}
}

func TestErrorUnwrapping(t *testing.T) {
	t.Parallel()

	nf := NewNotFoundError("participant", "42")
	if !errors.Is(nf, ErrNotFound) {
		t.Error("NotFoundError should unwrap to ErrNotFound")
	}

	ve := NewValidationError("name", "must not be empty")
	if !errors.Is(ve, ErrInvalidInput) {
		t.Error("ValidationError should unwrap to ErrInvalidInput")
	}

	cause := errors.New("connection reset")
	me := &MergeExecutionError{OldID: 7, NewID: 3, Step: "reassign races", Cause: cause}
	if !errors.Is(me, cause) {
		t.Error("MergeExecutionError should unwrap to its cause")
	}
}
