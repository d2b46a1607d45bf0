// Package domain provides domain models and business logic for the Results Service.
package domain

import "time"

// Gender represents a participant's gender as recorded in the source results.
// These values must match the database enum gender_code.
type Gender string

const (
	GenderMale    Gender = "V"
	GenderFemale  Gender = "S"
	GenderUnknown Gender = "U"
)

// IsKnown returns true if the gender is one of the two recorded values.
func (g Gender) IsKnown() bool {
	return g == GenderMale || g == GenderFemale
}

// Distance represents a race distance category.
// These values must match the database enum distance_category.
type Distance string

const (
	DistanceTautas Distance = "Tautas"
	DistanceSporta Distance = "Sporta"
)

// RaceResult represents a single race finish for a participant.
type RaceResult struct {
	Date     string `json:"date"`
	Result   string `json:"result"`
	Km       string `json:"km"`
	Location string `json:"location"`
	Season   string `json:"season"`
	Category string `json:"category"`
}

// ParticipantRecord is one scraped record for a participant within a single
// season. Multiple records with differently spelled names may describe the
// same person.
type ParticipantRecord struct {
	Name       string       `json:"name"`
	SourceLink string       `json:"source_link"`
	Season     string       `json:"season"`
	Distance   Distance     `json:"distance"`
	Gender     Gender       `json:"gender"`
	Races      []RaceResult `json:"races"`
}

// CanonicalParticipant is the merged view of all records that describe the
// same person within one distance and gender bucket.
type CanonicalParticipant struct {
	Name     string       `json:"name"`
	Distance Distance     `json:"distance"`
	Gender   Gender       `json:"gender"`
	Seasons  []string     `json:"seasons"`
	Races    []RaceResult `json:"races"`
}

// LatestSeason returns the most recent season the participant was seen in,
// or "" when no record carried a season label.
func (cp *CanonicalParticipant) LatestSeason() string {
	latest := ""
	for _, s := range cp.Seasons {
		if s > latest {
			latest = s
		}
	}
	return latest
}

// Participant is a persisted participant row.
type Participant struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	NormalizedName string    `json:"normalized_name"`
	Distance       Distance  `json:"distance"`
	Gender         Gender    `json:"gender"`
	Season         string    `json:"season"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Race is a persisted race row belonging to a participant.
type Race struct {
	ID            int64  `json:"id"`
	ParticipantID int64  `json:"participant_id"`
	Date          string `json:"date"`
	Result        string `json:"result"`
	Km            string `json:"km"`
	Location      string `json:"location"`
	Season        string `json:"season"`
	Category      string `json:"category"`
}

// MergeAction describes moving the races of one participant row onto another
// and deleting the emptied row.
type MergeAction struct {
	OldID   int64  `json:"old_id"`
	OldName string `json:"old_name"`
	NewID   int64  `json:"new_id"`
	NewName string `json:"new_name"`
	Season  string `json:"season,omitempty"`
}

// History is the full race history of a participant under one display name.
type History struct {
	Name  string       `json:"name"`
	Races []RaceResult `json:"races"`
}

// ComparisonRow is one shared race in a head-to-head comparison of two
// participants. Pace values are seconds per kilometre; Diff is Pace1 - Pace2.
type ComparisonRow struct {
	Date     string  `json:"date"`
	Race     string  `json:"race"`
	Season   string  `json:"season"`
	Pace1    float64 `json:"pace1"`
	Pace2    float64 `json:"pace2"`
	Diff     float64 `json:"diff"`
	P1Time   string  `json:"p1_time"`
	P2Time   string  `json:"p2_time"`
	Distance string  `json:"distance"`
}
