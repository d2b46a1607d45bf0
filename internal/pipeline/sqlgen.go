package pipeline

import (
	"fmt"
	"io"
	"strings"

	"github.com/noskrien/results-service/internal/domain"
	"github.com/noskrien/results-service/internal/latvian"
)

// escapeSQL doubles single quotes for embedding in a SQL string literal.
func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// WriteSQL renders the canonical dataset as idempotent SQL for offline
// import: an upsert per participant and a conditional insert per race. The
// output is safe to run repeatedly against the same database.
func WriteSQL(w io.Writer, participants []domain.CanonicalParticipant) error {
	for i := range participants {
		p := &participants[i]
		name := escapeSQL(p.Name)
		normalized := escapeSQL(latvian.MatchKey(p.Name))
		distance := escapeSQL(string(p.Distance))
		gender := escapeSQL(string(p.Gender))

		_, err := fmt.Fprintf(w,
			"INSERT INTO participants (name, distance, gender, normalized_name, season)\n"+
				"VALUES ('%s', '%s', '%s', '%s', '%s')\n"+
				"ON CONFLICT (normalized_name, distance, gender)\n"+
				"DO UPDATE SET name = excluded.name, season = excluded.season;\n\n",
			name, distance, gender, normalized, escapeSQL(p.LatestSeason()))
		if err != nil {
			return err
		}

		for _, race := range p.Races {
			_, err := fmt.Fprintf(w,
				"INSERT INTO races (participant_id, date, result, km, location, season, category)\n"+
					"SELECT p.id, '%s', '%s', '%s', '%s', '%s', '%s'\n"+
					"FROM participants p\n"+
					"WHERE p.normalized_name = '%s'\n"+
					"  AND p.distance = '%s'\n"+
					"  AND p.gender = '%s'\n"+
					"  AND NOT EXISTS (\n"+
					"    SELECT 1 FROM races r\n"+
					"    WHERE r.participant_id = p.id\n"+
					"      AND r.date = '%s'\n"+
					"      AND r.location = '%s'\n"+
					"  );\n\n",
				escapeSQL(race.Date), escapeSQL(race.Result), escapeSQL(race.Km),
				escapeSQL(strings.TrimSpace(race.Location)), escapeSQL(race.Season), escapeSQL(race.Category),
				normalized, distance, gender,
				escapeSQL(race.Date), escapeSQL(strings.TrimSpace(race.Location)))
			if err != nil {
				return err
			}
		}
	}
	return nil
}
