package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/noskrien/results-service/internal/domain"
	"github.com/noskrien/results-service/internal/latvian"
)

// Compile-time interface verification.
var _ ParticipantRepository = (*PgParticipantRepository)(nil)

// PgParticipantRepository is a PostgreSQL implementation of ParticipantRepository.
type PgParticipantRepository struct {
	db DBTX
}

// NewPgParticipantRepository creates a new PostgreSQL participant repository.
func NewPgParticipantRepository(db DBTX) *PgParticipantRepository {
	return &PgParticipantRepository{db: db}
}

// ListAll returns every participant row.
func (r *PgParticipantRepository) ListAll(ctx context.Context) ([]domain.Participant, error) {
	query := `
		SELECT id, name, normalized_name, distance, gender, season, created_at, updated_at
		FROM participants
		ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	return scanParticipants(rows)
}

// GetByID returns one participant row.
func (r *PgParticipantRepository) GetByID(ctx context.Context, id int64) (*domain.Participant, error) {
	query := `
		SELECT id, name, normalized_name, distance, gender, season, created_at, updated_at
		FROM participants
		WHERE id = $1`

	var p domain.Participant
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.NormalizedName, &p.Distance, &p.Gender, &p.Season, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("participant", strconv.FormatInt(id, 10))
		}
		return nil, fmt.Errorf("failed to get participant by id: %w", err)
	}
	return &p, nil
}

// Races returns a participant's races ordered by date descending.
func (r *PgParticipantRepository) Races(ctx context.Context, participantID int64) ([]domain.RaceResult, error) {
	query := `
		SELECT date, result, km, location, season, category
		FROM races
		WHERE participant_id = $1
		ORDER BY date DESC`

	rows, err := r.db.Query(ctx, query, participantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list races: %w", err)
	}
	defer rows.Close()

	return scanRaces(rows)
}

// Search returns participants whose folded name contains the folded query.
// Rows sharing the same spelling and gender collapse to one hit with the
// lowest id, so a name present in both distance categories lists once; a
// non-empty distance restricts the match to that category instead.
func (r *PgParticipantRepository) Search(ctx context.Context, query string, distance domain.Distance, limit int) ([]domain.Participant, error) {
	key := latvian.MatchKey(strings.TrimSpace(query))
	if key == "" {
		return nil, domain.NewValidationError("query", "search query is required")
	}
	if limit <= 0 {
		limit = 10
	}

	sql := `
		SELECT DISTINCT ON (name, gender) id, name, normalized_name, distance, gender, season, created_at, updated_at
		FROM participants
		WHERE normalized_name LIKE '%' || $1 || '%'
		ORDER BY name, gender, id
		LIMIT $2`
	args := []any{key, limit}
	if distance != "" {
		sql = `
		SELECT DISTINCT ON (name, gender) id, name, normalized_name, distance, gender, season, created_at, updated_at
		FROM participants
		WHERE normalized_name LIKE '%' || $1 || '%' AND distance = $3
		ORDER BY name, gender, id
		LIMIT $2`
		args = append(args, distance)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search participants: %w", err)
	}
	defer rows.Close()

	return scanParticipants(rows)
}

// History returns the race history for a name within one distance category.
func (r *PgParticipantRepository) History(ctx context.Context, name string, distance domain.Distance) (*domain.History, error) {
	key := latvian.MatchKey(strings.TrimSpace(name))
	if key == "" {
		return nil, domain.NewValidationError("name", "participant name is required")
	}

	query := `
		SELECT p.name, r.date, r.result, r.km, r.location, r.season, r.category
		FROM participants p
		JOIN races r ON r.participant_id = p.id
		WHERE p.normalized_name = $1 AND p.distance = $2
		ORDER BY r.date ASC`

	rows, err := r.db.Query(ctx, query, key, distance)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	defer rows.Close()

	var history domain.History
	for rows.Next() {
		var race domain.RaceResult
		if err := rows.Scan(&history.Name, &race.Date, &race.Result, &race.Km, &race.Location, &race.Season, &race.Category); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		history.Races = append(history.Races, race)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history rows: %w", err)
	}
	if history.Name == "" {
		return nil, domain.NewNotFoundError("participant", name)
	}
	return &history, nil
}

// UpsertCanonical inserts a canonical participant keyed by
// (normalized name, distance, gender); on conflict the stored row adopts the
// most recently selected canonical name.
func (r *PgParticipantRepository) UpsertCanonical(ctx context.Context, cp *domain.CanonicalParticipant) (int64, error) {
	if cp == nil {
		return 0, domain.NewValidationError("participant", "participant cannot be nil")
	}
	if strings.TrimSpace(cp.Name) == "" {
		return 0, domain.NewValidationError("name", "participant name is required")
	}

	query := `
		INSERT INTO participants (name, normalized_name, distance, gender, season, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (normalized_name, distance, gender) DO UPDATE SET
			name = EXCLUDED.name,
			season = EXCLUDED.season,
			updated_at = NOW()
		RETURNING id`

	var id int64
	err := r.db.QueryRow(ctx, query,
		cp.Name,
		latvian.MatchKey(cp.Name),
		cp.Distance,
		cp.Gender,
		cp.LatestSeason(),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert participant: %w", err)
	}
	return id, nil
}

// InsertRaceIfAbsent inserts a race unless the participant already has one
// on the same date at the same location.
func (r *PgParticipantRepository) InsertRaceIfAbsent(ctx context.Context, participantID int64, race domain.RaceResult) (bool, error) {
	query := `
		INSERT INTO races (participant_id, date, result, km, location, season, category)
		SELECT $1, $2, $3, $4, $5, $6, $7
		WHERE NOT EXISTS (
			SELECT 1 FROM races
			WHERE participant_id = $1 AND date = $2 AND location = $5
		)`

	tag, err := r.db.Exec(ctx, query,
		participantID,
		race.Date,
		race.Result,
		race.Km,
		strings.TrimSpace(race.Location),
		race.Season,
		race.Category,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert race: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ReassignRaces moves every race owned by oldID onto newID.
func (r *PgParticipantRepository) ReassignRaces(ctx context.Context, oldID, newID int64) (int64, error) {
	tag, err := r.db.Exec(ctx, `UPDATE races SET participant_id = $2 WHERE participant_id = $1`, oldID, newID)
	if err != nil {
		return 0, fmt.Errorf("failed to reassign races: %w", err)
	}
	return tag.RowsAffected(), nil
}

// txRunner is satisfied by *database.DB. Handles without it (a pgx.Tx, a
// mock pool) fall back to running the two writes sequentially.
type txRunner interface {
	WithTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error
}

// MergeParticipant reassigns every race owned by oldID onto newID and then
// deletes the emptied row. Races move first so they stay reachable if the
// second write fails; against a connection pool both writes run in one
// transaction.
func (r *PgParticipantRepository) MergeParticipant(ctx context.Context, oldID, newID int64) (int64, error) {
	runner, ok := r.db.(txRunner)
	if !ok {
		return mergeParticipant(ctx, r, oldID, newID)
	}

	var moved int64
	err := runner.WithTransaction(ctx, func(tx pgx.Tx) error {
		var err error
		moved, err = mergeParticipant(ctx, NewPgParticipantRepository(tx), oldID, newID)
		return err
	})
	return moved, err
}

func mergeParticipant(ctx context.Context, r *PgParticipantRepository, oldID, newID int64) (int64, error) {
	moved, err := r.ReassignRaces(ctx, oldID, newID)
	if err != nil {
		return 0, err
	}
	return moved, r.DeleteParticipant(ctx, oldID)
}

// DeleteParticipant removes a participant row by id.
func (r *PgParticipantRepository) DeleteParticipant(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM participants WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete participant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("participant", strconv.FormatInt(id, 10))
	}
	return nil
}

func scanParticipants(rows pgx.Rows) ([]domain.Participant, error) {
	var out []domain.Participant
	for rows.Next() {
		var p domain.Participant
		if err := rows.Scan(&p.ID, &p.Name, &p.NormalizedName, &p.Distance, &p.Gender, &p.Season, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan participant row: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read participant rows: %w", err)
	}
	return out, nil
}

func scanRaces(rows pgx.Rows) ([]domain.RaceResult, error) {
	var out []domain.RaceResult
	for rows.Next() {
		var race domain.RaceResult
		if err := rows.Scan(&race.Date, &race.Result, &race.Km, &race.Location, &race.Season, &race.Category); err != nil {
			return nil, fmt.Errorf("failed to scan race row: %w", err)
		}
		out = append(out, race)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read race rows: %w", err)
	}
	return out, nil
}
