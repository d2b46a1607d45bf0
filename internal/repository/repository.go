// Package repository provides data access interfaces and PostgreSQL
// implementations for the results service.
//
// Repositories follow the constructor pattern and accept a DBTX, so the same
// implementation works against the connection pool or inside a transaction
// started with database.DB.WithTransaction:
//
//	db, _ := database.New(ctx, cfg, logger)
//	repo := repository.NewPgParticipantRepository(db)
//
// All methods return domain-specific errors: domain.ErrNotFound for missing
// rows, domain.ErrInvalidInput for bad parameters. Database errors are
// wrapped with fmt.Errorf and the %w verb.
package repository

import (
	"context"

	"github.com/noskrien/results-service/internal/database"
	"github.com/noskrien/results-service/internal/domain"
)

// DBTX is the database interface supporting both pool and transaction contexts.
type DBTX = database.DBTX

// ParticipantRepository manages participants and their races.
type ParticipantRepository interface {
	// ListAll returns every participant row. Used by batch merge planning.
	ListAll(ctx context.Context) ([]domain.Participant, error)

	// GetByID returns one participant row.
	GetByID(ctx context.Context, id int64) (*domain.Participant, error)

	// Races returns a participant's races ordered by date descending.
	Races(ctx context.Context, participantID int64) ([]domain.RaceResult, error)

	// Search returns participants whose folded name contains the folded
	// query, up to limit rows. A non-empty distance narrows the match to one
	// category; rows sharing the same spelling and gender collapse to one
	// hit, keeping the earliest-known row.
	Search(ctx context.Context, query string, distance domain.Distance, limit int) ([]domain.Participant, error)

	// History returns the race history for a name within one distance
	// category, matched on the folded name, races ordered by date ascending.
	History(ctx context.Context, name string, distance domain.Distance) (*domain.History, error)

	// UpsertCanonical inserts a canonical participant or, on conflict with
	// the (normalized name, distance, gender) key, keeps the row and adopts
	// the most recently selected canonical name. Returns the row id.
	UpsertCanonical(ctx context.Context, cp *domain.CanonicalParticipant) (int64, error)

	// InsertRaceIfAbsent inserts a race unless the participant already has
	// one on the same date at the same location. Reports whether a row was
	// inserted, so repeated batch runs do not duplicate races.
	InsertRaceIfAbsent(ctx context.Context, participantID int64, race domain.RaceResult) (bool, error)

	// ReassignRaces moves every race owned by oldID onto newID and returns
	// the number of rows updated.
	ReassignRaces(ctx context.Context, oldID, newID int64) (int64, error)

	// DeleteParticipant removes a participant row by id.
	DeleteParticipant(ctx context.Context, id int64) error

	// MergeParticipant reassigns every race owned by oldID onto newID and
	// deletes the emptied row. Races move before the row goes away, and both
	// writes run in one transaction when the underlying handle supports it.
	// Returns the number of races moved.
	MergeParticipant(ctx context.Context, oldID, newID int64) (int64, error)
}
