package reconcile

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/noskrien/results-service/internal/domain"
)

// MergeStore is the storage surface needed to apply a merge plan.
type MergeStore interface {
	// MergeParticipant moves every race owned by oldID onto newID, then
	// deletes the emptied row; races move first so they stay reachable if
	// the second write fails. Returns the number of races moved.
	MergeParticipant(ctx context.Context, oldID, newID int64) (int64, error)
}

// ExecuteReport counts the work applied by one Execute run.
type ExecuteReport struct {
	ActionsApplied      int   `json:"actions_applied"`
	RacesReassigned     int64 `json:"races_reassigned"`
	ParticipantsDeleted int   `json:"participants_deleted"`
}

// Executor applies merge plans against storage.
type Executor struct {
	store  MergeStore
	logger zerolog.Logger
}

// NewExecutor creates an Executor.
func NewExecutor(store MergeStore, logger zerolog.Logger) *Executor {
	return &Executor{store: store, logger: logger}
}

// Execute applies every action in the plan; each action reassigns the
// absorbed row's races to the keeper and deletes the emptied row as one
// store operation. A failing action is recorded and skipped so one bad row
// does not drop the rest of the plan; the joined errors identify every
// failed action. Re-planning after a partial run yields the remaining work,
// so the caller may simply retry.
func (e *Executor) Execute(ctx context.Context, plan Plan) (ExecuteReport, error) {
	var report ExecuteReport
	var errs []error

	for _, action := range plan.Actions {
		logger := e.logger.With().
			Int64("old_id", action.OldID).
			Int64("new_id", action.NewID).
			Str("canonical_name", action.NewName).
			Logger()

		moved, err := e.store.MergeParticipant(ctx, action.OldID, action.NewID)
		if err != nil {
			errs = append(errs, &domain.MergeExecutionError{
				OldID: action.OldID,
				NewID: action.NewID,
				Step:  "merge participant",
				Cause: err,
			})
			logger.Error().Err(err).Msg("failed to merge duplicate participant")
			continue
		}
		report.RacesReassigned += moved
		report.ParticipantsDeleted++
		report.ActionsApplied++

		logger.Info().
			Int64("races_reassigned", moved).
			Str("absorbed_name", action.OldName).
			Msg("merged duplicate participant")
	}

	return report, errors.Join(errs...)
}
