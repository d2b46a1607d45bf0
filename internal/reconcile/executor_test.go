package reconcile

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noskrien/results-service/internal/domain"
)

type fakeMergeStore struct {
	merged   [][2]int64
	mergeErr map[int64]error
}

func (f *fakeMergeStore) MergeParticipant(_ context.Context, oldID, newID int64) (int64, error) {
	if err := f.mergeErr[oldID]; err != nil {
		return 0, err
	}
	f.merged = append(f.merged, [2]int64{oldID, newID})
	return 2, nil
}

func testPlan() Plan {
	return Plan{
		Actions: []domain.MergeAction{
			{OldID: 1, OldName: "Davis Pazars", NewID: 2, NewName: "Dāvis Pazars"},
			{OldID: 5, OldName: "ILZE KRONBERGA", NewID: 4, NewName: "Ilze Kronberga"},
		},
		TotalMerges:   2,
		UniqueKeepers: 2,
	}
}

func TestExecutor_Execute(t *testing.T) {
	t.Parallel()

	store := &fakeMergeStore{}
	exec := NewExecutor(store, zerolog.Nop())

	report, err := exec.Execute(context.Background(), testPlan())

	require.NoError(t, err)
	assert.Equal(t, 2, report.ActionsApplied)
	assert.Equal(t, int64(4), report.RacesReassigned)
	assert.Equal(t, 2, report.ParticipantsDeleted)

	require.Len(t, store.merged, 2)
	assert.Equal(t, [2]int64{1, 2}, store.merged[0])
	assert.Equal(t, [2]int64{5, 4}, store.merged[1])
}

func TestExecutor_FailedActionDoesNotDropTheRest(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection reset")
	store := &fakeMergeStore{mergeErr: map[int64]error{1: boom}}
	exec := NewExecutor(store, zerolog.Nop())

	report, err := exec.Execute(context.Background(), testPlan())

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	var mergeErr *domain.MergeExecutionError
	require.ErrorAs(t, err, &mergeErr)
	assert.Equal(t, int64(1), mergeErr.OldID)
	assert.Equal(t, int64(2), mergeErr.NewID)

	// The remaining action is still applied; the report only counts work
	// that actually happened.
	require.Len(t, store.merged, 1)
	assert.Equal(t, [2]int64{5, 4}, store.merged[0])
	assert.Equal(t, 1, report.ActionsApplied)
	assert.Equal(t, int64(2), report.RacesReassigned)
	assert.Equal(t, 1, report.ParticipantsDeleted)
}

func TestExecutor_AllActionsFailingJoinsEveryError(t *testing.T) {
	t.Parallel()

	store := &fakeMergeStore{mergeErr: map[int64]error{
		1: errors.New("row locked"),
		5: errors.New("row locked"),
	}}
	exec := NewExecutor(store, zerolog.Nop())

	report, err := exec.Execute(context.Background(), testPlan())

	require.Error(t, err)
	assert.Zero(t, report.ActionsApplied)

	var mergeErr *domain.MergeExecutionError
	require.ErrorAs(t, err, &mergeErr)
	assert.Contains(t, err.Error(), "merge 1 -> 2")
	assert.Contains(t, err.Error(), "merge 5 -> 4")
}

func TestExecutor_EmptyPlan(t *testing.T) {
	t.Parallel()

	store := &fakeMergeStore{}
	exec := NewExecutor(store, zerolog.Nop())

	report, err := exec.Execute(context.Background(), Plan{})

	require.NoError(t, err)
	assert.Zero(t, report.ActionsApplied)
	assert.Empty(t, store.merged)
}
