package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noskrien/results-service/internal/domain"
	"github.com/noskrien/results-service/internal/reconcile"
)

type fakeWriter struct {
	nextID     int64
	upserts    []domain.CanonicalParticipant
	races      map[int64][]domain.RaceResult
	existing   map[string]bool // date|location pairs treated as already stored
	upsertErr  map[string]error
	raceErrors map[string]error
}

func newFakeWriter() *fakeWriter {
	return &fakeWriter{
		races:      make(map[int64][]domain.RaceResult),
		existing:   make(map[string]bool),
		upsertErr:  make(map[string]error),
		raceErrors: make(map[string]error),
	}
}

func (f *fakeWriter) UpsertCanonical(_ context.Context, cp *domain.CanonicalParticipant) (int64, error) {
	if err := f.upsertErr[cp.Name]; err != nil {
		return 0, err
	}
	f.nextID++
	f.upserts = append(f.upserts, *cp)
	return f.nextID, nil
}

func (f *fakeWriter) InsertRaceIfAbsent(_ context.Context, participantID int64, race domain.RaceResult) (bool, error) {
	key := race.Date + "|" + race.Location
	if err := f.raceErrors[key]; err != nil {
		return false, err
	}
	if f.existing[key] {
		return false, nil
	}
	f.races[participantID] = append(f.races[participantID], race)
	return true, nil
}

func record(name string, races ...domain.RaceResult) domain.ParticipantRecord {
	return domain.ParticipantRecord{
		Name:     name,
		Season:   "2017-2018",
		Distance: domain.DistanceTautas,
		Gender:   domain.GenderMale,
		Races:    races,
	}
}

func race(date, location string) domain.RaceResult {
	return domain.RaceResult{Date: date, Result: "52:09", Km: "10", Location: location}
}

func TestPipelineRun(t *testing.T) {
	store := newFakeWriter()
	p := New(store, reconcile.DefaultGenderRepair, zerolog.Nop(), nil)

	records := []domain.ParticipantRecord{
		record("Davis Pazars", race("2017-12-17", "Ogre")),
		record("Dāvis Pazars", race("2018-01-21", "Sigulda")),
		record("Ilze Kronberga", race("2017-12-17", "Ogre")),
	}

	report, err := p.Run(context.Background(), records)
	require.NoError(t, err)

	assert.Equal(t, 3, report.RecordsScanned)
	assert.Equal(t, 1, report.DuplicatesMerged)
	assert.Equal(t, 2, report.Participants)
	assert.Equal(t, 3, report.RacesInserted)
	assert.Equal(t, 0, report.RacesSkipped)

	require.Len(t, store.upserts, 2)
	assert.Equal(t, "Dāvis Pazars", store.upserts[0].Name)
	require.Len(t, store.races[1], 2)
}

func TestPipelineRun_SkipsExistingRaces(t *testing.T) {
	store := newFakeWriter()
	store.existing["2017-12-17|Ogre"] = true
	p := New(store, reconcile.DefaultGenderRepair, zerolog.Nop(), nil)

	report, err := p.Run(context.Background(), []domain.ParticipantRecord{
		record("Dāvis Pazars", race("2017-12-17", "Ogre"), race("2018-01-21", "Sigulda")),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, report.RacesInserted)
	assert.Equal(t, 1, report.RacesSkipped)
}

func TestPipelineRun_UpsertFailureSkipsRacesAndContinues(t *testing.T) {
	store := newFakeWriter()
	store.upsertErr["Dāvis Pazars"] = errors.New("db down")
	p := New(store, reconcile.DefaultGenderRepair, zerolog.Nop(), nil)

	report, err := p.Run(context.Background(), []domain.ParticipantRecord{
		record("Dāvis Pazars", race("2017-12-17", "Ogre")),
		record("Ilze Kronberga", race("2018-01-21", "Sigulda")),
	})
	require.Error(t, err)

	// The failing participant contributes no races; the other still lands.
	assert.Equal(t, 1, report.RacesInserted)
	require.Len(t, store.upserts, 1)
	assert.Equal(t, "Ilze Kronberga", store.upserts[0].Name)
}

func TestPipelineRun_RaceFailureCollected(t *testing.T) {
	store := newFakeWriter()
	raceErr := errors.New("insert failed")
	store.raceErrors["2017-12-17|Ogre"] = raceErr
	p := New(store, reconcile.DefaultGenderRepair, zerolog.Nop(), nil)

	report, err := p.Run(context.Background(), []domain.ParticipantRecord{
		record("Dāvis Pazars", race("2017-12-17", "Ogre"), race("2018-01-21", "Sigulda")),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, raceErr)
	assert.Equal(t, 1, report.RacesInserted)
}

func TestPipelineRun_GenderRepair(t *testing.T) {
	store := newFakeWriter()
	p := New(store, reconcile.DefaultGenderRepair, zerolog.Nop(), nil)

	misfiled := record("Ilze Kronberga", race("2017-12-17", "Ogre"))
	female := misfiled
	female.Gender = domain.GenderFemale
	female.Races = []domain.RaceResult{race("2018-01-21", "Sigulda")}

	report, err := p.Run(context.Background(), []domain.ParticipantRecord{misfiled, female})
	require.NoError(t, err)

	assert.Equal(t, 1, report.GendersRepaired)
	require.Len(t, store.upserts, 1)
	assert.Equal(t, domain.GenderFemale, store.upserts[0].Gender)
}

func TestPipelineReconcile(t *testing.T) {
	p := New(newFakeWriter(), reconcile.DefaultGenderRepair, zerolog.Nop(), nil)

	canonical, report := p.Reconcile([]domain.ParticipantRecord{
		record("Davis Pazars", race("2017-12-17", "Ogre")),
		record("Dāvis Pazars", race("2018-01-21", "Sigulda")),
	})

	require.Len(t, canonical, 1)
	assert.Equal(t, "Dāvis Pazars", canonical[0].Name)
	assert.Equal(t, 1, report.DuplicatesMerged)
	assert.Equal(t, 2, report.RecordsScanned)
}
