// Package pipeline runs the batch ingestion flow: raw participant records go
// through gender repair and duplicate merging, and the canonical result is
// written to storage or rendered as SQL.
package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/noskrien/results-service/internal/domain"
	"github.com/noskrien/results-service/internal/observability"
	"github.com/noskrien/results-service/internal/reconcile"
)

// Writer persists canonical participants and their races.
type Writer interface {
	UpsertCanonical(ctx context.Context, cp *domain.CanonicalParticipant) (int64, error)
	InsertRaceIfAbsent(ctx context.Context, participantID int64, race domain.RaceResult) (bool, error)
}

// Report summarizes one pipeline run.
type Report struct {
	RecordsScanned   int `json:"records_scanned"`
	GendersRepaired  int `json:"genders_repaired"`
	DuplicatesMerged int `json:"duplicates_merged"`
	Participants     int `json:"participants"`
	RacesInserted    int `json:"races_inserted"`
	RacesSkipped     int `json:"races_skipped"`
}

// Pipeline reconciles raw records and writes the canonical dataset.
type Pipeline struct {
	store   Writer
	policy  reconcile.GenderRepairPolicy
	logger  zerolog.Logger
	metrics *observability.Metrics
}

// New creates a Pipeline. The metrics parameter may be nil.
func New(store Writer, policy reconcile.GenderRepairPolicy, logger zerolog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		store:   store,
		policy:  policy,
		logger:  logger.With().Str("component", "pipeline").Logger(),
		metrics: metrics,
	}
}

// Run reconciles the given records and persists the result. Write failures
// for one participant do not stop the run; all failures are joined into the
// returned error. Re-running with the same input is a no-op because both
// writes are conditional.
func (p *Pipeline) Run(ctx context.Context, records []domain.ParticipantRecord) (Report, error) {
	start := time.Now()

	registry := reconcile.NewRegistry()
	for _, rec := range records {
		registry.Add(rec)
	}
	repaired := registry.RepairGenders(p.policy)
	canonical, stats := registry.Merge()

	report := Report{
		RecordsScanned:   stats.RecordsScanned,
		GendersRepaired:  repaired,
		DuplicatesMerged: stats.MergedDuplicates,
		Participants:     len(canonical),
	}

	var errs []error
	for i := range canonical {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		cp := &canonical[i]
		id, err := p.store.UpsertCanonical(ctx, cp)
		if err != nil {
			errs = append(errs, err)
			p.logger.Error().Err(err).Str("name", cp.Name).Msg("participant upsert failed")
			continue
		}

		for _, race := range cp.Races {
			inserted, err := p.store.InsertRaceIfAbsent(ctx, id, race)
			if err != nil {
				errs = append(errs, err)
				p.logger.Error().Err(err).Str("name", cp.Name).Str("date", race.Date).Msg("race insert failed")
				continue
			}
			if inserted {
				report.RacesInserted++
			} else {
				report.RacesSkipped++
			}
		}
	}

	if p.metrics != nil {
		p.metrics.RecordMergeRun("batch", time.Since(start).Seconds())
		p.metrics.RecordRecordsScanned(report.RecordsScanned)
		p.metrics.RecordGenderRepairs(report.GendersRepaired)
	}

	p.logger.Info().
		Int("records", report.RecordsScanned).
		Int("genders_repaired", report.GendersRepaired).
		Int("duplicates_merged", report.DuplicatesMerged).
		Int("participants", report.Participants).
		Int("races_inserted", report.RacesInserted).
		Int("races_skipped", report.RacesSkipped).
		Msg("pipeline run finished")

	return report, errors.Join(errs...)
}

// Reconcile runs gender repair and duplicate merging without touching
// storage. It backs the SQL emission mode.
func (p *Pipeline) Reconcile(records []domain.ParticipantRecord) ([]domain.CanonicalParticipant, Report) {
	registry := reconcile.NewRegistry()
	for _, rec := range records {
		registry.Add(rec)
	}
	repaired := registry.RepairGenders(p.policy)
	canonical, stats := registry.Merge()

	return canonical, Report{
		RecordsScanned:   stats.RecordsScanned,
		GendersRepaired:  repaired,
		DuplicatesMerged: stats.MergedDuplicates,
		Participants:     len(canonical),
	}
}
