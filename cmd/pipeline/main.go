// Package main provides the batch ingestion CLI: scrape or load raw season
// records, reconcile them, and write the canonical dataset to the database
// or to a SQL file.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/noskrien/results-service/internal/config"
	"github.com/noskrien/results-service/internal/database"
	"github.com/noskrien/results-service/internal/domain"
	"github.com/noskrien/results-service/internal/observability"
	"github.com/noskrien/results-service/internal/pipeline"
	"github.com/noskrien/results-service/internal/reconcile"
	"github.com/noskrien/results-service/internal/repository"
	"github.com/noskrien/results-service/internal/scrape"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	season := flag.String("season", "", "Season to scrape in site form, e.g. 17-18")
	distance := flag.String("distance", "Tautas", "Distance category (Tautas or Sporta)")
	gender := flag.String("gender", "both", "Gender bucket to scrape (V, S or both)")
	input := flag.String("input", "", "Read records from a JSON file instead of scraping")
	sqlOut := flag.String("sql", "", "Write idempotent SQL to this file instead of the database (- for stdout)")
	flag.Parse()

	if *season == "" && *input == "" {
		flag.Usage()
		return fmt.Errorf("either -season or -input is required")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := observability.NewLogger(observability.LoggingConfig{
		Level:      cfg.Logging.Level,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: cfg.Logging.TimeFormat,
	})
	logger = logger.With().Str("component", "pipeline").Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dist := domain.Distance(*distance)
	if dist != domain.DistanceTautas && dist != domain.DistanceSporta {
		return fmt.Errorf("distance must be Tautas or Sporta, got %q", *distance)
	}
	genders, err := parseGenders(*gender)
	if err != nil {
		return err
	}

	records, err := collectRecords(ctx, cfg, logger, *input, *season, dist, genders)
	if err != nil {
		return err
	}
	logger.Info().Int("records", len(records)).Msg("records collected")

	policy := reconcile.GenderRepairPolicy{
		Source: domain.Gender(cfg.Merge.GenderRepairSource),
		Target: domain.Gender(cfg.Merge.GenderRepairTarget),
	}

	if *sqlOut != "" {
		return emitSQL(records, policy, *sqlOut, logger)
	}

	db, err := database.New(ctx, &cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	repo := repository.NewPgParticipantRepository(db)
	p := pipeline.New(repo, policy, logger, nil)

	report, err := p.Run(ctx, records)
	if err != nil {
		logger.Error().Err(err).Msg("pipeline finished with errors")
		return err
	}
	logger.Info().
		Int("participants", report.Participants).
		Int("races_inserted", report.RacesInserted).
		Msg("import complete")
	return nil
}

// collectRecords loads raw records from a JSON file or scrapes them from the
// results site.
func collectRecords(ctx context.Context, cfg *config.Config, logger zerolog.Logger, input, season string, dist domain.Distance, genders []domain.Gender) ([]domain.ParticipantRecord, error) {
	if input != "" {
		return readRecords(input)
	}

	client := scrape.NewClient(cfg.Scrape, logger, nil)
	scraper := scrape.NewScraper(client, logger, nil)

	var records []domain.ParticipantRecord
	for _, g := range genders {
		url := scrape.SeasonURL(cfg.Scrape.BaseURL, season, g)
		recs, err := scraper.Season(ctx, url, dist, g)
		if err != nil {
			return nil, fmt.Errorf("scrape season %s gender %s: %w", season, g, err)
		}
		records = append(records, recs...)
	}
	return records, nil
}

// readRecords loads participant records from a JSON file.
func readRecords(path string) ([]domain.ParticipantRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input file: %w", err)
	}
	defer f.Close()

	var records []domain.ParticipantRecord
	if err := json.NewDecoder(f).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode input file: %w", err)
	}
	return records, nil
}

// emitSQL reconciles the records and writes idempotent import SQL.
func emitSQL(records []domain.ParticipantRecord, policy reconcile.GenderRepairPolicy, path string, logger zerolog.Logger) error {
	p := pipeline.New(nil, policy, logger, nil)
	canonical, report := p.Reconcile(records)

	var w io.Writer = os.Stdout
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create SQL file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if err := pipeline.WriteSQL(w, canonical); err != nil {
		return fmt.Errorf("write SQL: %w", err)
	}
	logger.Info().
		Int("participants", report.Participants).
		Int("duplicates_merged", report.DuplicatesMerged).
		Str("output", path).
		Msg("SQL emitted")
	return nil
}

func parseGenders(s string) ([]domain.Gender, error) {
	switch strings.ToLower(s) {
	case "both":
		return []domain.Gender{domain.GenderMale, domain.GenderFemale}, nil
	case "v":
		return []domain.Gender{domain.GenderMale}, nil
	case "s":
		return []domain.Gender{domain.GenderFemale}, nil
	default:
		return nil, fmt.Errorf("gender must be V, S or both, got %q", s)
	}
}
