package scrape

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/noskrien/results-service/internal/domain"
	"github.com/noskrien/results-service/internal/observability"
)

// Fetcher fetches a URL and returns the decoded page body.
type Fetcher interface {
	Get(ctx context.Context, url string) (string, error)
}

var _ Fetcher = (*Client)(nil)

// seasonPattern extracts the two-digit season years from overview URLs such
// as https://rez.magnets.lv/NZ_17-18/kopv/kopnz_1/VT.HTM.
var seasonPattern = regexp.MustCompile(`NZ_(\d{2})-(\d{2})`)

// Scraper collects participant records for one season, distance and gender
// from the results site.
type Scraper struct {
	client  Fetcher
	logger  zerolog.Logger
	metrics *observability.Metrics
}

// NewScraper creates a Scraper. The metrics parameter may be nil.
func NewScraper(client Fetcher, logger zerolog.Logger, metrics *observability.Metrics) *Scraper {
	return &Scraper{
		client:  client,
		logger:  logger.With().Str("component", "scraper").Logger(),
		metrics: metrics,
	}
}

// SeasonURL builds the overview page URL for a season and gender.
// seasonYears is the two-digit form used by the site, e.g. "17-18".
func SeasonURL(baseURL, seasonYears string, gender domain.Gender) string {
	return fmt.Sprintf("%s/NZ_%s/kopv/kopnz_1/%sT.HTM",
		strings.TrimSuffix(baseURL, "/"), seasonYears, gender)
}

// Season fetches the overview page at url and every participant page linked
// from it, returning one record per participant. Pages that fail to fetch or
// parse are skipped with a warning; the scrape continues.
func (s *Scraper) Season(ctx context.Context, url string, distance domain.Distance, gender domain.Gender) ([]domain.ParticipantRecord, error) {
	startYear, endYear, err := seasonYearsFromURL(url)
	if err != nil {
		return nil, err
	}
	season := fmt.Sprintf("%d-%d", startYear, endYear)

	mainHTML, err := s.client.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch overview page: %w", err)
	}
	mainDoc, err := goquery.NewDocumentFromReader(strings.NewReader(mainHTML))
	if err != nil {
		return nil, fmt.Errorf("parse overview page: %w", err)
	}

	links := ExtractLinks(mainDoc, parentDirURL(url))
	s.logger.Info().
		Str("season", season).
		Str("distance", string(distance)).
		Str("gender", string(gender)).
		Int("participants", len(links)).
		Msg("scraping season")

	records := make([]domain.ParticipantRecord, 0, len(links))
	skipped := 0
	for _, link := range links {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rec, err := s.participant(ctx, link, season, startYear, endYear, distance, gender)
		if err != nil {
			skipped++
			s.logger.Warn().Err(err).Str("url", link).Msg("skipping participant page")
			continue
		}
		records = append(records, rec)
	}

	if skipped > 0 {
		s.logger.Warn().Int("skipped", skipped).Str("season", season).Msg("some participant pages were skipped")
	}
	if s.metrics != nil {
		s.metrics.RecordScrapeRecordsParsed(season, len(records))
	}
	return records, nil
}

func (s *Scraper) participant(ctx context.Context, link, season string, startYear, endYear int, distance domain.Distance, gender domain.Gender) (domain.ParticipantRecord, error) {
	html, err := s.client.Get(ctx, link)
	if err != nil {
		return domain.ParticipantRecord{}, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return domain.ParticipantRecord{}, fmt.Errorf("parse participant page: %w", err)
	}

	races := ExtractRaces(doc, startYear, endYear)
	for i := range races {
		races[i].Season = season
		races[i].Category = string(distance)
	}

	return domain.ParticipantRecord{
		Name:       ExtractName(doc),
		SourceLink: link,
		Season:     season,
		Distance:   distance,
		Gender:     gender,
		Races:      races,
	}, nil
}

func seasonYearsFromURL(url string) (int, int, error) {
	m := seasonPattern.FindStringSubmatch(url)
	if m == nil {
		return 0, 0, domain.NewValidationError("url", "no season years in URL")
	}
	start, _ := strconv.Atoi(m[1])
	end, _ := strconv.Atoi(m[2])
	return 2000 + start, 2000 + end, nil
}

// parentDirURL returns the directory one level above the given page's
// directory, with a trailing slash. Participant links on overview pages are
// relative to that directory.
func parentDirURL(pageURL string) string {
	dir := pageURL[:strings.LastIndex(pageURL, "/")+1]
	dir = strings.TrimSuffix(dir, "/")
	return dir[:strings.LastIndex(dir, "/")+1]
}
