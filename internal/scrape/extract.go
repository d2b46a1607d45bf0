package scrape

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/noskrien/results-service/internal/domain"
)

// latvianMonths maps lowercase Latvian month names to month numbers, as they
// appear in the Datums column ("17.decembris").
var latvianMonths = map[string]int{
	"janvāris":   1,
	"februāris":  2,
	"marts":      3,
	"aprīlis":    4,
	"maijs":      5,
	"jūnijs":     6,
	"jūlijs":     7,
	"augusts":    8,
	"septembris": 9,
	"oktobris":   10,
	"novembris":  11,
	"decembris":  12,
}

// ParseRaceDate converts a source date like "17.decembris" to ISO form.
// The source omits the year; races from July through December belong to the
// season's start year, the rest to its end year. Unparseable input is
// returned unchanged with ok=false.
func ParseRaceDate(raw string, startYear, endYear int) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(raw), ".", 2)
	if len(parts) < 2 {
		return raw, false
	}

	day, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || day < 1 || day > 31 {
		return raw, false
	}

	month, ok := latvianMonths[strings.ToLower(strings.TrimSpace(parts[1]))]
	if !ok {
		return raw, false
	}

	year := endYear
	if month >= 7 {
		year = startYear
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), true
}

// ExtractLinks returns the participant page URLs found on a season overview
// page. Participant links are relative hrefs into the dal/ directory one
// level above the overview page; baseURL must be that parent directory,
// ending with a slash.
func ExtractLinks(doc *goquery.Document, baseURL string) []string {
	var links []string
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if !strings.HasPrefix(href, "../dal/") {
			return
		}
		links = append(links, baseURL+strings.TrimPrefix(href, "../"))
	})
	return links
}

// ExtractName returns the participant name from a participant page, which
// the source puts in the document title.
func ExtractName(doc *goquery.Document) string {
	name := strings.TrimSpace(doc.Find("title").First().Text())
	if name == "" {
		return "Unknown"
	}
	return name
}

// ExtractRaces parses the race rows from a participant page. The results
// table is the bordered one; its header row and any row without a numeric
// ordinal or a full set of cells is skipped.
func ExtractRaces(doc *goquery.Document, startYear, endYear int) []domain.RaceResult {
	var races []domain.RaceResult

	doc.Find(`table[border="1"]`).First().Find("tr").Each(func(i int, tr *goquery.Selection) {
		if i == 0 {
			return
		}

		cells := tr.Find("td").Map(func(_ int, td *goquery.Selection) string {
			return cleanCell(td.Text())
		})
		if len(cells) < 10 {
			return
		}
		if _, err := strconv.Atoi(cells[0]); err != nil {
			return
		}

		date, _ := ParseRaceDate(cells[8], startYear, endYear)
		races = append(races, domain.RaceResult{
			Date:     date,
			Result:   cells[1],
			Km:       cells[5],
			Location: cells[9],
		})
	})

	return races
}

// cleanCell normalizes a table cell: non-breaking spaces become regular
// spaces and surrounding whitespace is dropped.
func cleanCell(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, " ", " "))
}
