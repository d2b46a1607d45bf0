package scrape

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestParseRaceDate(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
		ok   bool
	}{
		{"december belongs to start year", "17.decembris", "2017-12-17", true},
		{"january belongs to end year", "21.janvāris", "2018-01-21", true},
		{"july belongs to start year", "1.jūlijs", "2017-07-01", true},
		{"june belongs to end year", "30.jūnijs", "2018-06-30", true},
		{"uppercase month", "5.Marts", "2018-03-05", true},
		{"surrounding whitespace", " 3.februāris ", "2018-02-03", true},
		{"unknown month", "17.undecimber", "17.undecimber", false},
		{"no separator", "decembris", "decembris", false},
		{"non-numeric day", "x.marts", "x.marts", false},
		{"day out of range", "32.marts", "32.marts", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseRaceDate(tt.raw, 2017, 2018)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractLinks(t *testing.T) {
	doc := mustParse(t, `
		<html><body>
			<a href="../dal/F00123.HTM">Jānis Bērziņš</a>
			<a href="../dal/F00456.HTM">Ilze Kronberga</a>
			<a href="index.htm">Home</a>
			<a href="https://example.com/dal/other.htm">External</a>
		</body></html>`)

	links := ExtractLinks(doc, "https://rez.magnets.lv/NZ_17-18/kopv/")

	assert.Equal(t, []string{
		"https://rez.magnets.lv/NZ_17-18/kopv/dal/F00123.HTM",
		"https://rez.magnets.lv/NZ_17-18/kopv/dal/F00456.HTM",
	}, links)
}

func TestExtractLinks_NoParticipantLinks(t *testing.T) {
	doc := mustParse(t, `<html><body><a href="other.htm">x</a></body></html>`)
	assert.Empty(t, ExtractLinks(doc, "https://rez.magnets.lv/base/"))
}

func TestExtractName(t *testing.T) {
	doc := mustParse(t, `<html><head><title>Dāvis Pazars</title></head><body></body></html>`)
	assert.Equal(t, "Dāvis Pazars", ExtractName(doc))
}

func TestExtractName_MissingTitle(t *testing.T) {
	doc := mustParse(t, `<html><body></body></html>`)
	assert.Equal(t, "Unknown", ExtractName(doc))
}

const participantPage = `
<html><head><title>Dāvis Pazars</title></head><body>
<table border=1>
  <tr><th>Nr</th><th>Rezultāts</th><th>V</th><th>Gr</th><th>VGr</th><th>km</th><th>Temps</th><th>Punkti</th><th>Datums</th><th>Vieta</th></tr>
  <tr><td>1</td><td>52:09</td><td>12</td><td>3</td><td>2</td><td>10</td><td>5:13</td><td>100</td><td>17.decembris</td><td>Ogre&nbsp;</td></tr>
  <tr><td>2</td><td>1:01:59</td><td>15</td><td>4</td><td>3</td><td>11,2</td><td>5:32</td><td>95</td><td>21.janvāris</td><td>Sigulda</td></tr>
  <tr><td>Kopā</td><td colspan="9">punkti: 195</td></tr>
  <tr><td>3</td><td>short</td><td>row</td></tr>
</table>
<table><tr><td>unrelated</td></tr></table>
</body></html>`

func TestExtractRaces(t *testing.T) {
	doc := mustParse(t, participantPage)

	races := ExtractRaces(doc, 2017, 2018)
	require.Len(t, races, 2)

	assert.Equal(t, "2017-12-17", races[0].Date)
	assert.Equal(t, "52:09", races[0].Result)
	assert.Equal(t, "10", races[0].Km)
	assert.Equal(t, "Ogre", races[0].Location)

	assert.Equal(t, "2018-01-21", races[1].Date)
	assert.Equal(t, "1:01:59", races[1].Result)
	assert.Equal(t, "11,2", races[1].Km)
	assert.Equal(t, "Sigulda", races[1].Location)
}

func TestExtractRaces_NoResultsTable(t *testing.T) {
	doc := mustParse(t, `<html><body><table><tr><td>nothing</td></tr></table></body></html>`)
	assert.Empty(t, ExtractRaces(doc, 2017, 2018))
}
