// Package reconcile groups differently spelled participant records into
// canonical identities and plans the merges needed to collapse duplicate
// rows in storage.
package reconcile

import "github.com/noskrien/results-service/internal/latvian"

// NamePreferred reports whether spelling a is preferred over spelling b for
// display. The order is total and deterministic: more diacritics win, then
// natural casing beats all-uppercase, then the lexicographically smaller
// string wins.
func NamePreferred(a, b string) bool {
	da, db := latvian.CountDiacritics(a), latvian.CountDiacritics(b)
	if da != db {
		return da > db
	}
	na, nb := latvian.HasNaturalCasing(a), latvian.HasNaturalCasing(b)
	if na != nb {
		return na
	}
	return a < b
}

// SelectCanonicalName picks the preferred spelling among name variants that
// denote the same person. It is pure: the input slice is not reordered.
// Returns "" for an empty input.
func SelectCanonicalName(variants []string) string {
	if len(variants) == 0 {
		return ""
	}
	best := variants[0]
	for _, v := range variants[1:] {
		if NamePreferred(v, best) {
			best = v
		}
	}
	return best
}
