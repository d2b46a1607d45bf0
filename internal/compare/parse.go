// Package compare matches two participants' race histories and computes
// per-race pace differences.
package compare

import (
	"strconv"
	"strings"
)

// ParseResultTime converts a scraped finish time into elapsed seconds.
// Accepted formats are "M:SS" and "H:MM:SS". Blank, "0", "x" and "-" mark
// races without a recorded time; those, and anything else unparseable,
// return ok=false.
func ParseResultTime(s string) (int, bool) {
	s = strings.TrimSpace(s)
	switch s {
	case "", "0", "x", "-":
		return 0, false
	}

	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, false
	}

	total := 0
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 {
			return 0, false
		}
		total = total*60 + n
	}
	return total, true
}

// ParseDistance converts a scraped distance into kilometres, accepting
// either "," or "." as the decimal separator. Non-positive and unparseable
// values return ok=false.
func ParseDistance(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	km, err := strconv.ParseFloat(s, 64)
	if err != nil || km <= 0 {
		return 0, false
	}
	return km, true
}
