// Package latvian folds the Latvian diacritic alphabet to ASCII for
// participant name matching. The alphabet is closed: eleven accented
// letters (ā, č, ē, ģ, ī, ķ, ļ, ņ, š, ū, ž) and their uppercase forms,
// each mapping to exactly one ASCII letter. All other characters pass
// through untouched.
package latvian

import (
	"strings"
)

// foldMap maps each Latvian accented rune to its ASCII equivalent,
// preserving case per rune.
var foldMap = map[rune]rune{
	'ā': 'a', 'Ā': 'A',
	'č': 'c', 'Č': 'C',
	'ē': 'e', 'Ē': 'E',
	'ģ': 'g', 'Ģ': 'G',
	'ī': 'i', 'Ī': 'I',
	'ķ': 'k', 'Ķ': 'K',
	'ļ': 'l', 'Ļ': 'L',
	'ņ': 'n', 'Ņ': 'N',
	'š': 's', 'Š': 'S',
	'ū': 'u', 'Ū': 'U',
	'ž': 'z', 'Ž': 'Z',
}

// Normalize replaces every Latvian accented letter with its ASCII
// equivalent. The case of each replaced letter is preserved; the rest of
// the string is left as-is. Applying Normalize twice yields the same
// result as applying it once.
func Normalize(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if folded, ok := foldMap[r]; ok {
			sb.WriteRune(folded)
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// CountDiacritics returns the number of Latvian accented letters in s,
// counting both lowercase and uppercase forms.
func CountDiacritics(s string) int {
	n := 0
	for _, r := range s {
		if _, ok := foldMap[r]; ok {
			n++
		}
	}
	return n
}

// HasNaturalCasing reports whether s is written in natural casing rather
// than all-uppercase. Only ASCII letters and the Latvian accented letters
// are considered; a string without any such letters has natural casing
// vacuously.
func HasNaturalCasing(s string) bool {
	letters := 0
	for _, r := range s {
		if !isNameLetter(r) {
			continue
		}
		letters++
		if isLowerNameLetter(r) {
			return true
		}
	}
	return letters == 0
}

// MatchKey returns the diacritic-folded, lowercased form of s. It is the
// key used wherever two spellings must compare equal regardless of case
// or diacritics. Never use it for display.
func MatchKey(s string) string {
	return strings.ToLower(Normalize(s))
}

func isNameLetter(r rune) bool {
	if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
		return true
	}
	_, ok := foldMap[r]
	return ok
}

func isLowerNameLetter(r rune) bool {
	if r >= 'a' && r <= 'z' {
		return true
	}
	folded, ok := foldMap[r]
	return ok && folded >= 'a' && folded <= 'z'
}
