package domain

import (
	"strings"
	"unicode"
)

// SpeciesNotAvailable replaces a missing common name.
const SpeciesNotAvailable = "Not Available"

// schubertRaw is the one common name the census publishes with stray quotes.
const schubertRaw = "'Schubert' chokecherry"

// NormalizeSpecies cleans a census common name:
//   - empty becomes "Not Available"
//   - "'Schubert' chokecherry" loses its quotes
//   - words are title cased
//   - the possessive "'S" produced by title casing goes back to "'s"
//
// Applying it twice gives the same result as applying it once.
func NormalizeSpecies(s string) string {
	if strings.TrimSpace(s) == "" {
		return SpeciesNotAvailable
	}
	s = titleCase(FixSpeciesPunctuation(s))
	return strings.ReplaceAll(s, "'S", "'s")
}

// FixSpeciesPunctuation repairs the known mis-quoted common name before
// casing is applied.
func FixSpeciesPunctuation(s string) string {
	return strings.ReplaceAll(s, schubertRaw, "Schubert chokecherry")
}

// titleCase upper-cases the first letter of every run of letters and
// lower-cases the rest. Any non-letter, apostrophes included, starts a new run.
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		isLetter := unicode.IsLetter(r)
		switch {
		case isLetter && !prevLetter:
			b.WriteRune(unicode.ToUpper(r))
		case isLetter:
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
		prevLetter = isLetter
	}
	return b.String()
}
