// Package textsim scores text similarity with character trigrams.
//
// The score is the Jaccard index of the two trigram sets, which is cheap,
// order-insensitive and robust against small edits. It is used to group
// bookmarks whose titles look like the same page saved twice.
package textsim

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Trigrams returns the set of character trigrams of s after folding.
// Folding applies NFKC normalization, lowercases, and collapses runs of
// whitespace to a single space. Inputs shorter than three runes after
// folding produce an empty set.
func Trigrams(s string) map[string]struct{} {
	runes := []rune(fold(s))
	set := make(map[string]struct{})
	if len(runes) < 3 {
		return set
	}
	for i := 0; i+3 <= len(runes); i++ {
		set[string(runes[i:i+3])] = struct{}{}
	}
	return set
}

// Similarity returns the Jaccard index of the trigram sets of a and b,
// in [0, 1]. Two identical strings score 1.0; strings that fold below
// three runes score 0.0 against everything, including themselves.
func Similarity(a, b string) float64 {
	ta := Trigrams(a)
	tb := Trigrams(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0.0
	}

	// Iterate the smaller set.
	if len(tb) < len(ta) {
		ta, tb = tb, ta
	}
	intersection := 0
	for g := range ta {
		if _, ok := tb[g]; ok {
			intersection++
		}
	}
	union := len(ta) + len(tb) - intersection
	return float64(intersection) / float64(union)
}

// fold canonicalizes s for comparison: NFKC, lowercase, single spaces.
func fold(s string) string {
	s = norm.NFKC.String(s)
	s = strings.ToLower(s)
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}
