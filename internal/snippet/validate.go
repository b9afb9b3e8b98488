// Package snippet decides whether quoted evidence snippets are authentic
// quotations from a source document, and proposes ranked replacements when
// they are not. The package does no I/O.
package snippet

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// SimilarityThreshold is the whole-string similarity above which a snippet
// is accepted despite not being a verbatim substring. Heuristic constant
// carried over from the previous curation tooling; tunable, not load-bearing.
const SimilarityThreshold = 0.95

// Normalize collapses whitespace and case-folds, the shared form both
// validation operands are reduced to.
func Normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// Similarity returns an edit-distance-based ratio in [0,1] between the two
// strings after normalization. 1 means identical.
func Similarity(a, b string) float64 {
	a, b = Normalize(a), Normalize(b)
	if a == b {
		return 1
	}
	longest := len([]rune(a))
	if n := len([]rune(b)); n > longest {
		longest = n
	}
	if longest == 0 {
		return 1
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}

// IsValid reports whether snippet is present, exactly or near-exactly, in
// source. Both strings are whitespace-collapsed and case-folded; a
// substring match is valid, and otherwise a whole-string similarity above
// SimilarityThreshold tolerates trivial transcription differences. A
// missing snippet or source is always invalid.
func IsValid(snippet, source string) bool {
	valid, _ := Validate(snippet, source)
	return valid
}

// Validate is IsValid plus the similarity ratio used for the decision,
// for diagnostics. The ratio is 1.0 on a substring match.
func Validate(snippet, source string) (bool, float64) {
	sn, src := Normalize(snippet), Normalize(source)
	if sn == "" || src == "" {
		return false, 0
	}
	if strings.Contains(src, sn) {
		return true, 1
	}
	ratio := Similarity(snippet, source)
	return ratio > SimilarityThreshold, ratio
}
