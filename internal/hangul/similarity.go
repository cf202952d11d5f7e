package hangul

import (
	"math"
	"unicode/utf8"

	"github.com/hbollon/go-edlib"
	"golang.org/x/text/cases"
)

// Similarity scores a and b from 0 to 100 using Levenshtein distance over their
// case-folded jamo sequences, so a single mistyped consonant costs a fraction of
// a syllable. Two inputs that decompose to nothing are identical (100).
func Similarity(a, b string) int {
	ja := DecomposeToJamo(cases.Fold().String(a))
	jb := DecomposeToJamo(cases.Fold().String(b))

	maxLen := utf8.RuneCountInString(ja)
	if n := utf8.RuneCountInString(jb); n > maxLen {
		maxLen = n
	}
	if maxLen == 0 {
		return 100
	}

	distance := edlib.LevenshteinDistance(ja, jb)
	score := int(math.Round(100 * float64(maxLen-distance) / float64(maxLen)))
	if score < 0 {
		return 0
	}
	return score
}
