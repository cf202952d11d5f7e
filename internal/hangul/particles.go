// Package hangul provides the Korean text primitives used by the analyzer:
// particle (josa) stripping, jamo decomposition, jamo-level similarity,
// stem-variation generation and lookup candidate generation.
package hangul

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// particles lists the grammatical suffixes removed before dictionary lookup.
// The slice is sorted by rune length descending at init so the longest suffix wins.
var particles = []string{
	// three or more syllables
	"에서는", "에게는", "한테는", "로써는", "으로써는",
	// two syllables
	"에서", "에게", "한테", "로써", "으로써", "보다", "처럼", "같이", "만큼",
	"까지", "부터", "마저", "조차", "이나", "이든", "든지", "라도", "이라도",
	// one syllable
	"가", "이", "을", "를", "은", "는", "의", "에", "로", "으로",
	"와", "과", "랑", "이랑", "도", "만", "나", "아", "야", "여", "이여", "께서", "께",
}

func init() {
	sort.SliceStable(particles, func(i, j int) bool {
		return utf8.RuneCountInString(particles[i]) > utf8.RuneCountInString(particles[j])
	})
}

// Particles returns the particle table in the order it is tried.
func Particles() []string {
	out := make([]string, len(particles))
	copy(out, particles)
	return out
}

// StripParticles removes at most one particle, the longest suffix that leaves a
// non-empty stem. It returns the word unchanged and an empty removed value when
// nothing matches.
func StripParticles(word string) (stem, removed string) {
	for _, p := range particles {
		if len(word) > len(p) && strings.HasSuffix(word, p) {
			return word[:len(word)-len(p)], p
		}
	}
	return word, ""
}

// Normalize strips one particle, collapses internal whitespace and trims.
func Normalize(word string) string {
	stem, _ := StripParticles(strings.TrimSpace(word))
	return collapseSpaces(stem)
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func removeSpaces(s string) string {
	return strings.Join(strings.Fields(s), "")
}

// GenerateKeywordCandidates returns the lookup strings for word in order:
// the original, the particle-stripped form, and both with whitespace removed.
// Empty strings and duplicates are dropped.
func GenerateKeywordCandidates(word string) []string {
	original := strings.TrimSpace(word)
	stripped := Normalize(word)

	raw := []string{original, stripped, removeSpaces(original), removeSpaces(stripped)}
	seen := make(map[string]struct{}, len(raw))
	candidates := make([]string, 0, len(raw))
	for _, c := range raw {
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		candidates = append(candidates, c)
	}
	return candidates
}
