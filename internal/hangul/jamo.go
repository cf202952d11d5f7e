package hangul

import (
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Precomposed syllable layout: code = base + (lead*21 + vowel)*28 + tail.
const (
	syllableBase  = 0xAC00
	syllableLast  = 0xD7A3
	vowelCount    = 21
	tailCount     = 28
	leadBlockSize = vowelCount * tailCount
)

// Vowel indices used by conjugation.
const (
	vowelA   = 0  // ㅏ
	vowelAE  = 1  // ㅐ
	vowelYA  = 2  // ㅑ
	vowelEO  = 4  // ㅓ
	vowelE   = 5  // ㅔ
	vowelYEO = 6  // ㅕ
	vowelO   = 8  // ㅗ
	vowelWA  = 9  // ㅘ
	vowelWAE = 10 // ㅙ
	vowelOE  = 11 // ㅚ
	vowelU   = 13 // ㅜ
	vowelWO  = 14 // ㅝ
	vowelEU  = 18 // ㅡ
	vowelI   = 20 // ㅣ
)

// Tail (batchim) indices used by conjugation.
const (
	tailNone = 0
	tailN    = 4  // ㄴ
	tailL    = 8  // ㄹ
	tailSS   = 20 // ㅆ
)

const leadH = 18 // ㅎ

var initialConsonants = []rune{
	'ㄱ', 'ㄲ', 'ㄴ', 'ㄷ', 'ㄸ', 'ㄹ', 'ㅁ', 'ㅂ', 'ㅃ', 'ㅅ',
	'ㅆ', 'ㅇ', 'ㅈ', 'ㅉ', 'ㅊ', 'ㅋ', 'ㅌ', 'ㅍ', 'ㅎ',
}

// DecomposeToJamo expands every precomposed syllable into its leading consonant,
// vowel and optional trailing consonant. Other characters pass through unchanged.
func DecomposeToJamo(text string) string {
	out, _, err := transform.String(syllablesNFD(), text)
	if err != nil {
		return text
	}
	return out
}

// syllablesNFD decomposes Hangul syllables only; accented Latin and other
// composed characters keep their form. A runes.If transformer holds state,
// so each call gets its own.
func syllablesNFD() transform.Transformer {
	return runes.If(runes.Predicate(IsSyllable), norm.NFD, nil)
}

// IsSyllable reports whether r is a precomposed Hangul syllable.
func IsSyllable(r rune) bool {
	return r >= syllableBase && r <= syllableLast
}

// InitialConsonant returns the compatibility jamo of the first syllable's leading
// consonant (초성). A word starting with a bare consonant returns that consonant.
func InitialConsonant(word string) (rune, bool) {
	for _, r := range word {
		if IsSyllable(r) {
			return initialConsonants[(r-syllableBase)/leadBlockSize], true
		}
		for _, c := range initialConsonants {
			if r == c {
				return c, true
			}
		}
		return 0, false
	}
	return 0, false
}

// IsInitialConsonant reports whether r is one of the 19 leading consonants.
func IsInitialConsonant(r rune) bool {
	for _, c := range initialConsonants {
		if r == c {
			return true
		}
	}
	return false
}

// InitialConsonants returns the 19 leading consonants in dictionary order.
func InitialConsonants() []rune {
	out := make([]rune, len(initialConsonants))
	copy(out, initialConsonants)
	return out
}

type syllable struct {
	lead, vowel, tail int
}

func splitSyllable(r rune) (syllable, bool) {
	if !IsSyllable(r) {
		return syllable{}, false
	}
	code := int(r - syllableBase)
	return syllable{
		lead:  code / leadBlockSize,
		vowel: (code % leadBlockSize) / tailCount,
		tail:  code % tailCount,
	}, true
}

func (s syllable) rune() rune {
	return rune(syllableBase + s.lead*leadBlockSize + s.vowel*tailCount + s.tail)
}

func (s syllable) withTail(tail int) syllable {
	s.tail = tail
	return s
}

func (s syllable) withVowel(vowel int) syllable {
	s.vowel = vowel
	return s
}

// bright reports whether the vowel takes 아 rather than 어 in vowel harmony.
func (s syllable) bright() bool {
	switch s.vowel {
	case vowelA, vowelYA, vowelO, vowelWA:
		return true
	}
	return false
}
