package model

import (
	"sort"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Lottery numbers drawn by the dictionary are in [MinNumber, MaxNumber].
const (
	MinNumber = 1
	MaxNumber = 45

	MaxImportance = 5
)

// Category labels a dictionary sense.
type Category string

const (
	CategoryBody      Category = "인체"
	CategoryWeather   Category = "날씨"
	CategoryNature    Category = "자연"
	CategoryTime      Category = "시간"
	CategoryFood      Category = "음식"
	CategoryObject    Category = "사물"
	CategoryVehicle   Category = "탈것"
	CategoryAnimal    Category = "동물"
	CategoryPlant     Category = "식물"
	CategoryPlace     Category = "장소"
	CategoryAction    Category = "행동"
	CategoryEmotion   Category = "감정"
	CategoryPerson    Category = "사람"
	CategoryAdjective Category = "형용사"
	CategoryOther     Category = "기타"
)

var knownCategories = map[Category]struct{}{
	CategoryBody: {}, CategoryWeather: {}, CategoryNature: {}, CategoryTime: {},
	CategoryFood: {}, CategoryObject: {}, CategoryVehicle: {}, CategoryAnimal: {},
	CategoryPlant: {}, CategoryPlace: {}, CategoryAction: {}, CategoryEmotion: {},
	CategoryPerson: {}, CategoryAdjective: {}, CategoryOther: {},
}

// Valid reports whether c is one of the known categories. The empty category is valid.
func (c Category) Valid() bool {
	if c == "" {
		return true
	}
	_, ok := knownCategories[c]
	return ok
}

// NumberRef is a number attached to a dictionary entry.
// IsEndDigit marks numbers produced by an "N끝수" (ends-in-N) expansion.
type NumberRef struct {
	Number     int  `json:"number" yaml:"number"`
	IsEndDigit bool `json:"is_end_digit,omitempty" yaml:"is_end_digit,omitempty"`
}

// DictionaryEntry is one sense of a dictionary word.
type DictionaryEntry struct {
	ID         string      `json:"id"`
	Word       string      `json:"word"`
	Importance int         `json:"importance"`
	Category   Category    `json:"category,omitempty"`
	Meaning    string      `json:"meaning,omitempty"`
	Numbers    []NumberRef `json:"numbers"`
}

// SenseID derives a stable identifier from the fields that distinguish senses of one word.
func SenseID(word string, category Category, meaning string) string {
	h := xxhash.New()
	_, _ = h.WriteString(word)
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(string(category))
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(meaning)
	return strconv.FormatUint(h.Sum64(), 16)
}

// EnsureID fills ID from the entry's distinguishing fields when it is empty.
func (e DictionaryEntry) EnsureID() DictionaryEntry {
	if e.ID == "" {
		e.ID = SenseID(e.Word, e.Category, e.Meaning)
	}
	return e
}

// NumberValues returns the plain numbers in ascending order without duplicates.
func (e DictionaryEntry) NumberValues() []int {
	seen := make(map[int]struct{}, len(e.Numbers))
	out := make([]int, 0, len(e.Numbers))
	for _, n := range e.Numbers {
		if _, ok := seen[n.Number]; ok {
			continue
		}
		seen[n.Number] = struct{}{}
		out = append(out, n.Number)
	}
	sort.Ints(out)
	return out
}

// ExpandEndDigit returns every number in [MinNumber, MaxNumber] ending in digit,
// flagged as end-digit references. Digit 0 yields 10, 20, 30, 40.
func ExpandEndDigit(digit int) []NumberRef {
	if digit < 0 || digit > 9 {
		return nil
	}
	var refs []NumberRef
	for n := digit; n <= MaxNumber; n += 10 {
		if n < MinNumber {
			continue
		}
		refs = append(refs, NumberRef{Number: n, IsEndDigit: true})
	}
	return refs
}

// ContextCue associates a context word with a sense.
type ContextCue struct {
	SenseID string  `json:"sense_id"`
	Word    string  `json:"word"`
	Weight  float64 `json:"weight"`
}

// HomonymGroup is every sense registered for one surface word.
type HomonymGroup struct {
	Word   string            `json:"word"`
	Senses []DictionaryEntry `json:"senses"`
}

// Contains reports whether senseID is one of the group's senses.
func (g HomonymGroup) Contains(senseID string) bool {
	_, ok := g.Sense(senseID)
	return ok
}

// Sense returns the sense with the given id.
func (g HomonymGroup) Sense(senseID string) (DictionaryEntry, bool) {
	for _, s := range g.Senses {
		if s.ID == senseID {
			return s, true
		}
	}
	return DictionaryEntry{}, false
}
