package hangul

import (
	"strings"
	"unicode/utf8"
)

const (
	citationSuffix = "다"
	doSuffix       = "하다"
)

// irregularForms holds hand-enumerated inflections for verbs and adjectives whose
// conjugation the regular rules below get wrong or miss.
var irregularForms = map[string][]string{
	"보다":   {"봐", "보고", "보지", "보면", "본"},
	"오다":   {"와", "오고", "오지", "오면", "온"},
	"가다":   {"가고", "가지", "가면", "간"},
	"타다":   {"타고", "타지", "타면", "탄"},
	"내리다":  {"내려", "내리고", "내리지", "내린"},
	"쌓이다":  {"쌓여", "쌓이고", "쌓이지", "쌓인"},
	"빛나다":  {"빛나고", "빛나지", "빛난"},
	"춥다":   {"추워", "추운", "추웠"},
	"덥다":   {"더워", "더운", "더웠"},
	"눕다":   {"누워", "누운", "누웠"},
	"돕다":   {"도와", "도운", "도왔"},
	"줍다":   {"주워", "주운", "주웠"},
	"무섭다":  {"무서워", "무서운", "무서웠"},
	"듣다":   {"들어", "들은", "들었"},
	"걷다":   {"걸어", "걸은", "걸었"},
	"짓다":   {"지어", "지은", "지었"},
	"낫다":   {"나아", "나은", "나았"},
	"하얗다":  {"하얘", "하얀", "하얬"},
	"빨갛다":  {"빨개", "빨간", "빨갰"},
	"까맣다":  {"까매", "까만", "까맸"},
	"노랗다":  {"노래", "노란", "노랬"},
	"파랗다":  {"파래", "파란", "파랬"},
	"어둡다":  {"어두워", "어두운", "어두웠"},
	"아름답다": {"아름다워", "아름다운", "아름다웠"},
}

// GenerateStemVariations returns common inflected forms of a dictionary-form
// verb or adjective: connective 고, 지, conditional 면, the contracted 아/어 form,
// adnominal and declarative present forms, the past stem, plus 하다 forms and
// irregular table entries. The result has no duplicates and excludes word itself.
// Words that are not in dictionary form yield an empty result.
func GenerateStemVariations(word string) []string {
	word = strings.TrimSpace(word)
	out := newOrderedSet()

	if strings.HasSuffix(word, citationSuffix) && len(word) > len(citationSuffix) {
		stem := strings.TrimSuffix(word, citationSuffix)
		regularForms(stem, out)
	}

	if idx := strings.LastIndex(word, doSuffix); idx > 0 {
		stem := word[:idx]
		for _, ending := range []string{"하고", "하지", "하면", "해", "한", "해서", "했", "하는"} {
			out.add(stem + ending)
		}
	}

	for _, form := range irregularForms[word] {
		out.add(form)
	}

	out.remove(word)
	return out.items
}

func regularForms(stem string, out *orderedSet) {
	out.add(stem + "고")
	out.add(stem + "지")
	out.add(stem + "면")

	if contracted, ok := contract(stem); ok {
		out.add(contracted)
		if past, ok := withLastTail(contracted, tailSS); ok {
			out.add(past)
		}
	}

	if adnominal, ok := adnominalForm(stem); ok {
		out.add(adnominal)
	}
	if declarative, ok := declarativeForm(stem); ok {
		out.add(declarative)
	}

	if utf8.RuneCountInString(stem) >= 2 {
		out.add(stem)
	}
}

// contract builds the 아/어 infinitive: 아프→아파, 내리→내려, 보→봐, 먹→먹어, 하→해.
func contract(stem string) (string, bool) {
	runes := []rune(stem)
	if len(runes) == 0 {
		return "", false
	}
	last, ok := splitSyllable(runes[len(runes)-1])
	if !ok {
		return "", false
	}
	prefix := string(runes[:len(runes)-1])

	if last.tail != tailNone {
		if last.bright() {
			return stem + "아", true
		}
		return stem + "어", true
	}

	if last.lead == leadH && last.vowel == vowelA {
		return prefix + string(last.withVowel(vowelAE).rune()), true
	}

	switch last.vowel {
	case vowelA, vowelEO, vowelAE, vowelE, vowelYEO:
		return stem, true
	case vowelO:
		return prefix + string(last.withVowel(vowelWA).rune()), true
	case vowelU:
		return prefix + string(last.withVowel(vowelWO).rune()), true
	case vowelI:
		return prefix + string(last.withVowel(vowelYEO).rune()), true
	case vowelOE:
		return prefix + string(last.withVowel(vowelWAE).rune()), true
	case vowelEU:
		return contractEu(runes, last)
	}
	return stem + "어", true
}

// contractEu handles stems ending in ㅡ: the vowel drops and harmony follows the
// preceding syllable. 르 stems double the ㄹ (부르→불러, 다르→달라).
func contractEu(runes []rune, last syllable) (string, bool) {
	vowel := vowelEO
	var prev syllable
	hasPrev := false
	if len(runes) >= 2 {
		if p, ok := splitSyllable(runes[len(runes)-2]); ok {
			prev, hasPrev = p, true
			if p.bright() {
				vowel = vowelA
			}
		}
	}

	const leadR = 5 // ㄹ
	if last.lead == leadR && hasPrev && prev.tail == tailNone {
		head := string(runes[:len(runes)-2])
		return head + string(prev.withTail(tailL).rune()) + string(last.withVowel(vowel).rune()), true
	}

	prefix := string(runes[:len(runes)-1])
	return prefix + string(last.withVowel(vowel).rune()), true
}

// adnominalForm builds the present adnominal: 내리→내린, 달→단, 먹→먹은.
func adnominalForm(stem string) (string, bool) {
	runes := []rune(stem)
	if len(runes) == 0 {
		return "", false
	}
	last, ok := splitSyllable(runes[len(runes)-1])
	if !ok {
		return "", false
	}
	switch last.tail {
	case tailNone, tailL:
		return withLastTail(stem, tailN)
	}
	return stem + "은", true
}

// declarativeForm builds the plain present declarative: 내리→내린다, 먹→먹는다.
func declarativeForm(stem string) (string, bool) {
	runes := []rune(stem)
	if len(runes) == 0 {
		return "", false
	}
	last, ok := splitSyllable(runes[len(runes)-1])
	if !ok {
		return "", false
	}
	switch last.tail {
	case tailNone, tailL:
		withN, ok := withLastTail(stem, tailN)
		if !ok {
			return "", false
		}
		return withN + "다", true
	}
	return stem + "는다", true
}

func withLastTail(s string, tail int) (string, bool) {
	runes := []rune(s)
	if len(runes) == 0 {
		return "", false
	}
	last, ok := splitSyllable(runes[len(runes)-1])
	if !ok {
		return "", false
	}
	runes[len(runes)-1] = last.withTail(tail).rune()
	return string(runes), true
}

type orderedSet struct {
	seen  map[string]struct{}
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]struct{})}
}

func (s *orderedSet) add(v string) {
	if v == "" {
		return
	}
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.items = append(s.items, v)
}

func (s *orderedSet) remove(v string) {
	if _, ok := s.seen[v]; !ok {
		return
	}
	delete(s.seen, v)
	for i, item := range s.items {
		if item == v {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}
