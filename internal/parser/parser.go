// Package parser extracts importance-scored keywords from dream text.
package parser

import (
	"context"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/gcbaptista/go-dream-engine/internal/hangul"
	"github.com/gcbaptista/go-dream-engine/internal/tokenizer"
	"github.com/gcbaptista/go-dream-engine/internal/trace"
	"github.com/gcbaptista/go-dream-engine/model"
)

const (
	// MinKeywordRunes is the shortest normalized word kept as a keyword.
	MinKeywordRunes = 2
	// ContextWindowSize is the number of words kept on each side of an occurrence.
	ContextWindowSize = 2
	// ImportantThreshold marks keywords counted as important in the summary.
	ImportantThreshold = 3

	maxTopKeywords      = 5
	leadingPositionRate = 0.3
)

// Parser splits text into sentences and scored keywords.
type Parser struct {
	hook trace.Hook
}

// New creates a parser. A nil hook discards trace events.
func New(hook trace.Hook) *Parser {
	return &Parser{hook: trace.OrNop(hook)}
}

// occurrence is one kept word in one sentence.
type occurrence struct {
	word       string
	surface    string
	importance int
}

// Parse extracts sentences, consolidated keywords and context windows from text.
// Empty or punctuation-only text yields an empty result.
func (p *Parser) Parse(ctx context.Context, text string) model.ParsedText {
	sentences := tokenizer.SplitSentences(text)
	result := model.ParsedText{
		Sentences: sentences,
		Keywords:  make([]model.ParsedKeyword, 0),
		Contexts:  make(map[string][]model.ContextWindow),
	}

	var occurrences []occurrence
	for si, sentence := range sentences {
		words := tokenizer.Words(sentence)
		for wi, surface := range words {
			word := hangul.Normalize(surface)
			if reason, skip := p.skipReason(word); skip {
				p.hook.OnEvent(ctx, trace.Event{
					Stage: trace.StageParse,
					Name:  "word_skipped",
					Word:  surface,
					Attrs: map[string]any{"normalized": word, "reason": reason},
				})
				continue
			}

			occurrences = append(occurrences, occurrence{
				word:       word,
				surface:    surface,
				importance: Importance(word, sentence),
			})

			before, after := tokenizer.Window(words, wi, ContextWindowSize)
			result.Contexts[word] = append(result.Contexts[word], model.ContextWindow{
				SentenceIndex: si,
				Sentence:      sentence,
				Before:        before,
				After:         after,
			})
		}
	}

	result.Keywords = consolidate(occurrences)
	result.Summary = summarize(len(sentences), len(occurrences), result.Keywords)

	p.hook.OnEvent(ctx, trace.Event{
		Stage: trace.StageParse,
		Name:  "parsed",
		Attrs: map[string]any{
			"sentences": len(sentences),
			"kept":      len(occurrences),
			"unique":    len(result.Keywords),
		},
	})
	return result
}

func (p *Parser) skipReason(word string) (string, bool) {
	if utf8.RuneCountInString(word) < MinKeywordRunes {
		return "too_short", true
	}
	if IsStopWord(word) {
		return "stopword", true
	}
	return "", false
}

// IsStopWord reports whether word is a stopword or contains one.
func IsStopWord(word string) bool {
	for _, sw := range stopWords {
		if word == sw || strings.Contains(word, sw) {
			return true
		}
	}
	return false
}

// Importance scores one occurrence of word within sentence, in [1, 5].
func Importance(word, sentence string) int {
	score := 1
	if IsSalient(word) {
		score += 2
	}
	if utf8.RuneCountInString(word) >= 3 {
		score++
	}

	if idx := strings.Index(sentence, word); idx >= 0 {
		total := utf8.RuneCountInString(sentence)
		if total > 0 && float64(utf8.RuneCountInString(sentence[:idx]))/float64(total) <= leadingPositionRate {
			score++
		}
	}

	if repeats := strings.Count(sentence, word); repeats > 1 {
		score += repeats - 1
	}
	return clampImportance(score)
}

func clampImportance(n int) int {
	if n < 1 {
		return 1
	}
	if n > model.MaxImportance {
		return model.MaxImportance
	}
	return n
}

// consolidate merges occurrences sharing a normalized word, keeping first-seen
// order among keywords of equal importance.
func consolidate(occurrences []occurrence) []model.ParsedKeyword {
	keywords := make([]model.ParsedKeyword, 0)
	index := make(map[string]int)

	for _, o := range occurrences {
		i, ok := index[o.word]
		if !ok {
			index[o.word] = len(keywords)
			keywords = append(keywords, model.ParsedKeyword{
				Word:        o.word,
				Importance:  o.importance,
				Occurrences: 1,
				Variants:    []string{o.surface},
			})
			continue
		}

		k := &keywords[i]
		k.Importance = clampImportance(k.Importance + o.importance)
		k.Occurrences++
		if !containsString(k.Variants, o.surface) {
			k.Variants = append(k.Variants, o.surface)
		}
	}

	sort.SliceStable(keywords, func(i, j int) bool {
		return keywords[i].Importance > keywords[j].Importance
	})
	return keywords
}

func summarize(sentences, kept int, keywords []model.ParsedKeyword) model.ParseSummary {
	summary := model.ParseSummary{
		TotalSentences: sentences,
		TotalKeywords:  kept,
		UniqueKeywords: len(keywords),
		TopKeywords:    make([]string, 0, maxTopKeywords),
	}
	for i, k := range keywords {
		if k.Importance >= ImportantThreshold {
			summary.ImportantKeywords++
		}
		if i < maxTopKeywords {
			summary.TopKeywords = append(summary.TopKeywords, k.Word)
		}
	}
	return summary
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
