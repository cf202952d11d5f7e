// Package matcher ranks dictionary entries against a raw word taken from a dream text.
package matcher

import (
	"context"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/gcbaptista/go-dream-engine/internal/errors"
	"github.com/gcbaptista/go-dream-engine/internal/hangul"
	"github.com/gcbaptista/go-dream-engine/internal/trace"
	"github.com/gcbaptista/go-dream-engine/model"
	"github.com/gcbaptista/go-dream-engine/services"
)

// Similarity thresholds for match classification and filtering.
const (
	FuzzyHighThreshold = 80
	FuzzyThreshold     = 60
	MinSimilarity      = 55
)

// Matcher finds the best dictionary entry for a word.
type Matcher struct {
	store services.DictionaryStore
	hook  trace.Hook
}

// New creates a matcher over store. A nil hook discards trace events.
func New(store services.DictionaryStore, hook trace.Hook) *Matcher {
	return &Matcher{store: store, hook: trace.OrNop(hook)}
}

// query is a word prepared for matching.
type query struct {
	raw        string
	normalized string
	removed    string
	candidates []string
}

func prepare(raw string) query {
	raw = strings.TrimSpace(raw)
	stem, removed := hangul.StripParticles(raw)
	return query{
		raw:        raw,
		normalized: strings.Join(strings.Fields(stem), " "),
		removed:    removed,
		candidates: hangul.GenerateKeywordCandidates(raw),
	}
}

// FindBestMatch returns the highest ranked entry for rawWord, or nil when the store
// has nothing related. Empty input returns nil without querying the store.
// Store failures are returned as *errors.LookupError.
func (m *Matcher) FindBestMatch(ctx context.Context, rawWord string) (*model.MatchResult, error) {
	q := prepare(rawWord)
	if q.raw == "" || len(q.candidates) == 0 {
		return nil, nil
	}

	entries, err := m.store.Lookup(ctx, q.candidates)
	if err != nil {
		return nil, errors.NewLookupError(q.raw, err)
	}
	if len(entries) == 0 {
		m.hook.OnEvent(ctx, trace.Event{Stage: trace.StageMatch, Name: "no_candidates", Word: q.raw})
		return nil, nil
	}

	ranked := rank(q, entries)
	best := ranked[0]
	m.hook.OnEvent(ctx, trace.Event{
		Stage: trace.StageMatch,
		Name:  "best_match",
		Word:  q.raw,
		Attrs: map[string]any{
			"entry":      best.Entry.Word,
			"similarity": best.Similarity,
			"match_type": string(best.MatchType),
			"considered": len(entries),
			"kept":       len(ranked),
		},
	})
	return &best, nil
}

// Score computes the similarity and match type of entry for rawWord.
func Score(rawWord string, entry model.DictionaryEntry) model.MatchResult {
	q := prepare(rawWord)
	return score(q, entry)
}

func score(q query, entry model.DictionaryEntry) model.MatchResult {
	sim := hangul.Similarity(q.raw, entry.Word)
	if s := hangul.Similarity(q.normalized, entry.Word); s > sim {
		sim = s
	}
	return model.MatchResult{
		Entry:           entry,
		Similarity:      sim,
		MatchType:       classify(q, entry.Word, sim),
		CandidatesTried: len(q.candidates),
	}
}

func classify(q query, word string, similarity int) model.MatchType {
	if q.raw == word {
		return model.MatchExact
	}
	normalizedWord := hangul.Normalize(word)
	if q.normalized == word || q.normalized == normalizedWord || removeSpaces(q.normalized) == removeSpaces(word) {
		if q.removed != "" {
			return model.MatchParticleRemoved
		}
		return model.MatchExact
	}
	if strings.Contains(q.raw, word) || strings.Contains(word, q.normalized) {
		return model.MatchPartial
	}
	switch {
	case similarity >= FuzzyHighThreshold:
		return model.MatchFuzzyHigh
	case similarity >= FuzzyThreshold:
		return model.MatchFuzzy
	}
	return model.MatchBroad
}

// rank scores every entry, keeps the acceptable ones (falling back to all of them
// when none qualify) and orders them best first.
func rank(q query, entries []model.DictionaryEntry) []model.MatchResult {
	all := make([]model.MatchResult, 0, len(entries))
	kept := make([]model.MatchResult, 0, len(entries))
	for _, e := range entries {
		r := score(q, e)
		all = append(all, r)
		if r.Similarity >= MinSimilarity || r.MatchType.IsExact() {
			kept = append(kept, r)
		}
	}
	if len(kept) == 0 {
		kept = all
	}
	sort.Slice(kept, func(i, j int) bool { return better(kept[i], kept[j]) })
	return kept
}

// better is a total order so the top pick does not depend on store result order.
func better(a, b model.MatchResult) bool {
	if a.Similarity != b.Similarity {
		return a.Similarity > b.Similarity
	}
	if a.Entry.Importance != b.Entry.Importance {
		return a.Entry.Importance > b.Entry.Importance
	}
	if len(a.Entry.Numbers) != len(b.Entry.Numbers) {
		return len(a.Entry.Numbers) > len(b.Entry.Numbers)
	}
	la, lb := utf8.RuneCountInString(a.Entry.Word), utf8.RuneCountInString(b.Entry.Word)
	if la != lb {
		return la < lb
	}
	if a.Entry.Word != b.Entry.Word {
		return a.Entry.Word < b.Entry.Word
	}
	return a.Entry.ID < b.Entry.ID
}

func removeSpaces(s string) string {
	return strings.Join(strings.Fields(s), "")
}
