// Package homonym detects words with several dictionary senses and picks the
// sense supported by the surrounding text.
package homonym

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/gcbaptista/go-dream-engine/internal/errors"
	"github.com/gcbaptista/go-dream-engine/internal/hangul"
	"github.com/gcbaptista/go-dream-engine/internal/tokenizer"
	"github.com/gcbaptista/go-dream-engine/internal/trace"
	"github.com/gcbaptista/go-dream-engine/model"
	"github.com/gcbaptista/go-dream-engine/services"
)

// Scoring constants.
const (
	AutoResolveThreshold = 0.75

	exactMultiplier   = 2.0
	stemMultiplier    = 1.5
	partialMultiplier = 0.8
	proximityBonus    = 0.5
	relatedPoints     = 0.3

	confidenceScale = 1.5
	multiCueBonus   = 0.1
	exactCueBonus   = 0.1
)

// Resolver decides which sense an ambiguous word carries in a text.
type Resolver struct {
	dictionary services.DictionaryStore
	weights    services.ContextWeightStore
	hook       trace.Hook
}

// New creates a resolver. A nil hook discards trace events.
func New(dictionary services.DictionaryStore, weights services.ContextWeightStore, hook trace.Hook) *Resolver {
	return &Resolver{dictionary: dictionary, weights: weights, hook: trace.OrNop(hook)}
}

// mention is one distinct word of the text with the sentences it appears in.
type mention struct {
	word      string
	sentences []string
}

// Resolve finds every ambiguous word in text and resolves it from choices
// (keyword to sense id) or from context. Words that cannot be resolved
// confidently are returned as pending. A word whose lookup or scoring fails is
// left out and traced; only an unavailable store or a cancelled ctx is
// returned as an error.
func (r *Resolver) Resolve(ctx context.Context, text string, choices map[string]string) (model.HomonymReport, error) {
	report := model.HomonymReport{
		Resolutions: make([]model.Resolution, 0),
		Pending:     make([]model.PendingHomonym, 0),
	}

	sentences := tokenizer.SplitSentences(text)
	fullText := strings.Join(sentences, " ")

	for _, m := range mentions(sentences) {
		if err := ctx.Err(); err != nil {
			return model.HomonymReport{}, err
		}
		group, ok, err := r.group(ctx, m.word)
		if err != nil {
			return model.HomonymReport{}, err
		}
		if !ok {
			continue
		}

		if res, ok := r.applyChoice(ctx, group, choices); ok {
			report.Resolutions = append(report.Resolutions, res)
			continue
		}

		ranked, err := r.rank(ctx, group, fullText, m.sentences)
		if err != nil {
			return model.HomonymReport{}, err
		}
		best := ranked[0]
		if best.Confidence >= AutoResolveThreshold {
			report.Resolutions = append(report.Resolutions, model.Resolution{
				Keyword:       group.Word,
				SelectedSense: best.Sense,
				Method:        model.MethodAutoResolved,
				Confidence:    best.Confidence,
			})
			r.hook.OnEvent(ctx, trace.Event{
				Stage: trace.StageHomonym,
				Name:  "auto_resolved",
				Word:  group.Word,
				Attrs: map[string]any{"sense": best.Sense.ID, "score": best.Score, "confidence": best.Confidence},
			})
			continue
		}

		report.Pending = append(report.Pending, model.PendingHomonym{
			Keyword:   group.Word,
			Senses:    ranked,
			Suggested: suggest(ranked),
		})
		r.hook.OnEvent(ctx, trace.Event{
			Stage: trace.StageHomonym,
			Name:  "pending",
			Word:  group.Word,
			Attrs: map[string]any{"best": best.Sense.ID, "confidence": best.Confidence},
		})
	}

	return report, nil
}

// Group returns every sense registered for word. The group may hold fewer than
// two senses, in which case word is not ambiguous.
func (r *Resolver) Group(ctx context.Context, word string) (model.HomonymGroup, error) {
	senses, err := r.dictionary.LookupBySense(ctx, word)
	if err != nil {
		return model.HomonymGroup{}, errors.NewLookupError(word, err)
	}
	return model.HomonymGroup{Word: word, Senses: senses}, nil
}

func (r *Resolver) group(ctx context.Context, word string) (model.HomonymGroup, bool, error) {
	g, err := r.Group(ctx, word)
	if err != nil {
		if errors.Aborts(err) {
			return model.HomonymGroup{}, false, err
		}
		r.hook.OnEvent(ctx, trace.Event{
			Stage: trace.StageHomonym,
			Name:  "lookup_failed",
			Word:  word,
			Attrs: map[string]any{"error": err.Error()},
		})
		return model.HomonymGroup{}, false, nil
	}
	if len(g.Senses) < 2 {
		return model.HomonymGroup{}, false, nil
	}
	return g, true, nil
}

func (r *Resolver) applyChoice(ctx context.Context, group model.HomonymGroup, choices map[string]string) (model.Resolution, bool) {
	senseID, ok := choices[group.Word]
	if !ok {
		return model.Resolution{}, false
	}

	sense, ok := group.Sense(senseID)
	if !ok {
		err := errors.NewInvalidChoiceError(group.Word, senseID)
		r.hook.OnEvent(ctx, trace.Event{
			Stage: trace.StageHomonym,
			Name:  "invalid_choice",
			Word:  group.Word,
			Attrs: map[string]any{"sense": senseID, "error": err.Error()},
		})
		return model.Resolution{}, false
	}

	r.hook.OnEvent(ctx, trace.Event{
		Stage: trace.StageHomonym,
		Name:  "user_choice",
		Word:  group.Word,
		Attrs: map[string]any{"sense": sense.ID},
	})
	return model.Resolution{
		Keyword:       group.Word,
		SelectedSense: sense,
		Method:        model.MethodUserChoice,
		Confidence:    1.0,
	}, true
}

// rank scores every sense of group and orders them best first: score, then
// confidence, then sense id.
func (r *Resolver) rank(ctx context.Context, group model.HomonymGroup, text string, nearby []string) ([]model.SenseScore, error) {
	scores := make([]model.SenseScore, 0, len(group.Senses))
	for _, sense := range group.Senses {
		cues, err := r.weights.CuesFor(ctx, sense.ID)
		if err != nil {
			if errors.Aborts(err) {
				return nil, fmt.Errorf("failed to read cues for %s: %w", sense.ID, err)
			}
			r.hook.OnEvent(ctx, trace.Event{
				Stage: trace.StageHomonym,
				Name:  "cues_unavailable",
				Word:  group.Word,
				Attrs: map[string]any{"sense": sense.ID, "error": err.Error()},
			})
			cues = nil
		}

		s := ScoreSense(group.Word, sense, cues, text, nearby)
		n, err := r.weights.UsageCount(ctx, sense.ID)
		if errors.Aborts(err) {
			return nil, fmt.Errorf("failed to read usage for %s: %w", sense.ID, err)
		}
		if err == nil {
			s.Popularity = n
		}
		scores = append(scores, s)

		r.hook.OnEvent(ctx, trace.Event{
			Stage: trace.StageHomonym,
			Name:  "sense_scored",
			Word:  group.Word,
			Attrs: map[string]any{
				"sense":      sense.ID,
				"category":   string(sense.Category),
				"score":      s.Score,
				"confidence": s.Confidence,
				"matches":    len(s.Matches),
			},
		})
	}

	sort.SliceStable(scores, func(i, j int) bool {
		a, b := scores[i], scores[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		return a.Sense.ID < b.Sense.ID
	})
	return scores, nil
}

// ScoreSense scores one sense of word against text. nearby holds the sentences
// in which word occurs.
func ScoreSense(word string, sense model.DictionaryEntry, cues []model.ContextCue, text string, nearby []string) model.SenseScore {
	s := model.SenseScore{Sense: sense, Matches: make([]model.CueMatch, 0)}
	matchedCues := make(map[string]struct{})
	anyExact := false
	var proximity *model.CueMatch

	for _, cue := range cues {
		variations := hangul.GenerateStemVariations(cue.Word)

		m, ok := matchCue(word, cue, variations, text)
		if !ok {
			continue
		}
		s.Matches = append(s.Matches, m)
		s.Score += m.Points
		matchedCues[cue.Word] = struct{}{}
		if m.Kind == model.CueExact {
			anyExact = true
		}

		if proximity == nil {
			if found, ok := foundNearby(cue.Word, variations, nearby); ok {
				proximity = &model.CueMatch{Cue: cue.Word, Found: found, Kind: model.CueProximity, Points: proximityBonus}
			}
		}
	}

	// Flat bonus, however many cues share the word's sentence.
	if proximity != nil {
		s.Matches = append(s.Matches, *proximity)
		s.Score += proximityBonus
	}

	if found, ok := relatedBonus(word, sense.Category, text); ok {
		s.Matches = append(s.Matches, model.CueMatch{Found: found, Kind: model.CueRelated, Points: relatedPoints})
		s.Score += relatedPoints
	}

	s.Confidence = confidence(s.Score, len(matchedCues), anyExact)
	return s
}

// matchCue tries the cue as an exact substring, then each stem variation, then
// the cue without its last rune.
func matchCue(word string, cue model.ContextCue, variations []string, text string) (model.CueMatch, bool) {
	if strings.Contains(text, cue.Word) {
		return model.CueMatch{Cue: cue.Word, Found: cue.Word, Kind: model.CueExact, Points: cue.Weight * exactMultiplier}, true
	}
	for _, v := range variations {
		if strings.Contains(text, v) {
			return model.CueMatch{Cue: cue.Word, Found: v, Kind: model.CueStem, Points: cue.Weight * stemMultiplier}, true
		}
	}
	if p := partialCue(cue.Word, word); p != "" && strings.Contains(text, p) {
		return model.CueMatch{Cue: cue.Word, Found: p, Kind: model.CuePartial, Points: cue.Weight * partialMultiplier}, true
	}
	return model.CueMatch{}, false
}

// partialCue is the cue without its last rune. It is empty when nothing is
// left or when it would equal the ambiguous word itself.
func partialCue(cue, word string) string {
	_, size := utf8.DecodeLastRuneInString(cue)
	p := cue[:len(cue)-size]
	if p == "" || p == word {
		return ""
	}
	return p
}

func foundNearby(cue string, variations []string, sentences []string) (string, bool) {
	for _, sentence := range sentences {
		if strings.Contains(sentence, cue) {
			return cue, true
		}
		for _, v := range variations {
			if strings.Contains(sentence, v) {
				return v, true
			}
		}
	}
	return "", false
}

func confidence(score float64, distinctCues int, anyExact bool) float64 {
	c := score / confidenceScale
	if c > 1 {
		c = 1
	}
	if distinctCues >= 2 {
		c += multiCueBonus
	}
	if anyExact {
		c += exactCueBonus
	}
	if c > 1 {
		c = 1
	}
	return c
}

// suggest returns the most chosen sense, or the top ranked sense when it
// scored anything and no sense has been chosen before.
func suggest(ranked []model.SenseScore) string {
	best := -1
	for i, s := range ranked {
		if s.Popularity > 0 && (best < 0 || s.Popularity > ranked[best].Popularity) {
			best = i
		}
	}
	if best >= 0 {
		return ranked[best].Sense.ID
	}
	if len(ranked) > 0 && ranked[0].Score > 0 {
		return ranked[0].Sense.ID
	}
	return ""
}

// mentions returns the distinct particle-stripped words of sentences in
// first-seen order, each with the sentences containing it.
func mentions(sentences []string) []mention {
	var out []mention
	index := make(map[string]int)
	for _, sentence := range sentences {
		for _, surface := range tokenizer.Words(sentence) {
			word := hangul.Normalize(surface)
			if word == "" {
				continue
			}
			i, ok := index[word]
			if !ok {
				index[word] = len(out)
				out = append(out, mention{word: word, sentences: []string{sentence}})
				continue
			}
			m := &out[i]
			if m.sentences[len(m.sentences)-1] != sentence {
				m.sentences = append(m.sentences, sentence)
			}
		}
	}
	return out
}
