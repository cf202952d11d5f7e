// Package feedback turns user homonym choices into context cue weights.
package feedback

import (
	"context"
	stderrors "errors"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/gcbaptista/go-dream-engine/internal/errors"
	"github.com/gcbaptista/go-dream-engine/internal/hangul"
	"github.com/gcbaptista/go-dream-engine/internal/parser"
	"github.com/gcbaptista/go-dream-engine/internal/tokenizer"
	"github.com/gcbaptista/go-dream-engine/internal/trace"
	"github.com/gcbaptista/go-dream-engine/model"
	"github.com/gcbaptista/go-dream-engine/services"
)

// Cue weight adjustment applied for every context word of a recorded choice.
const (
	CueWeightStep = 0.1
	MaxCueWeight  = 3.0
)

// Learner records homonym choices and reinforces the context cues around them.
type Learner struct {
	dictionary services.DictionaryStore
	weights    services.ContextWeightStore
	hook       trace.Hook
}

// New creates a learner. A nil hook discards trace events.
func New(dictionary services.DictionaryStore, weights services.ContextWeightStore, hook trace.Hook) *Learner {
	return &Learner{dictionary: dictionary, weights: weights, hook: trace.OrNop(hook)}
}

// RecordChoice registers that senseID was the right sense of keyword in
// contextText. Every context word of the text becomes or strengthens a cue
// of that sense.
func (l *Learner) RecordChoice(ctx context.Context, keyword, senseID, contextText string) error {
	keyword = hangul.Normalize(keyword)
	if keyword == "" {
		return errors.NewValidationError("keyword", "cannot be empty")
	}
	if senseID == "" {
		return errors.NewValidationError("sense_id", "cannot be empty")
	}

	senses, err := l.dictionary.LookupBySense(ctx, keyword)
	if err != nil {
		return errors.NewLookupError(keyword, err)
	}
	group := model.HomonymGroup{Word: keyword, Senses: senses}
	if !group.Contains(senseID) {
		return errors.NewInvalidChoiceError(keyword, senseID)
	}

	words := ContextWords(contextText, keyword)
	if err := l.weights.RecordChoice(ctx, senseID, words); err != nil {
		return err
	}

	weights := make(map[string]float64, len(words))
	for _, w := range words {
		nw, err := l.weights.BumpWeight(ctx, senseID, w, CueWeightStep, MaxCueWeight)
		if err != nil {
			return err
		}
		weights[w] = nw
	}

	l.hook.OnEvent(ctx, trace.Event{
		Stage: trace.StageFeedback,
		Name:  "choice_recorded",
		Word:  keyword,
		Attrs: map[string]any{"sense": senseID, "cues": weights},
	})
	return nil
}

// Submit applies a verdict on a whole analysis. A correct analysis reinforces
// every chosen sense; an incorrect one is only traced.
func (l *Learner) Submit(ctx context.Context, fb model.Feedback) error {
	if strings.TrimSpace(fb.AnalysisText) == "" {
		return errors.NewValidationError("text", "cannot be empty")
	}

	if !fb.WasCorrect {
		l.hook.OnEvent(ctx, trace.Event{
			Stage: trace.StageFeedback,
			Name:  "negative_feedback",
			Attrs: map[string]any{"choices": len(fb.Choices), "comment": fb.Comment},
		})
		return nil
	}

	keywords := make([]string, 0, len(fb.Choices))
	for k := range fb.Choices {
		keywords = append(keywords, k)
	}
	sort.Strings(keywords)

	var errs []error
	for _, k := range keywords {
		if err := l.RecordChoice(ctx, k, fb.Choices[k], fb.AnalysisText); err != nil {
			errs = append(errs, err)
		}
	}
	return stderrors.Join(errs...)
}

// ContextWords returns the distinct particle-stripped words of text that can
// serve as cues: at least two runes, not a stopword and not the keyword itself.
func ContextWords(text, keyword string) []string {
	seen := make(map[string]struct{})
	words := make([]string, 0)
	for _, token := range tokenizer.Tokenize(text) {
		w := hangul.Normalize(token)
		if w == keyword || utf8.RuneCountInString(w) < parser.MinKeywordRunes || parser.IsStopWord(w) {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		words = append(words, w)
	}
	return words
}
