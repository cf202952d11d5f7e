// Package analysis runs the dream analysis pipeline: parsing, homonym
// resolution, dictionary matching and number recommendation.
package analysis

import (
	"context"
	"sort"

	"github.com/google/uuid"

	dreamerrors "github.com/gcbaptista/go-dream-engine/internal/errors"
	"github.com/gcbaptista/go-dream-engine/internal/hangul"
	"github.com/gcbaptista/go-dream-engine/internal/homonym"
	"github.com/gcbaptista/go-dream-engine/internal/matcher"
	"github.com/gcbaptista/go-dream-engine/internal/parser"
	"github.com/gcbaptista/go-dream-engine/internal/tokenizer"
	"github.com/gcbaptista/go-dream-engine/internal/trace"
	"github.com/gcbaptista/go-dream-engine/model"
	"github.com/gcbaptista/go-dream-engine/services"
)

// DefaultBatchConcurrency bounds AnalyzeBatch when no limit is configured.
const DefaultBatchConcurrency = 4

// Analyzer sequences the pipeline stages for one text.
type Analyzer struct {
	parser     *parser.Parser
	resolver   *homonym.Resolver
	matcher    *matcher.Matcher
	hook       trace.Hook
	batchLimit int
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithHook sets the trace hook shared by every stage.
func WithHook(h trace.Hook) Option {
	return func(a *Analyzer) { a.hook = trace.OrNop(h) }
}

// WithBatchConcurrency sets how many texts AnalyzeBatch analyzes at once.
func WithBatchConcurrency(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.batchLimit = n
		}
	}
}

// New creates an analyzer reading from the given stores.
func New(dictionary services.DictionaryStore, weights services.ContextWeightStore, opts ...Option) *Analyzer {
	a := &Analyzer{hook: trace.Nop{}, batchLimit: DefaultBatchConcurrency}
	for _, opt := range opts {
		opt(a)
	}
	a.parser = parser.New(a.hook)
	a.resolver = homonym.New(dictionary, weights, a.hook)
	a.matcher = matcher.New(dictionary, a.hook)
	return a
}

// Resolver exposes the homonym resolver used by the analyzer.
func (a *Analyzer) Resolver() *homonym.Resolver {
	return a.resolver
}

// Matcher exposes the candidate matcher used by the analyzer.
func (a *Analyzer) Matcher() *matcher.Matcher {
	return a.matcher
}

// Analyze runs the pipeline for text with the homonym choices made so far.
// When an ambiguous word still needs a choice the outcome carries the pending
// words and the resolutions found so far; resubmit with more choices to resume.
// Only a store-wide failure or a cancelled ctx is returned as an error.
func (a *Analyzer) Analyze(ctx context.Context, text string, choices map[string]string) (*model.Outcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	outcome := &model.Outcome{ID: uuid.NewString()}
	parsed := a.parser.Parse(ctx, text)
	report, err := a.resolver.Resolve(ctx, text, choices)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if len(report.Pending) > 0 {
		outcome.Status = model.StatusNeedsChoice
		outcome.Pending = &model.PendingChoices{Pending: report.Pending, Partial: report.Resolutions}
		a.hook.OnEvent(ctx, trace.Event{
			Stage: trace.StageAnalysis,
			Name:  "needs_choice",
			Attrs: map[string]any{"pending": len(report.Pending), "resolved": len(report.Resolutions)},
		})
		return outcome, nil
	}

	result, err := a.complete(ctx, parsed, report)
	if err != nil {
		return nil, err
	}
	outcome.Status = model.StatusCompleted
	outcome.Result = result
	return outcome, nil
}

func (a *Analyzer) complete(ctx context.Context, parsed model.ParsedText, report model.HomonymReport) (*model.AnalysisResult, error) {
	result := &model.AnalysisResult{
		Keywords:    make([]model.AnalyzedKeyword, 0, len(parsed.Keywords)),
		Resolutions: report.Resolutions,
		Summary:     parsed.Summary,
	}

	seen := make(map[string]struct{}, len(parsed.Keywords))
	for _, pk := range parsed.Keywords {
		seen[pk.Word] = struct{}{}

		if err := ctx.Err(); err != nil {
			return nil, err
		}
		kw, ok, err := a.analyzeKeyword(ctx, pk, report)
		if err != nil {
			if dreamerrors.Aborts(err) {
				return nil, err
			}
			result.SkippedWords = append(result.SkippedWords, pk.Word)
			a.hook.OnEvent(ctx, trace.Event{
				Stage: trace.StageAnalysis,
				Name:  "keyword_skipped",
				Word:  pk.Word,
				Attrs: map[string]any{"error": err.Error()},
			})
			continue
		}
		if !ok {
			result.UnmatchedWords = append(result.UnmatchedWords, pk.Word)
			continue
		}
		result.Keywords = append(result.Keywords, kw)
	}

	// Single-syllable homonyms such as 눈 never survive the parser's length filter.
	for _, res := range report.Resolutions {
		if _, ok := seen[res.Keyword]; ok {
			continue
		}
		kw := model.AnalyzedKeyword{
			ParsedKeyword: synthesize(res.Keyword, parsed.Sentences),
			Numbers:       make([]model.NumberRef, 0),
		}
		kw = withConfidence(kw.WithResolution(res))
		result.Keywords = append(result.Keywords, kw)
		a.hook.OnEvent(ctx, trace.Event{
			Stage: trace.StageAnalysis,
			Name:  "keyword_synthesized",
			Word:  res.Keyword,
			Attrs: map[string]any{"sense": res.SelectedSense.ID},
		})
	}

	sort.SliceStable(result.Keywords, func(i, j int) bool {
		return result.Keywords[i].Importance > result.Keywords[j].Importance
	})

	result.Recommendation = Recommend(result.Keywords)
	result.Confidence = OverallConfidence(result.Keywords, result.Resolutions)
	result.SuggestionText = SuggestionText(result.Confidence, len(result.Keywords))

	a.hook.OnEvent(ctx, trace.Event{
		Stage: trace.StageAnalysis,
		Name:  "completed",
		Attrs: map[string]any{
			"keywords":   len(result.Keywords),
			"numbers":    len(result.Recommendation.Numbers),
			"confidence": result.Confidence,
			"skipped":    len(result.SkippedWords),
		},
	})
	return result, nil
}

// analyzeKeyword matches pk and applies its resolution. ok is false when the
// dictionary has nothing for an unresolved keyword.
func (a *Analyzer) analyzeKeyword(ctx context.Context, pk model.ParsedKeyword, report model.HomonymReport) (model.AnalyzedKeyword, bool, error) {
	match, err := a.matcher.FindBestMatch(ctx, pk.Word)
	if err != nil {
		return model.AnalyzedKeyword{}, false, err
	}

	kw := model.AnalyzedKeyword{ParsedKeyword: pk, Numbers: make([]model.NumberRef, 0)}
	if match != nil {
		kw = kw.WithMatch(*match)
	}

	res, resolved := report.Resolution(pk.Word)
	if resolved {
		kw = kw.WithResolution(res)
	}
	if match == nil && !resolved {
		return model.AnalyzedKeyword{}, false, nil
	}
	return withConfidence(kw), true, nil
}

// synthesize builds the parsed form of a resolved word from the sentences it
// occurs in.
func synthesize(word string, sentences []string) model.ParsedKeyword {
	pk := model.ParsedKeyword{Word: word, Importance: 1}
	for _, sentence := range sentences {
		for _, surface := range tokenizer.Words(sentence) {
			if hangul.Normalize(surface) != word {
				continue
			}
			if pk.Occurrences == 0 {
				pk.Importance = parser.Importance(word, sentence)
			}
			pk.Occurrences++
			if !contains(pk.Variants, surface) {
				pk.Variants = append(pk.Variants, surface)
			}
		}
	}
	if pk.Occurrences == 0 {
		pk.Occurrences = 1
		pk.Variants = []string{word}
	}
	return pk
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
