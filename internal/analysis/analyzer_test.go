package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	dreamerrors "github.com/gcbaptista/go-dream-engine/internal/errors"
	"github.com/gcbaptista/go-dream-engine/internal/trace"
	"github.com/gcbaptista/go-dream-engine/model"
	"github.com/gcbaptista/go-dream-engine/services"
	"github.com/gcbaptista/go-dream-engine/store"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func refs(numbers ...int) []model.NumberRef {
	out := make([]model.NumberRef, 0, len(numbers))
	for _, n := range numbers {
		out = append(out, model.NumberRef{Number: n})
	}
	return out
}

func newStores(t *testing.T) (*store.DictionaryStore, *store.ContextStore) {
	t.Helper()
	ctx := context.Background()

	dict := store.NewDictionaryStore()
	_, err := dict.Put(ctx,
		model.DictionaryEntry{ID: "dog", Word: "강아지", Importance: 4, Category: model.CategoryAnimal, Numbers: refs(3, 28)},
		model.DictionaryEntry{ID: "cat", Word: "고양이", Importance: 3, Category: model.CategoryAnimal, Numbers: refs(7)},
		model.DictionaryEntry{ID: "eye", Word: "눈", Importance: 3, Category: model.CategoryBody, Numbers: refs(1)},
		model.DictionaryEntry{ID: "snow", Word: "눈", Importance: 3, Category: model.CategoryWeather, Numbers: refs(37)},
	)
	require.NoError(t, err)

	weights := store.NewContextStore()
	require.NoError(t, weights.SetCue("eye", "아프다", 2.0))
	require.NoError(t, weights.SetCue("eye", "보다", 1.2))
	require.NoError(t, weights.SetCue("snow", "내리다", 2.0))
	require.NoError(t, weights.SetCue("snow", "온다", 2.0))
	return dict, weights
}

func keywordByWord(t *testing.T, keywords []model.AnalyzedKeyword, word string) model.AnalyzedKeyword {
	t.Helper()
	for _, k := range keywords {
		if k.Word == word {
			return k
		}
	}
	t.Fatalf("keyword %q not found in %v", word, keywords)
	return model.AnalyzedKeyword{}
}

func TestAnalyze_ResolvesPlainKeyword(t *testing.T) {
	dict, weights := newStores(t)
	out, err := New(dict, weights).Analyze(context.Background(), "강아지가 집에서 뛰어놀았어요", nil)
	require.NoError(t, err)
	require.True(t, out.Completed())
	assert.NotEmpty(t, out.ID)

	dog := keywordByWord(t, out.Result.Keywords, "강아지")
	assert.Equal(t, []int{3, 28}, model.DictionaryEntry{Numbers: dog.Numbers}.NumberValues())
	assert.Equal(t, model.MatchExact, dog.MatchType)
	assert.Equal(t, 93, dog.Confidence)

	numbers := out.Result.Recommendation.Numbers
	require.Len(t, numbers, 2)
	assert.Equal(t, 3, numbers[0].Number)
	assert.Equal(t, 28, numbers[1].Number)
	for _, ns := range numbers {
		assert.Positive(t, ns.Score)
		assert.Equal(t, []string{"강아지"}, ns.Sources)
	}
	assert.Contains(t, out.Result.UnmatchedWords, "뛰어놀았어요")
	assert.Equal(t, 90, out.Result.Confidence)
	assert.Equal(t, SuggestionText(90, 1), out.Result.SuggestionText)
}

func TestAnalyze_AutoResolvesHomonym(t *testing.T) {
	dict, weights := newStores(t)
	out, err := New(dict, weights).Analyze(context.Background(), "눈이 내린다", nil)
	require.NoError(t, err)
	require.Equal(t, model.StatusCompleted, out.Status, "must not prompt for a choice")
	require.Nil(t, out.Pending)

	require.Len(t, out.Result.Resolutions, 1)
	res := out.Result.Resolutions[0]
	assert.Equal(t, "snow", res.SelectedSense.ID)
	assert.Equal(t, model.MethodAutoResolved, res.Method)
	assert.GreaterOrEqual(t, res.Confidence, 0.75)

	snow := keywordByWord(t, out.Result.Keywords, "눈")
	assert.Equal(t, refs(37), snow.Numbers)
	assert.Equal(t, []string{"눈이"}, snow.Variants)
	require.NotNil(t, snow.Resolution)
	assert.Equal(t, []int{37}, out.Result.Recommendation.TopNumbers(0))
}

func TestAnalyze_NeedsChoiceThenResumes(t *testing.T) {
	dict, weights := newStores(t)
	a := New(dict, weights)
	ctx := context.Background()

	first, err := a.Analyze(ctx, "고양이가 눈을 떴다", nil)
	require.NoError(t, err)
	require.Equal(t, model.StatusNeedsChoice, first.Status)
	require.Nil(t, first.Result)
	require.Len(t, first.Pending.Pending, 1)
	assert.Equal(t, "눈", first.Pending.Pending[0].Keyword)
	assert.Len(t, first.Pending.Pending[0].Senses, 2)

	second, err := a.Analyze(ctx, "고양이가 눈을 떴다", map[string]string{"눈": "eye"})
	require.NoError(t, err)
	require.True(t, second.Completed())

	eye := keywordByWord(t, second.Result.Keywords, "눈")
	assert.Equal(t, refs(1), eye.Numbers)
	assert.Equal(t, model.MethodUserChoice, eye.Resolution.Method)
	keywordByWord(t, second.Result.Keywords, "고양이")
	assert.ElementsMatch(t, []int{1, 7}, second.Result.Recommendation.TopNumbers(0))
}

func TestAnalyze_Idempotent(t *testing.T) {
	dict, weights := newStores(t)
	a := New(dict, weights)
	ctx := context.Background()
	text := "강아지가 고양이를 쫓았다. 눈이 내린다"

	first, err := a.Analyze(ctx, text, nil)
	require.NoError(t, err)
	second, err := a.Analyze(ctx, text, nil)
	require.NoError(t, err)

	if diff := cmp.Diff(first.Result.Keywords, second.Result.Keywords); diff != "" {
		t.Errorf("keywords differ (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(first.Result.Recommendation, second.Result.Recommendation); diff != "" {
		t.Errorf("recommendation differs (-first +second):\n%s", diff)
	}
}

func TestAnalyze_EmptyText(t *testing.T) {
	dict, weights := newStores(t)
	out, err := New(dict, weights).Analyze(context.Background(), "   ", nil)
	require.NoError(t, err)
	require.True(t, out.Completed())
	assert.Empty(t, out.Result.Keywords)
	assert.Empty(t, out.Result.Recommendation.Numbers)
	assert.Equal(t, 50, out.Result.Confidence)
}

// flakyStore fails lookups for one word.
type flakyStore struct {
	*store.DictionaryStore
	failWord string
}

func (f *flakyStore) Lookup(ctx context.Context, candidates []string) ([]model.DictionaryEntry, error) {
	for _, c := range candidates {
		if c == f.failWord {
			return nil, errors.New("timeout")
		}
	}
	return f.DictionaryStore.Lookup(ctx, candidates)
}

func TestAnalyze_SkipsWordOnLookupError(t *testing.T) {
	dict, weights := newStores(t)
	rec := &trace.Recorder{}
	a := New(&flakyStore{DictionaryStore: dict, failWord: "고양이"}, weights, WithHook(rec))

	out, err := a.Analyze(context.Background(), "강아지가 고양이를 쫓았다", nil)
	require.NoError(t, err)
	require.True(t, out.Completed())
	assert.Equal(t, []string{"고양이"}, out.Result.SkippedWords)
	keywordByWord(t, out.Result.Keywords, "강아지")
	assert.Len(t, rec.Named("keyword_skipped"), 1)
}

func TestAnalyze_StoreUnavailableFails(t *testing.T) {
	dict, weights := newStores(t)
	dict.Close()

	_, err := New(dict, weights).Analyze(context.Background(), "강아지가 뛰어놀았다", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, dreamerrors.ErrStoreUnavailable))
}

func TestAnalyze_ContextStoreUnavailableFails(t *testing.T) {
	dict, weights := newStores(t)
	weights.Close()

	out, err := New(dict, weights).Analyze(context.Background(), "눈이 내린다", nil)
	require.Error(t, err)
	assert.Nil(t, out)
	assert.ErrorIs(t, err, dreamerrors.ErrStoreUnavailable)
}

// cancellingStore cancels the analysis from inside a store call, as a caller
// giving up mid-flight would.
type cancellingStore struct {
	*store.DictionaryStore
	cancel      context.CancelFunc
	onSenses    bool
	onCandidate bool
}

func (c *cancellingStore) LookupBySense(ctx context.Context, word string) ([]model.DictionaryEntry, error) {
	if c.onSenses {
		c.cancel()
		return nil, ctx.Err()
	}
	return c.DictionaryStore.LookupBySense(ctx, word)
}

func (c *cancellingStore) Lookup(ctx context.Context, candidates []string) ([]model.DictionaryEntry, error) {
	if c.onCandidate {
		c.cancel()
		return nil, ctx.Err()
	}
	return c.DictionaryStore.Lookup(ctx, candidates)
}

func TestAnalyze_CancelledContext(t *testing.T) {
	t.Run("before the call", func(t *testing.T) {
		dict, weights := newStores(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := New(dict, weights).Analyze(ctx, "강아지", nil)
		assert.ErrorIs(t, err, context.Canceled)
	})

	tests := []struct {
		name        string
		onSenses    bool
		onCandidate bool
	}{
		{name: "during homonym lookup", onSenses: true},
		{name: "during keyword matching", onCandidate: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dict, weights := newStores(t)
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			s := &cancellingStore{DictionaryStore: dict, cancel: cancel, onSenses: tt.onSenses, onCandidate: tt.onCandidate}

			out, err := New(s, weights).Analyze(ctx, "강아지가 집에서 뛰어놀았어요", nil)
			assert.ErrorIs(t, err, context.Canceled)
			assert.Nil(t, out)
		})
	}
}

func TestAnalyzeBatch(t *testing.T) {
	dict, weights := newStores(t)
	a := New(dict, weights, WithBatchConcurrency(2))

	requests := []services.AnalysisRequest{
		{Text: "강아지가 집에서 뛰어놀았어요"},
		{Text: "고양이가 눈을 떴다"},
		{Text: "고양이가 눈을 떴다", Choices: map[string]string{"눈": "snow"}},
		{Text: "눈이 내린다"},
	}
	outcomes, err := a.AnalyzeBatch(context.Background(), requests)
	require.NoError(t, err)
	require.Len(t, outcomes, len(requests))

	assert.Equal(t, model.StatusCompleted, outcomes[0].Status)
	assert.Equal(t, model.StatusNeedsChoice, outcomes[1].Status)
	assert.Equal(t, model.StatusCompleted, outcomes[2].Status)
	assert.Equal(t, "snow", outcomes[3].Result.Resolutions[0].SelectedSense.ID)
}

func TestAnalyzeBatch_StoreFailure(t *testing.T) {
	dict, weights := newStores(t)
	dict.Close()

	_, err := New(dict, weights).AnalyzeBatch(context.Background(), []services.AnalysisRequest{{Text: "강아지"}, {Text: "고양이"}})
	assert.ErrorIs(t, err, dreamerrors.ErrStoreUnavailable)
}
