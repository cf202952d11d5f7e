package homonym

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dreamerrors "github.com/gcbaptista/go-dream-engine/internal/errors"
	"github.com/gcbaptista/go-dream-engine/internal/trace"
	"github.com/gcbaptista/go-dream-engine/model"
	"github.com/gcbaptista/go-dream-engine/services"
	"github.com/gcbaptista/go-dream-engine/store"
)

var (
	eyeSense = model.DictionaryEntry{
		ID: "eye", Word: "눈", Importance: 3, Category: model.CategoryBody, Meaning: "신체 부위",
		Numbers: []model.NumberRef{{Number: 1}},
	}
	snowSense = model.DictionaryEntry{
		ID: "snow", Word: "눈", Importance: 3, Category: model.CategoryWeather, Meaning: "하늘에서 내리는 눈",
		Numbers: []model.NumberRef{{Number: 37}},
	}
	dogEntry = model.DictionaryEntry{
		ID: "dog", Word: "강아지", Importance: 4, Numbers: []model.NumberRef{{Number: 3}, {Number: 28}},
	}
)

func newFixture(t *testing.T) (*store.DictionaryStore, *store.ContextStore) {
	t.Helper()
	dict := store.NewDictionaryStore()
	_, err := dict.Put(context.Background(), eyeSense, snowSense, dogEntry)
	require.NoError(t, err)

	weights := store.NewContextStore()
	for senseID, cues := range map[string]map[string]float64{
		"eye":  {"아프다": 2.0, "보다": 1.2},
		"snow": {"내리다": 2.0, "온다": 2.0},
	} {
		for word, w := range cues {
			require.NoError(t, weights.SetCue(senseID, word, w))
		}
	}
	return dict, weights
}

func TestResolve_AutoResolvesWithExactAndStemHits(t *testing.T) {
	dict, weights := newFixture(t)
	report, err := New(dict, weights, nil).Resolve(context.Background(), "눈이 아프다 그래서 거울을 보고 울었다", nil)
	require.NoError(t, err)

	require.Empty(t, report.Pending)
	require.Len(t, report.Resolutions, 1)
	res := report.Resolutions[0]
	assert.Equal(t, "눈", res.Keyword)
	assert.Equal(t, "eye", res.SelectedSense.ID)
	assert.Equal(t, model.MethodAutoResolved, res.Method)
	assert.GreaterOrEqual(t, res.Confidence, AutoResolveThreshold)
}

func TestResolve_NoCueHitsIsPending(t *testing.T) {
	dict, weights := newFixture(t)
	report, err := New(dict, weights, nil).Resolve(context.Background(), "눈이 예쁘다", nil)
	require.NoError(t, err)

	require.Empty(t, report.Resolutions)
	require.Len(t, report.Pending, 1)
	p := report.Pending[0]
	assert.Equal(t, "눈", p.Keyword)
	require.Len(t, p.Senses, 2)
	assert.Less(t, p.Senses[0].Confidence, AutoResolveThreshold)
	// equal scores fall back to sense id order
	assert.Equal(t, "eye", p.Senses[0].Sense.ID)
	assert.Equal(t, "snow", p.Senses[1].Sense.ID)
	assert.Empty(t, p.Suggested)
}

func TestResolve_SnowFromConjugatedCue(t *testing.T) {
	dict, weights := newFixture(t)
	rec := &trace.Recorder{}
	report, err := New(dict, weights, rec).Resolve(context.Background(), "눈이 내린다", nil)
	require.NoError(t, err)

	require.Len(t, report.Resolutions, 1)
	assert.Equal(t, "snow", report.Resolutions[0].SelectedSense.ID)
	assert.Equal(t, model.MethodAutoResolved, report.Resolutions[0].Method)
	assert.GreaterOrEqual(t, report.Resolutions[0].Confidence, AutoResolveThreshold)
	assert.Len(t, rec.Named("auto_resolved"), 1)
	assert.Len(t, rec.Named("sense_scored"), 2)
}

func TestResolve_UserChoiceOverridesContext(t *testing.T) {
	dict, weights := newFixture(t)
	report, err := New(dict, weights, nil).Resolve(context.Background(), "눈이 내린다", map[string]string{"눈": "eye"})
	require.NoError(t, err)

	require.Len(t, report.Resolutions, 1)
	res := report.Resolutions[0]
	assert.Equal(t, "eye", res.SelectedSense.ID)
	assert.Equal(t, model.MethodUserChoice, res.Method)
	assert.Equal(t, 1.0, res.Confidence)
}

func TestResolve_InvalidChoiceIgnored(t *testing.T) {
	dict, weights := newFixture(t)
	rec := &trace.Recorder{}
	report, err := New(dict, weights, rec).Resolve(context.Background(), "눈이 내린다", map[string]string{"눈": "dog"})
	require.NoError(t, err)

	require.Len(t, report.Resolutions, 1)
	assert.Equal(t, "snow", report.Resolutions[0].SelectedSense.ID)
	assert.Equal(t, model.MethodAutoResolved, report.Resolutions[0].Method)
	assert.Len(t, rec.Named("invalid_choice"), 1)
}

func TestResolve_SingleSenseWordsPassThrough(t *testing.T) {
	dict, weights := newFixture(t)
	report, err := New(dict, weights, nil).Resolve(context.Background(), "강아지가 뛰어놀았다", nil)
	require.NoError(t, err)
	assert.Empty(t, report.Resolutions)
	assert.Empty(t, report.Pending)
}

// failingStore fails sense lookups for one word with err.
type failingStore struct {
	*store.DictionaryStore
	word string
	err  error
}

func (f *failingStore) LookupBySense(ctx context.Context, word string) ([]model.DictionaryEntry, error) {
	if word == f.word {
		return nil, f.err
	}
	return f.DictionaryStore.LookupBySense(ctx, word)
}

func TestResolve_LookupFailureDegrades(t *testing.T) {
	dict, weights := newFixture(t)
	rec := &trace.Recorder{}
	flaky := &failingStore{DictionaryStore: dict, word: "눈", err: stderrors.New("timeout")}

	report, err := New(flaky, weights, rec).Resolve(context.Background(), "눈이 내린다", nil)
	require.NoError(t, err)
	assert.Empty(t, report.Resolutions)
	assert.Empty(t, report.Pending)
	assert.NotEmpty(t, rec.Named("lookup_failed"))
}

func TestResolve_StoreWideFailures(t *testing.T) {
	tests := []struct {
		name  string
		setup func(dict *store.DictionaryStore, weights *store.ContextStore) services.DictionaryStore
		want  error
	}{
		{
			name: "dictionary closed",
			setup: func(dict *store.DictionaryStore, _ *store.ContextStore) services.DictionaryStore {
				dict.Close()
				return dict
			},
			want: dreamerrors.ErrStoreUnavailable,
		},
		{
			name: "context weights closed",
			setup: func(dict *store.DictionaryStore, weights *store.ContextStore) services.DictionaryStore {
				weights.Close()
				return dict
			},
			want: dreamerrors.ErrStoreUnavailable,
		},
		{
			name: "cancelled during lookup",
			setup: func(dict *store.DictionaryStore, _ *store.ContextStore) services.DictionaryStore {
				return &failingStore{DictionaryStore: dict, word: "눈", err: dreamerrors.NewLookupError("눈", context.Canceled)}
			},
			want: context.Canceled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dict, weights := newFixture(t)
			source := tt.setup(dict, weights)

			_, err := New(source, weights, nil).Resolve(context.Background(), "눈이 내린다", nil)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestResolve_CancelledContext(t *testing.T) {
	dict, weights := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(dict, weights, nil).Resolve(ctx, "눈이 내린다", nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResolve_SentenceBonusCountsOnce(t *testing.T) {
	dict := store.NewDictionaryStore()
	_, err := dict.Put(context.Background(), eyeSense, snowSense)
	require.NoError(t, err)
	weights := store.NewContextStore()
	require.NoError(t, weights.SetCue("snow", "내리다", 0.1))
	require.NoError(t, weights.SetCue("snow", "쌓이다", 0.1))

	report, err := New(dict, weights, nil).Resolve(context.Background(), "눈이 내린다 쌓여", nil)
	require.NoError(t, err)
	require.Empty(t, report.Resolutions)
	require.Len(t, report.Pending, 1)

	best := report.Pending[0].Senses[0]
	assert.Equal(t, "snow", best.Sense.ID)
	assert.InDelta(t, 0.8, best.Score, 1e-9)
	assert.Less(t, best.Confidence, AutoResolveThreshold)
}

func TestResolve_PopularitySuggestsPendingSense(t *testing.T) {
	dict, weights := newFixture(t)
	ctx := context.Background()
	require.NoError(t, weights.RecordChoice(ctx, "snow", []string{"겨울"}))
	require.NoError(t, weights.RecordChoice(ctx, "snow", []string{"하얗다"}))

	report, err := New(dict, weights, nil).Resolve(ctx, "눈이 예쁘다", nil)
	require.NoError(t, err)
	require.Len(t, report.Pending, 1)
	assert.Equal(t, "snow", report.Pending[0].Suggested)
	for _, s := range report.Pending[0].Senses {
		if s.Sense.ID == "snow" {
			assert.Equal(t, 2, s.Popularity)
		}
	}
}

func TestScoreSense(t *testing.T) {
	tests := []struct {
		name      string
		sense     model.DictionaryEntry
		cues      []model.ContextCue
		text      string
		nearby    []string
		wantScore float64
		wantConf  float64
		wantKinds []model.CueMatchKind
	}{
		{
			name:      "exact with proximity",
			sense:     eyeSense,
			cues:      []model.ContextCue{{Word: "아프다", Weight: 2.0}},
			text:      "눈이 아프다",
			nearby:    []string{"눈이 아프다"},
			wantScore: 4.5,
			wantConf:  1.0,
			wantKinds: []model.CueMatchKind{model.CueExact, model.CueProximity},
		},
		{
			name:   "two cues in the same sentence share one bonus",
			sense:  snowSense,
			cues:   []model.ContextCue{{Word: "내리다", Weight: 0.1}, {Word: "쌓이다", Weight: 0.1}},
			text:   "눈이 내린다 쌓여",
			nearby: []string{"눈이 내린다 쌓여"},
			// 0.1*1.5 twice plus a single 0.5
			wantScore: 0.8,
			wantConf:  0.8/1.5 + 0.1,
			wantKinds: []model.CueMatchKind{model.CueStem, model.CueStem, model.CueProximity},
		},
		{
			name:      "stem hit in another sentence",
			sense:     snowSense,
			cues:      []model.ContextCue{{Word: "내리다", Weight: 1.0}},
			text:      "눈을 봤다 밖에 내린다",
			nearby:    []string{"눈을 봤다"},
			wantScore: 1.5,
			wantConf:  1.0,
			wantKinds: []model.CueMatchKind{model.CueStem},
		},
		{
			name:      "partial",
			sense:     snowSense,
			cues:      []model.ContextCue{{Word: "눈송이", Weight: 1.0}},
			text:      "눈송 같은",
			wantScore: 0.8,
			wantConf:  0.8 / 1.5,
			wantKinds: []model.CueMatchKind{model.CuePartial},
		},
		{
			name:      "partial equal to the word is ignored",
			sense:     eyeSense,
			cues:      []model.ContextCue{{Word: "눈물", Weight: 1.9}},
			text:      "눈이 내린다",
			wantScore: 0,
			wantConf:  0,
		},
		{
			name:      "related cluster for matching category",
			sense:     snowSense,
			text:      "밤에 눈이",
			wantScore: 0.3,
			wantConf:  0.2,
			wantKinds: []model.CueMatchKind{model.CueRelated},
		},
		{
			name:      "related cluster ignored for other category",
			sense:     eyeSense,
			text:      "밤에 눈이",
			wantScore: 0,
			wantConf:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreSense("눈", tt.sense, tt.cues, tt.text, tt.nearby)
			assert.InDelta(t, tt.wantScore, got.Score, 1e-9)
			assert.InDelta(t, tt.wantConf, got.Confidence, 1e-9)
			kinds := make([]model.CueMatchKind, 0, len(got.Matches))
			for _, m := range got.Matches {
				kinds = append(kinds, m.Kind)
			}
			if len(tt.wantKinds) == 0 {
				assert.Empty(t, kinds)
			} else {
				assert.Equal(t, tt.wantKinds, kinds)
			}
		})
	}
}

func TestConfidenceBonuses(t *testing.T) {
	assert.InDelta(t, 0.5, confidence(0.6, 2, false), 1e-9)
	assert.InDelta(t, 0.6, confidence(0.6, 2, true), 1e-9)
	assert.InDelta(t, 1.0, confidence(3.0, 3, true), 1e-9)
	assert.InDelta(t, 0.0, confidence(0, 0, false), 1e-9)
}

func TestPartialCue(t *testing.T) {
	tests := []struct {
		cue, word, want string
	}{
		{"눈물", "눈", ""},
		{"눈송이", "눈", "눈송"},
		{"물", "배", ""},
		{"깜빡", "눈", "깜"},
	}
	for _, tt := range tests {
		if got := partialCue(tt.cue, tt.word); got != tt.want {
			t.Errorf("partialCue(%q, %q) = %q, want %q", tt.cue, tt.word, got, tt.want)
		}
	}
}
