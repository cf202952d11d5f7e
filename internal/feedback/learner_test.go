package feedback

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dreamerrors "github.com/gcbaptista/go-dream-engine/internal/errors"
	"github.com/gcbaptista/go-dream-engine/internal/trace"
	"github.com/gcbaptista/go-dream-engine/model"
	"github.com/gcbaptista/go-dream-engine/store"
)

func newLearner(t *testing.T, hook trace.Hook) (*Learner, *store.ContextStore) {
	t.Helper()
	dict := store.NewDictionaryStore()
	_, err := dict.Put(context.Background(),
		model.DictionaryEntry{ID: "eye", Word: "눈", Category: model.CategoryBody, Numbers: []model.NumberRef{{Number: 1}}},
		model.DictionaryEntry{ID: "snow", Word: "눈", Category: model.CategoryWeather, Numbers: []model.NumberRef{{Number: 37}}},
	)
	require.NoError(t, err)
	weights := store.NewContextStore()
	return New(dict, weights, hook), weights
}

func cueWeights(t *testing.T, weights *store.ContextStore, senseID string) map[string]float64 {
	t.Helper()
	cues, err := weights.CuesFor(context.Background(), senseID)
	require.NoError(t, err)
	out := make(map[string]float64, len(cues))
	for _, c := range cues {
		out[c.Word] = c.Weight
	}
	return out
}

func TestRecordChoice(t *testing.T) {
	rec := &trace.Recorder{}
	l, weights := newLearner(t, rec)
	ctx := context.Background()

	require.NoError(t, l.RecordChoice(ctx, "눈이", "snow", "눈이 펑펑 내린다. 정말 추웠다"))

	assert.Equal(t, map[string]float64{"펑펑": 1.0, "내린다": 1.0, "추웠다": 1.0}, cueWeights(t, weights, "snow"))
	usage, err := weights.UsageCount(ctx, "snow")
	require.NoError(t, err)
	assert.Equal(t, 1, usage)
	assert.Len(t, rec.Named("choice_recorded"), 1)

	require.NoError(t, l.RecordChoice(ctx, "눈", "snow", "펑펑"))
	assert.InDelta(t, 1.1, cueWeights(t, weights, "snow")["펑펑"], 1e-9)
}

func TestRecordChoice_WeightCapped(t *testing.T) {
	l, weights := newLearner(t, nil)
	ctx := context.Background()
	for i := 0; i < 25; i++ {
		require.NoError(t, l.RecordChoice(ctx, "눈", "snow", "겨울"))
	}
	assert.Equal(t, MaxCueWeight, cueWeights(t, weights, "snow")["겨울"])
}

func TestRecordChoice_Errors(t *testing.T) {
	l, _ := newLearner(t, nil)
	ctx := context.Background()

	tests := []struct {
		name             string
		keyword, senseID string
		want             error
	}{
		{"empty keyword", " ", "snow", dreamerrors.ErrInvalidInput},
		{"empty sense", "눈", "", dreamerrors.ErrInvalidInput},
		{"sense from another group", "눈", "boat", dreamerrors.ErrInvalidChoice},
		{"unknown word", "바다", "snow", dreamerrors.ErrInvalidChoice},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := l.RecordChoice(ctx, tt.keyword, tt.senseID, "눈이 내린다")
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestSubmit(t *testing.T) {
	rec := &trace.Recorder{}
	l, weights := newLearner(t, rec)
	ctx := context.Background()

	require.NoError(t, l.Submit(ctx, model.Feedback{
		AnalysisText: "눈이 펑펑 내린다",
		Choices:      map[string]string{"눈": "eye"},
		WasCorrect:   false,
	}))
	assert.Empty(t, cueWeights(t, weights, "eye"))
	assert.Len(t, rec.Named("negative_feedback"), 1)

	require.NoError(t, l.Submit(ctx, model.Feedback{
		AnalysisText: "눈이 펑펑 내린다",
		Choices:      map[string]string{"눈": "snow"},
		WasCorrect:   true,
	}))
	assert.Contains(t, cueWeights(t, weights, "snow"), "펑펑")

	err := l.Submit(ctx, model.Feedback{AnalysisText: "눈", Choices: map[string]string{"눈": "nope"}, WasCorrect: true})
	assert.True(t, errors.Is(err, dreamerrors.ErrInvalidChoice))

	err = l.Submit(ctx, model.Feedback{})
	assert.True(t, errors.Is(err, dreamerrors.ErrInvalidInput))
}

func TestContextWords(t *testing.T) {
	got := ContextWords("눈이 펑펑 내린다. 어제 펑펑 왔다", "눈")
	assert.Equal(t, []string{"펑펑", "내린다"}, got)
}
