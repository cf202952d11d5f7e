package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gcbaptista/go-dream-engine/model"
)

func TestKeywordConfidence(t *testing.T) {
	tests := []struct {
		name                               string
		similarity, importance, occurrence int
		want                               int
	}{
		{"exact match", 100, 4, 1, 93},
		{"floor", 0, 0, 1, 40},
		{"ceiling", 100, 5, 10, 95},
		{"repeat bonus", 60, 1, 2, 43},
		{"repeat bonus capped", 60, 1, 9, 51},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KeywordConfidence(tt.similarity, tt.importance, tt.occurrence); got != tt.want {
				t.Errorf("KeywordConfidence(%d, %d, %d) = %d, want %d", tt.similarity, tt.importance, tt.occurrence, got, tt.want)
			}
		})
	}
}

func analyzed(word string, importance int, numbers ...int) model.AnalyzedKeyword {
	return model.AnalyzedKeyword{
		ParsedKeyword: model.ParsedKeyword{Word: word, Importance: 1, Occurrences: 1},
		DictImport:    importance,
		Numbers:       refs(numbers...),
	}
}

func TestRecommend(t *testing.T) {
	rec := Recommend([]model.AnalyzedKeyword{
		analyzed("용", 5, 7, 12),
		analyzed("돼지", 2, 12),
		analyzed("물", 0, 7),
		analyzed("꽃", 3, 30),
		analyzed("산", 3, 4),
		analyzed("달", 1, 9, 9),
	})

	got := make([]model.NumberScore, 0, len(rec.Numbers))
	for _, ns := range rec.Numbers {
		got = append(got, model.NumberScore{Number: ns.Number, Score: ns.Score, Frequency: ns.Frequency})
	}
	assert.Equal(t, []model.NumberScore{
		{Number: 12, Score: 7, Frequency: 2},
		{Number: 7, Score: 6, Frequency: 2},
		{Number: 4, Score: 3, Frequency: 1},
		{Number: 30, Score: 3, Frequency: 1},
		{Number: 9, Score: 1, Frequency: 1},
	}, got)
	assert.Equal(t, 6, rec.TotalKeywords)
	assert.Equal(t, []string{"용", "돼지"}, rec.Numbers[0].Sources)
}

func TestOverallConfidence(t *testing.T) {
	auto := func(c float64) model.Resolution {
		return model.Resolution{Method: model.MethodAutoResolved, Confidence: c}
	}
	user := model.Resolution{Method: model.MethodUserChoice}
	strong := model.AnalyzedKeyword{DictImport: 4, Similarity: 100, Confidence: 93}

	tests := []struct {
		name        string
		keywords    []model.AnalyzedKeyword
		resolutions []model.Resolution
		want        int
	}{
		{"nothing to score", nil, nil, 50},
		{"single strong keyword", []model.AnalyzedKeyword{strong}, nil, 90},
		{"user choice only", nil, []model.Resolution{user}, 95},
		{"weak auto resolution", nil, []model.Resolution{auto(0.2)}, 30},
		{"mixed", []model.AnalyzedKeyword{strong}, []model.Resolution{auto(0.8)}, 87},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OverallConfidence(tt.keywords, tt.resolutions))
		})
	}
}

func TestSuggestionText(t *testing.T) {
	bands := []int{95, 85, 84, 70, 69, 50, 49, 30}
	seen := make(map[string]int)
	for _, c := range bands {
		seen[SuggestionText(c, 3)]++
	}
	assert.Len(t, seen, 4)
	assert.True(t, strings.Contains(SuggestionText(90, 3), "3개"))
	assert.Equal(t, SuggestionText(85, 1), SuggestionText(95, 1))
	assert.NotEqual(t, SuggestionText(85, 1), SuggestionText(84, 1))
}
