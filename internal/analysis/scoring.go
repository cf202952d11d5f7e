package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/gcbaptista/go-dream-engine/model"
)

const (
	minKeywordConfidence = 40
	maxKeywordConfidence = 95

	minOverallConfidence     = 30
	maxOverallConfidence     = 95
	neutralOverallConfidence = 50

	importanceWeight  = 0.4
	similarityWeight  = 0.3
	keywordConfWeight = 0.3
	resolutionWeight  = 0.5
)

// KeywordConfidence scores a matched keyword in [40, 95].
func KeywordConfidence(similarity, importance, occurrences int) int {
	repeat := (occurrences - 1) * 4
	if repeat > 12 {
		repeat = 12
	}
	if repeat < 0 {
		repeat = 0
	}
	c := int(math.Round(float64(similarity)*0.45 + float64(importance)*12 + float64(repeat)))
	return clamp(c, minKeywordConfidence, maxKeywordConfidence)
}

func withConfidence(k model.AnalyzedKeyword) model.AnalyzedKeyword {
	k.Confidence = KeywordConfidence(k.Similarity, k.EffectiveImportance(), k.Occurrences)
	return k
}

// Recommend accumulates every number of every keyword: score adds the
// keyword's importance, frequency counts keywords. Numbers are ordered by
// score, then frequency, then value.
func Recommend(keywords []model.AnalyzedKeyword) model.Recommendation {
	byNumber := make(map[int]*model.NumberScore)
	for _, k := range keywords {
		seen := make(map[int]struct{}, len(k.Numbers))
		for _, ref := range k.Numbers {
			if _, dup := seen[ref.Number]; dup {
				continue
			}
			seen[ref.Number] = struct{}{}

			ns, ok := byNumber[ref.Number]
			if !ok {
				ns = &model.NumberScore{Number: ref.Number, Sources: make([]string, 0, 1)}
				byNumber[ref.Number] = ns
			}
			ns.Score += k.EffectiveImportance()
			ns.Frequency++
			ns.Sources = append(ns.Sources, k.Word)
		}
	}

	numbers := make([]model.NumberScore, 0, len(byNumber))
	for _, ns := range byNumber {
		numbers = append(numbers, *ns)
	}
	sort.Slice(numbers, func(i, j int) bool {
		a, b := numbers[i], numbers[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Frequency != b.Frequency {
			return a.Frequency > b.Frequency
		}
		return a.Number < b.Number
	})

	return model.Recommendation{Numbers: numbers, TotalKeywords: len(keywords)}
}

// OverallConfidence blends keyword quality with homonym resolution certainty
// into a percentage in [30, 95]. It is 50 when there is nothing to score.
func OverallConfidence(keywords []model.AnalyzedKeyword, resolutions []model.Resolution) int {
	var total, weight float64
	for _, k := range keywords {
		total += float64(k.EffectiveImportance())/model.MaxImportance*importanceWeight +
			float64(k.Similarity)/100*similarityWeight +
			float64(k.Confidence)/100*keywordConfWeight
		weight++
	}
	for _, r := range resolutions {
		switch r.Method {
		case model.MethodUserChoice:
			total += resolutionWeight
		default:
			total += r.Confidence * resolutionWeight
		}
		weight += resolutionWeight
	}

	if weight == 0 {
		return neutralOverallConfidence
	}
	return clamp(int(math.Round(total/weight*100)), minOverallConfidence, maxOverallConfidence)
}

// SuggestionText is the message shown with a result of the given confidence.
func SuggestionText(confidence, keywordCount int) string {
	switch {
	case confidence >= 85:
		return fmt.Sprintf("분석 결과가 매우 신뢰할 만합니다! %d개의 키워드를 바탕으로 추천된 번호들을 참고해보세요.", keywordCount)
	case confidence >= 70:
		return fmt.Sprintf("좋은 분석 결과입니다. %d개의 키워드가 추출되었으며, 추천 번호들이 의미가 있을 것 같습니다.", keywordCount)
	case confidence >= 50:
		return "분석이 완료되었지만, 꿈의 내용을 더 자세히 입력하시면 더 정확한 추천을 받을 수 있습니다."
	default:
		return "추가 정보가 필요합니다. 꿈에서 본 사물, 사람, 행동 등을 더 구체적으로 입력해보세요."
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
