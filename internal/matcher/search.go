package matcher

import (
	"context"
	"sort"

	"github.com/gcbaptista/go-dream-engine/internal/errors"
	"github.com/gcbaptista/go-dream-engine/model"
	"github.com/gcbaptista/go-dream-engine/services"
)

// Search stages, in priority order.
const (
	StageExact           = "exact"
	StageParticleRemoved = "particle_removed"
	StageFuzzy           = "fuzzy"
	StagePartial         = "partial"
)

var stageOrder = map[string]int{
	StageExact:           0,
	StageParticleRemoved: 1,
	StageFuzzy:           2,
	StagePartial:         3,
}

// Search returns up to limit entries for a keyword query, grouped by the stage
// that found them: exact, particle removed, fuzzy, then partial. Broad matches
// are not returned.
func (m *Matcher) Search(ctx context.Context, keyword string, limit int) ([]services.SearchHit, error) {
	q := prepare(keyword)
	if q.raw == "" {
		return nil, errors.NewValidationError("query", "cannot be empty")
	}

	entries, err := m.store.Lookup(ctx, q.candidates)
	if err != nil {
		return nil, errors.NewLookupError(q.raw, err)
	}

	hits := make([]services.SearchHit, 0, len(entries))
	for _, e := range entries {
		r := score(q, e)
		stage, ok := stageFor(r)
		if !ok {
			continue
		}
		hits = append(hits, services.SearchHit{MatchResult: r, Stage: stage})
	}

	sort.Slice(hits, func(i, j int) bool {
		si, sj := stageOrder[hits[i].Stage], stageOrder[hits[j].Stage]
		if si != sj {
			return si < sj
		}
		return better(hits[i].MatchResult, hits[j].MatchResult)
	})

	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

func stageFor(r model.MatchResult) (string, bool) {
	switch {
	case r.MatchType == model.MatchExact:
		return StageExact, true
	case r.MatchType == model.MatchParticleRemoved:
		return StageParticleRemoved, true
	case r.Similarity >= FuzzyThreshold:
		return StageFuzzy, true
	case r.MatchType == model.MatchPartial:
		return StagePartial, true
	}
	return "", false
}
