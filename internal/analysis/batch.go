package analysis

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/gcbaptista/go-dream-engine/model"
	"github.com/gcbaptista/go-dream-engine/services"
)

// AnalyzeBatch analyzes independent texts concurrently. Outcomes keep request
// order. The first hard failure cancels the remaining analyses.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, requests []services.AnalysisRequest) ([]*model.Outcome, error) {
	outcomes := make([]*model.Outcome, len(requests))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.batchLimit)
	for i, req := range requests {
		g.Go(func() error {
			out, err := a.Analyze(gctx, req.Text, req.Choices)
			if err != nil {
				return fmt.Errorf("analysis %d: %w", i, err)
			}
			outcomes[i] = out
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}
