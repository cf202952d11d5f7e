package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-dream-engine/internal/analytics"
	"github.com/gcbaptista/go-dream-engine/model"
	"github.com/gcbaptista/go-dream-engine/services"
)

// BatchAnalyzeRequest is the body of POST /analyze/batch.
type BatchAnalyzeRequest struct {
	Requests []services.AnalysisRequest `json:"requests"`
}

// BatchAnalyzeResponse returns outcomes in request order.
type BatchAnalyzeResponse struct {
	Outcomes []*model.Outcome `json:"outcomes"`
	Total    int              `json:"total"`
}

// AnalyzeHandler analyzes one dream text. The response is either a completed
// result or the homonyms that still need a choice; the caller resubmits the
// same text with the accumulated choices to resume.
func (api *API) AnalyzeHandler(c *gin.Context) {
	startTime := time.Now()

	var req services.AnalysisRequest
	if result := ValidateJSONBinding(c, &req); result.HasErrors() {
		SendValidationError(c, result)
		return
	}
	if result := ValidateAnalysisRequest(req, api.engine.Settings().MaxTextRunes); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	outcome, err := api.engine.Analyze(c.Request.Context(), req.Text, req.Choices)
	if err != nil {
		sendAnalyzeError(c, "analysis", err)
		return
	}

	api.trackAnalysis(req.Text, outcome, time.Since(startTime))
	c.JSON(http.StatusOK, outcome)
}

// AnalyzeBatchHandler analyzes several independent texts.
func (api *API) AnalyzeBatchHandler(c *gin.Context) {
	startTime := time.Now()
	settings := api.engine.Settings()

	var req BatchAnalyzeRequest
	if result := ValidateJSONBinding(c, &req); result.HasErrors() {
		SendValidationError(c, result)
		return
	}
	if result := ValidateBatch(req.Requests, settings.MaxBatchSize, settings.MaxTextRunes); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	outcomes, err := api.engine.AnalyzeBatch(c.Request.Context(), req.Requests)
	if err != nil {
		sendAnalyzeError(c, "batch analysis", err)
		return
	}

	elapsed := time.Since(startTime) / time.Duration(len(outcomes))
	for i, out := range outcomes {
		api.trackAnalysis(req.Requests[i].Text, out, elapsed)
	}
	c.JSON(http.StatusOK, BatchAnalyzeResponse{Outcomes: outcomes, Total: len(outcomes)})
}

// trackAnalysis records the event asynchronously so the response is not delayed.
func (api *API) trackAnalysis(text string, outcome *model.Outcome, elapsed time.Duration) {
	if api.analytics == nil {
		return
	}
	event := analytics.EventFromOutcome(text, outcome, elapsed)
	go func() {
		if err := api.analytics.TrackAnalysis(event); err != nil {
			api.logger.Warn("failed to track analytics event", "error", err)
		}
	}()
}
