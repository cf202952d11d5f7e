package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-dream-engine/internal/hangul"
	"github.com/gcbaptista/go-dream-engine/model"
)

// ChoiceRequest is an explicit homonym choice made outside an analysis.
type ChoiceRequest struct {
	Keyword string `json:"keyword"`
	SenseID string `json:"sense_id"`
	Context string `json:"context"`
}

// ListHomonymsHandler lists every word with more than one sense.
func (api *API) ListHomonymsHandler(c *gin.Context) {
	groups, err := api.engine.Dictionary().Homonyms(c.Request.Context())
	if err != nil {
		sendEngineError(c, "list homonyms", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"homonyms": groups,
		"total":    len(groups),
	})
}

// GetHomonymHandler returns the senses of one word.
func (api *API) GetHomonymHandler(c *gin.Context) {
	word := hangul.Normalize(c.Param("word"))
	if word == "" {
		result := newResult()
		result.AddError("word", "Word is required")
		SendValidationError(c, result)
		return
	}

	group, err := api.engine.HomonymGroup(c.Request.Context(), word)
	if err != nil {
		sendEngineError(c, "homonym lookup", err)
		return
	}
	if len(group.Senses) == 0 {
		SendHomonymNotFoundError(c, word)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"word":      group.Word,
		"senses":    group.Senses,
		"ambiguous": len(group.Senses) > 1,
	})
}

// RecordChoiceHandler reinforces a sense with the words of its context.
func (api *API) RecordChoiceHandler(c *gin.Context) {
	var req ChoiceRequest
	if result := ValidateJSONBinding(c, &req); result.HasErrors() {
		SendValidationError(c, result)
		return
	}
	if result := ValidateChoiceRequest(req); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	if err := api.engine.RecordChoice(c.Request.Context(), req.Keyword, req.SenseID, req.Context); err != nil {
		sendEngineError(c, "record choice", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "recorded",
		"keyword":  req.Keyword,
		"sense_id": req.SenseID,
	})
}

// FeedbackHandler applies a verdict on an analysis.
func (api *API) FeedbackHandler(c *gin.Context) {
	var fb model.Feedback
	if result := ValidateJSONBinding(c, &fb); result.HasErrors() {
		SendValidationError(c, result)
		return
	}
	if result := ValidateText("text", fb.AnalysisText, api.engine.Settings().MaxTextRunes); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	if err := api.engine.SubmitFeedback(c.Request.Context(), fb); err != nil {
		sendEngineError(c, "feedback", err)
		return
	}

	if api.analytics != nil {
		if err := api.analytics.TrackFeedback(); err != nil {
			api.logger.Warn("failed to track feedback", "error", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "received"})
}
