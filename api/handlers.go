// Package api exposes the dream engine over HTTP with gin.
package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	internalErrors "github.com/gcbaptista/go-dream-engine/internal/errors"
	"github.com/gcbaptista/go-dream-engine/services"
)

// API holds dependencies for API handlers.
type API struct {
	engine    services.DreamEngine
	analytics services.AnalyticsTracker
	logger    *slog.Logger
}

// NewAPI creates a new API handler structure. A nil logger uses slog.Default().
func NewAPI(engine services.DreamEngine, tracker services.AnalyticsTracker, logger *slog.Logger) *API {
	if logger == nil {
		logger = slog.Default()
	}
	return &API{
		engine:    engine,
		analytics: tracker,
		logger:    logger.With("component", "api"),
	}
}

// SetupRoutes installs the middleware and every route of the dream engine.
func SetupRoutes(router *gin.Engine, engine services.DreamEngine, tracker services.AnalyticsTracker, logger *slog.Logger) *API {
	apiHandler := NewAPI(engine, tracker, logger)

	router.Use(RequestIDMiddleware())
	router.Use(CORSMiddleware())
	router.Use(RequestSizeLimitMiddleware(engine.Settings().MaxRequestBodySize))

	router.GET("/health", apiHandler.HealthCheckHandler)
	router.GET("/analytics", apiHandler.GetAnalyticsHandler)

	analyzeRoutes := router.Group("/analyze")
	{
		analyzeRoutes.POST("", apiHandler.AnalyzeHandler)
		analyzeRoutes.POST("/batch", apiHandler.AnalyzeBatchHandler)
	}

	router.GET("/keywords/search", apiHandler.SearchKeywordsHandler)

	dictionaryRoutes := router.Group("/dictionary")
	{
		dictionaryRoutes.GET("/browse/:initial", apiHandler.BrowseHandler)
		dictionaryRoutes.GET("/entries/:id", apiHandler.GetEntryHandler)
		dictionaryRoutes.POST("/entries", apiHandler.PutEntriesHandler)
		dictionaryRoutes.POST("/import", apiHandler.ImportDictionaryHandler)
		dictionaryRoutes.POST("/snapshot", apiHandler.SnapshotHandler)
	}

	homonymRoutes := router.Group("/homonyms")
	{
		homonymRoutes.GET("", apiHandler.ListHomonymsHandler)
		homonymRoutes.GET("/:word", apiHandler.GetHomonymHandler)
		homonymRoutes.POST("/choice", apiHandler.RecordChoiceHandler)
	}

	router.POST("/feedback", apiHandler.FeedbackHandler)

	jobRoutes := router.Group("/jobs")
	{
		jobRoutes.GET("", apiHandler.ListJobsHandler)
		jobRoutes.GET("/metrics", apiHandler.GetJobMetricsHandler)
		jobRoutes.GET("/:jobId", apiHandler.GetJobHandler)
	}

	return apiHandler
}

// sendEngineError maps an engine error onto the matching status and code.
func sendEngineError(c *gin.Context, operation string, err error) {
	var validation *internalErrors.ValidationError
	switch {
	case errors.As(err, &validation):
		SendError(c, http.StatusBadRequest, ErrorCodeValidationFailed, "Request validation failed",
			ErrorDetail{Field: validation.Field, Message: validation.Message, Code: "VALIDATION_ERROR"})
	case errors.Is(err, internalErrors.ErrInvalidChoice):
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidChoice, err.Error())
	case errors.Is(err, internalErrors.ErrEntryNotFound):
		SendError(c, http.StatusNotFound, ErrorCodeEntryNotFound, err.Error())
	case errors.Is(err, internalErrors.ErrJobNotFound):
		SendError(c, http.StatusNotFound, ErrorCodeJobNotFound, err.Error())
	case errors.Is(err, internalErrors.ErrStoreUnavailable), errors.Is(err, internalErrors.ErrLookup):
		SendError(c, http.StatusServiceUnavailable, ErrorCodeStoreUnavailable,
			"Dictionary unavailable during "+operation+": "+err.Error())
	default:
		SendInternalError(c, operation, err)
	}
}

// sendAnalyzeError reports store failures like any engine error and every
// other analysis failure, a cancelled request included, as ANALYSIS_FAILED.
func sendAnalyzeError(c *gin.Context, operation string, err error) {
	if errors.Is(err, internalErrors.ErrStoreUnavailable) || errors.Is(err, internalErrors.ErrLookup) {
		sendEngineError(c, operation, err)
		return
	}
	SendAnalysisError(c, operation, err)
}
