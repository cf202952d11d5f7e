package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ErrorCode represents standardized error codes for the API
type ErrorCode string

const (
	// Client Error Codes (4xx)
	ErrorCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrorCodeEntryNotFound    ErrorCode = "ENTRY_NOT_FOUND"
	ErrorCodeHomonymNotFound  ErrorCode = "HOMONYM_NOT_FOUND"
	ErrorCodeJobNotFound      ErrorCode = "JOB_NOT_FOUND"
	ErrorCodeInvalidChoice    ErrorCode = "INVALID_CHOICE"
	ErrorCodeInvalidJSON      ErrorCode = "INVALID_JSON"
	ErrorCodeInvalidQuery     ErrorCode = "INVALID_QUERY"
	ErrorCodeTextTooLong      ErrorCode = "TEXT_TOO_LONG"

	// Server Error Codes (5xx)
	ErrorCodeInternalError      ErrorCode = "INTERNAL_ERROR"
	ErrorCodeAnalysisFailed     ErrorCode = "ANALYSIS_FAILED"
	ErrorCodeStoreUnavailable   ErrorCode = "STORE_UNAVAILABLE"
	ErrorCodeJobExecutionFailed ErrorCode = "JOB_EXECUTION_FAILED"
)

// ErrorDetail provides additional context for an error
type ErrorDetail struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// APIError represents a standardized API error response
type APIError struct {
	Error     string        `json:"error"`
	Code      ErrorCode     `json:"code"`
	Message   string        `json:"message"`
	Details   []ErrorDetail `json:"details,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
	RequestID string        `json:"request_id,omitempty"`
}

// APIErrorResponse creates a standardized error response
func APIErrorResponse(code ErrorCode, message string, details ...ErrorDetail) *APIError {
	return &APIError{
		Error:     "Request failed",
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now(),
	}
}

// SendError sends a standardized error response
func SendError(c *gin.Context, statusCode int, code ErrorCode, message string, details ...ErrorDetail) {
	errorResponse := APIErrorResponse(code, message, details...)
	errorResponse.RequestID = requestID(c)
	c.JSON(statusCode, errorResponse)
}

// SendStructuredValidationError sends a validation error with one detail per invalid field
func SendStructuredValidationError(c *gin.Context, result *ValidationResult) {
	details := make([]ErrorDetail, len(result.Errors))
	for i, err := range result.Errors {
		code := "VALIDATION_ERROR"
		if err.Code != "" {
			code = string(err.Code)
		}
		details[i] = ErrorDetail{
			Field:   err.Field,
			Message: err.Message,
			Code:    code,
		}
	}

	code := ErrorCodeValidationFailed
	if result.Code != "" {
		code = result.Code
	}
	SendError(c, http.StatusBadRequest, code, "Request validation failed", details...)
}

// SendEntryNotFoundError sends a standardized dictionary entry not found error
func SendEntryNotFoundError(c *gin.Context, entryID string) {
	SendError(c, http.StatusNotFound, ErrorCodeEntryNotFound,
		"Dictionary entry '"+entryID+"' not found")
}

// SendHomonymNotFoundError sends a standardized error for a word with no senses
func SendHomonymNotFoundError(c *gin.Context, word string) {
	SendError(c, http.StatusNotFound, ErrorCodeHomonymNotFound,
		"No senses registered for '"+word+"'")
}

// SendJobNotFoundError sends a standardized job not found error
func SendJobNotFoundError(c *gin.Context, jobID string) {
	SendError(c, http.StatusNotFound, ErrorCodeJobNotFound,
		"Job '"+jobID+"' not found")
}

// SendInvalidJSONError sends a standardized invalid JSON error
func SendInvalidJSONError(c *gin.Context, err error) {
	SendError(c, http.StatusBadRequest, ErrorCodeInvalidJSON,
		"Invalid JSON in request body: "+err.Error())
}

// SendInternalError sends a standardized internal server error
func SendInternalError(c *gin.Context, operation string, err error) {
	SendError(c, http.StatusInternalServerError, ErrorCodeInternalError,
		"Internal error during "+operation+": "+err.Error())
}

// SendAnalysisError sends a standardized error for an analysis that could not finish
func SendAnalysisError(c *gin.Context, operation string, err error) {
	SendError(c, http.StatusInternalServerError, ErrorCodeAnalysisFailed,
		"Failed during "+operation+": "+err.Error())
}

// SendJobExecutionError sends a standardized job execution error
func SendJobExecutionError(c *gin.Context, operation string, err error) {
	SendError(c, http.StatusInternalServerError, ErrorCodeJobExecutionFailed,
		"Failed to start "+operation+" job: "+err.Error())
}
