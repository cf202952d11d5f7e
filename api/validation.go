package api

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-dream-engine/internal/hangul"
	"github.com/gcbaptista/go-dream-engine/model"
	"github.com/gcbaptista/go-dream-engine/services"
	"github.com/gcbaptista/go-dream-engine/store"
)

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string    `json:"field"`
	Message string    `json:"message"`
	Code    ErrorCode `json:"code,omitempty"`
}

// ValidationResult holds the result of validation operations
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
	// Code replaces VALIDATION_FAILED in the response when set.
	Code ErrorCode `json:"-"`
}

func newResult() *ValidationResult {
	return &ValidationResult{Valid: true}
}

// AddError adds a validation error to the result
func (vr *ValidationResult) AddError(field, message string) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// AddCodedError adds an error that carries its own error code. The first
// coded error decides the response code.
func (vr *ValidationResult) AddCodedError(field, message string, code ErrorCode) {
	vr.AddError(field, message)
	vr.Errors[len(vr.Errors)-1].Code = code
	if vr.Code == "" {
		vr.Code = code
	}
}

// HasErrors returns true if there are validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// ValidateText checks a dream text for presence and length.
func ValidateText(field, text string, maxRunes int) *ValidationResult {
	result := newResult()
	validateText(result, field, text, maxRunes)
	return result
}

func validateText(result *ValidationResult, field, text string, maxRunes int) {
	if strings.TrimSpace(text) == "" {
		result.AddError(field, "Text is required")
		return
	}
	if n := utf8.RuneCountInString(text); maxRunes > 0 && n > maxRunes {
		result.AddCodedError(field, fmt.Sprintf("Text is %d characters long, the limit is %d", n, maxRunes), ErrorCodeTextTooLong)
	}
}

func validateChoices(result *ValidationResult, field string, choices map[string]string) {
	for keyword, senseID := range choices {
		if strings.TrimSpace(keyword) == "" {
			result.AddError(field, "Choice keyword cannot be empty")
		}
		if strings.TrimSpace(senseID) == "" {
			result.AddError(field+"."+keyword, "Sense ID cannot be empty")
		}
	}
}

// ValidateAnalysisRequest validates one analysis request.
func ValidateAnalysisRequest(req services.AnalysisRequest, maxRunes int) *ValidationResult {
	result := newResult()
	validateText(result, "text", req.Text, maxRunes)
	validateChoices(result, "choices", req.Choices)
	return result
}

// ValidateBatch validates a batch of analysis requests.
func ValidateBatch(requests []services.AnalysisRequest, maxBatch, maxRunes int) *ValidationResult {
	result := newResult()

	if len(requests) == 0 {
		result.AddError("requests", "No texts provided")
		return result
	}
	if maxBatch > 0 && len(requests) > maxBatch {
		result.AddError("requests", fmt.Sprintf("Batch holds %d texts, the limit is %d", len(requests), maxBatch))
		return result
	}

	for i, req := range requests {
		validateText(result, fmt.Sprintf("requests[%d].text", i), req.Text, maxRunes)
		validateChoices(result, fmt.Sprintf("requests[%d].choices", i), req.Choices)
	}
	return result
}

// ValidateEntries validates dictionary entries before they are stored.
func ValidateEntries(entries []model.DictionaryEntry) *ValidationResult {
	result := newResult()

	if len(entries) == 0 {
		result.AddError("entries", "No entries provided")
		return result
	}
	for i, e := range entries {
		if err := store.ValidateEntry(e); err != nil {
			result.AddError(fmt.Sprintf("entries[%d]", i), err.Error())
		}
	}
	return result
}

// ValidateInitial parses a browse parameter holding one initial consonant (ㄱ..ㅎ).
func ValidateInitial(param string) (rune, *ValidationResult) {
	result := newResult()

	r, size := utf8.DecodeRuneInString(param)
	if param == "" || size != len(param) || !hangul.IsInitialConsonant(r) {
		result.AddError("initial", "Must be a single initial consonant such as ㄱ or ㅎ")
		return 0, result
	}
	return r, result
}

// ValidateSearchQuery validates the keyword search query parameters.
func ValidateSearchQuery(query, limitParam string) (int, *ValidationResult) {
	result := newResult()

	if strings.TrimSpace(query) == "" {
		result.AddCodedError("q", "Query is required", ErrorCodeInvalidQuery)
	}

	limit := 0
	if limitParam != "" {
		n, err := strconv.Atoi(limitParam)
		if err != nil || n < 0 {
			result.AddCodedError("limit", "Limit must be a non-negative integer", ErrorCodeInvalidQuery)
		} else {
			limit = n
		}
	}
	return limit, result
}

// ValidateChoiceRequest validates an explicit homonym choice.
func ValidateChoiceRequest(req ChoiceRequest) *ValidationResult {
	result := newResult()
	if strings.TrimSpace(req.Keyword) == "" {
		result.AddError("keyword", "Keyword is required")
	}
	if strings.TrimSpace(req.SenseID) == "" {
		result.AddError("sense_id", "Sense ID is required")
	}
	return result
}

// SendValidationError sends a standardized validation error response
func SendValidationError(c *gin.Context, result *ValidationResult) {
	SendStructuredValidationError(c, result)
}

// ValidateJSONBinding binds the request body and reports a binding failure as a validation error
func ValidateJSONBinding(c *gin.Context, target any) *ValidationResult {
	result := newResult()

	if err := c.ShouldBindJSON(target); err != nil {
		result.AddError("request_body", "Invalid request body: "+err.Error())
	}

	return result
}
