package api

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gcbaptista/go-dream-engine/model"
	"github.com/gcbaptista/go-dream-engine/services"
)

func TestValidationResult_AddError(t *testing.T) {
	result := newResult()
	assert.False(t, result.HasErrors())

	result.AddError("field1", "error message")

	assert.False(t, result.Valid)
	assert.True(t, result.HasErrors())
	assert.Equal(t, []ValidationError{{Field: "field1", Message: "error message"}}, result.Errors)
	assert.Empty(t, result.Code)
}

func TestValidationResult_AddCodedError(t *testing.T) {
	result := newResult()
	result.AddError("field1", "plain")
	result.AddCodedError("field2", "coded", ErrorCodeTextTooLong)
	result.AddCodedError("field3", "later", ErrorCodeInvalidQuery)

	assert.True(t, result.HasErrors())
	assert.Equal(t, ErrorCodeTextTooLong, result.Code)
	assert.Equal(t, []ValidationError{
		{Field: "field1", Message: "plain"},
		{Field: "field2", Message: "coded", Code: ErrorCodeTextTooLong},
		{Field: "field3", Message: "later", Code: ErrorCodeInvalidQuery},
	}, result.Errors)
}

func TestValidateAnalysisRequest(t *testing.T) {
	tests := []struct {
		name      string
		req       services.AnalysisRequest
		maxRunes  int
		wantField string
		wantCode  ErrorCode
	}{
		{name: "valid", req: services.AnalysisRequest{Text: "눈이 내린다"}, maxRunes: 100},
		{name: "valid with choices", req: services.AnalysisRequest{Text: "눈", Choices: map[string]string{"눈": "abc"}}, maxRunes: 100},
		{name: "empty", req: services.AnalysisRequest{Text: ""}, maxRunes: 100, wantField: "text"},
		{name: "whitespace", req: services.AnalysisRequest{Text: " \n\t"}, maxRunes: 100, wantField: "text"},
		{name: "counts runes not bytes", req: services.AnalysisRequest{Text: "강아지"}, maxRunes: 3},
		{name: "too long", req: services.AnalysisRequest{Text: "강아지가"}, maxRunes: 3, wantField: "text", wantCode: ErrorCodeTextTooLong},
		{name: "blank sense", req: services.AnalysisRequest{Text: "눈", Choices: map[string]string{"눈": " "}}, maxRunes: 100, wantField: "choices.눈"},
		{name: "blank keyword", req: services.AnalysisRequest{Text: "눈", Choices: map[string]string{"": "abc"}}, maxRunes: 100, wantField: "choices"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateAnalysisRequest(tt.req, tt.maxRunes)
			if tt.wantField == "" {
				assert.False(t, result.HasErrors(), "%+v", result.Errors)
				return
			}
			if assert.True(t, result.HasErrors()) {
				assert.Equal(t, tt.wantField, result.Errors[0].Field)
				assert.Equal(t, tt.wantCode, result.Code)
			}
		})
	}
}

func TestValidateBatch(t *testing.T) {
	valid := services.AnalysisRequest{Text: "눈이 내린다"}

	assert.False(t, ValidateBatch([]services.AnalysisRequest{valid, valid}, 2, 100).HasErrors())
	assert.True(t, ValidateBatch(nil, 2, 100).HasErrors())
	assert.True(t, ValidateBatch([]services.AnalysisRequest{valid, valid, valid}, 2, 100).HasErrors())

	result := ValidateBatch([]services.AnalysisRequest{valid, {Text: ""}}, 5, 100)
	if assert.Len(t, result.Errors, 1) {
		assert.Equal(t, "requests[1].text", result.Errors[0].Field)
	}
}

func TestValidateEntries(t *testing.T) {
	good := model.DictionaryEntry{Word: "가게", Importance: 3, Numbers: []model.NumberRef{{Number: 5}}}
	assert.False(t, ValidateEntries([]model.DictionaryEntry{good}).HasErrors())
	assert.True(t, ValidateEntries(nil).HasErrors())

	result := ValidateEntries([]model.DictionaryEntry{
		good,
		{Word: "", Numbers: []model.NumberRef{{Number: 5}}},
		{Word: "별", Importance: 9},
		{Word: "별", Category: "우주"},
	})
	assert.Len(t, result.Errors, 3)
	assert.Equal(t, "entries[1]", result.Errors[0].Field)
}

func TestValidateInitial(t *testing.T) {
	tests := []struct {
		param string
		want  rune
		ok    bool
	}{
		{"ㄱ", 'ㄱ', true},
		{"ㅎ", 'ㅎ', true},
		{"ㄲ", 'ㄲ', true},
		{"가", 0, false},
		{"ㄱㄴ", 0, false},
		{"", 0, false},
		{"a", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.param, func(t *testing.T) {
			got, result := ValidateInitial(tt.param)
			assert.Equal(t, tt.ok, !result.HasErrors())
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateSearchQuery(t *testing.T) {
	limit, result := ValidateSearchQuery("강아지", "5")
	assert.False(t, result.HasErrors())
	assert.Equal(t, 5, limit)

	limit, result = ValidateSearchQuery("강아지", "")
	assert.False(t, result.HasErrors())
	assert.Zero(t, limit)

	_, result = ValidateSearchQuery(" ", "-1")
	assert.Len(t, result.Errors, 2)
	assert.Equal(t, ErrorCodeInvalidQuery, result.Code)
}

func TestValidateChoiceRequest(t *testing.T) {
	assert.False(t, ValidateChoiceRequest(ChoiceRequest{Keyword: "눈", SenseID: "abc"}).HasErrors())
	result := ValidateChoiceRequest(ChoiceRequest{Keyword: strings.Repeat(" ", 3)})
	assert.Len(t, result.Errors, 2)
}
