package model

import "time"

// AnalysisEvent represents a single analysis request for analytics tracking
type AnalysisEvent struct {
	TextHash      string        `json:"text_hash"` // xxhash of the analysed text; raw text is never kept
	Status        OutcomeStatus `json:"status"`
	KeywordCount  int           `json:"keyword_count"`
	PendingCount  int           `json:"pending_count"`
	AutoResolved  int           `json:"auto_resolved"`
	UserChoices   int           `json:"user_choices"`
	Confidence    int           `json:"confidence"`
	TopKeywords   []string      `json:"top_keywords,omitempty"`
	ResponseTime  time.Duration `json:"response_time"`
	Timestamp     time.Time     `json:"timestamp"`
	FeedbackGiven bool          `json:"feedback_given,omitempty"`
}

// PopularKeyword represents aggregated data for frequently seen keywords
type PopularKeyword struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

// ConfidenceDistribution buckets completed analyses by overall confidence band
type ConfidenceDistribution struct {
	High     int `json:"high"`     // >= 85
	Good     int `json:"good"`     // >= 70
	Moderate int `json:"moderate"` // >= 50
	Low      int `json:"low"`      // < 50
}

// AnalysisPerformanceHourly represents hourly analysis volume
type AnalysisPerformanceHourly struct {
	Hour            int   `json:"hour"`
	AnalysisCount   int   `json:"analysis_count"`
	AvgResponseTime int64 `json:"avg_response_time"` // in milliseconds
}

// AnalyticsDashboard represents the complete analytics dashboard data
type AnalyticsDashboard struct {
	TotalAnalyses         int     `json:"total_analyses"`
	AnalysesChangePercent float64 `json:"analyses_change_percent"`
	AvgResponseTime       int64   `json:"avg_response_time"`       // in milliseconds
	AvgConfidence         float64 `json:"avg_confidence"`
	NeedsChoiceRate       float64 `json:"needs_choice_rate"`
	AutoResolvedHomonyms  int     `json:"auto_resolved_homonyms"`
	UserResolvedHomonyms  int     `json:"user_resolved_homonyms"`
	DictionaryEntries     int     `json:"dictionary_entries"`
	HomonymGroups         int     `json:"homonym_groups"`
	FeedbackCount         int     `json:"feedback_count"`

	Performance24h         []AnalysisPerformanceHourly `json:"performance_24h"`
	PopularKeywords        []PopularKeyword            `json:"popular_keywords"`
	ConfidenceDistribution ConfidenceDistribution      `json:"confidence_distribution"`
}
