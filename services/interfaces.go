package services

import (
	"context"

	"github.com/gcbaptista/go-dream-engine/config"
	"github.com/gcbaptista/go-dream-engine/model"
)

// DictionaryStore is the read side of the dictionary used by matching and homonym detection.
type DictionaryStore interface {
	// Lookup returns entries whose word is a substring of a candidate, contains a
	// candidate, or shares the candidate's first grapheme cluster.
	Lookup(ctx context.Context, candidates []string) ([]model.DictionaryEntry, error)
	// LookupBySense returns every sense registered for the exact surface word.
	LookupBySense(ctx context.Context, word string) ([]model.DictionaryEntry, error)
}

// DictionaryManager extends DictionaryStore with maintenance and browsing operations
type DictionaryManager interface {
	DictionaryStore
	Put(ctx context.Context, entries ...model.DictionaryEntry) (int, error)
	Get(ctx context.Context, id string) (model.DictionaryEntry, error)
	Delete(ctx context.Context, id string) error
	All(ctx context.Context) ([]model.DictionaryEntry, error)
	BrowseByInitial(ctx context.Context, initial rune) ([]model.DictionaryEntry, error)
	Homonyms(ctx context.Context) ([]model.HomonymGroup, error)
	Count() int
}

// ContextWeightStore holds the learned context cues for homonym senses.
type ContextWeightStore interface {
	CuesFor(ctx context.Context, senseID string) ([]model.ContextCue, error)
	// RecordChoice registers that a user picked senseID with the given context words.
	RecordChoice(ctx context.Context, senseID string, contextWords []string) error
	// BumpWeight adds delta to the cue weight, capped at max, and returns the new weight.
	BumpWeight(ctx context.Context, senseID, word string, delta, max float64) (float64, error)
	UsageCount(ctx context.Context, senseID string) (int, error)
}

// Analyzer runs the full analysis pipeline for one text.
type Analyzer interface {
	Analyze(ctx context.Context, text string, choices map[string]string) (*model.Outcome, error)
}

// BatchAnalyzer analyzes several independent texts.
type BatchAnalyzer interface {
	Analyzer
	AnalyzeBatch(ctx context.Context, requests []AnalysisRequest) ([]*model.Outcome, error)
}

// AnalysisRequest is one text plus the homonym choices made so far
type AnalysisRequest struct {
	Text    string            `json:"text"`
	Choices map[string]string `json:"choices,omitempty"`
}

// KeywordSearcher finds dictionary entries for a free-form query
type KeywordSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]SearchHit, error)
}

// SearchHit is one keyword search result with the stage that produced it
type SearchHit struct {
	model.MatchResult
	Stage string `json:"stage"` // "exact", "particle_removed", "fuzzy", "partial"
}

// FeedbackProcessor applies user choices and analysis feedback to the context weights
type FeedbackProcessor interface {
	RecordChoice(ctx context.Context, keyword, senseID, contextText string) error
	Submit(ctx context.Context, feedback model.Feedback) error
}

// JobManager exposes background job status
type JobManager interface {
	GetJob(jobID string) (*model.Job, error)
	ListJobs(status *model.JobStatus) []*model.Job
}

// AnalyticsTracker records analysis events
type AnalyticsTracker interface {
	TrackAnalysis(event model.AnalysisEvent) error
	TrackFeedback() error
	GetDashboardData() (model.AnalyticsDashboard, error)
}

// DreamEngine is the engine surface served over HTTP
type DreamEngine interface {
	BatchAnalyzer
	KeywordSearcher
	JobManager
	Dictionary() DictionaryManager
	HomonymGroup(ctx context.Context, word string) (model.HomonymGroup, error)
	RecordChoice(ctx context.Context, keyword, senseID, contextText string) error
	SubmitFeedback(ctx context.Context, feedback model.Feedback) error
	PutEntries(ctx context.Context, entries ...model.DictionaryEntry) (int, error)
	ImportTextAsync(source, text string) (string, error)
	SnapshotAsync() (string, error)
	JobMetrics() model.JobMetricsData
	Settings() config.AnalyzerSettings
}
