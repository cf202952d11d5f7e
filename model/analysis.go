package model

// OutcomeStatus distinguishes a finished analysis from one waiting for homonym choices.
type OutcomeStatus string

const (
	StatusCompleted   OutcomeStatus = "completed"
	StatusNeedsChoice OutcomeStatus = "needs_choice"
)

// NumberScore is one recommended number.
type NumberScore struct {
	Number    int      `json:"number"`
	Score     int      `json:"score"`
	Frequency int      `json:"frequency"`
	Sources   []string `json:"sources"`
}

// Recommendation is the ranked number set for an analysis.
type Recommendation struct {
	Numbers       []NumberScore `json:"numbers"`
	TotalKeywords int           `json:"total_keywords"`
}

// TopNumbers returns up to n recommended numbers in rank order.
func (r Recommendation) TopNumbers(n int) []int {
	if n > len(r.Numbers) || n <= 0 {
		n = len(r.Numbers)
	}
	out := make([]int, 0, n)
	for _, ns := range r.Numbers[:n] {
		out = append(out, ns.Number)
	}
	return out
}

// AnalysisResult is a completed analysis.
type AnalysisResult struct {
	Keywords       []AnalyzedKeyword `json:"keywords"`
	Recommendation Recommendation    `json:"recommendation"`
	Confidence     int               `json:"confidence"`
	SuggestionText string            `json:"suggestion_text"`
	Resolutions    []Resolution      `json:"resolutions"`
	Summary        ParseSummary      `json:"summary"`
	SkippedWords   []string          `json:"skipped_words,omitempty"`   // lookup failed
	UnmatchedWords []string          `json:"unmatched_words,omitempty"` // no dictionary entry
}

// PendingChoices is returned while homonyms still need an explicit choice.
type PendingChoices struct {
	Pending []PendingHomonym `json:"pending_choices"`
	Partial []Resolution     `json:"partial_resolutions"`
}

// Outcome is either a completed analysis or a request for homonym choices.
// Callers resubmit the same text with accumulated choices to resume.
type Outcome struct {
	ID      string          `json:"analysis_id"`
	Status  OutcomeStatus   `json:"status"`
	Result  *AnalysisResult `json:"result,omitempty"`
	Pending *PendingChoices `json:"pending,omitempty"`
}

// Completed reports whether the outcome carries a final result.
func (o *Outcome) Completed() bool {
	return o != nil && o.Status == StatusCompleted && o.Result != nil
}

// Feedback is a user's verdict on an analysis.
type Feedback struct {
	AnalysisText string            `json:"text"`
	Choices      map[string]string `json:"choices"`
	WasCorrect   bool              `json:"was_correct"`
	Comment      string            `json:"comment,omitempty"`
}
