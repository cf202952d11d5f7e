package model

// ResolutionMethod records how a homonym sense was selected.
type ResolutionMethod string

const (
	MethodUserChoice   ResolutionMethod = "user_choice"
	MethodAutoResolved ResolutionMethod = "auto_resolved"
)

// Resolution is the selected sense for an ambiguous keyword.
// Confidence is in [0, 1].
type Resolution struct {
	Keyword       string           `json:"keyword"`
	SelectedSense DictionaryEntry  `json:"selected_sense"`
	Method        ResolutionMethod `json:"method"`
	Confidence    float64          `json:"confidence"`
}

// CueMatchKind is the way a context cue was found in the text.
type CueMatchKind string

const (
	CueExact     CueMatchKind = "exact"
	CueStem      CueMatchKind = "stem"
	CuePartial   CueMatchKind = "partial"
	CueProximity CueMatchKind = "proximity"
	CueRelated   CueMatchKind = "related"
)

// CueMatch is one contribution to a sense score.
type CueMatch struct {
	Cue    string       `json:"cue"`
	Found  string       `json:"found"`
	Kind   CueMatchKind `json:"kind"`
	Points float64      `json:"points"`
}

// SenseScore is a sense together with its score breakdown.
type SenseScore struct {
	Sense      DictionaryEntry `json:"sense"`
	Score      float64         `json:"score"`
	Confidence float64         `json:"confidence"`
	Matches    []CueMatch      `json:"matches"`
	Popularity int             `json:"popularity"`
}

// PendingHomonym is an ambiguous word that needs an explicit choice.
type PendingHomonym struct {
	Keyword   string       `json:"keyword"`
	Senses    []SenseScore `json:"senses"`
	Suggested string       `json:"suggested_sense_id,omitempty"`
}

// HomonymReport is the resolver output for one text.
type HomonymReport struct {
	Resolutions []Resolution     `json:"resolutions"`
	Pending     []PendingHomonym `json:"pending"`
}

// Resolution returns the resolution for keyword, if any.
func (r HomonymReport) Resolution(keyword string) (Resolution, bool) {
	for _, res := range r.Resolutions {
		if res.Keyword == keyword {
			return res, true
		}
	}
	return Resolution{}, false
}
