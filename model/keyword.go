package model

// ParsedKeyword is a consolidated keyword extracted from one analysis input.
type ParsedKeyword struct {
	Word        string   `json:"word"`
	Importance  int      `json:"importance"`
	Occurrences int      `json:"occurrences"`
	Variants    []string `json:"variants"`
}

// ContextWindow holds the words surrounding one occurrence of a keyword.
type ContextWindow struct {
	SentenceIndex int      `json:"sentence_index"`
	Sentence      string   `json:"sentence"`
	Before        []string `json:"before"`
	After         []string `json:"after"`
}

// ParseSummary describes the shape of parsed text.
type ParseSummary struct {
	TotalSentences    int      `json:"total_sentences"`
	TotalKeywords     int      `json:"total_keywords"` // every kept occurrence
	UniqueKeywords    int      `json:"unique_keywords"`
	ImportantKeywords int      `json:"important_keywords"` // importance >= 3
	TopKeywords       []string `json:"top_keywords"`
}

// ParsedText is the Sentence Parser output.
type ParsedText struct {
	Sentences []string                   `json:"sentences"`
	Keywords  []ParsedKeyword            `json:"keywords"`
	Contexts  map[string][]ContextWindow `json:"contexts,omitempty"`
	Summary   ParseSummary               `json:"summary"`
}

// MatchType classifies how a dictionary entry matched a word.
type MatchType string

const (
	MatchExact           MatchType = "exact"
	MatchParticleRemoved MatchType = "particle_removed"
	MatchPartial         MatchType = "partial"
	MatchFuzzyHigh       MatchType = "fuzzy-high"
	MatchFuzzy           MatchType = "fuzzy"
	MatchBroad           MatchType = "broad"
)

// IsExact reports whether the match is an identity after normalization.
func (t MatchType) IsExact() bool {
	return t == MatchExact || t == MatchParticleRemoved
}

// MatchResult is the outcome of one matching attempt.
type MatchResult struct {
	Entry           DictionaryEntry `json:"entry"`
	Similarity      int             `json:"similarity"`
	MatchType       MatchType       `json:"match_type"`
	CandidatesTried int             `json:"candidates_tried"`
}

// AnalyzedKeyword is a parsed keyword after dictionary matching and homonym merge.
type AnalyzedKeyword struct {
	ParsedKeyword
	EntryID    string      `json:"entry_id,omitempty"`
	Matched    string      `json:"matched_word"`
	Category   Category    `json:"category,omitempty"`
	Meaning    string      `json:"meaning,omitempty"`
	Numbers    []NumberRef `json:"numbers"`
	DictImport int         `json:"dictionary_importance"`
	Similarity int         `json:"similarity"`
	MatchType  MatchType   `json:"match_type"`
	Confidence int         `json:"confidence"`
	Resolution *Resolution `json:"resolution,omitempty"`
}

// WithMatch returns a copy of k carrying the matched entry.
func (k AnalyzedKeyword) WithMatch(m MatchResult) AnalyzedKeyword {
	k.EntryID = m.Entry.ID
	k.Matched = m.Entry.Word
	k.Category = m.Entry.Category
	k.Meaning = m.Entry.Meaning
	k.Numbers = append([]NumberRef(nil), m.Entry.Numbers...)
	k.DictImport = m.Entry.Importance
	k.Similarity = m.Similarity
	k.MatchType = m.MatchType
	return k
}

// WithResolution returns a copy of k whose sense data is replaced by the resolved sense.
func (k AnalyzedKeyword) WithResolution(r Resolution) AnalyzedKeyword {
	s := r.SelectedSense
	k.EntryID = s.ID
	k.Matched = s.Word
	k.Category = s.Category
	k.Meaning = s.Meaning
	k.Numbers = append([]NumberRef(nil), s.Numbers...)
	k.DictImport = s.Importance
	if k.MatchType == "" {
		k.MatchType = MatchExact
		k.Similarity = 100
	}
	res := r
	k.Resolution = &res
	return k
}

// EffectiveImportance is the dictionary importance used for recommendation scoring;
// entries stored with importance 0 count as 1.
func (k AnalyzedKeyword) EffectiveImportance() int {
	if k.DictImport <= 0 {
		return 1
	}
	return k.DictImport
}
