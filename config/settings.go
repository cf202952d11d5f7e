// Package config provides configuration structures for the dream engine.
// It defines analyzer limits, server settings and the logger setup.
package config

import (
	"fmt"
)

// Default analyzer limits.
const (
	DefaultMaxTextRunes       = 2000
	DefaultBatchConcurrency   = 4
	DefaultMaxBatchSize       = 50
	DefaultSearchLimit        = 10
	DefaultMaxSearchLimit     = 100
	DefaultMaxEventsToKeep    = 10000
	DefaultJobWorkers         = 2
	DefaultMaxRequestBodySize = 1 << 20
)

// AnalyzerSettings bounds the work a single request can ask for.
// Scoring thresholds are fixed in the analysis packages and are not configurable.
type AnalyzerSettings struct {
	MaxTextRunes       int   `json:"max_text_runes" yaml:"max_text_runes" toml:"max_text_runes"`                      // Longest dream text accepted, in runes
	BatchConcurrency   int   `json:"batch_concurrency" yaml:"batch_concurrency" toml:"batch_concurrency"`             // Analyses run in parallel by a batch
	MaxBatchSize       int   `json:"max_batch_size" yaml:"max_batch_size" toml:"max_batch_size"`                      // Texts accepted by one batch request
	DefaultSearchLimit int   `json:"default_search_limit" yaml:"default_search_limit" toml:"default_search_limit"`    // Keyword search results when no limit is given
	MaxSearchLimit     int   `json:"max_search_limit" yaml:"max_search_limit" toml:"max_search_limit"`                // Upper bound for a requested search limit
	MaxEventsToKeep    int   `json:"max_events_to_keep" yaml:"max_events_to_keep" toml:"max_events_to_keep"`          // Analytics events retained in memory
	JobWorkers         int   `json:"job_workers" yaml:"job_workers" toml:"job_workers"`                               // Concurrent import jobs
	MaxRequestBodySize int64 `json:"max_request_body_size" yaml:"max_request_body_size" toml:"max_request_body_size"` // Bytes accepted per HTTP request
}

// ApplyDefaults fills zero values with the package defaults.
func (s *AnalyzerSettings) ApplyDefaults() {
	if s.MaxTextRunes == 0 {
		s.MaxTextRunes = DefaultMaxTextRunes
	}
	if s.BatchConcurrency == 0 {
		s.BatchConcurrency = DefaultBatchConcurrency
	}
	if s.MaxBatchSize == 0 {
		s.MaxBatchSize = DefaultMaxBatchSize
	}
	if s.DefaultSearchLimit == 0 {
		s.DefaultSearchLimit = DefaultSearchLimit
	}
	if s.MaxSearchLimit == 0 {
		s.MaxSearchLimit = DefaultMaxSearchLimit
	}
	if s.MaxEventsToKeep == 0 {
		s.MaxEventsToKeep = DefaultMaxEventsToKeep
	}
	if s.JobWorkers == 0 {
		s.JobWorkers = DefaultJobWorkers
	}
	if s.MaxRequestBodySize == 0 {
		s.MaxRequestBodySize = DefaultMaxRequestBodySize
	}

	// The default must never exceed the cap
	if s.DefaultSearchLimit > s.MaxSearchLimit {
		s.DefaultSearchLimit = s.MaxSearchLimit
	}
}

// Validate returns one message per invalid field. An empty result means the
// settings are usable.
func (s *AnalyzerSettings) Validate() []string {
	var errors []string

	positive := []struct {
		name  string
		value int64
	}{
		{"max_text_runes", int64(s.MaxTextRunes)},
		{"batch_concurrency", int64(s.BatchConcurrency)},
		{"max_batch_size", int64(s.MaxBatchSize)},
		{"default_search_limit", int64(s.DefaultSearchLimit)},
		{"max_search_limit", int64(s.MaxSearchLimit)},
		{"max_events_to_keep", int64(s.MaxEventsToKeep)},
		{"job_workers", int64(s.JobWorkers)},
		{"max_request_body_size", s.MaxRequestBodySize},
	}
	for _, p := range positive {
		if p.value < 0 {
			errors = append(errors, fmt.Sprintf("%s must not be negative (got %d)", p.name, p.value))
		}
	}

	if s.DefaultSearchLimit > s.MaxSearchLimit && s.MaxSearchLimit > 0 {
		errors = append(errors, fmt.Sprintf("default_search_limit (%d) exceeds max_search_limit (%d)", s.DefaultSearchLimit, s.MaxSearchLimit))
	}

	return errors
}

// ClampSearchLimit maps a requested limit onto the configured bounds.
func (s *AnalyzerSettings) ClampSearchLimit(requested int) int {
	if requested <= 0 {
		return s.DefaultSearchLimit
	}
	if requested > s.MaxSearchLimit {
		return s.MaxSearchLimit
	}
	return requested
}
