package errors

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions
var (
	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrLookup is returned when the dictionary store fails for a single word
	ErrLookup = errors.New("dictionary lookup failed")

	// ErrStoreUnavailable is returned when a store cannot serve any request
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrInvalidChoice is returned when a sense id does not belong to the homonym group
	ErrInvalidChoice = errors.New("invalid homonym choice")

	// ErrEntryNotFound is returned when a dictionary entry is not found
	ErrEntryNotFound = errors.New("dictionary entry not found")

	// ErrJobNotFound is returned when a job is not found
	ErrJobNotFound = errors.New("job not found")

	// ErrInvalidDictionaryLine is returned when a dictionary source line cannot be parsed
	ErrInvalidDictionaryLine = errors.New("invalid dictionary line")
)

// Aborts reports whether err must stop a whole analysis rather than skip one
// word: the store is unavailable or the caller gave up.
func Aborts(err error) bool {
	return errors.Is(err, ErrStoreUnavailable) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// LookupError wraps a store failure for one word.
type LookupError struct {
	Word string
	Err  error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("lookup for '%s' failed: %v", e.Word, e.Err)
}

func (e *LookupError) Is(target error) bool {
	return target == ErrLookup
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// NewLookupError creates a new LookupError
func NewLookupError(word string, err error) *LookupError {
	return &LookupError{Word: word, Err: err}
}

// InvalidChoiceError represents a caller-supplied sense that is not part of the group
type InvalidChoiceError struct {
	Keyword string
	SenseID string
}

func (e *InvalidChoiceError) Error() string {
	return fmt.Sprintf("sense '%s' does not belong to homonym group '%s'", e.SenseID, e.Keyword)
}

func (e *InvalidChoiceError) Is(target error) bool {
	return target == ErrInvalidChoice
}

// NewInvalidChoiceError creates a new InvalidChoiceError
func NewInvalidChoiceError(keyword, senseID string) *InvalidChoiceError {
	return &InvalidChoiceError{Keyword: keyword, SenseID: senseID}
}

// EntryNotFoundError represents a missing dictionary entry
type EntryNotFoundError struct {
	EntryID string
}

func (e *EntryNotFoundError) Error() string {
	return fmt.Sprintf("dictionary entry with ID '%s' not found", e.EntryID)
}

func (e *EntryNotFoundError) Is(target error) bool {
	return target == ErrEntryNotFound
}

// NewEntryNotFoundError creates a new EntryNotFoundError
func NewEntryNotFoundError(entryID string) *EntryNotFoundError {
	return &EntryNotFoundError{EntryID: entryID}
}

// JobNotFoundError represents a job not found error with context
type JobNotFoundError struct {
	JobID string
}

func (e *JobNotFoundError) Error() string {
	return fmt.Sprintf("job with ID '%s' not found", e.JobID)
}

func (e *JobNotFoundError) Is(target error) bool {
	return target == ErrJobNotFound
}

// NewJobNotFoundError creates a new JobNotFoundError
func NewJobNotFoundError(jobID string) *JobNotFoundError {
	return &JobNotFoundError{JobID: jobID}
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// DictionaryLineError reports a malformed line in a dictionary source file
type DictionaryLineError struct {
	Source string
	Line   int
	Text   string
	Reason string
}

func (e *DictionaryLineError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("%s:%d: %s (%q)", e.Source, e.Line, e.Reason, e.Text)
	}
	return fmt.Sprintf("line %d: %s (%q)", e.Line, e.Reason, e.Text)
}

func (e *DictionaryLineError) Is(target error) bool {
	return target == ErrInvalidDictionaryLine
}

// NewDictionaryLineError creates a new DictionaryLineError
func NewDictionaryLineError(source string, line int, text, reason string) *DictionaryLineError {
	return &DictionaryLineError{Source: source, Line: line, Text: text, Reason: reason}
}
