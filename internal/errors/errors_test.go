package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestLookupError(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewLookupError("강아지", cause)

	expectedMsg := "lookup for '강아지' failed: connection reset"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg, err.Error())
	}

	if !errors.Is(err, ErrLookup) {
		t.Error("Expected error to match ErrLookup sentinel")
	}
	if !errors.Is(err, cause) {
		t.Error("Expected error to unwrap to its cause")
	}
	if errors.Is(err, ErrStoreUnavailable) {
		t.Error("Error should not match ErrStoreUnavailable")
	}
}

func TestLookupErrorWrapsStoreUnavailable(t *testing.T) {
	err := NewLookupError("눈", fmt.Errorf("dictionary closed: %w", ErrStoreUnavailable))

	if !errors.Is(err, ErrLookup) {
		t.Error("Expected error to match ErrLookup sentinel")
	}
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Error("Expected wrapped store failure to match ErrStoreUnavailable")
	}
}

func TestAborts(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"store unavailable", NewLookupError("눈", fmt.Errorf("closed: %w", ErrStoreUnavailable)), true},
		{"cancelled", NewLookupError("눈", context.Canceled), true},
		{"deadline", fmt.Errorf("cues: %w", context.DeadlineExceeded), true},
		{"single word failure", NewLookupError("눈", errors.New("timeout")), false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Aborts(tt.err); got != tt.want {
				t.Errorf("Aborts(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestInvalidChoiceError(t *testing.T) {
	err := NewInvalidChoiceError("눈", "sense-x")

	expectedMsg := "sense 'sense-x' does not belong to homonym group '눈'"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg, err.Error())
	}

	if !errors.Is(err, ErrInvalidChoice) {
		t.Error("Expected error to match ErrInvalidChoice sentinel")
	}
}

func TestEntryNotFoundError(t *testing.T) {
	err := NewEntryNotFoundError("abc123")

	expectedMsg := "dictionary entry with ID 'abc123' not found"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg, err.Error())
	}

	if !errors.Is(err, ErrEntryNotFound) {
		t.Error("Expected error to match ErrEntryNotFound sentinel")
	}
}

func TestJobNotFoundError(t *testing.T) {
	jobID := "job-456"
	err := NewJobNotFoundError(jobID)

	expectedMsg := "job with ID 'job-456' not found"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg, err.Error())
	}

	if !errors.Is(err, ErrJobNotFound) {
		t.Error("Expected error to match ErrJobNotFound sentinel")
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("text", "cannot be empty")

	expectedMsg := "validation error for field 'text': cannot be empty"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg, err.Error())
	}

	err2 := NewValidationError("", "cannot be empty")

	expectedMsg2 := "validation error: cannot be empty"
	if err2.Error() != expectedMsg2 {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg2, err2.Error())
	}

	if !errors.Is(err, ErrInvalidInput) || !errors.Is(err2, ErrInvalidInput) {
		t.Error("Expected validation errors to match ErrInvalidInput sentinel")
	}
}

func TestDictionaryLineError(t *testing.T) {
	err := NewDictionaryLineError("dict.txt", 12, "가게★★", "no numbers")

	expectedMsg := `dict.txt:12: no numbers ("가게★★")`
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg, err.Error())
	}

	err2 := NewDictionaryLineError("", 3, "x", "empty word")
	expectedMsg2 := `line 3: empty word ("x")`
	if err2.Error() != expectedMsg2 {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg2, err2.Error())
	}

	if !errors.Is(err, ErrInvalidDictionaryLine) {
		t.Error("Expected error to match ErrInvalidDictionaryLine sentinel")
	}
}

func TestErrorChaining(t *testing.T) {
	originalErr := NewInvalidChoiceError("배", "boat-2")
	wrappedErr := errors.Join(originalErr, errors.New("additional context"))

	if !errors.Is(wrappedErr, ErrInvalidChoice) {
		t.Error("Expected wrapped error to still match ErrInvalidChoice sentinel")
	}

	var choiceErr *InvalidChoiceError
	if !errors.As(wrappedErr, &choiceErr) {
		t.Fatal("Expected to be able to unwrap to InvalidChoiceError")
	}

	if choiceErr.Keyword != "배" {
		t.Errorf("Expected keyword '배', got '%s'", choiceErr.Keyword)
	}
}
