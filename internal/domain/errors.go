package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrGeneration signals a failed or unusable text generation call.
	ErrGeneration = errors.New("generation failed")
	// ErrStoreUnavailable signals that the document store could not be reached.
	ErrStoreUnavailable = errors.New("document store unavailable")
	// ErrStoreTimeout signals a timed-out document store call.
	ErrStoreTimeout = errors.New("document store timeout")
	// ErrParse signals structured model output that did not match the expected shape.
	ErrParse = errors.New("unparsable model output")
	// ErrUnknownTool signals a dispatch request for an unregistered tool name.
	ErrUnknownTool = errors.New("unknown tool")
	// ErrNoStrategies signals a fusion request with an empty strategy set.
	ErrNoStrategies = errors.New("no strategies requested")
	// ErrInvalidQuery signals a query that failed validation.
	ErrInvalidQuery = errors.New("invalid query")
)

// IsStoreError reports whether err stems from the document store.
func IsStoreError(err error) bool {
	return errors.Is(err, ErrStoreUnavailable) || errors.Is(err, ErrStoreTimeout)
}

// StrategyFailureError aggregates per-strategy failures. It is returned only
// when every requested strategy failed; partial failure degrades silently.
type StrategyFailureError struct {
	Failures map[string]error
}

// NewStrategyFailure creates an aggregate error from per-strategy causes.
func NewStrategyFailure(failures map[string]error) *StrategyFailureError {
	return &StrategyFailureError{Failures: failures}
}

func (e *StrategyFailureError) Error() string {
	names := make([]string, 0, len(e.Failures))
	for name := range e.Failures {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %v", name, e.Failures[name]))
	}
	return "all strategies failed: " + strings.Join(parts, "; ")
}

// Unwrap exposes the underlying causes for errors.Is matching.
func (e *StrategyFailureError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, err := range e.Failures {
		errs = append(errs, err)
	}
	return errs
}

// Strategies returns the sorted names of the failed strategies.
func (e *StrategyFailureError) Strategies() []string {
	names := make([]string, 0, len(e.Failures))
	for name := range e.Failures {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
