package engine

import (
	"fmt"
	"strings"
)

// FetchError reports a source that could not be fetched or whose response
// was unusable as a whole.
type FetchError struct {
	Source string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// AggregateError reports an aggregate fetch that produced no result.
type AggregateError struct {
	Failures []*FetchError
}

func (e *AggregateError) Error() string {
	names := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		names = append(names, f.Source)
	}
	return fmt.Sprintf("aggregate failed: %d source(s) failed: %s", len(e.Failures), strings.Join(names, ", "))
}

// Unwrap exposes the individual failures to errors.Is and errors.As.
func (e *AggregateError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f
	}
	return errs
}
