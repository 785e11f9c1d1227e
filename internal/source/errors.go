package source

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no descriptor has the requested name.
	ErrNotFound = errors.New("source not found")

	// ErrMissingField marks an expected field path that is absent.
	ErrMissingField = errors.New("missing field")

	// ErrInvalidJSON marks a response body that is not JSON at all.
	ErrInvalidJSON = errors.New("invalid json")

	// ErrBadTimestamp marks a timestamp that is neither numeric nor a known date format.
	ErrBadTimestamp = errors.New("unparseable timestamp")
)

// ConfigurationError reports an unusable source catalog.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "source catalog: " + e.Reason
}

// MalformedError reports a response that did not match a source's mapping.
// Index is the entry position within the response, or -1 when the response
// as a whole is unusable.
type MalformedError struct {
	Source string
	Index  int
	Path   string
	Err    error
}

func (e *MalformedError) Error() string {
	where := "response"
	if e.Index >= 0 {
		where = fmt.Sprintf("entry %d", e.Index)
	}
	if e.Path == "" {
		return fmt.Sprintf("%s: malformed %s: %v", e.Source, where, e.Err)
	}
	return fmt.Sprintf("%s: malformed %s at %q: %v", e.Source, where, e.Path, e.Err)
}

func (e *MalformedError) Unwrap() error {
	return e.Err
}
