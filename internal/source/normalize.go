package source

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Normalize runs the descriptor's mapping over raw and enforces the
// canonical item invariants. Entries that fail a mapping are dropped and
// reported in Batch.Skipped; a response that cannot be read at all is
// returned as a *MalformedError.
func Normalize(d Descriptor, raw []byte) (Batch, error) {
	if d.Normalizer == nil {
		return Batch{}, &ConfigurationError{Reason: fmt.Sprintf("%s: normalizer is required", d.Name)}
	}

	b, err := d.Normalizer.Normalize(raw)
	if err != nil {
		var me *MalformedError
		if errors.As(err, &me) {
			if me.Source == "" {
				me.Source = d.Name
			}
			return Batch{}, me
		}
		return Batch{}, &MalformedError{Source: d.Name, Index: -1, Err: err}
	}

	out := Batch{
		Items:   make([]Item, 0, len(b.Items)),
		Skipped: make([]*MalformedError, 0, len(b.Skipped)),
	}
	for _, me := range b.Skipped {
		if me.Source == "" {
			me.Source = d.Name
		}
		out.Skipped = append(out.Skipped, me)
	}
	for i, item := range b.Items {
		if strings.TrimSpace(item.Title) == "" {
			out.Skipped = append(out.Skipped, &MalformedError{Source: d.Name, Index: i, Path: "title", Err: ErrMissingField})
			continue
		}
		out.Items = append(out.Items, item)
	}
	return out, nil
}

// entry is one element of a JSON response list.
type entry struct {
	gjson.Result
}

// mapEntries walks the array at listPath and maps each element with fn.
// Elements for which fn fails are recorded as skipped with their index.
func mapEntries(raw []byte, listPath string, fn func(e entry) (Item, error)) (Batch, error) {
	if !gjson.ValidBytes(raw) {
		return Batch{}, &MalformedError{Index: -1, Err: ErrInvalidJSON}
	}

	list := gjson.GetBytes(raw, listPath)
	if !list.IsArray() {
		return Batch{}, &MalformedError{Index: -1, Path: listPath, Err: ErrMissingField}
	}

	elems := list.Array()
	b := Batch{Items: make([]Item, 0, len(elems))}
	for i, elem := range elems {
		item, err := fn(entry{elem})
		if err != nil {
			me := &MalformedError{Index: i, Err: err}
			var fe *fieldError
			if errors.As(err, &fe) {
				me.Path = fe.path
				me.Err = fe.err
			}
			b.Skipped = append(b.Skipped, me)
			continue
		}
		b.Items = append(b.Items, item)
	}
	return b, nil
}

type fieldError struct {
	path string
	err  error
}

func (e *fieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.path, e.err)
}

func (e *fieldError) Unwrap() error {
	return e.err
}

// str returns the value at path as a string, or "" when absent.
func (e entry) str(path string) string {
	return e.Get(path).String()
}

// require returns the non-empty string at path.
func (e entry) require(path string) (string, error) {
	r := e.Get(path)
	if !r.Exists() || r.Type == gjson.Null || r.String() == "" {
		return "", &fieldError{path: path, err: ErrMissingField}
	}
	return r.String(), nil
}

// timestamp reads path as epoch seconds. Numbers pass through; strings are
// parsed as dates.
func (e entry) timestamp(path string) (int64, error) {
	r := e.Get(path)
	switch r.Type {
	case gjson.Number:
		return r.Int(), nil
	case gjson.String:
		ts, err := ParseTimestamp(r.Str)
		if err != nil {
			return 0, &fieldError{path: path, err: err}
		}
		return ts, nil
	case gjson.Null:
		return 0, &fieldError{path: path, err: ErrMissingField}
	default:
		return 0, &fieldError{path: path, err: ErrBadTimestamp}
	}
}
