// Package render writes feed views for the terminal, JSON and Markdown.
package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ppiankov/feedmerge/internal/source"
)

const (
	FormatTerminal = "terminal"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"

	descriptionRunes = 240
)

// Failure names a source that produced nothing.
type Failure struct {
	Source string
	Error  string
}

// View is everything a renderer needs for one screen of items.
type View struct {
	Label   string        // source name or "Aggregate"
	Query   string        // active filter, empty when unfiltered
	Items   []source.Item // items to show, already filtered
	Failed  []Failure
	Skipped int // malformed entries dropped while normalizing
	Total   int // size of the unfiltered list
}

// Renderer writes a view to w.
type Renderer interface {
	Render(w io.Writer, v View) error
}

// New returns the renderer for format. now anchors relative times in the
// terminal renderer and defaults to time.Now.
func New(format string, color bool, now func() time.Time) (Renderer, error) {
	switch strings.ToLower(format) {
	case "", FormatTerminal:
		return NewTerminal(color, now), nil
	case FormatJSON:
		return NewJSON(), nil
	case FormatMarkdown:
		return NewMarkdown(), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want terminal, json or markdown)", format)
	}
}

func firstNRunes(s string, n int) string {
	if n <= 0 || s == "" {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return strings.TrimSpace(s[:i]) + "…"
		}
		count++
	}
	return s
}

func itemsLine(v View) string {
	if v.Query == "" {
		return fmt.Sprintf("%d items", len(v.Items))
	}
	return fmt.Sprintf("%d of %d items match %q", len(v.Items), v.Total, v.Query)
}
