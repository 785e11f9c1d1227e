package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ppiankov/feedmerge/internal/source"
)

// MarkdownRenderer writes a view as Markdown.
type MarkdownRenderer struct{}

// NewMarkdown creates a Markdown renderer.
func NewMarkdown() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

// Render writes the view as Markdown to w.
func (r *MarkdownRenderer) Render(w io.Writer, v View) error {
	fmt.Fprintf(w, "# feedmerge: %s\n\n", v.Label)
	fmt.Fprintf(w, "%s\n\n", itemsLine(v))

	if len(v.Items) == 0 {
		fmt.Fprintln(w, "No items found.")
		fmt.Fprintln(w)
	}

	for _, it := range v.Items {
		r.writeItem(w, it)
	}

	if len(v.Failed) > 0 {
		fmt.Fprintf(w, "## Failed sources (%d)\n\n", len(v.Failed))
		for _, f := range v.Failed {
			fmt.Fprintf(w, "- **%s**: %s\n", f.Source, f.Error)
		}
		fmt.Fprintln(w)
	}

	if v.Skipped > 0 {
		fmt.Fprintf(w, "*Skipped: %d malformed entries*\n", v.Skipped)
	}

	return nil
}

func (r *MarkdownRenderer) writeItem(w io.Writer, it source.Item) {
	if it.Link != "" {
		fmt.Fprintf(w, "## [%s](%s)\n\n", it.Title, it.Link)
	} else {
		fmt.Fprintf(w, "## %s\n\n", it.Title)
	}

	var meta []string
	if it.Tag != "" {
		meta = append(meta, "`"+it.Tag+"`")
	}
	if it.Author != "" {
		meta = append(meta, it.Author)
	}
	meta = append(meta, it.Time().Format(time.RFC3339))
	if it.Score != "" {
		meta = append(meta, "score "+it.Score)
	}
	fmt.Fprintf(w, "%s\n\n", strings.Join(meta, " · "))

	if it.ThumbnailURL != "" {
		fmt.Fprintf(w, "![](%s)\n\n", it.ThumbnailURL)
	}
	if it.Description != "" {
		fmt.Fprintf(w, "> %s\n\n", firstNRunes(strings.Join(strings.Fields(it.Description), " "), descriptionRunes))
	}
}
