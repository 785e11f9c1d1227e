package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/ppiankov/feedmerge/internal/source"
)

var (
	colorAccent = lipgloss.Color("#58a6ff")
	colorMuted  = lipgloss.Color("#8b949e")
	colorWarn   = lipgloss.Color("#d29922")
	colorAlert  = lipgloss.Color("#f85149")
)

// TerminalRenderer writes a view for reading in a terminal. Each item shows
// its score, title, byline, a trimmed description and the link.
type TerminalRenderer struct {
	color bool
	now   func() time.Time
}

// NewTerminal creates a terminal renderer. Set color=true for styled output.
func NewTerminal(color bool, now func() time.Time) *TerminalRenderer {
	if now == nil {
		now = time.Now
	}
	return &TerminalRenderer{color: color, now: now}
}

type termStyles struct {
	header, score, title, muted, warn, alert lipgloss.Style
}

func (r *TerminalRenderer) styles(w io.Writer) termStyles {
	lr := lipgloss.NewRenderer(w)
	return termStyles{
		header: lr.NewStyle().Bold(true).Foreground(colorAccent),
		score:  lr.NewStyle().Bold(true),
		title:  lr.NewStyle().Bold(true),
		muted:  lr.NewStyle().Foreground(colorMuted),
		warn:   lr.NewStyle().Foreground(colorWarn),
		alert:  lr.NewStyle().Foreground(colorAlert),
	}
}

func (r *TerminalRenderer) paint(st lipgloss.Style, s string) string {
	if !r.color {
		return s
	}
	return st.Render(s)
}

// Render writes the view to w.
func (r *TerminalRenderer) Render(w io.Writer, v View) error {
	st := r.styles(w)
	now := r.now()

	fmt.Fprintln(w, r.paint(st.header, fmt.Sprintf("feedmerge: %s", v.Label)))
	fmt.Fprintln(w, r.paint(st.muted, itemsLine(v)))
	fmt.Fprintln(w)

	if len(v.Items) == 0 {
		fmt.Fprintln(w, "No items found.")
	}

	for _, it := range v.Items {
		r.writeItem(w, st, it, now)
	}

	if len(v.Failed) > 0 {
		fmt.Fprintln(w, r.paint(st.alert, fmt.Sprintf("Failed sources (%d):", len(v.Failed))))
		for _, f := range v.Failed {
			fmt.Fprintf(w, "  %s: %s\n", f.Source, r.paint(st.muted, f.Error))
		}
	}
	if v.Skipped > 0 {
		fmt.Fprintln(w, r.paint(st.warn, fmt.Sprintf("Skipped: %d malformed entries", v.Skipped)))
	}

	return nil
}

func (r *TerminalRenderer) writeItem(w io.Writer, st termStyles, it source.Item, now time.Time) {
	score := ""
	if it.Score != "" {
		score = r.paint(st.score, "["+it.Score+"]") + " "
	}
	fmt.Fprintf(w, "  %s%s\n", score, r.paint(st.title, it.Title))

	var byline []string
	if it.Tag != "" {
		byline = append(byline, it.Tag)
	}
	if it.Author != "" {
		byline = append(byline, it.Author)
	}
	byline = append(byline, humanize.RelTime(it.Time(), now, "ago", "from now"))
	fmt.Fprintf(w, "      %s\n", r.paint(st.muted, strings.Join(byline, " · ")))

	if it.Description != "" {
		desc := firstNRunes(strings.Join(strings.Fields(it.Description), " "), descriptionRunes)
		fmt.Fprintf(w, "      %s\n", desc)
	}
	if it.Link != "" {
		fmt.Fprintf(w, "      %s\n", r.paint(st.muted, it.Link))
	}
	fmt.Fprintln(w)
}
