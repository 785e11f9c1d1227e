package render

import (
	"encoding/json"
	"io"

	"github.com/ppiankov/feedmerge/internal/source"
)

type jsonView struct {
	Meta  jsonMeta      `json:"meta"`
	Items []source.Item `json:"items"`
}

type jsonMeta struct {
	Label   string        `json:"label"`
	Query   string        `json:"query,omitempty"`
	Total   int           `json:"total"`
	Shown   int           `json:"shown"`
	Skipped int           `json:"skipped"`
	Failed  []jsonFailure `json:"failed,omitempty"`
}

type jsonFailure struct {
	Source string `json:"source"`
	Error  string `json:"error"`
}

// JSONRenderer writes a view as indented JSON. Items keep the canonical
// item field names.
type JSONRenderer struct{}

// NewJSON creates a JSON renderer.
func NewJSON() *JSONRenderer {
	return &JSONRenderer{}
}

// Render writes the view as JSON to w.
func (r *JSONRenderer) Render(w io.Writer, v View) error {
	out := jsonView{
		Meta: jsonMeta{
			Label:   v.Label,
			Query:   v.Query,
			Total:   v.Total,
			Shown:   len(v.Items),
			Skipped: v.Skipped,
		},
		Items: v.Items,
	}
	if out.Items == nil {
		out.Items = []source.Item{}
	}
	for _, f := range v.Failed {
		out.Meta.Failed = append(out.Meta.Failed, jsonFailure(f))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
