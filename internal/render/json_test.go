package render

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"
)

func TestJSON_Structure(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSON().Render(&buf, sampleView()); err != nil {
		t.Fatalf("render: %v", err)
	}

	var out struct {
		Meta struct {
			Label   string `json:"label"`
			Query   string `json:"query"`
			Total   int    `json:"total"`
			Shown   int    `json:"shown"`
			Skipped int    `json:"skipped"`
			Failed  []struct {
				Source string `json:"source"`
				Error  string `json:"error"`
			} `json:"failed"`
		} `json:"meta"`
		Items []map[string]any `json:"items"`
	}
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, buf.String())
	}

	if out.Meta.Label != "Aggregate" || out.Meta.Total != 2 || out.Meta.Shown != 2 || out.Meta.Skipped != 2 {
		t.Errorf("meta = %+v", out.Meta)
	}
	if len(out.Meta.Failed) != 1 || out.Meta.Failed[0].Source != "Digg" {
		t.Errorf("failed = %+v", out.Meta.Failed)
	}
	if len(out.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(out.Items))
	}

	first := out.Items[0]
	for _, key := range []string{"title", "score", "tag", "description", "link", "author", "timestamp"} {
		if _, ok := first[key]; !ok {
			t.Errorf("item missing key %q", key)
		}
	}
	if first["title"] != "Summit opens" {
		t.Errorf("title = %v", first["title"])
	}
	if ts, ok := first["timestamp"].(float64); !ok || int64(ts) != fixedNow.Add(-3*time.Hour).Unix() {
		t.Errorf("timestamp = %v", first["timestamp"])
	}
}

func TestJSON_EmptyItemsIsArray(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSON().Render(&buf, View{Label: "Reddit"}); err != nil {
		t.Fatalf("render: %v", err)
	}

	var out map[string]json.RawMessage
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if string(out["items"]) != "[]" {
		t.Errorf("items = %s, want []", out["items"])
	}
}

func TestJSON_QueryOmittedWhenEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSON().Render(&buf, View{Label: "Reddit"}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if bytes.Contains(buf.Bytes(), []byte(`"query"`)) {
		t.Error("empty query should be omitted")
	}
	if bytes.Contains(buf.Bytes(), []byte(`"failed"`)) {
		t.Error("empty failure list should be omitted")
	}
}
