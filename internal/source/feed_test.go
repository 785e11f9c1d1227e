package source

import (
	"errors"
	"testing"
)

const rssDoc = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Example Blog</title>
    <link>https://blog.example.com</link>
    <item>
      <title>Release 2.0</title>
      <link>https://blog.example.com/2.0</link>
      <description>&lt;p&gt;Big &amp;amp; shiny&lt;/p&gt;</description>
      <category>releases</category>
      <author>ops@example.com (Ops Team)</author>
      <pubDate>Tue, 02 Jan 2024 03:04:05 +0000</pubDate>
    </item>
    <item>
      <title>Undated note</title>
      <link>https://blog.example.com/note</link>
    </item>
    <item>
      <title>Plain post</title>
      <link>https://blog.example.com/plain</link>
      <pubDate>Tue, 02 Jan 2024 00:00:00 +0000</pubDate>
    </item>
  </channel>
</rss>`

func TestFeed_NormalizeRSS(t *testing.T) {
	b, err := Feed{}.Normalize([]byte(rssDoc))
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if len(b.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(b.Items))
	}

	first := b.Items[0]
	if first.Title != "Release 2.0" || first.Tag != "releases" || first.Timestamp != 1704164645 {
		t.Errorf("first = %+v", first)
	}
	if first.Description != "Big & shiny" {
		t.Errorf("description = %q", first.Description)
	}

	// No category: the feed title is the tag.
	if b.Items[1].Tag != "Example Blog" {
		t.Errorf("tag = %q, want feed title", b.Items[1].Tag)
	}

	if len(b.Skipped) != 1 || b.Skipped[0].Index != 1 || b.Skipped[0].Path != "published" {
		t.Errorf("skipped = %+v", b.Skipped)
	}
}

func TestFeed_NormalizeJSONFeed(t *testing.T) {
	raw := `{
	  "version": "https://jsonfeed.org/version/1",
	  "title": "JSON Blog",
	  "items": [
	    {"id": "1", "title": "Hello", "url": "https://json.example.com/1",
	     "date_published": "2024-01-02T00:00:00Z",
	     "image": "https://json.example.com/1.png"}
	  ]
	}`

	b, err := Feed{}.Normalize([]byte(raw))
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if len(b.Items) != 1 {
		t.Fatalf("got %d items, want 1", len(b.Items))
	}
	it := b.Items[0]
	if it.Timestamp != 1704153600 || it.ThumbnailURL != "https://json.example.com/1.png" || it.Title != "Hello" {
		t.Errorf("item = %+v", it)
	}
}

func TestFeed_Unparseable(t *testing.T) {
	_, err := Feed{}.Normalize([]byte("definitely not a feed"))
	var me *MalformedError
	if !errors.As(err, &me) || me.Index != -1 {
		t.Fatalf("err = %v, want response-level MalformedError", err)
	}
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple tags", "<p>hello</p>", "hello"},
		{"nested tags", "<div><p>hello</p></div>", "hello"},
		{"entities", "&amp; &lt; &gt;", "& < >"},
		{"empty", "", ""},
		{"no html", "plain text", "plain text"},
		{"self-closing", "line<br/>break", "line break"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripHTML(tt.input); got != tt.want {
				t.Errorf("stripHTML(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
