package source

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

var (
	htmlTagRe    = regexp.MustCompile(`<[^>]*>`)
	whitespaceRe = regexp.MustCompile(`\s{3,}`)
)

// Feed maps RSS, Atom and JSON Feed documents. Entries without a publish or
// update time are dropped since they cannot be placed on the timeline.
type Feed struct{}

func (Feed) Normalize(raw []byte) (Batch, error) {
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(raw))
	if err != nil {
		return Batch{}, &MalformedError{Index: -1, Err: fmt.Errorf("parse feed: %w", err)}
	}

	b := Batch{Items: make([]Item, 0, len(feed.Items))}
	for i, fi := range feed.Items {
		postedAt := itemPublishedTime(fi)
		if postedAt.IsZero() {
			b.Skipped = append(b.Skipped, &MalformedError{Index: i, Path: "published", Err: ErrMissingField})
			continue
		}
		if strings.TrimSpace(fi.Title) == "" {
			b.Skipped = append(b.Skipped, &MalformedError{Index: i, Path: "title", Err: ErrMissingField})
			continue
		}

		b.Items = append(b.Items, Item{
			ThumbnailURL: itemImage(fi),
			Title:        strings.TrimSpace(fi.Title),
			Tag:          itemTag(feed, fi),
			Description:  stripHTML(fi.Description),
			Link:         fi.Link,
			Author:       itemAuthor(fi),
			Timestamp:    postedAt.Unix(),
		})
	}
	return b, nil
}

func itemPublishedTime(item *gofeed.Item) time.Time {
	if item.PublishedParsed != nil {
		return *item.PublishedParsed
	}
	if item.UpdatedParsed != nil {
		return *item.UpdatedParsed
	}
	return time.Time{}
}

func itemImage(item *gofeed.Item) string {
	if item.Image != nil {
		return item.Image.URL
	}
	return ""
}

func itemTag(feed *gofeed.Feed, item *gofeed.Item) string {
	if len(item.Categories) > 0 {
		return item.Categories[0]
	}
	return feed.Title
}

func itemAuthor(item *gofeed.Item) string {
	if item.Author != nil {
		return item.Author.Name
	}
	if len(item.Authors) > 0 && item.Authors[0] != nil {
		return item.Authors[0].Name
	}
	return ""
}

func stripHTML(s string) string {
	s = htmlTagRe.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	s = whitespaceRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
