package source

import (
	"errors"
	"testing"
)

const mashableStories = `{
  "new": [
    {
      "title": "The best gadgets of the week",
      "formatted_shares": "1.2k",
      "channel": "Tech",
      "content": {"plain": "A roundup."},
      "link": "http://mashable.com/gadgets",
      "author": "Jane Doe",
      "post_date": "2017-04-28T14:30:00+00:00",
      "responsive_images": [
        {"image": "http://img/small.jpg"},
        {"image": "http://img/medium.jpg"},
        {"image": "http://img/large.jpg"}
      ]
    },
    {
      "title": "No images here",
      "formatted_shares": "87",
      "channel": "Culture",
      "content": {"plain": "Words only."},
      "link": "http://mashable.com/words",
      "author": "John Roe",
      "post_date": "2017-04-28T10:00:00+00:00",
      "responsive_images": [{"image": "http://img/only.jpg"}]
    },
    {
      "title": "Bad date",
      "post_date": "last tuesday",
      "responsive_images": [{}, {}, {"image": "http://img/x.jpg"}]
    }
  ]
}`

func TestMashable_Normalize(t *testing.T) {
	b, err := Mashable{}.Normalize([]byte(mashableStories))
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if len(b.Items) != 1 {
		t.Fatalf("got %d items, want 1", len(b.Items))
	}

	want := Item{
		ThumbnailURL: "http://img/large.jpg",
		Title:        "The best gadgets of the week",
		Score:        "1.2k",
		Tag:          "Tech",
		Description:  "A roundup.",
		Link:         "http://mashable.com/gadgets",
		Author:       "Jane Doe",
		Timestamp:    1493389800,
	}
	if b.Items[0] != want {
		t.Errorf("item = %+v\nwant  %+v", b.Items[0], want)
	}
}

func TestMashable_SkipsMissingImageAndBadDate(t *testing.T) {
	b, err := Mashable{}.Normalize([]byte(mashableStories))
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if len(b.Skipped) != 2 {
		t.Fatalf("skipped = %d, want 2", len(b.Skipped))
	}

	img := b.Skipped[0]
	if img.Index != 1 || img.Path != mashableImagePath || !errors.Is(img, ErrMissingField) {
		t.Errorf("image skip = %+v", img)
	}

	date := b.Skipped[1]
	if date.Index != 2 || date.Path != "post_date" || !errors.Is(date, ErrBadTimestamp) {
		t.Errorf("date skip = %+v", date)
	}
}
