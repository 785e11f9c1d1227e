package source

import "time"

// Item is the canonical representation of one feed entry. Every source
// normalizes into exactly this shape.
type Item struct {
	ThumbnailURL string `json:"thumbnail_url,omitempty"` // empty when the source has no images
	Title        string `json:"title"`
	Score        string `json:"score"` // display value: upvotes, points, formatted share counts
	Tag          string `json:"tag"`   // subreddit, channel, kicker
	Description  string `json:"description"`
	Link         string `json:"link"`
	Author       string `json:"author"`
	Timestamp    int64  `json:"timestamp"` // seconds since the Unix epoch
}

// Time returns the item timestamp in UTC.
func (i Item) Time() time.Time {
	return time.Unix(i.Timestamp, 0).UTC()
}

// Batch is the outcome of normalizing a single raw response.
type Batch struct {
	Items   []Item
	Skipped []*MalformedError // entries dropped because their shape did not match
}

// Normalizer maps one source's raw response onto canonical items.
type Normalizer interface {
	Normalize(raw []byte) (Batch, error)
}

// NormalizerFunc adapts a plain function to Normalizer.
type NormalizerFunc func(raw []byte) (Batch, error)

func (f NormalizerFunc) Normalize(raw []byte) (Batch, error) {
	return f(raw)
}

// Descriptor identifies one content source and how to read it.
type Descriptor struct {
	Name          string // unique display name and lookup key
	Endpoint      string // URL to fetch
	RequiresRelay bool   // fetch through the relay address instead of directly
	IsDefault     bool
	Normalizer    Normalizer
}
