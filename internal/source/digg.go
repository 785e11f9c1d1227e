package source

const (
	DiggName     = "Digg"
	diggEndpoint = "http://digg.com/api/news/popular.json"

	diggImagePath = "content.media.images.3.url"
)

// Digg maps the popular news feed (data.feed).
type Digg struct{}

func (Digg) Normalize(raw []byte) (Batch, error) {
	return mapEntries(raw, "data.feed", func(e entry) (Item, error) {
		thumb, err := e.require(diggImagePath)
		if err != nil {
			return Item{}, err
		}
		title, err := e.require("content.title")
		if err != nil {
			return Item{}, err
		}
		ts, err := e.timestamp("date")
		if err != nil {
			return Item{}, err
		}
		return Item{
			ThumbnailURL: thumb,
			Title:        title,
			Score:        e.str("digg_score"),
			Tag:          e.str("content.kicker"),
			Description:  e.str("content.description"),
			Link:         e.str("content.url"),
			Author:       e.str("content.author"),
			Timestamp:    ts,
		}, nil
	})
}
