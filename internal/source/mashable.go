package source

const (
	MashableName     = "Mashable"
	mashableEndpoint = "http://mashable.com/stories.json"

	// mashableImagePath selects the mid-size rendition of the lead image.
	mashableImagePath = "responsive_images.2.image"
)

// Mashable maps the stories.json "new" list. post_date is a formatted date.
type Mashable struct{}

func (Mashable) Normalize(raw []byte) (Batch, error) {
	return mapEntries(raw, "new", func(e entry) (Item, error) {
		thumb, err := e.require(mashableImagePath)
		if err != nil {
			return Item{}, err
		}
		title, err := e.require("title")
		if err != nil {
			return Item{}, err
		}
		ts, err := e.timestamp("post_date")
		if err != nil {
			return Item{}, err
		}
		return Item{
			ThumbnailURL: thumb,
			Title:        title,
			Score:        e.str("formatted_shares"),
			Tag:          e.str("channel"),
			Description:  e.str("content.plain"),
			Link:         e.str("link"),
			Author:       e.str("author"),
			Timestamp:    ts,
		}, nil
	})
}
