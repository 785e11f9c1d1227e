package source

const (
	RedditName     = "Reddit"
	redditEndpoint = "https://www.reddit.com/r/worldnews/top/.json"
)

// Reddit maps a subreddit listing (/r/<name>/top/.json).
type Reddit struct{}

func (Reddit) Normalize(raw []byte) (Batch, error) {
	return mapEntries(raw, "data.children", func(e entry) (Item, error) {
		title, err := e.require("data.title")
		if err != nil {
			return Item{}, err
		}
		ts, err := e.timestamp("data.created")
		if err != nil {
			return Item{}, err
		}
		return Item{
			Title:       title,
			Score:       e.str("data.score"),
			Tag:         e.str("data.subreddit"),
			Description: e.str("data.domain"),
			Link:        e.str("data.url"),
			Author:      e.str("data.author"),
			Timestamp:   ts,
		}, nil
	})
}
