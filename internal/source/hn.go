package source

const (
	HackerNewsName = "Hacker News"
	hnEndpoint     = "https://hn.algolia.com/api/v1/search?tags=front_page"
	hnItemURL      = "https://news.ycombinator.com/item?id="
	hnTag          = "hn"
)

// HackerNews maps the Algolia search API front page. Text posts have no url,
// so the discussion page is used as the link.
type HackerNews struct{}

func (HackerNews) Normalize(raw []byte) (Batch, error) {
	return mapEntries(raw, "hits", func(e entry) (Item, error) {
		title, err := e.require("title")
		if err != nil {
			return Item{}, err
		}
		ts, err := e.timestamp("created_at_i")
		if err != nil {
			return Item{}, err
		}

		link := e.str("url")
		if link == "" {
			id, err := e.require("objectID")
			if err != nil {
				return Item{}, err
			}
			link = hnItemURL + id
		}

		return Item{
			Title:       title,
			Score:       e.str("points"),
			Tag:         hnTag,
			Description: stripHTML(e.str("story_text")),
			Link:        link,
			Author:      e.str("author"),
			Timestamp:   ts,
		}, nil
	})
}
