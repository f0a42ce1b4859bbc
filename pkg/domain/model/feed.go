package model

// FeedItem is a normalized project record, independent of the source that produced it
type FeedItem struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	URL         string   `json:"url"`
	Topics      []string `json:"topics"`
}

// FeedSourceName names which adapter served the current feed
type FeedSourceName string

const (
	FeedSourceNone      FeedSourceName = "none"
	FeedSourcePrimary   FeedSourceName = "primary"
	FeedSourceSecondary FeedSourceName = "secondary"
)

// Feed is the displayable project list together with its origin
type Feed struct {
	Source FeedSourceName `json:"source"`
	Items  []FeedItem     `json:"items"`
}

// CloneFeedItems returns a deep copy so callers cannot mutate loader-owned state
func CloneFeedItems(items []FeedItem) []FeedItem {
	if items == nil {
		return []FeedItem{}
	}

	cloned := make([]FeedItem, len(items))
	for i, item := range items {
		cloned[i] = item
		cloned[i].Topics = append([]string{}, item.Topics...)
	}
	return cloned
}
