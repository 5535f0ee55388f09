package source

import (
	"context"
	"strings"
)

// RedditSource handles subreddit feeds, whose entries wrap the post
// body in boilerplate and whose permalinks are the only stable ids.
type RedditSource struct {
	*GenericSource
}

var _ Source = (*RedditSource)(nil)

func NewRedditSource(generic *GenericSource) *RedditSource {
	return &RedditSource{GenericSource: generic}
}

func (s *RedditSource) Describe() Descriptor {
	d := s.GenericSource.Describe()
	d.Kind = KindReddit
	return d
}

func (s *RedditSource) Fetch(ctx context.Context) ([]Item, error) {
	items, err := s.GenericSource.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	for i := range items {
		items[i].Content = trimSubmittedBy(items[i].Content)
		items[i].Description = trimSubmittedBy(items[i].Description)

		// Reddit permalinks are unique per post
		if items[i].Link != "" {
			items[i].GUID = items[i].Link
		}
	}

	return items, nil
}

// trimSubmittedBy cuts the "submitted by /u/..." trailer Reddit
// appends to every entry body.
func trimSubmittedBy(s string) string {
	if idx := strings.Index(s, "submitted by"); idx >= 0 {
		return strings.TrimSpace(s[:idx])
	}
	return s
}
