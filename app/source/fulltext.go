package source

import (
	"bytes"
	"context"
	"log/slog"
	"net/url"

	readability "github.com/go-shiori/go-readability"
)

// FulltextSource handles feeds that carry little or no body text. It
// downloads each linked article and extracts the readable content,
// so the scorer sees more than a headline.
type FulltextSource struct {
	*GenericSource
}

var _ Source = (*FulltextSource)(nil)

func NewFulltextSource(generic *GenericSource) *FulltextSource {
	return &FulltextSource{GenericSource: generic}
}

func (s *FulltextSource) Describe() Descriptor {
	d := s.GenericSource.Describe()
	d.Kind = KindFulltext
	return d
}

func (s *FulltextSource) Fetch(ctx context.Context) ([]Item, error) {
	items, err := s.GenericSource.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	for i := range items {
		if items[i].Link == "" {
			continue
		}

		content, err := s.extractArticle(ctx, items[i].Link)
		if err != nil {
			// Extraction failure leaves the feed-provided content in
			// place; the item is still scorable.
			slog.Warn("Article extraction failed",
				"source", s.name, "link", items[i].Link, "error", err)
			continue
		}

		if content != "" {
			items[i].Content = content
		}
	}

	return items, nil
}

func (s *FulltextSource) extractArticle(ctx context.Context, link string) (string, error) {
	data, err := s.fetchURL(ctx, link)
	if err != nil {
		return "", err
	}

	pageURL, err := url.Parse(link)
	if err != nil {
		return "", err
	}

	article, err := readability.FromReader(bytes.NewReader(data), pageURL)
	if err != nil {
		return "", err
	}

	return normalizeText(article.TextContent), nil
}
