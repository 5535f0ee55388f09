package source

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"
)

// GenericSource handles standard RSS/Atom feeds
type GenericSource struct {
	name       string
	url        string
	timeout    time.Duration
	httpClient *http.Client
	parser     *gofeed.Parser
	userAgent  string
}

var _ Source = (*GenericSource)(nil)

func NewGenericSource(config *Config, httpClient *http.Client, userAgent string) *GenericSource {
	timeout := time.Duration(config.Settings.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &GenericSource{
		name:       config.Name,
		url:        config.URL,
		timeout:    timeout,
		httpClient: httpClient,
		parser:     gofeed.NewParser(),
		userAgent:  userAgent,
	}
}

func (s *GenericSource) Describe() Descriptor {
	return Descriptor{Name: s.name, URL: s.url, Kind: KindGeneric}
}

func (s *GenericSource) Fetch(ctx context.Context) ([]Item, error) {
	data, err := s.fetchURL(ctx, s.url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}

	feed, err := s.parser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	items := make([]Item, 0, len(feed.Items))
	for _, entry := range feed.Items {
		if entry == nil {
			continue
		}

		item, ok := s.normalizeEntry(entry)
		if !ok {
			slog.Debug("Skipping malformed entry", "source", s.name, "title", entry.Title)
			continue
		}
		items = append(items, item)
	}

	return items, nil
}

func (s *GenericSource) normalizeEntry(entry *gofeed.Item) (Item, bool) {
	title := normalizeText(entry.Title)
	link := normalizeText(entry.Link)

	// An entry with neither a link nor a title carries nothing worth
	// scoring and has no stable identity.
	if title == "" && link == "" {
		return Item{}, false
	}

	item := Item{
		GUID:        cmp.Or(normalizeText(entry.GUID), fallbackGUID(link, title)),
		Title:       title,
		Link:        link,
		Description: stripHTML(entry.Description),
		Source:      s.name,
	}

	item.Content = stripHTML(entry.Content)
	if item.Content == "" {
		item.Content = item.Description
	}

	if entry.PublishedParsed != nil {
		published := entry.PublishedParsed.UTC()
		item.Published = &published
	} else if entry.UpdatedParsed != nil {
		updated := entry.UpdatedParsed.UTC()
		item.Published = &updated
	}

	return item, true
}

func (s *GenericSource) fetchURL(ctx context.Context, url string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}
