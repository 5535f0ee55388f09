package source

import (
	"context"
	"fmt"
	"net/http"
)

const (
	KindGeneric  = "generic"
	KindReddit   = "reddit"
	KindFulltext = "fulltext"
)

// Source fetches one configured feed and normalizes its entries.
// Implementations are stateless per call and perform read-only
// network I/O only; persistence is owned by the caller.
type Source interface {
	Fetch(ctx context.Context) ([]Item, error)
	Describe() Descriptor
}

// New builds a source for the configured feed kind. An empty kind
// falls back to generic RSS/Atom handling.
func New(config *Config, httpClient *http.Client, userAgent string) (Source, error) {
	generic := NewGenericSource(config, httpClient, userAgent)

	switch config.Kind {
	case "", KindGeneric:
		return generic, nil
	case KindReddit:
		return NewRedditSource(generic), nil
	case KindFulltext:
		return NewFulltextSource(generic), nil
	default:
		return nil, fmt.Errorf("unknown source kind %q for feed %q", config.Kind, config.Name)
	}
}
