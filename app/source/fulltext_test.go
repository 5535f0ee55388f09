package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFulltextSource_ExtractionFailureKeepsFeedContent(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	feed := fmt.Sprintf(`<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Headlines</title>
    <item>
      <title>Breaking story</title>
      <link>%s/article/1</link>
      <description>Short teaser text</description>
      <guid>story-1</guid>
    </item>
  </channel>
</rss>`, srv.URL)

	mux.HandleFunc("/rss", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(feed))
	})
	mux.HandleFunc("/article/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	config := genericConfig("headlines", srv.URL+"/rss")
	config.Kind = KindFulltext
	src := NewFulltextSource(NewGenericSource(config, srv.Client(), "Test Agent/1.0"))

	items, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(items))
	}

	// The article page is unreachable; the feed-provided text remains
	if items[0].Content != "Short teaser text" {
		t.Errorf("Expected feed content to survive extraction failure, got %q", items[0].Content)
	}
	if src.Describe().Kind != KindFulltext {
		t.Errorf("Expected kind %q, got %q", KindFulltext, src.Describe().Kind)
	}
}
