package database

import (
	"time"
)

// Item represents one normalized feed entry. Items are immutable once
// stored; re-ingesting the same guid never rewrites an existing row.
type Item struct {
	GUID        string
	Title       string
	Link        string
	Description string
	Content     string
	Published   *time.Time
	Source      string
	CreatedAt   time.Time
}

// Result represents one relevance scoring of one item against one query
type Result struct {
	ItemGUID       string
	Query          string
	RelevanceScore int
	RelevanceLabel string
	Explanation    string
	KeyInformation string
	Summary        string
	RawModelOutput string
	ProcessedAt    time.Time
}

// SourceRecord tracks per-source consumption bookkeeping
type SourceRecord struct {
	Name         string
	URL          string
	LastConsumed *time.Time
	ItemCount    int
	CreatedAt    time.Time
}

// RankedResult pairs an item with its relevance result for listings
type RankedResult struct {
	Item   Item
	Result Result
}

// Stats holds store-wide aggregate counts
type Stats struct {
	Items             int
	Results           int
	Sources           int
	ScoreDistribution map[string]int // keyed by relevance label
}
