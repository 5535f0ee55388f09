package api

import (
	"time"

	"rssradar/app/database"
)

type Handler struct {
	items   database.ItemRepository
	results database.ResultRepository
	sources database.SourceRepository
}

type resultResponse struct {
	GUID           string     `json:"guid"`
	Title          string     `json:"title"`
	Link           string     `json:"link"`
	Description    string     `json:"description"`
	Source         string     `json:"source"`
	Published      *time.Time `json:"published,omitempty"`
	Query          string     `json:"query"`
	RelevanceScore int        `json:"relevance_score"`
	RelevanceLabel string     `json:"relevance_label"`
	Explanation    string     `json:"explanation"`
	KeyInformation string     `json:"key_information"`
	Summary        string     `json:"summary"`
	ProcessedAt    time.Time  `json:"processed_at"`
}

type sourceResponse struct {
	Name         string     `json:"name"`
	URL          string     `json:"url"`
	LastConsumed *time.Time `json:"last_consumed,omitempty"`
	ItemCount    int        `json:"item_count"`
}

type statsResponse struct {
	Items             int              `json:"items"`
	Results           int              `json:"results"`
	Sources           int              `json:"sources"`
	ScoreDistribution map[string]int   `json:"score_distribution"`
	SourceRecords     []sourceResponse `json:"source_records"`
}
