package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"rssradar/app/cfg"
	"rssradar/app/database"
)

func NewHandler(items database.ItemRepository, results database.ResultRepository,
	sources database.SourceRepository) *Handler {
	return &Handler{
		items:   items,
		results: results,
		sources: sources,
	}
}

// GetResults returns ranked (item, result) pairs for a query. The
// query and minimum score default to the configured values.
func (h *Handler) GetResults(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		query = cfg.Get().Query
	}

	minScore := cfg.Get().MinScore
	if raw := c.Query("min_score"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "min_score must be an integer"})
			return
		}
		minScore = parsed
	}

	ranked, err := h.results.QueryResults(query, minScore)
	if err != nil {
		slog.Error("Database error", "operation", "query_results", "query", query, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to query results"})
		return
	}

	responses := make([]resultResponse, 0, len(ranked))
	for _, rr := range ranked {
		responses = append(responses, resultResponse{
			GUID:           rr.Item.GUID,
			Title:          rr.Item.Title,
			Link:           rr.Item.Link,
			Description:    rr.Item.Description,
			Source:         rr.Item.Source,
			Published:      rr.Item.Published,
			Query:          rr.Result.Query,
			RelevanceScore: rr.Result.RelevanceScore,
			RelevanceLabel: rr.Result.RelevanceLabel,
			Explanation:    rr.Result.Explanation,
			KeyInformation: rr.Result.KeyInformation,
			Summary:        rr.Result.Summary,
			ProcessedAt:    rr.Result.ProcessedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"query":     query,
		"min_score": minScore,
		"count":     len(responses),
		"results":   responses,
	})
}

// GetStats returns store-wide aggregate counts
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.items.Stats()
	if err != nil {
		slog.Error("Database error", "operation", "stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get statistics"})
		return
	}

	records, err := h.sources.ListSources()
	if err != nil {
		slog.Error("Database error", "operation", "list_sources", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list sources"})
		return
	}

	response := statsResponse{
		Items:             stats.Items,
		Results:           stats.Results,
		Sources:           stats.Sources,
		ScoreDistribution: stats.ScoreDistribution,
		SourceRecords:     make([]sourceResponse, 0, len(records)),
	}

	for _, record := range records {
		response.SourceRecords = append(response.SourceRecords, sourceResponse{
			Name:         record.Name,
			URL:          record.URL,
			LastConsumed: record.LastConsumed,
			ItemCount:    record.ItemCount,
		})
	}

	c.JSON(http.StatusOK, response)
}

// HealthCheck reports service liveness
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": cfg.Get().Version,
	})
}
