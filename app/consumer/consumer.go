package consumer

import (
	"context"
	"log/slog"
	"time"

	"rssradar/app/database"
	"rssradar/app/source"
)

// RelevanceScorer scores one stored item against one query
type RelevanceScorer interface {
	Score(ctx context.Context, item database.Item, query string) (database.Result, error)
}

// CycleReport summarizes one fetch-score-persist pass over all
// configured sources. Source-level and item-level failures are
// reported separately.
type CycleReport struct {
	StartedAt        time.Time
	Duration         time.Duration
	SourcesSucceeded int
	SourcesFailed    int
	ItemsNew         int
	ItemsScored      int
	ScoreFailures    int
	SourceErrors     map[string]string
}

// Consumer drives consumption cycles: enumerate sources, fetch,
// dedup-insert, score new items, persist results. A failing source or
// item never aborts the cycle; only a store failure does.
type Consumer struct {
	sources    []source.Source
	scorer     RelevanceScorer
	items      database.ItemRepository
	results    database.ResultRepository
	sourceRepo database.SourceRepository
	query      string
}

func NewConsumer(sources []source.Source, scorer RelevanceScorer,
	items database.ItemRepository, results database.ResultRepository,
	sourceRepo database.SourceRepository, query string) *Consumer {
	return &Consumer{
		sources:    sources,
		scorer:     scorer,
		items:      items,
		results:    results,
		sourceRepo: sourceRepo,
		query:      query,
	}
}

// RunCycle performs one consumption cycle. The returned report is
// valid even when an error is returned; the error is non-nil only for
// store failures or context cancellation.
func (c *Consumer) RunCycle(ctx context.Context) (*CycleReport, error) {
	report := &CycleReport{
		StartedAt:    time.Now().UTC(),
		SourceErrors: make(map[string]string),
	}

	for _, src := range c.sources {
		select {
		case <-ctx.Done():
			return report, ctx.Err()
		default:
		}

		if err := c.consumeSource(ctx, src, report); err != nil {
			return report, err
		}
	}

	if err := c.scoreUnscored(ctx, report); err != nil {
		return report, err
	}

	report.Duration = time.Since(report.StartedAt)

	slog.Info("Cycle completed",
		"duration", report.Duration,
		"sources_ok", report.SourcesSucceeded,
		"sources_failed", report.SourcesFailed,
		"items_new", report.ItemsNew,
		"items_scored", report.ItemsScored,
		"score_failures", report.ScoreFailures)

	return report, nil
}

func (c *Consumer) consumeSource(ctx context.Context, src source.Source, report *CycleReport) error {
	desc := src.Describe()

	items, err := src.Fetch(ctx)
	if err != nil {
		fetchErr := &SourceFetchError{Source: desc.Name, Err: err}
		slog.Error("Source fetch failed", "source", desc.Name, "error", err)

		report.SourcesFailed++
		report.SourceErrors[desc.Name] = fetchErr.Error()

		// Bookkeeping is upserted regardless of fetch outcome
		if err := c.sourceRepo.UpsertSource(desc.Name, desc.URL, 0); err != nil {
			return &StoreError{Op: "upsert source", Err: err}
		}
		return nil
	}

	newCount := 0
	for _, it := range items {
		inserted, err := c.items.InsertItemIfNew(toDBItem(it))
		if err != nil {
			return &StoreError{Op: "insert item", Err: err}
		}
		if inserted {
			newCount++
		}
	}

	report.SourcesSucceeded++
	report.ItemsNew += newCount

	slog.Debug("Source consumed",
		"source", desc.Name, "fetched", len(items), "new", newCount)

	if err := c.sourceRepo.UpsertSource(desc.Name, desc.URL, newCount); err != nil {
		return &StoreError{Op: "upsert source", Err: err}
	}

	return nil
}

// scoreUnscored scores every stored item without a result for the
// active query. That covers this cycle's inserts plus items whose
// scoring failed on earlier cycles.
func (c *Consumer) scoreUnscored(ctx context.Context, report *CycleReport) error {
	unscored, err := c.items.ListUnscoredItems(c.query)
	if err != nil {
		return &StoreError{Op: "list unscored items", Err: err}
	}

	for _, item := range unscored {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		result, err := c.scorer.Score(ctx, item, c.query)
		if err != nil {
			scoreErr := &ScoringError{GUID: item.GUID, Err: err}
			slog.Error("Item scoring failed",
				"guid", item.GUID, "source", item.Source, "error", scoreErr)
			report.ScoreFailures++
			continue
		}

		if err := c.results.UpsertResult(result); err != nil {
			return &StoreError{Op: "upsert result", Err: err}
		}
		report.ItemsScored++
	}

	return nil
}

func toDBItem(it source.Item) database.Item {
	return database.Item{
		GUID:        it.GUID,
		Title:       it.Title,
		Link:        it.Link,
		Description: it.Description,
		Content:     it.Content,
		Published:   it.Published,
		Source:      it.Source,
	}
}
