package database

import (
	"database/sql"
	"fmt"
	"time"
)

// SQLResultRepository handles database operations for relevance results
type SQLResultRepository struct {
	db *DB
}

var _ ResultRepository = (*SQLResultRepository)(nil)

func NewResultRepository(db *DB) *SQLResultRepository {
	return &SQLResultRepository{db: db}
}

// UpsertResult stores a relevance result, replacing any previous
// scoring of the same item for the same query.
func (r *SQLResultRepository) UpsertResult(result Result) error {
	processedAt := result.ProcessedAt
	if processedAt.IsZero() {
		processedAt = time.Now().UTC()
	}

	_, err := r.db.Exec(`
		INSERT INTO results (
			item_guid, query, relevance_score, relevance_label,
			explanation, key_information, summary, raw_model_output, processed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (item_guid, query) DO UPDATE SET
			relevance_score = excluded.relevance_score,
			relevance_label = excluded.relevance_label,
			explanation = excluded.explanation,
			key_information = excluded.key_information,
			summary = excluded.summary,
			raw_model_output = excluded.raw_model_output,
			processed_at = excluded.processed_at
	`, result.ItemGUID, result.Query, result.RelevanceScore, result.RelevanceLabel,
		result.Explanation, result.KeyInformation, result.Summary,
		result.RawModelOutput, processedAt.Unix())

	if err != nil {
		return fmt.Errorf("failed to upsert result: %w", err)
	}

	return nil
}

// QueryResults returns scored items for a query at or above the
// minimum score. Ordering is deterministic: score descending,
// published date descending, guid ascending.
func (r *SQLResultRepository) QueryResults(query string, minScore int) ([]RankedResult, error) {
	rows, err := r.db.Query(`
		SELECT i.guid, i.title, i.link, i.description, i.content,
		       i.published, i.source, i.created_at,
		       r.query, r.relevance_score, r.relevance_label,
		       r.explanation, r.key_information, r.summary,
		       r.raw_model_output, r.processed_at
		FROM results r
		JOIN items i ON i.guid = r.item_guid
		WHERE r.query = ? AND r.relevance_score >= ?
		ORDER BY r.relevance_score DESC,
		         COALESCE(i.published, i.created_at) DESC,
		         i.guid ASC
	`, query, minScore)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	var ranked []RankedResult
	for rows.Next() {
		var rr RankedResult
		var published sql.NullInt64
		var createdAt, processedAt int64

		err := rows.Scan(
			&rr.Item.GUID, &rr.Item.Title, &rr.Item.Link, &rr.Item.Description,
			&rr.Item.Content, &published, &rr.Item.Source, &createdAt,
			&rr.Result.Query, &rr.Result.RelevanceScore, &rr.Result.RelevanceLabel,
			&rr.Result.Explanation, &rr.Result.KeyInformation, &rr.Result.Summary,
			&rr.Result.RawModelOutput, &processedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan result row: %w", err)
		}

		rr.Item.Published = timeOrNil(published)
		rr.Item.CreatedAt = time.Unix(createdAt, 0).UTC()
		rr.Result.ItemGUID = rr.Item.GUID
		rr.Result.ProcessedAt = time.Unix(processedAt, 0).UTC()

		ranked = append(ranked, rr)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating result rows: %w", err)
	}

	return ranked, nil
}
