package database

import (
	"database/sql"
	"fmt"
	"time"
)

// SQLSourceRepository handles database operations for source bookkeeping
type SQLSourceRepository struct {
	db *DB
}

var _ SourceRepository = (*SQLSourceRepository)(nil)

func NewSourceRepository(db *DB) *SQLSourceRepository {
	return &SQLSourceRepository{db: db}
}

// UpsertSource records a consumption pass for a source: last_consumed
// is set to now and item_count grows by the given delta.
func (r *SQLSourceRepository) UpsertSource(name, url string, itemCountDelta int) error {
	now := time.Now().UTC().Unix()

	_, err := r.db.Exec(`
		INSERT INTO sources (name, url, last_consumed, item_count, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET
			url = excluded.url,
			last_consumed = excluded.last_consumed,
			item_count = sources.item_count + excluded.item_count
	`, name, url, now, itemCountDelta, now)

	if err != nil {
		return fmt.Errorf("failed to upsert source: %w", err)
	}

	return nil
}

// GetSource returns a source record by name, or nil when absent
func (r *SQLSourceRepository) GetSource(name string) (*SourceRecord, error) {
	row := r.db.QueryRow(`
		SELECT name, url, last_consumed, item_count, created_at
		FROM sources WHERE name = ?
	`, name)

	record, err := scanSource(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get source: %w", err)
	}
	return record, nil
}

// ListSources returns all source records ordered by name
func (r *SQLSourceRepository) ListSources() ([]SourceRecord, error) {
	rows, err := r.db.Query(`
		SELECT name, url, last_consumed, item_count, created_at
		FROM sources ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}
	defer rows.Close()

	var records []SourceRecord
	for rows.Next() {
		record, err := scanSource(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan source row: %w", err)
		}
		records = append(records, *record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating source rows: %w", err)
	}

	return records, nil
}

func scanSource(row rowScanner) (*SourceRecord, error) {
	var record SourceRecord
	var lastConsumed sql.NullInt64
	var createdAt int64

	err := row.Scan(&record.Name, &record.URL, &lastConsumed, &record.ItemCount, &createdAt)
	if err != nil {
		return nil, err
	}

	record.LastConsumed = timeOrNil(lastConsumed)
	record.CreatedAt = time.Unix(createdAt, 0).UTC()

	return &record, nil
}
