package database

import (
	"database/sql"
	"fmt"
	"time"
)

// SQLItemRepository handles database operations for feed items
type SQLItemRepository struct {
	db *DB
}

var _ ItemRepository = (*SQLItemRepository)(nil)

func NewItemRepository(db *DB) *SQLItemRepository {
	return &SQLItemRepository{db: db}
}

// InsertItemIfNew stores an item unless a row with the same guid
// already exists. Returns whether a new row was created. The guid
// uniqueness is enforced by the primary key, so concurrent inserts of
// the same item resolve to exactly one row.
func (r *SQLItemRepository) InsertItemIfNew(item Item) (bool, error) {
	createdAt := item.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	res, err := r.db.Exec(`
		INSERT INTO items (guid, title, link, description, content, published, source, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (guid) DO NOTHING
	`, item.GUID, item.Title, item.Link, item.Description, item.Content,
		unixOrNil(item.Published), item.Source, createdAt.Unix())
	if err != nil {
		return false, fmt.Errorf("failed to insert item: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read insert result: %w", err)
	}

	return affected > 0, nil
}

// ListUnscoredItems returns items that have no relevance result for
// the given query, oldest first.
func (r *SQLItemRepository) ListUnscoredItems(query string) ([]Item, error) {
	rows, err := r.db.Query(`
		SELECT guid, title, link, description, content, published, source, created_at
		FROM items i
		WHERE NOT EXISTS (
			SELECT 1 FROM results r WHERE r.item_guid = i.guid AND r.query = ?
		)
		ORDER BY created_at ASC, guid ASC
	`, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list unscored items: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// GetItem returns a single item by guid, or nil when absent
func (r *SQLItemRepository) GetItem(guid string) (*Item, error) {
	row := r.db.QueryRow(`
		SELECT guid, title, link, description, content, published, source, created_at
		FROM items WHERE guid = ?
	`, guid)

	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return item, nil
}

// CleanupOlderThan removes items whose published date (created date
// when the feed carried none) is older than the cutoff. Result rows
// cascade through the foreign key.
func (r *SQLItemRepository) CleanupOlderThan(days int) (int, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -days).Unix()

	res, err := r.db.Exec(`
		DELETE FROM items
		WHERE COALESCE(published, created_at) < ?
	`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up old items: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read cleanup result: %w", err)
	}

	return int(affected), nil
}

// Stats returns store-wide aggregate counts
func (r *SQLItemRepository) Stats() (*Stats, error) {
	stats := &Stats{ScoreDistribution: make(map[string]int)}

	err := r.db.QueryRow(`
		SELECT
			(SELECT COUNT(*) FROM items),
			(SELECT COUNT(*) FROM results),
			(SELECT COUNT(*) FROM sources)
	`).Scan(&stats.Items, &stats.Results, &stats.Sources)
	if err != nil {
		return nil, fmt.Errorf("failed to get counts: %w", err)
	}

	rows, err := r.db.Query(`
		SELECT relevance_label, COUNT(*)
		FROM results
		GROUP BY relevance_label
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get score distribution: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var label string
		var count int
		if err := rows.Scan(&label, &count); err != nil {
			return nil, fmt.Errorf("failed to scan distribution row: %w", err)
		}
		stats.ScoreDistribution[label] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating distribution rows: %w", err)
	}

	return stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*Item, error) {
	var item Item
	var published sql.NullInt64
	var createdAt int64

	err := row.Scan(&item.GUID, &item.Title, &item.Link, &item.Description,
		&item.Content, &published, &item.Source, &createdAt)
	if err != nil {
		return nil, err
	}

	item.Published = timeOrNil(published)
	item.CreatedAt = time.Unix(createdAt, 0).UTC()

	return &item, nil
}

func scanItems(rows *sql.Rows) ([]Item, error) {
	var items []Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item row: %w", err)
		}
		items = append(items, *item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating item rows: %w", err)
	}

	return items, nil
}

func unixOrNil(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Unix()
}

func timeOrNil(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := time.Unix(v.Int64, 0).UTC()
	return &t
}
