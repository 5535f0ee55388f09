package database

import (
	"testing"
	"time"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := NewConnection(":memory:")
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, _, err := RunMigrations(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return db
}

func testItem(guid string, published *time.Time) Item {
	return Item{
		GUID:        guid,
		Title:       "Title for " + guid,
		Link:        "https://example.com/" + guid,
		Description: "Description",
		Content:     "Content",
		Published:   published,
		Source:      "test-source",
	}
}

func timePtr(t time.Time) *time.Time { return &t }

func TestInsertItemIfNew_Dedup(t *testing.T) {
	db := setupTestDB(t)
	repo := NewItemRepository(db)

	item := testItem("item-1", nil)

	inserted, err := repo.InsertItemIfNew(item)
	if err != nil {
		t.Fatalf("First insert failed: %v", err)
	}
	if !inserted {
		t.Error("Expected first insert to create a row")
	}

	inserted, err = repo.InsertItemIfNew(item)
	if err != nil {
		t.Fatalf("Second insert failed: %v", err)
	}
	if inserted {
		t.Error("Expected second insert with the same guid to be a no-op")
	}

	stats, err := repo.Stats()
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Items != 1 {
		t.Errorf("Expected 1 item, got %d", stats.Items)
	}
}

func TestInsertItemIfNew_FirstWriterWinsOnIdentity(t *testing.T) {
	db := setupTestDB(t)
	repo := NewItemRepository(db)

	first := testItem("item-1", nil)
	first.Title = "Original Title"
	if _, err := repo.InsertItemIfNew(first); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	second := testItem("item-1", nil)
	second.Title = "Changed Title"
	if _, err := repo.InsertItemIfNew(second); err != nil {
		t.Fatalf("Repeated insert failed: %v", err)
	}

	stored, err := repo.GetItem("item-1")
	if err != nil {
		t.Fatalf("GetItem failed: %v", err)
	}
	if stored == nil {
		t.Fatal("Expected item to exist")
	}
	if stored.Title != "Original Title" {
		t.Errorf("Expected stored item to keep original title, got %q", stored.Title)
	}
}

func TestListUnscoredItems(t *testing.T) {
	db := setupTestDB(t)
	items := NewItemRepository(db)
	results := NewResultRepository(db)

	for _, guid := range []string{"a", "b", "c"} {
		if _, err := items.InsertItemIfNew(testItem(guid, nil)); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	err := results.UpsertResult(Result{
		ItemGUID:       "b",
		Query:          "ai",
		RelevanceScore: 70,
		RelevanceLabel: "Yes",
	})
	if err != nil {
		t.Fatalf("UpsertResult failed: %v", err)
	}

	unscored, err := items.ListUnscoredItems("ai")
	if err != nil {
		t.Fatalf("ListUnscoredItems failed: %v", err)
	}
	if len(unscored) != 2 {
		t.Fatalf("Expected 2 unscored items, got %d", len(unscored))
	}

	// A result for a different query string does not count
	unscored, err = items.ListUnscoredItems("quantum computing")
	if err != nil {
		t.Fatalf("ListUnscoredItems failed: %v", err)
	}
	if len(unscored) != 3 {
		t.Errorf("Expected 3 unscored items for other query, got %d", len(unscored))
	}
}

func TestCleanupOlderThan(t *testing.T) {
	db := setupTestDB(t)
	items := NewItemRepository(db)
	results := NewResultRepository(db)

	old := testItem("old-item", timePtr(time.Now().UTC().AddDate(0, 0, -60)))
	recent := testItem("recent-item", timePtr(time.Now().UTC().AddDate(0, 0, -1)))

	for _, item := range []Item{old, recent} {
		if _, err := items.InsertItemIfNew(item); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	err := results.UpsertResult(Result{
		ItemGUID:       "old-item",
		Query:          "ai",
		RelevanceScore: 90,
		RelevanceLabel: "Yes",
	})
	if err != nil {
		t.Fatalf("UpsertResult failed: %v", err)
	}

	removed, err := items.CleanupOlderThan(30)
	if err != nil {
		t.Fatalf("CleanupOlderThan failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("Expected 1 item removed, got %d", removed)
	}

	stored, err := items.GetItem("old-item")
	if err != nil {
		t.Fatalf("GetItem failed: %v", err)
	}
	if stored != nil {
		t.Error("Expected old item to be removed")
	}

	stored, err = items.GetItem("recent-item")
	if err != nil {
		t.Fatalf("GetItem failed: %v", err)
	}
	if stored == nil {
		t.Error("Expected recent item to remain")
	}

	// Result rows cascade with their item
	ranked, err := results.QueryResults("ai", 0)
	if err != nil {
		t.Fatalf("QueryResults failed: %v", err)
	}
	if len(ranked) != 0 {
		t.Errorf("Expected results of removed item to cascade, got %d rows", len(ranked))
	}
}

func TestCleanupUsesCreatedAtWhenUnpublished(t *testing.T) {
	db := setupTestDB(t)
	items := NewItemRepository(db)

	old := testItem("undated-old", nil)
	old.CreatedAt = time.Now().UTC().AddDate(0, 0, -60)
	if _, err := items.InsertItemIfNew(old); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	removed, err := items.CleanupOlderThan(30)
	if err != nil {
		t.Fatalf("CleanupOlderThan failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("Expected undated old item to be removed via created_at, got %d", removed)
	}
}

func TestStats(t *testing.T) {
	db := setupTestDB(t)
	items := NewItemRepository(db)
	results := NewResultRepository(db)
	sources := NewSourceRepository(db)

	for _, guid := range []string{"a", "b"} {
		if _, err := items.InsertItemIfNew(testItem(guid, nil)); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	for guid, label := range map[string]string{"a": "Yes", "b": "No"} {
		err := results.UpsertResult(Result{ItemGUID: guid, Query: "ai", RelevanceLabel: label})
		if err != nil {
			t.Fatalf("UpsertResult failed: %v", err)
		}
	}

	if err := sources.UpsertSource("test-source", "https://example.com/rss", 2); err != nil {
		t.Fatalf("UpsertSource failed: %v", err)
	}

	stats, err := items.Stats()
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}

	if stats.Items != 2 {
		t.Errorf("Expected 2 items, got %d", stats.Items)
	}
	if stats.Results != 2 {
		t.Errorf("Expected 2 results, got %d", stats.Results)
	}
	if stats.Sources != 1 {
		t.Errorf("Expected 1 source, got %d", stats.Sources)
	}
	if stats.ScoreDistribution["Yes"] != 1 || stats.ScoreDistribution["No"] != 1 {
		t.Errorf("Unexpected score distribution: %v", stats.ScoreDistribution)
	}
}
