package database

type ItemRepository interface {
	InsertItemIfNew(item Item) (bool, error)
	ListUnscoredItems(query string) ([]Item, error)
	GetItem(guid string) (*Item, error)
	CleanupOlderThan(days int) (int, error)
	Stats() (*Stats, error)
}

type ResultRepository interface {
	UpsertResult(result Result) error
	QueryResults(query string, minScore int) ([]RankedResult, error)
}

type SourceRepository interface {
	UpsertSource(name, url string, itemCountDelta int) error
	GetSource(name string) (*SourceRecord, error)
	ListSources() ([]SourceRecord, error)
}
