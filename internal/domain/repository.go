package domain

import (
	"context"
	"time"
)

// Table names a logical table of the persistence store
type Table string

const (
	TableCatalog Table = "catalog"
	TableDiary   Table = "diary"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// FoodFactsClient defines the interface for the Open Food Facts product API
type FoodFactsClient interface {
	GetProduct(ctx context.Context, barcode string) (*OFFProductResponse, error)
}

// RowStore is an append-only store of string rows grouped in tables,
// modelled on a spreadsheet. Rows come back in insertion order.
type RowStore interface {
	AppendRow(ctx context.Context, table Table, row []string) error
	ReadRows(ctx context.Context, table Table) ([][]string, error)
}

// CatalogRepository persists NutrientRecords
type CatalogRepository interface {
	Append(ctx context.Context, record NutrientRecord) error
	All(ctx context.Context) ([]NutrientRecord, error)
}

// DiaryRepository persists DiaryEntries
type DiaryRepository interface {
	Append(ctx context.Context, entry DiaryEntry) error
	All(ctx context.Context) ([]DiaryEntry, error)
}
