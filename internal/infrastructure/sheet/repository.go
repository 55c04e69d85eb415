package sheet

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/kalorikoll/backend/internal/domain"
)

// table wraps a RowStore table that gets a header row before its first
// data row
type table struct {
	store  domain.RowStore
	name   domain.Table
	layout layout

	mu          sync.Mutex
	headerReady bool
}

func (t *table) append(ctx context.Context, row []string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.headerReady {
		rows, err := t.store.ReadRows(ctx, t.name)
		if err != nil {
			return storeError(err)
		}
		if len(rows) == 0 {
			if err := t.store.AppendRow(ctx, t.name, t.layout.header); err != nil {
				return storeError(err)
			}
		}
		t.headerReady = true
	}

	if err := t.store.AppendRow(ctx, t.name, row); err != nil {
		return storeError(err)
	}
	return nil
}

func (t *table) read(ctx context.Context) (columns, [][]string, error) {
	rows, err := t.store.ReadRows(ctx, t.name)
	if err != nil {
		return nil, nil, storeError(err)
	}
	cols, data := t.layout.resolve(rows)
	return cols, data, nil
}

func storeError(err error) error {
	if errors.Is(err, domain.ErrStoreUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
}

// CatalogRepository stores NutrientRecords in the catalog table
type CatalogRepository struct {
	table *table
}

// NewCatalogRepository creates a catalog repository over store
func NewCatalogRepository(store domain.RowStore) *CatalogRepository {
	return &CatalogRepository{table: &table{store: store, name: domain.TableCatalog, layout: catalogLayout}}
}

// Append writes record as a new catalog row
func (r *CatalogRepository) Append(ctx context.Context, record domain.NutrientRecord) error {
	return r.table.append(ctx, catalogLayout.encode(map[field]string{
		fieldName:    record.Name,
		fieldKcal:    formatNumber(record.Kcal),
		fieldProtein: formatNumber(record.Protein),
		fieldCarbs:   formatNumber(record.Carbs),
		fieldFat:     formatNumber(record.Fat),
		fieldPrice:   formatNumber(record.Price),
		fieldBarcode: record.Barcode,
	}))
}

// All returns every catalog record in insertion order. Rows without a name
// are skipped; malformed numbers read as 0.
func (r *CatalogRepository) All(ctx context.Context) ([]domain.NutrientRecord, error) {
	cols, rows, err := r.table.read(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]domain.NutrientRecord, 0, len(rows))
	for i, row := range rows {
		name := cols.cell(row, fieldName)
		if name == "" {
			if !isBlank(row) {
				log.Printf("[STORE] catalog row %d has no name, skipping", i+1)
			}
			continue
		}
		records = append(records, domain.NutrientRecord{
			Barcode: cols.cell(row, fieldBarcode),
			Name:    name,
			Kcal:    number(cols, row, fieldKcal),
			Protein: number(cols, row, fieldProtein),
			Carbs:   number(cols, row, fieldCarbs),
			Fat:     number(cols, row, fieldFat),
			Price:   number(cols, row, fieldPrice),
		})
	}
	return records, nil
}

// DiaryRepository stores DiaryEntries in the diary table
type DiaryRepository struct {
	table *table
}

// NewDiaryRepository creates a diary repository over store
func NewDiaryRepository(store domain.RowStore) *DiaryRepository {
	return &DiaryRepository{table: &table{store: store, name: domain.TableDiary, layout: diaryLayout}}
}

// Append writes entry as a new diary row
func (r *DiaryRepository) Append(ctx context.Context, entry domain.DiaryEntry) error {
	return r.table.append(ctx, diaryLayout.encode(map[field]string{
		fieldDate:     entry.Date,
		fieldMeal:     string(entry.Meal),
		fieldName:     entry.Item,
		fieldQuantity: formatNumber(entry.QuantityG),
		fieldKcal:     formatNumber(entry.Kcal),
		fieldProtein:  formatNumber(entry.Protein),
		fieldCarbs:    formatNumber(entry.Carbs),
		fieldFat:      formatNumber(entry.Fat),
		fieldCost:     formatNumber(entry.Cost),
		fieldID:       entry.ID,
	}))
}

// All returns every diary entry in insertion order. Blank rows are skipped;
// an unknown meal name is kept as written.
func (r *DiaryRepository) All(ctx context.Context) ([]domain.DiaryEntry, error) {
	cols, rows, err := r.table.read(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]domain.DiaryEntry, 0, len(rows))
	for _, row := range rows {
		if isBlank(row) {
			continue
		}

		rawMeal := cols.cell(row, fieldMeal)
		meal, err := domain.ParseMealSlot(rawMeal)
		if err != nil {
			meal = domain.MealSlot(rawMeal)
		}

		entries = append(entries, domain.DiaryEntry{
			ID:        cols.cell(row, fieldID),
			Date:      cols.cell(row, fieldDate),
			Meal:      meal,
			Item:      cols.cell(row, fieldName),
			QuantityG: number(cols, row, fieldQuantity),
			Kcal:      number(cols, row, fieldKcal),
			Protein:   number(cols, row, fieldProtein),
			Carbs:     number(cols, row, fieldCarbs),
			Fat:       number(cols, row, fieldFat),
			Cost:      number(cols, row, fieldCost),
		})
	}
	return entries, nil
}

func number(cols columns, row []string, f field) float64 {
	return domain.NonNegative(domain.ParseNumber(cols.cell(row, f)))
}
