package sheet

import (
	"context"
	"sync"

	"github.com/kalorikoll/backend/internal/domain"
)

// MemoryStore is a RowStore held in process memory
type MemoryStore struct {
	tables map[domain.Table][][]string
	mutex  sync.RWMutex
}

// NewMemoryStore creates an empty in-memory row store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tables: make(map[domain.Table][][]string)}
}

// AppendRow adds a copy of row at the end of table
func (m *MemoryStore) AppendRow(ctx context.Context, table domain.Table, row []string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.tables[table] = append(m.tables[table], append([]string(nil), row...))
	return nil
}

// ReadRows returns copies of every row of table in insertion order
func (m *MemoryStore) ReadRows(ctx context.Context, table domain.Table) ([][]string, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	rows := make([][]string, 0, len(m.tables[table]))
	for _, row := range m.tables[table] {
		rows = append(rows, append([]string(nil), row...))
	}
	return rows, nil
}
