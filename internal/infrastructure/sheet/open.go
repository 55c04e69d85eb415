package sheet

import (
	"fmt"

	"github.com/kalorikoll/backend/internal/domain"
)

// Open builds the row store named by storeType ("sqlite" or "memory") and
// returns a function releasing it
func Open(storeType, path string) (domain.RowStore, func() error, error) {
	switch storeType {
	case "memory":
		return NewMemoryStore(), func() error { return nil }, nil
	case "sqlite":
		store, err := NewSQLiteStore(path)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store type %q", storeType)
	}
}
