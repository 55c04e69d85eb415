package sheet

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"log"

	"github.com/kalorikoll/backend/internal/domain"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaFS embed.FS

// SQLiteStore keeps sheet rows in a local SQLite file, one JSON encoded row
// per record. Rows are only ever inserted.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at dbPath
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	// Single writer; avoids SQLITE_BUSY between pooled connections
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("error enabling WAL mode: %w", err)
	}

	if err := initializeSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("error initializing schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func initializeSchema(db *sql.DB) error {
	schemaBytes, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("error reading schema file: %w", err)
	}

	if _, err := db.Exec(string(schemaBytes)); err != nil {
		return fmt.Errorf("error executing schema: %w", err)
	}

	log.Println("[STORE] SQLite schema initialized")
	return nil
}

// AppendRow adds a row at the end of table
func (s *SQLiteStore) AppendRow(ctx context.Context, table domain.Table, row []string) error {
	cells, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("error encoding row: %w", err)
	}

	_, err = s.db.ExecContext(ctx, "INSERT INTO sheet_rows (sheet, cells) VALUES (?, ?)", string(table), string(cells))
	if err != nil {
		return fmt.Errorf("error appending row to %s: %w", table, err)
	}
	return nil
}

// ReadRows returns every row of table in insertion order
func (s *SQLiteStore) ReadRows(ctx context.Context, table domain.Table) ([][]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT cells FROM sheet_rows WHERE sheet = ? ORDER BY id", string(table))
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", table, err)
	}
	defer rows.Close()

	result := make([][]string, 0)
	for rows.Next() {
		var cells string
		if err := rows.Scan(&cells); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		var row []string
		if err := json.Unmarshal([]byte(cells), &row); err != nil {
			// A corrupt row is skipped rather than hiding the whole table
			log.Printf("[STORE] skipping undecodable row in %s: %v", table, err)
			continue
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s: %w", table, err)
	}
	return result, nil
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
