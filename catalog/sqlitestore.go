package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS layers (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	handle   INTEGER NOT NULL,
	name     TEXT    NOT NULL,
	path     TEXT    NOT NULL DEFAULT '',
	memory   INTEGER NOT NULL DEFAULT 0,
	added_at TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_layers_handle ON layers(handle);
`

// SQLiteStore persists layer registrations to a SQLite database.
// WAL mode is enabled for concurrent read access.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite catalog store at the given DSN.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("catalog: open: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("catalog: set WAL mode: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("catalog: create schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Append stores one registration record.
func (s *SQLiteStore) Append(ctx context.Context, rec Record) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO layers (handle, name, path, memory, added_at)
		 VALUES (?, ?, ?, ?, ?)`,
		rec.Handle,
		rec.Name,
		rec.Path,
		boolToInt(rec.Memory),
		rec.AddedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("catalog: append: %w", err)
	}
	return nil
}

// List returns all records in insertion order.
func (s *SQLiteStore) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT handle, name, path, memory, added_at FROM layers ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("catalog: list: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			rec     Record
			memory  int
			addedAt string
		)
		if err := rows.Scan(&rec.Handle, &rec.Name, &rec.Path, &memory, &addedAt); err != nil {
			return nil, fmt.Errorf("catalog: scan record: %w", err)
		}
		rec.Memory = memory != 0

		t, err := time.Parse(time.RFC3339Nano, addedAt)
		if err != nil {
			return nil, fmt.Errorf("catalog: parse time %q: %w", addedAt, err)
		}
		rec.AddedAt = t

		records = append(records, rec)
	}
	return records, rows.Err()
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Compile-time interface check.
var _ Store = (*SQLiteStore)(nil)
