package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"pricepipe/internal/model"
)

// Store is the append-only relational sink backed by a sqlite file. Rows are
// never updated or deleted; insertion order is the only identity.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the sqlite database at path and ensures the prices
// table exists.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("storage: database path is required")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage: open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS prices (
		timestamp TEXT NOT NULL,
		price REAL NOT NULL
	);`)
	if err != nil {
		return fmt.Errorf("storage: create prices table: %w", err)
	}
	return nil
}

// AppendPrice inserts one row into the prices table.
func (s *Store) AppendPrice(ctx context.Context, row model.Row) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO prices (timestamp, price) VALUES (?, ?)`,
		row.Timestamp, row.Price,
	)
	if err != nil {
		return fmt.Errorf("storage: append price: %w", err)
	}
	return nil
}

// CountPrices returns the number of stored rows.
func (s *Store) CountPrices(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM prices`).Scan(&count); err != nil {
		return 0, fmt.Errorf("storage: count prices: %w", err)
	}
	return count, nil
}

// ListRecent returns the most recently inserted rows, newest first.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]model.Row, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT timestamp, price FROM prices ORDER BY rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("storage: list recent prices: %w", err)
	}
	defer rows.Close()

	return scanRows(rows, limit)
}

// ListBetween returns rows within [from, to) in insertion order. Timestamps
// in the fixed layout compare lexicographically, so string bounds suffice.
func (s *Store) ListBetween(ctx context.Context, from, to string) ([]model.Row, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT timestamp, price FROM prices WHERE timestamp >= ? AND timestamp < ? ORDER BY rowid`,
		from, to)
	if err != nil {
		return nil, fmt.Errorf("storage: list prices between: %w", err)
	}
	defer rows.Close()

	return scanRows(rows, 0)
}

func scanRows(rows *sql.Rows, capHint int) ([]model.Row, error) {
	out := make([]model.Row, 0, capHint)
	for rows.Next() {
		var row model.Row
		if err := rows.Scan(&row.Timestamp, &row.Price); err != nil {
			return nil, fmt.Errorf("storage: scan price row: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
