package storage

import (
	"context"

	"pricepipe/internal/model"
)

// SQLiteSink is the per-run write adapter over the sqlite store. Each append
// opens the database, writes one row, and closes again, so a missing or
// broken database file surfaces inside the run's failure boundary rather
// than at startup.
type SQLiteSink struct {
	Path string
}

// AppendPrice appends one row to the prices table.
func (s SQLiteSink) AppendPrice(ctx context.Context, row model.Row) error {
	store, err := Open(s.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	return store.AppendPrice(ctx, row)
}
