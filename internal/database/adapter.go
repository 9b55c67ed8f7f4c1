package database

import (
	"context"
)

// Store is the target of a run. Statements are executed one at a time;
// Begin/Commit/Rollback scope a batch.
type Store interface {
	Connect(ctx context.Context, url string) error
	Close() error

	// Exec runs one statement and reports the rows it touched.
	Exec(ctx context.Context, stmt string) (int64, error)

	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	// TableColumns lists the target table's columns in declaration order.
	TableColumns(ctx context.Context, table string) ([]string, error)
}
