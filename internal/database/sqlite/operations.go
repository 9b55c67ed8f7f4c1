package sqlite

import (
	"context"
	"fmt"
)

// TableSummary is one line of a post-load verification.
type TableSummary struct {
	Name    string `yaml:"name"`
	Rows    int64  `yaml:"rows"`
	Columns int    `yaml:"columns"`
}

func (s *Adapter) CountRows(ctx context.Context, table string) (int64, error) {
	query, args, err := s.qb.Select("COUNT(*)").From(quoteIdent(table)).ToSql()
	if err != nil {
		return 0, err
	}

	var count int64
	if err := s.conn().QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count rows in table %s: %w", table, err)
	}
	return count, nil
}

// Verify summarises every table: its row count and its column count.
func (s *Adapter) Verify(ctx context.Context) ([]TableSummary, error) {
	tables, err := s.TableNames(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]TableSummary, 0, len(tables))
	for _, name := range tables {
		rows, err := s.CountRows(ctx, name)
		if err != nil {
			return nil, err
		}
		cols, err := s.TableInfo(ctx, name)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, TableSummary{Name: name, Rows: rows, Columns: len(cols)})
	}
	return summaries, nil
}
