package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
)

// Column is one row of PRAGMA table_info.
type Column struct {
	Name       string
	Type       string
	NotNull    bool
	Default    sql.NullString
	PrimaryKey bool
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (s *Adapter) TableColumns(ctx context.Context, table string) ([]string, error) {
	cols, err := s.TableInfo(ctx, table)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names, nil
}

// TableInfo describes the columns of table. A missing table yields no columns.
func (s *Adapter) TableInfo(ctx context.Context, table string) ([]Column, error) {
	rows, err := s.conn().QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", quoteIdent(table)))
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", table, err)
	}
	defer rows.Close()

	var columns []Column
	for rows.Next() {
		var (
			cid     int
			col     Column
			notNull int
			pk      int
		)
		if err := rows.Scan(&cid, &col.Name, &col.Type, &notNull, &col.Default, &pk); err != nil {
			return nil, fmt.Errorf("failed to scan column of %s: %w", table, err)
		}
		col.NotNull = notNull != 0
		col.PrimaryKey = pk > 0
		columns = append(columns, col)
	}
	return columns, rows.Err()
}

// TableNames lists user tables in name order.
func (s *Adapter) TableNames(ctx context.Context) ([]string, error) {
	query, args, err := s.qb.Select("name").From("sqlite_master").
		Where(squirrel.Eq{"type": "table"}).
		Where(squirrel.NotLike{"name": "sqlite_%"}).
		OrderBy("name").ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.conn().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}
