package mysql

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
)

func quoteIdent(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// Tables lists the base tables of the current database. Views are skipped.
func (m *Dumper) Tables(ctx context.Context) ([]string, error) {
	query, args, err := m.qb.Select("TABLE_NAME").From("information_schema.TABLES").
		Where("TABLE_SCHEMA = DATABASE()").
		Where(squirrel.Eq{"TABLE_TYPE": "BASE TABLE"}).
		OrderBy("TABLE_NAME").ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := m.db.QueryContext(ctx, query, args...)
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

// CreateTable returns the server's own CREATE TABLE for table.
func (m *Dumper) CreateTable(ctx context.Context, table string) (string, error) {
	var name, ddl string
	err := m.db.QueryRowContext(ctx, "SHOW CREATE TABLE "+quoteIdent(table)).Scan(&name, &ddl)
	if err != nil {
		return "", fmt.Errorf("failed to read definition of %s: %w", table, err)
	}
	return ddl, nil
}
