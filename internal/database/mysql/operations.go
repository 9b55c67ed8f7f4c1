package mysql

import (
	"bufio"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

var binaryTypes = map[string]bool{
	"BINARY": true, "VARBINARY": true, "BIT": true, "GEOMETRY": true,
	"TINYBLOB": true, "BLOB": true, "MEDIUMBLOB": true, "LONGBLOB": true,
}

var numericTypes = map[string]bool{
	"TINYINT": true, "SMALLINT": true, "MEDIUMINT": true, "INT": true, "BIGINT": true,
	"DECIMAL": true, "FLOAT": true, "DOUBLE": true, "YEAR": true,
}

// EscapeString renders s as a MySQL string literal with backslash escapes.
func EscapeString(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('\'')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case 0:
			b.WriteString(`\0`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case 0x1a:
			b.WriteString(`\Z`)
		case '\'':
			b.WriteString(`\'`)
		case '\\':
			b.WriteString(`\\`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('\'')
	return b.String()
}

func renderValue(v any, dbType string) string {
	dbType = strings.TrimPrefix(strings.ToUpper(dbType), "UNSIGNED ")
	switch x := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		switch {
		case binaryTypes[dbType]:
			return "X'" + hex.EncodeToString(x) + "'"
		case numericTypes[dbType]:
			return string(x)
		}
		return EscapeString(string(x))
	case string:
		if numericTypes[dbType] {
			return x
		}
		return EscapeString(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case bool:
		if x {
			return "1"
		}
		return "0"
	case time.Time:
		return EscapeString(x.Format("2006-01-02 15:04:05"))
	default:
		return EscapeString(fmt.Sprint(x))
	}
}

// Dump writes every base table as DROP, CREATE and extended INSERT
// statements.
func (m *Dumper) Dump(ctx context.Context, out io.Writer) (int, error) {
	tables, err := m.Tables(ctx)
	if err != nil {
		return 0, err
	}

	w := bufio.NewWriter(out)
	fmt.Fprintf(w, "-- liteport dump of %s\n", quoteIdent(m.database))
	fmt.Fprintf(w, "-- generated %s\n\n", time.Now().UTC().Format(time.RFC3339))
	w.WriteString("SET NAMES utf8mb4;\n\n")

	for _, table := range tables {
		ddl, err := m.CreateTable(ctx, table)
		if err != nil {
			return 0, err
		}
		fmt.Fprintf(w, "DROP TABLE IF EXISTS %s;\n%s;\n\n", quoteIdent(table), ddl)

		if err := m.dumpRows(ctx, w, table); err != nil {
			return 0, err
		}
	}
	if err := w.Flush(); err != nil {
		return 0, fmt.Errorf("failed to write dump: %w", err)
	}
	return len(tables), nil
}

func (m *Dumper) dumpRows(ctx context.Context, w *bufio.Writer, table string) error {
	query, args, err := m.qb.Select("*").From(quoteIdent(table)).ToSql()
	if err != nil {
		return err
	}
	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to read rows of %s: %w", table, err)
	}
	defer rows.Close()

	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return fmt.Errorf("failed to read column types of %s: %w", table, err)
	}
	values := make([]any, len(colTypes))
	ptrs := make([]any, len(colTypes))
	for i := range values {
		ptrs[i] = &values[i]
	}

	perInsert := m.RowsPerInsert
	if perInsert <= 0 {
		perInsert = 1
	}
	pending := 0
	terms := make([]string, len(colTypes))
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return fmt.Errorf("failed to scan row of %s: %w", table, err)
		}
		for i, v := range values {
			terms[i] = renderValue(v, colTypes[i].DatabaseTypeName())
		}

		if pending == 0 {
			fmt.Fprintf(w, "INSERT INTO %s VALUES ", quoteIdent(table))
		} else {
			w.WriteByte(',')
		}
		w.WriteString("(" + strings.Join(terms, ",") + ")")
		pending++
		if pending == perInsert {
			w.WriteString(";\n")
			pending = 0
		}
	}
	if pending > 0 {
		w.WriteString(";\n")
	}
	w.WriteString("\n")
	return rows.Err()
}
