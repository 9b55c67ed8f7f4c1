// Package sqlfile is a store that writes translated statements out as a
// SQLite script instead of executing them.
package sqlfile

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Rana718/liteport/internal/translate"
)

// Stdout is the path that sends the script to standard output.
const Stdout = "-"

type Writer struct {
	w       *bufio.Writer
	closer  io.Closer
	inTx    bool
	columns map[string][]string
	err     error
}

func New() *Writer {
	return &Writer{columns: make(map[string][]string)}
}

// NewWriter writes to out. Close flushes but does not close out.
func NewWriter(out io.Writer) *Writer {
	w := New()
	w.w = bufio.NewWriter(out)
	return w
}

// Connect opens path for writing. An empty path or "-" means stdout.
func (s *Writer) Connect(ctx context.Context, path string) error {
	path = strings.TrimPrefix(path, "file://")
	if path == "" || path == Stdout {
		s.w = bufio.NewWriter(os.Stdout)
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	s.w = bufio.NewWriter(f)
	s.closer = f
	return nil
}

func (s *Writer) write(parts ...string) error {
	if s.err != nil {
		return s.err
	}
	if s.w == nil {
		return errors.New("writer is not connected")
	}
	for _, p := range parts {
		if _, err := s.w.WriteString(p); err != nil {
			s.err = fmt.Errorf("failed to write statement: %w", err)
			return s.err
		}
	}
	return nil
}

// Exec writes stmt. The rows figure is the number of value tuples.
func (s *Writer) Exec(ctx context.Context, stmt string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	stmt = strings.TrimSpace(stmt)
	if err := s.write(stmt, ";\n"); err != nil {
		return 0, err
	}
	if table, err := translate.ParseTable(stmt); err == nil {
		names := make([]string, len(table.Columns))
		for i, c := range table.Columns {
			names[i] = c.Name
		}
		s.columns[strings.ToLower(table.Name)] = names
		return 0, nil
	}
	return int64(len(translate.ValueTuples(stmt))), nil
}

func (s *Writer) Begin(ctx context.Context) error {
	if s.inTx {
		return errors.New("transaction already open")
	}
	s.inTx = true
	return s.write("BEGIN TRANSACTION;\n")
}

func (s *Writer) Commit() error {
	if !s.inTx {
		return errors.New("no transaction to commit")
	}
	s.inTx = false
	if err := s.write("COMMIT;\n"); err != nil {
		return err
	}
	return s.w.Flush()
}

func (s *Writer) Rollback() error {
	if !s.inTx {
		return nil
	}
	s.inTx = false
	return s.write("ROLLBACK;\n")
}

// TableColumns answers from the CREATE TABLE statements written so far.
func (s *Writer) TableColumns(ctx context.Context, table string) ([]string, error) {
	return s.columns[strings.ToLower(table)], nil
}

func (s *Writer) Close() error {
	var err error
	if s.w != nil {
		err = s.w.Flush()
	}
	if s.closer != nil {
		if cerr := s.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
