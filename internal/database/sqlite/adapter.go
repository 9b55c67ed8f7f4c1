package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"
)

// DefaultPragmas favour load speed over durability.
var DefaultPragmas = map[string]string{
	"foreign_keys": "OFF",
	"journal_mode": "MEMORY",
	"synchronous":  "OFF",
	"cache_size":   "10000",
}

var (
	pragmaName  = regexp.MustCompile(`^[a-z_]+$`)
	pragmaValue = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
)

type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Adapter struct {
	db      *sql.DB
	tx      *sql.Tx
	qb      squirrel.StatementBuilderType
	path    string
	pragmas map[string]string
}

func New() *Adapter {
	return &Adapter{
		qb:      squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
		pragmas: DefaultPragmas,
	}
}

// NewWithDB wraps an already opened handle. Pragmas are not applied.
func NewWithDB(db *sql.DB) *Adapter {
	a := New()
	a.db = db
	return a
}

// SetPragmas replaces the pragmas applied by Connect.
func (s *Adapter) SetPragmas(pragmas map[string]string) {
	s.pragmas = pragmas
}

func (s *Adapter) Connect(ctx context.Context, url string) error {
	s.path = strings.TrimPrefix(url, "sqlite://")
	if s.path == "" {
		return errors.New("sqlite target path is empty")
	}

	db, err := sql.Open("sqlite3", s.path)
	if err != nil {
		return fmt.Errorf("failed to open SQLite connection: %w", err)
	}

	// pragmas and the open transaction live on one connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to open SQLite database %s: %w", s.path, err)
	}
	s.db = db

	if err := s.ApplyPragmas(ctx, s.pragmas); err != nil {
		db.Close()
		s.db = nil
		return err
	}
	return nil
}

// ApplyPragmas sets each pragma, in name order.
func (s *Adapter) ApplyPragmas(ctx context.Context, pragmas map[string]string) error {
	names := make([]string, 0, len(pragmas))
	for name := range pragmas {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		value := pragmas[name]
		if !pragmaName.MatchString(name) || !pragmaValue.MatchString(value) {
			return fmt.Errorf("invalid pragma %s = %q", name, value)
		}
		if _, err := s.db.ExecContext(ctx, fmt.Sprintf("PRAGMA %s = %s", name, value)); err != nil {
			return fmt.Errorf("failed to set pragma %s: %w", name, err)
		}
	}
	return nil
}

func (s *Adapter) Close() error {
	if s.tx != nil {
		s.tx.Rollback()
		s.tx = nil
	}
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Adapter) conn() queryer {
	if s.tx != nil {
		return s.tx
	}
	return s.db
}

func (s *Adapter) Exec(ctx context.Context, stmt string) (int64, error) {
	res, err := s.conn().ExecContext(ctx, stmt)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return n, nil
}

func (s *Adapter) Begin(ctx context.Context) error {
	if s.tx != nil {
		return errors.New("transaction already open")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	s.tx = tx
	return nil
}

func (s *Adapter) Commit() error {
	if s.tx == nil {
		return errors.New("no transaction to commit")
	}
	err := s.tx.Commit()
	s.tx = nil
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *Adapter) Rollback() error {
	if s.tx == nil {
		return nil
	}
	err := s.tx.Rollback()
	s.tx = nil
	if err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("failed to roll back transaction: %w", err)
	}
	return nil
}

// Path is the database file the adapter is connected to.
func (s *Adapter) Path() string {
	return s.path
}

// DB exposes the underlying handle for read-only inspection.
func (s *Adapter) DB() *sql.DB {
	return s.db
}
