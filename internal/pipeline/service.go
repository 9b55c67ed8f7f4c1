// Package pipeline wires a dump source, the engine and a target store into
// the runs the command line offers.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"maps"
	"os"

	"github.com/Rana718/liteport/internal/config"
	"github.com/Rana718/liteport/internal/database"
	"github.com/Rana718/liteport/internal/database/mysql"
	"github.com/Rana718/liteport/internal/database/sqlfile"
	"github.com/Rana718/liteport/internal/database/sqlite"
	"github.com/Rana718/liteport/internal/engine"
	"github.com/Rana718/liteport/internal/report"
	"github.com/Rana718/liteport/internal/runlog"
	"github.com/Rana718/liteport/internal/segment"
	"github.com/Rana718/liteport/internal/translate"
)

type Service struct {
	cfg *config.Config
	log *runlog.Logger

	// Overwrite removes an existing target file before loading into it.
	Overwrite bool
}

func NewService(cfg *config.Config, log *runlog.Logger) *Service {
	if log == nil {
		log = runlog.Discard()
	}
	return &Service{cfg: cfg, log: log}
}

func (s *Service) engineOptions() engine.Options {
	return engine.Options{
		BatchSize:     s.cfg.Engine.BatchSize,
		ProgressEvery: s.cfg.Engine.ProgressEvery,
		Translate:     translate.Options{CreateIfNotExists: s.cfg.Translate.CreateIfNotExists},
	}
}

// targetPath falls back to target.path when no output was given.
func (s *Service) targetPath(output string) (string, error) {
	if output == "" {
		output = s.cfg.Target.Path
	}
	if output == "" {
		return "", errors.New("no output database given and target.path is not set")
	}
	return output, nil
}

// Convert loads the dump file at input into the target at output, using
// the configured provider. An empty output means target.path.
func (s *Service) Convert(ctx context.Context, input, output string) (*report.Report, error) {
	output, err := s.targetPath(output)
	if err != nil {
		return nil, err
	}
	src, err := readDump(input)
	if err != nil {
		return nil, err
	}
	return s.load(ctx, s.cfg.Target.Provider, input, output, src)
}

// Translate writes the target-dialect script for the dump at input. An
// empty output, or "-", means stdout.
func (s *Service) Translate(ctx context.Context, input, output string) (*report.Report, error) {
	src, err := readDump(input)
	if err != nil {
		return nil, err
	}
	return s.load(ctx, "sql", input, output, src)
}

// Pull dumps the live source database and loads the dump into output.
func (s *Service) Pull(ctx context.Context, output string) (*report.Report, error) {
	output, err := s.targetPath(output)
	if err != nil {
		return nil, err
	}
	dbURL, err := s.cfg.GetSourceURL()
	if err != nil {
		return nil, err
	}

	dumper := mysql.New()
	if err := dumper.Connect(ctx, dbURL); err != nil {
		return nil, err
	}
	defer dumper.Close()

	s.log.Info("dumping source database %s", dumper.Database())
	var buf bytes.Buffer
	tables, err := dumper.Dump(ctx, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to dump source database: %w", err)
	}
	s.log.Info("dumped %d tables (%d bytes)", tables, buf.Len())

	if path := s.cfg.Source.Path; path != "" {
		if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
			return nil, fmt.Errorf("failed to save dump to %s: %w", path, err)
		}
		s.log.Info("dump saved to %s", path)
	}

	return s.load(ctx, s.cfg.Target.Provider, "mysql:"+dumper.Database(), output, buf.String())
}

// Verify summarises every table of an existing SQLite database.
func (s *Service) Verify(ctx context.Context, path string) ([]report.Table, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("database not found: %s", path)
	}

	db := sqlite.New()
	db.SetPragmas(nil)
	if err := db.Connect(ctx, path); err != nil {
		return nil, err
	}
	defer db.Close()

	rep := report.New("", path, "sqlite")
	if err := rep.Describe(ctx, db); err != nil {
		return nil, err
	}
	return rep.Tables, nil
}

func (s *Service) load(ctx context.Context, provider, input, output, src string) (*report.Report, error) {
	store, err := s.openStore(ctx, provider, output)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := store.Close(); err != nil {
			s.log.Error("failed to close %s: %v", output, err)
		}
	}()

	rep := report.New(input, output, provider)
	eng := engine.New(store, s.engineOptions(), s.log)
	eng.OnOutcome = rep.Observe

	s.log.Info("loading %s into %s (%s)", input, displayName(output), provider)
	stats, runErr := eng.Run(ctx, segment.Statements(src))
	rep.Finish(stats, runErr)

	if db, ok := store.(*sqlite.Adapter); ok && !isParseError(runErr) {
		if err := rep.Describe(ctx, db); err != nil {
			s.log.Warn("verification failed: %v", err)
		} else {
			s.log.Info("verified %d tables", len(rep.Tables))
		}
	}

	if path := s.cfg.Output.ReportFile; path != "" {
		if err := rep.WriteFile(path); err != nil {
			s.log.Error("%v", err)
		} else {
			s.log.Info("report saved to %s", path)
		}
	}
	return rep, runErr
}

func (s *Service) openStore(ctx context.Context, provider, output string) (database.Store, error) {
	store, err := database.NewStore(provider)
	if err != nil {
		return nil, err
	}

	if db, ok := store.(*sqlite.Adapter); ok {
		pragmas := maps.Clone(sqlite.DefaultPragmas)
		maps.Copy(pragmas, s.cfg.Target.Pragmas)
		db.SetPragmas(pragmas)

		if s.Overwrite && output != ":memory:" {
			if err := os.Remove(output); err != nil && !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed to remove existing database %s: %w", output, err)
			}
		}
	}

	if err := store.Connect(ctx, output); err != nil {
		return nil, fmt.Errorf("failed to open target %s: %w", displayName(output), err)
	}
	return store, nil
}

func readDump(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("SQL file not found: %s", path)
		}
		return "", fmt.Errorf("failed to read SQL file: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("SQL file is empty: %s", path)
	}
	return string(data), nil
}

func isParseError(err error) bool {
	var perr *segment.ParseBoundaryError
	return errors.As(err, &perr)
}

func displayName(output string) string {
	if output == "" || output == sqlfile.Stdout {
		return "stdout"
	}
	return output
}
