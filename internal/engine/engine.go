// Package engine loads a classified statement stream into a store: every
// table definition first, then the data in batches.
package engine

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/Rana718/liteport/internal/classify"
	"github.com/Rana718/liteport/internal/database"
	"github.com/Rana718/liteport/internal/runlog"
	"github.com/Rana718/liteport/internal/translate"
	"github.com/Rana718/liteport/internal/types"
)

const (
	DefaultBatchSize     = 50
	DefaultProgressEvery = 100
)

type Options struct {
	BatchSize     int
	ProgressEvery int
	Translate     translate.Options
}

type Stats struct {
	TablesCreated int                   `yaml:"tables_created"`
	RowsInserted  int64                 `yaml:"rows_inserted"`
	Statements    int                   `yaml:"statements"`
	Dropped       int                   `yaml:"dropped"`
	Skipped       map[types.Outcome]int `yaml:"-"`
	Errors        int                   `yaml:"errors"`
	Warnings      int                   `yaml:"warnings"`
	Repaired      int                   `yaml:"repaired"`
	Duration      time.Duration         `yaml:"duration"`
}

// TotalSkipped sums every skip outcome.
func (s Stats) TotalSkipped() int {
	n := 0
	for _, c := range s.Skipped {
		n += c
	}
	return n
}

// FatalError stops a run. Statement is the text that was being executed.
type FatalError struct {
	Index     int
	Statement string
	Err       error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("statement %d: %v", e.Index, e.Err)
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

type Engine struct {
	store database.Store
	opts  Options
	log   *runlog.Logger

	// OnOutcome, when set, sees every executed statement's outcome.
	OnOutcome func(types.ExecutionOutcome)

	stats   Stats
	widths  map[string]int
	started time.Time
}

func New(store database.Store, opts Options, log *runlog.Logger) *Engine {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.ProgressEvery <= 0 {
		opts.ProgressEvery = DefaultProgressEvery
	}
	if log == nil {
		log = runlog.Discard()
	}
	return &Engine{store: store, opts: opts, log: log}
}

// Run consumes stmts and executes them. Recoverable failures are counted
// and skipped; the returned error is a *segment.ParseBoundaryError from the
// input or a *FatalError from the store.
func (e *Engine) Run(ctx context.Context, stmts iter.Seq2[types.RawStatement, error]) (Stats, error) {
	e.stats = Stats{Skipped: make(map[types.Outcome]int)}
	e.widths = make(map[string]int)
	e.started = time.Now()

	var schema, data []types.ClassifiedStatement
	for raw, err := range stmts {
		if err != nil {
			e.log.Error("cannot split input: %v", err)
			return e.finish(), err
		}
		if raw.Empty() {
			continue
		}
		cs := classify.Classify(raw)
		switch cs.Kind {
		case types.KindSession:
			e.stats.Dropped++
			e.log.Debug("dropped statement %d: %s", cs.Index, preview(cs.Text))
		case types.KindCreateTable:
			schema = append(schema, cs)
		default:
			data = append(data, cs)
		}
	}
	total := len(schema) + len(data)
	e.log.Info("found %d table definitions and %d data statements", len(schema), len(data))

	if err := e.runSchema(ctx, schema, total); err != nil {
		return e.finish(), err
	}
	if err := e.runData(ctx, data, total); err != nil {
		return e.finish(), err
	}
	e.log.Info("processed %d/%d statements", e.stats.Statements, total)
	return e.finish(), nil
}

func (e *Engine) finish() Stats {
	e.stats.Duration = time.Since(e.started)
	return e.stats
}

func (e *Engine) runSchema(ctx context.Context, schema []types.ClassifiedStatement, total int) error {
	if len(schema) == 0 {
		return nil
	}
	if err := e.store.Begin(ctx); err != nil {
		return &FatalError{Index: schema[0].Index, Err: err}
	}
	for _, cs := range schema {
		text, err := translate.TranslateSchema(cs, e.opts.Translate)
		if err != nil {
			e.warn("table %s left as written: %v", cs.TableName, err)
		}
		res, cause := e.execute(ctx, cs, text)
		if res.Outcome == types.Success {
			e.stats.TablesCreated++
		}
		if err := e.settle(cs, text, res, cause, total); err != nil {
			return err
		}
	}
	if err := e.store.Commit(); err != nil {
		return &FatalError{Index: schema[len(schema)-1].Index, Err: err}
	}
	e.log.Info("created %d of %d tables", e.stats.TablesCreated, len(schema))
	return nil
}

func (e *Engine) runData(ctx context.Context, data []types.ClassifiedStatement, total int) error {
	for start := 0; start < len(data); start += e.opts.BatchSize {
		end := min(start+e.opts.BatchSize, len(data))
		if err := e.store.Begin(ctx); err != nil {
			return &FatalError{Index: data[start].Index, Err: err}
		}
		for _, cs := range data[start:end] {
			text := cs.Text
			if cs.Kind == types.KindInsert {
				translated, err := translate.TranslateLiteral(cs)
				if err != nil {
					res := e.outcome(cs, types.SkippedSyntaxError, err.Error())
					if ferr := e.settle(cs, text, res, err, total); ferr != nil {
						return ferr
					}
					continue
				}
				text = translated
			}
			res, cause := e.execute(ctx, cs, text)
			if err := e.settle(cs, text, res, cause, total); err != nil {
				return err
			}
		}
		if err := e.store.Commit(); err != nil {
			return &FatalError{Index: data[end-1].Index, Err: err}
		}
	}
	return nil
}

func (e *Engine) outcome(cs types.ClassifiedStatement, o types.Outcome, msg string) types.ExecutionOutcome {
	return types.ExecutionOutcome{
		Index:     cs.Index,
		Kind:      cs.Kind,
		TableName: cs.TableName,
		Outcome:   o,
		Message:   msg,
	}
}

// execute runs one statement, repairing a value-count mismatch once. The
// error is the store's, when the statement did not succeed.
func (e *Engine) execute(ctx context.Context, cs types.ClassifiedStatement, text string) (types.ExecutionOutcome, error) {
	if err := ctx.Err(); err != nil {
		return e.outcome(cs, types.Fatal, err.Error()), err
	}

	n, err := e.store.Exec(ctx, text)
	if err == nil {
		if cs.Kind == types.KindInsert {
			e.stats.RowsInserted += n
		}
		return e.outcome(cs, types.Success, ""), nil
	}

	res := e.outcome(cs, ClassifyFailure(err), err.Error())
	if res.Outcome != types.SkippedColumnMismatch || cs.Kind != types.KindInsert {
		return res, err
	}

	want := len(translate.ColumnList(text))
	if want == 0 {
		want = e.tableWidth(ctx, cs.TableName)
	}
	repaired, ok := translate.RepairValueCounts(text, want)
	if !ok {
		return res, err
	}
	n, rerr := e.store.Exec(ctx, repaired)
	if rerr != nil {
		if o := ClassifyFailure(rerr); o != types.SkippedColumnMismatch {
			res.Outcome = o
		}
		res.Message = rerr.Error()
		return res, rerr
	}
	e.stats.RowsInserted += n
	res.Outcome, res.Message, res.Repaired = types.Success, "", true
	return res, nil
}

func (e *Engine) tableWidth(ctx context.Context, table string) int {
	key := strings.ToLower(table)
	if w, ok := e.widths[key]; ok {
		return w
	}
	cols, err := e.store.TableColumns(ctx, table)
	if err != nil {
		e.log.Debug("cannot read columns of %s: %v", table, err)
		return 0
	}
	e.widths[key] = len(cols)
	return len(cols)
}

// settle records res. A fatal outcome rolls back the open transaction and
// comes back as a *FatalError.
func (e *Engine) settle(cs types.ClassifiedStatement, text string, res types.ExecutionOutcome, cause error, total int) error {
	e.stats.Statements++
	if res.Repaired {
		e.stats.Repaired++
		e.log.Debug("statement %d: value counts repaired for %s", cs.Index, cs.TableName)
	}
	if res.Outcome != types.Success {
		e.stats.Errors++
	}
	if res.Outcome.Skipped() {
		e.stats.Skipped[res.Outcome]++
	}

	switch res.Outcome {
	case types.Success:
	case types.SkippedDuplicate:
		if cs.Kind == types.KindCreateTable {
			e.warn("table %s: %s", cs.TableName, res.Message)
		} else {
			e.log.Debug("statement %d: duplicate row in %s skipped", cs.Index, cs.TableName)
		}
	case types.SkippedMissingTable:
		e.warn("statement %d: %s", cs.Index, res.Message)
	case types.SkippedColumnMismatch, types.SkippedConstraint, types.SkippedSyntaxError:
		e.warn("statement %d (%s): %s", cs.Index, res.Outcome, res.Message)
		e.log.Debug("statement %d text: %s", cs.Index, preview(text))
	case types.Fatal:
		e.log.Error("statement %d: %s", cs.Index, res.Message)
	}

	if e.OnOutcome != nil {
		e.OnOutcome(res)
	}

	if e.stats.Statements%e.opts.ProgressEvery == 0 {
		e.log.Info("processed %d/%d statements", e.stats.Statements, total)
	}

	if res.Outcome == types.Fatal {
		if err := e.store.Rollback(); err != nil {
			e.log.Error("rollback failed: %v", err)
		}
		if cause == nil {
			cause = errors.New(res.Message)
		}
		return &FatalError{Index: cs.Index, Statement: text, Err: cause}
	}
	return nil
}

func (e *Engine) warn(format string, args ...any) {
	e.stats.Warnings++
	e.log.Warn(format, args...)
}

func preview(s string) string {
	const limit = 120
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}
