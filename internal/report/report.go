// Package report collects what a load did and renders it as a terminal
// summary or a YAML file.
package report

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/Rana718/liteport/internal/database/sqlite"
	"github.com/Rana718/liteport/internal/engine"
	"github.com/Rana718/liteport/internal/types"
	"gopkg.in/yaml.v3"
)

// MaxFailures caps how many failed statements a report keeps.
const MaxFailures = 200

type Report struct {
	Input       string         `yaml:"input"`
	Output      string         `yaml:"output"`
	Provider    string         `yaml:"provider"`
	GeneratedAt time.Time      `yaml:"generated_at"`
	Status      string         `yaml:"status"`
	Fatal       string         `yaml:"fatal,omitempty"`
	Stats       Stats          `yaml:"stats"`
	Skipped     map[string]int `yaml:"skipped,omitempty"`
	Failures    []Failure      `yaml:"failures,omitempty"`
	Truncated   int            `yaml:"failures_truncated,omitempty"`
	Tables      []Table        `yaml:"tables,omitempty"`
}

type Stats struct {
	TablesCreated int    `yaml:"tables_created"`
	RowsInserted  int64  `yaml:"rows_inserted"`
	Statements    int    `yaml:"statements"`
	Dropped       int    `yaml:"dropped"`
	Skipped       int    `yaml:"skipped"`
	Repaired      int    `yaml:"repaired"`
	Errors        int    `yaml:"errors"`
	Warnings      int    `yaml:"warnings"`
	Duration      string `yaml:"duration"`
}

type Failure struct {
	Index   int    `yaml:"index"`
	Table   string `yaml:"table,omitempty"`
	Outcome string `yaml:"outcome"`
	Message string `yaml:"message"`
}

type Table struct {
	Name    string   `yaml:"name"`
	Rows    int64    `yaml:"rows"`
	Columns []Column `yaml:"columns"`
}

type Column struct {
	Name       string `yaml:"name"`
	Type       string `yaml:"type"`
	NotNull    bool   `yaml:"not_null,omitempty"`
	PrimaryKey bool   `yaml:"primary_key,omitempty"`
	Default    string `yaml:"default,omitempty"`
}

func New(input, output, provider string) *Report {
	return &Report{
		Input:    input,
		Output:   output,
		Provider: provider,
		Status:   "running",
	}
}

// Observe is an engine.Engine OnOutcome hook. It keeps every non-success
// outcome up to MaxFailures.
func (r *Report) Observe(o types.ExecutionOutcome) {
	if o.Outcome == types.Success {
		return
	}
	if len(r.Failures) >= MaxFailures {
		r.Truncated++
		return
	}
	r.Failures = append(r.Failures, Failure{
		Index:   o.Index,
		Table:   o.TableName,
		Outcome: o.Outcome.String(),
		Message: o.Message,
	})
}

// Finish records the engine's final stats and the error that ended the
// run, if any.
func (r *Report) Finish(stats engine.Stats, runErr error) {
	r.GeneratedAt = time.Now()
	r.Stats = Stats{
		TablesCreated: stats.TablesCreated,
		RowsInserted:  stats.RowsInserted,
		Statements:    stats.Statements,
		Dropped:       stats.Dropped,
		Skipped:       stats.TotalSkipped(),
		Repaired:      stats.Repaired,
		Errors:        stats.Errors,
		Warnings:      stats.Warnings,
		Duration:      stats.Duration.Round(time.Millisecond).String(),
	}
	if len(stats.Skipped) > 0 {
		r.Skipped = make(map[string]int, len(stats.Skipped))
		for outcome, n := range stats.Skipped {
			r.Skipped[outcome.String()] = n
		}
	}

	r.Status = "completed"
	if runErr != nil {
		r.Status = "failed"
		r.Fatal = runErr.Error()
	}
}

// Describe reads every table of the loaded database into the report.
func (r *Report) Describe(ctx context.Context, db *sqlite.Adapter) error {
	names, err := db.TableNames(ctx)
	if err != nil {
		return err
	}

	r.Tables = r.Tables[:0]
	for _, name := range names {
		rows, err := db.CountRows(ctx, name)
		if err != nil {
			return err
		}
		info, err := db.TableInfo(ctx, name)
		if err != nil {
			return err
		}
		table := Table{Name: name, Rows: rows, Columns: make([]Column, 0, len(info))}
		for _, c := range info {
			table.Columns = append(table.Columns, Column{
				Name:       c.Name,
				Type:       c.Type,
				NotNull:    c.NotNull,
				PrimaryKey: c.PrimaryKey,
				Default:    c.Default.String,
			})
		}
		r.Tables = append(r.Tables, table)
	}
	return nil
}

// SkippedOutcomes returns the skip counts in outcome name order.
func (r *Report) SkippedOutcomes() []string {
	names := make([]string, 0, len(r.Skipped))
	for name := range r.Skipped {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Report) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}
	return data, nil
}

func (r *Report) WriteFile(path string) error {
	data, err := r.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return nil
}
