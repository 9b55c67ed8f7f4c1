package report

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Rana718/liteport/internal/database/sqlite"
	"github.com/Rana718/liteport/internal/engine"
	"github.com/Rana718/liteport/internal/types"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleStats() engine.Stats {
	return engine.Stats{
		TablesCreated: 2,
		RowsInserted:  9,
		Statements:    12,
		Dropped:       3,
		Skipped: map[types.Outcome]int{
			types.SkippedDuplicate:    1,
			types.SkippedMissingTable: 2,
		},
		Errors:   3,
		Warnings: 2,
		Duration: 1500 * time.Millisecond,
	}
}

func TestObserveKeepsFailuresOnly(t *testing.T) {
	r := New("dump.sql", "out.db", "sqlite")
	r.Observe(types.ExecutionOutcome{Index: 1, Outcome: types.Success})
	r.Observe(types.ExecutionOutcome{Index: 2, TableName: "users", Outcome: types.SkippedDuplicate, Message: "UNIQUE constraint failed: users.id"})

	require.Len(t, r.Failures, 1)
	assert.Equal(t, 2, r.Failures[0].Index)
	assert.Equal(t, "users", r.Failures[0].Table)
	assert.Equal(t, types.SkippedDuplicate.String(), r.Failures[0].Outcome)
}

func TestObserveTruncates(t *testing.T) {
	r := New("dump.sql", "out.db", "sqlite")
	for i := 0; i < MaxFailures+5; i++ {
		r.Observe(types.ExecutionOutcome{Index: i, Outcome: types.SkippedSyntaxError})
	}
	assert.Len(t, r.Failures, MaxFailures)
	assert.Equal(t, 5, r.Truncated)
}

func TestFinish(t *testing.T) {
	r := New("dump.sql", "out.db", "sqlite")
	r.Finish(sampleStats(), nil)

	assert.Equal(t, "completed", r.Status)
	assert.Equal(t, 3, r.Stats.Skipped)
	assert.Equal(t, "1.5s", r.Stats.Duration)
	assert.Equal(t, 2, r.Skipped[types.SkippedMissingTable.String()])
	assert.Len(t, r.SkippedOutcomes(), 2)

	r.Finish(sampleStats(), errors.New("disk I/O error"))
	assert.Equal(t, "failed", r.Status)
	assert.Equal(t, "disk I/O error", r.Fatal)
}

func TestDescribeAndWriteFile(t *testing.T) {
	ctx := context.Background()
	db := sqlite.New()
	require.NoError(t, db.Connect(ctx, ":memory:"))
	defer db.Close()

	_, err := db.Exec(ctx, `CREATE TABLE "users" ("id" INTEGER PRIMARY KEY AUTOINCREMENT, "name" TEXT NOT NULL DEFAULT 'anon')`)
	require.NoError(t, err)
	_, err = db.Exec(ctx, `INSERT INTO "users" ("name") VALUES ('a'), ('b')`)
	require.NoError(t, err)

	r := New("dump.sql", ":memory:", "sqlite")
	r.Finish(sampleStats(), nil)
	require.NoError(t, r.Describe(ctx, db))

	require.Len(t, r.Tables, 1)
	users := r.Tables[0]
	assert.Equal(t, "users", users.Name)
	assert.EqualValues(t, 2, users.Rows)
	require.Len(t, users.Columns, 2)
	assert.True(t, users.Columns[0].PrimaryKey)
	assert.True(t, users.Columns[1].NotNull)
	assert.Equal(t, "'anon'", users.Columns[1].Default)

	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, r.WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, "completed", decoded["status"])
	assert.Contains(t, string(data), "rows_inserted: 9")
}

func TestPrintSummaryAndTables(t *testing.T) {
	color.NoColor = true

	r := New("dump.sql", "out.db", "sqlite")
	r.Finish(sampleStats(), nil)
	r.Tables = []Table{{Name: "users", Rows: 2, Columns: make([]Column, 3)}}

	var buf bytes.Buffer
	r.PrintSummary(&buf)
	out := buf.String()
	assert.Contains(t, out, "Conversion complete")
	assert.Contains(t, out, "Rows inserted:   9")
	assert.Contains(t, out, "- skipped-missing-table: 2")

	buf.Reset()
	PrintTables(&buf, r.Tables)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "│ table │ rows │ columns │", lines[1])
	assert.Equal(t, "│ users │ 2    │ 3       │", lines[3])
}
