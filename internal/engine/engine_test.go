package engine

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rana718/liteport/internal/database/sqlite"
	"github.com/Rana718/liteport/internal/segment"
	"github.com/Rana718/liteport/internal/types"
)

func memoryStore(t *testing.T) *sqlite.Adapter {
	t.Helper()
	store := sqlite.New()
	require.NoError(t, store.Connect(context.Background(), ":memory:"))
	t.Cleanup(func() { store.Close() })
	return store
}

func rawSeq(texts ...string) iter.Seq2[types.RawStatement, error] {
	return func(yield func(types.RawStatement, error) bool) {
		for i, text := range texts {
			if !yield(types.RawStatement{Index: i, Raw: text, Text: text, Terminated: true}, nil) {
				return
			}
		}
	}
}

func TestDuplicateRowIsSkipped(t *testing.T) {
	var b strings.Builder
	b.WriteString("CREATE TABLE `items` (`id` INT(11) UNSIGNED NOT NULL AUTO_INCREMENT, `name` varchar(20), PRIMARY KEY (`id`));\n")
	for i := 1; i <= 10; i++ {
		id := i
		if i == 5 {
			id = 4
		}
		fmt.Fprintf(&b, "INSERT INTO `items` VALUES (%d,'item %d');\n", id, i)
	}

	store := memoryStore(t)
	eng := New(store, Options{}, nil)

	var outcomes []types.ExecutionOutcome
	eng.OnOutcome = func(o types.ExecutionOutcome) { outcomes = append(outcomes, o) }

	stats, err := eng.Run(context.Background(), segment.Scan(b.String()))
	require.NoError(t, err)

	assert.Equal(t, 1, stats.TablesCreated)
	assert.Equal(t, int64(9), stats.RowsInserted)
	assert.Equal(t, 11, stats.Statements)
	assert.Equal(t, 1, stats.Skipped[types.SkippedDuplicate])
	assert.Equal(t, 1, stats.Errors)
	assert.Zero(t, stats.Warnings)

	require.Len(t, outcomes, 11)
	assert.Equal(t, types.SkippedDuplicate, outcomes[5].Outcome)

	count, err := store.CountRows(context.Background(), "items")
	require.NoError(t, err)
	assert.Equal(t, int64(9), count)
}

func TestRunMixedDump(t *testing.T) {
	dump := `-- MySQL dump
/*!40101 SET NAMES utf8 */;
SET FOREIGN_KEY_CHECKS=0;
DROP TABLE IF EXISTS ` + "`users`" + `;
CREATE TABLE ` + "`users`" + ` (
  ` + "`id`" + ` int(11) NOT NULL AUTO_INCREMENT,
  ` + "`name`" + ` varchar(50) DEFAULT '',
  ` + "`born`" + ` date NOT NULL DEFAULT '0000-00-00',
  PRIMARY KEY (` + "`id`" + `),
  KEY ` + "`ix_name`" + ` (` + "`name`" + `)
) ENGINE=InnoDB DEFAULT CHARSET=utf8;
CREATE TABLE ` + "`users`" + ` (` + "`id`" + ` int);
CREATE TABLE odd (a mystery);
LOCK TABLES ` + "`users`" + ` WRITE;
INSERT INTO ` + "`users`" + ` VALUES (1,'it\'s a test','0000-00-00'),(2,'semi;colon','1990-01-02');
INSERT INTO ` + "`users`" + ` VALUES (3);
INSERT INTO ` + "`missing`" + ` VALUES (1);
INSERT INTO ` + "`users`" + ` VALUES (4,'x','y','z','w');
FROBNICATE everything;
UNLOCK TABLES;
`
	store := memoryStore(t)
	stats, err := New(store, Options{BatchSize: 2}, nil).Run(context.Background(), segment.Scan(dump))
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TablesCreated, "an untranslatable table is passed through")
	assert.Equal(t, 4, stats.Dropped)
	assert.Equal(t, 1, stats.Skipped[types.SkippedDuplicate])
	assert.Equal(t, 1, stats.Skipped[types.SkippedSyntaxError])
	assert.Equal(t, 1, stats.Skipped[types.SkippedMissingTable])
	assert.Equal(t, 2, stats.Repaired)
	assert.Equal(t, int64(4), stats.RowsInserted)

	ctx := context.Background()
	rows, err := store.CountRows(ctx, "users")
	require.NoError(t, err)
	assert.Equal(t, int64(4), rows)

	var name string
	var born any
	require.NoError(t, store.DB().QueryRowContext(ctx, `SELECT name, born FROM users WHERE id = 1`).Scan(&name, &born))
	assert.Equal(t, "it's a test", name)
	assert.Nil(t, born)
}

func TestBitAndHexValuesLoad(t *testing.T) {
	dump := "CREATE TABLE `f` (`id` int, `on` bit(1), `h` blob);\n" +
		"INSERT INTO `f` VALUES (1,b'1',NULL),(2,b'0',NULL);\n" +
		"INSERT INTO `f` VALUES (3,0,0x48656C6C6F);\n" +
		"INSERT INTO `f` VALUES (4,0,0x48656C6C6F20776F726C6421);\n"

	store := memoryStore(t)
	stats, err := New(store, Options{}, nil).Run(context.Background(), segment.Scan(dump))
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.RowsInserted)
	assert.Zero(t, stats.TotalSkipped())

	ctx := context.Background()
	var on int
	require.NoError(t, store.DB().QueryRowContext(ctx, `SELECT "on" FROM f WHERE id = 1`).Scan(&on))
	assert.Equal(t, 1, on)

	var kind string
	var blob []byte
	require.NoError(t, store.DB().QueryRowContext(ctx, `SELECT typeof(h), h FROM f WHERE id = 3`).Scan(&kind, &blob))
	assert.Equal(t, "blob", kind)
	assert.Equal(t, []byte("Hello"), blob)

	require.NoError(t, store.DB().QueryRowContext(ctx, `SELECT h FROM f WHERE id = 4`).Scan(&blob))
	assert.Equal(t, []byte("Hello world!"), blob)
}

func TestFailedRepairIsSkipped(t *testing.T) {
	store := memoryStore(t)
	seq := rawSeq(
		"CREATE TABLE t (a int NOT NULL, b int NOT NULL)",
		"INSERT INTO t VALUES (1)",
		"INSERT INTO t VALUES (2, 3)",
	)
	stats, err := New(store, Options{}, nil).Run(context.Background(), seq)
	require.NoError(t, err)

	assert.Zero(t, stats.Repaired)
	assert.Equal(t, 1, stats.TotalSkipped())
	assert.Equal(t, 1, stats.Skipped[types.SkippedConstraint])
	assert.Equal(t, 1, stats.Warnings)
	assert.Equal(t, int64(1), stats.RowsInserted)
}

func TestLiteralErrorIsSkipped(t *testing.T) {
	store := memoryStore(t)
	seq := rawSeq(
		"CREATE TABLE t (a int)",
		"INSERT INTO t VALUES ('never closed",
		"INSERT INTO t VALUES (1)",
	)
	stats, err := New(store, Options{}, nil).Run(context.Background(), seq)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Skipped[types.SkippedSyntaxError])
	assert.Equal(t, int64(1), stats.RowsInserted)
	assert.Equal(t, 1, stats.Warnings)
}

func TestParseBoundaryErrorStopsRun(t *testing.T) {
	store := memoryStore(t)
	_, err := New(store, Options{}, nil).Run(context.Background(), segment.Scan("CREATE TABLE t (a int); INSERT INTO t VALUES ('x"))

	var pe *segment.ParseBoundaryError
	require.True(t, errors.As(err, &pe))

	tables, err := store.TableNames(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tables, "nothing runs before the whole input is split")
}

func TestBatchesAreTransactions(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE \"t\" (\n  \"a\" INTEGER\n)").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO \"t\" VALUES (1)").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO \"t\" VALUES (2)").WillReturnError(errors.New("UNIQUE constraint failed: t.a"))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO \"t\" VALUES (3)").WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectCommit()

	seq := rawSeq(
		"CREATE TABLE `t` (`a` int)",
		"INSERT INTO `t` VALUES (1)",
		"INSERT INTO `t` VALUES (2)",
		"INSERT INTO `t` VALUES (3)",
	)
	stats, err := New(sqlite.NewWithDB(db), Options{BatchSize: 2}, nil).Run(context.Background(), seq)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.RowsInserted)
	assert.Equal(t, 1, stats.Skipped[types.SkippedDuplicate])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFatalRollsBackBatch(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	ioErr := errors.New("disk I/O error")
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO t VALUES (1)").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO t VALUES (2)").WillReturnError(ioErr)
	mock.ExpectRollback()

	seq := rawSeq(
		"INSERT INTO t VALUES (1)",
		"INSERT INTO t VALUES (2)",
		"INSERT INTO t VALUES (3)",
	)
	stats, err := New(sqlite.NewWithDB(db), Options{}, nil).Run(context.Background(), seq)
	require.Error(t, err)

	var fe *FatalError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, 1, fe.Index)
	assert.Equal(t, "INSERT INTO t VALUES (2)", fe.Statement)
	assert.ErrorIs(t, err, ioErr)
	assert.Equal(t, 2, stats.Statements)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCanceledContextIsFatal(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = New(sqlite.NewWithDB(db), Options{}, nil).Run(ctx, rawSeq("INSERT INTO t VALUES (1)"))
	assert.ErrorIs(t, err, context.Canceled)

	var fe *FatalError
	assert.True(t, errors.As(err, &fe))
}
