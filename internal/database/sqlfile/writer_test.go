package sqlfile

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterOutput(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	w := NewWriter(&buf)

	require.NoError(t, w.Begin(ctx))
	n, err := w.Exec(ctx, "CREATE TABLE \"t\" (\n  \"a\" INTEGER,\n  \"b\" TEXT\n)")
	require.NoError(t, err)
	assert.Zero(t, n)
	require.NoError(t, w.Commit())

	require.NoError(t, w.Begin(ctx))
	n, err = w.Exec(ctx, "INSERT INTO \"t\" VALUES (1,'x;y'),(2,'z')")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	require.NoError(t, w.Commit())
	require.NoError(t, w.Close())

	want := "BEGIN TRANSACTION;\n" +
		"CREATE TABLE \"t\" (\n  \"a\" INTEGER,\n  \"b\" TEXT\n);\n" +
		"COMMIT;\n" +
		"BEGIN TRANSACTION;\n" +
		"INSERT INTO \"t\" VALUES (1,'x;y'),(2,'z');\n" +
		"COMMIT;\n"
	assert.Equal(t, want, buf.String())

	cols, err := w.TableColumns(ctx, "T")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, cols)
}

func TestWriterTransactionState(t *testing.T) {
	ctx := context.Background()
	w := NewWriter(&bytes.Buffer{})

	assert.Error(t, w.Commit())
	assert.NoError(t, w.Rollback())
	require.NoError(t, w.Begin(ctx))
	assert.Error(t, w.Begin(ctx))
	assert.NoError(t, w.Rollback())
}

func TestWriterNotConnected(t *testing.T) {
	_, err := New().Exec(context.Background(), "SELECT 1")
	assert.Error(t, err)
}
