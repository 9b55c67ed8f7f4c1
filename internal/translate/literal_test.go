package translate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rana718/liteport/internal/types"
)

func insertStmt(table, text string) types.ClassifiedStatement {
	return types.ClassifiedStatement{
		RawStatement: types.RawStatement{Raw: text, Text: text},
		Kind:         types.KindInsert,
		TableName:    table,
	}
}

func TestTranslateLiteral(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "escaped quote is doubled",
			in:   "INSERT INTO `t` VALUES (1,'it\\'s a test')",
			want: "INSERT INTO \"t\" VALUES (1,'it''s a test')",
		},
		{
			name: "doubled quote is kept",
			in:   "INSERT INTO t VALUES ('it''s')",
			want: "INSERT INTO t VALUES ('it''s')",
		},
		{
			name: "double quoted string",
			in:   `INSERT INTO t VALUES ("say \"hi\" it's")`,
			want: `INSERT INTO t VALUES ('say "hi" it''s')`,
		},
		{
			name: "control escapes decode",
			in:   `INSERT INTO t VALUES ('a\nb\tc\rd')`,
			want: "INSERT INTO t VALUES ('a\nb\tc\rd')",
		},
		{
			name: "backslash is spliced",
			in:   `INSERT INTO t VALUES ('c:\\dir')`,
			want: "INSERT INTO t VALUES ('c:' || char(92) || 'dir')",
		},
		{
			name: "nul is spliced",
			in:   `INSERT INTO t VALUES ('a\0b')`,
			want: "INSERT INTO t VALUES ('a' || char(0) || 'b')",
		},
		{
			name: "zero dates become null",
			in:   "INSERT INTO t VALUES (1,'0000-00-00 00:00:00','0000-00-00','x')",
			want: "INSERT INTO t VALUES (1,NULL,NULL,'x')",
		},
		{
			name: "insert ignore",
			in:   "INSERT IGNORE INTO `t` (`a`) VALUES (1),(2)",
			want: "INSERT OR IGNORE INTO \"t\" (\"a\") VALUES (1),(2)",
		},
		{
			name: "priority modifier dropped",
			in:   "INSERT LOW_PRIORITY INTO t VALUES (1)",
			want: "INSERT INTO t VALUES (1)",
		},
		{
			name: "replace",
			in:   "REPLACE INTO t VALUES (1)",
			want: "REPLACE INTO t VALUES (1)",
		},
		{
			name: "on duplicate key update",
			in:   "INSERT INTO t (a) VALUES (1) ON DUPLICATE KEY UPDATE a=VALUES(a)",
			want: "INSERT OR REPLACE INTO t (a) VALUES (1)",
		},
		{
			name: "separator and paren inside literal",
			in:   "INSERT INTO t VALUES ('a;b(c', 2)",
			want: "INSERT INTO t VALUES ('a;b(c', 2)",
		},
		{
			name: "bit values become integers",
			in:   "INSERT INTO t VALUES (1,b'1',B'101',b'')",
			want: "INSERT INTO t VALUES (1,1,5,0)",
		},
		{
			name: "hex values become blobs",
			in:   "INSERT INTO t VALUES (0x48656C6C6F,0xABC,0x48656C6C6F20776F726C6421)",
			want: "INSERT INTO t VALUES (X'48656C6C6F',X'0ABC',X'48656C6C6F20776F726C6421')",
		},
		{
			name: "hex blob literal is kept",
			in:   "INSERT INTO t VALUES (x'00ff',X'AB')",
			want: "INSERT INTO t VALUES (x'00ff',X'AB')",
		},
		{
			name: "bit and hex text inside strings is untouched",
			in:   "INSERT INTO t VALUES ('0x41','b''1''',10x1)",
			want: "INSERT INTO t VALUES ('0x41','b''1''',10x1)",
		},
		{
			name: "value keyword",
			in:   "INSERT INTO t VALUE ('x')",
			want: "INSERT INTO t VALUES ('x')",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TranslateLiteral(insertStmt("t", tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			again, err := TranslateLiteral(insertStmt("t", got))
			require.NoError(t, err)
			assert.Equal(t, got, again, "second pass must not change the output")
		})
	}
}

func TestTranslateLiteralUnterminated(t *testing.T) {
	_, err := TranslateLiteral(insertStmt("logs", "INSERT INTO logs VALUES (1, 'open"))
	require.Error(t, err)

	var le *LiteralTranslationError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, "logs", le.Table)
	assert.Equal(t, 28, le.Offset)
}

func TestEncodeString(t *testing.T) {
	assert.Equal(t, "''", EncodeString(""))
	assert.Equal(t, "'it''s'", EncodeString("it's"))
	assert.Equal(t, "char(92)", EncodeString(`\`))
	assert.Equal(t, "'a' || char(92) || char(92) || 'b'", EncodeString(`a\\b`))
}

func TestIsZeroDate(t *testing.T) {
	assert.True(t, IsZeroDate("0000-00-00"))
	assert.True(t, IsZeroDate("0000-00-00 00:00:00"))
	assert.True(t, IsZeroDate("0000-00-00 00:00:00.000000"))
	assert.False(t, IsZeroDate("2024-01-01"))
	assert.False(t, IsZeroDate("0000-00-00x"))
}

func TestTranslateLiteralIntroducer(t *testing.T) {
	got, err := TranslateLiteral(insertStmt("t", "INSERT INTO t VALUES (1,_binary 'ab',_utf8mb4'c')"))
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO t VALUES (1,'ab','c')", got)
}
