// Package classify assigns each statement a kind and, where it has one, the
// table it targets.
package classify

import (
	"strings"

	"github.com/Rana718/liteport/internal/sqlscan"
	"github.com/Rana718/liteport/internal/types"
)

var (
	createTableWords = []string{"CREATE", "TEMPORARY", "TABLE", "IF", "NOT", "EXISTS"}
	insertWords      = []string{"INSERT", "REPLACE", "LOW_PRIORITY", "DELAYED", "HIGH_PRIORITY", "IGNORE", "INTO", "OR", "ABORT", "FAIL", "ROLLBACK"}
)

// sessionLeaders are statements a dump uses to steer the source server.
// They have no meaning for the target and are dropped.
var sessionLeaders = map[string]bool{
	"SET":       true,
	"LOCK":      true,
	"UNLOCK":    true,
	"USE":       true,
	"DELIMITER": true,
	"BEGIN":     true,
	"COMMIT":    true,
	"ROLLBACK":  true,
	"FLUSH":     true,
}

// Classify makes one pass over the leading keywords of raw.
func Classify(raw types.RawStatement) types.ClassifiedStatement {
	cs := types.ClassifiedStatement{RawStatement: raw, Kind: types.KindOther}

	first, rest := sqlscan.LeadingWord(raw.Text)
	second, _ := sqlscan.LeadingWord(rest)
	first, second = strings.ToUpper(first), strings.ToUpper(second)

	switch {
	case first == "":
		return cs
	case sessionLeaders[first]:
		cs.Kind = types.KindSession
	case first == "START" && second == "TRANSACTION":
		cs.Kind = types.KindSession
	case first == "CREATE":
		cs.Kind, cs.TableName = classifyCreate(raw.Text)
	case first == "DROP":
		switch second {
		case "TABLE", "DATABASE", "SCHEMA", "INDEX":
			cs.Kind = types.KindSession
		}
	case first == "ALTER":
		if sqlscan.FindKeyword(raw.Text, "KEYS") >= 0 &&
			(sqlscan.FindKeyword(raw.Text, "DISABLE") >= 0 || sqlscan.FindKeyword(raw.Text, "ENABLE") >= 0) {
			cs.Kind = types.KindSession
		}
	case first == "INSERT" || first == "REPLACE":
		cs.Kind = types.KindInsert
		_, after := sqlscan.SkipWords(raw.Text, insertWords...)
		if name, _, ok := sqlscan.ReadIdent(after); ok {
			cs.TableName = name
		}
	}
	return cs
}

func classifyCreate(text string) (types.Kind, string) {
	words, after := sqlscan.SkipWords(text, createTableWords...)
	for _, w := range words {
		if w == "TABLE" {
			name, _, _ := sqlscan.ReadIdent(after)
			return types.KindCreateTable, name
		}
	}

	_, rest := sqlscan.LeadingWord(text)
	second, rest := sqlscan.LeadingWord(rest)
	third, _ := sqlscan.LeadingWord(rest)
	switch strings.ToUpper(second) {
	case "DATABASE", "SCHEMA", "INDEX":
		return types.KindSession, ""
	case "UNIQUE", "FULLTEXT", "SPATIAL":
		if strings.EqualFold(third, "INDEX") {
			return types.KindSession, ""
		}
	}
	return types.KindOther, ""
}
