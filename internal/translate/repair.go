package translate

import (
	"strings"

	"github.com/Rana718/liteport/internal/sqlscan"
)

// splitInsert cuts an INSERT at its top-level VALUES keyword.
func splitInsert(stmt string) (head, values string, ok bool) {
	kw := "VALUES"
	idx := sqlscan.FindKeyword(stmt, kw)
	if idx < 0 {
		kw = "VALUE"
		if idx = sqlscan.FindKeyword(stmt, kw); idx < 0 {
			return stmt, "", false
		}
	}
	return stmt[:idx], stmt[idx+len(kw):], true
}

// ValueTuples returns the top-level "(...)" groups of an INSERT, parentheses
// included.
func ValueTuples(stmt string) []string {
	_, values, ok := splitInsert(stmt)
	if !ok {
		return nil
	}
	var tuples []string
	for _, part := range sqlscan.SplitTopLevel(values, ',') {
		part = strings.TrimSpace(part)
		if strings.HasPrefix(part, "(") && strings.HasSuffix(part, ")") {
			tuples = append(tuples, part)
		}
	}
	return tuples
}

// ColumnList returns the explicit column names of an INSERT, or nil when the
// statement relies on the table's column order.
func ColumnList(stmt string) []string {
	head, _, ok := splitInsert(stmt)
	if !ok {
		return nil
	}
	open := sqlscan.IndexTopLevel(head, '(')
	if open < 0 {
		return nil
	}
	end := sqlscan.MatchingParen(head, open)
	if end < 0 {
		return nil
	}
	var cols []string
	for _, part := range sqlscan.SplitTopLevel(head[open+1:end], ',') {
		if name, _, ok := sqlscan.ReadIdent(part); ok {
			cols = append(cols, name)
		}
	}
	return cols
}

// RepairValueCounts pads every tuple with NULL, or truncates it, until it
// holds want terms. It reports false when there was nothing to repair.
func RepairValueCounts(stmt string, want int) (string, bool) {
	if want <= 0 {
		return stmt, false
	}
	head, values, ok := splitInsert(stmt)
	if !ok {
		return stmt, false
	}

	parts := sqlscan.SplitTopLevel(values, ',')
	changed := false
	for i, part := range parts {
		trimmed := strings.TrimSpace(part)
		if !strings.HasPrefix(trimmed, "(") || !strings.HasSuffix(trimmed, ")") {
			continue
		}
		terms := sqlscan.SplitTopLevel(trimmed[1:len(trimmed)-1], ',')
		if len(terms) == want {
			continue
		}
		for len(terms) < want {
			terms = append(terms, "NULL")
		}
		terms = terms[:want]
		for j := range terms {
			terms[j] = strings.TrimSpace(terms[j])
		}
		parts[i] = "(" + strings.Join(terms, ", ") + ")"
		if i > 0 {
			parts[i] = " " + parts[i]
		}
		changed = true
	}
	if !changed {
		return stmt, false
	}
	return head + "VALUES " + strings.TrimLeft(strings.Join(parts, ","), " "), true
}
