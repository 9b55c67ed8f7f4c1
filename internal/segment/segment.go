// Package segment splits a SQL dump into statements.
package segment

import (
	"fmt"
	"iter"
	"strings"

	"github.com/Rana718/liteport/internal/sqlscan"
	"github.com/Rana718/liteport/internal/types"
)

// ParseBoundaryError means the scanner reached the end of the input (or an
// unbalanced parenthesis) without being able to place a statement boundary.
type ParseBoundaryError struct {
	Index  int // statement index where scanning stopped
	Offset int // byte offset in the source
	Reason string
}

func (e *ParseBoundaryError) Error() string {
	return fmt.Sprintf("statement %d: cannot locate statement end at byte %d: %s", e.Index, e.Offset, e.Reason)
}

// Scan yields every span between top-level ';' separators in document
// order, whitespace-only spans included, with comments removed. Joining the
// Raw fields with ";" reproduces the source minus its comments.
//
// Scanning stops after yielding a *ParseBoundaryError.
func Scan(src string) iter.Seq2[types.RawStatement, error] {
	return func(yield func(types.RawStatement, error) bool) {
		var (
			st      sqlscan.State
			depth   int
			buf     strings.Builder
			index   int
			offset  int
			openAt  int
			parenAt int
		)

		emit := func(terminated bool) bool {
			raw := buf.String()
			stmt := types.RawStatement{
				Index:      index,
				Offset:     offset,
				Raw:        raw,
				Text:       strings.TrimSpace(raw),
				Terminated: terminated,
			}
			index++
			buf.Reset()
			return yield(stmt, nil)
		}
		fail := func(at int, format string, args ...any) {
			yield(types.RawStatement{}, &ParseBoundaryError{
				Index:  index,
				Offset: at,
				Reason: fmt.Sprintf(format, args...),
			})
		}

		for i := 0; i < len(src); {
			c := src[i]
			if st.Normal() {
				switch {
				case c == '-' && i+1 < len(src) && src[i+1] == '-' && (i+2 == len(src) || sqlscan.IsSpace(src[i+2])):
					if j := strings.IndexByte(src[i:], '\n'); j >= 0 {
						i += j
					} else {
						i = len(src)
					}
					continue
				case c == '/' && i+1 < len(src) && src[i+1] == '*':
					j := strings.Index(src[i+2:], "*/")
					if j < 0 {
						fail(i, "unterminated block comment")
						return
					}
					i += j + 4
					continue
				case c == '(':
					depth++
					parenAt = i
				case c == ')':
					if depth == 0 {
						fail(i, "unbalanced ')'")
						return
					}
					depth--
				case c == ';' && depth == 0:
					if !emit(true) {
						return
					}
					i++
					offset = i
					continue
				case sqlscan.IsQuote(c) || c == '`':
					openAt = i
				}
			}
			st = st.Next(c)
			buf.WriteByte(c)
			i++
		}

		switch {
		case st.Mode == sqlscan.InIdent:
			fail(openAt, "input ends inside an identifier opened at byte %d", openAt)
		case !st.Normal():
			fail(openAt, "input ends inside a string literal opened at byte %d", openAt)
		case depth > 0:
			fail(parenAt, "input ends with %d unclosed parenthesis", depth)
		default:
			emit(false)
		}
	}
}

// Statements is Scan without the whitespace-only spans.
func Statements(src string) iter.Seq2[types.RawStatement, error] {
	return func(yield func(types.RawStatement, error) bool) {
		for stmt, err := range Scan(src) {
			if err == nil && stmt.Empty() {
				continue
			}
			if !yield(stmt, err) {
				return
			}
		}
	}
}

// Collect gathers the non-empty statements of src into a slice.
func Collect(src string) ([]types.RawStatement, error) {
	var out []types.RawStatement
	for stmt, err := range Statements(src) {
		if err != nil {
			return out, err
		}
		out = append(out, stmt)
	}
	return out, nil
}
