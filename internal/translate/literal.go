package translate

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Rana718/liteport/internal/sqlscan"
	"github.com/Rana718/liteport/internal/types"
)

var (
	zeroDate   = regexp.MustCompile(`^0000-00-00( 00:00:00(\.0+)?)?$`)
	introducer = regexp.MustCompile(`^_[A-Za-z0-9]+\s*['"]`)
	bitValue   = regexp.MustCompile(`^[bB]'([01]*)'`)
	hexValue   = regexp.MustCompile(`^0[xX]([0-9A-Fa-f]+)`)
)

// IsZeroDate reports whether s is the source dialect's placeholder date.
func IsZeroDate(s string) bool {
	return zeroDate.MatchString(s)
}

// EncodeString renders s as a target-dialect string literal: single quotes,
// embedded quotes doubled. Backslashes and NUL bytes cannot appear inside a
// literal that a second pass would leave alone, so they are spliced in with
// char() and the pieces joined with ||.
func EncodeString(s string) string {
	if !strings.ContainsAny(s, "\\\x00") {
		return quote(s)
	}
	var parts []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' && s[i] != 0 {
			continue
		}
		if i > start {
			parts = append(parts, quote(s[start:i]))
		}
		parts = append(parts, fmt.Sprintf("char(%d)", s[i]))
		start = i + 1
	}
	if start < len(s) {
		parts = append(parts, quote(s[start:]))
	}
	return strings.Join(parts, " || ")
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// TranslateLiteral rewrites an INSERT or REPLACE into the target dialect.
// Only the part after VALUES is re-encoded; the head gets its identifiers
// and modifiers rewritten.
func TranslateLiteral(cs types.ClassifiedStatement) (string, error) {
	text := cs.Text

	kw := "VALUES"
	idx := sqlscan.FindKeyword(text, kw)
	if idx < 0 {
		kw = "VALUE"
		idx = sqlscan.FindKeyword(text, kw)
	}
	if idx < 0 {
		return rewriteHead(text, false), nil
	}

	values := text[idx+len(kw):]
	upsert := false
	if on := sqlscan.FindKeyword(values, "ON"); on >= 0 {
		if next, _ := sqlscan.LeadingWord(values[on+2:]); strings.EqualFold(next, "DUPLICATE") {
			values = strings.TrimRight(values[:on], " \t\r\n")
			upsert = true
		}
	}

	body, err := rewriteValues(values)
	if err != nil {
		var lerr *LiteralTranslationError
		if errors.As(err, &lerr) {
			lerr.Table = cs.TableName
			lerr.Offset += idx + len(kw)
		}
		return "", err
	}
	return rewriteHead(text[:idx], upsert) + "VALUES" + body, nil
}

// rewriteHead normalizes "INSERT [modifiers] [INTO] name (cols) " into
// "INSERT [OR IGNORE|OR REPLACE] INTO "name" ("cols") ".
func rewriteHead(head string, upsert bool) string {
	words, rest := sqlscan.SkipWords(head, insertModifiers...)
	if len(words) == 0 {
		return sqlscan.NormalizeIdents(head)
	}

	verb, conflict := "INSERT", ""
	for i := 0; i < len(words); i++ {
		switch words[i] {
		case "REPLACE":
			verb = "REPLACE"
		case "IGNORE":
			conflict = "IGNORE"
		case "OR":
			if i+1 < len(words) {
				conflict = words[i+1]
				i++
			}
		}
	}
	if upsert {
		verb, conflict = "INSERT", "REPLACE"
	}

	var b strings.Builder
	b.WriteString(verb)
	if conflict != "" && verb == "INSERT" {
		b.WriteString(" OR ")
		b.WriteString(conflict)
	}
	b.WriteString(" INTO ")
	b.WriteString(sqlscan.NormalizeIdents(strings.TrimLeft(rest, " \t\r\n")))
	return b.String()
}

var insertModifiers = []string{"INSERT", "REPLACE", "LOW_PRIORITY", "DELAYED", "HIGH_PRIORITY", "IGNORE", "INTO", "OR", "ABORT", "FAIL", "ROLLBACK"}

func rewriteValues(s string) (string, error) {
	var b strings.Builder
	b.Grow(len(s) + len(s)/8)

	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case sqlscan.IsQuote(c):
			content, n, ok := sqlscan.ReadString(s[i:])
			if !ok {
				return "", &LiteralTranslationError{Offset: i}
			}
			if IsZeroDate(content) {
				b.WriteString("NULL")
			} else {
				b.WriteString(EncodeString(content))
			}
			i += n
		case c == '_' && atWordStart(s, i) && introducer.MatchString(s[i:]):
			// charset introducer such as _binary'...'
			for !sqlscan.IsQuote(s[i]) {
				i++
			}
		case (c == 'b' || c == 'B') && atWordStart(s, i) && bitValue.MatchString(s[i:]):
			m := bitValue.FindStringSubmatch(s[i:])
			b.WriteString(bitsToDecimal(m[1]))
			i += len(m[0])
		case c == '0' && atWordStart(s, i) && hexDigits(s[i:]) != "":
			// 0x... is a blob in the source dialect and an integer in the target
			digits := hexDigits(s[i:])
			i += 2 + len(digits)
			if len(digits)%2 == 1 {
				digits = "0" + digits
			}
			b.WriteString("X'" + digits + "'")
		case c == '`':
			name, rest, ok := sqlscan.ReadIdent(s[i:])
			if !ok {
				return "", &LiteralTranslationError{Offset: i}
			}
			b.WriteString(sqlscan.QuoteIdent(name))
			i = len(s) - len(rest)
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String(), nil
}

func atWordStart(s string, i int) bool {
	return i == 0 || !sqlscan.IsWordByte(s[i-1])
}

// hexDigits returns the digits of a 0x literal at the start of s, or ""
// when s does not start with one.
func hexDigits(s string) string {
	m := hexValue.FindStringSubmatch(s)
	if m == nil || (len(m[0]) < len(s) && sqlscan.IsWordByte(s[len(m[0])])) {
		return ""
	}
	return m[1]
}

// bitsToDecimal renders a b'...' literal's digits as an integer.
func bitsToDecimal(bits string) string {
	if bits == "" {
		return "0"
	}
	n, err := strconv.ParseUint(bits, 2, 64)
	if err != nil {
		return "0"
	}
	return strconv.FormatUint(n, 10)
}
