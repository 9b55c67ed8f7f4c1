package sqlscan

import (
	"strings"
)

// ReadString decodes the string literal at the start of s. It returns the
// decoded content, the number of bytes the literal occupies, and false when
// s ends before the literal is closed.
//
// Backslash escapes follow MySQL: \0 \' \" \b \n \r \t \Z \\ decode to their
// characters, \% and \_ keep the backslash, any other \x decodes to x. A
// doubled closing quote decodes to one quote.
func ReadString(s string) (string, int, bool) {
	if s == "" || !IsQuote(s[0]) {
		return "", 0, false
	}
	q := s[0]
	st := State{}.Next(q)

	var b strings.Builder
	b.Grow(len(s))
	for i := 1; i < len(s); i++ {
		c := s[i]
		prev := st
		st = st.Next(c)
		switch {
		case prev.Mode == Escaped:
			b.WriteString(decodeEscape(c))
		case st.Mode == Escaped:
		case st.Mode == Normal:
			if i+1 < len(s) && s[i+1] == q {
				b.WriteByte(q)
				st = prev
				i++
				continue
			}
			return b.String(), i + 1, true
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), len(s), false
}

func decodeEscape(c byte) string {
	switch c {
	case '0':
		return "\x00"
	case 'b':
		return "\b"
	case 'n':
		return "\n"
	case 'r':
		return "\r"
	case 't':
		return "\t"
	case 'Z':
		return "\x1a"
	case '%', '_':
		return "\\" + string(c)
	default:
		return string(c)
	}
}

// QuoteIdent renders name as a double-quoted identifier.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// UnquoteIdent strips backtick or double-quote identifier quoting from tok.
func UnquoteIdent(tok string) string {
	if len(tok) >= 2 {
		switch q := tok[0]; q {
		case '`', '"':
			if tok[len(tok)-1] == q {
				inner := tok[1 : len(tok)-1]
				return strings.ReplaceAll(inner, string([]byte{q, q}), string(q))
			}
		}
	}
	return tok
}

// ReadIdent reads a bare, backtick or double-quoted identifier at the start
// of s, skipping leading whitespace. For a qualified name such as
// `db`.`table` only the last part is returned.
func ReadIdent(s string) (name, rest string, ok bool) {
	rest = strings.TrimLeft(s, whitespace)
	for {
		var part string
		part, rest, ok = readIdentPart(rest)
		if !ok {
			return "", s, false
		}
		name = part
		if !strings.HasPrefix(rest, ".") {
			return name, rest, true
		}
		rest = rest[1:]
	}
}

func readIdentPart(s string) (string, string, bool) {
	if s == "" {
		return "", s, false
	}
	switch q := s[0]; q {
	case '`', '"':
		for i := 1; i < len(s); i++ {
			if s[i] != q {
				continue
			}
			if i+1 < len(s) && s[i+1] == q {
				i++
				continue
			}
			return UnquoteIdent(s[:i+1]), s[i+1:], true
		}
		return "", s, false
	}
	i := 0
	for i < len(s) && IsWordByte(s[i]) {
		i++
	}
	if i == 0 {
		return "", s, false
	}
	return s[:i], s[i:], true
}

// NormalizeIdents rewrites backtick identifiers outside string literals into
// double-quoted identifiers and leaves everything else untouched.
func NormalizeIdents(s string) string {
	if strings.IndexByte(s, '`') < 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	var st State
	start := -1
	for i := 0; i < len(s); i++ {
		c := s[i]
		next := st.Next(c)
		switch {
		case st.Normal() && next.Mode == InIdent:
			start = i
		case st.Mode == InIdent && next.Normal():
			if i+1 < len(s) && s[i+1] == '`' {
				// doubled backtick: stay inside the identifier
				i++
				continue
			}
			b.WriteString(QuoteIdent(UnquoteIdent(s[start : i+1])))
			start = -1
		case st.Mode == InIdent:
		default:
			b.WriteByte(c)
		}
		st = next
	}
	if start >= 0 {
		b.WriteString(s[start:])
	}
	return b.String()
}
