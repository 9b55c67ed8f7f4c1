// Package sqlscan holds the quote and escape state machine shared by the
// segmenter, the translators and the value-list helpers.
package sqlscan

type Mode uint8

const (
	Normal Mode = iota
	InString
	Escaped
	InIdent
)

func (m Mode) String() string {
	switch m {
	case InString:
		return "in-string"
	case Escaped:
		return "escaped"
	case InIdent:
		return "in-identifier"
	default:
		return "normal"
	}
}

// State is the lexical position of a scanner: outside any literal, inside a
// string opened by Quote, right after a backslash inside that string, or
// inside a backtick identifier.
type State struct {
	Mode  Mode
	Quote byte
}

// IsQuote reports whether c opens a string literal in the source dialect.
func IsQuote(c byte) bool {
	return c == '\'' || c == '"'
}

// Next returns the state after consuming c.
//
// A backslash only escapes inside a string, and the escaped byte is consumed
// by the Escaped state, so the byte after an escaped backslash is read as
// ordinary string content. A doubled quote ('' inside '...') closes and
// reopens the string, which keeps boundaries correct without lookahead.
func (s State) Next(c byte) State {
	switch s.Mode {
	case InString:
		switch c {
		case '\\':
			return State{Mode: Escaped, Quote: s.Quote}
		case s.Quote:
			return State{}
		}
		return s
	case Escaped:
		return State{Mode: InString, Quote: s.Quote}
	case InIdent:
		if c == s.Quote {
			return State{}
		}
		return s
	default:
		switch {
		case IsQuote(c):
			return State{Mode: InString, Quote: c}
		case c == '`':
			return State{Mode: InIdent, Quote: c}
		}
		return s
	}
}

// Normal reports whether the scanner is outside every literal.
func (s State) Normal() bool {
	return s.Mode == Normal
}

// IsWordByte reports whether c can appear in a bare identifier or keyword.
func IsWordByte(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') ||
		c == '_' || c == '$' || c >= 0x80
}

// IsSpace reports whether c is SQL whitespace.
func IsSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}
