package sqlscan

import (
	"strings"
)

const whitespace = " \t\r\n\f\v"

// SplitTopLevel splits s on sep wherever sep sits outside literals and
// outside parentheses.
func SplitTopLevel(s string, sep byte) []string {
	parts := make([]string, 0, 8)
	var st State
	depth, start := 0, 0

	for i := 0; i < len(s); i++ {
		c := s[i]
		if st.Normal() {
			switch c {
			case '(':
				depth++
			case ')':
				if depth > 0 {
					depth--
				}
			case sep:
				if depth == 0 {
					parts = append(parts, s[start:i])
					start = i + 1
					continue
				}
			}
		}
		st = st.Next(c)
	}
	return append(parts, s[start:])
}

// Words splits s on whitespace. A quoted string, a backtick identifier or a
// parenthesised group stays inside the word it belongs to, so
// "enum('a b', 'c')" is a single word.
func Words(s string) []string {
	var words []string
	var st State
	depth, start := 0, -1

	for i := 0; i < len(s); i++ {
		c := s[i]
		if st.Normal() && depth == 0 && IsSpace(c) {
			if start >= 0 {
				words = append(words, s[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
		if st.Normal() {
			switch c {
			case '(':
				depth++
			case ')':
				if depth > 0 {
					depth--
				}
			}
		}
		st = st.Next(c)
	}
	if start >= 0 {
		words = append(words, s[start:])
	}
	return words
}

// FindKeyword returns the byte index of the first whole-word, case-insensitive
// occurrence of kw that sits outside literals and parentheses, or -1.
func FindKeyword(s, kw string) int {
	var st State
	depth, n := 0, len(kw)

	for i := 0; i < len(s); i++ {
		c := s[i]
		if st.Normal() {
			switch c {
			case '(':
				depth++
			case ')':
				if depth > 0 {
					depth--
				}
			default:
				if depth == 0 && i+n <= len(s) && strings.EqualFold(s[i:i+n], kw) &&
					(i == 0 || !IsWordByte(s[i-1])) && (i+n == len(s) || !IsWordByte(s[i+n])) {
					return i
				}
			}
		}
		st = st.Next(c)
	}
	return -1
}

// MatchingParen returns the index of the ')' closing the '(' at open, or -1.
func MatchingParen(s string, open int) int {
	var st State
	depth := 0

	for i := open; i < len(s); i++ {
		c := s[i]
		if st.Normal() {
			switch c {
			case '(':
				depth++
			case ')':
				depth--
				if depth == 0 {
					return i
				}
			}
		}
		st = st.Next(c)
	}
	return -1
}

// IndexTopLevel returns the index of the first c outside literals, or -1.
func IndexTopLevel(s string, c byte) int {
	var st State
	for i := 0; i < len(s); i++ {
		if st.Normal() && s[i] == c {
			return i
		}
		st = st.Next(s[i])
	}
	return -1
}

// LeadingWord returns the bare word at the start of s (after whitespace) and
// what follows it. word is empty when s does not start with a bare word.
func LeadingWord(s string) (word, rest string) {
	s = strings.TrimLeft(s, whitespace)
	i := 0
	for i < len(s) && IsWordByte(s[i]) {
		i++
	}
	return s[:i], s[i:]
}

// SkipWords consumes leading bare words while they appear in allowed
// (compared upper-case) and returns the consumed words and the remainder.
func SkipWords(s string, allowed ...string) ([]string, string) {
	var taken []string
	for {
		w, rest := LeadingWord(s)
		if w == "" {
			return taken, s
		}
		up := strings.ToUpper(w)
		found := false
		for _, a := range allowed {
			if up == a {
				found = true
				break
			}
		}
		if !found {
			return taken, s
		}
		taken = append(taken, up)
		s = rest
	}
}
